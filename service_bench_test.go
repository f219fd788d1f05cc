//go:build bench

package docmodel

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

const benchBibliography = `@article{smith2020,
  author = {Smith, Jane},
  title = {Document Modeling at Scale},
  journal = {Journal of Documentation},
  year = {2020}
}
@book{doe2019,
  author = {Doe, John},
  title = {Typed Trees},
  publisher = {Example Press},
  year = {2019}
}
@article{roe2021,
  author = {Roe, Rita},
  title = {Citation Graphs},
  journal = {Journal of Documentation},
  year = {2021}
}
`

// BenchmarkServiceConvert benchmarks the full checking pipeline through
// the metrics wrapper. Checking is pure computation, so no external
// process is involved.
func BenchmarkServiceConvert(b *testing.B) {
	service := NewService(New())

	ctx := context.Background()

	inputs := []struct {
		name string
		req  Request
	}{
		{
			name: "minimal",
			req: Request{
				ID:      "bench",
				Source:  "# Hello\n\nWorld",
				Format:  FormatLaTeX,
				Options: DefaultOptions(),
			},
		},
		{
			name: "with_frontmatter",
			req: Request{
				ID:      "bench",
				Source:  "---\ntitle: Benchmark\nauthor: Jane Smith\nlang: en\n---\n\n" + generateBenchmarkMarkdown(10),
				Format:  FormatLaTeX,
				Options: DefaultOptions(),
			},
		},
		{
			name: "with_math",
			req: Request{
				ID:      "bench",
				Source:  generateBenchmarkMarkdown(10) + "\nInline $x^2 + y^2 = z^2$ and block:\n\n$$\n\\int_0^1 x \\, dx\n$$\n",
				Format:  FormatLaTeX,
				Options: DefaultOptions(),
			},
		},
		{
			name: "with_citations",
			req: Request{
				ID:     "bench",
				Source: generateBenchmarkMarkdown(10) + "\nAs shown in [@smith2020] and [@doe2019].\n",
				Format: FormatLaTeX,
				Options: &Options{
					Bibliography: &BibliographyOptions{
						Source: benchBibliography,
						Style:  StyleAPA,
					},
				},
			},
		},
		{
			name: "full_features",
			req: Request{
				ID: "bench",
				Source: "---\ntitle: Comprehensive Guide\nauthor: Jane Smith\ndate: 2025-01-08\nlang: en\n---\n\n" +
					generateBenchmarkMarkdown(20) +
					"\nInline $E = mc^2$ math, a citation [@roe2021], and a [link](https://example.com).\n",
				Format: FormatHTML,
				Options: &Options{
					Bibliography: &BibliographyOptions{
						Source:   benchBibliography,
						Style:    StyleIEEE,
						CaseFold: true,
					},
				},
			},
		},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result, err := service.Convert(ctx, input.req)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

// BenchmarkServiceConvertBySize benchmarks checking scaling with document size.
func BenchmarkServiceConvertBySize(b *testing.B) {
	service := NewService(New())

	ctx := context.Background()
	sizes := []int{5, 10, 25, 50, 100}

	for _, size := range sizes {
		req := Request{
			ID:      "bench",
			Source:  "---\ntitle: Benchmark\n---\n\n" + generateBenchmarkMarkdown(size),
			Format:  FormatLaTeX,
			Options: DefaultOptions(),
		}

		b.Run(sizeName(size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result, err := service.Convert(ctx, req)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

func sizeName(size int) string {
	return fmt.Sprintf("sections_%d", size)
}

// BenchmarkServiceConvertParallel benchmarks concurrent checks through
// one shared Service.
func BenchmarkServiceConvertParallel(b *testing.B) {
	service := NewService(New())

	ctx := context.Background()
	req := Request{
		ID:     "bench",
		Source: "---\ntitle: Benchmark\n---\n\n" + generateBenchmarkMarkdown(20),
		Format: FormatLaTeX,
		Options: &Options{
			Bibliography: &BibliographyOptions{
				Source: benchBibliography,
			},
		},
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			result, err := service.Convert(ctx, req)
			if err != nil {
				b.Fatal(err)
			}
			_ = result
		}
	})
}

// BenchmarkNewCitationManager benchmarks bibliography parsing and indexing.
func BenchmarkNewCitationManager(b *testing.B) {
	large := strings.Repeat(benchBibliography, 50)

	bibs := []struct {
		name   string
		source string
	}{
		{"small", benchBibliography},
		{"large", large},
	}

	for _, bib := range bibs {
		opts := &BibliographyOptions{Source: bib.source}

		b.Run(bib.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				mgr, _, err := NewCitationManager(opts)
				if err != nil {
					b.Fatal(err)
				}
				_ = mgr
			}
		})
	}
}

// Helper function for generating benchmark markdown
func generateBenchmarkMarkdown(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Document Title\n\n")
	sb.WriteString("Introduction paragraph with **bold** and *italic* text.\n\n")

	for i := 0; i < sections; i++ {
		level := (i % 3) + 1
		sb.WriteString(strings.Repeat("#", level+1))
		sb.WriteString(" Section ")
		sb.WriteString(string(rune('A' + (i % 26))))
		sb.WriteString("\n\n")
		sb.WriteString("This is a paragraph with some content. ")
		sb.WriteString("It includes [links](https://example.com) and `inline code`.\n\n")

		sb.WriteString("- Item one\n")
		sb.WriteString("- Item two\n")
		sb.WriteString("- Item three\n\n")

		if i%3 == 0 {
			sb.WriteString("```go\nfunc main() {\n    fmt.Println(\"Hello\")\n}\n```\n\n")
		}

		if i%5 == 0 {
			sb.WriteString("| A | B | C |\n|---|---|---|\n| 1 | 2 | 3 |\n\n")
		}
	}

	return sb.String()
}
