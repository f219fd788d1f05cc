package main

// Notes:
// - parseCheckFlags: we test all flag combinations including short/long forms,
//   boolean flags, value flags, and positional arguments.
// - We don't test flag.Parse() internals (pflag library responsibility).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseCheckFlags - CLI flag parsing
// ---------------------------------------------------------------------------

func TestParseCheckFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantConfig     string
		wantOutput     string
		wantFormat     string
		wantQuiet      bool
		wantVerbose    bool
		wantWatch      bool
		wantJSON       bool
		wantStrict     bool
		wantPositional []string
		wantErr        bool
	}{
		{
			name:           "no args",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "single file",
			args:           []string{"doc.md"},
			wantPositional: []string{"doc.md"},
		},
		{
			name:           "config flag",
			args:           []string{"--config", "work"},
			wantConfig:     "work",
			wantPositional: []string{},
		},
		{
			name:           "output flag short",
			args:           []string{"-o", "./reports/"},
			wantOutput:     "./reports/",
			wantPositional: []string{},
		},
		{
			name:           "format flag",
			args:           []string{"--format", "html"},
			wantFormat:     "html",
			wantPositional: []string{},
		},
		{
			name:           "quiet flag",
			args:           []string{"--quiet"},
			wantQuiet:      true,
			wantPositional: []string{},
		},
		{
			name:           "verbose flag",
			args:           []string{"--verbose"},
			wantVerbose:    true,
			wantPositional: []string{},
		},
		{
			name:           "watch flag",
			args:           []string{"--watch", "docs/"},
			wantWatch:      true,
			wantPositional: []string{"docs/"},
		},
		{
			name:           "json flag",
			args:           []string{"--json", "doc.md"},
			wantJSON:       true,
			wantPositional: []string{"doc.md"},
		},
		{
			name:           "strict flag",
			args:           []string{"--strict", "doc.md"},
			wantStrict:     true,
			wantPositional: []string{"doc.md"},
		},
		{
			name:           "all flags with file",
			args:           []string{"--config", "work", "-o", "report.json", "--format", "epub", "--verbose", "doc.md"},
			wantConfig:     "work",
			wantOutput:     "report.json",
			wantFormat:     "epub",
			wantVerbose:    true,
			wantPositional: []string{"doc.md"},
		},
		{
			name:    "unknown flag returns error",
			args:    []string{"--unknown"},
			wantErr: true,
		},
		{
			name:           "flags after positional argument",
			args:           []string{"doc.md", "-o", "./reports/", "--verbose"},
			wantOutput:     "./reports/",
			wantVerbose:    true,
			wantPositional: []string{"doc.md"},
		},
		{
			name:           "short flags",
			args:           []string{"-c", "work", "-q", "-v", "doc.md"},
			wantConfig:     "work",
			wantQuiet:      true,
			wantVerbose:    true,
			wantPositional: []string{"doc.md"},
		},
		{
			name:           "mixed long and short flags",
			args:           []string{"--config", "work", "-o", "./reports/", "doc.md", "-v"},
			wantConfig:     "work",
			wantOutput:     "./reports/",
			wantVerbose:    true,
			wantPositional: []string{"doc.md"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseCheckFlags(tt.args)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if flags.common.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.common.config, tt.wantConfig)
			}
			if flags.output != tt.wantOutput {
				t.Errorf("output = %q, want %q", flags.output, tt.wantOutput)
			}
			if flags.document.format != tt.wantFormat {
				t.Errorf("format = %q, want %q", flags.document.format, tt.wantFormat)
			}
			if flags.common.quiet != tt.wantQuiet {
				t.Errorf("quiet = %v, want %v", flags.common.quiet, tt.wantQuiet)
			}
			if flags.common.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", flags.common.verbose, tt.wantVerbose)
			}
			if flags.watch != tt.wantWatch {
				t.Errorf("watch = %v, want %v", flags.watch, tt.wantWatch)
			}
			if flags.jsonOutput != tt.wantJSON {
				t.Errorf("jsonOutput = %v, want %v", flags.jsonOutput, tt.wantJSON)
			}
			if flags.strict != tt.wantStrict {
				t.Errorf("strict = %v, want %v", flags.strict, tt.wantStrict)
			}
			if len(positional) != len(tt.wantPositional) {
				t.Errorf("positional args = %v, want %v", positional, tt.wantPositional)
			}
			for i := range positional {
				if positional[i] != tt.wantPositional[i] {
					t.Errorf("positional[%d] = %q, want %q", i, positional[i], tt.wantPositional[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseCheckFlags_DocumentAndBibliography - Extended flag set
// ---------------------------------------------------------------------------

func TestParseCheckFlags_DocumentAndBibliography(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, flags *checkFlags)
	}{
		{
			name: "doc-title flag",
			args: []string{"--doc-title", "My Document"},
			check: func(t *testing.T, f *checkFlags) {
				if f.document.title != "My Document" {
					t.Errorf("document.title = %q, want %q", f.document.title, "My Document")
				}
			},
		},
		{
			name: "doc-author flag",
			args: []string{"--doc-author", "Jane Doe"},
			check: func(t *testing.T, f *checkFlags) {
				if f.document.author != "Jane Doe" {
					t.Errorf("document.author = %q, want %q", f.document.author, "Jane Doe")
				}
			},
		},
		{
			name: "doc-date flag",
			args: []string{"--doc-date", "auto"},
			check: func(t *testing.T, f *checkFlags) {
				if f.document.date != "auto" {
					t.Errorf("document.date = %q, want %q", f.document.date, "auto")
				}
			},
		},
		{
			name: "doc-lang flag",
			args: []string{"--doc-lang", "fr"},
			check: func(t *testing.T, f *checkFlags) {
				if f.document.lang != "fr" {
					t.Errorf("document.lang = %q, want %q", f.document.lang, "fr")
				}
			},
		},
		{
			name: "bib flag short form",
			args: []string{"-b", "refs.bib"},
			check: func(t *testing.T, f *checkFlags) {
				if f.bibliography.path != "refs.bib" {
					t.Errorf("bibliography.path = %q, want %q", f.bibliography.path, "refs.bib")
				}
			},
		},
		{
			name: "style flag short form",
			args: []string{"-s", "ieee"},
			check: func(t *testing.T, f *checkFlags) {
				if f.bibliography.style != "ieee" {
					t.Errorf("bibliography.style = %q, want %q", f.bibliography.style, "ieee")
				}
			},
		},
		{
			name: "sort-field flag",
			args: []string{"--sort-field", "author"},
			check: func(t *testing.T, f *checkFlags) {
				if f.bibliography.sortField != "author" {
					t.Errorf("bibliography.sortField = %q, want %q", f.bibliography.sortField, "author")
				}
			},
		},
		{
			name: "case-fold flag",
			args: []string{"--case-fold"},
			check: func(t *testing.T, f *checkFlags) {
				if !f.bibliography.caseFold {
					t.Error("bibliography.caseFold should be true")
				}
			},
		},
		{
			name: "dup-policy flag",
			args: []string{"--dup-policy", "last"},
			check: func(t *testing.T, f *checkFlags) {
				if f.bibliography.dupPolicy != "last" {
					t.Errorf("bibliography.dupPolicy = %q, want %q", f.bibliography.dupPolicy, "last")
				}
			},
		},
		{
			name: "engine flag",
			args: []string{"--engine", "katex"},
			check: func(t *testing.T, f *checkFlags) {
				if f.math.engine != "katex" {
					t.Errorf("math.engine = %q, want %q", f.math.engine, "katex")
				}
			},
		},
		{
			name: "no-math flag",
			args: []string{"--no-math"},
			check: func(t *testing.T, f *checkFlags) {
				if !f.math.skip {
					t.Error("math.skip should be true")
				}
			},
		},
		{
			name: "timeout flag long form",
			args: []string{"--timeout", "2m"},
			check: func(t *testing.T, f *checkFlags) {
				if f.timeout != "2m" {
					t.Errorf("timeout = %q, want %q", f.timeout, "2m")
				}
			},
		},
		{
			name: "timeout flag short form",
			args: []string{"-t", "30s"},
			check: func(t *testing.T, f *checkFlags) {
				if f.timeout != "30s" {
					t.Errorf("timeout = %q, want %q", f.timeout, "30s")
				}
			},
		},
		{
			name: "workers flag",
			args: []string{"--workers", "4"},
			check: func(t *testing.T, f *checkFlags) {
				if f.workers != 4 {
					t.Errorf("workers = %d, want %d", f.workers, 4)
				}
			},
		},
		{
			name: "all bibliography flags combined",
			args: []string{
				"-b", "refs.bib",
				"-s", "vancouver",
				"--sort-field", "year",
				"--case-fold",
				"--dup-policy", "first",
			},
			check: func(t *testing.T, f *checkFlags) {
				if f.bibliography.path != "refs.bib" {
					t.Errorf("bibliography.path = %q, want %q", f.bibliography.path, "refs.bib")
				}
				if f.bibliography.style != "vancouver" {
					t.Errorf("bibliography.style = %q, want %q", f.bibliography.style, "vancouver")
				}
				if f.bibliography.sortField != "year" {
					t.Errorf("bibliography.sortField = %q, want %q", f.bibliography.sortField, "year")
				}
				if !f.bibliography.caseFold {
					t.Error("bibliography.caseFold should be true")
				}
				if f.bibliography.dupPolicy != "first" {
					t.Errorf("bibliography.dupPolicy = %q, want %q", f.bibliography.dupPolicy, "first")
				}
			},
		},
		{
			name: "timeout with other flags",
			args: []string{"--timeout", "5m", "--workers", "4", "-o", "report.json"},
			check: func(t *testing.T, f *checkFlags) {
				if f.timeout != "5m" {
					t.Errorf("timeout = %q, want %q", f.timeout, "5m")
				}
				if f.workers != 4 {
					t.Errorf("workers = %d, want %d", f.workers, 4)
				}
				if f.output != "report.json" {
					t.Errorf("output = %q, want %q", f.output, "report.json")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseCheckFlags(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, flags)
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseCheckFlags_PositionalArgs - Positional argument handling
// ---------------------------------------------------------------------------

func TestParseCheckFlags_PositionalArgs(t *testing.T) {
	t.Parallel()

	flags, positional, err := parseCheckFlags([]string{"--doc-author", "Jane", "doc.md", "doc2.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flags.document.author != "Jane" {
		t.Errorf("document.author = %q, want %q", flags.document.author, "Jane")
	}
	if len(positional) != 2 {
		t.Fatalf("positional count = %d, want 2", len(positional))
	}
	if positional[0] != "doc.md" {
		t.Errorf("positional[0] = %q, want %q", positional[0], "doc.md")
	}
	if positional[1] != "doc2.md" {
		t.Errorf("positional[1] = %q, want %q", positional[1], "doc2.md")
	}
}
