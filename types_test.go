package docmodel

// Notes:
// - These tests cover the re-exported public surface: format and style
//   enumerations, defaults, and the duplicate policy constants. The
//   underlying validation logic is tested in the internal packages.

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestFormats - Supported format enumeration
// ---------------------------------------------------------------------------

func TestFormats(t *testing.T) {
	t.Parallel()

	formats := Formats()

	if len(formats) != 8 {
		t.Fatalf("Formats() returned %d formats, want 8", len(formats))
	}
	if formats[0] != FormatLaTeX {
		t.Errorf("first format = %q, want %q", formats[0], FormatLaTeX)
	}

	want := []Format{
		FormatLaTeX, FormatBeamer, FormatRevealJS, FormatHTML,
		FormatMJML, FormatEPUB, FormatDocx, FormatPptx,
	}
	for i, f := range want {
		if formats[i] != f {
			t.Errorf("Formats()[%d] = %q, want %q", i, formats[i], f)
		}
	}
}

func TestParseFormat_PublicSurface(t *testing.T) {
	t.Parallel()

	if f, ok := ParseFormat(" HTML "); !ok || f != FormatHTML {
		t.Errorf("ParseFormat(\" HTML \") = %q, %v; want %q, true", f, ok, FormatHTML)
	}
	if _, ok := ParseFormat("rtf"); ok {
		t.Error("ParseFormat(\"rtf\") should not match")
	}
}

// ---------------------------------------------------------------------------
// TestCitationStyles - Supported style enumeration
// ---------------------------------------------------------------------------

func TestCitationStyles(t *testing.T) {
	t.Parallel()

	styles := CitationStyles()

	if len(styles) != 6 {
		t.Fatalf("CitationStyles() returned %d styles, want 6", len(styles))
	}

	want := []CitationStyle{
		StyleAPA, StyleChicago, StyleMLA, StyleHarvard, StyleIEEE, StyleVancouver,
	}
	for i, s := range want {
		if styles[i] != s {
			t.Errorf("CitationStyles()[%d] = %q, want %q", i, styles[i], s)
		}
	}

	if DefaultStyle != StyleAPA {
		t.Errorf("DefaultStyle = %q, want %q", DefaultStyle, StyleAPA)
	}
}

// ---------------------------------------------------------------------------
// TestDefaultOptions - Request defaults
// ---------------------------------------------------------------------------

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()

	if opts == nil {
		t.Fatal("DefaultOptions() returned nil")
	}
	if opts.Bibliography != nil {
		t.Error("default options should not configure a bibliography")
	}
	if opts.Math != nil {
		t.Error("default options should not configure math")
	}
	if len(opts.Frontmatter) != 0 {
		t.Error("default options should not carry front matter overrides")
	}
}

// ---------------------------------------------------------------------------
// TestDuplicatePolicyConstants - Policy constant wiring
// ---------------------------------------------------------------------------

func TestDuplicatePolicyConstants(t *testing.T) {
	t.Parallel()

	if DuplicateFirst != DuplicatePolicy("first") {
		t.Errorf("DuplicateFirst = %q, want %q", DuplicateFirst, "first")
	}
	if DuplicateLast != DuplicatePolicy("last") {
		t.Errorf("DuplicateLast = %q, want %q", DuplicateLast, "last")
	}
}
