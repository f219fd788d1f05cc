package docmodel

import (
	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
	"github.com/alnah/go-docmodel/internal/citation"
	"github.com/alnah/go-docmodel/internal/schema"
)

// Request is one conversion request: a markdown source plus the
// options steering its conversion.
type Request = schema.Request

// Options carries the optional knobs of a request.
type Options = schema.Options

// BibliographyOptions configure citation resolution and rendering.
type BibliographyOptions = schema.BibliographyOptions

// MathOptions tune math validation.
type MathOptions = schema.MathOptions

// DefaultOptions returns the options a bare request gets.
func DefaultOptions() *Options {
	return schema.DefaultOptions()
}

// Format identifies one supported output format.
type Format = schema.Format

// Supported output formats.
const (
	FormatLaTeX    = schema.FormatLaTeX
	FormatBeamer   = schema.FormatBeamer
	FormatRevealJS = schema.FormatRevealJS
	FormatHTML     = schema.FormatHTML
	FormatMJML     = schema.FormatMJML
	FormatEPUB     = schema.FormatEPUB
	FormatDocx     = schema.FormatDocx
	FormatPptx     = schema.FormatPptx
)

// Formats returns every supported format in stable order.
func Formats() []Format {
	return schema.Formats()
}

// ParseFormat normalizes a format identifier. The boolean reports
// whether the identifier is known.
func ParseFormat(s string) (Format, bool) {
	return schema.ParseFormat(s)
}

// DuplicatePolicy selects the winner for duplicated bibliography keys.
type DuplicatePolicy = schema.DuplicatePolicy

const (
	DuplicateFirst = schema.DuplicateFirst
	DuplicateLast  = schema.DuplicateLast
)

// CitationStyle names an in-text and bibliography formatting
// convention.
type CitationStyle = citation.Style

// Supported citation styles.
const (
	StyleAPA       = citation.StyleAPA
	StyleChicago   = citation.StyleChicago
	StyleMLA       = citation.StyleMLA
	StyleHarvard   = citation.StyleHarvard
	StyleIEEE      = citation.StyleIEEE
	StyleVancouver = citation.StyleVancouver

	// DefaultStyle is used when a request does not name one.
	DefaultStyle = citation.DefaultStyle
)

// CitationStyles returns every supported style in stable order.
func CitationStyles() []CitationStyle {
	return citation.Styles()
}

// CitationRecord pairs a citation key with its resolved bibliography
// entry.
type CitationRecord = citation.Record

// CitationStats summarizes citation resolution over one document.
type CitationStats = citation.Stats

// RenderedCitations holds in-text markers and bibliography lines
// produced by a citation style.
type RenderedCitations = citation.Rendered

// ConvertResult is the outcome of one conversion: the typed document
// tree, its metadata, citation output when a bibliography was
// configured, the aggregated diagnostics, and the pipeline record.
type ConvertResult struct {
	Tree        *ast.Document      `json:"tree"`
	Frontmatter ast.Metadata       `json:"frontmatter"`
	Citations   *CitationStats     `json:"citations,omitempty"`
	Records     []CitationRecord   `json:"records,omitempty"`
	Rendered    *RenderedCitations `json:"rendered,omitempty"`
	Validation  diag.Result        `json:"validation"`
	Pipeline    PipelineData       `json:"pipeline"`
}
