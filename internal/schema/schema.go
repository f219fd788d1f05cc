// Package schema defines the conversion request model and validates
// requests against a declarative rule table before any content work
// happens.
//
// Validation is purely structural: it never parses the source or the
// bibliography, and it collects every violation instead of stopping at
// the first. Overlapping findings are deduplicated so each field
// surfaces one error code.
package schema

import (
	"strings"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/bibtex"
	"github.com/alnah/go-docmodel/internal/citation"
)

// Format identifies one output format in a closed enumeration shared by
// the validator and callers' allow-lists.
type Format string

const (
	FormatLaTeX    Format = "latex"
	FormatBeamer   Format = "beamer"
	FormatRevealJS Format = "revealjs"
	FormatHTML     Format = "html"
	FormatMJML     Format = "mjml"
	FormatEPUB     Format = "epub"
	FormatDocx     Format = "docx"
	FormatPptx     Format = "pptx"
)

// Formats returns every known output format.
func Formats() []Format {
	return []Format{
		FormatLaTeX, FormatBeamer, FormatRevealJS, FormatHTML,
		FormatMJML, FormatEPUB, FormatDocx, FormatPptx,
	}
}

// ParseFormat matches s against the known formats, ignoring case and
// surrounding space.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return known, true
		}
	}
	return "", false
}

// Valid reports whether f is a known format in canonical form.
func (f Format) Valid() bool {
	_, ok := ParseFormat(string(f))
	return ok && f == Format(strings.ToLower(string(f)))
}

// DuplicatePolicy selects the winning occurrence for duplicated
// bibliography keys, in request form.
type DuplicatePolicy string

const (
	// DuplicateFirst keeps the first occurrence. The default.
	DuplicateFirst DuplicatePolicy = "first"
	// DuplicateLast keeps the last occurrence.
	DuplicateLast DuplicatePolicy = "last"
)

// Policy maps the request form onto the parser's policy type.
func (p DuplicatePolicy) Policy() bibtex.DuplicatePolicy {
	if p == DuplicateLast {
		return bibtex.LastWins
	}
	return bibtex.FirstWins
}

// Request is one conversion request: a markdown source plus the options
// steering its conversion.
type Request struct {
	// ID identifies the request in pipeline state and logs. Required.
	ID string `json:"id"`
	// Source is the raw markdown, front matter included. Required.
	Source string `json:"source"`
	// Format names the output format the caller targets.
	Format Format `json:"format"`
	// Options carries conversion options. Required, if only empty.
	Options *Options `json:"options"`
}

// Options carry the optional sub-configurations of a request.
type Options struct {
	// Frontmatter overrides merge over the extracted front matter,
	// right-biased.
	Frontmatter ast.Metadata `json:"frontmatter,omitempty"`
	// Bibliography enables citation resolution when present.
	Bibliography *BibliographyOptions `json:"bibliography,omitempty"`
	// Math tunes math validation.
	Math *MathOptions `json:"math,omitempty"`
}

// BibliographyOptions configure citation resolution and rendering.
type BibliographyOptions struct {
	// Source is the raw BibTeX text. Required when Bibliography is set.
	Source string `json:"source"`
	// Style names the citation style. Empty selects the default.
	Style citation.Style `json:"style,omitempty"`
	// SortField switches numeric numbering to alphabetical order of
	// this field.
	SortField string `json:"sortField,omitempty"`
	// CaseFold makes citation key matching case-insensitive.
	CaseFold bool `json:"caseFold,omitempty"`
	// Duplicates picks the winner for duplicated bibliography keys.
	Duplicates DuplicatePolicy `json:"duplicates,omitempty"`
}

// MathOptions tune math validation.
type MathOptions struct {
	// Engine names a registered external checker. Empty uses the
	// built-in syntactic checker.
	Engine string `json:"engine,omitempty"`
	// Skip disables math validation entirely.
	Skip bool `json:"skip,omitempty"`
}

// DefaultOptions returns an empty but present options block.
func DefaultOptions() *Options {
	return &Options{}
}
