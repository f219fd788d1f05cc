package schema

import (
	"fmt"
	"strings"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
	"github.com/alnah/go-docmodel/internal/citation"
	"github.com/alnah/go-docmodel/internal/frontmatter"
)

// ruleFunc checks one aspect of a request and returns its violations.
type ruleFunc func(v *Validator, r Request) []diag.Error

// requestRules is the rule table applied in order by ValidateRequest.
var requestRules = []ruleFunc{
	ruleID,
	ruleSource,
	ruleFormat,
	ruleOptions,
	ruleBibliography,
	ruleFrontmatterShape,
}

// Validator validates requests against the closed format enumeration
// and a caller-supplied allow-list.
type Validator struct {
	allowed map[Format]bool
}

// New creates a Validator accepting the given formats. With no formats
// given, every known format is allowed.
func New(allowed ...Format) *Validator {
	if len(allowed) == 0 {
		allowed = Formats()
	}
	m := make(map[Format]bool, len(allowed))
	for _, f := range allowed {
		m[f] = true
	}
	return &Validator{allowed: m}
}

// ValidateRequest applies every rule and returns the deduplicated
// violations. All rules run; nothing short-circuits.
func (v *Validator) ValidateRequest(r Request) ([]diag.Error, []diag.Warning) {
	var errs []diag.Error
	for _, rule := range requestRules {
		errs = append(errs, rule(v, r)...)
	}
	return dedupe(errs), []diag.Warning{}
}

// ValidateFrontmatter checks known-field shapes of a front matter map
// in isolation.
func ValidateFrontmatter(md ast.Metadata) ([]diag.Error, []diag.Warning) {
	return frontmatter.Validate(md)
}

// ValidateBibliographyOptions checks a bibliography options block in
// isolation.
func ValidateBibliographyOptions(o *BibliographyOptions) []diag.Error {
	if o == nil {
		return nil
	}
	var errs []diag.Error
	if strings.TrimSpace(o.Source) == "" {
		errs = append(errs, diag.Error{
			Code:        diag.CodeMissingBibliography,
			Message:     "bibliography requested but no source provided",
			Location:    "options.bibliography.source",
			Suggestions: []string{"provide BibTeX source text", "drop the bibliography options"},
		})
	}
	if o.Style != "" && !o.Style.Valid() {
		errs = append(errs, diag.Error{
			Code:        diag.CodeInvalidStyle,
			Message:     fmt.Sprintf("unknown citation style %q", string(o.Style)),
			Location:    "options.bibliography.style",
			Suggestions: styleSuggestions(),
		})
	}
	if o.Duplicates != "" && o.Duplicates != DuplicateFirst && o.Duplicates != DuplicateLast {
		errs = append(errs, diag.Error{
			Code:        diag.CodeInvalidRequest,
			Message:     fmt.Sprintf("unknown duplicate policy %q", string(o.Duplicates)),
			Location:    "options.bibliography.duplicates",
			Suggestions: []string{`use "first" or "last"`},
		})
	}
	return errs
}

func ruleID(_ *Validator, r Request) []diag.Error {
	if strings.TrimSpace(r.ID) != "" {
		return nil
	}
	return []diag.Error{{
		Code:     diag.CodeMissingID,
		Message:  "request id is required",
		Location: "id",
	}}
}

func ruleSource(_ *Validator, r Request) []diag.Error {
	if strings.TrimSpace(r.Source) != "" {
		return nil
	}
	return []diag.Error{{
		Code:     diag.CodeMissingSource,
		Message:  "request source is required",
		Location: "source",
	}}
}

// ruleFormat runs the two independent format checks: membership in the
// closed enumeration, then membership in the allow-list. An unknown
// format reports only the first; the allow-list is meaningless for it.
func ruleFormat(v *Validator, r Request) []diag.Error {
	canonical, ok := ParseFormat(string(r.Format))
	if !ok {
		return []diag.Error{{
			Code:        diag.CodeInvalidFormat,
			Message:     fmt.Sprintf("unknown output format %q", string(r.Format)),
			Location:    "format",
			Suggestions: formatSuggestions(),
		}}
	}
	if !v.allowed[canonical] {
		return []diag.Error{{
			Code:        diag.CodeUnsupportedFormat,
			Message:     fmt.Sprintf("output format %q is not enabled for this caller", string(canonical)),
			Location:    "format",
			Suggestions: []string{"pick a format from the caller's supported list"},
		}}
	}
	return nil
}

func ruleOptions(_ *Validator, r Request) []diag.Error {
	if r.Options != nil {
		return nil
	}
	return []diag.Error{{
		Code:        diag.CodeMissingOptions,
		Message:     "request options are required",
		Location:    "options",
		Suggestions: []string{"pass an empty options block when no tuning is needed"},
	}}
}

func ruleBibliography(_ *Validator, r Request) []diag.Error {
	if r.Options == nil {
		return nil
	}
	return ValidateBibliographyOptions(r.Options.Bibliography)
}

// ruleFrontmatterShape checks caller-supplied front matter overrides.
// Only shape errors apply here; the missing-title warning concerns
// extracted document front matter, not overrides.
func ruleFrontmatterShape(_ *Validator, r Request) []diag.Error {
	if r.Options == nil || r.Options.Frontmatter == nil {
		return nil
	}
	errs, _ := frontmatter.Validate(r.Options.Frontmatter)
	return errs
}

// dedupe keeps the first finding per field and drops findings whose
// message is contained in, or contains, an already kept one.
func dedupe(errs []diag.Error) []diag.Error {
	out := []diag.Error{}
	for _, e := range errs {
		dup := false
		for _, kept := range out {
			if kept.Location != "" && kept.Location == e.Location {
				dup = true
				break
			}
			if messagesOverlap(kept.Message, e.Message) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

func messagesOverlap(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func formatSuggestions() []string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return []string{"use one of: " + strings.Join(names, ", ")}
}

func styleSuggestions() []string {
	names := make([]string, 0, len(citation.Styles()))
	for _, s := range citation.Styles() {
		names = append(names, string(s))
	}
	return []string{"use one of: " + strings.Join(names, ", ")}
}
