// Package frontmatter extracts, validates, and re-injects the YAML
// metadata block at the top of a markdown document.
//
// Extraction never fails outward: malformed YAML degrades to "no front
// matter found" and the source passes through untouched. Values are
// never escaped or rewritten here; renderers own escaping.
package frontmatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
	"github.com/alnah/go-docmodel/internal/dateutil"
	"github.com/alnah/go-docmodel/internal/yamlutil"
)

// delimiter opens and closes the metadata block, alone on its line.
const delimiter = "---"

// knownOrder fixes the serialization order of well-known fields on
// injection. Unknown keys follow alphabetically.
var knownOrder = []string{
	ast.FieldTitle,
	ast.FieldAuthor,
	ast.FieldDate,
	ast.FieldTags,
	ast.FieldKeywords,
	ast.FieldDescription,
	ast.FieldLang,
}

// Split separates a leading front matter block from the body. When the
// source does not open with a delimiter line, or the block is
// unterminated, or its YAML does not parse to a mapping, Split returns
// empty metadata and the source unchanged with found=false.
func Split(source string) (md ast.Metadata, content string, found bool) {
	block, body, ok := cut(source)
	if !ok {
		return ast.Metadata{}, source, false
	}
	if strings.TrimSpace(block) == "" {
		return ast.Metadata{}, body, true
	}

	var raw map[string]any
	if err := yamlutil.Unmarshal([]byte(block), &raw); err != nil {
		return ast.Metadata{}, source, false
	}
	if raw == nil {
		return ast.Metadata{}, body, true
	}
	return ast.Metadata(raw), body, true
}

// cut isolates the delimited block. It accepts both \n and \r\n line
// endings and requires the closing delimiter alone on its line.
func cut(source string) (block, body string, ok bool) {
	rest, ok := cutDelimiterLine(source)
	if !ok {
		return "", "", false
	}
	lineStart := 0
	for {
		if after, closed := cutDelimiterLine(rest[lineStart:]); closed {
			return rest[:lineStart], after, true
		}
		if isDelimiterEOF(rest[lineStart:]) {
			return rest[:lineStart], "", true
		}
		idx := strings.Index(rest[lineStart:], "\n")
		if idx < 0 {
			// Ran out of lines without a closing delimiter.
			return "", "", false
		}
		lineStart += idx + 1
	}
}

// cutDelimiterLine strips one "---\n" (or "---\r\n") line from the front
// of s.
func cutDelimiterLine(s string) (rest string, ok bool) {
	if after, found := strings.CutPrefix(s, delimiter+"\r\n"); found {
		return after, true
	}
	if after, found := strings.CutPrefix(s, delimiter+"\n"); found {
		return after, true
	}
	return s, false
}

// isDelimiterEOF reports whether s is a closing delimiter with no final
// newline.
func isDelimiterEOF(s string) bool {
	return s == delimiter || s == delimiter+"\r"
}

// Inject serializes metadata and prepends it to content, the inverse of
// Split. Empty metadata returns the content unchanged. Known fields are
// emitted first in conventional order, remaining keys alphabetically.
func Inject(content string, md ast.Metadata) (string, error) {
	if len(md) == 0 {
		return content, nil
	}

	pairs := make([]yamlutil.Pair, 0, len(md))
	emitted := make(map[string]bool, len(md))
	for _, k := range knownOrder {
		if v, ok := md[k]; ok {
			pairs = append(pairs, yamlutil.Pair{Key: k, Value: v})
			emitted[k] = true
		}
	}
	var rest []string
	for k := range md {
		if !emitted[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		pairs = append(pairs, yamlutil.Pair{Key: k, Value: md[k]})
	}

	data, err := yamlutil.MarshalOrdered(pairs)
	if err != nil {
		return "", fmt.Errorf("serializing front matter: %w", err)
	}

	var b strings.Builder
	b.Grow(len(delimiter)*2 + len(data) + len(content) + 2)
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.Write(data)
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteString(content)
	return b.String(), nil
}

// Validate checks the shapes of known fields and returns one error per
// violated field. A missing title is a warning, never an error.
func Validate(md ast.Metadata) ([]diag.Error, []diag.Warning) {
	var errs []diag.Error
	var warns []diag.Warning

	check := func(field string, code diag.Code, ok bool, want string) {
		if !ok {
			errs = append(errs, diag.Error{
				Code:     code,
				Message:  fmt.Sprintf("%s must be %s", field, want),
				Location: "frontmatter." + field,
			})
		}
	}

	if v, ok := md.Get(ast.FieldTitle); ok {
		_, isStr := v.(string)
		check(ast.FieldTitle, diag.CodeInvalidTitle, isStr, "a string")
	} else {
		warns = append(warns, diag.Warning{
			Code:       diag.WarnMissingTitle,
			Message:    "front matter has no title",
			Suggestion: "add a title field",
		})
	}

	if v, ok := md.Get(ast.FieldAuthor); ok {
		check(ast.FieldAuthor, diag.CodeInvalidAuthor,
			isStringOrStringList(v), "a string or a list of strings")
	}
	if v, ok := md.Get(ast.FieldDate); ok {
		_, isStr := v.(string)
		check(ast.FieldDate, diag.CodeInvalidDate, isStr, "a string")
	}
	if v, ok := md.Get(ast.FieldTags); ok {
		check(ast.FieldTags, diag.CodeInvalidTags,
			isStringList(v), "a list of strings")
	}
	if v, ok := md.Get(ast.FieldKeywords); ok {
		check(ast.FieldKeywords, diag.CodeInvalidKeywords,
			isStringList(v), "a list of strings")
	}
	if v, ok := md.Get(ast.FieldDescription); ok {
		_, isStr := v.(string)
		check(ast.FieldDescription, diag.CodeInvalidDescription, isStr, "a string")
	}
	if v, ok := md.Get(ast.FieldLang); ok {
		_, isStr := v.(string)
		check(ast.FieldLang, diag.CodeInvalidLang, isStr, "a string")
	}

	return errs, warns
}

// Normalize resolves dynamic field values, currently the "auto" date
// syntax, and returns a new Metadata. The input is never modified. The
// time parameter allows injecting a fixed time for testing.
func Normalize(md ast.Metadata, now time.Time) (ast.Metadata, error) {
	date, ok := md.Get(ast.FieldDate)
	if !ok {
		return md.Clone(), nil
	}
	s, isStr := date.(string)
	if !isStr {
		return md.Clone(), nil
	}

	resolved, err := dateutil.ResolveDate(s, now)
	if err != nil {
		return nil, fmt.Errorf("resolving date: %w", err)
	}
	return md.Merge(ast.Metadata{ast.FieldDate: resolved}), nil
}

func isStringOrStringList(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	return isStringList(v)
}

func isStringList(v any) bool {
	switch vv := v.(type) {
	case []string:
		return true
	case []any:
		for _, e := range vv {
			if _, ok := e.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
