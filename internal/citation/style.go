package citation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-docmodel/bibtex"
)

// Style names an in-text and bibliography formatting convention.
type Style string

const (
	StyleAPA       Style = "apa"
	StyleChicago   Style = "chicago"
	StyleMLA       Style = "mla"
	StyleHarvard   Style = "harvard"
	StyleIEEE      Style = "ieee"
	StyleVancouver Style = "vancouver"
)

// DefaultStyle is used when a request does not name one.
const DefaultStyle = StyleAPA

// Styles returns every supported style.
func Styles() []Style {
	return []Style{StyleAPA, StyleChicago, StyleMLA, StyleHarvard, StyleIEEE, StyleVancouver}
}

// Valid reports whether s is a supported style.
func (s Style) Valid() bool {
	switch s {
	case StyleAPA, StyleChicago, StyleMLA, StyleHarvard, StyleIEEE, StyleVancouver:
		return true
	}
	return false
}

// Numeric reports whether s cites by assigned number rather than by
// author and year.
func (s Style) Numeric() bool {
	return s == StyleIEEE || s == StyleVancouver
}

// RenderOptions tune rendering.
type RenderOptions struct {
	// SortField switches numeric numbering from first-occurrence order
	// to alphabetical order of this bibliography field.
	SortField string
}

// Rendered holds one in-text string per citation occurrence and one
// bibliography string per unique key, in the style's list order.
type Rendered struct {
	InText       []string `json:"inText"`
	Bibliography []string `json:"bibliography"`
}

// Render formats resolved records in the requested style. Records
// arrive in document order, one per citation occurrence. An unknown
// style falls back to the default.
func Render(records []Record, style Style, opts RenderOptions) Rendered {
	if !style.Valid() {
		style = DefaultStyle
	}
	if style.Numeric() {
		return renderNumeric(records, style, opts)
	}
	return renderAuthorDate(records, style)
}

// renderNumeric assigns a stable integer per unique key, either by
// first occurrence in the document or alphabetically by the configured
// sort field, and cites by that number.
func renderNumeric(records []Record, style Style, opts RenderOptions) Rendered {
	order, entries := uniqueKeys(records)

	if opts.SortField != "" {
		field := opts.SortField
		sort.SliceStable(order, func(i, j int) bool {
			a := entries[order[i]].Field(field)
			b := entries[order[j]].Field(field)
			if a == "" {
				a = order[i]
			}
			if b == "" {
				b = order[j]
			}
			return strings.ToLower(a) < strings.ToLower(b)
		})
	}

	numbers := make(map[string]int, len(order))
	for i, key := range order {
		numbers[key] = i + 1
	}

	r := Rendered{InText: make([]string, 0, len(records)), Bibliography: make([]string, 0, len(order))}
	for _, rec := range records {
		n := numbers[rec.Key]
		if style == StyleVancouver {
			r.InText = append(r.InText, fmt.Sprintf("(%d)", n))
		} else {
			r.InText = append(r.InText, fmt.Sprintf("[%d]", n))
		}
	}
	for _, key := range order {
		r.Bibliography = append(r.Bibliography, numericEntry(style, numbers[key], entries[key]))
	}
	return r
}

// renderAuthorDate cites by author and year, suffixing the year with
// a, b, c when the same authors published in the same year. Suffixes
// follow the bibliography list order so in-text and list agree.
func renderAuthorDate(records []Record, style Style) Rendered {
	order, entries := uniqueKeys(records)

	listed := make([]string, len(order))
	copy(listed, order)
	sort.SliceStable(listed, func(i, j int) bool {
		a, b := entries[listed[i]], entries[listed[j]]
		la, lb := strings.ToLower(authorLabel(a, style)), strings.ToLower(authorLabel(b, style))
		if la != lb {
			return la < lb
		}
		if ya, yb := yearOf(a), yearOf(b); ya != yb {
			return ya < yb
		}
		return strings.ToLower(titleOf(a)) < strings.ToLower(titleOf(b))
	})

	suffixes := yearSuffixes(listed, entries, style)

	r := Rendered{InText: make([]string, 0, len(records)), Bibliography: make([]string, 0, len(listed))}
	for _, rec := range records {
		entry := entries[rec.Key]
		label := authorLabel(entry, style)
		year := yearOf(entry) + suffixes[rec.Key]
		switch style {
		case StyleChicago:
			r.InText = append(r.InText, fmt.Sprintf("(%s %s)", label, year))
		case StyleMLA:
			r.InText = append(r.InText, fmt.Sprintf("(%s)", label))
		default: // apa, harvard
			r.InText = append(r.InText, fmt.Sprintf("(%s, %s)", label, year))
		}
	}
	for _, key := range listed {
		r.Bibliography = append(r.Bibliography, authorDateEntry(style, entries[key], suffixes[key]))
	}
	return r
}

// yearSuffixes assigns a, b, c to keys whose author label and year
// collide, in listed order.
func yearSuffixes(listed []string, entries map[string]bibtex.Entry, style Style) map[string]string {
	groups := make(map[string][]string)
	for _, key := range listed {
		e := entries[key]
		g := strings.ToLower(authorLabel(e, style)) + "\x00" + yearOf(e)
		groups[g] = append(groups[g], key)
	}

	suffixes := make(map[string]string, len(listed))
	for _, members := range groups {
		if len(members) < 2 {
			for _, key := range members {
				suffixes[key] = ""
			}
			continue
		}
		for i, key := range members {
			suffixes[key] = string(rune('a' + i))
		}
	}
	return suffixes
}

// uniqueKeys returns the distinct keys in first-occurrence order along
// with their entries.
func uniqueKeys(records []Record) ([]string, map[string]bibtex.Entry) {
	var order []string
	entries := make(map[string]bibtex.Entry)
	for _, rec := range records {
		if _, seen := entries[rec.Key]; !seen {
			order = append(order, rec.Key)
			entries[rec.Key] = rec.Entry
		}
	}
	return order, entries
}

func numericEntry(style Style, n int, e bibtex.Entry) string {
	authors := authorsFull(e)
	title := titleOf(e)
	venue := venueOf(e)
	year := yearOf(e)

	if style == StyleVancouver {
		s := fmt.Sprintf("%d. %s. %s.", n, authors, title)
		if venue != "" {
			s += " " + venue + ";"
		}
		return s + " " + year + "."
	}
	s := fmt.Sprintf("[%d] %s, %q,", n, authors, title)
	if venue != "" {
		s += " " + venue + ","
	}
	return s + " " + year + "."
}

func authorDateEntry(style Style, e bibtex.Entry, suffix string) string {
	authors := authorsFull(e)
	title := titleOf(e)
	venue := venueOf(e)
	year := yearOf(e) + suffix

	var s string
	switch style {
	case StyleChicago:
		s = fmt.Sprintf("%s. %s. %s.", authors, year, title)
		if venue != "" {
			s += " " + venue + "."
		}
	case StyleMLA:
		s = fmt.Sprintf("%s. %s.", authors, title)
		if venue != "" {
			s += " " + venue + ","
		}
		s += " " + year + "."
	default: // apa, harvard
		s = fmt.Sprintf("%s (%s). %s.", authors, year, title)
		if venue != "" {
			s += " " + venue + "."
		}
	}
	return s
}

// authorLabel renders the in-text author part: one family name, two
// joined, three or more as "et al."
func authorLabel(e bibtex.Entry, style Style) string {
	names := familyNames(e.Field("author"))
	switch len(names) {
	case 0:
		return e.Key
	case 1:
		return names[0]
	case 2:
		if style == StyleAPA {
			return names[0] + " & " + names[1]
		}
		return names[0] + " and " + names[1]
	default:
		return names[0] + " et al."
	}
}

// familyNames extracts each author's family name from a BibTeX author
// field: "Family, Given" takes the part before the comma, "Given
// Family" the last word, grouping braces stripped.
func familyNames(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	var names []string
	for _, author := range strings.Split(field, " and ") {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}
		if i := strings.IndexByte(author, ','); i >= 0 {
			names = append(names, stripBraces(author[:i]))
			continue
		}
		words := strings.Fields(author)
		names = append(names, stripBraces(words[len(words)-1]))
	}
	return names
}

func authorsFull(e bibtex.Entry) string {
	authors := stripBraces(e.Field("author"))
	if authors == "" {
		return e.Key
	}
	return authors
}

func yearOf(e bibtex.Entry) string {
	if y := strings.TrimSpace(e.Field("year")); y != "" {
		return y
	}
	return "n.d."
}

func titleOf(e bibtex.Entry) string {
	if t := stripBraces(e.Field("title")); t != "" {
		return t
	}
	return "Untitled"
}

func venueOf(e bibtex.Entry) string {
	for _, f := range []string{"journal", "booktitle", "publisher"} {
		if v := stripBraces(e.Field(f)); v != "" {
			return v
		}
	}
	return ""
}

// stripBraces drops BibTeX grouping braces, keeping their content.
func stripBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return strings.TrimSpace(s)
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '}' {
			continue
		}
		sb.WriteByte(s[i])
	}
	return strings.TrimSpace(sb.String())
}
