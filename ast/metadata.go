package ast

import "sort"

// Metadata is the front matter of a document: string keys mapping to
// scalar values, string lists, or opaque passthrough values for unknown
// keys. Treat extracted metadata as immutable; Merge returns a new map
// and never writes through the receiver.
type Metadata map[string]any

// Known front matter fields with validated shapes. Unknown keys pass
// through untouched.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDate        = "date"
	FieldTags        = "tags"
	FieldKeywords    = "keywords"
	FieldDescription = "description"
	FieldLang        = "lang"
)

// Get returns the raw value for key.
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is present, regardless of value.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Title returns the title field, or "" when absent or not a string.
func (m Metadata) Title() string { return m.stringField(FieldTitle) }

// Date returns the date field, or "" when absent or not a string.
func (m Metadata) Date() string { return m.stringField(FieldDate) }

// Description returns the description field, or "" when absent or not a
// string.
func (m Metadata) Description() string { return m.stringField(FieldDescription) }

// Lang returns the language field, or "" when absent or not a string.
func (m Metadata) Lang() string { return m.stringField(FieldLang) }

// Authors normalizes the author field: a scalar string yields a single
// element, a list of strings yields them in order. Other shapes yield nil.
func (m Metadata) Authors() []string {
	v, ok := m[FieldAuthor]
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		return []string{s}
	}
	return stringList(v)
}

// Tags returns the tags field as a fresh string slice, or nil.
func (m Metadata) Tags() []string { return stringList(m[FieldTags]) }

// Keywords returns the keywords field as a fresh string slice, or nil.
func (m Metadata) Keywords() []string { return stringList(m[FieldKeywords]) }

// Keys returns all keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy. Slice values are copied one level
// deep so callers cannot reach back into the original through them.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a new Metadata where override's keys replace the
// receiver's. A key missing from override leaves the base value
// untouched: absence never deletes. List values are replaced wholesale,
// never concatenated. Neither input is modified.
func (m Metadata) Merge(override Metadata) Metadata {
	out := m.Clone()
	for k, v := range override {
		out[k] = cloneValue(v)
	}
	return out
}

func (m Metadata) stringField(key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// stringList converts []string or []any-of-strings to a fresh []string.
// Any non-string element disqualifies the whole value.
func stringList(v any) []string {
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]any, len(vv))
		copy(out, vv)
		return out
	default:
		return v
	}
}
