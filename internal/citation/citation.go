// Package citation resolves citation keys against a parsed bibliography
// and renders resolved records in a requested citation style.
//
// A Manager owns one bibliography index for its lifetime. Resolution is
// pure: the same key always yields the same record. Key matching follows
// whatever duplicate and case policy the index was built with.
package citation

import (
	"fmt"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/bibtex"
	"github.com/alnah/go-docmodel/diag"
)

// Record pairs a citation key with the bibliography entry it resolved
// to. Records are immutable once produced.
type Record struct {
	Key   string       `json:"key"`
	Entry bibtex.Entry `json:"entry"`
}

// Stats summarizes resolution over an ordered key list. Total counts
// occurrences, Resolved the occurrences whose key resolved, Unresolved
// the distinct unresolved keys in first-occurrence order.
type Stats struct {
	Total      int      `json:"total"`
	Resolved   int      `json:"resolved"`
	Unresolved []string `json:"unresolved"`
}

// Warnings converts unresolved keys into advisory warnings.
func (s Stats) Warnings() []diag.Warning {
	warns := make([]diag.Warning, 0, len(s.Unresolved))
	for _, key := range s.Unresolved {
		warns = append(warns, diag.Warning{
			Code:       diag.WarnUnresolvedCitation,
			Message:    fmt.Sprintf("citation key %q not found in bibliography", key),
			Suggestion: "add the entry to the bibliography or fix the key",
		})
	}
	return warns
}

// Manager binds citation operations to one bibliography index.
type Manager struct {
	idx *bibtex.Index
}

// NewManager creates a Manager over a parsed bibliography index.
func NewManager(idx *bibtex.Index) *Manager {
	return &Manager{idx: idx}
}

// ExtractKeys walks the tree depth-first and collects every citation
// key in document order. Keys are not de-duplicated: a key cited three
// times appears three times.
func ExtractKeys(doc *ast.Document) []string {
	keys := []string{}
	_ = doc.Walk(func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Citation:
			keys = append(keys, t.Keys...)
		case *ast.CitationRef:
			keys = append(keys, t.Key)
		}
		return ast.WalkContinue, nil
	})
	return keys
}

// Resolve looks the key up in the bibliography. The boolean reports
// whether the key resolved.
func (m *Manager) Resolve(key string) (Record, bool) {
	entry, ok := m.idx.Lookup(key)
	if !ok {
		return Record{}, false
	}
	return Record{Key: key, Entry: entry}, true
}

// Records resolves an ordered key list, dropping unresolved keys while
// preserving occurrence order.
func (m *Manager) Records(keys []string) []Record {
	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		if rec, ok := m.Resolve(key); ok {
			records = append(records, rec)
		}
	}
	return records
}

// Stats computes resolution counts over an ordered key list.
func (m *Manager) Stats(keys []string) Stats {
	st := Stats{Total: len(keys), Unresolved: []string{}}
	seen := map[string]bool{}
	for _, key := range keys {
		if _, ok := m.idx.Lookup(key); ok {
			st.Resolved++
			continue
		}
		if !seen[key] {
			seen[key] = true
			st.Unresolved = append(st.Unresolved, key)
		}
	}
	return st
}
