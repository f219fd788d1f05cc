package bibtex

import "strings"

// DuplicatePolicy selects which occurrence wins when a bibliography
// defines the same key more than once.
type DuplicatePolicy int

const (
	// FirstWins keeps the first occurrence of a duplicated key.
	FirstWins DuplicatePolicy = iota
	// LastWins keeps the last occurrence of a duplicated key.
	LastWins
)

// IndexOptions configure key lookup behavior.
type IndexOptions struct {
	// Duplicates selects the winning occurrence for duplicated keys.
	Duplicates DuplicatePolicy
	// CaseFold makes key lookup case-insensitive.
	CaseFold bool
}

// Index is a key lookup table over parsed entries. Build one per parsed
// bibliography; lookups are pure and the index never changes after
// construction.
type Index struct {
	byKey      map[string]Entry
	duplicates []string
	caseFold   bool
}

// NewIndex builds a lookup table from entries in order, applying the
// duplicate policy. Duplicated keys (as seen under the configured case
// folding) are recorded once each, in first-collision order.
func NewIndex(entries []Entry, opts IndexOptions) *Index {
	ix := &Index{
		byKey:    make(map[string]Entry, len(entries)),
		caseFold: opts.CaseFold,
	}
	seenDup := make(map[string]bool)
	for _, e := range entries {
		k := ix.fold(e.Key)
		if _, exists := ix.byKey[k]; exists {
			if !seenDup[k] {
				seenDup[k] = true
				ix.duplicates = append(ix.duplicates, e.Key)
			}
			if opts.Duplicates == LastWins {
				ix.byKey[k] = e
			}
			continue
		}
		ix.byKey[k] = e
	}
	return ix
}

// Lookup returns the entry for key under the index's case policy. The
// returned entry is an independent copy.
func (ix *Index) Lookup(key string) (Entry, bool) {
	e, ok := ix.byKey[ix.fold(key)]
	if !ok {
		return Entry{}, false
	}
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	e.Fields = fields
	return e, true
}

// Duplicates returns the keys that collided during construction, one per
// key, in first-collision order.
func (ix *Index) Duplicates() []string {
	out := make([]string, len(ix.duplicates))
	copy(out, ix.duplicates)
	return out
}

// Len returns the number of distinct indexed keys.
func (ix *Index) Len() int { return len(ix.byKey) }

func (ix *Index) fold(key string) string {
	if ix.caseFold {
		return strings.ToLower(key)
	}
	return key
}
