// Package routemap holds the per-artifact route surface: an ordered mapping
// from canonical route key to the parameter set that artifact declares.
package routemap

import "sort"

// Entry is the declared surface of one route.
type Entry struct {
	// Params holds every declared parameter name for the route.
	Params map[string]struct{}
	// PathParams is the subset of Params that the path template itself
	// declares. Tracked separately so the reconciler can exclude them
	// without guessing from the key text.
	PathParams map[string]struct{}
	// Verb is the upper-case HTTP verb when known, "" otherwise.
	Verb string
	// Handler, File and Line locate the declaration the entry came from.
	// Spec-derived entries leave them zero.
	Handler string
	File    string
	Line    int
}

// Table maps canonical route keys to entries, preserving insertion order.
// First insertion wins; later Add calls for the same key are ignored.
type Table struct {
	keys    []string
	entries map[string]Entry
}

func New() *Table {
	return &Table{entries: map[string]Entry{}}
}

// Add records key -> e. Returns false when the key was already present.
func (t *Table) Add(key string, e Entry) bool {
	if _, ok := t.entries[key]; ok {
		return false
	}
	t.keys = append(t.keys, key)
	t.entries[key] = e
	return true
}

func (t *Table) Get(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Keys returns the route keys in insertion order.
func (t *Table) Keys() []string {
	return t.keys
}

func (t *Table) Len() int {
	return len(t.keys)
}

// ParamSet builds a set from names.
func ParamSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// SortedNames returns the set's members sorted, for deterministic output.
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
