package openapi

import (
	"sort"
	"strings"
)

// RefKey is the JSON key that marks a reference pointer.
const RefKey = "$ref"

// RefSet is an unordered set of referenced definition names.
type RefSet map[string]struct{}

// NewRefSet returns a set holding names.
func NewRefSet(names ...string) RefSet {
	s := make(RefSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name into the set.
func (s RefSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s RefSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names in the set.
func (s RefSet) Len() int {
	return len(s)
}

// Union adds every name of other to s.
func (s RefSet) Union(other RefSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Minus returns a new set with the names of s that are not in other.
func (s RefSet) Minus(other RefSet) RefSet {
	out := make(RefSet, len(s))
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Sorted returns the names in lexical order.
func (s RefSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RefName returns the definition name a pointer such as
// "#/definitions/Volume" refers to: its last path segment.
func RefName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// ExtractRefs collects the names of every $ref found anywhere in v.
// The value of a $ref entry is not descended into.
func ExtractRefs(v any) RefSet {
	refs := make(RefSet)
	collectRefs(v, refs)
	return refs
}

func collectRefs(v any, refs RefSet) {
	switch t := v.(type) {
	case map[string]any:
		for key, val := range t {
			if key == RefKey {
				// Non-string values are not pointers; a property literally
				// named "$ref" holds a schema object and is skipped too.
				if ref, ok := val.(string); ok {
					refs.Add(RefName(ref))
				}
				continue
			}
			collectRefs(val, refs)
		}
	case []any:
		for _, item := range t {
			collectRefs(item, refs)
		}
	}
}
