package openapi

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// RootReferrer names the referrer of names that were part of the initial
// frontier.
const RootReferrer = "(root)"

// DanglingRef is a referenced name that has no definition.
type DanglingRef struct {
	Name         string
	ReferencedBy []string
}

// DanglingRefError reports every reference that points outside the
// definitions section. Output built from such a document would reference
// definitions that do not exist, so it is always fatal.
type DanglingRefError struct {
	Refs []DanglingRef
}

func (e *DanglingRefError) Error() string {
	parts := make([]string, 0, len(e.Refs))
	for _, r := range e.Refs {
		parts = append(parts, fmt.Sprintf("%s (referenced by %s)", r.Name, strings.Join(r.ReferencedBy, ", ")))
	}
	return fmt.Sprintf("%d dangling reference(s): %s", len(e.Refs), strings.Join(parts, "; "))
}

// Names returns the dangling definition names.
func (e *DanglingRefError) Names() []string {
	names := make([]string, len(e.Refs))
	for i, r := range e.Refs {
		names[i] = r.Name
	}
	return names
}

// ClosureResult is the outcome of a closure expansion.
type ClosureResult struct {
	// Reachable holds the roots and every name reachable from them.
	Reachable RefSet

	// Levels is the number of BFS levels visited.
	Levels int
}

// Closure computes every definition name reachable from roots by following
// $ref edges through defs, level by level. Each frontier name must exist in
// defs; all missing names are collected and returned as a *DanglingRefError
// together with the partial result.
func Closure(defs map[string]any, roots RefSet) (*ClosureResult, error) {
	visited := make(RefSet)
	frontier := make(RefSet, roots.Len())
	frontier.Union(roots)

	referrers := make(map[string]RefSet)
	for name := range roots {
		referrers[name] = NewRefSet(RootReferrer)
	}

	var dangling []DanglingRef
	level := 0

	for frontier.Len() > 0 {
		names := frontier.Sorted()
		slog.Debug("Expanding reference closure",
			"level", level,
			"frontier_size", len(names),
			"frontier", names)

		visited.Union(frontier)
		next := make(RefSet)

		for _, name := range names {
			def, ok := defs[name]
			if !ok {
				dangling = append(dangling, DanglingRef{
					Name:         name,
					ReferencedBy: referrers[name].Sorted(),
				})
				continue
			}
			for ref := range ExtractRefs(def) {
				if visited.Has(ref) {
					continue
				}
				next.Add(ref)
				if referrers[ref] == nil {
					referrers[ref] = make(RefSet)
				}
				referrers[ref].Add(name)
			}
		}

		frontier = next.Minus(visited)
		level++
	}

	result := &ClosureResult{Reachable: visited, Levels: level}
	if len(dangling) > 0 {
		sort.Slice(dangling, func(i, j int) bool { return dangling[i].Name < dangling[j].Name })
		return result, &DanglingRefError{Refs: dangling}
	}

	slog.Debug("Reference closure complete", "levels", level, "reachable", visited.Len())
	return result, nil
}
