package openapi

import (
	"fmt"
	"log/slog"
	"sort"
)

// FilterOptions controls Filter.
type FilterOptions struct {
	// Paths is the allow-list of path templates (or globs) to keep.
	Paths []string

	// PruneTags drops top-level tags unused by the retained operations.
	PruneTags bool
}

// Result summarises what Filter kept and removed.
type Result struct {
	PathsKept         []string `json:"paths_kept"`
	PathsDropped      []string `json:"paths_dropped"`
	Unmatched         []string `json:"unmatched,omitempty"`
	RootRefs          []string `json:"root_refs"`
	DefinitionsKept   []string `json:"definitions_kept"`
	DefinitionsPruned []string `json:"definitions_pruned"`
	TagsPruned        []string `json:"tags_pruned,omitempty"`
	Levels            int      `json:"levels"`
}

// Filter restricts doc to the allow-listed paths and the definitions they
// reach, mutating doc in place. On error doc is left unchanged.
func Filter(doc *Document, opts FilterOptions) (*Result, error) {
	paths := doc.Paths()
	defs := doc.Definitions()

	filtered, unmatched := FilterPaths(paths, opts.Paths)
	for _, p := range unmatched {
		slog.Debug("Allow-listed path not present in document", "path", p)
	}

	roots := ExtractRefs(filtered)
	slog.Debug("Collected root references", "count", roots.Len(), "refs", roots.Sorted())

	closure, err := Closure(defs, roots)
	if err != nil {
		return nil, fmt.Errorf("expanding references: %w", err)
	}

	pruned, removed := PruneDefinitions(defs, closure.Reachable)

	result := &Result{
		PathsKept:         sortedKeys(filtered),
		PathsDropped:      droppedKeys(paths, filtered),
		Unmatched:         unmatched,
		RootRefs:          roots.Sorted(),
		DefinitionsKept:   sortedKeys(pruned),
		DefinitionsPruned: removed,
		Levels:            closure.Levels,
	}

	doc.SetPaths(filtered)
	doc.SetDefinitions(pruned)

	if opts.PruneTags {
		result.TagsPruned = PruneTags(doc.Root(), filtered)
	}

	slog.Info("Filtered document",
		"paths_kept", len(result.PathsKept),
		"paths_dropped", len(result.PathsDropped),
		"definitions_kept", len(result.DefinitionsKept),
		"definitions_pruned", len(result.DefinitionsPruned),
		"levels", result.Levels)

	return result, nil
}

// Reachable reports the definition names the allow-listed paths reach
// without modifying doc.
func Reachable(doc *Document, allow []string) (RefSet, error) {
	filtered, _ := FilterPaths(doc.Paths(), allow)
	closure, err := Closure(doc.Definitions(), ExtractRefs(filtered))
	if err != nil {
		return nil, err
	}
	return closure.Reachable, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func droppedKeys(all, kept map[string]any) []string {
	var dropped []string
	for k := range all {
		if _, ok := kept[k]; !ok {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return dropped
}
