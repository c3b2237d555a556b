package openapi

import "sort"

// PruneDefinitions returns a new definitions map holding exactly the names in
// keep that exist in defs, and the sorted list of names that were dropped.
// defs itself is left untouched.
func PruneDefinitions(defs map[string]any, keep RefSet) (map[string]any, []string) {
	pruned := make(map[string]any, keep.Len())
	var removed []string

	for name, def := range defs {
		if keep.Has(name) {
			pruned[name] = def
		} else {
			removed = append(removed, name)
		}
	}

	sort.Strings(removed)
	return pruned, removed
}

// httpVerbs lists the keys of a path item that hold operations.
var httpVerbs = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// IsHTTPVerb reports whether key names an operation within a path item.
func IsHTTPVerb(key string) bool {
	for _, v := range httpVerbs {
		if key == v {
			return true
		}
	}
	return false
}

// Operation is one verb entry of a path item.
type Operation struct {
	Path   string
	Method string
	Object map[string]any
}

// Operations returns every operation object under paths, ordered by path and
// then method. Non-object path items and operations are skipped.
func Operations(paths map[string]any) []Operation {
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ops []Operation
	for _, path := range keys {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range httpVerbs {
			obj, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			ops = append(ops, Operation{Path: path, Method: method, Object: obj})
		}
	}
	return ops
}

// PruneTags drops top-level tag entries that no operation under paths uses.
// Entries without a name are kept as they are. It returns the names of the
// removed tags.
func PruneTags(root map[string]any, paths map[string]any) []string {
	tags, ok := root[KeyTags].([]any)
	if !ok {
		return nil
	}

	used := make(map[string]bool)
	for _, op := range Operations(paths) {
		opTags, ok := op.Object["tags"].([]any)
		if !ok {
			continue
		}
		for _, t := range opTags {
			if name, ok := t.(string); ok {
				used[name] = true
			}
		}
	}

	filtered := make([]any, 0, len(tags))
	var removed []string
	for _, t := range tags {
		tagMap, _ := t.(map[string]any)
		name, _ := tagMap["name"].(string)
		// Entries that are not named tag objects cannot be matched; keep them.
		if name == "" || used[name] {
			filtered = append(filtered, t)
			continue
		}
		removed = append(removed, name)
	}
	root[KeyTags] = filtered
	return removed
}
