package openapi

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// isGlob reports whether an allow-list entry should be matched as a pattern.
// Only * and ? make an entry a glob; template braces stay literal.
func isGlob(entry string) bool {
	return strings.ContainsAny(entry, "*?")
}

// globPattern escapes the doublestar metacharacters that commonly appear in
// path templates so that "/volume/{id}/*" matches "/volume/{id}/clone".
func globPattern(entry string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`{`, `\{`,
		`}`, `\}`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return r.Replace(entry)
}

// FilterPaths returns a new paths map holding only the entries whose key is
// allow-listed. Values are carried over as is. The second result lists the
// allow-list entries that matched nothing, which callers may want to report.
func FilterPaths(paths map[string]any, allow []string) (map[string]any, []string) {
	filtered := make(map[string]any)
	var unmatched []string

	for _, entry := range allow {
		if !isGlob(entry) {
			if item, ok := paths[entry]; ok {
				filtered[entry] = item
			} else {
				unmatched = append(unmatched, entry)
			}
			continue
		}

		pattern := globPattern(entry)
		matched := false
		for key, item := range paths {
			ok, err := doublestar.Match(pattern, key)
			if err != nil {
				slog.Warn("Invalid path pattern", "pattern", entry, "error", err)
				break
			}
			if ok {
				filtered[key] = item
				matched = true
			}
		}
		if !matched {
			unmatched = append(unmatched, entry)
		}
	}

	sort.Strings(unmatched)
	return filtered, unmatched
}
