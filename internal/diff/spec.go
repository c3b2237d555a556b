// Package diff provides a key-level diff engine for OpenAPI documents.
//
// It compares the paths and definitions sections of two documents and
// reports which entries were added, removed, or changed. Use it to review
// what a change of allow-list or upstream spec does to a filtered output.
package diff

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/nebari-dev/specprune/internal/openapi"
)

// ChangeType represents the type of change in a diff.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Change represents a single entry-level change.
type Change struct {
	Section string     `json:"section"`
	Key     string     `json:"key"`
	Type    ChangeType `json:"type"`
}

// SpecDiff represents the difference between two documents.
type SpecDiff struct {
	Changes []Change `json:"changes"`
}

// HasChanges returns true if there are any differences.
func (d *SpecDiff) HasChanges() bool {
	return len(d.Changes) > 0
}

// Added returns all added changes.
func (d *SpecDiff) Added() []Change {
	return d.filterByType(ChangeAdded)
}

// Removed returns all removed changes.
func (d *SpecDiff) Removed() []Change {
	return d.filterByType(ChangeRemoved)
}

// Modified returns all modified changes.
func (d *SpecDiff) Modified() []Change {
	return d.filterByType(ChangeModified)
}

// InSection returns the changes of one section.
func (d *SpecDiff) InSection(section string) []Change {
	var result []Change
	for _, c := range d.Changes {
		if c.Section == section {
			result = append(result, c)
		}
	}
	return result
}

func (d *SpecDiff) filterByType(t ChangeType) []Change {
	var result []Change
	for _, c := range d.Changes {
		if c.Type == t {
			result = append(result, c)
		}
	}
	return result
}

// CompareDocuments diffs the paths and definitions sections of two documents.
func CompareDocuments(oldDoc, newDoc *openapi.Document) *SpecDiff {
	diff := &SpecDiff{}
	compareSection(openapi.KeyPaths, oldDoc.Paths(), newDoc.Paths(), diff)
	compareSection(openapi.KeyDefinitions, oldDoc.Definitions(), newDoc.Definitions(), diff)
	return diff
}

// compareSection compares the entries of one top-level section.
func compareSection(section string, oldMap, newMap map[string]any, diff *SpecDiff) {
	allKeys := make(map[string]bool)
	for k := range oldMap {
		allKeys[k] = true
	}
	for k := range newMap {
		allKeys[k] = true
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		oldVal, oldExists := oldMap[key]
		newVal, newExists := newMap[key]

		switch {
		case !oldExists:
			diff.Changes = append(diff.Changes, Change{Section: section, Key: key, Type: ChangeAdded})
		case !newExists:
			diff.Changes = append(diff.Changes, Change{Section: section, Key: key, Type: ChangeRemoved})
		case !reflect.DeepEqual(oldVal, newVal):
			diff.Changes = append(diff.Changes, Change{Section: section, Key: key, Type: ChangeModified})
		}
	}
}

// FormatUnifiedDiff formats a SpecDiff in a unified-diff-like layout. With
// color set, lines are wrapped in ANSI colour codes.
func FormatUnifiedDiff(diff *SpecDiff, sourceLabel, targetLabel string, color bool) string {
	if !diff.HasChanges() {
		return ""
	}

	paint := func(code, s string) string {
		if !color {
			return s
		}
		return "\x1b[" + code + "m" + s + "\x1b[0m"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("--- %s\n", sourceLabel))
	sb.WriteString(fmt.Sprintf("+++ %s\n", targetLabel))

	for _, section := range []string{openapi.KeyPaths, openapi.KeyDefinitions} {
		changes := diff.InSection(section)
		if len(changes) == 0 {
			continue
		}
		sb.WriteString(paint("36", fmt.Sprintf("@@ %s @@", section)) + "\n")
		for _, c := range changes {
			switch c.Type {
			case ChangeAdded:
				sb.WriteString(paint("32", "+"+c.Key) + "\n")
			case ChangeRemoved:
				sb.WriteString(paint("31", "-"+c.Key) + "\n")
			case ChangeModified:
				sb.WriteString(paint("33", "~"+c.Key) + "\n")
			}
		}
	}

	return sb.String()
}
