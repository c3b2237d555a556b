package diff

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nebari-dev/specprune/internal/drift"
	"github.com/nebari-dev/specprune/internal/openapi"
)

// Exit codes for CLI commands (matches git diff and terraform plan conventions).
const (
	ExitClean = 0 // No differences
	ExitDiff  = 1 // Differences detected
	ExitError = 2 // Error occurred
)

// DiffJSON represents the JSON output format for specprune diff.
type DiffJSON struct {
	Source  string    `json:"source"`
	Target  string    `json:"target"`
	Summary Summary   `json:"summary"`
	Diff    *SpecDiff `json:"diff"`
}

// Summary counts changes per section and type.
type Summary struct {
	PathsAdded          int `json:"paths_added"`
	PathsRemoved        int `json:"paths_removed"`
	PathsModified       int `json:"paths_modified"`
	DefinitionsAdded    int `json:"definitions_added"`
	DefinitionsRemoved  int `json:"definitions_removed"`
	DefinitionsModified int `json:"definitions_modified"`
}

// Summarize counts the changes of d.
func Summarize(d *SpecDiff) Summary {
	var s Summary
	for _, c := range d.Changes {
		paths := c.Section == openapi.KeyPaths
		switch c.Type {
		case ChangeAdded:
			if paths {
				s.PathsAdded++
			} else {
				s.DefinitionsAdded++
			}
		case ChangeRemoved:
			if paths {
				s.PathsRemoved++
			} else {
				s.DefinitionsRemoved++
			}
		case ChangeModified:
			if paths {
				s.PathsModified++
			} else {
				s.DefinitionsModified++
			}
		}
	}
	return s
}

// FormatDiffJSON creates the JSON output for specprune diff.
func FormatDiffJSON(source, target string, d *SpecDiff) ([]byte, error) {
	if d.Changes == nil {
		d.Changes = []Change{}
	}
	return json.MarshalIndent(DiffJSON{
		Source:  source,
		Target:  target,
		Summary: Summarize(d),
		Diff:    d,
	}, "", "  ")
}

// FormatDriftJSON creates the JSON output for specprune check.
func FormatDriftJSON(r *drift.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FormatDriftText formats a drift report as human-readable text.
func FormatDriftText(r *drift.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status: %s\n", r.Overall))
	for _, f := range r.Files {
		sb.WriteString(fmt.Sprintf("  %-6s %-8s %s\n", f.Role, f.Status, f.Path))
	}
	return sb.String()
}

// ExitCodeForDrift returns the appropriate exit code for a drift report.
func ExitCodeForDrift(r *drift.Report) int {
	if r.IsDrifted() {
		return ExitDiff
	}
	return ExitClean
}

// ExitCodeForDiff returns the appropriate exit code for a diff result.
func ExitCodeForDiff(d *SpecDiff) int {
	if d != nil && d.HasChanges() {
		return ExitDiff
	}
	return ExitClean
}

// FormatSummaryText formats a diff summary as human-readable text.
func FormatSummaryText(s Summary) string {
	total := s.PathsAdded + s.PathsRemoved + s.PathsModified +
		s.DefinitionsAdded + s.DefinitionsRemoved + s.DefinitionsModified
	if total == 0 {
		return "  No changes\n"
	}

	return fmt.Sprintf("  paths:       +%d -%d ~%d\n  definitions: +%d -%d ~%d\n",
		s.PathsAdded, s.PathsRemoved, s.PathsModified,
		s.DefinitionsAdded, s.DefinitionsRemoved, s.DefinitionsModified)
}

// FormatNameList renders names for a summary line, abbreviating long lists.
func FormatNameList(names []string) string {
	if len(names) <= 5 {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:5], ", ") + fmt.Sprintf(", ... (%d more)", len(names)-5)
}
