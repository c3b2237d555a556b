package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nebari-dev/specprune/internal/diff"
	"github.com/nebari-dev/specprune/internal/openapi"
)

var (
	diffJSON    bool
	diffNoColor bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare the paths and definitions of two documents",
	Long: `Show which paths and definitions were added, removed or modified between two
OpenAPI documents. Typically used to review a regenerated filtered spec.

Exit codes:
  0  documents are equivalent
  1  differences found
  2  error

Examples:
  specprune diff spec_filtered.json new_filtered.json
  specprune diff old.json new.json --json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	addDiffFlags(diffCmd)
}

func addDiffFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&diffJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&diffNoColor, "no-color", false, "Disable coloured output")
}

func runDiff(cmd *cobra.Command, args []string) error {
	source, target := args[0], args[1]

	oldDoc, err := openapi.Load(source)
	if err != nil {
		return &exitError{code: diff.ExitError, err: err}
	}
	newDoc, err := openapi.Load(target)
	if err != nil {
		return &exitError{code: diff.ExitError, err: err}
	}

	d := diff.CompareDocuments(oldDoc, newDoc)

	if diffJSON {
		data, err := diff.FormatDiffJSON(source, target, d)
		if err != nil {
			return &exitError{code: diff.ExitError, err: err}
		}
		fmt.Println(string(data))
	} else {
		color := !diffNoColor && term.IsTerminal(int(os.Stdout.Fd()))
		fmt.Print(diff.FormatUnifiedDiff(d, source, target, color))
		if d.HasChanges() {
			fmt.Println()
			fmt.Print(diff.FormatSummaryText(diff.Summarize(d)))
		}
	}

	if code := diff.ExitCodeForDiff(d); code != diff.ExitClean {
		return &exitError{code: code}
	}
	return nil
}
