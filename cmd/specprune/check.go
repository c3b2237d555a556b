package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/diff"
	"github.com/nebari-dev/specprune/internal/service"
)

var (
	checkOpts     filterFlags
	checkLockFile string
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check -i <input> -o <output>",
	Short: "Verify that a filtered document is up to date",
	Long: `Check whether the output file still matches what filter would produce.

With a lock file the recorded digests and settings are compared against the
files on disk. Without one the output is regenerated in memory and compared
byte for byte.

Exit codes:
  0  output is up to date
  1  output is stale, modified or missing
  2  error

Examples:
  specprune check -i spec.json -o spec_filtered.json
  specprune check -i spec.json -o spec_filtered.json --lock-file filter.lock.toml --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	checkOpts.register(cmd, true)
	cmd.Flags().StringVar(&checkLockFile, "lock-file", "", "Lock file to verify against (default: <output>.lock.toml or lock.path)")
	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	req := checkOpts.request(cmd)
	req.LockPath = checkLockFile
	if req.LockPath == "" {
		req.LockPath = cfg.LockPath(req.Output)
	}

	report, err := service.Check(req)
	if err != nil {
		return &exitError{code: diff.ExitError, err: err}
	}

	if checkJSON {
		data, err := diff.FormatDriftJSON(report)
		if err != nil {
			return &exitError{code: diff.ExitError, err: err}
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(diff.FormatDriftText(report))
	}

	if code := diff.ExitCodeForDrift(report); code != diff.ExitClean {
		return &exitError{code: code}
	}
	return nil
}
