package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/service"
)

var (
	filterOpts filterFlags
	filterLock bool
)

var filterCmd = &cobra.Command{
	Use:   "filter -i <input> -o <output> [--path <template>...]",
	Short: "Filter a document to allow-listed paths and their definitions",
	Long: `Keep only the allow-listed paths of an OpenAPI document, then keep only the
definitions those paths reach through $ref (directly or transitively).

Post-processing stamps vendor metadata onto the remaining operations. The
powerstore profile sets operationId on every operation and marks GET
operations with x-flexible-query.

The output is tab-indented JSON. Nothing is written if the input is malformed
or references a definition that does not exist.

Examples:
  specprune filter -i spec.json -o out.json --path /volume --path '/volume/{id}'
  specprune filter -i spec.yaml -o out.json --path '/volume/**' --profile none
  specprune filter -i spec.json -o out.json --lock`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	addFilterFlags(filterCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	filterOpts.register(cmd, true)
	cmd.Flags().BoolVar(&filterLock, "lock", false, "Write a lock file next to the output (overrides lock.enabled)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	req := filterOpts.request(cmd)

	lock := cfg.Lock.Enabled
	if cmd.Flags().Changed("lock") {
		lock = filterLock
	}
	if lock {
		req.LockPath = cfg.LockPath(req.Output)
	}

	res, err := service.Filter(cmd.Context(), req)
	if err != nil {
		return err
	}

	printSummary(os.Stderr, res.Result)
	fmt.Fprintf(os.Stderr, "Filtered spec written to %s (%s)\n", req.Output, res.OutputDigest)
	if res.LockPath != "" {
		fmt.Fprintf(os.Stderr, "Lock file written to %s\n", res.LockPath)
	}
	return nil
}
