package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/service"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Filter every target listed in the config file",
	Long: `Run filter for each entry of targets in specprune.yaml. Targets that leave
paths or profile empty inherit filter.paths and filter.profile.

A failing target does not stop the others. The command fails if any target
failed.

Example specprune.yaml:
  filter:
    profile: powerstore
  lock:
    enabled: true
  targets:
    - name: volumes
      input: spec.json
      output: volumes.json
      paths: ["/volume", "/volume/{id}"]
    - name: hosts
      input: spec.json
      output: hosts.json
      paths: ["/host/**"]`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	addBatchFlags(batchCmd)
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 0, "Maximum targets processed at once (default: batch.concurrency)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("no targets configured; add a targets list to the config file")
	}

	items := make([]service.BatchItem, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		req := service.FilterRequest{
			Input:            t.Input,
			Output:           t.Output,
			Paths:            t.Paths,
			Profile:          t.Profile,
			PruneTags:        cfg.Filter.PruneTags,
			FlexibleQueryKey: cfg.Filter.FlexibleQueryKey,
		}
		if len(req.Paths) == 0 {
			req.Paths = cfg.Filter.Paths
		}
		if req.Profile == "" {
			req.Profile = cfg.Filter.Profile
		}
		// A single lock.path cannot serve several outputs.
		if cfg.Lock.Enabled {
			req.LockPath = req.Output + ".lock.toml"
		}
		items = append(items, service.BatchItem{Name: t.Name, Request: req})
	}

	concurrency := cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = batchConcurrency
	}

	results, err := service.RunBatch(cmd.Context(), items, concurrency)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "  %-20s FAILED: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %-20s %d paths, %d definitions -> %s\n",
			r.Name, len(r.Result.Result.PathsKept), len(r.Result.Result.DefinitionsKept), r.Result.OutputDigest)
	}
	if err != nil {
		return fmt.Errorf("%d of %d targets failed", countFailed(results), len(results))
	}
	return nil
}

func countFailed(results []service.BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
