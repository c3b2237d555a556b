package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/diff"
	"github.com/nebari-dev/specprune/internal/openapi"
	"github.com/nebari-dev/specprune/internal/service"
)

// filterFlags are the flags shared by commands that run the filter.
type filterFlags struct {
	input     string
	output    string
	paths     []string
	profile   string
	pruneTags bool
}

func (f *filterFlags) register(cmd *cobra.Command, withOutput bool) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input OpenAPI document (JSON or YAML)")
	cmd.MarkFlagRequired("input")
	if withOutput {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file for the filtered JSON document")
		cmd.MarkFlagRequired("output")
	}
	cmd.Flags().StringSliceVarP(&f.paths, "path", "p", nil, "Allow-listed path template or glob (repeatable; overrides filter.paths)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Post-processing profile: powerstore or none (overrides filter.profile)")
	cmd.Flags().BoolVar(&f.pruneTags, "prune-tags", false, "Drop top-level tags no retained operation uses")
}

// request merges flags over the loaded configuration.
func (f *filterFlags) request(cmd *cobra.Command) service.FilterRequest {
	req := service.FilterRequest{
		Input:            f.input,
		Output:           f.output,
		Paths:            cfg.Filter.Paths,
		Profile:          cfg.Filter.Profile,
		PruneTags:        cfg.Filter.PruneTags,
		FlexibleQueryKey: cfg.Filter.FlexibleQueryKey,
	}
	if cmd.Flags().Changed("path") {
		req.Paths = f.paths
	}
	if cmd.Flags().Changed("profile") {
		req.Profile = f.profile
	}
	if cmd.Flags().Changed("prune-tags") {
		req.PruneTags = f.pruneTags
	}
	return req
}

// printSummary writes a short human-readable account of a filter run.
func printSummary(w io.Writer, r *openapi.Result) {
	fmt.Fprintf(w, "Kept %d of %d paths:\n", len(r.PathsKept), len(r.PathsKept)+len(r.PathsDropped))
	for _, p := range r.PathsKept {
		fmt.Fprintf(w, "  %s\n", p)
	}
	if len(r.Unmatched) > 0 {
		fmt.Fprintf(w, "Allow-listed but not found: %s\n", diff.FormatNameList(r.Unmatched))
	}
	fmt.Fprintf(w, "Kept %d definitions, pruned %d (%d levels)\n",
		len(r.DefinitionsKept), len(r.DefinitionsPruned), r.Levels)
	if len(r.TagsPruned) > 0 {
		fmt.Fprintf(w, "Pruned tags: %s\n", diff.FormatNameList(r.TagsPruned))
	}
}
