package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/openapi"
)

var (
	refsInput string
	refsPaths []string
	refsJSON  bool
)

var refsCmd = &cobra.Command{
	Use:   "refs -i <input> [--path <template>...]",
	Short: "List the definitions the allow-listed paths reach",
	Long: `Print the names of every definition reachable from the allow-listed paths,
one per line in sorted order. The input document is not modified.

Examples:
  specprune refs -i spec.json --path /volume
  specprune refs -i spec.json --path '/volume/**' --json`,
	Args: cobra.NoArgs,
	RunE: runRefs,
}

func init() {
	addRefsFlags(refsCmd)
}

func addRefsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&refsInput, "input", "i", "", "Input OpenAPI document (JSON or YAML)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringSliceVarP(&refsPaths, "path", "p", nil, "Allow-listed path template or glob (repeatable; overrides filter.paths)")
	cmd.Flags().BoolVar(&refsJSON, "json", false, "Output as a JSON array")
}

func runRefs(cmd *cobra.Command, args []string) error {
	paths := cfg.Filter.Paths
	if cmd.Flags().Changed("path") {
		paths = refsPaths
	}

	doc, err := openapi.Load(refsInput)
	if err != nil {
		return err
	}

	reachable, err := openapi.Reachable(doc, paths)
	if err != nil {
		return err
	}

	names := reachable.Sorted()
	if refsJSON {
		if names == nil {
			names = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
