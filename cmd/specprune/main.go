package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/config"
	"github.com/nebari-dev/specprune/internal/logger"
)

// Version is set via ldflags at build time
var Version = "dev"

var (
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "specprune",
	Short: "specprune - Trim OpenAPI documents to the paths a client needs",
	Long: `specprune keeps an allow-listed set of paths from a Swagger/OpenAPI document,
drops every definition those paths do not reach through $ref, and stamps
vendor metadata such as operation IDs onto the result.`,
	Example: `  # Keep the volume endpoints and everything they reference
  specprune filter -i spec.json -o spec_filtered.json --path /volume --path '/volume/{id}'

  # Use the allow-list from specprune.yaml and record a lock file
  specprune filter -i spec.json -o spec_filtered.json --lock

  # Fail CI when the checked-in output is out of date
  specprune check -i spec.json -o spec_filtered.json`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// exitError carries a specific process exit code. An empty err means the
// command already reported everything it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		c.Log.Format = logFormat
	}
	logger.Init(c.Log.Format, c.Log.Level)
	cfg = c
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./specprune.yaml or /etc/specprune/specprune.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddGroup(
		&cobra.Group{ID: "transform", Title: "Transform Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspect Commands:"},
	)

	filterCmd.GroupID = "transform"
	batchCmd.GroupID = "transform"

	refsCmd.GroupID = "inspect"
	diffCmd.GroupID = "inspect"
	checkCmd.GroupID = "inspect"

	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
