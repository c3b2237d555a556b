package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Log     LogConfig      `mapstructure:"log"`
	Filter  FilterConfig   `mapstructure:"filter"`
	Lock    LockConfig     `mapstructure:"lock"`
	Batch   BatchConfig    `mapstructure:"batch"`
	Targets []TargetConfig `mapstructure:"targets"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// FilterConfig holds the default filtering behaviour
type FilterConfig struct {
	Paths            []string `mapstructure:"paths"`              // Allow-listed path templates or globs
	Profile          string   `mapstructure:"profile"`            // Post-processing profile: "powerstore" or "none"
	PruneTags        bool     `mapstructure:"prune_tags"`         // Drop unused top-level tags
	FlexibleQueryKey string   `mapstructure:"flexible_query_key"` // Extension set on GET operations
}

// LockConfig holds provenance lock file configuration
type LockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Defaults to <output>.lock.toml when empty
}

// BatchConfig holds batch run configuration
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"` // Targets processed at once
}

// TargetConfig describes one input/output pair processed by the batch command.
// Empty Paths and Profile fall back to the filter section.
type TargetConfig struct {
	Name    string   `mapstructure:"name"`
	Input   string   `mapstructure:"input"`
	Output  string   `mapstructure:"output"`
	Paths   []string `mapstructure:"paths"`
	Profile string   `mapstructure:"profile"`
}

// Load reads configuration from file and environment variables. When file is
// empty, specprune.yaml is looked up in the working directory and
// /etc/specprune/; a missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("filter.paths", []string{})
	v.SetDefault("filter.profile", "powerstore")
	v.SetDefault("filter.prune_tags", false)
	v.SetDefault("filter.flexible_query_key", "x-flexible-query")
	v.SetDefault("lock.enabled", false)
	v.SetDefault("lock.path", "")
	v.SetDefault("batch.concurrency", 4)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("specprune")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/specprune/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Environment variables override
	v.SetEnvPrefix("SPECPRUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("invalid log.format %q: must be json or text", c.Log.Format)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("invalid batch.concurrency %d: must be at least 1", c.Batch.Concurrency)
	}
	for i, t := range c.Targets {
		if t.Input == "" || t.Output == "" {
			return fmt.Errorf("targets[%d] (%s): input and output are required", i, t.Name)
		}
	}
	return nil
}

// LockPath returns where the lock file for output lives.
func (c *Config) LockPath(output string) string {
	if c.Lock.Path != "" {
		return c.Lock.Path
	}
	return output + ".lock.toml"
}
