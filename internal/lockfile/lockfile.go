// Package lockfile reads and writes specprune lock files.
//
// A lock file is written next to a filtered document. It records where the
// document came from so that a later check can tell whether the output is
// still what the current input and allow-list would produce.
//
// Format (TOML):
//
//	id = "550e8400-e29b-41d4-a716-446655440000"
//	generated_at = 2026-10-19T10:30:00Z
//	profile = "powerstore"
//	paths = ["/volume", "/volume/{id}"]
//	prune_tags = false
//	flexible_query_key = "x-flexible-query"
//
//	[input]
//	path = "spec_4_1.json"
//	digest = "sha256:..."
//
//	[output]
//	path = "spec_4_1_filtered.json"
//	digest = "sha256:..."
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/pelletier/go-toml/v2"
)

// ErrNotFound is returned when no lock file exists at the given path.
var ErrNotFound = errors.New("lock file not found")

// LockFile represents the contents of a lock file.
type LockFile struct {
	// ID identifies the run that produced the output
	ID string `toml:"id"`

	GeneratedAt time.Time `toml:"generated_at"`

	// Filter settings the output was produced with
	Profile   string   `toml:"profile"`
	Paths     []string `toml:"paths"`
	PruneTags bool     `toml:"prune_tags"`

	FlexibleQueryKey string `toml:"flexible_query_key"`

	Input  FileRef `toml:"input"`
	Output FileRef `toml:"output"`
}

// FileRef pins a file by path and content digest.
type FileRef struct {
	Path   string `toml:"path"`
	Digest string `toml:"digest"`
}

// ComputeDigest computes the sha256 digest of content in the
// "sha256:<hex>" form.
func ComputeDigest(content []byte) string {
	return digest.FromBytes(content).String()
}

// Settings are the filter settings that determine the output for a given
// input.
type Settings struct {
	Profile          string
	Paths            []string
	PruneTags        bool
	FlexibleQueryKey string
}

// New creates a lock file for one filter run.
func New(s Settings, input, output FileRef) *LockFile {
	return &LockFile{
		ID:               uuid.New().String(),
		GeneratedAt:      time.Now().UTC().Truncate(time.Second),
		Profile:          s.Profile,
		Paths:            slices.Clone(s.Paths),
		PruneTags:        s.PruneTags,
		FlexibleQueryKey: s.FlexibleQueryKey,
		Input:            input,
		Output:           output,
	}
}

// SameSettings reports whether the lock was produced with the given filter
// settings. Path order is significant only as a set.
func (lf *LockFile) SameSettings(s Settings) bool {
	if lf.Profile != s.Profile || lf.PruneTags != s.PruneTags || lf.FlexibleQueryKey != s.FlexibleQueryKey {
		return false
	}
	a := slices.Clone(lf.Paths)
	b := slices.Clone(s.Paths)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

// SameFiles reports whether the lock pins the given input and output paths.
func (lf *LockFile) SameFiles(input, output string) bool {
	return filepath.Clean(lf.Input.Path) == filepath.Clean(input) &&
		filepath.Clean(lf.Output.Path) == filepath.Clean(output)
}

// ReadFile reads a lock file from the given path.
func ReadFile(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var lf LockFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if lf.Input.Digest != "" {
		if _, err := digest.Parse(lf.Input.Digest); err != nil {
			return nil, fmt.Errorf("invalid input digest in %s: %w", path, err)
		}
	}
	if lf.Output.Digest != "" {
		if _, err := digest.Parse(lf.Output.Digest); err != nil {
			return nil, fmt.Errorf("invalid output digest in %s: %w", path, err)
		}
	}

	return &lf, nil
}

// WriteFile writes the lock file to the given path.
func WriteFile(path string, lf *LockFile) error {
	// Ensure ID is set
	if lf.ID == "" {
		lf.ID = uuid.New().String()
	}

	data, err := toml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("failed to marshal lock file: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
