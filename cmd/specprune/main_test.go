package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nebari-dev/specprune/internal/diff"
)

const testSpec = `{
	"swagger": "2.0",
	"paths": {
		"/volume": {"get": {"responses": {"200": {"schema": {"$ref": "#/definitions/Volume"}}}}},
		"/host": {"get": {"responses": {"200": {"schema": {"$ref": "#/definitions/Host"}}}}}
	},
	"definitions": {
		"Volume": {"properties": {"group": {"$ref": "#/definitions/VolumeGroup"}}},
		"VolumeGroup": {"type": "object"},
		"Host": {"type": "object"}
	}
}`

// execute runs the root command with freshly registered subcommand flags, so
// values parsed by an earlier run do not leak into this one.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	for cmd, add := range map[*cobra.Command]func(*cobra.Command){
		filterCmd: addFilterFlags,
		checkCmd:  addCheckFlags,
		refsCmd:   addRefsFlags,
		diffCmd:   addDiffFlags,
		batchCmd:  addBatchFlags,
	} {
		cmd.ResetFlags()
		add(cmd)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommands_HaveFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
	}{
		{"filter", "input"},
		{"filter", "output"},
		{"filter", "path"},
		{"filter", "profile"},
		{"filter", "prune-tags"},
		{"filter", "lock"},
		{"refs", "json"},
		{"diff", "no-color"},
		{"check", "lock-file"},
		{"batch", "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.cmd})
			if err != nil {
				t.Fatalf("command %q not registered: %v", tt.cmd, err)
			}
			if cmd.Flags().Lookup(tt.flag) == nil {
				t.Errorf("--%s flag should be registered on %s", tt.flag, tt.cmd)
			}
		})
	}
}

func TestFilterThenCheck(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	input := filepath.Join(dir, "spec.json")
	output := filepath.Join(dir, "out.json")
	if err := os.WriteFile(input, []byte(testSpec), 0644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "filter", "-i", input, "-o", output, "--path", "/volume", "--lock"); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if strings.Contains(string(data), "Host") {
		t.Errorf("unreferenced definition kept:\n%s", data)
	}
	if _, err := os.Stat(output + ".lock.toml"); err != nil {
		t.Errorf("lock file not written: %v", err)
	}

	if err := execute(t, "check", "-i", input, "-o", output, "--path", "/volume"); err != nil {
		t.Errorf("check of fresh output failed: %v", err)
	}

	err = execute(t, "check", "-i", input, "-o", output, "--path", "/host")
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != diff.ExitDiff {
		t.Errorf("check with changed paths = %v, want exit code %d", err, diff.ExitDiff)
	}
	if !slices.Equal(checkOpts.paths, []string{"/host"}) {
		t.Errorf("check parsed paths %v, want [/host]", checkOpts.paths)
	}

	if err := execute(t, "check", "-i", input, "-o", output, "--path", "/volume"); err != nil {
		t.Errorf("repeated check of fresh output failed: %v", err)
	}
}

func TestDiff_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	if err := os.WriteFile(a, []byte(testSpec), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(`{"paths": {}, "definitions": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "diff", a, a); err != nil {
		t.Errorf("diff of identical files = %v, want nil", err)
	}

	err := execute(t, "diff", a, b)
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != diff.ExitDiff {
		t.Errorf("diff of different files = %v, want exit code %d", err, diff.ExitDiff)
	}

	err = execute(t, "diff", a, filepath.Join(dir, "missing.json"))
	if !errors.As(err, &ee) || ee.code != diff.ExitError {
		t.Errorf("diff with missing file = %v, want exit code %d", err, diff.ExitError)
	}
}
