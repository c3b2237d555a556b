package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebari-dev/specprune/internal/postprocess"
)

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	input := writeSpec(t, dir, specJSON)

	items := []BatchItem{
		{Name: "volumes", Request: FilterRequest{
			Input: input, Output: filepath.Join(dir, "volumes.json"),
			Paths: []string{"/volume"}, Profile: postprocess.ProfilePowerStore,
		}},
		{Name: "broken", Request: FilterRequest{
			Input: filepath.Join(dir, "missing.json"), Output: filepath.Join(dir, "broken.json"),
			Paths: []string{"/volume"},
		}},
		{Name: "other", Request: FilterRequest{
			Input: input, Output: filepath.Join(dir, "other.json"),
			Paths: []string{"/other"}, Profile: postprocess.ProfileNone,
		}},
	}

	results, err := RunBatch(context.Background(), items, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.NotContains(t, err.Error(), "volumes:")

	require.Len(t, results, 3)
	assert.Equal(t, "volumes", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, []string{"Volume", "VolumeGroup"}, results[0].Result.Result.DefinitionsKept)

	assert.Equal(t, "broken", results[1].Name)
	assert.Error(t, results[1].Err)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, []string{"Other"}, results[2].Result.Result.DefinitionsKept)

	_, statErr := os.Stat(filepath.Join(dir, "broken.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := newRequest(t)
	results, err := RunBatch(ctx, []BatchItem{{Name: "a", Request: req}}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
