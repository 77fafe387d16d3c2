package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

func TestLoadPipelineDefaults(t *testing.T) {
	cfg, err := LoadPipeline("")
	require.NoError(t, err)

	assert.Equal(t, places.ResponseColumn, cfg.Response)
	assert.Equal(t, 0.25, cfg.TestFraction)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.True(t, cfg.FitIntercept)
	assert.Equal(t, places.ReferenceRegion, cfg.Reference)
	assert.Equal(t, places.ModelFeatures, cfg.Features)
}

func TestLoadPipelineOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := "test_fraction: 0.4\nseed: 7\nraw_path: /tmp/custom.csv\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadPipeline(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.TestFraction)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "/tmp/custom.csv", cfg.RawPath)
	// Untouched fields keep their defaults.
	assert.Equal(t, places.ResponseColumn, cfg.Response)
}

func TestLoadPipelineRejectsBadFraction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("test_fraction: 1.5\n"), 0o644))

	_, err := LoadPipeline(path)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRange, apperrors.KindOf(err))
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")

	cfg := LoadServer()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
}

func TestLoadServerEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadServer()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
}
