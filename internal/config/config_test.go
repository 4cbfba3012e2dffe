package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 5, cfg.Pipeline.TargetPerKeyword)
	assert.Equal(t, 180, cfg.Pipeline.MinDurationSeconds)
	assert.Equal(t, 1800, cfg.Pipeline.MaxDurationSeconds)
	assert.Equal(t, int64(5000), cfg.Pipeline.MinSubscribers)
	assert.Equal(t, 2, cfg.Pipeline.BatchSize)
	assert.True(t, cfg.Pipeline.ExcludeShortForm)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
youtube:
  apiKey: file-yt-key
workbook:
  path: /data/scout.xlsx
pipeline:
  targetPerKeyword: 8
  minSubscribers: 2000
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(anthropicAPIKeyEnv, "env-llm-key")
	t.Setenv(minSubscribersEnv, "7000")

	cfg := Load()
	assert.Equal(t, "file-yt-key", cfg.YouTube.APIKey)
	assert.Equal(t, "/data/scout.xlsx", cfg.Workbook.Path)
	assert.Equal(t, 8, cfg.Pipeline.TargetPerKeyword)
	assert.Equal(t, "env-llm-key", cfg.LLM.APIKey)
	assert.Equal(t, int64(7000), cfg.Pipeline.MinSubscribers, "env wins over file")
	assert.Equal(t, 1800, cfg.Pipeline.MaxDurationSeconds, "untouched fields keep defaults")
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	cfg := Load()
	assert.Equal(t, 5, cfg.Pipeline.TargetPerKeyword)
}
