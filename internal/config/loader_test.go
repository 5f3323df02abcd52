package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "deepseek-chat", cfg.Router.Model)
	assert.Equal(t, "stock_server", cfg.Worker.Binary)
	assert.Equal(t, "stocks_data.csv", cfg.Worker.FallbackCSV)
	assert.Equal(t, 2, cfg.Client.ShutdownGraceSeconds)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
router:
  api_key: "yaml-key"
  model: "deepseek-coder"
worker:
  binary: "./bin/worker"
  fallback_csv: "data/prices.csv"
  no_live: true
client:
  shutdown_grace_seconds: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-key", cfg.Router.APIKey)
	assert.Equal(t, "deepseek-coder", cfg.Router.Model)
	assert.Equal(t, "./bin/worker", cfg.Worker.Binary)
	assert.Equal(t, "data/prices.csv", cfg.Worker.FallbackCSV)
	assert.True(t, cfg.Worker.NoLive)
	assert.Equal(t, 5, cfg.Client.ShutdownGraceSeconds)
}

func TestEnvironmentOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`router: {api_key: "yaml-key"}`), 0o644))
	t.Setenv("DEEPSEEK_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Router.APIKey)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("router: [not: a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
