package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracescope.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	path := writeConfig(t, `
ingest_url = "http://pyroscope:4040"
app_name = "svc"
interval = 0.5

[tags]
env = "prod"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://pyroscope:4040", cfg.IngestURL)
	assert.Equal(t, "svc", cfg.AppName)
	assert.Equal(t, map[string]string{"env": "prod"}, cfg.Tags)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushInterval())

	// Untouched keys keep their defaults.
	assert.Equal(t, 50000, cfg.BatchLimit)
	assert.Equal(t, 1, cfg.ConcurrentLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `ingset_url = "typo"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingset_url")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
