package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "local", cfg.User.ID)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "/tasks/{taskId}", cfg.Notifications.ActionURL)
	assert.True(t, cfg.Checklist.ValidateFullGraph)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/checklist-test.db
log:
  level: debug
  format: json
user:
  id: u-42
  name: Ada
notifications:
  enabled: false
checklist:
  validate_full_graph: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/checklist-test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, User{ID: "u-42", Name: "Ada"}, cfg.User)
	assert.False(t, cfg.Notifications.Enabled)
	// Unset keys keep their defaults.
	assert.Equal(t, "/tasks/{taskId}", cfg.Notifications.ActionURL)
	assert.False(t, cfg.Checklist.ValidateFullGraph)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Database.Path = "/var/lib/checklist.db"
	cfg.Log.Level = "warn"
	cfg.User = User{ID: "u-7", Name: "Grace"}

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/checklist.db", loaded.Database.Path)
	assert.Equal(t, "warn", loaded.Log.Level)
	assert.Equal(t, "u-7", loaded.User.ID)
	assert.Equal(t, "Grace", loaded.User.Name)
}
