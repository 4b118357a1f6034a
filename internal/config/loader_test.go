package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "groundwork")
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultDebounceMs, cfg.Watcher.DebounceMs)
	assert.Equal(t, DefaultMaxWatches, cfg.Watcher.MaxWatches)
	assert.Empty(t, cfg.Watcher.LockFile)
	assert.Equal(t, DefaultHighlightStyle, cfg.UI.HighlightStyle)
}

func TestLoadFromFile(t *testing.T) {
	writeConfigFile(t, `
logging:
  level: debug
watcher:
  debounce_ms: 250
  lock_file: LOCK
  exclude:
    - "**/*.tmp"
scaffold:
  author: someone
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250, cfg.Watcher.DebounceMs)
	assert.Equal(t, "LOCK", cfg.Watcher.LockFile)
	assert.Equal(t, []string{"**/*.tmp"}, cfg.Watcher.Exclude)
	assert.Equal(t, "someone", cfg.Scaffold.Author)
	// Untouched sections keep defaults
	assert.Equal(t, DefaultMaxWatches, cfg.Watcher.MaxWatches)
}

func TestLoadExpandsEnvInFile(t *testing.T) {
	t.Setenv("PROJECTS_DIR", "/srv/projects")
	writeConfigFile(t, `
scaffold:
  dest: ${PROJECTS_DIR}/new
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/projects/new", cfg.Scaffold.Dest)
}

func TestSetPathOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watcher:\n  lock_file: CUSTOM\n"), 0644))

	SetPath(path)
	t.Cleanup(func() { SetPath("") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "CUSTOM", cfg.Watcher.LockFile)
	assert.Equal(t, path, GetConfigPath())
}

func TestEnvOverrides(t *testing.T) {
	writeConfigFile(t, `
logging:
  level: debug
watcher:
  lock_file: from_file
`)

	t.Setenv("GROUNDWORK_LOG_LEVEL", "error")
	t.Setenv("GROUNDWORK_LOCK_FILE", "from_env")
	t.Setenv("GROUNDWORK_DEBOUNCE_MS", "100")
	t.Setenv("GROUNDWORK_SCAFFOLD_AUTHOR", "env author")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "from_env", cfg.Watcher.LockFile)
	assert.Equal(t, 100, cfg.Watcher.DebounceMs)
	assert.Equal(t, "env author", cfg.Scaffold.Author)
}

func TestEnvOverrideIgnoresBadDebounce(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GROUNDWORK_DEBOUNCE_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDebounceMs, cfg.Watcher.DebounceMs)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Watcher.DebounceMs = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidDebounce)

	cfg = DefaultConfig()
	cfg.Watcher.MaxWatches = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxWatches)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Watcher.LockFile = "LOCK"
	cfg.Logging.Level = "notice"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "LOCK", loaded.Watcher.LockFile)
	assert.Equal(t, "notice", loaded.Logging.Level)
}
