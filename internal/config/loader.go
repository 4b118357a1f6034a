package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// pathOverride points Load at an explicit config file, set from the
// --config flag.
var pathOverride string

// SetPath overrides the config file location for subsequent Load calls.
// An empty path restores the default lookup.
func SetPath(path string) {
	pathOverride = path
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}

	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "groundwork", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// For macOS, favor Library/Application Support/groundwork if it exists or if we're on darwin
	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "groundwork", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
		// Fall back to .config if it already exists there
		dotConfig := filepath.Join(homeDir, ".config", "groundwork", "config.yaml")
		if _, err := os.Stat(dotConfig); err == nil {
			return dotConfig
		}
		// Default to App Support for new installs on macOS
		return appSupport
	}

	// Default for other Unix-like systems
	return filepath.Join(homeDir, ".config", "groundwork", "config.yaml")
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if level := os.Getenv("GROUNDWORK_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if lockFile := os.Getenv("GROUNDWORK_LOCK_FILE"); lockFile != "" {
		cfg.Watcher.LockFile = lockFile
	}

	if debounce := os.Getenv("GROUNDWORK_DEBOUNCE_MS"); debounce != "" {
		if ms, err := strconv.Atoi(debounce); err == nil && ms > 0 {
			cfg.Watcher.DebounceMs = ms
		}
	}

	if dest := os.Getenv("GROUNDWORK_SCAFFOLD_DEST"); dest != "" {
		cfg.Scaffold.Dest = dest
	}

	if author := os.Getenv("GROUNDWORK_SCAFFOLD_AUTHOR"); author != "" {
		cfg.Scaffold.Author = author
	}

	if style := os.Getenv("GROUNDWORK_HIGHLIGHT_STYLE"); style != "" {
		cfg.UI.HighlightStyle = style
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Watcher.DebounceMs <= 0 {
		return ErrInvalidDebounce
	}
	if c.Watcher.MaxWatches <= 0 {
		return ErrInvalidMaxWatches
	}
	return nil
}

// Error types for configuration validation.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrInvalidDebounce   ConfigError = "watcher.debounce_ms must be positive"
	ErrInvalidMaxWatches ConfigError = "watcher.max_watches must be positive"
)

// GetConfigPath returns the path to the config file (exported for external use).
func GetConfigPath() string {
	return getConfigPath()
}

// ConfigDir returns the directory holding the config file and logs.
func ConfigDir() string {
	p := getConfigPath()
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}

// EnsureConfigDir creates the config directory if it does not exist and
// returns its path.
func EnsureConfigDir() (string, error) {
	dir := ConfigDir()
	if dir == "" {
		return "", fmt.Errorf("could not determine config path")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Save saves the configuration to the config file.
func (c *Config) Save() error {
	configPath := getConfigPath()
	if configPath == "" {
		return fmt.Errorf("could not determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file atomically (write to temp file then rename)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Rename temp file to actual config file (atomic on POSIX systems)
	if err := os.Rename(tmpPath, configPath); err != nil {
		// If rename fails, try direct write (Windows filesystem)
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return nil
}
