package config

// Config represents the main application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Watcher  WatcherConfig  `yaml:"watcher"`
	Scaffold ScaffoldConfig `yaml:"scaffold"`
	UI       UIConfig       `yaml:"ui"`

	// Version is set at build time, not read from file
	Version string `yaml:"-"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // Logging level: trace, debug, info, notice, warn, error
	File  bool   `yaml:"file"`  // Write JSON logs to the config directory instead of the terminal
}

// WatcherConfig holds file watching settings.
type WatcherConfig struct {
	DebounceMs int      `yaml:"debounce_ms"` // Debounce window in milliseconds
	MaxWatches int      `yaml:"max_watches"` // Maximum number of watched directories
	LockFile   string   `yaml:"lock_file"`   // Lock-file name that suppresses processing
	Include    []string `yaml:"include"`     // Default include glob patterns
	Exclude    []string `yaml:"exclude"`     // Default exclude glob patterns
}

// ScaffoldConfig holds project generation settings.
type ScaffoldConfig struct {
	Dest   string `yaml:"dest"`   // Directory new projects are created under
	Author string `yaml:"author"` // Author written into generated files
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	HighlightStyle string `yaml:"highlight_style"` // Syntax highlighting style: monokai, dracula, github-dark, native
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Watcher: WatcherConfig{
			DebounceMs: DefaultDebounceMs,
			MaxWatches: DefaultMaxWatches,
		},
		Scaffold: ScaffoldConfig{
			Dest: ".",
		},
		UI: UIConfig{
			HighlightStyle: DefaultHighlightStyle,
		},
	}
}
