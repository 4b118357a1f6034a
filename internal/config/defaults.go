package config

import "time"

// Default configuration values.
// These constants centralize all hardcoded values to enable easy configuration.
const (
	// Watcher settings
	DefaultDebounceMs = 500
	DefaultDebounce   = DefaultDebounceMs * time.Millisecond
	DefaultMaxWatches = 1000

	// UI settings
	DefaultHighlightStyle = "monokai"

	// Background runner settings
	DefaultTaskQueueSize = 64
	DefaultDrainTimeout  = 10 * time.Second
)
