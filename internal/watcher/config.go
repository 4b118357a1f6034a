package watcher

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Defaults for observer construction.
const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultMaxWatches = 1000
)

// Config describes what an Observer watches: one or more directories,
// optional include/exclude glob patterns, and an optional lock-file
// name whose presence suppresses processing. Immutable once built.
type Config struct {
	dirs       []string
	include    []string
	exclude    []string
	lockFile   string
	debounce   time.Duration
	maxWatches int
}

// Option configures a Config.
type Option func(*Config)

// WithInclude sets include glob patterns. An empty set includes
// everything.
func WithInclude(patterns ...string) Option {
	return func(c *Config) {
		c.include = append([]string(nil), patterns...)
	}
}

// WithExclude sets exclude glob patterns. Exclusion wins over
// inclusion.
func WithExclude(patterns ...string) Option {
	return func(c *Config) {
		c.exclude = append([]string(nil), patterns...)
	}
}

// WithLockFile sets the lock-file name checked in each watched
// directory.
func WithLockFile(name string) Option {
	return func(c *Config) {
		c.lockFile = strings.TrimSpace(name)
	}
}

// WithDebounce sets the aggregation window for change batches.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithMaxWatches caps the number of directories registered with the
// watch primitive.
func WithMaxWatches(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxWatches = n
		}
	}
}

// NewConfig builds a Config for the given directories. A single path
// or many normalize the same way: blank entries are dropped, the rest
// are cleaned, order is preserved. At least one directory must remain.
func NewConfig(dirs []string, opts ...Option) (*Config, error) {
	normalized := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		normalized = append(normalized, filepath.Clean(dir))
	}
	if len(normalized) == 0 {
		return nil, ErrNoDirectories
	}

	cfg := &Config{
		dirs:       normalized,
		debounce:   DefaultDebounce,
		maxWatches: DefaultMaxWatches,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

// Dirs returns the normalized watched directories.
func (c *Config) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

// Include returns the include patterns.
func (c *Config) Include() []string {
	return append([]string(nil), c.include...)
}

// Exclude returns the exclude patterns.
func (c *Config) Exclude() []string {
	return append([]string(nil), c.exclude...)
}

// LockFile returns the configured lock-file name, empty if none.
func (c *Config) LockFile() string {
	return c.lockFile
}

// Debounce returns the batch aggregation window.
func (c *Config) Debounce() time.Duration {
	return c.debounce
}

// MaxWatches returns the watched-directory cap.
func (c *Config) MaxWatches() int {
	return c.maxWatches
}

// Matches reports whether a changed path passes the include/exclude
// patterns. Patterns are tried against the path relative to its
// watched root and against the base name.
func (c *Config) Matches(path string) bool {
	rel := c.relativize(path)
	base := filepath.Base(path)

	for _, pattern := range c.exclude {
		if matchPattern(pattern, rel, base) {
			return false
		}
	}
	if len(c.include) == 0 {
		return true
	}
	for _, pattern := range c.include {
		if matchPattern(pattern, rel, base) {
			return true
		}
	}
	return false
}

// IsLockPath reports whether path names the configured lock file.
func (c *Config) IsLockPath(path string) bool {
	if c.lockFile == "" {
		return false
	}
	return isLockPath(path, c.lockFile)
}

// relativize returns path relative to the watched directory containing
// it, in slash form for glob matching. Paths outside every watched
// directory fall back to their base name.
func (c *Config) relativize(path string) string {
	path = filepath.Clean(path)
	for _, dir := range c.dirs {
		if path == dir {
			return "."
		}
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			rel, err := filepath.Rel(dir, path)
			if err == nil {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.Base(path)
}

func matchPattern(pattern, rel, base string) bool {
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	if ok, err := doublestar.Match(pattern, base); err == nil && ok {
		return true
	}
	return false
}
