// Package respond implements the responders dispatched by the watch
// pipeline: one that logs surviving changes and one that prints
// unified diffs of modified text files.
package respond

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"groundwork/internal/logging"
	"groundwork/internal/watcher"
)

// LogResponder logs every change it is handed. An optional pattern
// list narrows which paths it accepts; patterns are tried against the
// slash form of the full path and against the base name.
type LogResponder struct {
	patterns []string
}

// NewLogResponder creates a LogResponder. With no patterns every path
// is accepted.
func NewLogResponder(patterns []string) *LogResponder {
	return &LogResponder{patterns: patterns}
}

// ShouldProcess reports whether path matches the responder's patterns.
func (r *LogResponder) ShouldProcess(path string) bool {
	if len(r.patterns) == 0 {
		return true
	}

	full := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range r.patterns {
		if ok, err := doublestar.Match(pattern, full); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// HandleDirectoryChange logs the batch, one line per event.
func (r *LogResponder) HandleDirectoryChange(_ context.Context, batch watcher.ChangeBatch) error {
	logging.Notice("directory changed", "events", len(batch))
	for _, ev := range batch {
		logging.Info("file changed", "kind", ev.Kind.String(), "path", ev.Path)
	}
	return nil
}
