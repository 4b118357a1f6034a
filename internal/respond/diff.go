package respond

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"groundwork/internal/fileutil"
	"groundwork/internal/highlight"
	"groundwork/internal/logging"
	"groundwork/internal/watcher"
)

// DiffResponder prints a unified diff for every modified text file,
// keeping an in-memory snapshot of the last seen content per path.
// The first sighting of a file only records a baseline. It can wrap
// another responder, which then sees the same batches.
type DiffResponder struct {
	next watcher.Responder
	out  io.Writer
	hl   *highlight.Highlighter

	mu        sync.Mutex
	snapshots map[string]string
}

// NewDiffResponder creates a DiffResponder writing to out. A nil
// highlighter produces plain diffs; a nil next means diffs only.
func NewDiffResponder(out io.Writer, hl *highlight.Highlighter, next watcher.Responder) *DiffResponder {
	if out == nil {
		out = io.Discard
	}
	return &DiffResponder{
		next:      next,
		out:       out,
		hl:        hl,
		snapshots: make(map[string]string),
	}
}

// ShouldProcess delegates to the wrapped responder when there is one.
func (r *DiffResponder) ShouldProcess(path string) bool {
	if r.next != nil {
		return r.next.ShouldProcess(path)
	}
	return true
}

// HandleDirectoryChange diffs modified files against their snapshots,
// then forwards the batch to the wrapped responder.
func (r *DiffResponder) HandleDirectoryChange(ctx context.Context, batch watcher.ChangeBatch) error {
	for _, ev := range batch {
		switch ev.Kind {
		case watcher.Created, watcher.Modified:
			r.diffAgainstSnapshot(ev.Path)
		case watcher.Deleted:
			r.forget(ev.Path)
		}
	}

	if r.next != nil {
		return r.next.HandleDirectoryChange(ctx, batch)
	}
	return nil
}

// Snapshot records the current content of path as the diff baseline.
func (r *DiffResponder) Snapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	if fileutil.IsBinaryData(data) {
		return fmt.Errorf("snapshot %s: binary file", path)
	}

	r.mu.Lock()
	r.snapshots[path] = string(data)
	r.mu.Unlock()
	return nil
}

func (r *DiffResponder) diffAgainstSnapshot(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.forget(path)
		return
	}
	if fileutil.IsBinaryData(data) {
		logging.Debug("skipping binary file", "path", path)
		return
	}
	current := string(data)

	r.mu.Lock()
	previous, seen := r.snapshots[path]
	r.snapshots[path] = current
	r.mu.Unlock()

	if !seen || previous == current {
		return
	}

	diff := fileutil.Diff(previous, current, path, path)
	if r.hl != nil {
		diff = r.hl.HighlightDiff(diff)
	}
	fmt.Fprintln(r.out, diff)
}

func (r *DiffResponder) forget(path string) {
	r.mu.Lock()
	delete(r.snapshots, path)
	r.mu.Unlock()
}
