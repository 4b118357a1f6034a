package watcher

import (
	"errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher errors.
var (
	ErrNoDirectories = errors.New("no directories to watch")
	ErrEventsClosed  = errors.New("watch primitive closed its event stream")
)

// Kind represents the kind of a file system change.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
)

// String returns the string representation of the change kind.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single file system change, a (kind, path) pair.
type ChangeEvent struct {
	Kind Kind
	Path string
}

// ChangeBatch is a deduplicated set of changes delivered together
// after debounce aggregation. It is consumed once and discarded.
type ChangeBatch []ChangeEvent

// Paths returns the paths of all events in the batch, in order.
func (b ChangeBatch) Paths() []string {
	paths := make([]string, len(b))
	for i, ev := range b {
		paths[i] = ev.Path
	}
	return paths
}

// Contains reports whether the batch holds an event for path.
func (b ChangeBatch) Contains(path string) bool {
	for _, ev := range b {
		if ev.Path == path {
			return true
		}
	}
	return false
}

// kindOf maps an fsnotify event to a change kind. Chmod-only events
// carry no content change and are dropped.
func kindOf(ev fsnotify.Event) (Kind, bool) {
	switch {
	case ev.Has(fsnotify.Create):
		return Created, true
	case ev.Has(fsnotify.Write):
		return Modified, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Deleted, true
	default:
		return 0, false
	}
}
