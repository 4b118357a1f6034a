package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"groundwork/internal/logging"
)

// Directories never worth watching.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"__pycache__":  true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

// Observer watches the configured directories and delivers debounced
// change batches. Each Observe call starts a fresh sequence over a
// fresh watch primitive; Stop ends the current sequence.
type Observer struct {
	cfg *Config

	mu       sync.Mutex
	done     chan struct{}
	stopOnce *sync.Once
	err      error
}

// NewObserver creates an Observer for cfg.
func NewObserver(cfg *Config) *Observer {
	return &Observer{cfg: cfg}
}

// Config returns the observer's configuration.
func (o *Observer) Config() *Config {
	return o.cfg
}

// Observe starts watching and returns the batch sequence. The channel
// is unbuffered, so the observer suspends between batches until the
// consumer is ready. It closes when Stop is called, ctx is done, or
// the watch primitive fails; after a failure Err reports the cause.
// Any previous sequence is stopped first.
func (o *Observer) Observe(ctx context.Context) <-chan ChangeBatch {
	o.mu.Lock()
	if o.done != nil {
		prev := o.done
		o.stopOnce.Do(func() { close(prev) })
	}
	done := make(chan struct{})
	o.done = done
	o.stopOnce = new(sync.Once)
	o.err = nil
	o.mu.Unlock()

	out := make(chan ChangeBatch)
	go o.run(ctx, done, out)
	return out
}

// Stop ends the current sequence. Best-effort: the sequence ends at
// the top of its next iteration. Safe to call at any time, repeatedly.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done == nil {
		return
	}
	current := o.done
	o.stopOnce.Do(func() { close(current) })
}

// Err returns the terminal error of the most recent sequence, nil
// after a clean stop.
func (o *Observer) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func (o *Observer) setErr(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()
}

// IsLockFilePresent reports whether the configured lock-file name
// exists in at least one watched directory right now. Always false
// when no lock file is configured.
func (o *Observer) IsLockFilePresent() bool {
	lock := o.cfg.LockFile()
	if lock == "" {
		return false
	}
	for _, dir := range o.cfg.dirs {
		if _, err := os.Stat(filepath.Join(dir, lock)); err == nil {
			return true
		}
	}
	return false
}

// LockFile returns the configured lock-file name.
func (o *Observer) LockFile() string {
	return o.cfg.LockFile()
}

// runState is the per-sequence watch state. A fresh one per Observe
// call keeps sequences independent.
type runState struct {
	fw         *fsnotify.Watcher
	pending    *batcher
	watchCount int
}

func (o *Observer) run(ctx context.Context, done chan struct{}, out chan<- ChangeBatch) {
	defer close(out)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("failed to start watch primitive", "error", err)
		o.setErr(err)
		return
	}
	defer fw.Close()

	rs := &runState{fw: fw, pending: newBatcher(o.cfg.debounce)}
	var addErr error
	for _, dir := range o.cfg.dirs {
		if err := o.addRecursive(rs, dir); err != nil && addErr == nil {
			addErr = err
		}
	}
	if rs.watchCount == 0 {
		if addErr == nil {
			addErr = ErrNoDirectories
		}
		logging.Error("no watchable directories", "error", addErr)
		o.setErr(addErr)
		return
	}
	logging.Debug("observer started",
		"dirs", len(o.cfg.dirs), "watches", rs.watchCount, "debounce", o.cfg.debounce)

	tick := o.cfg.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				logging.Error("watch primitive closed unexpectedly")
				o.setErr(ErrEventsClosed)
				return
			}
			o.handleEvent(rs, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				logging.Error("watch primitive closed unexpectedly")
				o.setErr(ErrEventsClosed)
				return
			}
			logging.Error("watch primitive failed", "error", err)
			o.setErr(err)
			return
		case now := <-ticker.C:
			batch := rs.pending.flush(now)
			if len(batch) == 0 {
				continue
			}
			select {
			case out <- batch:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// addRecursive registers dir and its subdirectories with the watch
// primitive, up to the configured cap.
func (o *Observer) addRecursive(rs *runState, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // Skip inaccessible paths
		}
		if !info.IsDir() {
			return nil
		}
		if rs.watchCount >= o.cfg.maxWatches {
			return filepath.SkipDir
		}

		if path != dir {
			if skipDirs[info.Name()] || o.excludedDir(path) {
				return filepath.SkipDir
			}
		}
		if err := rs.fw.Add(path); err != nil {
			return nil // Don't fail on individual directory errors
		}
		rs.watchCount++
		return nil
	})
}

// excludedDir reports whether a directory matches an exclude pattern.
// Include patterns describe files and do not gate registration.
func (o *Observer) excludedDir(path string) bool {
	rel := o.cfg.relativize(path)
	base := filepath.Base(path)
	for _, pattern := range o.cfg.exclude {
		if matchPattern(pattern, rel, base) {
			return true
		}
	}
	return false
}

func (o *Observer) handleEvent(rs *runState, ev fsnotify.Event) {
	path := ev.Name

	// Skip temporary files
	base := filepath.Base(path)
	if len(base) > 0 && (base[0] == '.' || base[0] == '#' || base[len(base)-1] == '~') {
		return
	}

	kind, ok := kindOf(ev)
	if !ok {
		return
	}

	// If a new directory was created, add it to the watch list
	if kind == Created {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipDirs[base] && !o.excludedDir(path) && rs.watchCount < o.cfg.maxWatches {
				if err := rs.fw.Add(path); err == nil {
					rs.watchCount++
				}
			}
		}
	}

	if !o.cfg.Matches(path) {
		return
	}
	rs.pending.add(ChangeEvent{Kind: kind, Path: path}, time.Now())
}
