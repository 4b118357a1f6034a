package watcher

import (
	"context"
	"path/filepath"

	"groundwork/internal/logging"
)

// Responder decides whether and how to react to filesystem changes.
// It is owned by the calling application.
type Responder interface {
	// ShouldProcess reports whether a changed path is of interest.
	ShouldProcess(path string) bool
	// HandleDirectoryChange receives the surviving events of one
	// batch. An error stops processing.
	HandleDirectoryChange(ctx context.Context, batch ChangeBatch) error
}

// Source is the batch producer a Processor consumes. *Observer is the
// production implementation.
type Source interface {
	Observe(ctx context.Context) <-chan ChangeBatch
	Stop()
	Err() error
	IsLockFilePresent() bool
	LockFile() string
}

// Processor consumes a Source's batches, filters them through the
// responder's predicate and the lock-file rules, and dispatches what
// survives.
type Processor struct {
	src       Source
	responder Responder
}

// NewProcessor creates a Processor dispatching src's batches to
// responder.
func NewProcessor(src Source, responder Responder) *Processor {
	return &Processor{src: src, responder: responder}
}

// ProcessChanges runs the dispatch loop until the batch sequence ends.
// It returns the source's terminal error, the context's error, or the
// first responder error. Responder errors are not retried.
func (p *Processor) ProcessChanges(ctx context.Context) error {
	batches := p.src.Observe(ctx)

	for {
		select {
		case <-ctx.Done():
			p.src.Stop()
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				return p.src.Err()
			}
			kept := p.filter(batch)
			if len(kept) == 0 {
				continue
			}
			if err := p.responder.HandleDirectoryChange(ctx, kept); err != nil {
				p.src.Stop()
				return err
			}
		}
	}
}

// StopObserving ends the underlying batch sequence.
func (p *Processor) StopObserving() {
	p.src.Stop()
}

// filter applies the processing rules to one batch: a present lock
// file drops the whole batch, the lock file's own events never pass,
// and everything else is up to the responder's predicate.
func (p *Processor) filter(batch ChangeBatch) ChangeBatch {
	if p.src.IsLockFilePresent() {
		logging.Debug("lock file present, dropping batch", "events", len(batch))
		return nil
	}

	lock := p.src.LockFile()
	var kept ChangeBatch
	for _, ev := range batch {
		if lock != "" && isLockPath(ev.Path, lock) {
			continue
		}
		if !p.responder.ShouldProcess(ev.Path) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

// isLockPath reports whether path names the lock file.
func isLockPath(path, lock string) bool {
	return filepath.Base(path) == lock
}
