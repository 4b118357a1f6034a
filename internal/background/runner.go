// Package background runs submitted functions serially on a single
// goroutine, for callers that need work off their own goroutine
// without managing one. Tasks queue in submission order; a full queue
// rejects rather than blocks.
package background

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"groundwork/internal/logging"
)

// DefaultQueueSize bounds the pending-task queue when NewRunner gets
// a non-positive size.
const DefaultQueueSize = 64

var (
	// ErrClosed is returned by Submit after Shutdown.
	ErrClosed = errors.New("runner closed")
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	ErrQueueFull = errors.New("task queue full")
	// ErrNotFound is returned for unknown task ids.
	ErrNotFound = errors.New("task not found")
)

// Func is a unit of background work. It must honor ctx cancellation.
type Func func(ctx context.Context) error

// Status represents the state of a background task.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type task struct {
	id       string
	name     string
	fn       Func
	status   Status
	err      error
	queued   time.Time
	started  time.Time
	finished time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Info is a point-in-time snapshot of a task.
type Info struct {
	ID       string
	Name     string
	Status   Status
	Err      error
	Queued   time.Time
	Started  time.Time
	Finished time.Time
	Duration time.Duration
}

// FinishHandler is called after each task finishes, on the runner
// goroutine.
type FinishHandler func(Info)

// Runner executes submitted tasks one at a time.
type Runner struct {
	queue   chan *task
	tasks   map[string]*task
	counter int
	closed  bool

	onFinish FinishHandler

	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu sync.RWMutex
}

// NewRunner creates a Runner and starts its executor goroutine.
func NewRunner(queueSize int) *Runner {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		queue:   make(chan *task, queueSize),
		tasks:   make(map[string]*task),
		baseCtx: ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go r.loop()
	return r
}

// SetFinishHandler sets the handler called after each task finishes.
func (r *Runner) SetFinishHandler(handler FinishHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFinish = handler
}

// Submit queues fn for execution and returns its task id.
func (r *Runner) Submit(name string, fn Func) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("submit %q: nil func", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrClosed
	}

	r.counter++
	id := fmt.Sprintf("task_%d_%d", time.Now().Unix(), r.counter)

	ctx, cancel := context.WithCancel(r.baseCtx)
	t := &task{
		id:     id,
		name:   name,
		fn:     fn,
		status: StatusPending,
		queued: time.Now(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	select {
	case r.queue <- t:
	default:
		cancel()
		return "", ErrQueueFull
	}

	r.tasks[id] = t
	logging.Debug("task queued", "id", id, "name", name)
	return id, nil
}

func (r *Runner) loop() {
	defer close(r.done)

	for t := range r.queue {
		r.execute(t)
	}
}

func (r *Runner) execute(t *task) {
	r.mu.Lock()
	if t.status == StatusCancelled {
		r.mu.Unlock()
		return
	}
	if t.ctx.Err() != nil {
		r.finishLocked(t, StatusCancelled, t.ctx.Err())
		r.mu.Unlock()
		return
	}
	t.status = StatusRunning
	t.started = time.Now()
	fn, ctx := t.fn, t.ctx
	r.mu.Unlock()

	err := fn(ctx)

	r.mu.Lock()
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		if t.ctx.Err() != nil && errors.Is(err, context.Canceled) {
			status = StatusCancelled
		}
	}
	r.finishLocked(t, status, err)
	handler, info := r.onFinish, snapshot(t)
	r.mu.Unlock()

	logging.Debug("task finished", "id", t.id, "name", t.name, "status", status.String())
	if handler != nil {
		handler(info)
	}
}

// finishLocked records a terminal state. Callers hold r.mu.
func (r *Runner) finishLocked(t *task, status Status, err error) {
	t.status = status
	t.err = err
	t.finished = time.Now()
	t.cancel()
	close(t.done)
}

// Task returns a snapshot of the task with the given id.
func (r *Runner) Task(id string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return Info{}, false
	}
	return snapshot(t), true
}

// List returns snapshots of all known tasks in submission order.
func (r *Runner) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.tasks))
	for _, t := range r.tasks {
		result = append(result, snapshot(t))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Queued.Equal(result[j].Queued) {
			return result[i].ID < result[j].ID
		}
		return result[i].Queued.Before(result[j].Queued)
	})
	return result
}

// Count returns the number of known tasks.
func (r *Runner) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Wait blocks until the task finishes and returns its terminal error,
// or ctx's error if that fires first.
func (r *Runner) Wait(ctx context.Context, id string) error {
	r.mu.RLock()
	t, ok := r.tasks[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	select {
	case <-t.done:
		r.mu.RLock()
		defer r.mu.RUnlock()
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel cancels a pending or running task. Cancelling a finished
// task is a no-op.
func (r *Runner) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	switch t.status {
	case StatusPending:
		r.finishLocked(t, StatusCancelled, context.Canceled)
	case StatusRunning:
		t.cancel()
	}
	return nil
}

// CancelAll cancels every pending and running task.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		switch t.status {
		case StatusPending:
			r.finishLocked(t, StatusCancelled, context.Canceled)
		case StatusRunning:
			t.cancel()
		}
	}
}

// Cleanup removes finished tasks older than maxAge and returns how
// many were dropped.
func (r *Runner) Cleanup(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	count := 0
	for id, t := range r.tasks {
		if !t.finished.IsZero() && t.finished.Before(cutoff) {
			delete(r.tasks, id)
			count++
		}
	}
	return count
}

// Shutdown stops accepting work, drains the queue, and waits for the
// executor to exit. When ctx fires first the running task is
// cancelled and Shutdown returns ctx's error after the executor
// stops.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.cancel()
		<-r.done
		return ctx.Err()
	}
}

func snapshot(t *task) Info {
	info := Info{
		ID:       t.id,
		Name:     t.name,
		Status:   t.status,
		Err:      t.err,
		Queued:   t.queued,
		Started:  t.started,
		Finished: t.finished,
	}
	switch {
	case t.started.IsZero():
	case t.finished.IsZero():
		info.Duration = time.Since(t.started)
	default:
		info.Duration = t.finished.Sub(t.started)
	}
	return info
}
