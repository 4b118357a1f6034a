package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRunner(t *testing.T, queueSize int) *Runner {
	t.Helper()
	r := NewRunner(queueSize)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.Shutdown(ctx)
	})
	return r
}

func TestSubmitAndWait(t *testing.T) {
	r := newTestRunner(t, 0)

	var ran atomic.Bool
	id, err := r.Submit("mark", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, r.Wait(context.Background(), id))
	assert.True(t, ran.Load())

	info, ok := r.Task(id)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, info.Status)
	assert.Equal(t, "mark", info.Name)
	assert.NoError(t, info.Err)
	assert.False(t, info.Started.IsZero())
	assert.False(t, info.Finished.IsZero())
}

func TestTasksRunInOrder(t *testing.T) {
	r := newTestRunner(t, 8)

	order := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		_, err := r.Submit("ordered", func(context.Context) error {
			order <- i
			return nil
		})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))

	close(order)
	var got []int
	for i := range order {
		got = append(got, i)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFailedTask(t *testing.T) {
	r := newTestRunner(t, 0)

	boom := errors.New("boom")
	id, err := r.Submit("fails", func(context.Context) error {
		return boom
	})
	require.NoError(t, err)

	assert.ErrorIs(t, r.Wait(context.Background(), id), boom)

	info, ok := r.Task(id)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, info.Status)
	assert.ErrorIs(t, info.Err, boom)
}

func TestCancelPendingTask(t *testing.T) {
	r := newTestRunner(t, 4)

	gate := make(chan struct{})
	_, err := r.Submit("blocker", func(ctx context.Context) error {
		select {
		case <-gate:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	require.NoError(t, err)

	var ran atomic.Bool
	pending, err := r.Submit("never-runs", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, r.Cancel(pending))
	assert.ErrorIs(t, r.Wait(context.Background(), pending), context.Canceled)

	close(gate)

	info, ok := r.Task(pending)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, info.Status)
	assert.False(t, ran.Load())
}

func TestCancelRunningTask(t *testing.T) {
	r := newTestRunner(t, 0)

	started := make(chan struct{})
	id, err := r.Submit("cancellable", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	<-started
	require.NoError(t, r.Cancel(id))
	assert.ErrorIs(t, r.Wait(context.Background(), id), context.Canceled)

	info, _ := r.Task(id)
	assert.Equal(t, StatusCancelled, info.Status)
}

func TestQueueFull(t *testing.T) {
	r := newTestRunner(t, 1)

	gate := make(chan struct{})
	defer close(gate)

	first, err := r.Submit("occupies-executor", func(ctx context.Context) error {
		select {
		case <-gate:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	require.NoError(t, err)

	// Wait until the first task is off the queue and running
	require.Eventually(t, func() bool {
		info, ok := r.Task(first)
		return ok && info.Status == StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	_, err = r.Submit("fills-queue", func(context.Context) error { return nil })
	require.NoError(t, err)

	_, err = r.Submit("rejected", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestSubmitAfterShutdown(t *testing.T) {
	r := NewRunner(0)
	require.NoError(t, r.Shutdown(context.Background()))

	_, err := r.Submit("late", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestShutdownDrainsQueue(t *testing.T) {
	r := NewRunner(8)

	var completed atomic.Int32
	for i := 0; i < 5; i++ {
		_, err := r.Submit("drained", func(context.Context) error {
			completed.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, int32(5), completed.Load())
}

func TestShutdownDeadlineCancelsWork(t *testing.T) {
	r := NewRunner(0)

	started := make(chan struct{})
	id, err := r.Submit("slow", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Shutdown(ctx), context.DeadlineExceeded)

	info, ok := r.Task(id)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, info.Status)
}

func TestFinishHandler(t *testing.T) {
	r := newTestRunner(t, 0)

	finished := make(chan Info, 1)
	r.SetFinishHandler(func(info Info) {
		finished <- info
	})

	id, err := r.Submit("observed", func(context.Context) error { return nil })
	require.NoError(t, err)

	select {
	case info := <-finished:
		assert.Equal(t, id, info.ID)
		assert.Equal(t, StatusCompleted, info.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("finish handler never called")
	}
}

func TestListOrder(t *testing.T) {
	r := newTestRunner(t, 8)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := r.Submit("listed", func(context.Context) error { return nil })
		require.NoError(t, err)
		ids = append(ids, id)
	}

	infos := r.List()
	require.Len(t, infos, 3)
	for i, info := range infos {
		assert.Equal(t, ids[i], info.ID)
	}
	assert.Equal(t, 3, r.Count())
}

func TestCleanup(t *testing.T) {
	r := newTestRunner(t, 0)

	id, err := r.Submit("short-lived", func(context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, r.Wait(context.Background(), id))

	removed := r.Cleanup(0)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, r.Count())

	_, ok := r.Task(id)
	assert.False(t, ok)
}

func TestUnknownTask(t *testing.T) {
	r := newTestRunner(t, 0)

	assert.ErrorIs(t, r.Wait(context.Background(), "task_0_0"), ErrNotFound)
	assert.ErrorIs(t, r.Cancel("task_0_0"), ErrNotFound)

	_, ok := r.Task("task_0_0")
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "cancelled", StatusCancelled.String())
}
