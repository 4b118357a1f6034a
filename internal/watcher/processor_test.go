package watcher

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	batches     chan ChangeBatch
	err         error
	lockFile    string
	lockPresent bool
	stopped     atomic.Bool
}

func newFakeSource(lockFile string) *fakeSource {
	return &fakeSource{
		batches:  make(chan ChangeBatch, 16),
		lockFile: lockFile,
	}
}

func (f *fakeSource) Observe(context.Context) <-chan ChangeBatch { return f.batches }
func (f *fakeSource) Stop()                                      { f.stopped.Store(true) }
func (f *fakeSource) Err() error                                 { return f.err }
func (f *fakeSource) IsLockFilePresent() bool                    { return f.lockPresent }
func (f *fakeSource) LockFile() string                           { return f.lockFile }

type recordingResponder struct {
	accept    func(path string) bool
	handleErr error
	asked     int
	handled   []ChangeBatch
}

func (r *recordingResponder) ShouldProcess(path string) bool {
	r.asked++
	if r.accept == nil {
		return true
	}
	return r.accept(path)
}

func (r *recordingResponder) HandleDirectoryChange(_ context.Context, batch ChangeBatch) error {
	r.handled = append(r.handled, batch)
	return r.handleErr
}

func TestProcessorDispatchesSurvivingEvents(t *testing.T) {
	src := newFakeSource("")
	resp := &recordingResponder{
		accept: func(path string) bool { return strings.HasSuffix(path, ".txt") },
	}

	src.batches <- ChangeBatch{
		{Kind: Modified, Path: "/tmp/proj/a.txt"},
		{Kind: Modified, Path: "/tmp/proj/b.bin"},
	}
	close(src.batches)

	err := NewProcessor(src, resp).ProcessChanges(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.handled, 1)
	assert.Equal(t, ChangeBatch{{Kind: Modified, Path: "/tmp/proj/a.txt"}}, resp.handled[0])
}

func TestProcessorExcludesLockFileEvent(t *testing.T) {
	// Watching /tmp/proj with lock file "LOCK": the lock file's own
	// event never reaches the responder, even with a predicate that
	// accepts everything.
	src := newFakeSource("LOCK")
	resp := &recordingResponder{}

	src.batches <- ChangeBatch{
		{Kind: Modified, Path: "/tmp/proj/a.txt"},
		{Kind: Modified, Path: "/tmp/proj/LOCK"},
	}
	close(src.batches)

	err := NewProcessor(src, resp).ProcessChanges(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.handled, 1)
	assert.Equal(t, ChangeBatch{{Kind: Modified, Path: "/tmp/proj/a.txt"}}, resp.handled[0])
}

func TestProcessorDropsBatchWhileLocked(t *testing.T) {
	src := newFakeSource("LOCK")
	src.lockPresent = true
	resp := &recordingResponder{}

	src.batches <- ChangeBatch{
		{Kind: Created, Path: "/tmp/proj/a.txt"},
		{Kind: Modified, Path: "/tmp/proj/b.txt"},
	}
	close(src.batches)

	err := NewProcessor(src, resp).ProcessChanges(context.Background())
	require.NoError(t, err)

	assert.Empty(t, resp.handled)
	// The predicate is not even consulted for a locked batch
	assert.Zero(t, resp.asked)
}

func TestProcessorSkipsFullyRejectedBatch(t *testing.T) {
	src := newFakeSource("")
	resp := &recordingResponder{
		accept: func(string) bool { return false },
	}

	src.batches <- ChangeBatch{{Kind: Modified, Path: "/tmp/proj/a.txt"}}
	close(src.batches)

	err := NewProcessor(src, resp).ProcessChanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.handled)
}

func TestProcessorFailsFastOnResponderError(t *testing.T) {
	src := newFakeSource("")
	boom := errors.New("responder exploded")
	resp := &recordingResponder{handleErr: boom}

	src.batches <- ChangeBatch{{Kind: Modified, Path: "/tmp/proj/a.txt"}}
	src.batches <- ChangeBatch{{Kind: Modified, Path: "/tmp/proj/b.txt"}}
	close(src.batches)

	err := NewProcessor(src, resp).ProcessChanges(context.Background())
	assert.ErrorIs(t, err, boom)

	// No retry, no second dispatch
	assert.Len(t, resp.handled, 1)
	assert.True(t, src.stopped.Load())
}

func TestProcessorReturnsSourceError(t *testing.T) {
	src := newFakeSource("")
	src.err = errors.New("watch primitive failed")
	close(src.batches)

	err := NewProcessor(src, &recordingResponder{}).ProcessChanges(context.Background())
	assert.EqualError(t, err, "watch primitive failed")
}

func TestProcessorCleanEndReturnsNil(t *testing.T) {
	src := newFakeSource("")
	close(src.batches)

	err := NewProcessor(src, &recordingResponder{}).ProcessChanges(context.Background())
	assert.NoError(t, err)
}

func TestProcessorHonorsContext(t *testing.T) {
	src := newFakeSource("")
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() {
		result <- NewProcessor(src, &recordingResponder{}).ProcessChanges(ctx)
	}()

	cancel()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("ProcessChanges did not return after cancellation")
	}
	assert.True(t, src.stopped.Load())
}

func TestStopObservingDelegates(t *testing.T) {
	src := newFakeSource("")

	NewProcessor(src, &recordingResponder{}).StopObserving()
	assert.True(t, src.stopped.Load())
}
