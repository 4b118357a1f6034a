package watcher

import (
	"sort"
	"time"
)

// batcher aggregates change events over a debounce window. An event
// re-observed before the window elapses has its clock reset, so a
// burst of writes to one path yields a single entry. Keyed by the
// full (kind, path) pair: a create and a later write to the same path
// are distinct changes.
type batcher struct {
	window  time.Duration
	pending map[ChangeEvent]time.Time
}

func newBatcher(window time.Duration) *batcher {
	return &batcher{
		window:  window,
		pending: make(map[ChangeEvent]time.Time),
	}
}

func (b *batcher) add(ev ChangeEvent, now time.Time) {
	b.pending[ev] = now
}

// flush returns the events that have been stable for a full window and
// removes them from the pending set. The batch is ordered by path then
// kind so downstream output is deterministic.
func (b *batcher) flush(now time.Time) ChangeBatch {
	if len(b.pending) == 0 {
		return nil
	}

	var batch ChangeBatch
	for ev, seen := range b.pending {
		if now.Sub(seen) >= b.window {
			batch = append(batch, ev)
			delete(b.pending, ev)
		}
	}
	if len(batch) == 0 {
		return nil
	}

	sort.Slice(batch, func(i, j int) bool {
		if batch[i].Path != batch[j].Path {
			return batch[i].Path < batch[j].Path
		}
		return batch[i].Kind < batch[j].Kind
	})
	return batch
}

func (b *batcher) len() int {
	return len(b.pending)
}
