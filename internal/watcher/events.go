package watcher

import "time"

// BatchMsg is a Bubble Tea message carrying one processed batch.
type BatchMsg struct {
	Batch ChangeBatch
	Time  time.Time
}

// NewBatchMsg creates a batch message stamped with the current time.
func NewBatchMsg(batch ChangeBatch) BatchMsg {
	return BatchMsg{
		Batch: batch,
		Time:  time.Now(),
	}
}

// TimedEvent is a change event with its delivery time.
type TimedEvent struct {
	Event ChangeEvent
	Time  time.Time
}

// EventBuffer is a circular buffer for recent events.
type EventBuffer struct {
	events []TimedEvent
	size   int
	head   int
	count  int
}

// NewEventBuffer creates a new event buffer with the given capacity.
func NewEventBuffer(capacity int) *EventBuffer {
	if capacity < 1 {
		capacity = 100
	}
	return &EventBuffer{
		events: make([]TimedEvent, capacity),
		size:   capacity,
	}
}

// Add adds an event to the buffer.
func (b *EventBuffer) Add(event TimedEvent) {
	b.events[b.head] = event
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// AddBatch adds every event of a batch with a shared timestamp.
func (b *EventBuffer) AddBatch(batch ChangeBatch, at time.Time) {
	for _, ev := range batch {
		b.Add(TimedEvent{Event: ev, Time: at})
	}
}

// Recent returns the n most recent events, oldest first.
func (b *EventBuffer) Recent(n int) []TimedEvent {
	if n > b.count {
		n = b.count
	}
	if n <= 0 {
		return nil
	}

	result := make([]TimedEvent, n)
	for i := 0; i < n; i++ {
		idx := (b.head - n + i + b.size) % b.size
		result[i] = b.events[idx]
	}

	return result
}

// Clear clears the event buffer.
func (b *EventBuffer) Clear() {
	b.head = 0
	b.count = 0
}

// Len returns the number of events in the buffer.
func (b *EventBuffer) Len() int {
	return b.count
}
