package core

import "sync/atomic"

// Event is an opaque code pushed by interrupt handlers and consumed by
// the main loop
type Event int8

// Event codes
const (
	EventNone        Event = 0
	EventRotateLeft  Event = -1
	EventRotateRight Event = 1
	EventPress       Event = 2
	EventHold        Event = 3
	EventSerial      Event = 4
)

// String returns the event name
func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventRotateLeft:
		return "rotate-left"
	case EventRotateRight:
		return "rotate-right"
	case EventPress:
		return "press"
	case EventHold:
		return "hold"
	case EventSerial:
		return "serial"
	}
	return "unknown"
}

// QueueSize is the ring size; one cell stays free to tell full from empty
const QueueSize = 32

// EventQueue is a single-producer single-consumer ring of events.
// Push runs in interrupt context and Pop in the main loop. Each index has a
// single writer, so no lock is needed.
type EventQueue struct {
	buf   [QueueSize]Event
	read  atomic.Uint32
	write atomic.Uint32
}

// Push appends an event. It returns false and drops the event when full.
func (q *EventQueue) Push(ev Event) bool {
	w := q.write.Load()
	next := (w + 1) % QueueSize
	if next == q.read.Load() {
		// Queue full
		return false
	}
	q.buf[w] = ev
	q.write.Store(next)
	return true
}

// Pop removes the oldest event. It returns false when empty.
func (q *EventQueue) Pop() (Event, bool) {
	r := q.read.Load()
	if r == q.write.Load() {
		return EventNone, false
	}
	ev := q.buf[r]
	q.read.Store((r + 1) % QueueSize)
	return ev, true
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	w, r := q.write.Load(), q.read.Load()
	return int((w + QueueSize - r) % QueueSize)
}

// IsEmpty returns true if the queue is empty
func (q *EventQueue) IsEmpty() bool {
	return q.read.Load() == q.write.Load()
}

// IsFull returns true if a Push would fail
func (q *EventQueue) IsFull() bool {
	return (q.write.Load()+1)%QueueSize == q.read.Load()
}
