package core

import "testing"

func TestEventQueueFIFO(t *testing.T) {
	var q EventQueue

	events := []Event{EventRotateRight, EventRotateLeft, EventPress, EventSerial, EventHold}
	for _, ev := range events {
		if !q.Push(ev) {
			t.Fatalf("Push(%v) failed", ev)
		}
	}

	for i, want := range events {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d failed", i)
		}
		if got != want {
			t.Errorf("Pop %d = %v, want %v", i, got, want)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should fail")
	}
}

func TestEventQueueCapacity(t *testing.T) {
	var q EventQueue

	for i := 0; i < QueueSize-1; i++ {
		if !q.Push(EventPress) {
			t.Fatalf("Push %d failed before the queue was full", i)
		}
	}

	if !q.IsFull() {
		t.Error("Queue should be full after 31 pushes")
	}
	if q.Push(EventHold) {
		t.Error("Push onto a full queue should fail")
	}
	if q.Len() != QueueSize-1 {
		t.Errorf("Expected %d queued events, got %d", QueueSize-1, q.Len())
	}

	// The dropped Hold must not appear
	for i := 0; i < QueueSize-1; i++ {
		ev, _ := q.Pop()
		if ev != EventPress {
			t.Fatalf("Pop %d = %v, want press", i, ev)
		}
	}
	if !q.IsEmpty() {
		t.Error("Queue should be empty")
	}
}

func TestEventQueueWraparound(t *testing.T) {
	var q EventQueue

	// Interleave to move the indices around the ring several times
	next := 0
	expect := 0
	for round := 0; round < 5*QueueSize; round++ {
		if !q.Push(Event(next % 5)) {
			t.Fatalf("Push failed at round %d", round)
		}
		next++
		if round%3 != 0 {
			ev, ok := q.Pop()
			if !ok {
				t.Fatalf("Pop failed at round %d", round)
			}
			if ev != Event(expect%5) {
				t.Fatalf("Round %d: got %v, want %v", round, ev, Event(expect%5))
			}
			expect++
		}
		if q.IsFull() {
			for !q.IsEmpty() {
				ev, _ := q.Pop()
				if ev != Event(expect%5) {
					t.Fatalf("Drain: got %v, want %v", ev, Event(expect%5))
				}
				expect++
			}
		}
	}
}
