package core

import "testing"

func TestSchedulerOrder(t *testing.T) {
	var s Scheduler
	var fired []int

	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			fired = append(fired, id)
			return SF_DONE
		}}
	}

	s.Schedule(mk(3, 300))
	s.Schedule(mk(1, 100))
	s.Schedule(mk(2, 200))

	s.Dispatch(150)
	if len(fired) != 1 || fired[0] != 1 {
		t.Fatalf("At 150 expected [1], got %v", fired)
	}

	s.Dispatch(300)
	if len(fired) != 3 || fired[1] != 2 || fired[2] != 3 {
		t.Errorf("At 300 expected [1 2 3], got %v", fired)
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var s Scheduler
	count := 0

	timer := &Timer{WakeTime: 1000}
	timer.Handler = func(tm *Timer) uint8 {
		count++
		tm.WakeTime += 1000
		return SF_RESCHEDULE
	}
	s.Schedule(timer)

	for now := uint32(0); now <= 5000; now += 100 {
		s.Dispatch(now)
	}

	if count != 5 {
		t.Errorf("Periodic timer fired %d times, want 5", count)
	}
	if !s.Pending(timer) {
		t.Error("Periodic timer should still be pending")
	}

	s.Cancel(timer)
	if s.Pending(timer) {
		t.Error("Cancelled timer still pending")
	}
}

func TestSchedulerWraparound(t *testing.T) {
	var s Scheduler
	fired := false

	start := uint32(0xFFFFFF00)
	s.Schedule(&Timer{WakeTime: start + 0x200, Handler: func(*Timer) uint8 {
		fired = true
		return SF_DONE
	}})

	s.Dispatch(start)
	if fired {
		t.Fatal("Timer fired early across the wrap")
	}

	s.Dispatch(start + 0x200)
	if !fired {
		t.Error("Timer did not fire after the wrap")
	}
}

func TestScheduleTwiceKeepsOneEntry(t *testing.T) {
	var s Scheduler
	count := 0
	timer := &Timer{WakeTime: 10, Handler: func(*Timer) uint8 {
		count++
		return SF_DONE
	}}

	s.Schedule(timer)
	timer.WakeTime = 20
	s.Schedule(timer)

	s.Dispatch(100)
	if count != 1 {
		t.Errorf("Timer fired %d times, want 1", count)
	}
}
