package core

// Timer represents a scheduled main-loop event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by wake time and runs the due ones.
// Times are milliseconds since boot; comparisons survive wraparound.
type Scheduler struct {
	timerList *Timer
}

// before reports whether a is earlier than b on the wrapping clock
func before(a, b uint32) bool {
	return int32(a-b) < 0
}

// Schedule adds a timer to the schedule
func (s *Scheduler) Schedule(t *Timer) {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)

	s.remove(t)
	s.insert(t)
}

// Cancel removes a timer if it is pending
func (s *Scheduler) Cancel(t *Timer) {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)

	s.remove(t)
}

// Pending reports whether the timer is in the schedule
func (s *Scheduler) Pending(t *Timer) bool {
	for cur := s.timerList; cur != nil; cur = cur.Next {
		if cur == t {
			return true
		}
	}
	return false
}

// insert inserts a timer in sorted order by WakeTime
func (s *Scheduler) insert(t *Timer) {
	if s.timerList == nil || before(t.WakeTime, s.timerList.WakeTime) {
		t.Next = s.timerList
		s.timerList = t
		return
	}

	current := s.timerList
	for current.Next != nil && !before(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

func (s *Scheduler) remove(t *Timer) {
	if s.timerList == t {
		s.timerList = t.Next
		t.Next = nil
		return
	}
	for cur := s.timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// Dispatch processes timers with WakeTime <= now. Handlers run with
// interrupts enabled because they touch PWM state through the virtual
// layer, which takes its own critical sections.
func (s *Scheduler) Dispatch(now uint32) {
	for s.timerList != nil && !before(now, s.timerList.WakeTime) {
		state := DisableInterrupts()
		timer := s.timerList
		s.timerList = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references
		RestoreInterrupts(state)

		if timer.Handler(timer) == SF_RESCHEDULE {
			state = DisableInterrupts()
			s.insert(timer)
			RestoreInterrupts(state)
		}
	}
}
