package firmware

import (
	"pwmbox/core"
	"pwmbox/menu"
)

// Poll runs one main-loop iteration: due timers, the timed screen
// changes, then at most one queued event. A panic aborts the iteration
// and is counted; the next call starts clean.
func (s *System) Poll() {
	defer func() {
		if r := recover(); r != nil {
			s.panics++
			s.log.Value("recovered from panic", "count", int(s.panics))
		}
	}()

	now := s.time.Millis()
	s.sched.Dispatch(now)
	s.screens(now)
	s.track()

	if ev, ok := s.events.Pop(); ok {
		s.dispatch(ev)
		s.track()
	}
}

// track restarts the warning timeout whenever the warning screen opens
func (s *System) track() {
	cur := s.menu.Current()
	if cur == menu.Warn && s.lastMenu != menu.Warn {
		s.warn = 0
	}
	s.lastMenu = cur
}

// screens applies the boot delay, the warning timeout and the
// screensaver
func (s *System) screens(now uint32) {
	t := &s.cfg.Timing
	switch s.menu.Current() {
	case menu.Info:
		if !s.booted {
			if now/1000 < t.BootDelayS {
				return
			}
			s.booted = true
			if s.bootPush.Load() {
				s.menu.Change(menu.Slow)
			} else {
				s.menu.Change(menu.List)
			}
			s.idle.Store(0)
		} else if s.idle.Load() == 0 {
			s.menu.Revert()
		}
	case menu.Warn:
		if s.warn >= t.WarnDelayS {
			s.menu.Revert()
			s.warn = 0
		}
	default:
		if s.booted && s.idle.Load() == t.UITimeoutS && !s.player.Running() {
			s.menu.Change(menu.Info)
		}
	}
}

func (s *System) dispatch(ev core.Event) {
	switch ev {
	case core.EventRotateLeft:
		s.menu.Scroll(-1)
	case core.EventRotateRight:
		s.menu.Scroll(1)
	case core.EventPress:
		s.menu.Press()
	case core.EventHold:
		s.menu.Hold()
	case core.EventSerial:
		s.serve()
	}
}

// serve answers every complete frame waiting in the framer
func (s *System) serve() {
	for {
		frame := s.framer.Next(s.frame[:])
		if frame == nil {
			return
		}
		if err := s.proto.Handle(frame, s.serial); err != nil {
			s.log.Error("serial", err)
		}
	}
}

func (s *System) everySecond(t *core.Timer) uint8 {
	s.idle.Add(1)
	if cur := s.menu.Current(); cur == menu.Info || cur == menu.Warn {
		s.warn++
	}
	t.WakeTime += 1000
	return core.SF_RESCHEDULE
}

func (s *System) everyStep(t *core.Timer) uint8 {
	if s.player.Running() {
		s.player.Advance()
	}
	t.WakeTime += s.cfg.Timing.SlowStepMs
	return core.SF_RESCHEDULE
}
