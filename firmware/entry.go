package firmware

import (
	"pwmbox/core"
	"pwmbox/input"
)

// Interrupt entry points. On hardware they run with interrupts disabled;
// host code must call them through core.Critical. None of them may call
// into the scheduler, which takes the same lock.

// OnTick advances the PWM engine by one tick
func (s *System) OnTick() {
	s.engine.Tick()
}

// OnRotaryEdge feeds the encoder line levels after a change on either
// line
func (s *System) OnRotaryEdge(a, b bool) {
	s.idle.Store(0)
	switch s.rotary.Step(a, b) {
	case input.DirCW:
		s.push(core.EventRotateRight)
	case input.DirCCW:
		s.push(core.EventRotateLeft)
	}
}

// OnButtonEdge feeds a change of the push button. A press that starts
// during the boot screen only asks for the slow screen after boot.
func (s *System) OnButtonEdge(pressed bool) {
	s.idle.Store(0)
	now := s.time.Millis()
	if pressed && now < s.cfg.Timing.BootDelayS*1000 {
		s.bootPush.Store(true)
		s.bootPress = true
	}

	p := s.button.Edge(pressed, now)
	if !pressed && s.bootPress {
		s.bootPress = false
		return
	}
	switch p {
	case input.Push:
		s.push(core.EventPress)
	case input.Hold:
		s.push(core.EventHold)
	}
}

// OnSerialByte feeds one received byte to the framer
func (s *System) OnSerialByte(b byte) {
	if s.framer.Feed(b) {
		s.push(core.EventSerial)
	}
}

func (s *System) push(ev core.Event) {
	if !s.events.Push(ev) {
		s.dropped.Add(1)
	}
}
