// Package pwm generates software PWM on plain GPIO outputs.
//
// Engine.Tick runs from a fixed-rate timer interrupt and walks every
// channel once per call. The Bank type is the main-loop side: it clamps
// user parameters, derives the tick thresholds and updates channels inside
// a critical section so the interrupt never observes a half-written channel.
package pwm

import "pwmbox/core"

// NumChannels is the number of PWM outputs
const NumChannels = 8

// Mode selects how a channel drives its pin
type Mode uint8

const (
	ModeOff Mode = iota
	ModePWM
	ModeOn
)

// String returns the mode as shown on the display
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModePWM:
		return "PWM"
	case ModeOn:
		return "ON"
	}
	return "?"
}

// Channel is one output and its derived counters
type Channel struct {
	Pin core.GPIOPin

	Mode      Mode
	Frequency uint16 // tenths of Hz, 0..MaxFrequency
	Duty      uint8  // percent, 0..100
	Phase     int8   // percent of a period, -99..99

	CyclesOn    uint32 // ticks high per period
	CyclesTotal uint32 // ticks per period
	Counter     uint32 // free-running tick counter
}

// Engine owns the channels and applies one transition per tick
type Engine struct {
	out      core.OutputDriver
	channels [NumChannels]Channel
	ticks    uint64
}

// NewEngine creates an engine writing to out
func NewEngine(out core.OutputDriver) *Engine {
	return &Engine{out: out}
}

// Tick advances every channel by one tick. It is called from the timer
// interrupt: no allocation, no blocking.
func (e *Engine) Tick() {
	for i := range e.channels {
		ch := &e.channels[i]
		switch ch.Mode {
		case ModeOff:
			e.out.SetPin(ch.Pin, false)
		case ModeOn:
			e.out.SetPin(ch.Pin, true)
		case ModePWM:
			if ch.Counter >= ch.CyclesTotal {
				if ch.CyclesOn != 0 {
					e.out.SetPin(ch.Pin, true)
				}
				ch.Counter = 0
			} else if ch.Counter == ch.CyclesOn {
				e.out.SetPin(ch.Pin, false)
			}
			ch.Counter++
		}
	}
	e.ticks++
}

// Ticks returns the number of ticks since creation
func (e *Engine) Ticks() uint64 {
	return e.ticks
}
