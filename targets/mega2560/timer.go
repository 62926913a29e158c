//go:build tinygo && avr

package main

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// Timer2 runs in CTC mode with a /8 prescaler and interrupts on compare
// match A at the tick rate
type Timer2 struct {
	running bool
}

func NewTimer2(tickRate uint32) *Timer2 {
	if tickRate == 0 {
		tickRate = 1
	}
	top := machine.CPUFrequency()/8/tickRate - 1
	if top > 0xFF {
		top = 0xFF
	}

	avr.TCCR2A.Set(avr.TCCR2A_WGM21)
	avr.TCCR2B.Set(avr.TCCR2B_CS21)
	avr.OCR2A.Set(uint8(top))
	avr.TCNT2.Set(0)
	interrupt.New(avr.IRQ_TIMER2_COMPA, handleTimer2)
	return &Timer2{}
}

func (t *Timer2) Start() {
	avr.TIMSK2.SetBits(avr.TIMSK2_OCIE2A)
	t.running = true
}

func (t *Timer2) Stop() {
	avr.TIMSK2.ClearBits(avr.TIMSK2_OCIE2A)
	t.running = false
}

func (t *Timer2) Running() bool {
	return t.running
}

func handleTimer2(interrupt.Interrupt) {
	if sys != nil {
		sys.OnTick()
	}
}
