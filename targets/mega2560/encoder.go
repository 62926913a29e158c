//go:build tinygo && avr

package main

import (
	"device/avr"
	"machine"
	"runtime/interrupt"

	"pwmbox/core"
)

// Rotary encoder on PORTD: A on INT1 (PD1), push button on INT2 (PD2),
// B on INT3 (PD3). All lines have pull-ups; the button reads low when
// pressed.
var (
	rotA    = core.GPIOPin(machine.PD1)
	rotPush = core.GPIOPin(machine.PD2)
	rotB    = core.GPIOPin(machine.PD3)

	encoderIn core.InputReader
)

func InitEncoder(in core.InputReader) {
	encoderIn = in
	for _, p := range []core.GPIOPin{rotA, rotPush, rotB} {
		in.ConfigureInputPullUp(p)
	}

	// Any logical change on INT1..INT3
	avr.EICRA.SetBits(avr.EICRA_ISC10 | avr.EICRA_ISC20 | avr.EICRA_ISC30)
	interrupt.New(avr.IRQ_INT1, handleRotary)
	interrupt.New(avr.IRQ_INT3, handleRotary)
	interrupt.New(avr.IRQ_INT2, handlePush)
	avr.EIMSK.SetBits(avr.EIMSK_INT1 | avr.EIMSK_INT2 | avr.EIMSK_INT3)
}

func handleRotary(interrupt.Interrupt) {
	if sys == nil {
		return
	}
	sys.OnRotaryEdge(encoderIn.ReadPin(rotA), encoderIn.ReadPin(rotB))
}

func handlePush(interrupt.Interrupt) {
	if sys == nil {
		return
	}
	sys.OnButtonEdge(!encoderIn.ReadPin(rotPush))
}
