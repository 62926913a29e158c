//go:build tinygo && avr

package main

import (
	"machine"

	"pwmbox/core"
)

// GPIODriver drives the PWM outputs. Pin numbers are machine.Pin values.
type GPIODriver struct{}

func (d *GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return nil
}

// SetPin is called from the Timer2 interrupt
func (d *GPIODriver) SetPin(pin core.GPIOPin, value bool) {
	machine.Pin(pin).Set(value)
}

func (d *GPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (d *GPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}
