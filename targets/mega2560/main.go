//go:build tinygo && avr

package main

import (
	"machine"
	"time"

	"pwmbox/config"
	"pwmbox/core"
	"pwmbox/firmware"
	"pwmbox/pwm"
)

// PWM output pins, channel 1 to 8
var pwmPins = [config.NumPins]machine.Pin{
	machine.PE4, machine.PE5, machine.PG5, machine.PH3,
	machine.PH4, machine.PD7, machine.PH5, machine.PB5,
}

var sys *firmware.System

// uptime is the TimeSource of the board, milliseconds since boot
type uptime struct {
	start time.Time
}

func (u uptime) Millis() uint32 {
	return uint32(time.Since(u.start).Milliseconds())
}

func main() {
	cfg := config.Default()
	cfg.Pins = make([]uint32, 0, config.NumPins)
	for _, p := range pwmPins {
		cfg.Pins = append(cfg.Pins, uint32(p))
	}

	machine.Serial.Configure(machine.UARTConfig{BaudRate: uint32(cfg.Serial.Baud)})

	lcd, err := NewLCD()
	if err != nil {
		halt()
	}

	gpio := &GPIODriver{}
	sys, err = firmware.New(firmware.Options{
		Config:  cfg,
		Output:  gpio,
		Backend: EEPROM{},
		Display: lcd,
		Serial:  machine.Serial,
		Time:    uptime{start: time.Now()},
		NewClock: func(*pwm.Engine) pwm.Clock {
			return NewTimer2(cfg.Timing.TickRate)
		},
	})
	if err != nil {
		lcd.Clear()
		lcd.Print("store error")
		halt()
	}

	InitEncoder(gpio)
	sys.Start()

	for {
		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			core.Critical(func() { sys.OnSerialByte(b) })
		}
		sys.Poll()
	}
}

func halt() {
	for {
		time.Sleep(time.Second)
	}
}
