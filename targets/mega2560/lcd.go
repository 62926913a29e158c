//go:build tinygo && avr

package main

import (
	"device/avr"
	"machine"

	"tinygo.org/x/drivers/hd44780"

	"pwmbox/menu"
)

// LCD pins: a 20x4 HD44780 in 4-bit mode on PORTA, backlight on OC3A
var (
	lcdData = []machine.Pin{machine.PA0, machine.PA1, machine.PA2, machine.PA3}
	lcdRS   = machine.PA4
	lcdRW   = machine.PA5
	lcdE    = machine.PA6

	lcdBacklight = machine.PE3
)

// LCD is the menu display
type LCD struct {
	dev hd44780.Device
	buf [1]byte
}

func NewLCD() (*LCD, error) {
	dev, err := hd44780.NewGPIO4Bit(lcdData, lcdE, lcdRS, lcdRW)
	if err != nil {
		return nil, err
	}
	l := &LCD{dev: dev}
	if err := l.dev.Configure(hd44780.Config{Width: menu.Width, Height: menu.Height}); err != nil {
		return nil, err
	}
	for g := range menu.GlyphBitmaps {
		l.dev.CreateCharacter(uint8(g), menu.GlyphBitmaps[g][:])
	}
	l.dev.ClearDisplay()

	// Timer3 8-bit phase correct PWM on OC3A, no prescaler
	lcdBacklight.Configure(machine.PinConfig{Mode: machine.PinOutput})
	avr.OCR3AH.Set(0)
	avr.OCR3AL.Set(0)
	avr.TCCR3A.Set(avr.TCCR3A_COM3A1 | avr.TCCR3A_WGM30)
	avr.TCCR3B.Set(avr.TCCR3B_CS30)
	return l, nil
}

func (l *LCD) Clear() {
	l.dev.ClearDisplay()
}

func (l *LCD) SetCursor(x, y uint8) {
	l.dev.SetCursor(x, y)
}

func (l *LCD) Print(s string) {
	l.dev.Write([]byte(s))
	l.dev.Display()
}

// PutGlyph prints a CGRAM character; glyph codes are the CGRAM slots
func (l *LCD) PutGlyph(g menu.Glyph) {
	l.buf[0] = byte(g)
	l.dev.Write(l.buf[:])
	l.dev.Display()
}

// SetBrightness sets the backlight duty, level 0 is off
func (l *LCD) SetBrightness(level uint8) {
	if level > menu.MaxLevel {
		level = menu.MaxLevel
	}
	avr.OCR3AH.Set(0)
	avr.OCR3AL.Set(uint8(uint16(level) * 255 / menu.MaxLevel))
}
