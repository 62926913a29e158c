//go:build tinygo && avr

package main

import (
	"device/avr"
	"errors"
	"runtime/interrupt"
)

// EEPROMSize is the internal EEPROM size of the ATmega2560
const EEPROMSize = 4096

var errEEPROMBounds = errors.New("eeprom access out of bounds")

// EEPROM is the slot store backend over the internal EEPROM
type EEPROM struct{}

func (EEPROM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > EEPROMSize {
		return 0, errEEPROMBounds
	}
	for i := range p {
		p[i] = eepromRead(uint16(off) + uint16(i))
	}
	return len(p), nil
}

// WriteAt skips bytes that already hold the value, so unchanged fields
// cost no erase cycles
func (EEPROM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > EEPROMSize {
		return 0, errEEPROMBounds
	}
	for i, b := range p {
		addr := uint16(off) + uint16(i)
		if eepromRead(addr) != b {
			eepromWrite(addr, b)
		}
	}
	return len(p), nil
}

func eepromWait() {
	for avr.EECR.HasBits(avr.EECR_EEPE) {
	}
}

func eepromRead(addr uint16) uint8 {
	eepromWait()
	avr.EEARH.Set(uint8(addr >> 8))
	avr.EEARL.Set(uint8(addr))
	avr.EECR.SetBits(avr.EECR_EERE)
	return avr.EEDR.Get()
}

// eepromWrite starts an erase and write. EEPE must follow EEMPE within
// four cycles, so interrupts stay off between them.
func eepromWrite(addr uint16, b uint8) {
	eepromWait()
	avr.EEARH.Set(uint8(addr >> 8))
	avr.EEARL.Set(uint8(addr))
	avr.EEDR.Set(b)
	state := interrupt.Disable()
	avr.EECR.Set(avr.EECR_EEMPE)
	avr.EECR.Set(avr.EECR_EEMPE | avr.EECR_EEPE)
	interrupt.Restore(state)
}
