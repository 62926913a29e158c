// Package serial opens the serial link to a PWM box and finds candidate
// ports on the host.
package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (github.com/tarm/serial or go.bug.st/serial)
// - In-memory pipes to a simulated device (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Driver selects the serial library behind a Port
type Driver string

const (
	DriverTarm  Driver = "tarm"
	DriverBugst Driver = "bugst"
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; the firmware runs its UART at 115200
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int

	Driver Driver
}

// DefaultConfig returns the configuration the device expects
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 1000,
		Driver:      DriverTarm,
	}
}
