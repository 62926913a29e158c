//go:build !wasm

package serial

import (
	"time"

	"github.com/pkg/errors"
	bugst "go.bug.st/serial"
)

// BugstPort wraps a go.bug.st/serial port
type BugstPort struct {
	port bugst.Port
}

func openBugst(cfg *Config) (Port, error) {
	port, err := bugst.Open(cfg.Device, &bugst.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", cfg.Device)
	}
	if cfg.ReadTimeout > 0 {
		timeout := time.Duration(cfg.ReadTimeout) * time.Millisecond
		if err := port.SetReadTimeout(timeout); err != nil {
			port.Close()
			return nil, errors.Wrap(err, "set read timeout")
		}
	}
	return &BugstPort{port: port}, nil
}

// Read reads data from the serial port
func (p *BugstPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *BugstPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *BugstPort) Close() error {
	return p.port.Close()
}

// Flush discards unread input
func (p *BugstPort) Flush() error {
	return p.port.ResetInputBuffer()
}
