//go:build !wasm

package client

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pwmbox/host/serial"
)

// WakeDelay is how long a freshly opened board needs before it listens.
// Opening the port resets the MCU.
const WakeDelay = 2 * time.Second

// Dial opens the port in cfg and checks that a PWM box answers
func Dial(cfg *serial.Config, log *zap.SugaredLogger) (*Client, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	time.Sleep(WakeDelay)

	c := New(port, log)
	if err := port.Flush(); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "flush"), port.Close())
	}
	if err := c.Handshake(); err != nil {
		return nil, multierr.Combine(err, port.Close())
	}
	return c, nil
}

// Find tries every candidate USB serial port and returns a client for
// the first one that answers the handshake. base supplies everything but
// the device path.
func Find(base serial.Config, log *zap.SugaredLogger) (*Client, serial.PortInfo, error) {
	ports, err := serial.ListPorts()
	if err != nil {
		return nil, serial.PortInfo{}, err
	}

	var tried error
	for _, p := range serial.Candidates(ports) {
		cfg := base
		cfg.Device = p.Name
		if log != nil {
			log.Infow("probing", "port", p.Name, "product", p.Product)
		}
		c, err := Dial(&cfg, log)
		if err == nil {
			return c, p, nil
		}
		tried = multierr.Append(tried, errors.Wrap(err, p.Name))
	}
	if tried == nil {
		return nil, serial.PortInfo{}, errors.New("no USB serial ports found")
	}
	return nil, serial.PortInfo{}, errors.Wrap(tried, "no PWM box found")
}
