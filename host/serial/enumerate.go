//go:build !wasm

package serial

import (
	"regexp"

	"github.com/pkg/errors"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port present on the host
type PortInfo struct {
	Name    string
	IsUSB   bool
	VID     string
	PID     string
	Serial  string
	Product string
}

// usbSerial matches the product strings of the USB serial bridges the
// boards ship with
var usbSerial = regexp.MustCompile(`(?i)usb.serial|ch34|cp210|ft232|arduino`)

// ListPorts returns every serial port on the host
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "list serial ports")
	}
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		out = append(out, PortInfo{
			Name:    d.Name,
			IsUSB:   d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	return out, nil
}

// Candidates keeps the ports that may be a PWM box: USB ports whose
// product string names a USB serial bridge. When no port names one, every
// USB port is a candidate.
func Candidates(ports []PortInfo) []PortInfo {
	var matched, usb []PortInfo
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		usb = append(usb, p)
		if usbSerial.MatchString(p.Product) {
			matched = append(matched, p)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return usb
}
