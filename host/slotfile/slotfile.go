// Package slotfile reads and writes slot exports as JSON.
//
// The layout is the one the desktop tool has always written:
//
//	{
//	    "num_slots": 1,
//	    "slot 1": {
//	        "name": "front",
//	        "pwm 1": {"name": "left", "mode": 1, "frq": 40.0, "dty": 50, "phs": 0},
//	        ...
//	    }
//	}
//
// Frequencies are in Hz. The device stores tenths of Hz.
package slotfile

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"pwmbox/core"
	"pwmbox/pwm"
	"pwmbox/store"
)

// PWM is one channel as stored in the file
type PWM struct {
	Name string  `json:"name"`
	Mode int     `json:"mode"`
	Frq  float64 `json:"frq"`
	Dty  int     `json:"dty"`
	Phs  int     `json:"phs"`
}

func slotKey(i int) string { return "slot " + strconv.Itoa(i+1) }
func pwmKey(i int) string  { return "pwm " + strconv.Itoa(i+1) }

// FromSettings converts a channel to its file form
func FromSettings(name string, s pwm.Settings) PWM {
	return PWM{
		Name: name,
		Mode: int(s.Mode),
		Frq:  float64(s.Frequency) / 10,
		Dty:  int(s.Duty),
		Phs:  int(s.Phase),
	}
}

// Validate reports every out-of-range field of p
func (p PWM) Validate() error {
	var err error
	if p.Mode < int(pwm.ModeOff) || p.Mode > int(pwm.ModeOn) {
		err = multierr.Append(err, errors.Errorf("mode %d not in 0..2", p.Mode))
	}
	if p.Frq < 0 || p.Frq*10 > pwm.MaxFrequency {
		err = multierr.Append(err, errors.Errorf("frequency %g Hz not in 0..%d", p.Frq, pwm.MaxFrequency/10))
	}
	if p.Dty < 0 || p.Dty > pwm.MaxDuty {
		err = multierr.Append(err, errors.Errorf("duty %d not in 0..%d", p.Dty, pwm.MaxDuty))
	}
	if p.Phs < -pwm.MaxPhase || p.Phs > pwm.MaxPhase {
		err = multierr.Append(err, errors.Errorf("phase %d not in -%d..%d", p.Phs, pwm.MaxPhase, pwm.MaxPhase))
	}
	if strings.ContainsAny(p.Name, ",^\n") {
		err = multierr.Append(err, errors.Errorf("name %q contains a protocol delimiter", p.Name))
	}
	return err
}

// Store converts p to the device form. Call Validate first; Store only
// clamps.
func (p PWM) Store() store.PWM {
	return store.PWM{
		Name: store.TruncateName(p.Name, store.PWMNameSize),
		Settings: pwm.Settings{
			Mode:      pwm.Mode(core.Limit(p.Mode, 0, int(pwm.ModeOn))),
			Frequency: uint16(core.Limit(int(math.Round(p.Frq*10)), 0, pwm.MaxFrequency)),
			Duty:      uint8(core.Limit(p.Dty, 0, pwm.MaxDuty)),
			Phase:     int8(core.Limit(p.Phs, -pwm.MaxPhase, pwm.MaxPhase)),
		},
	}
}

// Decode reads slots from r. Every problem in the file is reported in
// one combined error; with an error no slots are returned.
func Decode(r io.Reader) ([]store.Slot, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode slot file")
	}

	raw, ok := doc["num_slots"]
	if !ok {
		return nil, errors.New("num_slots missing")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, errors.Wrap(err, "num_slots")
	}
	if n < 0 || n > store.NumSlots {
		return nil, errors.Errorf("num_slots %d not in 0..%d", n, store.NumSlots)
	}

	var errs error
	slots := make([]store.Slot, n)
	for i := 0; i < n; i++ {
		slot, err := decodeSlot(doc[slotKey(i)])
		if err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, slotKey(i)))
			continue
		}
		slots[i] = slot
	}
	if errs != nil {
		return nil, errs
	}
	return slots, nil
}

func decodeSlot(raw json.RawMessage) (store.Slot, error) {
	var slot store.Slot
	if raw == nil {
		return slot, errors.New("missing")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return slot, err
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil {
		return slot, errors.Wrap(err, "name")
	}
	slot.Name = store.TruncateName(name, store.SlotNameSize)
	slot.Used = true

	var errs error
	for j := range slot.PWMs {
		var p PWM
		rawPWM, ok := fields[pwmKey(j)]
		if !ok {
			errs = multierr.Append(errs, errors.Errorf("%s: missing", pwmKey(j)))
			continue
		}
		if err := json.Unmarshal(rawPWM, &p); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, pwmKey(j)))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, pwmKey(j)))
			continue
		}
		slot.PWMs[j] = p.Store()
	}
	return slot, errs
}

// Encode writes slots to w with keys in slot and channel order
func Encode(w io.Writer, slots []store.Slot) error {
	if len(slots) > store.NumSlots {
		return errors.Errorf("%d slots, the device holds %d", len(slots), store.NumSlots)
	}

	var buf bytes.Buffer
	buf.WriteString("{\n    \"num_slots\": " + strconv.Itoa(len(slots)))
	for i := range slots {
		buf.WriteString(",\n    " + strconv.Quote(slotKey(i)) + ": {\n")
		name, _ := json.Marshal(slots[i].Name)
		buf.WriteString("        \"name\": ")
		buf.Write(name)
		for j, p := range slots[i].PWMs {
			enc, err := json.Marshal(FromSettings(p.Name, p.Settings))
			if err != nil {
				return errors.Wrapf(err, "%s %s", slotKey(i), pwmKey(j))
			}
			buf.WriteString(",\n        " + strconv.Quote(pwmKey(j)) + ": ")
			buf.Write(enc)
		}
		buf.WriteString("\n    }")
	}
	buf.WriteString("\n}\n")

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "write slot file")
}
