package protocol

import (
	"errors"

	"pwmbox/pwm"
	"pwmbox/store"
)

// ErrNoUpload is returned by staging calls made without an open upload
var ErrNoUpload = errors.New("no upload in progress")

// ErrStageRange is returned for slot or pin indices outside the upload
var ErrStageRange = errors.New("upload index out of range")

// Staging collects a bulk upload until its last channel arrives.
// Channels go to the slot named most recently.
type Staging struct {
	open    bool
	count   int
	current int
	slots   [store.NumSlots]store.Slot
}

// Begin opens an upload of count slots, dropping anything staged
func (s *Staging) Begin(count int) error {
	if count < 0 || count > store.NumSlots {
		return ErrStageRange
	}
	s.Reset()
	s.open = true
	s.count = count
	return nil
}

// Reset closes the upload and clears the buffer
func (s *Staging) Reset() {
	s.open = false
	s.count = 0
	s.current = -1
	s.slots = [store.NumSlots]store.Slot{}
}

// Open reports whether an upload is in progress
func (s *Staging) Open() bool {
	return s.open
}

// Count returns the number of slots announced by Begin
func (s *Staging) Count() int {
	return s.count
}

// Current returns the slot that channels are staged into, or -1
func (s *Staging) Current() int {
	return s.current
}

// StageName names slot idx and makes it current
func (s *Staging) StageName(idx int, name string) error {
	if !s.open {
		return ErrNoUpload
	}
	if idx < 0 || idx >= s.count {
		return ErrStageRange
	}
	s.current = idx
	s.slots[idx].Name = store.TruncateName(name, store.SlotNameSize)
	return nil
}

// StagePWM stores one channel of the current slot
func (s *Staging) StagePWM(pin int, p store.PWM) error {
	if !s.open {
		return ErrNoUpload
	}
	if s.current < 0 || pin < 0 || pin >= pwm.NumChannels {
		return ErrStageRange
	}
	p.Name = store.TruncateName(p.Name, store.PWMNameSize)
	s.slots[s.current].PWMs[pin] = p
	return nil
}

// IsFinal reports whether (slot, pin) is the last channel of the upload
func (s *Staging) IsFinal(slot, pin int) bool {
	return s.open && slot == s.count-1 && pin == pwm.NumChannels-1
}

// Slots returns the staged slots in upload order
func (s *Staging) Slots() []store.Slot {
	return s.slots[:s.count]
}
