package store

import (
	"encoding/binary"

	"pwmbox/core"
	"pwmbox/pwm"
)

// Record geometry. Names are NUL terminated inside their fields.
const (
	Marker = 0x69

	NumSlots     = core.ArrayCapacity
	SlotNameSize = 12
	PWMNameSize  = 20

	pwmRecordSize  = PWMNameSize + 1 + 2 + 2 + 2
	slotRecordSize = SlotNameSize + 1 + pwm.NumChannels*pwmRecordSize
	usedRecordSize = core.ArrayCapacity + 2

	offMarker     = 0
	offSerial     = 1
	offPassword   = 3
	offDefault    = 6
	offBrightness = 7
	offSlots      = 8
	offUsed       = offSlots + NumSlots*slotRecordSize

	// ImageSize is the number of bytes the store occupies
	ImageSize = offUsed + usedRecordSize
)

// PWM is the stored configuration of one channel
type PWM struct {
	Name string
	pwm.Settings
}

// Slot is one named preset of all channels
type Slot struct {
	Name string
	Used bool
	PWMs [pwm.NumChannels]PWM
}

// Settings returns the channel settings of the slot
func (s *Slot) Settings() [pwm.NumChannels]pwm.Settings {
	var out [pwm.NumChannels]pwm.Settings
	for i := range s.PWMs {
		out[i] = s.PWMs[i].Settings
	}
	return out
}

// image is the RAM mirror of the whole record
type image struct {
	marker      uint8
	serial      uint16
	password    [3]int8
	defaultSlot int8
	brightness  uint8
	slots       [NumSlots]Slot
	used        core.IndexArray
}

func slotOffset(idx int) int64 {
	return int64(offSlots + idx*slotRecordSize)
}

// putName copies s into a fixed field, truncating so a terminator fits
func putName(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(dst) - 1
	if len(s) < n {
		n = len(s)
	}
	copy(dst, s[:n])
}

func getName(src []byte) string {
	for i, b := range src {
		if b == 0 {
			return string(src[:i])
		}
	}
	return string(src)
}

// TruncateName shortens a name to what fits in a field of size bytes
func TruncateName(s string, size int) string {
	if len(s) > size-1 {
		return s[:size-1]
	}
	return s
}

func encodeSlot(dst []byte, s *Slot) {
	putName(dst[:SlotNameSize], s.Name)
	dst[SlotNameSize] = 0
	if s.Used {
		dst[SlotNameSize] = 1
	}
	off := SlotNameSize + 1
	for i := range s.PWMs {
		p := &s.PWMs[i]
		rec := dst[off : off+pwmRecordSize]
		putName(rec[:PWMNameSize], p.Name)
		rec[PWMNameSize] = uint8(p.Mode)
		binary.LittleEndian.PutUint16(rec[PWMNameSize+1:], p.Frequency)
		binary.LittleEndian.PutUint16(rec[PWMNameSize+3:], uint16(p.Duty))
		binary.LittleEndian.PutUint16(rec[PWMNameSize+5:], uint16(int16(p.Phase)))
		off += pwmRecordSize
	}
}

// decodeSlot reverses encodeSlot, clamping fields written by older or
// corrupted images back into range
func decodeSlot(src []byte) Slot {
	var s Slot
	s.Name = getName(src[:SlotNameSize])
	s.Used = src[SlotNameSize] != 0
	off := SlotNameSize + 1
	for i := range s.PWMs {
		rec := src[off : off+pwmRecordSize]
		p := &s.PWMs[i]
		p.Name = getName(rec[:PWMNameSize])
		p.Mode = pwm.Mode(core.Limit(int(rec[PWMNameSize]), 0, int(pwm.ModeOn)))
		p.Frequency = uint16(core.Limit(int(binary.LittleEndian.Uint16(rec[PWMNameSize+1:])), 0, pwm.MaxFrequency))
		p.Duty = uint8(core.Limit(int(binary.LittleEndian.Uint16(rec[PWMNameSize+3:])), 0, pwm.MaxDuty))
		p.Phase = int8(core.Limit(int(int16(binary.LittleEndian.Uint16(rec[PWMNameSize+5:]))), -pwm.MaxPhase, pwm.MaxPhase))
		off += pwmRecordSize
	}
	return s
}

func encodeUsed(dst []byte, a *core.IndexArray) {
	buf, n := a.Raw()
	copy(dst, buf[:])
	dst[core.ArrayCapacity] = n
	dst[core.ArrayCapacity+1] = core.ArrayCapacity
}

func decodeUsed(src []byte) core.IndexArray {
	var buf [core.ArrayCapacity]uint8
	copy(buf[:], src[:core.ArrayCapacity])
	var a core.IndexArray
	a.SetRaw(buf, src[core.ArrayCapacity])
	return a
}

func (im *image) encode() []byte {
	out := make([]byte, ImageSize)
	out[offMarker] = im.marker
	binary.LittleEndian.PutUint16(out[offSerial:], im.serial)
	for i, d := range im.password {
		out[offPassword+i] = uint8(d)
	}
	out[offDefault] = uint8(im.defaultSlot)
	out[offBrightness] = im.brightness
	for i := range im.slots {
		encodeSlot(out[slotOffset(i):], &im.slots[i])
	}
	encodeUsed(out[offUsed:], &im.used)
	return out
}

func decodeImage(src []byte) image {
	var im image
	im.marker = src[offMarker]
	im.serial = binary.LittleEndian.Uint16(src[offSerial:])
	for i := range im.password {
		im.password[i] = int8(src[offPassword+i])
	}
	im.defaultSlot = int8(src[offDefault])
	im.brightness = src[offBrightness]
	for i := range im.slots {
		im.slots[i] = decodeSlot(src[slotOffset(i):])
	}
	im.used = decodeUsed(src[offUsed:])
	return im
}
