// Package store keeps the device configuration and the slot table.
//
// A RAM mirror is the only read path once Load has run. Every mutation is
// written through to the Backend immediately; setters skip the write when
// the value did not change, to spare EEPROM cells.
//
// Slots have two indices. The storage index is the fixed position of the
// record in the table. The UI index is the position in the used-slot
// array, which lists occupied storage indices in the order they were
// saved. Deleting compacts the array but leaves a hole in the table.
package store

import (
	"errors"

	"pwmbox/core"
	"pwmbox/pwm"
)

// Defaults written to an uninitialized device
const (
	DefaultSerial     = 77
	DefaultBrightness = 0
	NoSlot            = -1
	PasswordUnset     = -1
)

var (
	// ErrFull is returned by NewSlot when every storage slot is used
	ErrFull = errors.New("no free slot")

	// ErrRange is returned for UI or channel indices that don't exist
	ErrRange = errors.New("slot index out of range")
)

// Store is the write-through configuration store
type Store struct {
	backend Backend
	ram     image
	log     *core.Logger
}

// New creates a store over backend. Call Load before anything else.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// SetLogger sets the debug logger
func (s *Store) SetLogger(log *core.Logger) {
	s.log = log
}

// Load reads the record once. An uninitialized backend gets a default
// record and fresh is true.
func (s *Store) Load() (fresh bool, err error) {
	var marker [1]byte
	if _, err := s.backend.ReadAt(marker[:], offMarker); err != nil {
		return false, err
	}

	if marker[0] != Marker {
		s.ram = image{
			marker:      Marker,
			serial:      DefaultSerial,
			password:    [3]int8{PasswordUnset, PasswordUnset, PasswordUnset},
			defaultSlot: NoSlot,
			brightness:  DefaultBrightness,
		}
		s.log.Println("initializing storage")
		_, err := s.backend.WriteAt(s.ram.encode(), 0)
		return true, err
	}

	buf := make([]byte, ImageSize)
	if _, err := s.backend.ReadAt(buf, 0); err != nil {
		return false, err
	}
	s.ram = decodeImage(buf)

	if s.repair() {
		s.log.Println("used slot table repaired")
		if err := s.writeUsed(); err != nil {
			return false, err
		}
	}
	if s.ram.defaultSlot != NoSlot && s.UIIndex(int(s.ram.defaultSlot)) < 0 {
		s.ram.defaultSlot = NoSlot
		if err := s.writeByte(offDefault, uint8(s.ram.defaultSlot)); err != nil {
			return false, err
		}
	}
	return false, nil
}

// repair rebuilds the used-slot array so that it lists exactly the used
// storage slots, each once. It returns true if anything changed.
func (s *Store) repair() bool {
	var fixed core.IndexArray
	var seen [NumSlots]bool
	for _, idx := range s.ram.used.Entries() {
		if int(idx) >= NumSlots || seen[idx] || !s.ram.slots[idx].Used {
			continue
		}
		seen[idx] = true
		fixed.Add(idx)
	}
	for i := range s.ram.slots {
		if s.ram.slots[i].Used && !seen[i] {
			fixed.Add(uint8(i))
		}
	}

	changed := fixed.Len() != s.ram.used.Len()
	for i := 0; !changed && i < fixed.Len(); i++ {
		changed = fixed.Get(i) != s.ram.used.Get(i)
	}
	s.ram.used = fixed
	return changed
}

func (s *Store) writeByte(off int64, v uint8) error {
	_, err := s.backend.WriteAt([]byte{v}, off)
	return err
}

func (s *Store) writeUsed() error {
	buf := make([]byte, usedRecordSize)
	encodeUsed(buf, &s.ram.used)
	_, err := s.backend.WriteAt(buf, offUsed)
	return err
}

func (s *Store) writeSlot(idx int) error {
	buf := make([]byte, slotRecordSize)
	encodeSlot(buf, &s.ram.slots[idx])
	_, err := s.backend.WriteAt(buf, slotOffset(idx))
	return err
}

// Serial returns the device serial number
func (s *Store) Serial() uint16 {
	return s.ram.serial
}

// SetSerial stores a new serial number
func (s *Store) SetSerial(v uint16) error {
	if v == s.ram.serial {
		return nil
	}
	s.ram.serial = v
	var buf [2]byte
	buf[0], buf[1] = uint8(v), uint8(v>>8)
	_, err := s.backend.WriteAt(buf[:], offSerial)
	return err
}

// Password returns the three password digits; -1 marks an unset digit
func (s *Store) Password() [3]int8 {
	return s.ram.password
}

// PasswordSet reports whether every digit holds a value
func (s *Store) PasswordSet() bool {
	for _, d := range s.ram.password {
		if d < 0 {
			return false
		}
	}
	return true
}

// SetPassword stores new digits. Digits are clamped to -1..9.
func (s *Store) SetPassword(p [3]int8) error {
	for i := range p {
		p[i] = int8(core.Limit(int(p[i]), PasswordUnset, 9))
	}
	if p == s.ram.password {
		return nil
	}
	s.ram.password = p
	buf := []byte{uint8(p[0]), uint8(p[1]), uint8(p[2])}
	_, err := s.backend.WriteAt(buf, offPassword)
	return err
}

// DefaultSlot returns the storage index loaded at boot, or NoSlot
func (s *Store) DefaultSlot() int {
	return int(s.ram.defaultSlot)
}

// DefaultUI returns the UI index of the default slot, or NoSlot
func (s *Store) DefaultUI() int {
	if s.ram.defaultSlot == NoSlot {
		return NoSlot
	}
	return s.UIIndex(int(s.ram.defaultSlot))
}

// SetDefaultSlot stores the storage index to load at boot. Anything
// outside the table clears it. The write always happens.
func (s *Store) SetDefaultSlot(storage int) error {
	if storage < 0 || storage >= NumSlots {
		storage = NoSlot
	}
	s.ram.defaultSlot = int8(storage)
	return s.writeByte(offDefault, uint8(s.ram.defaultSlot))
}

// SetDefaultUI selects the default slot by UI index. An index without a
// slot clears the default.
func (s *Store) SetDefaultUI(ui int) error {
	return s.SetDefaultSlot(s.StorageIndex(ui))
}

// Brightness returns the stored display brightness
func (s *Store) Brightness() uint8 {
	return s.ram.brightness
}

// SetBrightness stores the display brightness
func (s *Store) SetBrightness(v uint8) error {
	if v == s.ram.brightness {
		return nil
	}
	s.ram.brightness = v
	return s.writeByte(offBrightness, v)
}

// NumSlots returns the number of used slots
func (s *Store) NumSlots() int {
	return s.ram.used.Len()
}

// Capacity returns the size of the slot table
func (s *Store) Capacity() int {
	return NumSlots
}

// Used returns the storage indices in UI order
func (s *Store) Used() []uint8 {
	return s.ram.used.Entries()
}

// StorageIndex translates a UI index, returning -1 if it has no slot
func (s *Store) StorageIndex(ui int) int {
	idx := s.ram.used.Get(ui)
	if idx == core.ArrayInvalid {
		return -1
	}
	return int(idx)
}

// UIIndex translates a storage index, returning -1 if the slot is unused
func (s *Store) UIIndex(storage int) int {
	if storage < 0 || storage >= NumSlots {
		return -1
	}
	return s.ram.used.IndexOf(uint8(storage))
}

// Slot returns the slot at a UI index
func (s *Store) Slot(ui int) (Slot, bool) {
	idx := s.StorageIndex(ui)
	if idx < 0 {
		return Slot{}, false
	}
	return s.ram.slots[idx], true
}

// SlotName returns the name of the slot at a UI index
func (s *Store) SlotName(ui int) string {
	idx := s.StorageIndex(ui)
	if idx < 0 {
		return ""
	}
	return s.ram.slots[idx].Name
}

// sanitize makes a slot storable: names fit their fields and the
// settings are in range
func sanitize(slot *Slot) {
	slot.Name = TruncateName(slot.Name, SlotNameSize)
	for i := range slot.PWMs {
		p := &slot.PWMs[i]
		p.Name = TruncateName(p.Name, PWMNameSize)
		p.Mode = pwm.Mode(core.Limit(int(p.Mode), 0, int(pwm.ModeOn)))
		p.Frequency = uint16(core.Limit(int(p.Frequency), 0, pwm.MaxFrequency))
		p.Duty = uint8(core.Limit(int(p.Duty), 0, pwm.MaxDuty))
		p.Phase = int8(core.Limit(int(p.Phase), -pwm.MaxPhase, pwm.MaxPhase))
	}
}

// NewSlot stores slot in the first free storage index and appends it to
// the used-slot array. An empty name becomes "New <n>" with n the 1-based
// storage index. It returns the new UI index, or ErrFull with nothing
// changed.
func (s *Store) NewSlot(slot Slot) (int, error) {
	idx := -1
	for i := range s.ram.slots {
		if !s.ram.slots[i].Used {
			idx = i
			break
		}
	}
	if idx < 0 || s.ram.used.Full() {
		return -1, ErrFull
	}

	sanitize(&slot)
	if slot.Name == "" {
		slot.Name = "New " + core.Itoa(idx+1)
	}
	slot.Used = true
	s.ram.slots[idx] = slot
	if err := s.writeSlot(idx); err != nil {
		s.ram.slots[idx] = Slot{}
		return -1, err
	}

	// The used array never lists a slot whose record was not written
	s.ram.used.Add(uint8(idx))
	ui := s.ram.used.Len() - 1
	if err := s.writeUsed(); err != nil {
		s.ram.used.Remove(ui)
		s.ram.slots[idx] = Slot{}
		return -1, err
	}

	s.log.Value("slot saved", "storage", idx)
	return ui, nil
}

// OverwriteSlot replaces the slot at a UI index, keeping its position
func (s *Store) OverwriteSlot(ui int, slot Slot) error {
	idx := s.StorageIndex(ui)
	if idx < 0 {
		return ErrRange
	}
	sanitize(&slot)
	if slot.Name == "" {
		slot.Name = s.ram.slots[idx].Name
	}
	slot.Used = true
	s.ram.slots[idx] = slot
	return s.writeSlot(idx)
}

// SetPWM replaces one channel of the slot at a UI index
func (s *Store) SetPWM(ui, channel int, p PWM) error {
	idx := s.StorageIndex(ui)
	if idx < 0 || channel < 0 || channel >= pwm.NumChannels {
		return ErrRange
	}
	slot := s.ram.slots[idx]
	slot.PWMs[channel] = p
	sanitize(&slot)
	s.ram.slots[idx] = slot
	return s.writeSlot(idx)
}

// DeleteSlot zeroes the slot at a UI index and removes it from the
// used-slot array. If it was the default slot, the default is cleared.
func (s *Store) DeleteSlot(ui int) error {
	idx := s.StorageIndex(ui)
	if idx < 0 {
		return ErrRange
	}

	s.ram.slots[idx] = Slot{}
	if err := s.writeSlot(idx); err != nil {
		return err
	}

	s.ram.used.Remove(ui)
	if err := s.writeUsed(); err != nil {
		return err
	}

	s.log.Value("slot deleted", "storage", idx)
	if int(s.ram.defaultSlot) == idx {
		return s.SetDefaultSlot(NoSlot)
	}
	return nil
}

// DeleteAllSlots zeroes the whole table and empties the used-slot array
func (s *Store) DeleteAllSlots() error {
	s.ram.slots = [NumSlots]Slot{}
	s.ram.used.Empty()

	buf := make([]byte, NumSlots*slotRecordSize)
	if _, err := s.backend.WriteAt(buf, offSlots); err != nil {
		return err
	}
	if err := s.writeUsed(); err != nil {
		return err
	}
	if s.ram.defaultSlot != NoSlot {
		return s.SetDefaultSlot(NoSlot)
	}
	return nil
}
