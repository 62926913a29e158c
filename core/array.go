package core

// ArrayCapacity is the number of entries an IndexArray can hold
const ArrayCapacity = 15

// ArrayInvalid is returned by IndexArray.Get for positions past the end
const ArrayInvalid = 0xFF

// IndexArray is a bounded list of small indices with insertion at the end
// and removal by position. Removal shifts later entries down; it never
// leaves holes.
type IndexArray struct {
	buf [ArrayCapacity]uint8
	n   uint8
}

// Len returns the number of stored entries
func (a *IndexArray) Len() int {
	return int(a.n)
}

// Cap returns the fixed capacity
func (a *IndexArray) Cap() int {
	return ArrayCapacity
}

// Full reports whether Add would fail
func (a *IndexArray) Full() bool {
	return a.n == ArrayCapacity
}

// Get returns the entry at pos, or ArrayInvalid if pos is out of range
func (a *IndexArray) Get(pos int) uint8 {
	if pos >= 0 && pos < int(a.n) {
		return a.buf[pos]
	}
	return ArrayInvalid
}

// Add appends v. It returns false when the array is full.
func (a *IndexArray) Add(v uint8) bool {
	if a.n == ArrayCapacity {
		return false
	}
	a.buf[a.n] = v
	a.n++
	return true
}

// Remove deletes the entry at pos, shifting later entries down by one.
// It returns false when pos is out of range.
func (a *IndexArray) Remove(pos int) bool {
	if pos < 0 || pos >= int(a.n) {
		return false
	}
	copy(a.buf[pos:a.n], a.buf[pos+1:a.n])
	a.n--
	a.buf[a.n] = 0
	return true
}

// IndexOf returns the position of v, or -1 if absent
func (a *IndexArray) IndexOf(v uint8) int {
	for i := 0; i < int(a.n); i++ {
		if a.buf[i] == v {
			return i
		}
	}
	return -1
}

// Empty removes every entry
func (a *IndexArray) Empty() {
	a.buf = [ArrayCapacity]uint8{}
	a.n = 0
}

// Entries returns a copy of the stored entries
func (a *IndexArray) Entries() []uint8 {
	out := make([]uint8, a.n)
	copy(out, a.buf[:a.n])
	return out
}

// Raw returns the backing storage and count for serialization
func (a *IndexArray) Raw() ([ArrayCapacity]uint8, uint8) {
	return a.buf, a.n
}

// SetRaw restores the array from serialized storage. Counts beyond the
// capacity are clamped.
func (a *IndexArray) SetRaw(buf [ArrayCapacity]uint8, n uint8) {
	if n > ArrayCapacity {
		n = ArrayCapacity
	}
	a.buf = buf
	a.n = n
}
