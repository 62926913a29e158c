package store

import (
	"errors"
	"io"
)

// Backend is the raw byte storage under the store: the MCU EEPROM, an
// external I2C EEPROM, or a file on the host
type Backend interface {
	io.ReaderAt
	io.WriterAt
}

// ErrOutOfBounds is returned for accesses past the end of a Memory backend
var ErrOutOfBounds = errors.New("access out of bounds")

// Memory is a Backend held in RAM. Fresh memory reads as 0xFF like an
// erased EEPROM.
type Memory struct {
	buf    []byte
	writes int
	bytes  int
}

// NewMemory creates an erased memory of size bytes
func NewMemory(size int) *Memory {
	m := &Memory{buf: make([]byte, size)}
	for i := range m.buf {
		m.buf[i] = 0xFF
	}
	return m
}

// ReadAt implements io.ReaderAt
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.buf)) {
		return 0, ErrOutOfBounds
	}
	return copy(p, m.buf[off:]), nil
}

// WriteAt implements io.WriterAt
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.buf)) {
		return 0, ErrOutOfBounds
	}
	m.writes++
	m.bytes += len(p)
	return copy(m.buf[off:], p), nil
}

// Writes returns the number of WriteAt calls
func (m *Memory) Writes() int {
	return m.writes
}

// BytesWritten returns the total number of bytes written
func (m *Memory) BytesWritten() int {
	return m.bytes
}

// Bytes returns the backing buffer
func (m *Memory) Bytes() []byte {
	return m.buf
}
