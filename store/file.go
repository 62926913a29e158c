//go:build !tinygo

package store

import (
	"os"
)

// File is a Backend stored in a regular file, used by the simulator
type File struct {
	*os.File
}

// OpenFile opens or creates an EEPROM image file. New files are filled
// with 0xFF so they load as an uninitialized device.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() < ImageSize {
		pad := make([]byte, ImageSize-info.Size())
		for i := range pad {
			pad[i] = 0xFF
		}
		if _, err := f.WriteAt(pad, info.Size()); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &File{File: f}, nil
}
