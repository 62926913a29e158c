package slotfile

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"pwmbox/store"
)

// Load reads a slot file from disk
func Load(path string) ([]store.Slot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open slot file")
	}
	defer f.Close()
	return Decode(f)
}

// Save writes a slot file to disk
func Save(path string, slots []store.Slot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create slot file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return Encode(f, slots)
}
