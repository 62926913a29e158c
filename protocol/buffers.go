package protocol

import "sync/atomic"

// Frame delimiters
const (
	StartByte = '^'
	EndByte   = '\n'
)

// BufferSize is the size of the receive buffer. Bytes past the last cell
// overwrite it.
const BufferSize = 64

// FrameSlots is the number of completed frames held for the main loop
const FrameSlots = 4

type frame struct {
	buf [BufferSize]byte
	n   uint8
}

// Framer assembles "^body\n" frames from single bytes.
//
// Feed runs in the receive interrupt and Next in the main loop. Completed
// frames go through a small single-producer single-consumer ring, so a
// burst of frames survives until the main loop gets to them.
type Framer struct {
	cur        frame
	inProgress bool

	ring  [FrameSlots]frame
	read  atomic.Uint32
	write atomic.Uint32

	dropped uint32
}

// Feed consumes one byte. It returns true when the byte completed a frame
// that was queued for Next.
func (f *Framer) Feed(b byte) bool {
	if !f.inProgress {
		if b == StartByte {
			f.inProgress = true
			f.cur.n = 0
		}
		return false
	}

	switch b {
	case '\r':
		return false
	case EndByte:
		f.inProgress = false
		return f.push()
	}

	f.cur.buf[f.cur.n] = b
	if f.cur.n < BufferSize-1 {
		f.cur.n++
	}
	return false
}

// InProgress reports whether a start byte was seen without its end
func (f *Framer) InProgress() bool {
	return f.inProgress
}

// Dropped returns the number of frames lost to a full ring
func (f *Framer) Dropped() uint32 {
	return f.dropped
}

func (f *Framer) push() bool {
	w := f.write.Load()
	next := (w + 1) % FrameSlots
	if next == f.read.Load() {
		f.dropped++
		return false
	}
	f.ring[w] = f.cur
	f.write.Store(next)
	return true
}

// Next copies the oldest completed frame body into dst and returns the
// filled part. It returns nil when no frame is waiting.
func (f *Framer) Next(dst []byte) []byte {
	r := f.read.Load()
	if r == f.write.Load() {
		return nil
	}
	fr := &f.ring[r]
	n := copy(dst, fr.buf[:fr.n])
	f.read.Store((r + 1) % FrameSlots)
	return dst[:n]
}

// Pending returns the number of completed frames waiting
func (f *Framer) Pending() int {
	w, r := f.write.Load(), f.read.Load()
	return int((w + FrameSlots - r) % FrameSlots)
}

// Reset drops partial and queued frames
func (f *Framer) Reset() {
	f.inProgress = false
	f.cur.n = 0
	f.read.Store(f.write.Load())
}
