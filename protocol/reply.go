package protocol

import (
	"io"

	"pwmbox/core"
)

// Reply builds outgoing frames. Every frame starts with "^!" and ends in
// a newline; fields are comma separated.
type Reply struct {
	w   io.Writer
	buf []byte
	err error
}

// NewReply creates a reply writer over w
func NewReply(w io.Writer) *Reply {
	return &Reply{w: w, buf: make([]byte, 0, BufferSize)}
}

// Begin starts a frame with its type letter
func (r *Reply) Begin(letter byte) *Reply {
	r.buf = append(r.buf[:0], StartByte, '!', ',', letter)
	return r
}

// Str appends a text field
func (r *Reply) Str(s string) *Reply {
	r.buf = append(r.buf, ',')
	r.buf = append(r.buf, s...)
	return r
}

// Int appends a decimal field
func (r *Reply) Int(n int) *Reply {
	return r.Str(core.Itoa(n))
}

// Opt appends n, or "n" when n is negative
func (r *Reply) Opt(n int) *Reply {
	if n < 0 {
		return r.Str("n")
	}
	return r.Int(n)
}

// End terminates the frame and writes it out. The first write error
// sticks and suppresses later frames.
func (r *Reply) End() error {
	r.buf = append(r.buf, EndByte)
	if r.err == nil {
		_, r.err = r.w.Write(r.buf)
	}
	r.buf = r.buf[:0]
	return r.err
}

// Error writes an "ERRn" frame
func (r *Reply) Error(code ErrorCode) error {
	r.buf = append(r.buf[:0], StartByte, '!', ',', 'E', 'R', 'R', byte('0'+code))
	return r.End()
}

// Err returns the first write error
func (r *Reply) Err() error {
	return r.err
}
