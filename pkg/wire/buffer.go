package wire

import "devicerpc/pkg/errcode"

// OutputBuffer is an append-only byte sequence. It owns its storage
// until Release is called; further writes after Release fail with
// errcode.OperationNotPermitted.
type OutputBuffer struct {
	data     []byte
	released bool
}

// NewOutputBuffer returns an empty, writable output buffer.
func NewOutputBuffer() *OutputBuffer {
	return &OutputBuffer{}
}

// Write appends p to the buffer.
func (b *OutputBuffer) Write(p []byte) error {
	if b.released {
		return errcode.New(errcode.OperationNotPermitted, "write to released output buffer")
	}
	b.data = append(b.data, p...)
	return nil
}

// Len returns the number of bytes written so far.
func (b *OutputBuffer) Len() int {
	return len(b.data)
}

// Release hands back the accumulated bytes, releasing ownership. The
// buffer must not be written to afterwards.
func (b *OutputBuffer) Release() []byte {
	b.released = true
	data := b.data
	b.data = nil
	return data
}

// InputBuffer is a borrowed byte region with a monotonically
// advancing read cursor. Reading never copies; it returns a sub-slice
// of the backing array and advances the cursor.
type InputBuffer struct {
	data []byte
	pos  int
}

// NewInputBuffer wraps data for cursor-advancing reads. data is not
// copied and must remain valid for the lifetime of the buffer.
func NewInputBuffer(data []byte) *InputBuffer {
	return &InputBuffer{data: data}
}

// Read returns the next n bytes and advances the cursor by n, or
// fails with errcode.ResultOutOfRange on overrun.
func (b *InputBuffer) Read(n int) ([]byte, error) {
	if n < 0 || b.pos+n > len(b.data) {
		return nil, errcode.New(errcode.ResultOutOfRange, "input buffer overrun")
	}
	out := b.data[b.pos : b.pos+n]
	b.pos += n
	return out, nil
}

// Remaining returns the number of unread bytes left in the buffer.
func (b *InputBuffer) Remaining() int {
	return len(b.data) - b.pos
}

// Rest returns every remaining unread byte without advancing the
// cursor, and without copying.
func (b *InputBuffer) Rest() []byte {
	return b.data[b.pos:]
}
