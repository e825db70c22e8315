// Package transport carries wire-encoded payloads between processes
// over plain TCP connections. It supplies exactly the four socket
// roles the RPC framework needs — requester, replier, publisher,
// subscriber — with a small length-prefixed frame as the only encoding of its
// own; everything past the frame header is an opaque payload produced
// by pkg/wire.
package transport

import (
	"encoding/binary"
	"io"
	"strings"

	"devicerpc/pkg/errcode"
)

// frameMagic marks the start of every frame so a misaligned read (for
// example a peer speaking a different protocol on the same port) is
// detected instead of silently misparsed.
const frameMagic uint32 = 0x4a415731 // "JAW1"

// maxFrameBody bounds a single frame body. Nothing in this framework
// legitimately sends more; a larger prefix means a corrupt peer.
const maxFrameBody = 64 << 20

// writeFrame writes magic + 4-byte length prefix + body to w.
func writeFrame(w io.Writer, body []byte) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], frameMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(body)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}

// readFrame reads one frame from r and returns its body.
func readFrame(r io.Reader) ([]byte, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	magic := binary.LittleEndian.Uint32(hdr[0:4])
	if magic != frameMagic {
		return nil, errcode.New(errcode.BadMessage, "frame magic mismatch")
	}
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n > maxFrameBody {
		return nil, errcode.New(errcode.BadMessage, "frame body too large")
	}
	if n == 0 {
		return nil, nil
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// isClosedConnErr reports whether err is the generic "use of closed
// network connection" error net produces for a Read/Write racing a
// Close — the Go analogue of the pair-socket cancellation wakeup.
func isClosedConnErr(err error) bool {
	if err == nil {
		return false
	}
	if err == io.EOF || err == io.ErrClosedPipe {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
