package transport

import (
	"net"
	"sync"
	"time"
)

// Requester is the client side of a request/reply exchange: one
// request in flight at a time, strictly alternating write-then-read,
// exactly like a REQ socket. Concurrent callers are serialized by an
// internal mutex rather than queued at the transport — callers that
// want concurrency run their own pool of Requesters.
type Requester struct {
	endpoint         Endpoint
	connectTimeout   time.Duration
	responseTimeout  time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// NewRequester returns a Requester that dials lazily on the first
// Call. No network I/O happens before that.
func NewRequester(endpoint Endpoint, connectTimeout, responseTimeout time.Duration) *Requester {
	return &Requester{
		endpoint:         endpoint,
		connectTimeout:   connectTimeout,
		responseTimeout:  responseTimeout,
	}
}

// Call sends body and returns the single reply frame body. A timeout
// waiting for the reply closes and discards the underlying
// connection: the requester's only recovery after a timeout is to
// rebuild its socket from scratch on the next call, the same recovery
// a REQ socket needs after a timeout since the strict request/reply
// turn order is otherwise unrecoverable.
func (r *Requester) Call(body []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		conn, err := net.DialTimeout("tcp", r.endpoint.Addr, r.connectTimeout)
		if err != nil {
			return nil, wrapDialErr(err)
		}
		r.conn = conn
	}

	if r.responseTimeout > 0 {
		r.conn.SetDeadline(time.Now().Add(r.responseTimeout))
	}

	if err := writeFrame(r.conn, body); err != nil {
		r.closeLocked()
		return nil, wrapIOErr(err)
	}

	reply, err := readFrame(r.conn)
	if err != nil {
		r.closeLocked()
		return nil, wrapIOErr(err)
	}

	r.conn.SetDeadline(time.Time{})
	return reply, nil
}

// Close releases the underlying connection, if any.
func (r *Requester) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *Requester) closeLocked() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}
