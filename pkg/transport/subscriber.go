package transport

import (
	"net"
	"time"
)

// Subscriber is the receiving end of a Publisher. It dials once and
// hands every subsequent frame to the caller through Recv; there is
// no topic filtering, since every callback monitor in this framework
// already knows which commands it cares about and discards the rest
// itself.
type Subscriber struct {
	conn net.Conn
}

// Dial connects to a Publisher's bound address.
func Dial(endpoint Endpoint, connectTimeout time.Duration) (*Subscriber, error) {
	conn, err := net.DialTimeout("tcp", endpoint.Addr, connectTimeout)
	if err != nil {
		return nil, wrapDialErr(err)
	}
	return &Subscriber{conn: conn}, nil
}

// Recv blocks until the next published frame arrives, or returns an
// error once the connection is closed — either by Close or by the
// publisher going away.
func (s *Subscriber) Recv() ([]byte, error) {
	body, err := readFrame(s.conn)
	if err != nil {
		return nil, wrapIOErr(err)
	}
	return body, nil
}

// Close unblocks any in-progress Recv and releases the connection,
// the same role a pair-socket cancellation wakeup plays for a
// blocking SUB receive.
func (s *Subscriber) Close() error {
	return s.conn.Close()
}
