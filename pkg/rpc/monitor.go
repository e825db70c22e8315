package rpc

import (
	"sync"
	"time"

	"devicerpc/pkg/errcode"
	"devicerpc/pkg/logging"
	"devicerpc/pkg/transport"
	"devicerpc/pkg/wire"
)

// monitor owns the subscriber connection a Client uses to receive
// published events for its own identifier, one goroutine driving its
// receive loop, and a mutex-guarded table of registered callbacks.
// The transport broadcasts every publisher frame to every subscriber,
// so the loop filters on the frame's leading identifier before
// looking anything up.
type monitor struct {
	id wire.Identifier

	sub *transport.Subscriber

	mu        sync.Mutex
	callbacks map[Command]Callback

	done chan struct{}
}

func newMonitor(endpoint transport.Endpoint, id wire.Identifier, connectTimeout time.Duration) (*monitor, error) {
	sub, err := transport.Dial(endpoint, connectTimeout)
	if err != nil {
		return nil, err
	}
	m := &monitor{
		id:        id,
		sub:       sub,
		callbacks: make(map[Command]Callback),
		done:      make(chan struct{}),
	}
	go m.loop()
	return m, nil
}

func (m *monitor) set(cmd Command, cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb == nil {
		delete(m.callbacks, cmd)
		return
	}
	m.callbacks[cmd] = cb
}

func (m *monitor) loop() {
	defer close(m.done)
	for {
		body, err := m.sub.Recv()
		if err != nil {
			if errcode.CodeOf(err) != errcode.NotConnected {
				logging.Warningf("subscriber receive failed: %v", err)
			}
			return
		}
		m.dispatch(body)
	}
}

func (m *monitor) dispatch(body []byte) {
	in := wire.NewInputBuffer(body)

	var id wire.Identifier
	if err := id.Decode(in); err != nil {
		return
	}
	if id != m.id {
		return
	}
	cmd, err := wire.ReadEnum[Command](in)
	if err != nil {
		return
	}

	m.mu.Lock()
	cb, ok := m.callbacks[cmd]
	m.mu.Unlock()
	if !ok {
		return
	}

	m.invoke(cb, in)
}

// invoke calls cb, recovering any panic so a misbehaving callback
// cannot kill the receive loop.
func (m *monitor) invoke(cb Callback, in *wire.InputBuffer) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("callback panicked: %v", r)
		}
	}()
	cb(in)
}

// close shuts down the subscriber connection, unblocking the receive
// loop, and waits for it to exit.
func (m *monitor) close() {
	m.sub.Close()
	<-m.done
}
