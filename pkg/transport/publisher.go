package transport

import (
	"net"
	"sync"
)

// publishDepth bounds the per-subscriber outgoing queue. A subscriber
// that cannot keep up has its oldest-pending message replaced by the
// newest one rather than stalling the publisher — the same
// backpressure a PUB socket applies at its high-water mark.
const publishDepth = 3

// Publisher fans one stream of messages out to every connected
// Subscriber. A slow subscriber never blocks the publisher or any
// other subscriber: each gets its own bounded queue and drops its own
// backlog under pressure.
type Publisher struct {
	listener net.Listener

	mu   sync.Mutex
	subs map[*publisherConn]struct{}
}

type publisherConn struct {
	conn  net.Conn
	queue chan []byte
}

// Bind opens a listening socket that Subscribers connect to.
func Bind(endpoint Endpoint) (*Publisher, error) {
	ln, err := net.Listen("tcp", endpoint.Addr)
	if err != nil {
		return nil, wrapDialErr(err)
	}
	p := &Publisher{
		listener: ln,
		subs:     make(map[*publisherConn]struct{}),
	}
	go p.acceptLoop()
	return p, nil
}

// Addr returns the bound local address.
func (p *Publisher) Addr() net.Addr {
	return p.listener.Addr()
}

func (p *Publisher) acceptLoop() {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			return
		}
		sc := &publisherConn{conn: conn, queue: make(chan []byte, publishDepth)}
		p.mu.Lock()
		p.subs[sc] = struct{}{}
		p.mu.Unlock()
		go p.writeLoop(sc)
	}
}

func (p *Publisher) writeLoop(sc *publisherConn) {
	defer func() {
		p.mu.Lock()
		delete(p.subs, sc)
		p.mu.Unlock()
		sc.conn.Close()
	}()
	for body := range sc.queue {
		if err := writeFrame(sc.conn, body); err != nil {
			return
		}
	}
}

// Publish enqueues body for delivery to every currently connected
// subscriber. A subscriber whose queue is already full has its oldest
// queued message dropped to make room — publishing never blocks.
func (p *Publisher) Publish(body []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sc := range p.subs {
		select {
		case sc.queue <- body:
		default:
			select {
			case <-sc.queue:
			default:
			}
			select {
			case sc.queue <- body:
			default:
			}
		}
	}
}

// Close stops accepting subscribers and disconnects every connected
// one.
func (p *Publisher) Close() error {
	err := p.listener.Close()
	p.mu.Lock()
	for sc := range p.subs {
		close(sc.queue)
	}
	p.subs = make(map[*publisherConn]struct{})
	p.mu.Unlock()
	return err
}
