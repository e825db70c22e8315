package camera

import (
	"encoding/binary"
	"sync"
	"time"

	"devicerpc/pkg/rpc"
)

// device is the simulated per-session handle installed as
// rpc.Handle.Value by the create task.
type device struct {
	mu     sync.Mutex
	params Params

	framerate time.Duration
	ticker    *time.Ticker
	done      chan struct{}

	frameCount uint32
	publish    func(rpc.Command, []byte) error
	streaming  bool
}

func newDevice(cfg Config) *device {
	interval := time.Second
	if cfg.Framerate > 0 {
		interval = time.Duration(float64(time.Second) / cfg.Framerate)
	}
	d := &device{
		framerate: interval,
		done:      make(chan struct{}),
	}
	return d
}

// enableStreaming starts (or, if already started, leaves running) the
// periodic frame-ready ticker. publish is the session's Handle.Publish
// closure, captured once streaming begins. The new ticker and done
// channel are handed directly to run as arguments, taken while d.mu is
// still held, rather than letting run re-read d.ticker/d.done itself —
// those fields are mutated by disableStreaming under the same lock,
// from a different goroutine.
func (d *device) enableStreaming(publish func(rpc.Command, []byte) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streaming {
		return
	}
	d.streaming = true
	d.publish = publish
	ticker := time.NewTicker(d.framerate)
	done := d.done
	d.ticker = ticker
	go d.run(ticker, done)
}

func (d *device) disableStreaming() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.streaming {
		return
	}
	d.streaming = false
	d.ticker.Stop()
	close(d.done)
	d.done = make(chan struct{})
}

func (d *device) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			d.emitFrame()
		}
	}
}

func (d *device) emitFrame() {
	d.mu.Lock()
	d.frameCount++
	count := d.frameCount
	publish := d.publish
	d.mu.Unlock()

	if publish == nil {
		return
	}
	var payload [4]byte
	binary.LittleEndian.PutUint32(payload[:], count)
	_ = publish(CmdCallbackSet, payload[:])
}

func (d *device) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streaming {
		d.streaming = false
		d.ticker.Stop()
		close(d.done)
	}
}

func (d *device) getParams() Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

func (d *device) setParams(p Params) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.params = p
}
