package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"devicerpc/pkg/errcode"
	"devicerpc/pkg/logging"
	"devicerpc/pkg/metrics"
	"devicerpc/pkg/transport"
	"devicerpc/pkg/wire"
)

// Server binds a replier and a publisher over one Config's dispatch
// table. Every session it tracks is keyed by the client identifier
// that created it.
type Server struct {
	config Config

	replier      *transport.Replier
	publisher    *transport.Publisher
	callbackPort int
	metrics      *metrics.Recorder

	jobs chan dispatchJob

	mu       sync.Mutex
	sessions map[wire.Identifier]*Handle
}

type dispatchJob struct {
	body   []byte
	respCh chan []byte
}

// NewServer builds a Server from config. No network resources are
// acquired until Start.
func NewServer(config Config) *Server {
	return &Server{
		config:   config,
		metrics:  metrics.NewRecorder(),
		jobs:     make(chan dispatchJob),
		sessions: make(map[wire.Identifier]*Handle),
	}
}

// Metrics returns the recorder tracking this server's request counts,
// error counts, and latency distribution, totalled across all commands.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// Start binds a replier to address, derives the publisher address by
// substituting its port with 0 for system assignment, binds it, and
// starts the single dispatch goroutine every request is serialized
// through — the Go analogue of the original's single main-loop thread
// executing task procedures synchronously.
func (s *Server) Start(address string) error {
	endpoint, err := transport.ParseEndpoint(address)
	if err != nil {
		return errcode.New(errcode.InvalidArgument, err.Error())
	}

	replier, err := transport.Listen(endpoint, s.handleRequest)
	if err != nil {
		return err
	}
	s.replier = replier

	pubAddr := substitutePort(replier.Addr().String(), "0")
	pubEndpoint, err := transport.ParseEndpoint(pubAddr)
	if err != nil {
		replier.Close()
		return errcode.New(errcode.InvalidArgument, err.Error())
	}
	publisher, err := transport.Bind(pubEndpoint)
	if err != nil {
		replier.Close()
		return err
	}
	s.publisher = publisher
	s.callbackPort = portOf(publisher.Addr().String())

	go s.dispatchLoop()
	go func() {
		if err := replier.Serve(); err != nil {
			logging.Warningf("replier serve exited: %v", err)
		}
	}()

	return nil
}

// CallbackPort returns the system-assigned port subscribers connect
// to for published events. Valid only after Start returns.
func (s *Server) CallbackPort() int {
	return s.callbackPort
}

// Addr returns the replier's bound address. Valid only after Start
// returns.
func (s *Server) Addr() string {
	return s.replier.Addr().String()
}

// SessionCount returns the number of currently live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop invokes the destroy task for every live session (ignoring its
// errors), then closes the replier and publisher, unblocking anything
// parked in a request or receive.
func (s *Server) Stop() {
	s.mu.Lock()
	sessions := make([]*Handle, 0, len(s.sessions))
	for _, h := range s.sessions {
		sessions = append(sessions, h)
	}
	s.sessions = make(map[wire.Identifier]*Handle)
	s.mu.Unlock()

	for _, h := range sessions {
		out := wire.NewOutputBuffer()
		_ = errcode.ProtectedCall(func() error {
			return s.config.DestroyTask(h, wire.NewInputBuffer(nil), out)
		})
	}

	if s.replier != nil {
		s.replier.Close()
	}
	close(s.jobs)
	if s.publisher != nil {
		s.publisher.Close()
	}
	_ = s.metrics.Shutdown(context.Background())
}

func (s *Server) dispatchLoop() {
	for job := range s.jobs {
		job.respCh <- s.dispatch(job.body)
	}
}

// handleRequest is the transport.Handler the replier invokes per
// received frame; it hands the work to the single dispatch goroutine
// and waits for the reply.
func (s *Server) handleRequest(body []byte) []byte {
	respCh := make(chan []byte, 1)
	s.jobs <- dispatchJob{body: body, respCh: respCh}
	return <-respCh
}

// dispatch decodes the leading identifier and command, then hands the
// rest of the eight-step algorithm to route, recording the command's
// request count, error count, and latency once route returns.
func (s *Server) dispatch(body []byte) []byte {
	in := wire.NewInputBuffer(body)

	var id wire.Identifier
	if err := id.Decode(in); err != nil {
		return encodeErrorReply(errcode.CodeOf(err))
	}
	cmd, err := wire.ReadEnum[Command](in)
	if err != nil {
		return encodeErrorReply(errcode.CodeOf(err))
	}

	start := time.Now()
	reply := s.route(id, cmd, in)
	s.metrics.Observe(context.Background(), int32(cmd), replyFailed(reply), time.Since(start))
	return reply
}

// route implements the eight-step request dispatch algorithm over an
// already-decoded identifier and command.
func (s *Server) route(id wire.Identifier, cmd Command, in *wire.InputBuffer) []byte {
	s.mu.Lock()
	handle, exists := s.sessions[id]
	s.mu.Unlock()
	if !exists {
		handle = &Handle{Identifier: id}
	}

	if handle.Value == nil && cmd != s.config.CreateCmd {
		return encodeErrorReply(errcode.OperationNotSupported)
	}

	for _, te := range s.config.Tasks {
		if te.Cmd != cmd {
			continue
		}
		return s.runTask(te.Task, handle, in, false)
	}

	switch cmd {
	case s.config.CreateCmd:
		if handle.Value != nil {
			return encodeErrorReply(errcode.ConnectionAlreadyInProgress)
		}
		reply := s.runTask(s.config.CreateTask, handle, in, true)
		if handle.Value == nil {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
		} else {
			handle.Publish = s.makePublish(id)
			s.mu.Lock()
			s.sessions[id] = handle
			s.mu.Unlock()
		}
		return reply

	case s.config.DestroyCmd:
		reply := s.runTask(s.config.DestroyTask, handle, in, false)
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return reply

	default:
		return encodeErrorReply(errcode.OperationNotSupported)
	}
}

// runTask invokes task behind the fault barrier and assembles its
// reply: leading error code, then the task's payload, then — for a
// create task that left h.Value set — the callback port.
func (s *Server) runTask(task Task, h *Handle, in *wire.InputBuffer, appendPort bool) []byte {
	out := wire.NewOutputBuffer()
	err := errcode.ProtectedCall(func() error {
		return task(h, in, out)
	})
	if err != nil {
		logging.Errorf("task failed: %v", err)
		return encodeErrorReply(errcode.CodeOf(err))
	}

	reply := wire.NewOutputBuffer()
	_ = wire.WriteInt32(reply, int32(errcode.OK))
	_ = reply.Write(out.Release())
	if appendPort && h.Value != nil {
		_ = wire.WriteInt32(reply, int32(s.callbackPort))
	}
	return reply.Release()
}

// makePublish returns the closure a newly created session's Handle
// uses to push events: each published frame is prefixed with the
// session's own identifier so every subscriber — which all share one
// broadcast transport — can filter to the events meant for it.
func (s *Server) makePublish(id wire.Identifier) func(Command, []byte) error {
	return func(cmd Command, payload []byte) error {
		out := wire.NewOutputBuffer()
		if err := id.Encode(out); err != nil {
			return err
		}
		if err := wire.WriteEnum(out, cmd); err != nil {
			return err
		}
		if err := out.Write(payload); err != nil {
			return err
		}
		s.publisher.Publish(out.Release())
		return nil
	}
}

func encodeErrorReply(code errcode.Code) []byte {
	out := wire.NewOutputBuffer()
	_ = wire.WriteInt32(out, int32(code))
	return out.Release()
}

// replyFailed reports whether reply's leading error code is non-zero.
func replyFailed(reply []byte) bool {
	in := wire.NewInputBuffer(reply)
	code, err := wire.ReadInt32(in)
	if err != nil {
		return true
	}
	return errcode.Code(code) != errcode.OK
}

// substitutePort replaces the port component of a host:port address
// string with replacement.
func substitutePort(addr, replacement string) string {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return addr + ":" + replacement
	}
	return addr[:i+1] + replacement
}

func portOf(addr string) int {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return 0
	}
	var port int
	for _, c := range addr[i+1:] {
		if c < '0' || c > '9' {
			break
		}
		port = port*10 + int(c-'0')
	}
	return port
}
