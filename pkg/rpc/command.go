// Package rpc implements the request/reply + publish/subscribe
// session framework every device backend in this module is built on:
// a Client that creates a remote session and issues requests against
// it, and a Server that dispatches incoming requests to task
// procedures keyed by an application-defined command enumeration.
package rpc

import (
	"devicerpc/pkg/wire"
)

// Command identifies an operation on the wire. Applications define
// their own named constants over this type; the framework only cares
// about the create and destroy values singled out in a Config.
type Command int32

// Handle is the server-side per-session state a task procedure may
// read and mutate. Value is nil until the create task installs it,
// and nil again once the session is destroyed. Publish pushes an
// already-encoded event to every subscriber watching this session; it
// is installed by the server immediately after a successful create
// and is nil beforehand.
type Handle struct {
	Identifier wire.Identifier
	Value      any
	Publish    func(cmd Command, payload []byte) error
}

// Task is a dispatch-table entry's procedure: it reads in, may
// consult or mutate h.Value, and writes its reply payload to out. The
// leading error code and, for the create task, the trailing callback
// port are appended by the server, not by the task itself.
type Task func(h *Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error

// TaskEntry pairs a command with the procedure that answers it.
type TaskEntry struct {
	Cmd  Command
	Task Task
}

// Config is the dispatch table a Server is built from: one task for
// creating a session, one for destroying it, and an ordered list of
// ordinary tasks tried before either. Built by the embedding package
// at NewServer time — there is no global registration table.
type Config struct {
	CreateCmd Command
	CreateTask Task

	DestroyCmd Command
	DestroyTask Task

	Tasks []TaskEntry
}
