package rpc

import (
	"strconv"
	"sync"
	"time"

	"devicerpc/pkg/errcode"
	"devicerpc/pkg/transport"
	"devicerpc/pkg/wire"
)

// Client is a session created against one Server. Every exported
// method on it is wrapped in errcode.ProtectedCall by the
// package-level functions below, mirroring the original's static
// Create/Destroy/Request/SetCallback entry points — this package has
// no need for a generic Client[Command] type since Command is already
// a single concrete type throughout the module.
type Client struct {
	Identifier wire.Identifier

	address      string
	callbackPort int
	timeout      time.Duration

	requester *transport.Requester

	monitorOnce sync.Once
	monitor     *monitor
}

// Create builds a client bound to address, issues a create request
// carrying encode(input), and on success decodes the callback port
// from the reply tail. On any failure the partially built client is
// torn down and the error is returned.
func Create(address string, createCmd Command, timeout time.Duration, encodeInput func(*wire.OutputBuffer) error) (c *Client, err error) {
	err = errcode.ProtectedCall(func() error {
		endpoint, perr := transport.ParseEndpoint(address)
		if perr != nil {
			return errcode.New(errcode.InvalidArgument, perr.Error())
		}

		client := &Client{
			Identifier: wire.Generate(),
			address:    address,
			timeout:    timeout,
			requester:  transport.NewRequester(endpoint, timeout, timeout),
		}

		fail := func(e error) error {
			client.close()
			return e
		}

		req := wire.NewOutputBuffer()
		if e := client.Identifier.Encode(req); e != nil {
			return fail(e)
		}
		if e := wire.WriteEnum(req, createCmd); e != nil {
			return fail(e)
		}
		if encodeInput != nil {
			if e := encodeInput(req); e != nil {
				return fail(e)
			}
		}

		replyBody, e := client.requester.Call(req.Release())
		if e != nil {
			return fail(e)
		}

		in := wire.NewInputBuffer(replyBody)
		code, e := wire.ReadInt32(in)
		if e != nil {
			return fail(e)
		}
		if errcode.Code(code) != errcode.OK {
			return fail(errcode.New(errcode.Code(code), "create failed"))
		}
		port, e := wire.ReadInt32(in)
		if e != nil {
			return fail(e)
		}
		client.callbackPort = int(port)

		c = client
		return nil
	})
	return c, err
}

// Destroy sends a destroy request and releases the client's local
// resources regardless of the remote outcome. A remote error takes
// precedence over any local cleanup error.
func Destroy(c *Client, destroyCmd Command, timeout time.Duration) error {
	return errcode.ProtectedCall(func() error {
		req := wire.NewOutputBuffer()
		if err := c.Identifier.Encode(req); err != nil {
			return err
		}
		if err := wire.WriteEnum(req, destroyCmd); err != nil {
			return err
		}

		replyBody, err := c.requester.Call(req.Release())
		c.close()
		if err != nil {
			return err
		}

		in := wire.NewInputBuffer(replyBody)
		code, err := wire.ReadInt32(in)
		if err != nil {
			return err
		}
		if errcode.Code(code) != errcode.OK {
			return errcode.New(errcode.Code(code), "destroy failed")
		}
		return nil
	})
}

// Request encodes (identifier, cmd, input), sends it, and on a
// zero leading error code calls decodeOutput with the rest of the
// reply. decodeOutput may be nil for commands with no output payload.
func Request(c *Client, cmd Command, encodeInput func(*wire.OutputBuffer) error, decodeOutput func(*wire.InputBuffer) error) error {
	return errcode.ProtectedCall(func() error {
		req := wire.NewOutputBuffer()
		if err := c.Identifier.Encode(req); err != nil {
			return err
		}
		if err := wire.WriteEnum(req, cmd); err != nil {
			return err
		}
		if encodeInput != nil {
			if err := encodeInput(req); err != nil {
				return err
			}
		}

		replyBody, err := c.requester.Call(req.Release())
		if err != nil {
			return err
		}

		in := wire.NewInputBuffer(replyBody)
		code, err := wire.ReadInt32(in)
		if err != nil {
			return err
		}
		if errcode.Code(code) != errcode.OK {
			return errcode.New(errcode.Code(code), "request failed")
		}
		if decodeOutput != nil {
			return decodeOutput(in)
		}
		return nil
	})
}

// Callback receives the remaining, unread input buffer of one
// published event for the command it was registered under.
type Callback func(*wire.InputBuffer)

// SetCallback lazily constructs the callback monitor on first use,
// sends a request enabling or disabling server-side publication for
// cmd, and updates the local monitor's registration for cmd. A nil
// callback disables.
//
// As in the original's set_callback, disabling always takes effect
// locally — even if the remote disable request itself fails — so a
// client is never left with a stale registered callback it has no way
// to clear. Only the enable path's local registration is conditioned
// on the remote call succeeding.
func SetCallback(c *Client, cmd Command, callback Callback) error {
	return errcode.ProtectedCall(func() error {
		if err := c.ensureMonitor(); err != nil {
			return err
		}

		req := wire.NewOutputBuffer()
		if err := c.Identifier.Encode(req); err != nil {
			return err
		}
		if err := wire.WriteEnum(req, cmd); err != nil {
			return err
		}
		if err := wire.WriteBool(req, callback != nil); err != nil {
			return err
		}

		replyBody, callErr := c.requester.Call(req.Release())
		if callErr != nil {
			if callback == nil {
				c.monitor.set(cmd, nil)
			}
			return callErr
		}

		in := wire.NewInputBuffer(replyBody)
		code, err := wire.ReadInt32(in)
		if err != nil {
			if callback == nil {
				c.monitor.set(cmd, nil)
			}
			return err
		}
		if errcode.Code(code) != errcode.OK {
			if callback == nil {
				c.monitor.set(cmd, nil)
			}
			return errcode.New(errcode.Code(code), "set_callback failed")
		}

		c.monitor.set(cmd, callback)
		return nil
	})
}

func (c *Client) ensureMonitor() error {
	var err error
	c.monitorOnce.Do(func() {
		endpoint, perr := transport.ParseEndpoint(substitutePort(c.address, strconv.Itoa(c.callbackPort)))
		if perr != nil {
			err = errcode.New(errcode.InvalidArgument, perr.Error())
			return
		}
		c.monitor, err = newMonitor(endpoint, c.Identifier, c.timeout)
	})
	return err
}

func (c *Client) close() {
	if c.monitor != nil {
		c.monitor.close()
		c.monitor = nil
	}
	if c.requester != nil {
		c.requester.Close()
		c.requester = nil
	}
}
