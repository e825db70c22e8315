package transport

import (
	"net"

	"devicerpc/pkg/errcode"
)

// wrapDialErr maps a net.DialTimeout failure onto the errno-family
// codes the rest of the framework reports.
func wrapDialErr(err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errcode.New(errcode.TimedOut, err.Error())
	}
	return errcode.New(errcode.NotConnected, err.Error())
}

// wrapIOErr maps a post-connect read/write failure. A timeout is
// reported distinctly because the requester rebuilds its socket on
// timeout rather than treating it as a hard disconnect.
func wrapIOErr(err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errcode.New(errcode.TimedOut, err.Error())
	}
	return errcode.New(errcode.NotConnected, err.Error())
}
