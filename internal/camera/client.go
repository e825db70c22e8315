package camera

import (
	"encoding/binary"
	"time"

	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

// Camera is a client-side handle to a remote simulated camera.
type Camera struct {
	client *rpc.Client
}

// Create connects to address and creates a new camera session.
func Create(address string, cfg Config, timeout time.Duration) (*Camera, error) {
	c, err := rpc.Create(address, CmdCreate, timeout, cfg.Encode)
	if err != nil {
		return nil, err
	}
	return &Camera{client: c}, nil
}

// Destroy ends the session.
func (c *Camera) Destroy(timeout time.Duration) error {
	return rpc.Destroy(c.client, CmdDestroy, timeout)
}

// ParametersGet returns the camera's current parameters.
func (c *Camera) ParametersGet() (Params, error) {
	var params Params
	err := rpc.Request(c.client, CmdParametersGet, nil, params.Decode)
	return params, err
}

// ParametersSet updates the camera's parameters.
func (c *Camera) ParametersSet(params Params) error {
	return rpc.Request(c.client, CmdParametersSet, params.Encode, nil)
}

// FrameCallback receives the frame counter of one frame-ready event.
type FrameCallback func(frameCount uint32)

// CallbackSet enables or disables periodic frame-ready events. Passing
// a nil callback disables streaming. The enable/disable request and
// the callback registration both ride on CmdCallbackSet, exactly the
// way rpc.SetCallback's contract expects.
func (c *Camera) CallbackSet(callback FrameCallback) error {
	if callback == nil {
		return rpc.SetCallback(c.client, CmdCallbackSet, nil)
	}
	return rpc.SetCallback(c.client, CmdCallbackSet, func(in *wire.InputBuffer) {
		data, err := in.Read(4)
		if err != nil {
			return
		}
		callback(binary.LittleEndian.Uint32(data))
	})
}
