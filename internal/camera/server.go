package camera

import (
	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

// NewServer builds the rpc.Server for the camera command set.
func NewServer() *rpc.Server {
	config := rpc.Config{
		CreateCmd:   CmdCreate,
		CreateTask:  createTask,
		DestroyCmd:  CmdDestroy,
		DestroyTask: destroyTask,
		Tasks: []rpc.TaskEntry{
			{Cmd: CmdCallbackSet, Task: callbackSetTask},
			{Cmd: CmdParametersGet, Task: parametersGetTask},
			{Cmd: CmdParametersSet, Task: parametersSetTask},
		},
	}
	return rpc.NewServer(config)
}

func createTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	var cfg Config
	if err := cfg.Decode(in); err != nil {
		return err
	}
	h.Value = newDevice(cfg)
	return nil
}

func destroyTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	d, ok := h.Value.(*device)
	if !ok || d == nil {
		return nil
	}
	d.close()
	h.Value = nil
	return nil
}

func callbackSetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	enable, err := wire.ReadBool(in)
	if err != nil {
		return err
	}
	d := h.Value.(*device)
	if enable {
		d.enableStreaming(h.Publish)
	} else {
		d.disableStreaming()
	}
	return nil
}

func parametersGetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	d := h.Value.(*device)
	return d.getParams().Encode(out)
}

func parametersSetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	var params Params
	if err := params.Decode(in); err != nil {
		return err
	}
	d := h.Value.(*device)
	d.setParams(params)
	return nil
}
