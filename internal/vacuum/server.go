package vacuum

import (
	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

// NewServer builds the rpc.Server for the vacuum command set.
func NewServer() *rpc.Server {
	config := rpc.Config{
		CreateCmd:   CmdCreate,
		CreateTask:  createTask,
		DestroyCmd:  CmdDestroy,
		DestroyTask: destroyTask,
		Tasks: []rpc.TaskEntry{
			{Cmd: CmdPoseGet, Task: poseGetTask},
			{Cmd: CmdLaserScanGet, Task: laserScanGetTask},
			{Cmd: CmdSpeedSet, Task: speedSetTask},
			{Cmd: CmdIsHeadingDone, Task: isHeadingDoneTask},
			{Cmd: CmdDeltaHeadingSet, Task: deltaHeadingSetTask},
		},
	}
	return rpc.NewServer(config)
}

func createTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	var cfg Config
	if err := cfg.Decode(in); err != nil {
		return err
	}
	h.Value = newRobot(cfg)
	return nil
}

func destroyTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	r, ok := h.Value.(*robot)
	if !ok || r == nil {
		return nil
	}
	r.close()
	h.Value = nil
	return nil
}

func poseGetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	r := h.Value.(*robot)
	return r.getPose().Encode(out)
}

func laserScanGetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	r := h.Value.(*robot)
	return r.laserScan().Encode(out)
}

func speedSetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	speed, err := wire.ReadFloat64(in)
	if err != nil {
		return err
	}
	r := h.Value.(*robot)
	r.setSpeed(speed)
	return nil
}

func isHeadingDoneTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	r := h.Value.(*robot)
	return wire.WriteBool(out, r.isHeadingDone())
}

func deltaHeadingSetTask(h *rpc.Handle, in *wire.InputBuffer, out *wire.OutputBuffer) error {
	delta, err := wire.ReadFloat64(in)
	if err != nil {
		return err
	}
	r := h.Value.(*robot)
	r.setDeltaHeading(delta)
	return nil
}
