package vacuum

import (
	"time"

	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

// Robot is a client-side handle to a remote simulated vacuum robot.
type Robot struct {
	client *rpc.Client
}

// Create connects to address and creates a new robot session.
func Create(address string, cfg Config, timeout time.Duration) (*Robot, error) {
	c, err := rpc.Create(address, CmdCreate, timeout, func(out *wire.OutputBuffer) error {
		return wire.WriteInt32(out, cfg.UpdateIntervalMs)
	})
	if err != nil {
		return nil, err
	}
	return &Robot{client: c}, nil
}

// Destroy ends the session.
func (r *Robot) Destroy(timeout time.Duration) error {
	return rpc.Destroy(r.client, CmdDestroy, timeout)
}

// PoseGet returns the robot's current pose.
func (r *Robot) PoseGet() (Pose, error) {
	var pose Pose
	err := rpc.Request(r.client, CmdPoseGet, nil, pose.Decode)
	return pose, err
}

// LaserScanGet executes a simulated laser scan.
func (r *Robot) LaserScanGet() (LaserScan, error) {
	var scan LaserScan
	err := rpc.Request(r.client, CmdLaserScanGet, nil, func(in *wire.InputBuffer) error {
		if err := scan.PoseTaken.Decode(in); err != nil {
			return err
		}
		values, err := wire.ReadArray(in, NumLaserReadings, wire.ReadInt32)
		if err != nil {
			return err
		}
		copy(scan.Distance[:], values)
		return nil
	})
	return scan, err
}

// SpeedSet changes the robot's speed in millimeters per second.
func (r *Robot) SpeedSet(speed float64) error {
	return rpc.Request(r.client, CmdSpeedSet, func(out *wire.OutputBuffer) error {
		return wire.WriteFloat64(out, speed)
	}, nil)
}

// IsHeadingDone reports whether an in-progress heading change has
// finished.
func (r *Robot) IsHeadingDone() (bool, error) {
	var done bool
	err := rpc.Request(r.client, CmdIsHeadingDone, nil, func(in *wire.InputBuffer) error {
		v, err := wire.ReadBool(in)
		done = v
		return err
	})
	return done, err
}

// DeltaHeadingSet turns the robot by delta degrees.
func (r *Robot) DeltaHeadingSet(delta float64) error {
	return rpc.Request(r.client, CmdDeltaHeadingSet, func(out *wire.OutputBuffer) error {
		return wire.WriteFloat64(out, delta)
	}, nil)
}
