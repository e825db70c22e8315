// Package vacuum is a fully simulated vacuum-robot handle provider,
// exposed over the request/reply + publish/subscribe framework in
// pkg/rpc. It exists to give that framework's dispatch table a
// concrete, realistic command set to exercise; it does not talk to
// any real robot hardware.
package vacuum

import (
	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

const (
	CmdCreate rpc.Command = iota
	CmdDestroy
	CmdPoseGet
	CmdLaserScanGet
	CmdSpeedSet
	CmdIsHeadingDone
	CmdDeltaHeadingSet
)

// NumLaserReadings is the fixed size of a simulated laser scan.
const NumLaserReadings = 360

// Config is supplied by the caller on Create.
type Config struct {
	// UpdateIntervalMs is the interval, in milliseconds, between
	// simulated odometry/heading updates. Values below 50 are
	// raised to 50, matching the real robot's own minimum.
	UpdateIntervalMs int32
}

func (c *Config) Decode(in *wire.InputBuffer) error {
	v, err := wire.ReadInt32(in)
	if err != nil {
		return err
	}
	c.UpdateIntervalMs = v
	return nil
}

// Pose is a 2D robot pose.
type Pose struct {
	X, Y, Theta float64
}

func (p Pose) Encode(out *wire.OutputBuffer) error {
	if err := wire.WriteFloat64(out, p.X); err != nil {
		return err
	}
	if err := wire.WriteFloat64(out, p.Y); err != nil {
		return err
	}
	return wire.WriteFloat64(out, p.Theta)
}

func (p *Pose) Decode(in *wire.InputBuffer) error {
	var err error
	if p.X, err = wire.ReadFloat64(in); err != nil {
		return err
	}
	if p.Y, err = wire.ReadFloat64(in); err != nil {
		return err
	}
	if p.Theta, err = wire.ReadFloat64(in); err != nil {
		return err
	}
	return nil
}

// LaserScan is a synthesized 360-reading scan taken around a pose.
type LaserScan struct {
	PoseTaken Pose
	Distance  [NumLaserReadings]int32
}

func (s LaserScan) Encode(out *wire.OutputBuffer) error {
	if err := s.PoseTaken.Encode(out); err != nil {
		return err
	}
	return wire.WriteArray(out, s.Distance[:], wire.WriteInt32)
}
