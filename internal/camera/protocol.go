// Package camera is a fully simulated camera handle provider, exposed
// over the request/reply + publish/subscribe framework in pkg/rpc.
// It exercises both the plain request/reply path (parameter get/set)
// and the callback path (periodic frame-ready events); it does not
// capture or encode any real image data.
package camera

import (
	"devicerpc/pkg/rpc"
	"devicerpc/pkg/wire"
)

const (
	CmdCreate rpc.Command = iota
	CmdDestroy
	// CmdCallbackSet both enables/disables frame streaming (as a
	// request whose body is a single bool) and identifies the
	// published frame-ready event itself, exactly the way the
	// original API overloads one command for both purposes.
	CmdCallbackSet
	CmdParametersGet
	CmdParametersSet
)

// ImageFormat mirrors the original's picam_image_format_t.
type ImageFormat int32

const (
	ImageFormatGray ImageFormat = iota
	ImageFormatBGR
	ImageFormatRGB
)

// ROI is a region of interest normalized to [0, 1].
type ROI struct {
	X, Y, Width, Height float32
}

func (r ROI) Encode(out *wire.OutputBuffer) error {
	if err := wire.WriteFloat32(out, r.X); err != nil {
		return err
	}
	if err := wire.WriteFloat32(out, r.Y); err != nil {
		return err
	}
	if err := wire.WriteFloat32(out, r.Width); err != nil {
		return err
	}
	return wire.WriteFloat32(out, r.Height)
}

func (r *ROI) Decode(in *wire.InputBuffer) error {
	var err error
	if r.X, err = wire.ReadFloat32(in); err != nil {
		return err
	}
	if r.Y, err = wire.ReadFloat32(in); err != nil {
		return err
	}
	if r.Width, err = wire.ReadFloat32(in); err != nil {
		return err
	}
	if r.Height, err = wire.ReadFloat32(in); err != nil {
		return err
	}
	return nil
}

// Params are the configurable camera parameters that can change after
// creation.
type Params struct {
	Sharpness            int32 // -100 to 100
	Contrast             int32 // -100 to 100
	Brightness           int32 //    0 to 100
	Saturation           int32 // -100 to 100
	ExposureCompensation int32 //  -25 to 25
	Zoom                 ROI
	Crop                 ROI
}

func (p Params) Encode(out *wire.OutputBuffer) error {
	for _, v := range []int32{p.Sharpness, p.Contrast, p.Brightness, p.Saturation, p.ExposureCompensation} {
		if err := wire.WriteInt32(out, v); err != nil {
			return err
		}
	}
	if err := p.Zoom.Encode(out); err != nil {
		return err
	}
	return p.Crop.Encode(out)
}

func (p *Params) Decode(in *wire.InputBuffer) error {
	fields := []*int32{&p.Sharpness, &p.Contrast, &p.Brightness, &p.Saturation, &p.ExposureCompensation}
	for _, f := range fields {
		v, err := wire.ReadInt32(in)
		if err != nil {
			return err
		}
		*f = v
	}
	if err := p.Zoom.Decode(in); err != nil {
		return err
	}
	return p.Crop.Decode(in)
}

// Config is supplied by the caller on Create.
type Config struct {
	Format    ImageFormat
	Width     int32
	Height    int32
	Framerate float64
}

func (c Config) Encode(out *wire.OutputBuffer) error {
	if err := wire.WriteEnum(out, c.Format); err != nil {
		return err
	}
	if err := wire.WriteInt32(out, c.Width); err != nil {
		return err
	}
	if err := wire.WriteInt32(out, c.Height); err != nil {
		return err
	}
	return wire.WriteFloat64(out, c.Framerate)
}

func (c *Config) Decode(in *wire.InputBuffer) error {
	var err error
	if c.Format, err = wire.ReadEnum[ImageFormat](in); err != nil {
		return err
	}
	if c.Width, err = wire.ReadInt32(in); err != nil {
		return err
	}
	if c.Height, err = wire.ReadInt32(in); err != nil {
		return err
	}
	if c.Framerate, err = wire.ReadFloat64(in); err != nil {
		return err
	}
	return nil
}
