package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/wire"
)

// wl_output event opcodes.
const (
	outputEventGeometry wire.Opcode = 0
	outputEventMode     wire.Opcode = 1
	outputEventDone     wire.Opcode = 2
	outputEventScale    wire.Opcode = 3
	outputEventName     wire.Opcode = 4
	outputEventDesc     wire.Opcode = 5
)

// wl_output.mode flag bits.
const (
	outputModeCurrent   uint32 = 1 << 0
	outputModePreferred uint32 = 1 << 1
)

// wl_output.subpixel / transform enums; only the values SPEC_FULL §6
// requires are named.
const (
	outputSubpixelHorizontalRGB int32 = 1
	outputTransformNormal       int32 = 0
)

// OutputInfo describes the metadata advertised for one wl_output global.
// Name/physical size are hardcoded placeholders per SPEC_FULL §9 Design
// Notes (no EDID/connector-probing collaborator exists at this layer);
// Width/Height/RefreshMilliHz describe the single current+preferred mode.
type OutputInfo struct {
	Name          string
	Width, Height int32
	RefreshMilliHz int32
	Scale         int32
}

// NewOutputGlobal registers one wl_output (max version 4) advertising
// info. Called once per backend-created output (backend/{wayland,direct}).
func NewOutputGlobal(reg *Registry, info OutputInfo) *Global {
	g := &Global{Name: "wl_output", Version: 4}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &outputResource{info: info})
		sendOutputState(c, id, version, info)
		return nil
	}
	reg.Add(g)
	return g
}

func sendOutputState(c *Client, id wire.ObjectID, version uint32, info OutputInfo) {
	geom := wire.NewMessageBuilder()
	geom.PutInt(0)
	geom.PutInt(0)
	geom.PutInt(0) // physical width mm: placeholder, unknown at this layer
	geom.PutInt(0) // physical height mm
	geom.PutInt(outputSubpixelHorizontalRGB)
	geom.PutString("unknown")
	geom.PutString(info.Name)
	geom.PutInt(outputTransformNormal)
	c.SendEvent(id, outputEventGeometry, geom)

	mode := wire.NewMessageBuilder()
	mode.PutUint(outputModeCurrent | outputModePreferred)
	mode.PutInt(info.Width)
	mode.PutInt(info.Height)
	mode.PutInt(info.RefreshMilliHz)
	c.SendEvent(id, outputEventMode, mode)

	if version >= 2 {
		scale := wire.NewMessageBuilder()
		scale.PutInt(info.Scale)
		c.SendEvent(id, outputEventScale, scale)
	}
	if version >= 4 {
		name := wire.NewMessageBuilder()
		name.PutString(info.Name)
		c.SendEvent(id, outputEventName, name)

		desc := wire.NewMessageBuilder()
		desc.PutString(fmt.Sprintf("%s (wroc)", info.Name))
		c.SendEvent(id, outputEventDesc, desc)
	}

	done := wire.NewMessageBuilder()
	c.SendEvent(id, outputEventDone, done)
}

const outputRequestRelease wire.Opcode = 0 // version >= 3

type outputResource struct {
	info OutputInfo
}

func (r *outputResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != outputRequestRelease {
		return c.PostError(0, 0, fmt.Sprintf("wl_output: bad opcode %d", op))
	}
	return nil
}
