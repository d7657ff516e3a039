package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/wire"
)

// zxdg_decoration_manager_v1 request opcodes.
const (
	decorationManagerRequestDestroy             wire.Opcode = 0
	decorationManagerRequestGetToplevelDecoration wire.Opcode = 1
)

// zxdg_toplevel_decoration_v1 request opcodes.
const (
	decorationRequestDestroy   wire.Opcode = 0
	decorationRequestSetMode   wire.Opcode = 1
	decorationRequestUnsetMode wire.Opcode = 2
)

// zxdg_toplevel_decoration_v1 event opcode.
const decorationEventConfigure wire.Opcode = 0

// zxdg_toplevel_decoration_v1.mode enum values.
const (
	decorationModeClientSide uint32 = 1
	decorationModeServerSide uint32 = 2
)

// zxdg_toplevel_decoration_v1 error codes.
const decorationErrorUnconfiguredBuffer uint32 = 0

// NewDecorationManagerGlobal registers zxdg_decoration_manager_v1 (max
// version 1). This core draws its own server-side window chrome (the
// scene layer, out of scope — SPEC_FULL §1 Non-goals), so every toplevel
// is told server_side regardless of what the client requests; the
// negotiation exists only so clients that insist on drawing their own
// decorations learn they won't get to.
func NewDecorationManagerGlobal(reg *Registry) *Global {
	g := &Global{Name: "zxdg_decoration_manager_v1", Version: 1}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &decorationManagerResource{id: id})
		return nil
	}
	reg.Add(g)
	return g
}

type decorationManagerResource struct {
	id wire.ObjectID
}

func (r *decorationManagerResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case decorationManagerRequestDestroy:
		c.Unregister(r.id)
		return nil
	case decorationManagerRequestGetToplevelDecoration:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		toplevelID, err := args.Object()
		if err != nil {
			return err
		}
		tl, ok := c.Lookup(toplevelID).(*toplevelResource)
		if !ok {
			return c.PostError(r.id, 0, "zxdg_decoration_manager_v1.get_toplevel_decoration: unknown xdg_toplevel")
		}
		if tl.decoration != nil {
			return c.PostError(r.id, 0, "zxdg_decoration_manager_v1.get_toplevel_decoration: toplevel already has a decoration object")
		}
		dec := &decorationResource{id: id, toplevel: tl}
		tl.decoration = dec
		c.Register(id, dec)
		dec.sendConfigure(c)
		return nil
	default:
		return c.PostError(r.id, 0, fmt.Sprintf("zxdg_decoration_manager_v1: bad opcode %d", op))
	}
}

type decorationResource struct {
	id       wire.ObjectID
	toplevel *toplevelResource
}

// sendConfigure announces the fixed server_side mode. A real compositor
// that let clients draw their own chrome would re-send this whenever the
// negotiated mode changes; this one never changes it, so it sends once on
// bind and again (harmlessly) on every set_mode/unset_mode.
func (d *decorationResource) sendConfigure(c *Client) {
	b := wire.NewMessageBuilder()
	b.PutUint(decorationModeServerSide)
	c.SendEvent(d.id, decorationEventConfigure, b)
}

func (d *decorationResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case decorationRequestDestroy:
		c.Unregister(d.id)
		return nil
	case decorationRequestSetMode:
		if _, err := args.Uint(); err != nil {
			return err
		}
		d.sendConfigure(c)
		return nil
	case decorationRequestUnsetMode:
		d.sendConfigure(c)
		return nil
	default:
		return c.PostError(d.id, 0, fmt.Sprintf("zxdg_toplevel_decoration_v1: bad opcode %d", op))
	}
}

func (d *decorationResource) OnDestroy() {
	if d.toplevel != nil {
		d.toplevel.decoration = nil
	}
}
