package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// wl_subcompositor request opcodes.
const (
	subcompositorRequestDestroy        wire.Opcode = 0
	subcompositorRequestGetSubsurface  wire.Opcode = 1
)

// NewSubcompositorGlobal registers wl_subcompositor (max version 1).
func NewSubcompositorGlobal(reg *Registry) *Global {
	g := &Global{Name: "wl_subcompositor", Version: 1}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &subcompositorResource{})
		return nil
	}
	reg.Add(g)
	return g
}

// lookupSurfaceResource resolves a bound wl_surface object id to its
// SurfaceResource, shared wherever a request takes a wl_surface argument
// by object id rather than receiving the Resource directly.
func lookupSurfaceResource(c *Client, id wire.ObjectID) *SurfaceResource {
	sr, _ := c.Lookup(id).(*SurfaceResource)
	return sr
}

type subcompositorResource struct{}

func (r *subcompositorResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case subcompositorRequestDestroy:
		return nil
	case subcompositorRequestGetSubsurface:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		surfID, err := args.Object()
		if err != nil {
			return err
		}
		parentID, err := args.Object()
		if err != nil {
			return err
		}
		sr := lookupSurfaceResource(c, surfID)
		parent := lookupSurfaceResource(c, parentID)
		if sr == nil || parent == nil {
			return c.PostError(0, 0, "wl_subcompositor.get_subsurface: unknown surface")
		}
		if !sr.Surface.SetRole(surface.RoleSubsurface) {
			return c.PostError(0, 0, "wl_surface.role: already has a different role")
		}
		sr.Surface.Parent = parent.Surface
		parent.Surface.Stack = append(parent.Surface.Stack, sr.Surface)
		c.Register(id, &subsurfaceResource{id: id, surface: sr, parent: parent, synced: true})
		return nil
	default:
		return c.PostError(0, 0, fmt.Sprintf("wl_subcompositor: bad opcode %d", op))
	}
}

// wl_subsurface request opcodes.
const (
	subsurfaceRequestDestroy     wire.Opcode = 0
	subsurfaceRequestSetPosition wire.Opcode = 1
	subsurfaceRequestPlaceAbove  wire.Opcode = 2
	subsurfaceRequestPlaceBelow  wire.Opcode = 3
	subsurfaceRequestSetSync     wire.Opcode = 4
	subsurfaceRequestSetDesync   wire.Opcode = 5
)

type subsurfaceResource struct {
	id      wire.ObjectID
	surface *SurfaceResource
	parent  *SurfaceResource
	synced  bool
}

func (r *subsurfaceResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case subsurfaceRequestDestroy:
		r.surface.Surface.Parent.RemoveChild(r.surface.Surface)
		c.Unregister(r.id)
		return nil

	case subsurfaceRequestSetPosition:
		x, err := args.Int()
		if err != nil {
			return err
		}
		y, err := args.Int()
		if err != nil {
			return err
		}
		r.surface.Surface.Pending.Committed |= surface.FieldOffset
		r.surface.Surface.Pending.Buffer.OffsetX = x
		r.surface.Surface.Pending.Buffer.OffsetY = y
		return nil

	case subsurfaceRequestPlaceAbove, subsurfaceRequestPlaceBelow:
		refID, err := args.Object()
		if err != nil {
			return err
		}
		var ref *surface.Surface
		if res, ok := c.Lookup(refID).(*subsurfaceResource); ok {
			ref = res.surface.Surface
		} else if res, ok := c.Lookup(refID).(*SurfaceResource); ok {
			ref = res.Surface
		}
		if op == subsurfaceRequestPlaceAbove {
			r.parent.Surface.PlaceAbove(r.surface.Surface, ref)
		} else {
			r.parent.Surface.PlaceBelow(r.surface.Surface, ref)
		}
		return nil

	case subsurfaceRequestSetSync:
		r.synced = true
		return nil

	case subsurfaceRequestSetDesync:
		r.synced = false
		return nil

	default:
		return c.PostError(r.id, 0, fmt.Sprintf("wl_subsurface: bad opcode %d", op))
	}
}
