package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// wl_compositor request opcodes.
const (
	compositorRequestCreateSurface wire.Opcode = 0
	compositorRequestCreateRegion  wire.Opcode = 1
)

// NewCompositorGlobal registers wl_compositor (max version 6). onSurface,
// if non-nil, fires for every newly created surface so the server can
// index it for output/scene wiring.
func NewCompositorGlobal(reg *Registry, onSurface func(c *Client, s *SurfaceResource)) *Global {
	g := &Global{Version: 6}
	g.Name = "wl_compositor"
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &compositorResource{onSurface: onSurface})
		return nil
	}
	reg.Add(g)
	return g
}

type compositorResource struct {
	onSurface func(c *Client, s *SurfaceResource)
}

func (r *compositorResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case compositorRequestCreateSurface:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		sr := newSurfaceResource(c, id)
		c.Register(id, sr)
		if r.onSurface != nil {
			r.onSurface(c, sr)
		}
		return nil
	case compositorRequestCreateRegion:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &regionResource{id: id})
		return nil
	default:
		return c.PostError(0, 0, fmt.Sprintf("wl_compositor: bad opcode %d", op))
	}
}

// wl_region request opcodes.
const (
	regionRequestDestroy  wire.Opcode = 0
	regionRequestAdd      wire.Opcode = 1
	regionRequestSubtract wire.Opcode = 2
)

// regionResource accumulates add/subtract rectangles. Rects() returns only
// the added rectangles; subtracted ones are recorded but not applied, so
// the result is not the net region. This core does not itself compute
// hit-test or opaque-region optimizations (see scene package boundary,
// SPEC_FULL §1 Non-goals).
type regionResource struct {
	id    wire.ObjectID
	rects []regionOp
}

type regionOp struct {
	rect surface.Rect
	add  bool
}

func (r *regionResource) Rects() []surface.Rect {
	var out []surface.Rect
	for _, op := range r.rects {
		if op.add {
			out = append(out, op.rect)
		}
	}
	return out
}

func (r *regionResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case regionRequestDestroy:
		c.Unregister(r.id)
		return nil
	case regionRequestAdd, regionRequestSubtract:
		x, err := args.Int()
		if err != nil {
			return err
		}
		y, err := args.Int()
		if err != nil {
			return err
		}
		w, err := args.Int()
		if err != nil {
			return err
		}
		h, err := args.Int()
		if err != nil {
			return err
		}
		r.rects = append(r.rects, regionOp{rect: surface.Rect{X: x, Y: y, W: w, H: h}, add: op == regionRequestAdd})
		return nil
	default:
		return c.PostError(0, 0, fmt.Sprintf("wl_region: bad opcode %d", op))
	}
}

// wl_surface event opcodes.
const (
	surfaceEventEnter                     wire.Opcode = 0
	surfaceEventLeave                     wire.Opcode = 1
	surfaceEventPreferredBufferScale      wire.Opcode = 2
	surfaceEventPreferredBufferTransform  wire.Opcode = 3
)

// wl_surface request opcodes.
const (
	surfaceRequestDestroy           wire.Opcode = 0
	surfaceRequestAttach            wire.Opcode = 1
	surfaceRequestDamage            wire.Opcode = 2
	surfaceRequestFrame             wire.Opcode = 3
	surfaceRequestSetOpaqueRegion   wire.Opcode = 4
	surfaceRequestSetInputRegion    wire.Opcode = 5
	surfaceRequestCommit            wire.Opcode = 6
	surfaceRequestSetBufferTransform wire.Opcode = 7
	surfaceRequestSetBufferScale    wire.Opcode = 8
	surfaceRequestDamageBuffer      wire.Opcode = 9
	surfaceRequestOffset            wire.Opcode = 10
)

// SurfaceResource is the protocol-facing wrapper around a surface.Surface:
// it owns the object id and translates wire requests into surface package
// calls, and is what protocol/shell.go and protocol/popup.go hold a
// pointer to when adding role-specific requests.
type SurfaceResource struct {
	ID      wire.ObjectID
	Surface *surface.Surface
	client  *Client

	// syncobjSurface, when non-nil, is the wp_linux_drm_syncobj_surface_v1
	// bound to this surface (protocol/syncobj.go). Tracked here so a
	// second get_surface can be rejected per-protocol.
	syncobjSurface *syncobjSurfaceResource
}

func newSurfaceResource(c *Client, id wire.ObjectID) *SurfaceResource {
	s := surface.New(id)
	sr := &SurfaceResource{ID: id, Surface: s, client: c}
	s.OnProtocolError = func(s *surface.Surface, code uint32, message string) {
		c.PostError(id, code, message)
	}
	return sr
}

func (sr *SurfaceResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case surfaceRequestDestroy:
		c.Unregister(sr.ID)
		return nil

	case surfaceRequestAttach:
		bufID, err := args.Object()
		if err != nil {
			return err
		}
		offX, err := args.Int()
		if err != nil {
			return err
		}
		offY, err := args.Int()
		if err != nil {
			return err
		}
		var buf surface.Buffer
		if bufID != 0 {
			res := c.Lookup(bufID)
			br, ok := res.(*bufferResource)
			if !ok {
				return c.PostError(sr.ID, 0, "wl_surface.attach: object is not wl_buffer")
			}
			buf = br.buffer
		}
		sr.Surface.Pending.Committed |= surface.FieldBuffer
		sr.Surface.Pending.Buffer.Handle = buf
		sr.Surface.Pending.Buffer.Detached = buf == nil
		sr.Surface.Pending.Buffer.OffsetX = offX
		sr.Surface.Pending.Buffer.OffsetY = offY
		return nil

	case surfaceRequestDamage, surfaceRequestDamageBuffer:
		for i := 0; i < 4; i++ {
			if _, err := args.Int(); err != nil {
				return err
			}
		}
		sr.Surface.Pending.Committed |= surface.FieldDamage
		return nil

	case surfaceRequestFrame:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &callbackResource{})
		sr.Surface.Pending.Committed |= surface.FieldFrameCallback
		sr.Surface.Pending.FrameCallbacks = append(sr.Surface.Pending.FrameCallbacks, surface.FrameCallback{
			Resource: id,
			Done: func(timeMs uint32) {
				b := wire.NewMessageBuilder()
				b.PutUint(timeMs)
				c.SendEvent(id, callbackEventDone, b)
				c.Unregister(id)
			},
		})
		return nil

	case surfaceRequestSetOpaqueRegion, surfaceRequestSetInputRegion:
		if _, err := args.Object(); err != nil {
			return err
		}
		sr.Surface.Pending.Committed |= surface.FieldOpaqueRegion
		return nil

	case surfaceRequestCommit:
		if err := sr.Surface.Commit(); err != nil {
			return c.PostError(sr.ID, 0, err.Error())
		}
		return nil

	case surfaceRequestSetBufferTransform, surfaceRequestSetBufferScale:
		if _, err := args.Int(); err != nil {
			return err
		}
		return nil

	case surfaceRequestOffset:
		x, err := args.Int()
		if err != nil {
			return err
		}
		y, err := args.Int()
		if err != nil {
			return err
		}
		sr.Surface.Pending.Committed |= surface.FieldOffset
		sr.Surface.Pending.Buffer.OffsetX = x
		sr.Surface.Pending.Buffer.OffsetY = y
		return nil

	default:
		return c.PostError(sr.ID, 0, fmt.Sprintf("wl_surface: bad opcode %d", op))
	}
}

func (sr *SurfaceResource) OnDestroy() {
	sr.Surface.OnProtocolError = nil
}
