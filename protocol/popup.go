package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// xdg_positioner request opcodes.
const (
	positionerRequestDestroy                  wire.Opcode = 0
	positionerRequestSetSize                  wire.Opcode = 1
	positionerRequestSetAnchorRect            wire.Opcode = 2
	positionerRequestSetAnchor                wire.Opcode = 3
	positionerRequestSetGravity               wire.Opcode = 4
	positionerRequestSetConstraintAdjustment  wire.Opcode = 5
	positionerRequestSetOffset                wire.Opcode = 6
	positionerRequestSetReactive              wire.Opcode = 7
	positionerRequestSetParentSize            wire.Opcode = 8
	positionerRequestSetParentConfigure       wire.Opcode = 9
)

type positionerResource struct {
	id         wire.ObjectID
	positioner *surface.Positioner
}

func (r *positionerResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	p := r.positioner
	switch op {
	case positionerRequestDestroy:
		c.Unregister(r.id)
		return nil
	case positionerRequestSetSize:
		w, err := args.Int()
		if err != nil {
			return err
		}
		h, err := args.Int()
		if err != nil {
			return err
		}
		p.Width, p.Height = w, h
		return nil
	case positionerRequestSetAnchorRect:
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
		p.AnchorRect = surface.Rect{X: x, Y: y, W: w, H: h}
		return nil
	case positionerRequestSetAnchor:
		v, err := args.Uint()
		if err != nil {
			return err
		}
		p.Anchor = surface.Anchor(v)
		return nil
	case positionerRequestSetGravity:
		v, err := args.Uint()
		if err != nil {
			return err
		}
		p.Gravity = surface.Anchor(v)
		return nil
	case positionerRequestSetConstraintAdjustment:
		v, err := args.Uint()
		if err != nil {
			return err
		}
		p.Constraint = surface.ConstraintAdjustment(v)
		return nil
	case positionerRequestSetOffset:
		x, err := args.Int()
		if err != nil {
			return err
		}
		y, err := args.Int()
		if err != nil {
			return err
		}
		p.OffsetX, p.OffsetY = x, y
		return nil
	case positionerRequestSetReactive:
		p.Reactive = true
		return nil
	case positionerRequestSetParentSize:
		w, err := args.Int()
		if err != nil {
			return err
		}
		h, err := args.Int()
		if err != nil {
			return err
		}
		p.ConstraintX = surface.Rect{X: 0, W: w}
		p.ConstraintY = surface.Rect{Y: 0, H: h}
		return nil
	case positionerRequestSetParentConfigure:
		if _, err := args.Uint(); err != nil {
			return err
		}
		return nil
	default:
		return c.PostError(r.id, 0, fmt.Sprintf("xdg_positioner: bad opcode %d", op))
	}
}

// xdg_popup request opcodes.
const (
	popupRequestDestroy     wire.Opcode = 0
	popupRequestGrab        wire.Opcode = 1
	popupRequestReposition  wire.Opcode = 2
)

// xdg_popup event opcodes.
const (
	popupEventConfigure    wire.Opcode = 0
	popupEventPopupDone    wire.Opcode = 1
	popupEventRepositioned wire.Opcode = 2
)

type popupResource struct {
	id         wire.ObjectID
	xdgSurface *xdgSurfaceResource
	parent     *SurfaceResource
	positioner *surface.Positioner
}

// sendConfigure emits xdg_popup.configure (the resolved frame from the
// positioner) ahead of xdg_surface.configure.
func (p *popupResource) sendConfigure(serial uint32) {
	frame := p.positioner.Solve()
	b := wire.NewMessageBuilder()
	b.PutInt(frame.X)
	b.PutInt(frame.Y)
	b.PutInt(frame.W)
	b.PutInt(frame.H)
	p.xdgSurface.client.SendEvent(p.id, popupEventConfigure, b)
}

func (p *popupResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case popupRequestDestroy:
		c.Unregister(p.id)
		return nil
	case popupRequestGrab:
		// Explicit no-op: grab semantics belong to the scene/input-focus
		// layer (out of scope), but the request must be accepted.
		if _, err := args.Object(); err != nil {
			return err
		}
		if _, err := args.Uint(); err != nil {
			return err
		}
		return nil
	case popupRequestReposition:
		positionerID, err := args.Object()
		if err != nil {
			return err
		}
		token, err := args.Uint()
		if err != nil {
			return err
		}
		pr, ok := c.Lookup(positionerID).(*positionerResource)
		if !ok {
			return c.PostError(p.id, 0, "xdg_popup.reposition: unknown xdg_positioner")
		}
		p.positioner = pr.positioner
		p.xdgSurface.surface.Surface.Pending.Committed |= surface.FieldPopupPositioner
		p.xdgSurface.surface.Surface.Pending.Popup.Positioner = pr.positioner
		b := wire.NewMessageBuilder()
		b.PutUint(token)
		c.SendEvent(p.id, popupEventRepositioned, b)
		return nil
	default:
		return c.PostError(p.id, 0, fmt.Sprintf("xdg_popup: bad opcode %d", op))
	}
}

// SendPopupDone sends xdg_popup.popup_done, used when the scene layer
// dismisses a popup (e.g. a click outside its grab).
func (p *popupResource) SendPopupDone() {
	p.xdgSurface.client.SendEvent(p.id, popupEventPopupDone, wire.NewMessageBuilder())
}

func (p *popupResource) OnDestroy() {
	p.xdgSurface.onConfigure = nil
}
