package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// xdg_wm_base request opcodes.
const (
	wmBaseRequestDestroy          wire.Opcode = 0
	wmBaseRequestCreatePositioner wire.Opcode = 1
	wmBaseRequestGetXdgSurface    wire.Opcode = 2
	wmBaseRequestPong             wire.Opcode = 3
)

// xdg_wm_base event opcode.
const wmBaseEventPing wire.Opcode = 0

// NewShellGlobal registers xdg_wm_base (max version 7).
func NewShellGlobal(reg *Registry) *Global {
	g := &Global{Name: "xdg_wm_base", Version: 7}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &wmBaseResource{id: id})
		return nil
	}
	reg.Add(g)
	return g
}

type wmBaseResource struct {
	id wire.ObjectID
}

func (r *wmBaseResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case wmBaseRequestDestroy:
		return nil
	case wmBaseRequestCreatePositioner:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &positionerResource{id: id, positioner: &surface.Positioner{}})
		return nil
	case wmBaseRequestGetXdgSurface:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		surfID, err := args.Object()
		if err != nil {
			return err
		}
		sr := lookupSurfaceResource(c, surfID)
		if sr == nil {
			return c.PostError(r.id, 0, "xdg_wm_base.get_xdg_surface: unknown wl_surface")
		}
		xs := &xdgSurfaceResource{id: id, surface: sr}
		sr.Surface.OnConfigure = xs.sendConfigure
		c.Register(id, xs)
		return nil
	case wmBaseRequestPong:
		if _, err := args.Uint(); err != nil {
			return err
		}
		return nil
	default:
		return c.PostError(r.id, 0, fmt.Sprintf("xdg_wm_base: bad opcode %d", op))
	}
}

// xdg_surface request opcodes.
const (
	xdgSurfaceRequestDestroy            wire.Opcode = 0
	xdgSurfaceRequestGetToplevel        wire.Opcode = 1
	xdgSurfaceRequestGetPopup           wire.Opcode = 2
	xdgSurfaceRequestSetWindowGeometry  wire.Opcode = 3
	xdgSurfaceRequestAckConfigure       wire.Opcode = 4
)

// xdg_surface event opcode.
const xdgSurfaceEventConfigure wire.Opcode = 0

type xdgSurfaceResource struct {
	id      wire.ObjectID
	surface *SurfaceResource
	client  *Client

	// onConfigure, set by get_toplevel/get_popup, sends the role-specific
	// configure event that must precede xdg_surface.configure.
	onConfigure func(serial uint32)
}

// sendConfigure is wired as surface.Surface.OnConfigure: it sends
// xdg_surface.configure and, if a role-specific resource is attached,
// that role's own configure event first (xdg_toplevel.configure or
// xdg_popup.configure), matching the handshake order real clients expect.
func (xs *xdgSurfaceResource) sendConfigure(s *surface.Surface) uint32 {
	serial := xs.client.NextSerial()
	if xs.onConfigure != nil {
		xs.onConfigure(serial)
	}
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	xs.client.SendEvent(xs.id, xdgSurfaceEventConfigure, b)
	return serial
}

func (xs *xdgSurfaceResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	xs.client = c
	switch op {
	case xdgSurfaceRequestDestroy:
		c.Unregister(xs.id)
		return nil
	case xdgSurfaceRequestGetToplevel:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		if !xs.surface.Surface.SetRole(surface.RoleXdgToplevel) {
			return c.PostError(xs.id, 0, "xdg_surface.get_toplevel: surface already has a role")
		}
		tl := &toplevelResource{id: id, xdgSurface: xs}
		xs.onConfigure = tl.sendConfigure
		c.Register(id, tl)
		return nil
	case xdgSurfaceRequestGetPopup:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		parentID, err := args.Object()
		if err != nil {
			return err
		}
		positionerID, err := args.Object()
		if err != nil {
			return err
		}
		pr, ok := c.Lookup(positionerID).(*positionerResource)
		if !ok {
			return c.PostError(xs.id, 0, "xdg_surface.get_popup: unknown xdg_positioner")
		}
		if !xs.surface.Surface.SetRole(surface.RoleXdgPopup) {
			return c.PostError(xs.id, 0, "xdg_surface.get_popup: surface already has a role")
		}
		var parent *SurfaceResource
		if parentID != 0 {
			parent = lookupSurfaceResource(c, parentID)
		}
		pop := &popupResource{id: id, xdgSurface: xs, parent: parent, positioner: pr.positioner}
		xs.onConfigure = pop.sendConfigure
		xs.surface.Surface.Pending.Committed |= surface.FieldPopupPositioner
		xs.surface.Surface.Pending.Popup.Positioner = pr.positioner
		c.Register(id, pop)
		return nil
	case xdgSurfaceRequestSetWindowGeometry:
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
		xs.surface.Surface.Pending.Committed |= surface.FieldXdgGeometry
		xs.surface.Surface.Pending.Xdg.Geometry = surface.Rect{X: x, Y: y, W: w, H: h}
		xs.surface.Surface.Pending.Xdg.GeometrySet = true
		return nil
	case xdgSurfaceRequestAckConfigure:
		serial, err := args.Uint()
		if err != nil {
			return err
		}
		xs.surface.Surface.AckConfigure(serial)
		return nil
	default:
		return c.PostError(xs.id, 0, fmt.Sprintf("xdg_surface: bad opcode %d", op))
	}
}

// xdg_toplevel request opcodes.
const (
	toplevelRequestDestroy         wire.Opcode = 0
	toplevelRequestSetParent       wire.Opcode = 1
	toplevelRequestSetTitle        wire.Opcode = 2
	toplevelRequestSetAppID        wire.Opcode = 3
	toplevelRequestShowWindowMenu  wire.Opcode = 4
	toplevelRequestMove            wire.Opcode = 5
	toplevelRequestResize          wire.Opcode = 6
	toplevelRequestSetMaxSize      wire.Opcode = 7
	toplevelRequestSetMinSize      wire.Opcode = 8
	toplevelRequestSetMaximized    wire.Opcode = 9
	toplevelRequestUnsetMaximized  wire.Opcode = 10
	toplevelRequestSetFullscreen   wire.Opcode = 11
	toplevelRequestUnsetFullscreen wire.Opcode = 12
	toplevelRequestSetMinimized    wire.Opcode = 13
)

// xdg_toplevel event opcodes.
const (
	toplevelEventConfigure      wire.Opcode = 0
	toplevelEventClose          wire.Opcode = 1
	toplevelEventConfigureBounds wire.Opcode = 2
	toplevelEventWMCapabilities wire.Opcode = 3
)

// xdg_toplevel.state enum values used in the configure states array.
const (
	toplevelStateActivated uint32 = 4
)

// xdg_toplevel.wm_capabilities enum values used in the wm_capabilities
// event's array.
const (
	toplevelWMCapabilityWindowMenu uint32 = 1
	toplevelWMCapabilityMaximize   uint32 = 2
	toplevelWMCapabilityFullscreen uint32 = 3
	toplevelWMCapabilityMinimize   uint32 = 4
)

type toplevelResource struct {
	id         wire.ObjectID
	xdgSurface *xdgSurfaceResource
	title      string
	appID      string

	// decoration, when non-nil, is the zxdg_toplevel_decoration_v1 bound
	// to this toplevel (protocol/decoration.go). Tracked here so a second
	// get_toplevel_decoration can be rejected per-protocol.
	decoration *decorationResource

	// wmCapabilitiesSent tracks whether the one-time wm_capabilities
	// event has already gone out ahead of the first configure.
	wmCapabilitiesSent bool
}

// sendWMCapabilities emits xdg_toplevel.wm_capabilities once, before the
// first xdg_toplevel.configure, advertising fullscreen support so the
// client knows set_fullscreen is meaningful to request.
func (tl *toplevelResource) sendWMCapabilities() {
	if tl.wmCapabilitiesSent {
		return
	}
	tl.wmCapabilitiesSent = true

	var w [4]byte
	binary.LittleEndian.PutUint32(w[:], toplevelWMCapabilityFullscreen)

	b := wire.NewMessageBuilder()
	b.PutArray(w[:])
	tl.xdgSurface.client.SendEvent(tl.id, toplevelEventWMCapabilities, b)
}

// sendConfigure emits xdg_toplevel.configure ahead of xdg_surface.configure.
// Width/height 0,0 lets the client choose its own size, matching the
// common "not yet constrained by the scene layer" initial handshake.
func (tl *toplevelResource) sendConfigure(serial uint32) {
	tl.sendWMCapabilities()

	s := tl.xdgSurface.surface.Surface
	b := wire.NewMessageBuilder()
	b.PutInt(0)
	b.PutInt(0)
	var states []byte
	if s.Current.Toplevel.Activated {
		var w [4]byte
		binary.LittleEndian.PutUint32(w[:], toplevelStateActivated)
		states = append(states, w[:]...)
	}
	b.PutArray(states)
	tl.xdgSurface.client.SendEvent(tl.id, toplevelEventConfigure, b)
}

func (tl *toplevelResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	s := tl.xdgSurface.surface.Surface
	switch op {
	case toplevelRequestDestroy:
		c.Unregister(tl.id)
		return nil
	case toplevelRequestSetTitle:
		title, err := args.StringArg()
		if err != nil {
			return err
		}
		tl.title = title
		return nil
	case toplevelRequestSetAppID:
		appID, err := args.StringArg()
		if err != nil {
			return err
		}
		tl.appID = appID
		return nil
	case toplevelRequestSetMinSize:
		w, err := args.Int()
		if err != nil {
			return err
		}
		h, err := args.Int()
		if err != nil {
			return err
		}
		s.Pending.Committed |= surface.FieldToplevelState
		s.Pending.Toplevel = s.Current.Toplevel
		s.Pending.Toplevel.MinWidth, s.Pending.Toplevel.MinHeight = w, h
		return nil
	case toplevelRequestSetMaxSize:
		w, err := args.Int()
		if err != nil {
			return err
		}
		h, err := args.Int()
		if err != nil {
			return err
		}
		s.Pending.Committed |= surface.FieldToplevelState
		s.Pending.Toplevel = s.Current.Toplevel
		s.Pending.Toplevel.MaxWidth, s.Pending.Toplevel.MaxHeight = w, h
		return nil
	case toplevelRequestSetParent, toplevelRequestShowWindowMenu, toplevelRequestMove,
		toplevelRequestResize, toplevelRequestSetMaximized, toplevelRequestUnsetMaximized,
		toplevelRequestSetFullscreen, toplevelRequestUnsetFullscreen, toplevelRequestSetMinimized:
		// Explicit no-ops: the scene layer (out of scope) does not yet act
		// on these, but a complete implementation must accept them without
		// a protocol error (SPEC_FULL §10).
		drainRemainingArgs(op, args)
		return nil
	default:
		return c.PostError(tl.id, 0, fmt.Sprintf("xdg_toplevel: bad opcode %d", op))
	}
}

// drainRemainingArgs is a no-op placeholder: stub request handlers accept
// whatever arguments the client sent without decoding them, since this
// core has no per-opcode argument count table to consult generically.
func drainRemainingArgs(op wire.Opcode, args *wire.Decoder) {}

func (tl *toplevelResource) OnDestroy() {
	tl.xdgSurface.onConfigure = nil
}
