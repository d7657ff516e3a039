// Package surface implements the double-buffered commit/cache/apply
// pipeline that mediates all per-surface client state: wl_surface and its
// xdg_surface/xdg_toplevel/xdg_popup/wl_subsurface role extensions.
//
// Every client request writes into a surface's pending SurfaceState;
// wl_surface.commit snapshots it, pushes a fresh pending state behind it,
// and attempts to flush the cache toward current, gated on parent-commit
// dependencies (subsurface sync) and buffer readiness.
package surface

import (
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/wire"
)

// Role is a surface's Wayland role. Once assigned to anything other than
// RoleNone it is immutable for the surface's lifetime.
type Role int

const (
	RoleNone Role = iota
	RoleCursor
	RoleDragIcon
	RoleSubsurface
	RoleXdgToplevel
	RoleXdgPopup
)

// Field is a bitset identifying which parts of a SurfaceState a given
// commit touched. current.Committed accumulates as a union across every
// apply, distinguishing "never set" from "explicitly cleared".
type Field uint32

const (
	FieldBuffer Field = 1 << iota
	FieldOffset
	FieldDamage
	FieldOpaqueRegion
	FieldInputRegion
	FieldFrameCallback
	FieldXdgGeometry
	FieldXdgAck
	FieldToplevelState
	FieldPopupPositioner
	FieldSubsurfacePlacement
	FieldExplicitSync
)

// Rect is an integer-valued rectangle in surface-local or parent-local
// coordinates depending on context.
type Rect struct {
	X, Y, W, H int32
}

// FrameCallback is fired once the state it was attached to has presented.
type FrameCallback struct {
	Resource wire.ObjectID
	Done     func(timeMs uint32)
}

// BufferFields holds the committed state of a surface's attached buffer.
type BufferFields struct {
	Handle   Buffer
	Lock     *BufferLock
	OffsetX  int32
	OffsetY  int32
	Detached bool
}

// XdgFields holds xdg_surface-level committed state.
type XdgFields struct {
	Geometry    Rect
	GeometrySet bool
	AckSerial   uint32
}

// ToplevelFields holds xdg_toplevel-level committed state.
type ToplevelFields struct {
	MinWidth, MinHeight int32
	MaxWidth, MaxHeight int32
	Activated           bool
}

// PopupFields holds xdg_popup-level committed state.
type PopupFields struct {
	Positioner *Positioner
}

// ExplicitSyncFields holds wp_linux_drm_syncobj_surface_v1's staged
// acquire/release timeline points for the buffer this commit attaches.
// flush does not consult these points: readiness always comes from
// Buffer.Handle's own IsReady, whether or not AcquireTimeline is set.
type ExplicitSyncFields struct {
	AcquireTimeline *gpucore.Semaphore
	AcquirePoint    uint64
	ReleaseTimeline *gpucore.Semaphore
	ReleasePoint    uint64
}

// SubsurfacePlacement stages one place_above/place_below request on the
// parent surface's pending state, applied to Parent.Stack at commit time.
type SubsurfacePlacement struct {
	Child *Surface
	Ref   *Surface // nil means "top" (Above) or "bottom" (!Above)
	Above bool
}

// SurfaceState is a single pending-or-historical snapshot in a surface's
// cached queue. The tail element of Surface.Cached is always the live
// pending state that client requests accumulate into.
type SurfaceState struct {
	Commit    uint64
	Committed Field

	// ParentCommit, when non-nil, gates this state's flush until the
	// parent surface's Current.Commit has reached this value
	// (synchronized subsurface semantics).
	ParentCommit *uint64

	Buffer               BufferFields
	FrameCallbacks       []FrameCallback
	Xdg                  XdgFields
	Toplevel             ToplevelFields
	Popup                PopupFields
	SubsurfacePlacements []SubsurfacePlacement
	ExplicitSync         ExplicitSyncFields
}

// Surface is the fundamental presentable entity: the server-side state
// backing a single wl_surface object and whichever role it has acquired.
type Surface struct {
	ID   wire.ObjectID
	Role Role

	LastCommitID uint64
	Pending      *SurfaceState
	Cached       []*SurfaceState
	Current      *SurfaceState

	Mapped      bool
	SentSerial  uint32
	AckedSerial uint32

	Parent *Surface
	Stack  []*Surface // child subsurfaces, back-to-front z-order

	// OnConfigure, when set, is invoked by role-apply logic to send an
	// xdg_surface.configure (and any role-specific configure events)
	// with a fresh serial. Wired by protocol/shell.go.
	OnConfigure func(s *Surface) (serial uint32)

	// OnProtocolError, when set, is invoked on an invariant violation
	// that must disconnect the client (spec §4.2 Failure semantics).
	OnProtocolError func(s *Surface, code uint32, message string)
}

// New creates a surface with an empty pending state and no role.
func New(id wire.ObjectID) *Surface {
	initial := &SurfaceState{}
	return &Surface{
		ID:      id,
		Cached:  []*SurfaceState{initial},
		Pending: initial,
		Current: &SurfaceState{},
	}
}

// SetRole assigns a role. Returns false if the surface already has a
// different, non-none role — callers should post wl_surface.role error.
func (s *Surface) SetRole(r Role) bool {
	if s.Role != RoleNone && s.Role != r {
		return false
	}
	s.Role = r
	return true
}

func (s *Surface) protocolError(code uint32, message string) {
	if s.OnProtocolError != nil {
		s.OnProtocolError(s, code, message)
	}
}
