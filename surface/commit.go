package surface

import (
	"fmt"

	"github.com/gogpu/wroc/internal/obslog"
)

// Commit snapshots the pending state: assigns it a commit id, locks any
// newly-attached buffer, pushes a fresh empty pending state behind it,
// and attempts to flush the cache toward current.
func (s *Surface) Commit() error {
	s.Pending.Commit = s.LastCommitID + 1
	s.LastCommitID = s.Pending.Commit

	if s.Pending.Committed&FieldBuffer != 0 && s.Pending.Buffer.Handle != nil && !s.Pending.Buffer.Detached {
		lock, err := s.Pending.Buffer.Handle.CommitLock(s)
		if err != nil {
			return fmt.Errorf("surface: commit buffer lock: %w", err)
		}
		s.Pending.Buffer.Lock = lock
	}

	fresh := &SurfaceState{}
	s.Cached = append(s.Cached, fresh)
	s.Pending = fresh

	s.flush()
	return nil
}

// flush advances the cache toward current: while more than the live
// pending state remains, it checks the front packet's parent-commit
// dependency and buffer readiness, applies it if both are satisfied, and
// stops (without popping) the moment either gate fails.
func (s *Surface) flush() {
	for len(s.Cached) > 1 {
		front := s.Cached[0]

		if front.ParentCommit != nil {
			if s.Parent == nil || s.Parent.Current.Commit < *front.ParentCommit {
				return
			}
		}

		if front.Committed&FieldBuffer != 0 && front.Buffer.Lock != nil {
			ready, err := front.Buffer.Lock.buffer.IsReady(s)
			if err != nil {
				s.protocolError(0, fmt.Sprintf("buffer not ready: %v", err))
				return
			}
			if !ready {
				return
			}
		}

		s.apply(front)
		s.Cached = s.Cached[1:]

		for _, child := range s.Stack {
			child.flush()
		}
	}
}

// apply moves a committed packet's fields into Current in the fixed
// order: buffer, then xdg-surface geometry/ack, then role-specific apply,
// then subsurface stacking. Current.Committed accumulates as the union of
// every field ever committed, across all applies.
func (s *Surface) apply(state *SurfaceState) {
	if state.Committed&FieldBuffer != 0 {
		if state.Buffer.Lock != s.Current.Buffer.Lock && s.Current.Buffer.Lock != nil {
			s.Current.Buffer.Lock.Release()
		}
		s.Current.Buffer = state.Buffer
	}

	if state.Committed&(FieldXdgGeometry|FieldXdgAck) != 0 {
		if state.Committed&FieldXdgGeometry != 0 {
			s.Current.Xdg.Geometry = state.Xdg.Geometry
			s.Current.Xdg.GeometrySet = true
		}
		if state.Committed&FieldXdgAck != 0 {
			s.Current.Xdg.AckSerial = state.Xdg.AckSerial
		}
	}

	s.Mapped = s.Current.Buffer.Handle != nil && s.Current.Buffer.Lock != nil

	if !s.Current.Xdg.GeometrySet && s.Mapped {
		w, h := s.Current.Buffer.Handle.Extent()
		s.Current.Xdg.Geometry = Rect{X: 0, Y: 0, W: w, H: h}
	}

	switch s.Role {
	case RoleXdgToplevel:
		s.applyToplevel(state)
	case RoleXdgPopup:
		s.applyPopup(state)
	}

	if state.Committed&FieldSubsurfacePlacement != 0 {
		s.applySubsurfacePlacements(state.SubsurfacePlacements)
	}

	s.Current.Commit = state.Commit
	s.Current.Committed |= state.Committed
	s.Current.FrameCallbacks = append(s.Current.FrameCallbacks, state.FrameCallbacks...)
}

// applyToplevel implements the xdg_toplevel role-apply algorithm: when
// mapped, it re-sends configure if the last sent serial has not been
// acked; when unmapped (first commit), it sends the initial configure
// handshake. No window frame is derived here.
func (s *Surface) applyToplevel(state *SurfaceState) {
	if state.Committed&FieldToplevelState != 0 {
		s.Current.Toplevel = state.Toplevel
	}

	if s.Mapped {
		if s.SentSerial != s.AckedSerial && s.OnConfigure != nil {
			s.SentSerial = s.OnConfigure(s)
		}
		return
	}

	if s.OnConfigure != nil {
		s.SentSerial = s.OnConfigure(s)
	}
}

// applyPopup implements the xdg_popup role-apply algorithm: positioner
// rules are applied at commit time to derive the popup's frame relative
// to its parent.
func (s *Surface) applyPopup(state *SurfaceState) {
	if state.Committed&FieldPopupPositioner != 0 {
		s.Current.Popup = state.Popup
	}
	if s.Current.Popup.Positioner == nil {
		return
	}
	frame := s.Current.Popup.Positioner.Solve()
	s.Current.Xdg.Geometry = frame
	s.Current.Xdg.GeometrySet = true
}

// applySubsurfacePlacements re-orders Stack according to staged
// place_above/place_below requests, applied in the order they were
// requested.
func (s *Surface) applySubsurfacePlacements(placements []SubsurfacePlacement) {
	for _, p := range placements {
		s.removeFromStack(p.Child)
		if p.Ref == nil {
			if p.Above {
				s.Stack = append(s.Stack, p.Child)
			} else {
				s.Stack = append([]*Surface{p.Child}, s.Stack...)
			}
			continue
		}
		idx := s.indexInStack(p.Ref)
		if idx < 0 {
			s.Stack = append(s.Stack, p.Child)
			continue
		}
		if p.Above {
			idx++
		}
		s.Stack = append(s.Stack[:idx], append([]*Surface{p.Child}, s.Stack[idx:]...)...)
	}
}

func (s *Surface) indexInStack(target *Surface) int {
	for i, c := range s.Stack {
		if c == target {
			return i
		}
	}
	return -1
}

// RemoveChild removes target from Stack, used when a subsurface is
// destroyed out from under its parent.
func (s *Surface) RemoveChild(target *Surface) {
	s.removeFromStack(target)
}

func (s *Surface) removeFromStack(target *Surface) {
	idx := s.indexInStack(target)
	if idx < 0 {
		return
	}
	s.Stack = append(s.Stack[:idx], s.Stack[idx+1:]...)
}

// PlaceAbove stages a place_above request: child will be moved directly
// above ref (or to the top, if ref is nil) in Stack ordering the next
// time this surface's pending state commits.
func (s *Surface) PlaceAbove(child, ref *Surface) {
	s.Pending.Committed |= FieldSubsurfacePlacement
	s.Pending.SubsurfacePlacements = append(s.Pending.SubsurfacePlacements, SubsurfacePlacement{
		Child: child, Ref: ref, Above: true,
	})
}

// PlaceBelow stages a place_below request, symmetric to PlaceAbove.
func (s *Surface) PlaceBelow(child, ref *Surface) {
	s.Pending.Committed |= FieldSubsurfacePlacement
	s.Pending.SubsurfacePlacements = append(s.Pending.SubsurfacePlacements, SubsurfacePlacement{
		Child: child, Ref: ref, Above: false,
	})
}

// FireFrameCallbacks dispatches and clears every frame callback recorded
// on Current (spec §4.3: frame callbacks fire once presentation of the
// frame they were attached to has completed, not at commit time).
func (s *Surface) FireFrameCallbacks(timeMs uint32) {
	cbs := s.Current.FrameCallbacks
	s.Current.FrameCallbacks = nil
	for _, cb := range cbs {
		if cb.Done != nil {
			cb.Done(timeMs)
		}
	}
}

// ErrInvalidSerial is the xdg_surface.invalid_serial protocol error: the
// client acked a serial greater than the most recently sent one. An ack
// below the last-acked serial is stale and ignored, not this error.
const ErrInvalidSerial = "xdg_surface.invalid_serial"

// AckConfigure validates and records an xdg_surface.ack_configure
// request. A stale ack (below the last acked serial) is logged and
// ignored, not an error; an ack above the most recently sent serial is a
// protocol violation.
func (s *Surface) AckConfigure(serial uint32) {
	if serial > s.SentSerial {
		s.protocolError(0, ErrInvalidSerial)
		return
	}
	if serial < s.AckedSerial {
		obslog.Get().Debug("stale xdg_surface.ack_configure ignored", "serial", serial, "acked", s.AckedSerial)
		return
	}
	s.AckedSerial = serial
	s.Pending.Committed |= FieldXdgAck
	s.Pending.Xdg.AckSerial = serial
}
