// Package seat implements input routing: keymap distribution and focus
// arbitration for a single wl_seat's keyboard and pointer capabilities.
// Routing decisions (which surface should receive focus) are made by the
// scene layer (out of scope, SPEC_FULL §1); Seat only performs the
// resulting enter/leave/event fan-out to bound protocol resources.
package seat

import "github.com/gogpu/wroc/wire"

// KeyboardSink is the protocol-facing side of a bound wl_keyboard,
// implemented by protocol.keyboardResource.
type KeyboardSink interface {
	SendKeymap(fd int, size uint32)
	SendEnter(serial uint32, surfaceID wire.ObjectID, pressedKeys []uint32)
	SendLeave(serial uint32, surfaceID wire.ObjectID)
	SendKey(serial, timeMs, key, state uint32)
	SendModifiers(serial, depressed, latched, locked, group uint32)
	SendRepeatInfo(rate, delayMs int32)
}

// PointerSink is the protocol-facing side of a bound wl_pointer,
// implemented by protocol.pointerResource.
type PointerSink interface {
	SendEnter(serial uint32, surfaceID wire.ObjectID, x, y wire.Fixed)
	SendLeave(serial uint32, surfaceID wire.ObjectID)
	SendMotion(timeMs uint32, x, y wire.Fixed)
	SendButton(serial, timeMs, button, state uint32)
	SendAxis(timeMs uint32, axis uint32, value wire.Fixed)
	SendFrame()
}

// wl_keyboard.key_state / wl_pointer.button_state values.
const (
	KeyStateReleased uint32 = 0
	KeyStatePressed  uint32 = 1
)

// FocusTarget is the set of a client's bound keyboard/pointer resources
// for one surface, along with the surface's own object id (sent back in
// enter/leave events).
type FocusTarget struct {
	Surface   wire.ObjectID
	Keyboards []KeyboardSink
	Pointers  []PointerSink
}

// Seat owns keyboard/pointer focus state and the keymap this compositor
// distributes to every bound wl_keyboard. One Seat exists per server
// (spec.md does not model multi-seat).
type Seat struct {
	Name string

	keymapFD   int
	keymapSize uint32

	keyboardFocus *FocusTarget
	pointerFocus  *FocusTarget
	pressedKeys   []uint32

	nextSerial func() uint32
}

// New creates a Seat around an already-written, sealed keymap memfd.
// nextSerial supplies fresh event serials (shared with the owning
// client's NextSerial, or a server-global counter for broadcast events).
func New(name string, keymapFD int, keymapSize uint32, nextSerial func() uint32) *Seat {
	return &Seat{Name: name, keymapFD: keymapFD, keymapSize: keymapSize, nextSerial: nextSerial}
}

// KeymapFD returns the sealed memfd and its exact size, for
// SendKeymap(dup(fd), size) on every newly bound wl_keyboard.
func (s *Seat) KeymapFD() (fd int, size uint32) {
	return s.keymapFD, s.keymapSize
}

// SetKeyboardFocus sends leave to every keyboard sink of the previous
// focus target, then enter (with the current pressed-keys array) to
// every sink of the new one. target may be nil to clear focus.
func (s *Seat) SetKeyboardFocus(target *FocusTarget) {
	serial := s.nextSerial()
	if s.keyboardFocus != nil {
		for _, k := range s.keyboardFocus.Keyboards {
			k.SendLeave(serial, s.keyboardFocus.Surface)
		}
	}
	s.keyboardFocus = target
	if target != nil {
		for _, k := range target.Keyboards {
			k.SendEnter(serial, target.Surface, s.pressedKeys)
		}
	}
}

// SetPointerFocus sends leave to the previous pointer focus target, then
// enter (with the converted surface-local coordinates) to the new one.
func (s *Seat) SetPointerFocus(target *FocusTarget, x, y wire.Fixed) {
	serial := s.nextSerial()
	if s.pointerFocus != nil {
		for _, p := range s.pointerFocus.Pointers {
			p.SendLeave(serial, s.pointerFocus.Surface)
		}
	}
	s.pointerFocus = target
	if target != nil {
		for _, p := range target.Pointers {
			p.SendEnter(serial, target.Surface, x, y)
		}
	}
}

// KeyEvent fans out a key press/release to the focused client's bound
// keyboards, tracking the pressed-keys array used by future
// SetKeyboardFocus calls (spec §4.6).
func (s *Seat) KeyEvent(timeMs, key, state uint32) {
	if state == KeyStatePressed {
		s.pressedKeys = append(s.pressedKeys, key)
	} else {
		for i, k := range s.pressedKeys {
			if k == key {
				s.pressedKeys = append(s.pressedKeys[:i], s.pressedKeys[i+1:]...)
				break
			}
		}
	}
	if s.keyboardFocus == nil {
		return
	}
	serial := s.nextSerial()
	for _, k := range s.keyboardFocus.Keyboards {
		k.SendKey(serial, timeMs, key, state)
	}
	// Spec §4.6: keyboard focus follows a button press on the clicked
	// surface; that transition is driven by the scene layer via
	// SetKeyboardFocus, not by KeyEvent itself.
}

// ModifiersEvent fans out an xkb modifier-state change to the focused
// client's bound keyboards.
func (s *Seat) ModifiersEvent(depressed, latched, locked, group uint32) {
	if s.keyboardFocus == nil {
		return
	}
	serial := s.nextSerial()
	for _, k := range s.keyboardFocus.Keyboards {
		k.SendModifiers(serial, depressed, latched, locked, group)
	}
}

// PointerBatch groups motion/button/axis events produced by fn with a
// single trailing wl_pointer.frame on every sink of the current pointer
// focus, matching the frame-grouping in spec §4.6.
func (s *Seat) PointerBatch(fn func()) {
	fn()
	if s.pointerFocus == nil {
		return
	}
	for _, p := range s.pointerFocus.Pointers {
		p.SendFrame()
	}
}

// MotionEvent fans out pointer motion to the current pointer focus.
func (s *Seat) MotionEvent(timeMs uint32, x, y wire.Fixed) {
	if s.pointerFocus == nil {
		return
	}
	for _, p := range s.pointerFocus.Pointers {
		p.SendMotion(timeMs, x, y)
	}
}

// ButtonEvent fans out a pointer button press/release to the current
// pointer focus.
func (s *Seat) ButtonEvent(timeMs, button, state uint32) {
	if s.pointerFocus == nil {
		return
	}
	serial := s.nextSerial()
	for _, p := range s.pointerFocus.Pointers {
		p.SendButton(serial, timeMs, button, state)
	}
}

// AxisEvent fans out a scroll/axis event to the current pointer focus.
func (s *Seat) AxisEvent(timeMs, axis uint32, value wire.Fixed) {
	if s.pointerFocus == nil {
		return
	}
	for _, p := range s.pointerFocus.Pointers {
		p.SendAxis(timeMs, axis, value)
	}
}

// RemoveKeyboard drops sink from the current keyboard focus target, if
// any (called when a wl_keyboard resource is released or its client
// disconnects). Other FocusTargets that list sink are not touched.
func (s *Seat) RemoveKeyboard(sink KeyboardSink) {
	if s.keyboardFocus == nil {
		return
	}
	s.keyboardFocus.Keyboards = removeSink(s.keyboardFocus.Keyboards, sink)
}

// RemovePointer is the pointer-sink analogue of RemoveKeyboard.
func (s *Seat) RemovePointer(sink PointerSink) {
	if s.pointerFocus == nil {
		return
	}
	s.pointerFocus.Pointers = removeSinkPointer(s.pointerFocus.Pointers, sink)
}

func removeSink(sinks []KeyboardSink, target KeyboardSink) []KeyboardSink {
	for i, s := range sinks {
		if s == target {
			return append(sinks[:i], sinks[i+1:]...)
		}
	}
	return sinks
}

func removeSinkPointer(sinks []PointerSink, target PointerSink) []PointerSink {
	for i, s := range sinks {
		if s == target {
			return append(sinks[:i], sinks[i+1:]...)
		}
	}
	return sinks
}
