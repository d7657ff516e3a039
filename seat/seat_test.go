package seat

import (
	"testing"

	"github.com/gogpu/wroc/wire"
)

type fakeKeyboard struct {
	entered, left bool
	pressedAtEnter []uint32
}

func (f *fakeKeyboard) SendKeymap(fd int, size uint32) {}
func (f *fakeKeyboard) SendEnter(serial uint32, surfaceID wire.ObjectID, pressedKeys []uint32) {
	f.entered = true
	f.pressedAtEnter = append([]uint32(nil), pressedKeys...)
}
func (f *fakeKeyboard) SendLeave(serial uint32, surfaceID wire.ObjectID) { f.left = true }
func (f *fakeKeyboard) SendKey(serial, timeMs, key, state uint32)       {}
func (f *fakeKeyboard) SendModifiers(serial, depressed, latched, locked, group uint32) {}
func (f *fakeKeyboard) SendRepeatInfo(rate, delayMs int32)              {}

func newSerial() func() uint32 {
	var n uint32
	return func() uint32 { n++; return n }
}

func TestKeyEventTracksPressedKeysAcrossFocusChange(t *testing.T) {
	s := New("seat0", -1, 0, newSerial())
	kb := &fakeKeyboard{}
	target := &FocusTarget{Surface: 1, Keyboards: []KeyboardSink{kb}}

	s.KeyEvent(0, 30, KeyStatePressed)
	s.KeyEvent(0, 31, KeyStatePressed)
	s.SetKeyboardFocus(target)

	if !kb.entered {
		t.Fatalf("SetKeyboardFocus did not send enter")
	}
	if len(kb.pressedAtEnter) != 2 {
		t.Errorf("enter carried %d pressed keys, want 2", len(kb.pressedAtEnter))
	}

	s.KeyEvent(0, 30, KeyStateReleased)
	if len(s.pressedKeys) != 1 || s.pressedKeys[0] != 31 {
		t.Errorf("pressedKeys after release = %v, want [31]", s.pressedKeys)
	}
}

func TestSetKeyboardFocusSendsLeaveToPreviousTarget(t *testing.T) {
	s := New("seat0", -1, 0, newSerial())
	kb1 := &fakeKeyboard{}
	kb2 := &fakeKeyboard{}
	s.SetKeyboardFocus(&FocusTarget{Surface: 1, Keyboards: []KeyboardSink{kb1}})
	s.SetKeyboardFocus(&FocusTarget{Surface: 2, Keyboards: []KeyboardSink{kb2}})

	if !kb1.left {
		t.Errorf("previous focus target did not receive leave")
	}
	if !kb2.entered {
		t.Errorf("new focus target did not receive enter")
	}
}

type fakePointer struct {
	frames int
}

func (f *fakePointer) SendEnter(serial uint32, surfaceID wire.ObjectID, x, y wire.Fixed) {}
func (f *fakePointer) SendLeave(serial uint32, surfaceID wire.ObjectID)                  {}
func (f *fakePointer) SendMotion(timeMs uint32, x, y wire.Fixed)                         {}
func (f *fakePointer) SendButton(serial, timeMs, button, state uint32)                   {}
func (f *fakePointer) SendAxis(timeMs uint32, axis uint32, value wire.Fixed)             {}
func (f *fakePointer) SendFrame()                                                       { f.frames++ }

func TestPointerBatchSendsExactlyOneFrame(t *testing.T) {
	s := New("seat0", -1, 0, newSerial())
	p := &fakePointer{}
	s.SetPointerFocus(&FocusTarget{Surface: 1, Pointers: []PointerSink{p}}, 0, 0)

	s.PointerBatch(func() {
		s.MotionEvent(0, wire.FixedFromFloat64(1), wire.FixedFromFloat64(2))
		s.ButtonEvent(0, 272, KeyStatePressed)
	})

	if p.frames != 1 {
		t.Errorf("frames sent = %d, want 1", p.frames)
	}
}
