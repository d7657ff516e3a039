package protocol

import (
	"testing"

	"github.com/gogpu/wroc/seat"
	"github.com/gogpu/wroc/wire"
)

func testSeat(t *testing.T) *seat.Seat {
	t.Helper()
	fd, size, err := seat.WriteKeymapFD("keymap text")
	if err != nil {
		t.Fatalf("WriteKeymapFD() error = %v", err)
	}
	var serial uint32
	return seat.New("seat0", fd, size, func() uint32 {
		serial++
		return serial
	})
}

func TestSeatGlobalBindSendsCapabilitiesAndName(t *testing.T) {
	c, clientConn := newTestClient(t)
	reg := NewRegistry()
	st := testSeat(t)
	g := NewSeatGlobal(reg, st)

	if err := g.Bind(c, 10, 9); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	caps := recvOne(t, clientConn)
	if caps.Opcode != seatEventCapabilities {
		t.Fatalf("first event opcode = %d, want capabilities (%d)", caps.Opcode, seatEventCapabilities)
	}
	flags, err := caps.Args.Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if flags != seatCapPointer|seatCapKeyboard {
		t.Errorf("capabilities = %#x, want pointer|keyboard", flags)
	}

	name := recvOne(t, clientConn)
	if name.Opcode != seatEventName {
		t.Fatalf("second event opcode = %d, want name (%d)", name.Opcode, seatEventName)
	}
}

func TestSeatGetKeyboardSendsKeymap(t *testing.T) {
	c, clientConn := newTestClient(t)
	st := testSeat(t)
	r := &seatResource{id: 1, seat: st, version: 9}

	args := buildArgs(t, func(b *wire.MessageBuilder) { b.PutNewID(20) })
	if err := r.Dispatch(c, seatRequestGetKeyboard, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !c.InUse(20) {
		t.Fatalf("keyboard object 20 not registered")
	}

	keymap := recvOne(t, clientConn)
	if keymap.Opcode != keyboardEventKeymap {
		t.Fatalf("first event opcode = %d, want keymap (%d)", keymap.Opcode, keyboardEventKeymap)
	}
	format, err := keymap.Args.Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if format != keymapFormatXKBV1 {
		t.Errorf("keymap format = %d, want XKB v1 (%d)", format, keymapFormatXKBV1)
	}

	repeat := recvOne(t, clientConn)
	if repeat.Opcode != keyboardEventRepeatInfo {
		t.Fatalf("second event opcode = %d, want repeat_info (%d) for version >= 4", repeat.Opcode, keyboardEventRepeatInfo)
	}
}

func TestSeatGetPointerRegisters(t *testing.T) {
	c, _ := newTestClient(t)
	st := testSeat(t)
	r := &seatResource{id: 1, seat: st, version: 9}

	args := buildArgs(t, func(b *wire.MessageBuilder) { b.PutNewID(30) })
	if err := r.Dispatch(c, seatRequestGetPointer, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if _, ok := c.Lookup(30).(*pointerResource); !ok {
		t.Fatalf("pointer object 30 not registered")
	}
}

func TestKeyboardOnDestroyRemovesFromSeat(t *testing.T) {
	c, _ := newTestClient(t)
	st := testSeat(t)
	k := &keyboardResource{id: 20, seat: st, client: c}
	target := &seat.FocusTarget{Surface: 1, Keyboards: []seat.KeyboardSink{k}}
	st.SetKeyboardFocus(target)

	k.OnDestroy()
	if len(target.Keyboards) != 0 {
		t.Errorf("OnDestroy did not remove the keyboard from the focus target")
	}
	// RemoveKeyboard is idempotent on an already-removed sink; a second
	// call would be a no-op, confirming no panic on teardown ordering.
	st.RemoveKeyboard(k)
}

func TestPointerSendFrameSkippedBelowVersion5(t *testing.T) {
	c, clientConn := newTestClient(t)
	p := &pointerResource{id: 40, client: c, version: 4}

	p.SendFrame()

	// Send a marker event so recvOne proves no frame event preceded it.
	b := wire.NewMessageBuilder()
	b.PutUint(1)
	c.SendEvent(40, pointerEventMotion, b)

	msg := recvOne(t, clientConn)
	if msg.Opcode != pointerEventMotion {
		t.Fatalf("expected the marker motion event first, got opcode %d (frame not suppressed)", msg.Opcode)
	}
}

func TestTouchDispatchNeverErrors(t *testing.T) {
	c, _ := newTestClient(t)
	tr := &touchResource{id: 50}
	if err := tr.Dispatch(c, 0, buildArgs(t, func(b *wire.MessageBuilder) {})); err != nil {
		t.Errorf("touch Dispatch() error = %v, want nil", err)
	}
}
