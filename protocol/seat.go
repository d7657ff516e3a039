package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/seat"
	"github.com/gogpu/wroc/wire"
)

// wl_seat capability bits.
const (
	seatCapPointer  uint32 = 1 << 0
	seatCapKeyboard uint32 = 1 << 1
)

// wl_seat event opcodes.
const (
	seatEventCapabilities wire.Opcode = 0
	seatEventName         wire.Opcode = 1
)

// wl_seat request opcodes.
const (
	seatRequestGetPointer  wire.Opcode = 0
	seatRequestGetKeyboard wire.Opcode = 1
	seatRequestGetTouch    wire.Opcode = 2
	seatRequestRelease     wire.Opcode = 3
)

// NewSeatGlobal registers wl_seat (max version 9) backed by st. Bound
// wl_keyboard/wl_pointer resources implement seat.KeyboardSink/
// seat.PointerSink but are not registered with st here; they receive seat
// events only while a FocusTarget holding them is passed to
// SetKeyboardFocus/SetPointerFocus.
func NewSeatGlobal(reg *Registry, st *seat.Seat) *Global {
	g := &Global{Name: "wl_seat", Version: 9}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &seatResource{id: id, seat: st, version: version})
		caps := wire.NewMessageBuilder()
		caps.PutUint(seatCapPointer | seatCapKeyboard)
		c.SendEvent(id, seatEventCapabilities, caps)
		if version >= 2 {
			name := wire.NewMessageBuilder()
			name.PutString(st.Name)
			c.SendEvent(id, seatEventName, name)
		}
		return nil
	}
	reg.Add(g)
	return g
}

type seatResource struct {
	id      wire.ObjectID
	seat    *seat.Seat
	version uint32
}

func (r *seatResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case seatRequestGetPointer:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &pointerResource{id: id, seat: r.seat, version: r.version})
		return nil
	case seatRequestGetKeyboard:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		kr := &keyboardResource{id: id, seat: r.seat, version: r.version}
		c.Register(id, kr)
		kr.sendInitialKeymap(c)
		return nil
	case seatRequestGetTouch:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &touchResource{id: id})
		return nil
	case seatRequestRelease:
		return nil
	default:
		return c.PostError(r.id, 0, fmt.Sprintf("wl_seat: bad opcode %d", op))
	}
}

// wl_keyboard event opcodes.
const (
	keyboardEventKeymap     wire.Opcode = 0
	keyboardEventEnter      wire.Opcode = 1
	keyboardEventLeave      wire.Opcode = 2
	keyboardEventKey        wire.Opcode = 3
	keyboardEventModifiers  wire.Opcode = 4
	keyboardEventRepeatInfo wire.Opcode = 5
)

const keyboardRequestRelease wire.Opcode = 0

// wl_keyboard.keymap_format values.
const keymapFormatXKBV1 uint32 = 1

// keyboardResource is the protocol-facing wl_keyboard object; it
// implements seat.KeyboardSink. It does not register itself with the
// owning Seat: it receives key events only while it sits in a FocusTarget
// given to Seat.SetKeyboardFocus, and OnDestroy removes it from the
// current keyboard focus target.
type keyboardResource struct {
	id      wire.ObjectID
	seat    *seat.Seat
	client  *Client
	version uint32
}

func (k *keyboardResource) sendInitialKeymap(c *Client) {
	k.client = c
	fd, size := k.seat.KeymapFD()
	k.SendKeymap(fd, size)
	if k.version >= 4 {
		k.SendRepeatInfo(25, 600)
	}
}

func (k *keyboardResource) SendKeymap(fd int, size uint32) {
	dup, err := seat.DupKeymapFD(fd)
	if err != nil {
		return
	}
	b := wire.NewMessageBuilder()
	b.PutUint(keymapFormatXKBV1)
	b.PutFD(dup)
	b.PutUint(size)
	k.client.SendEvent(k.id, keyboardEventKeymap, b)
}

func (k *keyboardResource) SendEnter(serial uint32, surfaceID wire.ObjectID, pressedKeys []uint32) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutObject(surfaceID)
	var arr []byte
	for _, key := range pressedKeys {
		arr = appendUint32LE(arr, key)
	}
	b.PutArray(arr)
	k.client.SendEvent(k.id, keyboardEventEnter, b)
}

func (k *keyboardResource) SendLeave(serial uint32, surfaceID wire.ObjectID) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutObject(surfaceID)
	k.client.SendEvent(k.id, keyboardEventLeave, b)
}

func (k *keyboardResource) SendKey(serial, timeMs, key, state uint32) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutUint(timeMs)
	b.PutUint(key)
	b.PutUint(state)
	k.client.SendEvent(k.id, keyboardEventKey, b)
}

func (k *keyboardResource) SendModifiers(serial, depressed, latched, locked, group uint32) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutUint(depressed)
	b.PutUint(latched)
	b.PutUint(locked)
	b.PutUint(group)
	k.client.SendEvent(k.id, keyboardEventModifiers, b)
}

func (k *keyboardResource) SendRepeatInfo(rate, delayMs int32) {
	b := wire.NewMessageBuilder()
	b.PutInt(rate)
	b.PutInt(delayMs)
	k.client.SendEvent(k.id, keyboardEventRepeatInfo, b)
}

func (k *keyboardResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != keyboardRequestRelease {
		return c.PostError(k.id, 0, fmt.Sprintf("wl_keyboard: bad opcode %d", op))
	}
	return nil
}

func (k *keyboardResource) OnDestroy() {
	k.seat.RemoveKeyboard(k)
}

// wl_pointer event opcodes.
const (
	pointerEventEnter       wire.Opcode = 0
	pointerEventLeave       wire.Opcode = 1
	pointerEventMotion      wire.Opcode = 2
	pointerEventButton      wire.Opcode = 3
	pointerEventAxis        wire.Opcode = 4
	pointerEventFrame       wire.Opcode = 5
)

const pointerRequestSetCursor wire.Opcode = 0
const pointerRequestRelease wire.Opcode = 1

type pointerResource struct {
	id      wire.ObjectID
	seat    *seat.Seat
	client  *Client
	version uint32
}

func (p *pointerResource) SendEnter(serial uint32, surfaceID wire.ObjectID, x, y wire.Fixed) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutObject(surfaceID)
	b.PutFixed(x)
	b.PutFixed(y)
	p.client.SendEvent(p.id, pointerEventEnter, b)
}

func (p *pointerResource) SendLeave(serial uint32, surfaceID wire.ObjectID) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutObject(surfaceID)
	p.client.SendEvent(p.id, pointerEventLeave, b)
}

func (p *pointerResource) SendMotion(timeMs uint32, x, y wire.Fixed) {
	b := wire.NewMessageBuilder()
	b.PutUint(timeMs)
	b.PutFixed(x)
	b.PutFixed(y)
	p.client.SendEvent(p.id, pointerEventMotion, b)
}

func (p *pointerResource) SendButton(serial, timeMs, button, state uint32) {
	b := wire.NewMessageBuilder()
	b.PutUint(serial)
	b.PutUint(timeMs)
	b.PutUint(button)
	b.PutUint(state)
	p.client.SendEvent(p.id, pointerEventButton, b)
}

func (p *pointerResource) SendAxis(timeMs uint32, axis uint32, value wire.Fixed) {
	b := wire.NewMessageBuilder()
	b.PutUint(timeMs)
	b.PutUint(axis)
	b.PutFixed(value)
	p.client.SendEvent(p.id, pointerEventAxis, b)
}

func (p *pointerResource) SendFrame() {
	if p.version < 5 {
		return
	}
	p.client.SendEvent(p.id, pointerEventFrame, wire.NewMessageBuilder())
}

func (p *pointerResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	p.client = c
	switch op {
	case pointerRequestSetCursor:
		if _, err := args.Uint(); err != nil {
			return err
		}
		if _, err := args.Object(); err != nil {
			return err
		}
		if _, err := args.Int(); err != nil {
			return err
		}
		if _, err := args.Int(); err != nil {
			return err
		}
		return nil
	case pointerRequestRelease:
		return nil
	default:
		return c.PostError(p.id, 0, fmt.Sprintf("wl_pointer: bad opcode %d", op))
	}
}

func (p *pointerResource) OnDestroy() {
	p.seat.RemovePointer(p)
}

// wl_touch is advertised via capabilities but has no surface state to
// route at this layer (no touch input backend is wired, SPEC_FULL §1);
// it accepts release and otherwise never fires events.
type touchResource struct {
	id wire.ObjectID
}

func (t *touchResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	return nil
}

func appendUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
