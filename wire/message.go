// Package wire implements the Wayland wire protocol: message framing,
// argument encode/decode, and the UNIX-socket transport including
// SCM_RIGHTS file descriptor passing.
//
// The wire format is a sequence of messages, each a 32-bit object id
// followed by a 32-bit (message size << 16 | opcode) header, followed by
// arguments packed as 32-bit little-endian words: int, uint, and fixed
// (24.8 fixed point) are one word; string and array are a length-prefixed,
// NUL-padded-to-4-byte blob; object and new_id are a 32-bit id; fd is
// carried out-of-band via an ancillary SCM_RIGHTS control message and
// consumed in argument order on decode.
//
// This codec is symmetric — the same MessageBuilder/Decoder pair encodes
// server->client events and decodes client->server requests, unlike a
// Wayland client library which only needs the reverse direction.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ObjectID identifies a protocol object within a single client connection.
// Object id 0 is never valid; id 1 is conventionally wl_display.
type ObjectID uint32

// Opcode is a request or event number, scoped to a single interface.
type Opcode uint16

// ErrShortMessage is returned by Decoder when the buffer does not contain
// a complete message header or the header declares a size longer than
// the remaining buffer.
var ErrShortMessage = errors.New("wire: short message")

// Fixed is a Wayland 24.8 fixed-point number.
type Fixed int32

// FixedFromFloat64 converts a float64 to wire fixed-point.
func FixedFromFloat64(v float64) Fixed {
	return Fixed(int32(v * 256))
}

// Float64 converts wire fixed-point back to a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 256
}

const wordSize = 4

func pad4(n int) int {
	return (n + 3) &^ 3
}

// MessageBuilder accumulates a single message's arguments. Create one per
// message with NewMessageBuilder, call the Put* methods in argument order,
// then Build to get the framed bytes.
type MessageBuilder struct {
	buf []byte
	fds []int
}

// NewMessageBuilder starts building a message body (arguments only; the
// object id and opcode/size header are prepended by Build).
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// PutInt appends a signed 32-bit argument.
func (b *MessageBuilder) PutInt(v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
}

// PutUint appends an unsigned 32-bit argument.
func (b *MessageBuilder) PutUint(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// PutFixed appends a 24.8 fixed-point argument.
func (b *MessageBuilder) PutFixed(v Fixed) {
	b.PutUint(uint32(v))
}

// PutString appends a NUL-terminated, 4-byte-padded string argument,
// length-prefixed by the string length including the NUL terminator.
func (b *MessageBuilder) PutString(s string) {
	n := len(s) + 1
	b.PutUint(uint32(n))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	if pad := pad4(n) - n; pad > 0 {
		b.buf = append(b.buf, make([]byte, pad)...)
	}
}

// PutArray appends a length-prefixed, 4-byte-padded byte array argument.
func (b *MessageBuilder) PutArray(data []byte) {
	b.PutUint(uint32(len(data)))
	b.buf = append(b.buf, data...)
	if pad := pad4(len(data)) - len(data); pad > 0 {
		b.buf = append(b.buf, make([]byte, pad)...)
	}
}

// PutObject appends an object id argument. 0 means "null object".
func (b *MessageBuilder) PutObject(id ObjectID) {
	b.PutUint(uint32(id))
}

// PutNewID appends a new_id argument (an object id the peer must
// instantiate).
func (b *MessageBuilder) PutNewID(id ObjectID) {
	b.PutUint(uint32(id))
}

// PutFD records a file descriptor to be sent out-of-band alongside this
// message via SCM_RIGHTS. FDs are consumed by the decoder in the order
// they were put.
func (b *MessageBuilder) PutFD(fd int) {
	b.fds = append(b.fds, fd)
}

// BuildMessage frames the accumulated arguments with the given object id
// and opcode, returning the wire bytes and any fds to send alongside them.
func (b *MessageBuilder) BuildMessage(obj ObjectID, op Opcode) (data []byte, fds []int) {
	size := wordSize*2 + len(b.buf)
	header := make([]byte, wordSize*2, size)
	binary.LittleEndian.PutUint32(header[0:4], uint32(obj))
	binary.LittleEndian.PutUint32(header[4:8], uint32(size)<<16|uint32(op))
	return append(header, b.buf...), b.fds
}

// Message is a fully decoded incoming message: the target object, opcode,
// and a Decoder positioned at the start of its arguments.
type Message struct {
	ObjectID ObjectID
	Opcode   Opcode
	Size     int
	Args     *Decoder
}

// Decoder walks a message's argument words in order. Strings, arrays, and
// fds must be read in the order they were written by the peer — the
// decoder has no way to skip or re-read an argument.
type Decoder struct {
	buf []byte
	off int
	fds []int
}

// NewDecoder creates a decoder over a single message's argument bytes
// (everything after the 8-byte object id + opcode/size header) and the
// fds received alongside it via SCM_RIGHTS.
func NewDecoder(buf []byte, fds []int) *Decoder {
	return &Decoder{buf: buf, fds: fds}
}

// DecodeHeader parses the object id and opcode/size header from the front
// of buf and returns a Message whose Args decodes the remaining bytes.
// buf must contain at least one complete message; extra trailing bytes
// are ignored (the caller is expected to have sliced buf to exactly one
// message using the size field, or to re-slice using the returned Size).
func DecodeHeader(buf []byte, fds []int) (*Message, error) {
	if len(buf) < wordSize*2 {
		return nil, ErrShortMessage
	}
	obj := ObjectID(binary.LittleEndian.Uint32(buf[0:4]))
	sizeOp := binary.LittleEndian.Uint32(buf[4:8])
	size := int(sizeOp >> 16)
	op := Opcode(sizeOp & 0xffff)

	if size < wordSize*2 || len(buf) < size {
		return nil, ErrShortMessage
	}

	return &Message{
		ObjectID: obj,
		Opcode:   op,
		Size:     size,
		Args:     NewDecoder(buf[wordSize*2:size], fds),
	}, nil
}

func (d *Decoder) takeWord() (uint32, error) {
	if len(d.buf)-d.off < wordSize {
		return 0, fmt.Errorf("wire: decode: %w", ErrShortMessage)
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off : d.off+wordSize])
	d.off += wordSize
	return v, nil
}

// Int decodes a signed 32-bit argument.
func (d *Decoder) Int() (int32, error) {
	v, err := d.takeWord()
	return int32(v), err
}

// Uint decodes an unsigned 32-bit argument.
func (d *Decoder) Uint() (uint32, error) {
	return d.takeWord()
}

// FixedArg decodes a 24.8 fixed-point argument.
func (d *Decoder) FixedArg() (Fixed, error) {
	v, err := d.takeWord()
	return Fixed(v), err
}

// StringArg decodes a NUL-terminated, 4-byte-padded string argument.
func (d *Decoder) StringArg() (string, error) {
	n, err := d.takeWord()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	total := pad4(int(n))
	if len(d.buf)-d.off < total {
		return "", fmt.Errorf("wire: decode string: %w", ErrShortMessage)
	}
	s := string(d.buf[d.off : d.off+int(n)-1]) // drop NUL terminator
	d.off += total
	return s, nil
}

// ArrayArg decodes a length-prefixed, 4-byte-padded byte array argument.
func (d *Decoder) ArrayArg() ([]byte, error) {
	n, err := d.takeWord()
	if err != nil {
		return nil, err
	}
	total := pad4(int(n))
	if len(d.buf)-d.off < total {
		return nil, fmt.Errorf("wire: decode array: %w", ErrShortMessage)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.off:d.off+int(n)])
	d.off += total
	return out, nil
}

// Object decodes an object id argument (0 = null).
func (d *Decoder) Object() (ObjectID, error) {
	v, err := d.takeWord()
	return ObjectID(v), err
}

// NewID decodes a new_id argument.
func (d *Decoder) NewID() (ObjectID, error) {
	v, err := d.takeWord()
	return ObjectID(v), err
}

// FD consumes the next out-of-band file descriptor associated with this
// message, in the order fds were sent.
func (d *Decoder) FD() (int, error) {
	if len(d.fds) == 0 {
		return -1, fmt.Errorf("wire: decode fd: no more fds in message")
	}
	fd := d.fds[0]
	d.fds = d.fds[1:]
	return fd, nil
}
