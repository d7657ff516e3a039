package wire_test

import (
	"testing"

	"github.com/gogpu/wroc/wire"
)

func TestBuildAndDecodeRoundTrip(t *testing.T) {
	b := wire.NewMessageBuilder()
	b.PutUint(42)
	b.PutInt(-7)
	b.PutFixed(wire.FixedFromFloat64(3.5))
	b.PutString("hello")
	b.PutObject(9)
	b.PutNewID(10)
	b.PutArray([]byte{1, 2, 3})

	data, fds := b.BuildMessage(1, 2)
	if len(fds) != 0 {
		t.Fatalf("expected no fds, got %d", len(fds))
	}

	msg, err := wire.DecodeHeader(data, nil)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if msg.ObjectID != 1 || msg.Opcode != 2 {
		t.Fatalf("got object=%d opcode=%d, want 1,2", msg.ObjectID, msg.Opcode)
	}

	if v, err := msg.Args.Uint(); err != nil || v != 42 {
		t.Errorf("Uint() = %d, %v, want 42, nil", v, err)
	}
	if v, err := msg.Args.Int(); err != nil || v != -7 {
		t.Errorf("Int() = %d, %v, want -7, nil", v, err)
	}
	if v, err := msg.Args.FixedArg(); err != nil || v.Float64() != 3.5 {
		t.Errorf("FixedArg().Float64() = %v, %v, want 3.5, nil", v.Float64(), err)
	}
	if s, err := msg.Args.StringArg(); err != nil || s != "hello" {
		t.Errorf("StringArg() = %q, %v, want hello, nil", s, err)
	}
	if v, err := msg.Args.Object(); err != nil || v != 9 {
		t.Errorf("Object() = %d, %v, want 9, nil", v, err)
	}
	if v, err := msg.Args.NewID(); err != nil || v != 10 {
		t.Errorf("NewID() = %d, %v, want 10, nil", v, err)
	}
	if arr, err := msg.Args.ArrayArg(); err != nil || string(arr) != "\x01\x02\x03" {
		t.Errorf("ArrayArg() = %v, %v, want [1 2 3], nil", arr, err)
	}
}

func TestDecodeHeaderShortMessage(t *testing.T) {
	if _, err := wire.DecodeHeader([]byte{1, 2, 3}, nil); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestStringPadding(t *testing.T) {
	b := wire.NewMessageBuilder()
	b.PutString("ab") // length 3 incl NUL, padded to 4
	data, _ := b.BuildMessage(1, 0)
	// header (8) + length word (4) + padded string (4) = 16
	if len(data) != 16 {
		t.Fatalf("len(data) = %d, want 16", len(data))
	}
}

func TestFDRoundTrip(t *testing.T) {
	b := wire.NewMessageBuilder()
	b.PutFD(7)
	b.PutUint(1)
	data, fds := b.BuildMessage(1, 0)
	if len(fds) != 1 || fds[0] != 7 {
		t.Fatalf("fds = %v, want [7]", fds)
	}

	msg, err := wire.DecodeHeader(data, fds)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	fd, err := msg.Args.FD()
	if err != nil || fd != 7 {
		t.Errorf("FD() = %d, %v, want 7, nil", fd, err)
	}
	if v, err := msg.Args.Uint(); err != nil || v != 1 {
		t.Errorf("Uint() = %d, %v, want 1, nil", v, err)
	}
}
