package protocol

import (
	"testing"

	"github.com/gogpu/wroc/wire"
)

func TestOutputGlobalBindSendsGeometryModeAndDone(t *testing.T) {
	c, clientConn := newTestClient(t)
	reg := NewRegistry()
	info := OutputInfo{Name: "wroc-0", Width: 1920, Height: 1080, RefreshMilliHz: 60000, Scale: 1}
	g := NewOutputGlobal(reg, info)

	if err := g.Bind(c, 10, 4); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	geom := recvOne(t, clientConn)
	if geom.Opcode != outputEventGeometry {
		t.Fatalf("first event opcode = %d, want geometry (%d)", geom.Opcode, outputEventGeometry)
	}

	mode := recvOne(t, clientConn)
	if mode.Opcode != outputEventMode {
		t.Fatalf("second event opcode = %d, want mode (%d)", mode.Opcode, outputEventMode)
	}
	flags, err := mode.Args.Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if flags != outputModeCurrent|outputModePreferred {
		t.Errorf("mode flags = %#x, want current|preferred", flags)
	}
	w, err := mode.Args.Int()
	if err != nil {
		t.Fatalf("Int() error = %v", err)
	}
	if w != 1920 {
		t.Errorf("mode width = %d, want 1920", w)
	}

	scale := recvOne(t, clientConn)
	if scale.Opcode != outputEventScale {
		t.Fatalf("third event opcode = %d, want scale (%d) for version 4", scale.Opcode, outputEventScale)
	}

	name := recvOne(t, clientConn)
	if name.Opcode != outputEventName {
		t.Fatalf("fourth event opcode = %d, want name (%d) for version 4", name.Opcode, outputEventName)
	}

	desc := recvOne(t, clientConn)
	if desc.Opcode != outputEventDesc {
		t.Fatalf("fifth event opcode = %d, want description (%d) for version 4", desc.Opcode, outputEventDesc)
	}

	done := recvOne(t, clientConn)
	if done.Opcode != outputEventDone {
		t.Fatalf("last event opcode = %d, want done (%d)", done.Opcode, outputEventDone)
	}
}

func TestOutputGlobalBindOmitsV4EventsBelowVersion(t *testing.T) {
	c, clientConn := newTestClient(t)
	reg := NewRegistry()
	info := OutputInfo{Name: "wroc-0", Width: 1920, Height: 1080, RefreshMilliHz: 60000, Scale: 1}
	g := NewOutputGlobal(reg, info)

	if err := g.Bind(c, 10, 1); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	recvOne(t, clientConn) // geometry
	recvOne(t, clientConn) // mode

	done := recvOne(t, clientConn)
	if done.Opcode != outputEventDone {
		t.Fatalf("version 1 bind sent an extra event before done (opcode %d)", done.Opcode)
	}
}

func TestOutputReleaseRejectsBadOpcode(t *testing.T) {
	c, _ := newTestClient(t)
	r := &outputResource{}
	args := buildArgs(t, func(b *wire.MessageBuilder) {})
	if err := r.Dispatch(c, 99, args); err == nil {
		t.Fatal("expected an unknown wl_output opcode to error")
	}
}
