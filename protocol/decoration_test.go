package protocol

import (
	"testing"

	"github.com/gogpu/wroc/wire"
)

func buildArgs(t *testing.T, put func(*wire.MessageBuilder)) *wire.Decoder {
	t.Helper()
	b := wire.NewMessageBuilder()
	put(b)
	data, fds := b.BuildMessage(0, 0)
	msg, err := wire.DecodeHeader(data, fds)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	return msg.Args
}

func TestDecorationManagerGetToplevelDecorationSendsServerSideConfigure(t *testing.T) {
	c, clientConn := newTestClient(t)

	tl := &toplevelResource{id: 100}
	c.Register(100, tl)

	mgr := &decorationManagerResource{id: 1}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(200)
		b.PutObject(100)
	})

	if err := mgr.Dispatch(c, decorationManagerRequestGetToplevelDecoration, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if tl.decoration == nil {
		t.Fatalf("toplevel.decoration not set after get_toplevel_decoration")
	}
	if !c.InUse(200) {
		t.Fatalf("decoration object 200 not registered")
	}

	msg := recvOne(t, clientConn)
	mode, err := msg.Args.Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if mode != decorationModeServerSide {
		t.Errorf("configure mode = %d, want server_side (%d)", mode, decorationModeServerSide)
	}
}

func TestDecorationManagerRejectsDuplicateDecoration(t *testing.T) {
	c, _ := newTestClient(t)

	tl := &toplevelResource{id: 100, decoration: &decorationResource{id: 50}}
	c.Register(100, tl)

	mgr := &decorationManagerResource{id: 1}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(200)
		b.PutObject(100)
	})

	if err := mgr.Dispatch(c, decorationManagerRequestGetToplevelDecoration, args); err == nil {
		t.Fatal("expected error registering a second decoration for the same toplevel")
	}
}

func TestDecorationOnDestroyClearsToplevelBackref(t *testing.T) {
	tl := &toplevelResource{id: 100}
	dec := &decorationResource{id: 200, toplevel: tl}
	tl.decoration = dec

	dec.OnDestroy()

	if tl.decoration != nil {
		t.Errorf("OnDestroy did not clear toplevel.decoration")
	}
}
