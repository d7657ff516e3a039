package protocol

import (
	"testing"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

func TestPositionerSetSizeAndAnchorRect(t *testing.T) {
	c, _ := newTestClient(t)
	r := &positionerResource{id: 1, positioner: &surface.Positioner{}}

	sizeArgs := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(200)
		b.PutInt(100)
	})
	if err := r.Dispatch(c, positionerRequestSetSize, sizeArgs); err != nil {
		t.Fatalf("Dispatch(set_size) error = %v", err)
	}
	if r.positioner.Width != 200 || r.positioner.Height != 100 {
		t.Errorf("size = (%d,%d), want (200,100)", r.positioner.Width, r.positioner.Height)
	}

	anchorArgs := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(10)
		b.PutInt(20)
		b.PutInt(30)
		b.PutInt(40)
	})
	if err := r.Dispatch(c, positionerRequestSetAnchorRect, anchorArgs); err != nil {
		t.Fatalf("Dispatch(set_anchor_rect) error = %v", err)
	}
	want := surface.Rect{X: 10, Y: 20, W: 30, H: 40}
	if r.positioner.AnchorRect != want {
		t.Errorf("AnchorRect = %+v, want %+v", r.positioner.AnchorRect, want)
	}
}

func TestPositionerSetOffsetAndReactive(t *testing.T) {
	c, _ := newTestClient(t)
	r := &positionerResource{id: 1, positioner: &surface.Positioner{}}

	offsetArgs := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(5)
		b.PutInt(-5)
	})
	if err := r.Dispatch(c, positionerRequestSetOffset, offsetArgs); err != nil {
		t.Fatalf("Dispatch(set_offset) error = %v", err)
	}
	if r.positioner.OffsetX != 5 || r.positioner.OffsetY != -5 {
		t.Errorf("offset = (%d,%d), want (5,-5)", r.positioner.OffsetX, r.positioner.OffsetY)
	}

	if err := r.Dispatch(c, positionerRequestSetReactive, buildArgs(t, func(b *wire.MessageBuilder) {})); err != nil {
		t.Fatalf("Dispatch(set_reactive) error = %v", err)
	}
	if !r.positioner.Reactive {
		t.Errorf("Reactive not set")
	}
}

func TestPopupRepositionSendsRepositionedEvent(t *testing.T) {
	c, clientConn := newTestClient(t)
	sr := newSurfaceResource(c, 5)
	xs := &xdgSurfaceResource{id: 6, surface: sr, client: c}
	oldPos := &surface.Positioner{}
	pop := &popupResource{id: 10, xdgSurface: xs, positioner: oldPos}

	newPos := &surface.Positioner{}
	pr := &positionerResource{id: 20, positioner: newPos}
	c.Register(20, pr)

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutObject(20)
		b.PutUint(7)
	})
	if err := pop.Dispatch(c, popupRequestReposition, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if pop.positioner != newPos {
		t.Errorf("popup.positioner not updated to the new positioner")
	}

	msg := recvOne(t, clientConn)
	token, err := msg.Args.Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if token != 7 {
		t.Errorf("repositioned token = %d, want 7", token)
	}
}

func TestPopupRepositionRejectsUnknownPositioner(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 5)
	xs := &xdgSurfaceResource{id: 6, surface: sr, client: c}
	pop := &popupResource{id: 10, xdgSurface: xs}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutObject(99)
		b.PutUint(7)
	})
	if err := pop.Dispatch(c, popupRequestReposition, args); err == nil {
		t.Fatal("expected reposition with an unknown xdg_positioner to error")
	}
}

func TestPopupOnDestroyClearsXdgSurfaceOnConfigure(t *testing.T) {
	xs := &xdgSurfaceResource{id: 6}
	pop := &popupResource{id: 10, xdgSurface: xs}
	xs.onConfigure = pop.sendConfigure

	pop.OnDestroy()

	if xs.onConfigure != nil {
		t.Errorf("OnDestroy did not clear xdgSurface.onConfigure")
	}
}
