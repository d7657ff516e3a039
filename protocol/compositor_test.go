package protocol

import (
	"testing"

	"github.com/gogpu/wroc/wire"
)

func TestCompositorCreateSurfaceRegistersAndNotifies(t *testing.T) {
	c, _ := newTestClient(t)

	var notified *SurfaceResource
	res := &compositorResource{onSurface: func(nc *Client, s *SurfaceResource) { notified = s }}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
	})
	if err := res.Dispatch(c, compositorRequestCreateSurface, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !c.InUse(10) {
		t.Fatalf("surface object 10 not registered")
	}
	if notified == nil || notified.ID != 10 {
		t.Errorf("onSurface callback not invoked with the new surface")
	}
}

func TestCompositorCreateRegionRegisters(t *testing.T) {
	c, _ := newTestClient(t)
	res := &compositorResource{}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(20)
	})
	if err := res.Dispatch(c, compositorRequestCreateRegion, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !c.InUse(20) {
		t.Fatalf("region object 20 not registered")
	}
}

func TestRegionAddSubtractTracksNetRects(t *testing.T) {
	r := &regionResource{id: 1}

	add := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(0)
		b.PutInt(0)
		b.PutInt(100)
		b.PutInt(50)
	})
	c, _ := newTestClient(t)
	if err := r.Dispatch(c, regionRequestAdd, add); err != nil {
		t.Fatalf("Dispatch(add) error = %v", err)
	}

	sub := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(10)
		b.PutInt(10)
		b.PutInt(20)
		b.PutInt(20)
	})
	if err := r.Dispatch(c, regionRequestSubtract, sub); err != nil {
		t.Fatalf("Dispatch(subtract) error = %v", err)
	}

	rects := r.Rects()
	if len(rects) != 1 {
		t.Fatalf("got %d net rects, want 1 (subtract ops are excluded)", len(rects))
	}
	if rects[0].W != 100 || rects[0].H != 50 {
		t.Errorf("rect = %+v, want the added 100x50 rect", rects[0])
	}
}

func TestSurfaceAttachStagesPendingBuffer(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 1)

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutObject(0) // detach: no buffer
		b.PutInt(3)
		b.PutInt(4)
	})
	if err := sr.Dispatch(c, surfaceRequestAttach, args); err != nil {
		t.Fatalf("Dispatch(attach) error = %v", err)
	}
	if !sr.Surface.Pending.Buffer.Detached {
		t.Errorf("attach(nil) did not mark the pending buffer detached")
	}
	if sr.Surface.Pending.Buffer.OffsetX != 3 || sr.Surface.Pending.Buffer.OffsetY != 4 {
		t.Errorf("attach offsets = (%d,%d), want (3,4)", sr.Surface.Pending.Buffer.OffsetX, sr.Surface.Pending.Buffer.OffsetY)
	}
}

func TestSurfaceAttachRejectsNonBufferObject(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 1)
	c.Register(1, sr)
	c.Register(2, &regionResource{id: 2})

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutObject(2)
		b.PutInt(0)
		b.PutInt(0)
	})
	if err := sr.Dispatch(c, surfaceRequestAttach, args); err == nil {
		t.Fatal("expected attach with a non-wl_buffer object to error")
	}
}

func TestSurfaceFrameRegistersCallback(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 1)

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(99)
	})
	if err := sr.Dispatch(c, surfaceRequestFrame, args); err != nil {
		t.Fatalf("Dispatch(frame) error = %v", err)
	}
	if !c.InUse(99) {
		t.Fatalf("callback object 99 not registered")
	}
	if len(sr.Surface.Pending.FrameCallbacks) != 1 {
		t.Fatalf("got %d pending frame callbacks, want 1", len(sr.Surface.Pending.FrameCallbacks))
	}
}

func TestSurfaceOnDestroyClearsErrorHook(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 1)
	if sr.Surface.OnProtocolError == nil {
		t.Fatalf("newSurfaceResource did not install OnProtocolError")
	}
	sr.OnDestroy()
	if sr.Surface.OnProtocolError != nil {
		t.Errorf("OnDestroy did not clear OnProtocolError")
	}
}
