package protocol

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/wire"
)

func TestSyncobjManagerCreateTimelineClosesImportedFD(t *testing.T) {
	c, _ := newTestClient(t)
	mgr := &syncobjManagerResource{id: 1, gpu: &gpucore.Gpu{}}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		t.Fatalf("Pipe2() error = %v", err)
	}
	r, w := fds[0], fds[1]
	defer unix.Close(w)

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(300)
		b.PutFD(r)
	})

	if err := mgr.Dispatch(c, syncobjManagerRequestCreateTimeline, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	tl, ok := c.Lookup(300).(*syncobjTimelineResource)
	if !ok {
		t.Fatalf("timeline object 300 not registered")
	}
	if tl.sema == nil {
		t.Fatalf("timeline resource has no semaphore")
	}

	// The imported fd was closed (substituted by a local semaphore); a
	// second close on the same fd number must fail.
	if err := unix.Close(r); err == nil {
		t.Errorf("expected imported fd to already be closed by create_timeline")
	}
}

func TestSyncobjManagerGetSurfaceRejectsDuplicate(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 50)
	c.Register(50, sr)

	mgr := &syncobjManagerResource{id: 1, gpu: &gpucore.Gpu{}}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(400)
		b.PutObject(50)
	})
	if err := mgr.Dispatch(c, syncobjManagerRequestGetSurface, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if sr.syncobjSurface == nil {
		t.Fatalf("surface.syncobjSurface not set after get_surface")
	}

	args2 := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(401)
		b.PutObject(50)
	})
	if err := mgr.Dispatch(c, syncobjManagerRequestGetSurface, args2); err == nil {
		t.Fatal("expected error requesting a second syncobj surface for the same wl_surface")
	}
}

func TestSyncobjSurfaceSetAcquirePointStagesPendingState(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 50)
	c.Register(50, sr)

	gpu := &gpucore.Gpu{}
	sema, err := gpu.CreateSemaphore()
	if err != nil {
		t.Fatalf("CreateSemaphore() error = %v", err)
	}
	tl := &syncobjTimelineResource{id: 10, sema: sema}
	c.Register(10, tl)

	ss := &syncobjSurfaceResource{id: 20, surface: sr}
	c.Register(20, ss)

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutObject(10)
		b.PutUint(0)
		b.PutUint(42)
	})
	if err := ss.Dispatch(c, syncobjSurfaceRequestSetAcquirePoint, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if sr.Surface.Pending.ExplicitSync.AcquireTimeline != sema {
		t.Errorf("AcquireTimeline not staged onto pending state")
	}
	if sr.Surface.Pending.ExplicitSync.AcquirePoint != 42 {
		t.Errorf("AcquirePoint = %d, want 42", sr.Surface.Pending.ExplicitSync.AcquirePoint)
	}
}

func TestSyncobjSurfaceOnDestroyClearsSurfaceBackref(t *testing.T) {
	c, _ := newTestClient(t)
	sr := newSurfaceResource(c, 50)
	sr.syncobjSurface = &syncobjSurfaceResource{id: 20, surface: sr}

	sr.syncobjSurface.OnDestroy()

	if sr.syncobjSurface != nil {
		t.Errorf("OnDestroy did not clear surface.syncobjSurface")
	}
}
