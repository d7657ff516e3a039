package protocol

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

func testShmFD(t *testing.T, size int) int {
	t.Helper()
	fd, err := unix.MemfdCreate("wroc-shm-test", 0)
	if err != nil {
		t.Fatalf("MemfdCreate() error = %v", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		t.Fatalf("Ftruncate() error = %v", err)
	}
	return fd
}

func TestShmCreatePoolMapsFD(t *testing.T) {
	c, _ := newTestClient(t)
	r := &shmResource{}

	fd := testShmFD(t, 4096)
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutFD(fd)
		b.PutInt(4096)
	})
	if err := r.Dispatch(c, shmRequestCreatePool, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !c.InUse(10) {
		t.Fatalf("shm_pool object 10 not registered")
	}
}

func TestShmPoolCreateBufferWiresRelease(t *testing.T) {
	c, _ := newTestClient(t)
	fd := testShmFD(t, 4096)
	pool, err := surface.NewShmPool(fd, 4096)
	if err != nil {
		t.Fatalf("NewShmPool() error = %v", err)
	}
	r := &shmPoolResource{id: 1, pool: pool}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(20)
		b.PutInt(0)
		b.PutInt(64)
		b.PutInt(64)
		b.PutInt(256)
		b.PutUint(ShmFormatARGB8888)
	})
	if err := r.Dispatch(c, shmPoolRequestCreateBuffer, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	br, ok := c.Lookup(20).(*bufferResource)
	if !ok {
		t.Fatalf("wl_buffer object 20 not registered")
	}
	if br.shmBuffer == nil {
		t.Fatalf("created buffer has no shmBuffer backref")
	}
	w, h := br.buffer.Extent()
	if w != 64 || h != 64 {
		t.Errorf("Extent() = (%d,%d), want (64,64)", w, h)
	}
}

func TestShmPoolResizeRejectsShrink(t *testing.T) {
	c, _ := newTestClient(t)
	fd := testShmFD(t, 8192)
	pool, err := surface.NewShmPool(fd, 8192)
	if err != nil {
		t.Fatalf("NewShmPool() error = %v", err)
	}
	r := &shmPoolResource{id: 1, pool: pool}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(4096)
	})
	if err := r.Dispatch(c, shmPoolRequestResize, args); err == nil {
		t.Fatal("expected resize to a smaller size to be rejected")
	}
}

func TestBufferDestroyUnregisters(t *testing.T) {
	c, _ := newTestClient(t)
	br := &bufferResource{id: 30}
	c.Register(30, br)

	args := buildArgs(t, func(b *wire.MessageBuilder) {})
	if err := br.Dispatch(c, bufferRequestDestroy, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if c.InUse(30) {
		t.Errorf("buffer object 30 still registered after destroy")
	}
}

func TestBufferOnDestroyPrefersCustomDestroyFn(t *testing.T) {
	called := false
	br := &bufferResource{id: 30, destroy: func() { called = true }}
	br.OnDestroy()
	if !called {
		t.Errorf("custom destroy func not invoked")
	}
}
