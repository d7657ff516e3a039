package output

import (
	"testing"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/gpucore"
	"golang.org/x/sys/unix"
)

func newTestGpu(t *testing.T) *gpucore.Gpu {
	t.Helper()
	g, err := gpucore.Create(nil, nil)
	if err != nil {
		t.Fatalf("gpucore.Create: %v", err)
	}
	t.Cleanup(g.Destroy)
	return g
}

func newTestImage(t *testing.T, g *gpucore.Gpu, extent gpucore.Extent) *gpucore.Image {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	r, w := fds[0], fds[1]
	defer unix.Close(w)
	img, err := g.ImageImportDmabuf(gpucore.DmaParams{
		Planes: []gpucore.DmaPlane{{FD: r, Stride: 4096}},
		Format: gpucore.FormatABGR8888,
		Extent: extent,
	}, gpucore.ImageUsageRender)
	if err != nil {
		t.Fatalf("ImageImportDmabuf: %v", err)
	}
	return img
}

func TestSwapchainAcquireDropsMismatchedFreeImages(t *testing.T) {
	g := newTestGpu(t)
	stale := newTestImage(t, g, gpucore.Extent{Width: 1, Height: 1})
	fresh := newTestImage(t, g, gpucore.Extent{Width: 2, Height: 2})

	sc := NewSwapchain(g, 2)
	wantExtent := gpucore.Extent{Width: 2, Height: 2}
	sc.free = []*pooledImage{
		{img: stale, extent: gpucore.Extent{Width: 1, Height: 1}, usage: gpucore.ImageUsageRender},
		{img: fresh, extent: wantExtent, usage: gpucore.ImageUsageRender},
	}
	sc.Reconfigure(wantExtent, gpucore.ImageUsageRender)

	got, err := sc.Acquire(nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got != fresh {
		t.Errorf("Acquire returned the wrong image; mismatched entries should have been dropped")
	}
	if sc.InFlight() != 1 {
		t.Errorf("InFlight() = %d, want 1", sc.InFlight())
	}
}

func TestSwapchainAcquireReturnsNilAtCapacity(t *testing.T) {
	g := newTestGpu(t)
	sc := NewSwapchain(g, 1)
	sc.inFlight = 1

	got, err := sc.Acquire(nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got != nil {
		t.Errorf("Acquire() = %v, want nil when at capacity with no free image", got)
	}
}

func TestSwapchainAcquireDropsExcessFreeImagesNewestFirst(t *testing.T) {
	g := newTestGpu(t)
	extent := gpucore.Extent{Width: 4, Height: 4}
	older := newTestImage(t, g, extent)
	newer := newTestImage(t, g, extent)

	sc := NewSwapchain(g, 1)
	sc.Reconfigure(extent, gpucore.ImageUsageRender)
	sc.free = []*pooledImage{
		{img: older, extent: extent, usage: gpucore.ImageUsageRender},
		{img: newer, extent: extent, usage: gpucore.ImageUsageRender},
	}

	got, err := sc.Acquire(nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got != older {
		t.Errorf("Acquire should keep the older free image and drop the newest excess one")
	}
}

type fakeOutput struct {
	extent   gpucore.Extent
	commits  int
	lastFlag backend.CommitFlags
}

func (f *fakeOutput) Name() string               { return "fake" }
func (f *fakeOutput) Extent() gpucore.Extent      { return f.extent }
func (f *fakeOutput) Commit(img *gpucore.Image, acquire, release gpucore.Syncpoint, flags backend.CommitFlags) error {
	f.commits++
	f.lastFlag = flags
	return nil
}

func TestSwapchainPresentReleasesImageOnSemaphoreSignal(t *testing.T) {
	g := newTestGpu(t)
	extent := gpucore.Extent{Width: 4, Height: 4}
	sc := NewSwapchain(g, 2)
	sc.Reconfigure(extent, gpucore.ImageUsageRender)

	img := newTestImage(t, g, extent)
	sc.inFlight = 1

	out := &fakeOutput{extent: extent}
	released := false
	err := sc.Present(out, img, gpucore.Syncpoint{}, backend.CommitVSync, func() { released = true })
	if err != nil {
		t.Fatalf("Present: %v", err)
	}
	if out.commits != 1 {
		t.Errorf("backend Commit called %d times, want 1", out.commits)
	}
	if out.lastFlag != backend.CommitVSync {
		t.Errorf("Commit flags = %v, want CommitVSync", out.lastFlag)
	}

	slot := sc.slots[0]
	slot.sema.SignalValue(slot.point)

	if !released {
		t.Errorf("onReleased callback was not invoked after semaphore signal")
	}
	if sc.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0 after release", sc.InFlight())
	}
	if len(sc.free) != 1 || sc.free[0].img != img {
		t.Errorf("released image should return to the free pool")
	}
}
