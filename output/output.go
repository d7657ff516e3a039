package output

import (
	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/gpucore"
)

// Redrawer renders into an acquired image and returns the syncpoint the
// backend must wait on before reading it. The scene/renderer layer
// implements this; Output only handles acquire/present/redraw-gate
// bookkeeping.
type Redrawer interface {
	Redraw(img *gpucore.Image) (gpucore.Syncpoint, error)
}

// Output pairs one backend.Output with its swapchain and the
// frame_requested/commit_available bits that gate redraw attempts (spec
// §4.3).
type Output struct {
	Name string

	backend   backend.Output
	swapchain *Swapchain
	modifiers []uint64
	redrawer  Redrawer

	frameRequested  bool
	commitAvailable bool

	// OnPresentComplete, if set, is invoked once a present's release
	// syncpoint is reached — the point at which the surfaces composited
	// into that frame should fire their wl_surface.frame callbacks
	// (spec.md "frame callbacks fire after present completes"). Wired by
	// server.go, which knows which surfaces were composited this frame;
	// Output itself tracks no surface state.
	OnPresentComplete func()
}

// NewOutput wraps be with an image pool bounded at maxImages, drawing
// through r. modifiers lists the DRM format modifiers the backend accepts
// for dma-buf images (empty means linear-only).
func NewOutput(name string, be backend.Output, gpu *gpucore.Gpu, maxImages int, modifiers []uint64, r Redrawer) *Output {
	o := &Output{
		Name:            name,
		backend:         be,
		swapchain:       NewSwapchain(gpu, maxImages),
		modifiers:       modifiers,
		redrawer:        r,
		commitAvailable: true,
	}
	o.swapchain.Reconfigure(be.Extent(), gpucore.ImageUsageRender)
	return o
}

// RequestFrame marks a frame as wanted (a client committed, or the scene
// graph requested a redraw) and immediately attempts one.
func (o *Output) RequestFrame() {
	o.frameRequested = true
	o.TryRedraw()
}

// TryRedraw attempts one redraw+present cycle. It proceeds only when
// frame_requested, commit_available, the output has a non-zero size, and
// Acquire returns an image; otherwise the attempt is deferred until the
// next RequestFrame call or the release callback Present runs once a
// presented image is released (spec §4.3 Redraw gating).
func (o *Output) TryRedraw() error {
	if !o.frameRequested || !o.commitAvailable {
		return nil
	}

	extent := o.backend.Extent()
	if extent.Width == 0 || extent.Height == 0 {
		return nil
	}
	o.swapchain.Reconfigure(extent, gpucore.ImageUsageRender)

	img, err := o.swapchain.Acquire(o.modifiers)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}

	acquire, err := o.redrawer.Redraw(img)
	if err != nil {
		return err
	}

	o.frameRequested = false
	o.commitAvailable = false

	return o.swapchain.Present(o.backend, img, acquire, backend.CommitVSync, func() {
		o.commitAvailable = true
		if o.OnPresentComplete != nil {
			o.OnPresentComplete()
		}
		o.TryRedraw()
	})
}

// InFlight reports the swapchain's images_in_flight count.
func (o *Output) InFlight() int { return o.swapchain.InFlight() }
