package output

import (
	"testing"

	"github.com/gogpu/wroc/gpucore"
)

type fakeRedrawer struct {
	calls int
	point uint64
}

func (f *fakeRedrawer) Redraw(img *gpucore.Image) (gpucore.Syncpoint, error) {
	f.calls++
	return gpucore.Syncpoint{}, nil
}

func TestOutputTryRedrawNoopWithoutFrameRequested(t *testing.T) {
	g := newTestGpu(t)
	out := &fakeOutput{extent: gpucore.Extent{Width: 800, Height: 600}}
	r := &fakeRedrawer{}
	o := NewOutput("test", out, g, 2, nil, r)

	if err := o.TryRedraw(); err != nil {
		t.Fatalf("TryRedraw: %v", err)
	}
	if r.calls != 0 {
		t.Errorf("Redraw called %d times, want 0 (no frame was requested)", r.calls)
	}
}

func TestOutputTryRedrawDefersOnZeroExtent(t *testing.T) {
	g := newTestGpu(t)
	out := &fakeOutput{extent: gpucore.Extent{Width: 0, Height: 0}}
	r := &fakeRedrawer{}
	o := NewOutput("test", out, g, 2, nil, r)

	o.RequestFrame()

	if r.calls != 0 {
		t.Errorf("Redraw called %d times, want 0 (output has zero size)", r.calls)
	}
	if !o.frameRequested {
		t.Errorf("frame_requested should remain set so the attempt can retry once the output gets a size")
	}
}

func TestOutputRequestFrameDefersWhenCommitUnavailable(t *testing.T) {
	g := newTestGpu(t)
	out := &fakeOutput{extent: gpucore.Extent{Width: 800, Height: 600}}
	r := &fakeRedrawer{}
	o := NewOutput("test", out, g, 2, nil, r)
	o.commitAvailable = false

	o.RequestFrame()

	if r.calls != 0 {
		t.Errorf("Redraw called %d times, want 0 (previous commit has not completed)", r.calls)
	}
}
