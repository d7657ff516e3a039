package protocol

import (
	"testing"

	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/wire"
)

func TestDmabufParamsAddAccumulatesPlanesAndModifier(t *testing.T) {
	c, _ := newTestClient(t)
	p := &dmabufParamsResource{id: 1, gpu: &gpucore.Gpu{}}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutFD(0)
		b.PutUint(0)      // plane index
		b.PutUint(128)    // offset
		b.PutUint(4096)   // stride
		b.PutUint(0)      // modifier hi
		b.PutUint(1)      // modifier lo
	})

	if err := p.Dispatch(c, paramsRequestAdd, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(p.planes) != 1 {
		t.Fatalf("got %d planes, want 1", len(p.planes))
	}
	if p.planes[0].Offset != 128 || p.planes[0].Stride != 4096 {
		t.Errorf("plane = %+v, want offset=128 stride=4096", p.planes[0])
	}
	if p.mod != 1 {
		t.Errorf("mod = %d, want 1", p.mod)
	}
}

func TestDmabufParamsCreateRejectsNonImmediate(t *testing.T) {
	c, _ := newTestClient(t)
	p := &dmabufParamsResource{id: 1, gpu: &gpucore.Gpu{}}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutInt(640)
		b.PutInt(480)
		b.PutUint(dmabufFormatABGR8888)
		b.PutUint(0)
	})

	if err := p.Dispatch(c, paramsRequestCreate, args); err == nil {
		t.Fatal("expected create() (non-immediate) to be rejected")
	}
}

func TestDmabufParamsCreateImmedRejectsUnsupportedFormat(t *testing.T) {
	c, _ := newTestClient(t)
	p := &dmabufParamsResource{id: 1, gpu: &gpucore.Gpu{}}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutInt(640)
		b.PutInt(480)
		b.PutUint(0x11111111) // not DRM_FORMAT_ABGR8888
		b.PutUint(0)
	})

	if err := p.Dispatch(c, paramsRequestCreateImmed, args); err == nil {
		t.Fatal("expected create_immed with an unsupported format to be rejected")
	}
	if !p.used {
		t.Errorf("params should be marked used even when the format check rejects it")
	}
}

func TestDmabufParamsCreateImmedRejectsReuse(t *testing.T) {
	c, _ := newTestClient(t)
	p := &dmabufParamsResource{id: 1, gpu: &gpucore.Gpu{}, used: true}

	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutInt(640)
		b.PutInt(480)
		b.PutUint(dmabufFormatABGR8888)
		b.PutUint(0)
	})

	if err := p.Dispatch(c, paramsRequestCreateImmed, args); err == nil {
		t.Fatal("expected create_immed on already-used params to be rejected")
	}
}
