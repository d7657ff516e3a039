package gpucore

import "testing"

func TestSamplerCreateAssignsDescriptorAndReleaseIsIdempotent(t *testing.T) {
	g := newTestGpu(t)

	s, err := g.SamplerCreate(FilterLinear, FilterLinear)
	if err != nil {
		t.Fatalf("SamplerCreate: %v", err)
	}
	if s.Descriptor() == invalidDescriptorID {
		t.Errorf("SamplerCreate should assign a valid descriptor id")
	}

	s.Release()
	s.Release() // must not panic or double-free

	s2, err := g.SamplerCreate(FilterNearest, FilterNearest)
	if err != nil {
		t.Fatalf("SamplerCreate: %v", err)
	}
	if s2.Descriptor() != s.Descriptor() {
		t.Errorf("freed descriptor id should be reused by the next allocation")
	}
}
