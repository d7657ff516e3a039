package gpucore

import (
	"fmt"

	"github.com/gogpu/wroc/gpucore/vk"
)

// Filter selects the texel filtering mode for a Sampler.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Sampler samples an Image in a shader. The compositor only needs a
// single fixed sampling policy (clamp-to-transparent-black, no
// anisotropy) parameterized by mag/min filter.
type Sampler struct {
	gpu        *Gpu
	handle     vk.Sampler
	descriptor DescriptorID
	released   bool
}

// SamplerCreate creates a clamp-to-transparent-black sampler with no
// anisotropy and assigns it a descriptor id.
func (g *Gpu) SamplerCreate(mag, min Filter) (*Sampler, error) {
	handle, err := g.createSamplerHandle(mag, min)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create sampler: %w", err)
	}

	return &Sampler{
		gpu:        g,
		handle:     handle,
		descriptor: g.descriptors.AllocateSampler(),
	}, nil
}

// Descriptor returns the sampler's bindless descriptor id.
func (s *Sampler) Descriptor() DescriptorID { return s.descriptor }

// Release returns the sampler's descriptor id and destroys its handle.
// Safe to call once; subsequent calls are no-ops.
func (s *Sampler) Release() {
	if s.released {
		return
	}
	s.released = true
	s.gpu.descriptors.FreeSampler(s.descriptor)
	s.gpu.destroySampler(s.handle)
}

// createSamplerHandle and destroySampler are the Vulkan boundary:
// vkCreateSampler/vkDestroySampler with VK_SAMPLER_ADDRESS_MODE_CLAMP_TO_BORDER
// and VK_BORDER_COLOR_FLOAT_TRANSPARENT_BLACK, pending gpucore/vk's
// generated command layer.
func (g *Gpu) createSamplerHandle(mag, min Filter) (vk.Sampler, error) {
	var handle vk.Sampler
	return handle, nil
}

func (g *Gpu) destroySampler(handle vk.Sampler) {}
