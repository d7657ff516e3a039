package gpucore

import (
	"sync"

	"github.com/gogpu/wroc/internal/obslog"
)

// DescriptorID identifies a slot in one of the GPU context's bindless
// descriptor arrays. 0 is reserved as "invalid" — never a live allocation.
type DescriptorID uint32

const invalidDescriptorID DescriptorID = 0

// descriptorKind names which of the three bindless arrays an allocator
// serves, purely for logging on exhaustion.
type descriptorKind string

const (
	kindSampledImage descriptorKind = "sampled_image"
	kindStorageImage descriptorKind = "storage_image"
	kindSampler      descriptorKind = "sampler"
)

// descriptorAllocator hands out DescriptorIDs for one bindless array. Ids
// are drawn from a freelist first, falling back to a bump counter
// starting at 1; freed ids return to the freelist. Allocation never fails
// below capacity; at capacity it logs and returns invalidDescriptorID, a
// non-fatal resource-exhaustion condition (spec §7).
type descriptorAllocator struct {
	mu       sync.Mutex
	kind     descriptorKind
	capacity uint32
	next     uint32 // bump counter; first allocation returns 1
	freelist []DescriptorID
}

func newDescriptorAllocator(kind descriptorKind, capacity uint32) *descriptorAllocator {
	return &descriptorAllocator{kind: kind, capacity: capacity, next: 1}
}

func (a *descriptorAllocator) allocate() DescriptorID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.freelist); n > 0 {
		id := a.freelist[n-1]
		a.freelist = a.freelist[:n-1]
		return id
	}

	if a.next > a.capacity {
		obslog.Get().Warn("descriptor allocator exhausted",
			"kind", string(a.kind), "capacity", a.capacity)
		return invalidDescriptorID
	}

	id := DescriptorID(a.next)
	a.next++
	return id
}

func (a *descriptorAllocator) free(id DescriptorID) {
	if id == invalidDescriptorID {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.freelist = append(a.freelist, id)
}

// descriptorCapacitySampledImage, descriptorCapacityStorageImage, and
// descriptorCapacitySampler are the fixed bindless array sizes: two large
// image arrays and a small sampler array, matching the UPDATE_AFTER_BIND
// descriptor pool sized at GPU context creation.
const (
	descriptorCapacitySampledImage = 65536
	descriptorCapacityStorageImage = 65536
	descriptorCapacitySampler      = 16
)

// Descriptors owns the three bindless descriptor allocators (sampled
// image, storage image, sampler) backing a single descriptor set bound
// once at pipeline-layout-creation time and updated thereafter via
// UPDATE_AFTER_BIND / PARTIALLY_BOUND writes.
type Descriptors struct {
	sampledImage *descriptorAllocator
	storageImage *descriptorAllocator
	sampler      *descriptorAllocator
}

func newDescriptors() *Descriptors {
	return &Descriptors{
		sampledImage: newDescriptorAllocator(kindSampledImage, descriptorCapacitySampledImage),
		storageImage: newDescriptorAllocator(kindStorageImage, descriptorCapacityStorageImage),
		sampler:      newDescriptorAllocator(kindSampler, descriptorCapacitySampler),
	}
}

// AllocateSampledImage allocates a sampled-image descriptor id.
func (d *Descriptors) AllocateSampledImage() DescriptorID { return d.sampledImage.allocate() }

// FreeSampledImage returns a sampled-image descriptor id to the freelist.
func (d *Descriptors) FreeSampledImage(id DescriptorID) { d.sampledImage.free(id) }

// AllocateStorageImage allocates a storage-image descriptor id.
func (d *Descriptors) AllocateStorageImage() DescriptorID { return d.storageImage.allocate() }

// FreeStorageImage returns a storage-image descriptor id to the freelist.
func (d *Descriptors) FreeStorageImage(id DescriptorID) { d.storageImage.free(id) }

// AllocateSampler allocates a sampler descriptor id.
func (d *Descriptors) AllocateSampler() DescriptorID { return d.sampler.allocate() }

// FreeSampler returns a sampler descriptor id to the freelist.
func (d *Descriptors) FreeSampler(id DescriptorID) { d.sampler.free(id) }
