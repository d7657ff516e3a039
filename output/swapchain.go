// Package output maintains the client-invisible GPU image pool used for
// rendering and dispatches presentation to a backend.Output, implementing
// the acquire/present/redraw-gate algorithm.
package output

import (
	"fmt"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/gpucore"
)

// pooledImage pairs a free image with the (extent, usage) it was created
// for, since gpucore.Image does not expose its own creation parameters.
type pooledImage struct {
	img    *gpucore.Image
	extent gpucore.Extent
	usage  gpucore.ImageUsage
}

func (p *pooledImage) matches(extent gpucore.Extent, usage gpucore.ImageUsage) bool {
	return p.extent == extent && p.usage == usage
}

// releaseSlot is one (semaphore, release_point) pair a present dispatches
// against; once the backend signals release_point reached, the image
// that occupied it returns to the free pool.
type releaseSlot struct {
	sema  *gpucore.Semaphore
	point uint64
	free  bool
}

// Swapchain is the pool of dma-buf images an Output draws into and
// presents, plus the release slots tracking in-flight presents (spec
// §4.3).
type Swapchain struct {
	gpu       *gpucore.Gpu
	maxImages int

	extent gpucore.Extent
	usage  gpucore.ImageUsage

	free     []*pooledImage
	inFlight int
	slots    []*releaseSlot
}

// NewSwapchain creates an empty pool bounded at maxImages total
// (free+in-flight). maxImages <= 0 defaults to 2 (spec.md §3.1 Config
// default).
func NewSwapchain(gpu *gpucore.Gpu, maxImages int) *Swapchain {
	if maxImages <= 0 {
		maxImages = 2
	}
	return &Swapchain{gpu: gpu, maxImages: maxImages}
}

// Reconfigure updates the requested (extent, usage). The next Acquire
// drops any pooled image that no longer matches.
func (sc *Swapchain) Reconfigure(extent gpucore.Extent, usage gpucore.ImageUsage) {
	sc.extent = extent
	sc.usage = usage
}

// Acquire implements the acquire algorithm (spec §4.3):
//  1. drop free images whose (extent, usage) no longer match;
//  2. if in-flight+free exceeds max_images, drop excess free images,
//     newest first;
//  3. if no free image and in-flight >= max_images, return (nil, nil) —
//     the caller must wait for a release;
//  4. otherwise pop a free image or allocate a fresh dma-buf image;
//  5. increment images_in_flight.
func (sc *Swapchain) Acquire(modifiers []uint64) (*gpucore.Image, error) {
	kept := sc.free[:0]
	for _, p := range sc.free {
		if p.matches(sc.extent, sc.usage) {
			kept = append(kept, p)
		} else {
			p.img.Release()
		}
	}
	sc.free = kept

	for sc.inFlight+len(sc.free) > sc.maxImages && len(sc.free) > 0 {
		last := len(sc.free) - 1
		sc.free[last].img.Release()
		sc.free = sc.free[:last]
	}

	if len(sc.free) == 0 && sc.inFlight >= sc.maxImages {
		return nil, nil
	}

	var img *gpucore.Image
	if len(sc.free) > 0 {
		last := len(sc.free) - 1
		img = sc.free[last].img
		sc.free = sc.free[:last]
	} else {
		var err error
		img, err = sc.gpu.ImageCreateDmabuf(sc.extent, gpucore.FormatABGR8888, sc.usage, modifiers)
		if err != nil {
			return nil, fmt.Errorf("output: acquire: %w", err)
		}
	}

	sc.inFlight++
	return img, nil
}

// Present implements the present algorithm (spec §4.3): find or create a
// free release slot, dispatch to the backend, and register an async wait
// that returns img to the free pool once release_point is reached,
// decrements in-flight, and invokes onReleased (the caller's try_redraw
// retry hook).
func (sc *Swapchain) Present(out backend.Output, img *gpucore.Image, acquire gpucore.Syncpoint, flags backend.CommitFlags, onReleased func()) error {
	slot := sc.findOrCreateSlot()
	if slot.sema == nil {
		return fmt.Errorf("output: present: no release semaphore available")
	}
	slot.free = false
	slot.point++
	point := slot.point

	release := gpucore.Syncpoint{Sema: slot.sema, Value: point}
	if err := out.Commit(img, acquire, release, flags); err != nil {
		slot.free = true
		return fmt.Errorf("output: present: %w", err)
	}

	slot.sema.WaitValueAsync(point, func(uint64) {
		slot.free = true
		sc.free = append(sc.free, &pooledImage{img: img, extent: sc.extent, usage: sc.usage})
		sc.inFlight--
		if onReleased != nil {
			onReleased()
		}
	})
	return nil
}

func (sc *Swapchain) findOrCreateSlot() *releaseSlot {
	for _, s := range sc.slots {
		if s.free {
			return s
		}
	}
	sema, err := sc.gpu.CreateSemaphore()
	if err != nil {
		// Semaphore creation failed: reuse the first existing slot, even
		// one still in flight. With no slot at all, return one without a
		// semaphore, which Present rejects with an error.
		if len(sc.slots) > 0 {
			return sc.slots[0]
		}
		return &releaseSlot{free: true}
	}
	slot := &releaseSlot{sema: sema, free: true}
	sc.slots = append(sc.slots, slot)
	return slot
}

// InFlight reports the current images_in_flight count, for diagnostics
// and tests.
func (sc *Swapchain) InFlight() int { return sc.inFlight }
