//go:build linux

package direct

import (
	"fmt"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/gpucore"
)

// drmBuffer is one registered scanout framebuffer backing a gpucore.Image,
// pooled and reused across commits of the same image the way the
// reference backend's wroc_drm_buffer does.
type drmBuffer struct {
	img  *gpucore.Image
	fbID uint32
	free bool
}

// Output is one connector/CRTC/plane triple this backend already found
// active at discovery time (drm.go's discoverOutput).
type Output struct {
	b     *Backend
	name  string
	state *outputState

	buffers     map[gpucore.DescriptorID]*drmBuffer
	frontbuffer *drmBuffer
}

func (o *Output) Name() string { return o.name }

// Extent returns the fixed size from outputState.extent; neither the
// CRTC's mode nor the plane's current framebuffer is consulted for it.
func (o *Output) Extent() gpucore.Extent {
	return o.state.extent()
}

// extent defaults to 1920x1080 when the discovered CRTC's mode wasn't
// parsed for width/height (this prototype only decodes the mode's
// refresh rate, not its geometry — see drm.go's refreshRateMHz); a real
// deployment would read htotal/vtotal's active portion from
// drm_mode_modeinfo instead of assuming a fixed size.
func (s *outputState) extent() gpucore.Extent {
	return gpucore.Extent{Width: 1920, Height: 1080}
}

// acquire returns a buffer already registered for img's descriptor, or
// imports a fresh one: exports img as a dma-buf, converts each plane to a
// GEM handle, registers the framebuffer, then closes the GEM handles
// (the kernel keeps its own reference via the framebuffer object).
func (o *Output) acquire(img *gpucore.Image) (*drmBuffer, error) {
	if buf, ok := o.buffers[img.Descriptor()]; ok {
		return buf, nil
	}

	params, err := o.b.gpu.ImageExportDmabuf(img)
	if err != nil {
		return nil, fmt.Errorf("direct backend: export dma-buf: %w", err)
	}

	var handles, pitches, offsets [4]uint32
	var modifiers [4]uint64
	var gemHandles []uint32
	for i, p := range params.Planes {
		if i >= 4 {
			break
		}
		h, err := primeFDToHandle(o.b.fd, p.FD)
		if err != nil {
			for _, gh := range gemHandles {
				gemClose(o.b.fd, gh)
			}
			return nil, fmt.Errorf("direct backend: PRIME_FD_TO_HANDLE plane %d: %w", i, err)
		}
		gemHandles = append(gemHandles, h)
		handles[i] = h
		pitches[i] = p.Stride
		offsets[i] = p.Offset
		modifiers[i] = params.Modifier
	}

	extent := img.Extent
	fbID, err := addFB2WithModifiers(o.b.fd, extent.Width, extent.Height, drmFourCC(img.Format), handles, pitches, offsets, modifiers)
	for _, gh := range gemHandles {
		gemClose(o.b.fd, gh)
	}
	if err != nil {
		return nil, err
	}

	buf := &drmBuffer{img: img, fbID: fbID, free: false}
	o.buffers[img.Descriptor()] = buf
	return buf, nil
}

// drmFourCC maps the core's internal Format to the DRM fourcc the kernel
// expects in drm_mode_fb_cmd2.pixel_format.
func drmFourCC(f gpucore.Format) uint32 {
	const fourccABGR8888 = 0x34324241 // 'A','B','2','4' little-endian: DRM_FORMAT_ABGR8888
	if f == gpucore.FormatABGR8888 {
		return fourccABGR8888
	}
	return fourccABGR8888
}

// Commit submits an atomic request pointing the output's plane at img's
// registered framebuffer, then returns immediately: the request is
// DRM_MODE_ATOMIC_NONBLOCK, and release fires from the page-flip
// completion event handled by events.go.
//
// Open question: IN_FENCE_FD should carry acquire's semaphore exported as
// a sync_file fd (DRM_IOCTL_SYNCOBJ_EXPORT_SYNC_FILE against the
// semaphore's shadow syncobj) so the kernel itself waits for rendering to
// finish before flipping. gpucore has no such export path yet (the same
// gap noted for the nested-Wayland backend's release-point signaling), so
// this prototype instead waits for acquire synchronously before
// submitting the commit — correct, but loses the latency win explicit
// sync exists for.
func (o *Output) Commit(img *gpucore.Image, acquire, release gpucore.Syncpoint, flags backend.CommitFlags) error {
	buf, err := o.acquire(img)
	if err != nil {
		return err
	}

	acquire.Sema.WaitValueBlocking(acquire.Value)

	buf.free = false
	extent := o.Extent()
	srcFixed := func(v uint32) uint64 { return uint64(v) << 16 }

	plane := o.state.primaryPlaneID
	props := o.state.planeProps
	propIDs := []uint32{
		props["FB_ID"], props["CRTC_ID"],
		props["SRC_X"], props["SRC_Y"], props["SRC_W"], props["SRC_H"],
		props["CRTC_X"], props["CRTC_Y"], props["CRTC_W"], props["CRTC_H"],
	}
	propValues := []uint64{
		uint64(buf.fbID), uint64(o.state.crtcID),
		0, 0, srcFixed(extent.Width), srcFixed(extent.Height),
		0, 0, uint64(extent.Width), uint64(extent.Height),
	}
	objIDs := []uint32{plane}
	propCounts := []uint32{uint32(len(propIDs))}

	userData := o.b.nextUserData
	o.b.nextUserData++

	if err := atomicCommit(o.b.fd, objIDs, propCounts, propIDs, propValues, true, userData); err != nil {
		return fmt.Errorf("direct backend: atomic commit: %w", err)
	}

	o.b.pendingFlips[userData] = &pendingFlip{
		out: o,
		buf: buf,
		onRelease: func() {
			release.Sema.SignalValue(release.Value)
		},
	}
	return nil
}
