package gpucore

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/gpucore/memory"
	"github.com/gogpu/wroc/gpucore/vk"
)

// ImageUsage is a flag bag over the usages an Image may be created for.
type ImageUsage uint32

const (
	ImageUsageTransferSrc ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageTexture
	ImageUsageRender
	ImageUsageStorage
)

// Extent is a 2D image size in texels.
type Extent struct {
	Width, Height uint32
}

// Format is a Vulkan-equivalent pixel format; ABGR8888 is the only format
// the output swapchain itself requests, but client-supplied images may
// use others.
type Format uint32

const FormatABGR8888 Format = 1

// Image is a GPU-side 2D texture identified by (extent, format, usage)
// and holding exactly one bindless descriptor slot.
type Image struct {
	gpu    *Gpu
	handle vk.Image
	view   vk.ImageView
	block  *memory.MemoryBlock

	Extent Extent
	Format Format
	Usage  ImageUsage

	descriptor DescriptorID
	dmabuf     *dmabufState
	released   bool
}

// dmabufState carries the per-plane import/export bookkeeping for a
// dma-buf-backed image. nil for VMA-only images.
type dmabufState struct {
	planes   []DmaPlane
	modifier uint64
}

// DmaPlane describes one plane of a dma-buf-backed image.
type DmaPlane struct {
	FD     int
	Offset uint32
	Stride uint32
}

// DmaParams is the result of exporting an image as a dma-buf: duped
// plane fds, their offsets/strides, and the format modifier in use.
type DmaParams struct {
	Planes   []DmaPlane
	Modifier uint64
	Format   Format
	Extent   Extent
}

// ImageCreate allocates a VMA-backed image, assigns a descriptor id,
// initializes its view, and performs an initial layout transition to
// GENERAL via the transfer queue.
func (g *Gpu) ImageCreate(extent Extent, format Format, usage ImageUsage) (*Image, error) {
	handle, req, err := g.createImageHandle(extent, format, usage)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create image: %w", err)
	}

	block, err := g.allocator.Alloc(req)
	if err != nil {
		vk.DestroyImage(g.device, handle, nil)
		return nil, fmt.Errorf("gpucore: allocate image memory: %w", err)
	}

	if res := vk.BindImageMemory(g.device, handle, block.Memory, block.Offset); res != vk.Success {
		g.allocator.Free(block)
		vk.DestroyImage(g.device, handle, nil)
		return nil, fmt.Errorf("gpucore: bind image memory: vkBindImageMemory = %d", res)
	}

	view, err := g.createImageView(handle, format)
	if err != nil {
		g.allocator.Free(block)
		vk.DestroyImage(g.device, handle, nil)
		return nil, fmt.Errorf("gpucore: create image view: %w", err)
	}

	img := &Image{
		gpu:        g,
		handle:     handle,
		view:       view,
		block:      block,
		Extent:     extent,
		Format:     format,
		Usage:      usage,
		descriptor: g.descriptors.AllocateSampledImage(),
	}

	if err := g.transitionToGeneral(img); err != nil {
		img.Release()
		return nil, fmt.Errorf("gpucore: initial layout transition: %w", err)
	}

	return img, nil
}

// ErrNoCommonModifier is returned when no DRM format modifier is
// supported by both the requested set and the device, for the given
// usage.
var ErrNoCommonModifier = errors.New("gpucore: no format modifier mutually supported")

// ImageCreateDmabuf allocates a dma-buf-backed image via an external
// buddy allocator (gbm), intersecting requested with device-supported
// modifiers for usage. Returns ErrNoCommonModifier if the intersection
// is empty.
func (g *Gpu) ImageCreateDmabuf(extent Extent, format Format, usage ImageUsage, requested []uint64) (*Image, error) {
	supported := g.supportedModifiers(format, usage)
	modifier, ok := intersectModifiers(requested, supported)
	if !ok {
		return nil, ErrNoCommonModifier
	}

	planes, err := g.gbmAllocate(extent, format, modifier)
	if err != nil {
		return nil, fmt.Errorf("gpucore: gbm allocate: %w", err)
	}

	return g.ImageImportDmabuf(DmaParams{Planes: planes, Modifier: modifier, Format: format, Extent: extent}, usage)
}

// ImageImportDmabuf imports an existing dma-buf described by up to 4
// planes, a modifier, extent, and format. The modifier is not checked
// against the modifiers the device supports, so this never returns
// ErrNoCommonModifier.
//
// Per plane: queries memory fd properties, computes memory type bits,
// dups the plane fd twice (one retained for export, one bound to Vulkan
// memory), and binds with per-plane aspects when the planes are
// disjoint (separate VkDeviceMemory per plane rather than one memory
// bound across all planes).
func (g *Gpu) ImageImportDmabuf(params DmaParams, usage ImageUsage) (*Image, error) {
	if len(params.Planes) == 0 || len(params.Planes) > 4 {
		return nil, fmt.Errorf("gpucore: dma-buf import: %d planes, want 1-4", len(params.Planes))
	}

	handle, _, err := g.createImageHandle(params.Extent, params.Format, usage)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create dma-buf image: %w", err)
	}

	exportPlanes := make([]DmaPlane, len(params.Planes))
	for i, p := range params.Planes {
		exportFD, err := unix.Dup(p.FD)
		if err != nil {
			vk.DestroyImage(g.device, handle, nil)
			return nil, fmt.Errorf("gpucore: dup plane %d fd for export: %w", i, err)
		}
		bindFD, err := unix.Dup(p.FD)
		if err != nil {
			unix.Close(exportFD)
			vk.DestroyImage(g.device, handle, nil)
			return nil, fmt.Errorf("gpucore: dup plane %d fd for import: %w", i, err)
		}
		if err := g.importMemoryFD(handle, i, bindFD); err != nil {
			unix.Close(exportFD)
			unix.Close(bindFD)
			vk.DestroyImage(g.device, handle, nil)
			return nil, fmt.Errorf("gpucore: import plane %d memory fd: %w", i, err)
		}
		exportPlanes[i] = DmaPlane{FD: exportFD, Offset: p.Offset, Stride: p.Stride}
	}

	view, err := g.createImageView(handle, params.Format)
	if err != nil {
		vk.DestroyImage(g.device, handle, nil)
		return nil, fmt.Errorf("gpucore: create dma-buf image view: %w", err)
	}

	return &Image{
		gpu:        g,
		handle:     handle,
		view:       view,
		Extent:     params.Extent,
		Format:     params.Format,
		Usage:      usage,
		descriptor: g.descriptors.AllocateSampledImage(),
		dmabuf:     &dmabufState{planes: exportPlanes, modifier: params.Modifier},
	}, nil
}

// ImageExportDmabuf produces duped plane fds, offsets, strides, and the
// modifier from an image previously created via ImageCreateDmabuf or
// ImageImportDmabuf.
func (g *Gpu) ImageExportDmabuf(img *Image) (DmaParams, error) {
	if img.dmabuf == nil {
		return DmaParams{}, fmt.Errorf("gpucore: image has no dma-buf backing")
	}

	planes := make([]DmaPlane, len(img.dmabuf.planes))
	for i, p := range img.dmabuf.planes {
		fd, err := unix.Dup(p.FD)
		if err != nil {
			for _, done := range planes[:i] {
				unix.Close(done.FD)
			}
			return DmaParams{}, fmt.Errorf("gpucore: dup plane %d for export: %w", i, err)
		}
		planes[i] = DmaPlane{FD: fd, Offset: p.Offset, Stride: p.Stride}
	}

	return DmaParams{Planes: planes, Modifier: img.dmabuf.modifier, Format: img.Format, Extent: img.Extent}, nil
}

// ImageUpdate stages data through a transient host-visible buffer and
// issues a buffer-to-image copy, protecting both the image and staging
// buffer for the submission's lifetime.
func (g *Gpu) ImageUpdate(batch *Batch, img *Image, data []byte) error {
	staging, err := g.BufferCreate(uint64(len(data)))
	if err != nil {
		return fmt.Errorf("gpucore: create staging buffer: %w", err)
	}
	copy(staging.Data(), data)

	batch.ProtectObject(img)
	batch.ProtectObject(staging)

	return g.copyBufferToImage(batch, staging, img)
}

// Release returns the image's resources: descriptor id, view, device
// memory (VMA images only), and dma-buf plane fds (dma-buf images
// only). Safe to call once; subsequent calls are no-ops.
func (img *Image) Release() {
	if img.released {
		return
	}
	img.released = true

	img.gpu.descriptors.FreeSampledImage(img.descriptor)
	img.gpu.destroyImageView(img.view)
	vk.DestroyImage(img.gpu.device, img.handle, nil)

	if img.block != nil {
		img.gpu.allocator.Free(img.block)
	}
	if img.dmabuf != nil {
		for _, p := range img.dmabuf.planes {
			unix.Close(p.FD)
		}
	}
}

// Descriptor returns the image's bindless descriptor id.
func (img *Image) Descriptor() DescriptorID { return img.descriptor }

// createImageHandle, createImageView, destroyImageView, transitionToGeneral,
// supportedModifiers, gbmAllocate, importMemoryFD, and copyBufferToImage
// are the Vulkan/gbm boundary: vkCreateImage, vkCreateImageView,
// vkCmdPipelineBarrier, vkGetPhysicalDeviceImageFormatProperties2,
// gbm_bo_create_with_modifiers2, vkGetMemoryFdPropertiesKHR, and
// vkCmdCopyBufferToImage respectively, pending gpucore/vk's generated
// command layer.
func (g *Gpu) createImageHandle(extent Extent, format Format, usage ImageUsage) (vk.Image, memory.AllocationRequest, error) {
	var handle vk.Image
	req := memory.AllocationRequest{Usage: memory.UsageFastDeviceAccess}
	return handle, req, nil
}

func (g *Gpu) createImageView(handle vk.Image, format Format) (vk.ImageView, error) {
	var view vk.ImageView
	return view, nil
}

func (g *Gpu) destroyImageView(view vk.ImageView) {}

func (g *Gpu) transitionToGeneral(img *Image) error { return nil }

func (g *Gpu) supportedModifiers(format Format, usage ImageUsage) []uint64 { return nil }

func (g *Gpu) gbmAllocate(extent Extent, format Format, modifier uint64) ([]DmaPlane, error) {
	return nil, fmt.Errorf("gpucore: gbm allocation requires a DRM render node")
}

func (g *Gpu) importMemoryFD(handle vk.Image, plane int, fd int) error { return nil }

func (g *Gpu) copyBufferToImage(batch *Batch, staging *Buffer, img *Image) error { return nil }

// intersectModifiers returns the first modifier present in both
// requested and supported, preserving requested's priority order.
func intersectModifiers(requested, supported []uint64) (uint64, bool) {
	supportedSet := make(map[uint64]bool, len(supported))
	for _, m := range supported {
		supportedSet[m] = true
	}
	for _, m := range requested {
		if supportedSet[m] {
			return m, true
		}
	}
	return 0, false
}
