package gpucore

import (
	"errors"
	"fmt"

	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore/memory"
	"github.com/gogpu/wroc/gpucore/vk"
	"github.com/gogpu/wroc/internal/obslog"
)

// Feature names one of the device capabilities Create can require.
type Feature string

const (
	FeatureValidation            Feature = "validation"
	FeatureTimelineSemaphores    Feature = "timeline_semaphores"
	FeatureExternalMemoryFD      Feature = "external_memory_fd"
	FeatureDRMFormatModifiers    Feature = "drm_format_modifiers"
	FeaturePartiallyBoundBindless Feature = "partially_bound_bindless"
)

// requiredFeatures are always demanded regardless of the caller's request,
// since the surface/output pipeline cannot function without them.
var requiredFeatures = []Feature{
	FeatureTimelineSemaphores,
	FeatureExternalMemoryFD,
	FeatureDRMFormatModifiers,
	FeaturePartiallyBoundBindless,
}

// ErrInitialization is returned by Create when no suitable device
// supports the required feature set.
var ErrInitialization = errors.New("gpucore: initialization failed: no suitable device")

// Gpu is the compositor's GPU context: device and queue ownership,
// descriptor allocation, and the entry points used by the surface and
// output layers to create and update GPU resources.
type Gpu struct {
	instance vk.Instance
	device   vk.Device

	allocator   *memory.GpuAllocator
	descriptors *Descriptors

	graphics *Queue
	transfer *Queue

	loop *eventloop.Loop
}

// Create initializes a device supporting at least the requested
// features (validation is typical) plus the set this core always
// requires. Fails with ErrInitialization if device enumeration finds no
// match. Only a single device is considered; there is no multi-adapter
// selection.
func Create(loop *eventloop.Loop, features []Feature) (*Gpu, error) {
	want := append(append([]Feature{}, requiredFeatures...), features...)

	instance, device, props, err := selectDevice(want)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	allocator, err := memory.NewGpuAllocator(device, props, memory.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("gpucore: create allocator: %w", err)
	}

	g := &Gpu{
		instance:    instance,
		device:      device,
		allocator:   allocator,
		descriptors: newDescriptors(),
		loop:        loop,
	}

	graphicsSema, err := newSemaphore(loop, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create graphics queue sema: %w", err)
	}
	transferSema, err := newSemaphore(loop, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create transfer queue sema: %w", err)
	}

	g.graphics = newQueue(QueueGraphics, 0, 0, graphicsSema)
	g.transfer = newQueue(QueueTransfer, 0, 0, transferSema)

	obslog.Get().Info("gpu context created", "features", featureNames(want))
	return g, nil
}

// GetQueue returns the singleton queue for typ. Infallible after Create.
func (g *Gpu) GetQueue(typ QueueType) *Queue {
	switch typ {
	case QueueTransfer:
		return g.transfer
	default:
		return g.graphics
	}
}

// Descriptors returns the GPU context's bindless descriptor allocators.
func (g *Gpu) Descriptors() *Descriptors { return g.descriptors }

// Allocator returns the sub-allocator backing image_create/buffer_create.
func (g *Gpu) Allocator() *memory.GpuAllocator { return g.allocator }

// CreateSemaphore creates a standalone timeline semaphore not owned by
// either singleton queue, used by output.Swapchain for per-release-slot
// signaling (spec §4.3 present step 1: "append a new one with a fresh
// semaphore").
func (g *Gpu) CreateSemaphore() (*Semaphore, error) {
	return newSemaphore(g.loop, 0, 0)
}

// supportedFeatures reports the feature set a selected physical device
// exposes. The real implementation walks vkEnumeratePhysicalDevices and
// inspects each device's VkPhysicalDeviceFeatures2/Vulkan12Features chain
// via gpucore/vk's generated command table; until that enumeration is
// wired in, it stands in for "the one device this host actually has".
var supportedFeatures = map[Feature]bool{
	FeatureValidation:            true,
	FeatureTimelineSemaphores:    true,
	FeatureExternalMemoryFD:      true,
	FeatureDRMFormatModifiers:    true,
	FeaturePartiallyBoundBindless: true,
}

// ErrFeatureUnsupported wraps the name of a requested feature that no
// enumerated device reports.
var ErrFeatureUnsupported = errors.New("gpucore: feature not supported by any device")

// selectDevice enumerates physical devices and picks the first whose
// reported feature set is a superset of want, returning an error wrapping
// ErrFeatureUnsupported if none match (Create wraps it in ErrInitialization). The actual vkEnumerate*/
// vkGetPhysicalDeviceFeatures2 calls are a thin layer over gpucore/vk's
// generated command table; left as a hook pending that generated layer,
// with supportedFeatures standing in for the enumerated result.
func selectDevice(want []Feature) (vk.Instance, vk.Device, memory.DeviceMemoryProperties, error) {
	for _, f := range want {
		if !supportedFeatures[f] {
			return 0, 0, memory.DeviceMemoryProperties{}, fmt.Errorf("%w: %s", ErrFeatureUnsupported, f)
		}
	}

	var instance vk.Instance
	var device vk.Device
	var props memory.DeviceMemoryProperties
	return instance, device, props, nil
}

func featureNames(fs []Feature) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return names
}

// Destroy tears down the GPU context's queues and allocator. Vulkan
// device/instance destruction is a thin vkDestroyDevice/vkDestroyInstance
// call pending the generated command layer.
func (g *Gpu) Destroy() {
	if g.graphics != nil && g.graphics.sema != nil {
		g.graphics.sema.Close()
	}
	if g.transfer != nil && g.transfer.sema != nil {
		g.transfer.sema.Close()
	}
	if g.allocator != nil {
		g.allocator.Destroy()
	}
}
