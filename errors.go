package wroc

import "errors"

// Sentinel errors for internal (non-protocol) faults. Protocol-visible
// faults are not reported through these — they are posted directly on a
// Wayland resource via wire.ProtocolError, which triggers client
// disconnection at the dispatch layer (see protocol/ and SPEC_FULL.md §7).
var (
	// ErrNoSuitableDevice is returned by NewServer, wrapping gpucore's
	// error, when creating the GPU context fails — for example because no
	// Vulkan device exposes the feature set required by the compositor
	// core: timeline
	// semaphores, external memory fd, DRM format modifiers, and
	// partially-bound bindless descriptors. Unrecoverable — the
	// compositor cannot start without one of these devices.
	ErrNoSuitableDevice = errors.New("wroc: no GPU device supports the required feature set")

	// ErrDeviceLost indicates the GPU device was lost (driver reset,
	// hardware fault, or hang recovery). Per SPEC_FULL.md §4.1 this core
	// treats device loss as fatal: it is not recoverable within a single
	// compositor run.
	ErrDeviceLost = errors.New("wroc: gpu device lost")

	// ErrDescriptorsExhausted names the condition in which the bindless
	// descriptor allocator's capacity (65536 images, 16 samplers) is
	// exhausted. The allocator does not return it: its allocate methods
	// return only a DescriptorID, with no error.
	ErrDescriptorsExhausted = errors.New("wroc: bindless descriptor ids exhausted")

	// ErrModifierMismatch names the case in which no dma-buf format
	// modifier is mutually supported between the requester and the
	// device. Nothing in the module returns it: gpucore.ImageCreateDmabuf
	// reports that case as gpucore.ErrNoCommonModifier.
	ErrModifierMismatch = errors.New("wroc: no dma-buf format modifier mutually supported")

	// ErrSwapchainExhausted names the case in which no free image is
	// available and in-flight images are already at max_images. The
	// output package's Swapchain.Acquire does not return it: it returns a
	// nil image and a nil error, and the caller waits for the next
	// release callback.
	ErrSwapchainExhausted = errors.New("wroc: swapchain has no free image")

	// ErrSyncobjFault indicates a DRM syncobj or syncfile ioctl failed in
	// a way not on the recoverable allowlist (ENOENT during teardown is
	// recoverable; anything else indicates kernel or driver
	// misconfiguration). Fatal per SPEC_FULL.md §7.
	ErrSyncobjFault = errors.New("wroc: drm syncobj operation failed")

	// ErrBackendUnavailable is returned when the configured backend is
	// unknown or its Init fails (for example no WAYLAND_DISPLAY for the
	// nested-Wayland backend, or no accessible DRM node for the direct
	// backend). The other backend is not tried as a fallback.
	ErrBackendUnavailable = errors.New("wroc: no presentation backend available")
)
