// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Hand-maintained stand-in for vk-gen output from vk.xml. This file
// provides the core Vulkan handle, enum, and structure declarations that
// commands.go, commands_ext.go, commands_manual.go, memory.go, and
// const_ext.go build on. It carries only the subset gpucore actually
// exercises; the vk-gen tool itself is not part of this module.

package vk

import "unsafe"

// Commands holds the function pointers loaded by LoadGlobal, LoadInstance,
// and LoadDevice. Each field is the raw address returned by
// vkGetInstanceProcAddr/vkGetDeviceProcAddr; nil until loaded.
type Commands struct {
	createInstance                                unsafe.Pointer
	destroyInstance                                unsafe.Pointer
	enumeratePhysicalDevices                       unsafe.Pointer
	getPhysicalDeviceProperties                    unsafe.Pointer
	getPhysicalDeviceQueueFamilyProperties         unsafe.Pointer
	getPhysicalDeviceMemoryProperties              unsafe.Pointer
	getPhysicalDeviceFeatures                      unsafe.Pointer
	getPhysicalDeviceFormatProperties               unsafe.Pointer
	getPhysicalDeviceImageFormatProperties          unsafe.Pointer
	createDevice                                   unsafe.Pointer
	getDeviceProcAddr                              unsafe.Pointer
	enumerateDeviceLayerProperties                 unsafe.Pointer
	enumerateDeviceExtensionProperties             unsafe.Pointer
	getPhysicalDeviceSparseImageFormatProperties   unsafe.Pointer
	enumerateInstanceVersion                       unsafe.Pointer
	enumerateInstanceLayerProperties                unsafe.Pointer
	enumerateInstanceExtensionProperties            unsafe.Pointer

	destroySurfaceKHR                      unsafe.Pointer
	getPhysicalDeviceSurfaceSupportKHR     unsafe.Pointer
	getPhysicalDeviceSurfaceCapabilitiesKHR unsafe.Pointer
	getPhysicalDeviceSurfaceFormatsKHR     unsafe.Pointer
	getPhysicalDeviceSurfacePresentModesKHR unsafe.Pointer
	createWin32SurfaceKHR                  unsafe.Pointer

	getPhysicalDeviceFeatures2   unsafe.Pointer
	getPhysicalDeviceProperties2 unsafe.Pointer

	destroyDevice                unsafe.Pointer
	getDeviceQueue                unsafe.Pointer
	queueSubmit                  unsafe.Pointer
	queueWaitIdle                unsafe.Pointer
	deviceWaitIdle                unsafe.Pointer
	allocateMemory                unsafe.Pointer
	freeMemory                   unsafe.Pointer
	mapMemory                    unsafe.Pointer
	unmapMemory                  unsafe.Pointer
	flushMappedMemoryRanges      unsafe.Pointer
	invalidateMappedMemoryRanges unsafe.Pointer
	getDeviceMemoryCommitment    unsafe.Pointer
	getBufferMemoryRequirements  unsafe.Pointer
	bindBufferMemory             unsafe.Pointer
	getImageMemoryRequirements   unsafe.Pointer
	bindImageMemory              unsafe.Pointer
	getImageSparseMemoryRequirements unsafe.Pointer
	queueBindSparse              unsafe.Pointer
	createFence                  unsafe.Pointer
	destroyFence                 unsafe.Pointer
	resetFences                  unsafe.Pointer
	getFenceStatus                unsafe.Pointer
	waitForFences                unsafe.Pointer
	createSemaphore               unsafe.Pointer
	destroySemaphore              unsafe.Pointer
	createEvent                   unsafe.Pointer
	destroyEvent                  unsafe.Pointer
	getEventStatus                unsafe.Pointer
	setEvent                      unsafe.Pointer
	resetEvent                    unsafe.Pointer
	createQueryPool               unsafe.Pointer
	destroyQueryPool              unsafe.Pointer
	getQueryPoolResults           unsafe.Pointer
	resetQueryPool                unsafe.Pointer
	createBuffer                  unsafe.Pointer
	destroyBuffer                 unsafe.Pointer
	createBufferView              unsafe.Pointer
	destroyBufferView             unsafe.Pointer
	createImage                   unsafe.Pointer
	destroyImage                  unsafe.Pointer
	getImageSubresourceLayout     unsafe.Pointer
	createImageView               unsafe.Pointer
	destroyImageView              unsafe.Pointer
	createShaderModule            unsafe.Pointer
	destroyShaderModule           unsafe.Pointer
	createPipelineCache           unsafe.Pointer
	destroyPipelineCache          unsafe.Pointer
	getPipelineCacheData          unsafe.Pointer
	mergePipelineCaches           unsafe.Pointer
	createGraphicsPipelines       unsafe.Pointer
	createComputePipelines        unsafe.Pointer
	destroyPipeline               unsafe.Pointer
	createPipelineLayout          unsafe.Pointer
	destroyPipelineLayout         unsafe.Pointer
	createSampler                 unsafe.Pointer
	destroySampler                unsafe.Pointer
	createDescriptorSetLayout     unsafe.Pointer
	destroyDescriptorSetLayout    unsafe.Pointer
	createDescriptorPool          unsafe.Pointer
	destroyDescriptorPool         unsafe.Pointer
	resetDescriptorPool           unsafe.Pointer
	allocateDescriptorSets        unsafe.Pointer
	freeDescriptorSets            unsafe.Pointer
	updateDescriptorSets          unsafe.Pointer
	createFramebuffer             unsafe.Pointer
	destroyFramebuffer            unsafe.Pointer
	createRenderPass              unsafe.Pointer
	destroyRenderPass             unsafe.Pointer
	getRenderAreaGranularity      unsafe.Pointer
	createCommandPool             unsafe.Pointer
	destroyCommandPool            unsafe.Pointer
	resetCommandPool              unsafe.Pointer
	allocateCommandBuffers        unsafe.Pointer
	freeCommandBuffers            unsafe.Pointer
	beginCommandBuffer            unsafe.Pointer
	endCommandBuffer              unsafe.Pointer
	resetCommandBuffer            unsafe.Pointer
	cmdBindPipeline               unsafe.Pointer
	cmdSetViewport                unsafe.Pointer
	cmdSetScissor                 unsafe.Pointer
	cmdSetLineWidth               unsafe.Pointer
	cmdSetDepthBias               unsafe.Pointer
	cmdSetBlendConstants          unsafe.Pointer
	cmdSetDepthBounds             unsafe.Pointer
	cmdSetStencilCompareMask      unsafe.Pointer
	cmdSetStencilWriteMask        unsafe.Pointer
	cmdSetStencilReference        unsafe.Pointer
	cmdBindDescriptorSets         unsafe.Pointer
	cmdBindIndexBuffer            unsafe.Pointer
	cmdBindVertexBuffers          unsafe.Pointer
	cmdDraw                       unsafe.Pointer
	cmdDrawIndexed                unsafe.Pointer
	cmdDrawIndirect               unsafe.Pointer
	cmdDrawIndexedIndirect        unsafe.Pointer
	cmdDispatch                   unsafe.Pointer
	cmdDispatchIndirect           unsafe.Pointer
	cmdCopyBuffer                 unsafe.Pointer
	cmdCopyImage                  unsafe.Pointer
	cmdBlitImage                  unsafe.Pointer
	cmdCopyBufferToImage          unsafe.Pointer
	cmdCopyImageToBuffer          unsafe.Pointer
	cmdUpdateBuffer               unsafe.Pointer
	cmdFillBuffer                 unsafe.Pointer
	cmdClearColorImage            unsafe.Pointer
	cmdClearDepthStencilImage     unsafe.Pointer
	cmdClearAttachments           unsafe.Pointer
	cmdResolveImage               unsafe.Pointer
	cmdSetEvent                   unsafe.Pointer
	cmdResetEvent                 unsafe.Pointer
	cmdWaitEvents                 unsafe.Pointer
	cmdPipelineBarrier            unsafe.Pointer
	cmdPipelineBarrier2           unsafe.Pointer
	cmdBeginQuery                 unsafe.Pointer
	cmdEndQuery                   unsafe.Pointer
	cmdResetQueryPool             unsafe.Pointer
	cmdWriteTimestamp             unsafe.Pointer
	cmdCopyQueryPoolResults       unsafe.Pointer
	cmdPushConstants              unsafe.Pointer
	cmdBeginRenderPass            unsafe.Pointer
	cmdNextSubpass                unsafe.Pointer
	cmdEndRenderPass              unsafe.Pointer
	cmdExecuteCommands            unsafe.Pointer
	cmdBeginRendering             unsafe.Pointer
	cmdEndRendering               unsafe.Pointer

	getSemaphoreCounterValue unsafe.Pointer
	waitSemaphores           unsafe.Pointer
	signalSemaphore          unsafe.Pointer

	createSwapchainKHR    unsafe.Pointer
	destroySwapchainKHR   unsafe.Pointer
	getSwapchainImagesKHR unsafe.Pointer
	acquireNextImageKHR   unsafe.Pointer
	queuePresentKHR       unsafe.Pointer
}

// --- Dispatchable handles ---
// On a real driver these are opaque pointers; represented here as raw
// addresses since every call crosses the FFI boundary as a uint64 value.
type (
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
	CommandBuffer  uintptr
)

// --- Non-dispatchable handles ---
type (
	DeviceMemory        uint64
	CommandPool         uint64
	Buffer              uint64
	BufferView          uint64
	Image               uint64
	ImageView           uint64
	ShaderModule        uint64
	Pipeline            uint64
	PipelineLayout      uint64
	PipelineCache       uint64
	RenderPass          uint64
	Framebuffer         uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	Sampler             uint64
	Semaphore           uint64
	Fence               uint64
	Event               uint64
	QueryPool           uint64
	SurfaceKHR          uint64
	SwapchainKHR        uint64
)

// --- Scalar typedefs ---
type (
	Bool32        uint32
	Flags         uint32
	DeviceSize    uint64
	DeviceAddress uint64
	SampleMask    uint32
)

const (
	True32  Bool32 = 1
	False32 Bool32 = 0
)

// Result mirrors VkResult: zero is success, positive values are
// non-error status codes, negative values are errors.
type Result int32

const (
	Success        Result = 0
	NotReady       Result = 1
	Timeout        Result = 2
	EventSet       Result = 3
	EventReset     Result = 4
	Incomplete     Result = 5
	SuboptimalKHR  Result = 1000001003

	ErrorOutOfHostMemory       Result = -1
	ErrorOutOfDeviceMemory     Result = -2
	ErrorInitializationFailed  Result = -3
	ErrorDeviceLost            Result = -4
	ErrorMemoryMapFailed       Result = -5
	ErrorLayerNotPresent       Result = -6
	ErrorExtensionNotPresent   Result = -7
	ErrorFeatureNotPresent     Result = -8
	ErrorIncompatibleDriver    Result = -9
	ErrorTooManyObjects        Result = -10
	ErrorFormatNotSupported    Result = -11
	ErrorSurfaceLostKHR        Result = -1000000000
	ErrorOutOfDateKHR          Result = -1000001004
)

// StructureType mirrors VkStructureType; const_ext.go adds the
// Vulkan 1.1+ promoted-extension values on top of this core set.
type StructureType int32

const (
	StructureTypeApplicationInfo       StructureType = 0
	StructureTypeInstanceCreateInfo    StructureType = 1
	StructureTypeDeviceQueueCreateInfo StructureType = 2
	StructureTypeDeviceCreateInfo      StructureType = 3
	StructureTypeSubmitInfo            StructureType = 4
	StructureTypeMemoryAllocateInfo    StructureType = 5
	StructureTypeMappedMemoryRange     StructureType = 6
	StructureTypeBindSparseInfo        StructureType = 7
	StructureTypeFenceCreateInfo       StructureType = 8
	StructureTypeSemaphoreCreateInfo   StructureType = 9
	StructureTypeEventCreateInfo       StructureType = 10
	StructureTypeQueryPoolCreateInfo   StructureType = 11
	StructureTypeBufferCreateInfo      StructureType = 12
	StructureTypeBufferViewCreateInfo  StructureType = 13
	StructureTypeImageCreateInfo       StructureType = 14
	StructureTypeImageViewCreateInfo   StructureType = 15
	StructureTypeShaderModuleCreateInfo StructureType = 16
	StructureTypePipelineCacheCreateInfo StructureType = 17
	StructureTypeSamplerCreateInfo      StructureType = 31
	StructureTypeDescriptorPoolCreateInfo StructureType = 33
	StructureTypeCommandPoolCreateInfo    StructureType = 39
	StructureTypeCommandBufferAllocateInfo StructureType = 40
	StructureTypeCommandBufferBeginInfo    StructureType = 42

	StructureTypeSwapchainCreateInfoKHR StructureType = 1000001000
	StructureTypePresentInfoKHR         StructureType = 1000001001
	StructureTypeWin32SurfaceCreateInfoKHR StructureType = 1000009000
)

// --- Memory property flags ---

type MemoryPropertyFlagBits uint32

const (
	MemoryPropertyDeviceLocalBit     MemoryPropertyFlagBits = 1 << 0
	MemoryPropertyHostVisibleBit     MemoryPropertyFlagBits = 1 << 1
	MemoryPropertyHostCoherentBit    MemoryPropertyFlagBits = 1 << 2
	MemoryPropertyHostCachedBit      MemoryPropertyFlagBits = 1 << 3
	MemoryPropertyLazilyAllocatedBit MemoryPropertyFlagBits = 1 << 4
)

type MemoryPropertyFlags uint32

type MemoryHeapFlagBits uint32

const MemoryHeapDeviceLocalBit MemoryHeapFlagBits = 1 << 0

type MemoryHeapFlags uint32

type MemoryMapFlags uint32

// QueryResultFlags controls vkGetQueryPoolResults/vkCmdCopyQueryPoolResults
// result encoding (64-bit, wait, with-availability, partial).
type QueryResultFlags uint32

const (
	QueryResult64Bit            QueryResultFlags = 1 << 0
	QueryResultWaitBit          QueryResultFlags = 1 << 1
	QueryResultWithAvailabilityBit QueryResultFlags = 1 << 2
	QueryResultPartialBit       QueryResultFlags = 1 << 3
)

// PipelineStageFlagBits selects a pipeline stage for barriers and
// timestamp queries.
type PipelineStageFlagBits uint32

const (
	PipelineStageTopOfPipeBit    PipelineStageFlagBits = 1 << 0
	PipelineStageBottomOfPipeBit PipelineStageFlagBits = 1 << 12
	PipelineStageAllCommandsBit  PipelineStageFlagBits = 1 << 16
)

// LineRasterizationMode selects VK_EXT_line_rasterization's rasterization
// mode for wide/stippled lines.
type LineRasterizationMode int32

const (
	LineRasterizationModeDefault      LineRasterizationMode = 0
	LineRasterizationModeRectangular  LineRasterizationMode = 1
	LineRasterizationModeBresenham    LineRasterizationMode = 2
)

// --- Structures ---

// AllocationCallbacks hooks host allocation; left empty since gpucore
// always passes nil (driver-default allocator).
type AllocationCallbacks struct {
	UserData      unsafe.Pointer
	PfnAllocation uintptr
}

// Extent2D/Extent3D/Offset2D/Offset3D/Rect2D are the basic geometry
// structures shared by image, render pass, and swapchain calls.
type (
	Extent2D struct{ Width, Height uint32 }
	Extent3D struct{ Width, Height, Depth uint32 }
	Offset2D struct{ X, Y int32 }
	Offset3D struct{ X, Y, Z int32 }
	Rect2D   struct {
		Offset Offset2D
		Extent Extent2D
	}
)

// ClearValue is a 16-byte union of either 4 float32 color channels or a
// depth/stencil pair, matching VkClearValue's in-memory layout.
type ClearValue [4]uint32

type MemoryAllocateInfo struct {
	SType           StructureType
	PNext           unsafe.Pointer
	AllocationSize  DeviceSize
	MemoryTypeIndex uint32
}

type MemoryRequirements struct {
	Size           DeviceSize
	Alignment      DeviceSize
	MemoryTypeBits uint32
}

// MemoryRequirements2 is the VK_KHR_get_memory_requirements2 (promoted
// Vulkan 1.1 core) wrapper around MemoryRequirements, chained via PNext.
type MemoryRequirements2 struct {
	SType              StructureType
	PNext              unsafe.Pointer
	MemoryRequirements MemoryRequirements
}

type MappedMemoryRange struct {
	SType  StructureType
	PNext  unsafe.Pointer
	Memory DeviceMemory
	Offset DeviceSize
	Size   DeviceSize
}

type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

type MemoryHeap struct {
	Size  DeviceSize
	Flags MemoryHeapFlags
}

// PhysicalDeviceMemoryProperties mirrors VkPhysicalDeviceMemoryProperties's
// fixed-size arrays (VK_MAX_MEMORY_TYPES=32, VK_MAX_MEMORY_HEAPS=16).
type PhysicalDeviceMemoryProperties struct {
	MemoryTypeCount uint32
	MemoryTypes     [32]MemoryType
	MemoryHeapCount uint32
	MemoryHeaps     [16]MemoryHeap
}

type PhysicalDeviceLimits struct {
	MaxImageDimension2D uint32
	MaxMemoryAllocationCount uint32
	MaxBoundDescriptorSets   uint32
}

type PhysicalDeviceSparseProperties struct {
	ResidencyStandard2DBlockShape Bool32
}

type PhysicalDeviceProperties struct {
	APIVersion       uint32
	DriverVersion    uint32
	VendorID         uint32
	DeviceID         uint32
	DeviceType       uint32
	DeviceName       [256]byte
	PipelineCacheUUID [16]byte
	Limits           PhysicalDeviceLimits
	SparseProperties PhysicalDeviceSparseProperties
}

type PhysicalDeviceFeatures struct {
	RobustBufferAccess Bool32
	FullDrawIndexUint32 Bool32
	SamplerAnisotropy  Bool32
}

type QueueFamilyProperties struct {
	QueueFlags                 uint32
	QueueCount                 uint32
	TimestampValidBits         uint32
	MinImageTransferGranularity Extent3D
}

type BufferCreateInfo struct {
	SType                 StructureType
	PNext                 unsafe.Pointer
	Flags                 uint32
	Size                  DeviceSize
	Usage                 uint32
	SharingMode           uint32
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   unsafe.Pointer
}

type ImageCreateInfo struct {
	SType                 StructureType
	PNext                 unsafe.Pointer
	Flags                 uint32
	ImageType             uint32
	Format                uint32
	Extent                Extent3D
	MipLevels             uint32
	ArrayLayers           uint32
	Samples               uint32
	Tiling                uint32
	Usage                 uint32
	SharingMode           uint32
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   unsafe.Pointer
	InitialLayout         uint32
}

type ComponentMapping struct {
	R, G, B, A uint32
}

type ImageSubresourceRange struct {
	AspectMask     uint32
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ImageViewCreateInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            uint32
	Image            Image
	ViewType         uint32
	Format           uint32
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}

type SamplerCreateInfo struct {
	SType                   StructureType
	PNext                   unsafe.Pointer
	Flags                   uint32
	MagFilter               uint32
	MinFilter               uint32
	MipmapMode              uint32
	AddressModeU            uint32
	AddressModeV            uint32
	AddressModeW            uint32
	MipLodBias              float32
	AnisotropyEnable        Bool32
	MaxAnisotropy           float32
	CompareEnable           Bool32
	CompareOp               uint32
	MinLod                  float32
	MaxLod                  float32
	BorderColor             uint32
	UnnormalizedCoordinates Bool32
}

type CommandPoolCreateInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            uint32
	QueueFamilyIndex uint32
}

type CommandBufferAllocateInfo struct {
	SType              StructureType
	PNext              unsafe.Pointer
	CommandPool        CommandPool
	Level              uint32
	CommandBufferCount uint32
}

type CommandBufferBeginInfo struct {
	SType StructureType
	PNext unsafe.Pointer
	Flags uint32
}

type SubmitInfo struct {
	SType                StructureType
	PNext                unsafe.Pointer
	WaitSemaphoreCount   uint32
	PWaitSemaphores      unsafe.Pointer
	PWaitDstStageMask    unsafe.Pointer
	CommandBufferCount   uint32
	PCommandBuffers      unsafe.Pointer
	SignalSemaphoreCount uint32
	PSignalSemaphores    unsafe.Pointer
}

// SemaphoreWaitInfo is VK_KHR_timeline_semaphore's (promoted Vulkan 1.2
// core) wait-on-multiple-timelines structure for vkWaitSemaphores.
type SemaphoreWaitInfo struct {
	SType          StructureType
	PNext          unsafe.Pointer
	Flags          uint32
	SemaphoreCount uint32
	PSemaphores    unsafe.Pointer
	PValues        unsafe.Pointer
}

type SurfaceCapabilitiesKHR struct {
	MinImageCount uint32
	MaxImageCount uint32
	CurrentExtent Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

type SurfaceFormatKHR struct {
	Format     uint32
	ColorSpace uint32
}

type SwapchainCreateInfoKHR struct {
	SType                 StructureType
	PNext                 unsafe.Pointer
	Flags                 uint32
	Surface               SurfaceKHR
	MinImageCount         uint32
	ImageFormat           uint32
	ImageColorSpace       uint32
	ImageExtent           Extent2D
	ImageArrayLayers      uint32
	ImageUsage            uint32
	ImageSharingMode      uint32
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   unsafe.Pointer
	PreTransform          uint32
	CompositeAlpha        uint32
	PresentMode           uint32
	Clipped               Bool32
	OldSwapchain          SwapchainKHR
}

type PresentInfoKHR struct {
	SType              StructureType
	PNext              unsafe.Pointer
	WaitSemaphoreCount uint32
	PWaitSemaphores    unsafe.Pointer
	SwapchainCount     uint32
	PSwapchains        unsafe.Pointer
	PImageIndices      unsafe.Pointer
	PResults           unsafe.Pointer
}

// PipelineInfoKHR is VK_KHR_pipeline_executable_properties' handle
// wrapper, used only through its promoted EXT alias in types_ext_fix.go.
type PipelineInfoKHR struct {
	SType    StructureType
	PNext    unsafe.Pointer
	Pipeline Pipeline
}
