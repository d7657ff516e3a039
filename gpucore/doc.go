// Package gpucore provides the compositor's GPU context: device and
// queue management, bindless descriptor allocation, timeline semaphores
// shadowed by DRM syncobjs for cross-process sync, and image/buffer
// creation including dma-buf import/export.
//
// Vulkan calls are reached through gpucore/vk, a pure-Go, cgo-free set of
// goffi-based bindings; gpucore/memory provides the sub-allocator used by
// image and buffer creation. Everything above that boundary is ordinary
// Go: the descriptor allocator and semaphore wait-list logic in this
// package have no Vulkan dependency at all and are unit-tested directly.
package gpucore
