// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
)

// Global commands instance for memory operations.
// Must be set via SetDeviceCommands (after LoadDevice) before using memory functions.
var deviceCmds *Commands

// SetDeviceCommands sets the device-level commands for memory operations.
func SetDeviceCommands(cmds *Commands) {
	deviceCmds = cmds
}

// AllocateMemory allocates device memory.
//
// Wraps vkAllocateMemory.
func AllocateMemory(device Device, allocInfo *MemoryAllocateInfo, allocator *AllocationCallbacks, memory *DeviceMemory) Result {
	if deviceCmds == nil || deviceCmds.allocateMemory == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&allocInfo),
		unsafe.Pointer(&allocator),
		unsafe.Pointer(&memory),
	}
	if err := ffi.CallFunction(&SigResultHandlePtrPtrPtr, deviceCmds.allocateMemory, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// FreeMemory frees device memory.
//
// Wraps vkFreeMemory.
func FreeMemory(device Device, memory DeviceMemory, allocator *AllocationCallbacks) {
	if deviceCmds == nil || deviceCmds.freeMemory == 0 {
		return
	}

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&memory),
		unsafe.Pointer(&allocator),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandlePtr, deviceCmds.freeMemory, nil, args[:])
}

// MapMemory maps device memory to host address space.
//
// Wraps vkMapMemory.
func MapMemory(device Device, memory DeviceMemory, offset, size uint64, flags MemoryMapFlags, data *uintptr) Result {
	if deviceCmds == nil || deviceCmds.mapMemory == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&memory),
		unsafe.Pointer(&offset),
		unsafe.Pointer(&size),
		unsafe.Pointer(&flags),
		unsafe.Pointer(&data),
	}
	if err := ffi.CallFunction(&SigResultMapMemory, deviceCmds.mapMemory, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// UnmapMemory unmaps device memory from host address space.
//
// Wraps vkUnmapMemory.
func UnmapMemory(device Device, memory DeviceMemory) {
	if deviceCmds == nil || deviceCmds.unmapMemory == 0 {
		return
	}

	args := [2]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&memory),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandle, deviceCmds.unmapMemory, nil, args[:])
}

// GetBufferMemoryRequirements queries memory requirements for a buffer.
//
// Wraps vkGetBufferMemoryRequirements.
func GetBufferMemoryRequirements(device Device, buffer Buffer, requirements *MemoryRequirements) {
	if deviceCmds == nil || deviceCmds.getBufferMemoryRequirements == 0 {
		return
	}

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&buffer),
		unsafe.Pointer(&requirements),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandlePtr, deviceCmds.getBufferMemoryRequirements, nil, args[:])
}

// BindBufferMemory binds memory to a buffer.
//
// Wraps vkBindBufferMemory.
func BindBufferMemory(device Device, buffer Buffer, memory DeviceMemory, offset uint64) Result {
	if deviceCmds == nil || deviceCmds.bindBufferMemory == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&buffer),
		unsafe.Pointer(&memory),
		unsafe.Pointer(&offset),
	}
	if err := ffi.CallFunction(&SigResultHandle4, deviceCmds.bindBufferMemory, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// GetImageMemoryRequirements queries memory requirements for an image.
//
// Wraps vkGetImageMemoryRequirements.
func GetImageMemoryRequirements(device Device, image Image, requirements *MemoryRequirements) {
	if deviceCmds == nil || deviceCmds.getImageMemoryRequirements == 0 {
		return
	}

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&image),
		unsafe.Pointer(&requirements),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandlePtr, deviceCmds.getImageMemoryRequirements, nil, args[:])
}

// BindImageMemory binds memory to an image.
//
// Wraps vkBindImageMemory.
func BindImageMemory(device Device, image Image, memory DeviceMemory, offset uint64) Result {
	if deviceCmds == nil || deviceCmds.bindImageMemory == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&image),
		unsafe.Pointer(&memory),
		unsafe.Pointer(&offset),
	}
	if err := ffi.CallFunction(&SigResultHandle4, deviceCmds.bindImageMemory, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// CreateBuffer creates a new buffer.
//
// Wraps vkCreateBuffer.
func CreateBuffer(device Device, createInfo *BufferCreateInfo, allocator *AllocationCallbacks, buffer *Buffer) Result {
	if deviceCmds == nil || deviceCmds.createBuffer == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&createInfo),
		unsafe.Pointer(&allocator),
		unsafe.Pointer(&buffer),
	}
	if err := ffi.CallFunction(&SigResultHandlePtrPtrPtr, deviceCmds.createBuffer, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// DestroyBuffer destroys a buffer.
//
// Wraps vkDestroyBuffer.
func DestroyBuffer(device Device, buffer Buffer, allocator *AllocationCallbacks) {
	if deviceCmds == nil || deviceCmds.destroyBuffer == 0 {
		return
	}

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&buffer),
		unsafe.Pointer(&allocator),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandlePtr, deviceCmds.destroyBuffer, nil, args[:])
}

// CreateImage creates a new image.
//
// Wraps vkCreateImage.
func CreateImage(device Device, createInfo *ImageCreateInfo, allocator *AllocationCallbacks, image *Image) Result {
	if deviceCmds == nil || deviceCmds.createImage == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&createInfo),
		unsafe.Pointer(&allocator),
		unsafe.Pointer(&image),
	}
	if err := ffi.CallFunction(&SigResultHandlePtrPtrPtr, deviceCmds.createImage, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// DestroyImage destroys an image.
//
// Wraps vkDestroyImage.
func DestroyImage(device Device, image Image, allocator *AllocationCallbacks) {
	if deviceCmds == nil || deviceCmds.destroyImage == 0 {
		return
	}

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&image),
		unsafe.Pointer(&allocator),
	}
	_ = ffi.CallFunction(&SigVoidHandleHandlePtr, deviceCmds.destroyImage, nil, args[:])
}

// FlushMappedMemoryRanges flushes mapped memory ranges.
//
// Wraps vkFlushMappedMemoryRanges.
func FlushMappedMemoryRanges(device Device, memoryRangeCount uint32, memoryRanges *MappedMemoryRange) Result {
	if deviceCmds == nil || deviceCmds.flushMappedMemoryRanges == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&memoryRangeCount),
		unsafe.Pointer(&memoryRanges),
	}
	if err := ffi.CallFunction(&SigResultHandleU32Ptr, deviceCmds.flushMappedMemoryRanges, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// InvalidateMappedMemoryRanges invalidates mapped memory ranges.
//
// Wraps vkInvalidateMappedMemoryRanges.
func InvalidateMappedMemoryRanges(device Device, memoryRangeCount uint32, memoryRanges *MappedMemoryRange) Result {
	if deviceCmds == nil || deviceCmds.invalidateMappedMemoryRanges == 0 {
		return ErrorInitializationFailed
	}

	var result int32
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&memoryRangeCount),
		unsafe.Pointer(&memoryRanges),
	}
	if err := ffi.CallFunction(&SigResultHandleU32Ptr, deviceCmds.invalidateMappedMemoryRanges, unsafe.Pointer(&result), args[:]); err != nil {
		return ErrorInitializationFailed
	}
	return Result(result)
}

// GetPhysicalDeviceMemoryProperties queries memory properties of a physical device.
//
// Wraps vkGetPhysicalDeviceMemoryProperties.
func GetPhysicalDeviceMemoryProperties(cmds *Commands, physicalDevice PhysicalDevice, properties *PhysicalDeviceMemoryProperties) {
	if cmds == nil || cmds.getPhysicalDeviceMemoryProperties == 0 {
		return
	}

	args := [2]unsafe.Pointer{
		unsafe.Pointer(&physicalDevice),
		unsafe.Pointer(&properties),
	}
	_ = ffi.CallFunction(&SigVoidHandlePtr, cmds.getPhysicalDeviceMemoryProperties, nil, args[:])
}
