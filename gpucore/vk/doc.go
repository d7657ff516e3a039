// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package vk provides Pure Go Vulkan bindings generated from vk.xml.
//
// This package contains low-level Vulkan types, constants, and function
// pointers, invoked through goffi so that no CGO is required.
//
// # Generation
//
// The bindings follow the layout of the vk-gen tool's output for the
// official Khronos vk.xml specification. The tool is not part of this
// module: types_gen.go is a hand-maintained subset of that output.
//
// # Usage
//
// Initialize Vulkan and load function pointers:
//
//	if err := vk.Init(); err != nil {
//	    log.Fatal(err)
//	}
//
//	var cmds vk.Commands
//	cmds.LoadGlobal()
//
//	// Create instance...
//	cmds.LoadInstance(instance)
//
// # Platform Support
//
// - Linux: libvulkan.so.1
// - Windows: vulkan-1.dll
// - macOS: libvulkan.dylib via MoltenVK (planned)
package vk
