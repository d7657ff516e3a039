//go:build linux

package wayland

import "github.com/gogpu/wroc/wire"

// displayObjectID is the parent compositor's wl_display, always 1.
const displayObjectID wire.ObjectID = 1

// wl_display.
const (
	displayRequestSync        wire.Opcode = 0
	displayRequestGetRegistry wire.Opcode = 1
	displayEventError         wire.Opcode = 0
	displayEventDeleteID      wire.Opcode = 1
)

// wl_callback.
const callbackEventDone wire.Opcode = 0

// wl_registry.
const (
	registryRequestBind wire.Opcode = 0
	registryEventGlobal wire.Opcode = 0
	registryEventRemove wire.Opcode = 1
)

// wl_compositor.
const compositorRequestCreateSurface wire.Opcode = 0

// wl_surface.
const (
	surfaceRequestDestroy   wire.Opcode = 0
	surfaceRequestAttach    wire.Opcode = 1
	surfaceRequestDamage    wire.Opcode = 2
	surfaceRequestFrame     wire.Opcode = 3
	surfaceRequestCommit    wire.Opcode = 6
	surfaceRequestDamageBuf wire.Opcode = 9
)

// xdg_wm_base.
const (
	wmBaseRequestGetXdgSurface wire.Opcode = 2
	wmBaseRequestPong          wire.Opcode = 3
	wmBaseEventPing            wire.Opcode = 0
)

// xdg_surface.
const (
	xdgSurfaceRequestDestroy      wire.Opcode = 0
	xdgSurfaceRequestGetToplevel  wire.Opcode = 1
	xdgSurfaceRequestAckConfigure wire.Opcode = 4
	xdgSurfaceEventConfigure      wire.Opcode = 0
)

// xdg_toplevel.
const (
	toplevelRequestDestroy  wire.Opcode = 0
	toplevelRequestSetTitle wire.Opcode = 2
	toplevelEventConfigure  wire.Opcode = 0
	toplevelEventClose      wire.Opcode = 1
)

// wl_buffer.
const (
	bufferRequestDestroy wire.Opcode = 0
	bufferEventRelease   wire.Opcode = 0
)
