//go:build linux

// Package wayland implements the nested-Wayland backend: it presents the
// compositor's outputs as toplevel windows on a parent compositor,
// binding wl_compositor, xdg_wm_base, zwp_linux_dmabuf_v1, and
// wp_linux_drm_syncobj_manager_v1 on the parent's registry (spec §4.4).
package wayland

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/internal/obslog"
	"github.com/gogpu/wroc/wire"
)

// globalInfo is one entry the parent's wl_registry advertised.
type globalInfo struct {
	name    uint32
	iface   string
	version uint32
}

// Backend is a client connection to a parent Wayland compositor, used as
// this compositor's presentation target when it is itself nested (spec
// §4.4 "Nested Wayland backend").
type Backend struct {
	loop   *eventloop.Loop
	conn   *wire.Conn
	nextID wire.ObjectID
	gpu    *gpucore.Gpu

	registryID wire.ObjectID
	globals    map[string]globalInfo

	compositorID     wire.ObjectID
	wmBaseID         wire.ObjectID
	dmabufID         wire.ObjectID
	syncobjManagerID wire.ObjectID

	outputs map[wire.ObjectID]*Output

	recvBuf []byte
	recvFDs []int
	pending []pendingCallback
}

// requiredGlobals lists what this backend must find on the parent's
// registry to function (spec §4.4). Init additionally binds
// zwp_linux_dmabuf_v1 and wp_linux_drm_syncobj_manager_v1 when present.
// zxdg_decoration_manager_v1, wl_seat, zwp_pointer_constraints_v1, and
// zwp_relative_pointer_manager_v1 are not bound on the parent at all, so
// this backend delivers no input from the parent compositor.
var requiredGlobals = []string{"wl_compositor", "xdg_wm_base"}

// New creates an unconnected Backend driven by loop once Start registers
// the parent connection's fd; Init dials the parent socket.
func New(loop *eventloop.Loop) *Backend {
	return &Backend{
		loop:    loop,
		globals: make(map[string]globalInfo),
		outputs: make(map[wire.ObjectID]*Output),
		nextID:  2, // object id 1 is wl_display
	}
}

// Init connects to the parent compositor named by $WAYLAND_DISPLAY
// (relative to $XDG_RUNTIME_DIR, or absolute), performs the initial
// registry roundtrip, and binds the globals this backend needs.
func (b *Backend) Init(gpu *gpucore.Gpu) error {
	b.gpu = gpu

	path, err := parentSocketPath()
	if err != nil {
		return err
	}
	conn, err := wire.Dial(path)
	if err != nil {
		return fmt.Errorf("wayland backend: dial parent compositor: %w", err)
	}
	b.conn = conn

	b.registryID = b.allocID()
	if err := b.send(displayObjectID, displayRequestGetRegistry, func(m *wire.MessageBuilder) {
		m.PutNewID(b.registryID)
	}); err != nil {
		return err
	}

	if err := b.roundtrip(); err != nil {
		return err
	}

	for _, name := range requiredGlobals {
		if _, ok := b.globals[name]; !ok {
			return fmt.Errorf("wayland backend: parent compositor has no %s global", name)
		}
	}

	b.compositorID = b.bind("wl_compositor", 6)
	b.wmBaseID = b.bind("xdg_wm_base", 7)
	if g, ok := b.globals["zwp_linux_dmabuf_v1"]; ok {
		b.dmabufID = b.bind("zwp_linux_dmabuf_v1", min32(g.version, 5))
	}
	if g, ok := b.globals["wp_linux_drm_syncobj_manager_v1"]; ok {
		b.syncobjManagerID = b.bind("wp_linux_drm_syncobj_manager_v1", g.version)
	}

	return nil
}

// Start performs a second roundtrip so any ping/capability events the
// parent sent immediately after binding are drained before the first
// CreateOutput call, then hands the connection's fd to the main event
// loop for all further dispatch.
func (b *Backend) Start() error {
	if err := b.roundtrip(); err != nil {
		return err
	}
	return b.loop.AddFD(b.conn.Fd(), unix.EPOLLIN, func(uint32) {
		if err := b.drain(); err != nil {
			obslog.Get().Error("wayland backend: parent connection lost", "err", err)
			b.loop.RemoveFD(b.conn.Fd())
		}
	})
}

// CreateOutput creates a wl_surface wrapped as an xdg_toplevel on the
// parent compositor, and blocks for the first configure so Extent has a
// real size before the caller's first redraw attempt.
func (b *Backend) CreateOutput(name string) (backend.Output, error) {
	surfaceID := b.allocID()
	if err := b.send(b.compositorID, compositorRequestCreateSurface, func(m *wire.MessageBuilder) {
		m.PutNewID(surfaceID)
	}); err != nil {
		return nil, err
	}

	xdgSurfaceID := b.allocID()
	if err := b.send(b.wmBaseID, wmBaseRequestGetXdgSurface, func(m *wire.MessageBuilder) {
		m.PutNewID(xdgSurfaceID)
		m.PutObject(surfaceID)
	}); err != nil {
		return nil, err
	}

	toplevelID := b.allocID()
	if err := b.send(xdgSurfaceID, xdgSurfaceRequestGetToplevel, func(m *wire.MessageBuilder) {
		m.PutNewID(toplevelID)
	}); err != nil {
		return nil, err
	}
	// Commit with no attached buffer: xdg-shell requires this to trigger
	// the initial xdg_surface.configure.
	if err := b.send(surfaceID, surfaceRequestCommit, nil); err != nil {
		return nil, err
	}

	out := &Output{
		b:            b,
		name:         name,
		surfaceID:    surfaceID,
		xdgSurfaceID: xdgSurfaceID,
		toplevelID:   toplevelID,
		buffers:      make(map[gpucore.DescriptorID]wire.ObjectID),
	}
	b.outputs[xdgSurfaceID] = out
	b.outputs[toplevelID] = out

	if err := out.waitInitialConfigure(); err != nil {
		return nil, err
	}
	return out, nil
}

// DestroyOutput tears down a previously created toplevel/surface.
func (b *Backend) DestroyOutput(o backend.Output) {
	out, ok := o.(*Output)
	if !ok {
		return
	}
	delete(b.outputs, out.xdgSurfaceID)
	delete(b.outputs, out.toplevelID)
	b.send(out.toplevelID, toplevelRequestDestroy, nil)
	b.send(out.xdgSurfaceID, xdgSurfaceRequestDestroy, nil)
	b.send(out.surfaceID, surfaceRequestDestroy, nil)
}

func (b *Backend) allocID() wire.ObjectID {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) bind(iface string, version uint32) wire.ObjectID {
	g := b.globals[iface]
	if version > g.version {
		version = g.version
	}
	id := b.allocID()
	b.send(b.registryID, registryRequestBind, func(m *wire.MessageBuilder) {
		m.PutUint(g.name)
		m.PutNewID(id)
	})
	return id
}

func (b *Backend) send(obj wire.ObjectID, op wire.Opcode, fill func(*wire.MessageBuilder)) error {
	m := wire.NewMessageBuilder()
	if fill != nil {
		fill(m)
	}
	data, fds := m.BuildMessage(obj, op)
	return b.conn.Send(data, fds)
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func parentSocketPath() (string, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("wayland backend: XDG_RUNTIME_DIR not set")
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	return filepath.Join(runtimeDir, display), nil
}
