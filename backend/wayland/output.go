//go:build linux

package wayland

import (
	"fmt"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/wire"
)

// zwp_linux_dmabuf_v1 / zwp_linux_buffer_params_v1.
const (
	dmabufRequestCreateParams wire.Opcode = 1
	paramsRequestAdd          wire.Opcode = 1
	paramsRequestCreateImmed  wire.Opcode = 3
)

// Output proxies one of this compositor's outputs as a toplevel window on
// the parent compositor. A weak-keyed cache (here, a plain map keyed by
// descriptor id — images are never recycled across outputs, so no
// eviction is needed beyond DestroyOutput) avoids re-importing a dma-buf
// image that has already been proxied as a wl_buffer (spec §4.4).
type Output struct {
	b            *Backend
	name         string
	surfaceID    wire.ObjectID
	xdgSurfaceID wire.ObjectID
	toplevelID   wire.ObjectID

	extent     gpucore.Extent
	configured bool
	lastSerial uint32

	buffers map[gpucore.DescriptorID]wire.ObjectID
}

func (o *Output) Name() string { return o.name }

func (o *Output) Extent() gpucore.Extent { return o.extent }

// waitInitialConfigure blocks until the parent sends the first
// xdg_surface.configure for this toplevel, per the xdg-shell "commit
// with no buffer, wait for configure" handshake.
func (o *Output) waitInitialConfigure() error {
	for !o.configured {
		if err := o.b.pollAndDispatch(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Output) handleEvent(msg *wire.Message) error {
	switch msg.ObjectID {
	case o.xdgSurfaceID:
		return o.handleXdgSurfaceEvent(msg)
	case o.toplevelID:
		return o.handleToplevelEvent(msg)
	default:
		// Proxied wl_buffer.release events are not otherwise acted on: the
		// frame callback registered in Commit is this backend's release
		// signal, since buffer release can precede or follow frame done
		// depending on the parent's queueing and isn't guaranteed either way.
		return nil
	}
}

func (o *Output) handleXdgSurfaceEvent(msg *wire.Message) error {
	if msg.Opcode != xdgSurfaceEventConfigure {
		return nil
	}
	serial, err := msg.Args.Uint()
	if err != nil {
		return err
	}
	o.lastSerial = serial
	o.configured = true
	return o.b.send(o.xdgSurfaceID, xdgSurfaceRequestAckConfigure, func(m *wire.MessageBuilder) {
		m.PutUint(serial)
	})
}

func (o *Output) handleToplevelEvent(msg *wire.Message) error {
	switch msg.Opcode {
	case toplevelEventConfigure:
		width, err := msg.Args.Int()
		if err != nil {
			return err
		}
		height, err := msg.Args.Int()
		if err != nil {
			return err
		}
		if _, err := msg.Args.ArrayArg(); err != nil {
			return err
		}
		if width > 0 && height > 0 {
			o.extent = gpucore.Extent{Width: uint32(width), Height: uint32(height)}
		}
		return nil
	case toplevelEventClose:
		return nil // server.go observes this via a closed connection/output removal, not wired here
	default:
		return nil
	}
}

// Commit exports img as a dma-buf, proxies it as a wl_buffer (caching the
// proxy by descriptor id), attaches and commits it to the parent surface,
// and requests a wl_surface.frame callback. On that callback's done event
// this backend signals release at release.Value — standing in for a KMS
// page-flip event on the direct backend — which is what drives the
// swapchain's free-pool return and commit_available toggle (spec.md
// "frame callbacks fire after present completes").
//
// release is not yet also forwarded as a
// wp_linux_drm_syncobj_timeline_v1 set_release_point to the parent
// compositor — that would let the parent's own GPU wait on our
// release fence instead of us waiting for frame done, but requires
// exporting the semaphore's shadow syncobj as an fd
// (DRM_IOCTL_SYNCOBJ_HANDLE_TO_FD, not currently performed anywhere in
// gpucore) and this backend opens no DRM render node of its own to
// perform that ioctl. See DESIGN.md Open Questions.
func (o *Output) Commit(img *gpucore.Image, acquire, release gpucore.Syncpoint, flags backend.CommitFlags) error {
	bufID, ok := o.buffers[img.Descriptor()]
	if !ok {
		var err error
		bufID, err = o.importBuffer(img)
		if err != nil {
			return err
		}
		o.buffers[img.Descriptor()] = bufID
	}

	if err := o.b.send(o.surfaceID, surfaceRequestAttach, func(m *wire.MessageBuilder) {
		m.PutObject(bufID)
		m.PutInt(0)
		m.PutInt(0)
	}); err != nil {
		return err
	}

	if err := o.b.send(o.surfaceID, surfaceRequestDamageBuf, func(m *wire.MessageBuilder) {
		m.PutInt(0)
		m.PutInt(0)
		m.PutInt(int32(o.extent.Width))
		m.PutInt(int32(o.extent.Height))
	}); err != nil {
		return err
	}

	cbID := o.b.allocID()
	o.b.pending = append(o.b.pending, pendingCallback{id: cbID, fn: func() {
		release.Sema.SignalValue(release.Value)
	}})
	if err := o.b.send(o.surfaceID, surfaceRequestFrame, func(m *wire.MessageBuilder) {
		m.PutNewID(cbID)
	}); err != nil {
		return err
	}

	return o.b.send(o.surfaceID, surfaceRequestCommit, nil)
}

// importBuffer exports img's dma-buf planes and proxies them through
// zwp_linux_dmabuf_v1 as an immediate (no "created" round trip) wl_buffer.
func (o *Output) importBuffer(img *gpucore.Image) (wire.ObjectID, error) {
	if o.b.dmabufID == 0 {
		return 0, fmt.Errorf("wayland backend: parent compositor has no zwp_linux_dmabuf_v1")
	}
	params, err := o.b.gpu.ImageExportDmabuf(img)
	if err != nil {
		return 0, fmt.Errorf("wayland backend: export dma-buf: %w", err)
	}

	paramsID := o.b.allocID()
	if err := o.b.send(o.b.dmabufID, dmabufRequestCreateParams, func(m *wire.MessageBuilder) {
		m.PutNewID(paramsID)
	}); err != nil {
		return 0, err
	}

	for i, plane := range params.Planes {
		if err := o.b.send(paramsID, paramsRequestAdd, func(m *wire.MessageBuilder) {
			m.PutFD(plane.FD)
			m.PutUint(uint32(i))
			m.PutUint(plane.Offset)
			m.PutUint(plane.Stride)
			m.PutUint(uint32(params.Modifier >> 32))
			m.PutUint(uint32(params.Modifier))
		}); err != nil {
			return 0, err
		}
	}

	bufID := o.b.allocID()
	if err := o.b.send(paramsID, paramsRequestCreateImmed, func(m *wire.MessageBuilder) {
		m.PutNewID(bufID)
		m.PutInt(int32(params.Extent.Width))
		m.PutInt(int32(params.Extent.Height))
		m.PutUint(uint32(gpucore.FormatABGR8888))
		m.PutUint(0)
	}); err != nil {
		return 0, err
	}

	return bufID, nil
}
