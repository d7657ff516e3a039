package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// DRM_FORMAT_ABGR8888, the only format this core's GPU layer imports
// (gpucore.FormatABGR8888); advertised as the sole supported format on
// zwp_linux_dmabuf_v1. No modifier event is sent for it.
const dmabufFormatABGR8888 uint32 = 0x34324241

// zwp_linux_dmabuf_v1 event opcodes (version 4: format/modifier, plus the
// feedback object this backend advertises but never varies per-surface).
const (
	dmabufEventFormat   wire.Opcode = 0
	dmabufEventModifier wire.Opcode = 1
)

// zwp_linux_dmabuf_v1 request opcodes.
const (
	dmabufRequestDestroy          wire.Opcode = 0
	dmabufRequestCreateParams     wire.Opcode = 1
	dmabufRequestGetDefaultFeedback wire.Opcode = 2
	dmabufRequestGetSurfaceFeedback wire.Opcode = 3
)

// NewDmabufGlobal registers zwp_linux_dmabuf_v1 (max version 4), the
// server-side counterpart to what backend/wayland binds client-side
// against a parent compositor — promoted to a first-class handler here so
// this compositor's own clients can commit dma-buf-backed buffers too
// (SPEC_FULL §4.5).
func NewDmabufGlobal(reg *Registry, gpu *gpucore.Gpu) *Global {
	g := &Global{Name: "zwp_linux_dmabuf_v1", Version: 4}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &dmabufResource{id: id, gpu: gpu, version: version})
		if version < 3 {
			// Versions below 3 get a single format event immediately on
			// bind and no modifier event; binds at version 3 or later get
			// no format event here.
			b := wire.NewMessageBuilder()
			b.PutUint(dmabufFormatABGR8888)
			c.SendEvent(id, dmabufEventFormat, b)
		}
		return nil
	}
	reg.Add(g)
	return g
}

type dmabufResource struct {
	id      wire.ObjectID
	gpu     *gpucore.Gpu
	version uint32
}

func (r *dmabufResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case dmabufRequestDestroy:
		c.Unregister(r.id)
		return nil
	case dmabufRequestCreateParams:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(id, &dmabufParamsResource{id: id, gpu: r.gpu})
		return nil
	case dmabufRequestGetDefaultFeedback, dmabufRequestGetSurfaceFeedback:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		// A real feedback object streams a format table + tranches; this
		// core has exactly one GPU and one supported format, so there is
		// nothing a tranche would narrow — register an inert object that
		// only accepts destroy.
		c.Register(id, &dmabufFeedbackResource{id: id})
		return nil
	default:
		return c.PostError(r.id, 0, fmt.Sprintf("zwp_linux_dmabuf_v1: bad opcode %d", op))
	}
}

type dmabufFeedbackResource struct{ id wire.ObjectID }

func (r *dmabufFeedbackResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != 0 {
		return c.PostError(r.id, 0, fmt.Sprintf("zwp_linux_dmabuf_feedback_v1: bad opcode %d", op))
	}
	c.Unregister(r.id)
	return nil
}

// zwp_linux_buffer_params_v1 request opcodes.
const (
	paramsRequestDestroy     wire.Opcode = 0
	paramsRequestAdd         wire.Opcode = 1
	paramsRequestCreate      wire.Opcode = 2
	paramsRequestCreateImmed wire.Opcode = 3
)

// zwp_linux_buffer_params_v1 event opcodes.
const (
	paramsEventCreated wire.Opcode = 0
	paramsEventFailed  wire.Opcode = 1
)

// dmabufParamsResource accumulates planes added via add() until create()
// or create_immed() attempts the import, mirroring
// backend/wayland/output.go's client-side use of the same protocol in
// reverse.
type dmabufParamsResource struct {
	id     wire.ObjectID
	gpu    *gpucore.Gpu
	planes []gpucore.DmaPlane
	format uint32
	mod    uint64
	used   bool
}

func (r *dmabufParamsResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case paramsRequestDestroy:
		c.Unregister(r.id)
		return nil

	case paramsRequestAdd:
		fd, err := args.FD()
		if err != nil {
			return err
		}
		plane, err := args.Uint()
		if err != nil {
			return err
		}
		_ = plane // plane index; this core imports planes in add() order
		offset, err := args.Uint()
		if err != nil {
			return err
		}
		stride, err := args.Uint()
		if err != nil {
			return err
		}
		modHi, err := args.Uint()
		if err != nil {
			return err
		}
		modLo, err := args.Uint()
		if err != nil {
			return err
		}
		r.mod = uint64(modHi)<<32 | uint64(modLo)
		r.planes = append(r.planes, gpucore.DmaPlane{FD: fd, Offset: offset, Stride: stride})
		return nil

	case paramsRequestCreate, paramsRequestCreateImmed:
		return r.create(c, op, args)

	default:
		return c.PostError(r.id, 0, fmt.Sprintf("zwp_linux_buffer_params_v1: bad opcode %d", op))
	}
}

func (r *dmabufParamsResource) create(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op == paramsRequestCreate {
		// create() has the compositor mint the wl_buffer id itself and
		// announce it via created(), which needs this core's id allocator
		// to hand out ids from a range the client hasn't claimed — not
		// supported by this wire layer's client-driven NewID scheme.
		// Every caller in this module (backend/wayland's client-side use
		// of this same protocol, and any client this server expects) uses
		// create_immed instead.
		return c.PostError(r.id, 0, "zwp_linux_buffer_params_v1.create: unsupported, use create_immed")
	}
	bufID, err := args.NewID()
	if err != nil {
		return err
	}
	width, err := args.Int()
	if err != nil {
		return err
	}
	height, err := args.Int()
	if err != nil {
		return err
	}
	format, err := args.Uint()
	if err != nil {
		return err
	}
	_, err = args.Uint() // flags: Y_INVERT/INTERLACED/BOTTOM_FIRST; unsupported, ignored
	if err != nil {
		return err
	}

	if r.used {
		return c.PostError(r.id, paramsErrorAlreadyUsed, "zwp_linux_buffer_params_v1.create: params already used")
	}
	r.used = true

	if format != dmabufFormatABGR8888 {
		return c.PostError(r.id, paramsErrorInvalidFormat, "zwp_linux_buffer_params_v1: unsupported format")
	}

	img, err := r.gpu.ImageImportDmabuf(gpucore.DmaParams{
		Planes:   r.planes,
		Modifier: r.mod,
		Format:   gpucore.FormatABGR8888,
		Extent:   gpucore.Extent{Width: uint32(width), Height: uint32(height)},
	}, gpucore.ImageUsageTexture)
	if err != nil {
		return c.PostError(r.id, paramsErrorInvalidWlBuffer, fmt.Sprintf("zwp_linux_buffer_params_v1: import failed: %v", err))
	}

	buf := surface.NewDmabufBuffer(img)
	res := &bufferResource{id: bufID, buffer: buf, destroy: buf.Destroy}
	buf.SetReleaseCallback(func() {
		c.SendEvent(bufID, bufferEventRelease, wire.NewMessageBuilder())
	})
	c.Register(bufID, res)
	return nil
}

// zwp_linux_buffer_params_v1 error codes.
const (
	paramsErrorAlreadyUsed     uint32 = 2
	paramsErrorInvalidFormat   uint32 = 3
	paramsErrorInvalidWlBuffer uint32 = 6
)
