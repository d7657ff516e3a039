package protocol

import (
	"fmt"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

// WL_SHM_FORMAT_* values advertised per SPEC_FULL §6 (minimum required
// set: ARGB8888, XRGB8888).
const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1
)

// wl_shm event opcode.
const shmEventFormat wire.Opcode = 0

// wl_shm request opcode.
const shmRequestCreatePool wire.Opcode = 0

// NewShmGlobal registers wl_shm (max version 2), advertising the required
// pixel formats to each newly bound client.
func NewShmGlobal(reg *Registry) *Global {
	g := &Global{Name: "wl_shm", Version: 2}
	g.Bind = func(c *Client, id wire.ObjectID, version uint32) error {
		c.Register(id, &shmResource{})
		for _, f := range []uint32{ShmFormatARGB8888, ShmFormatXRGB8888} {
			b := wire.NewMessageBuilder()
			b.PutUint(f)
			c.SendEvent(id, shmEventFormat, b)
		}
		return nil
	}
	reg.Add(g)
	return g
}

type shmResource struct{}

func (r *shmResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != shmRequestCreatePool {
		return c.PostError(0, 0, fmt.Sprintf("wl_shm: bad opcode %d", op))
	}
	id, err := args.NewID()
	if err != nil {
		return err
	}
	fd, err := args.FD()
	if err != nil {
		return err
	}
	size, err := args.Int()
	if err != nil {
		return err
	}
	pool, err := surface.NewShmPool(fd, size)
	if err != nil {
		return c.PostError(id, 0, fmt.Sprintf("wl_shm.create_pool: %v", err))
	}
	c.Register(id, &shmPoolResource{id: id, pool: pool})
	return nil
}

// wl_shm_pool request opcodes.
const (
	shmPoolRequestCreateBuffer wire.Opcode = 0
	shmPoolRequestDestroy      wire.Opcode = 1
	shmPoolRequestResize       wire.Opcode = 2
)

type shmPoolResource struct {
	id   wire.ObjectID
	pool *surface.ShmPool
}

func (r *shmPoolResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case shmPoolRequestCreateBuffer:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		offset, err := args.Int()
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
		stride, err := args.Int()
		if err != nil {
			return err
		}
		format, err := args.Uint()
		if err != nil {
			return err
		}
		buf := surface.NewShmBuffer(r.pool.Mapping(), offset, width, height, stride, format)
		c.Register(id, &bufferResource{id: id, buffer: buf, shmBuffer: buf})
		wireBufferRelease(c, id, buf)
		return nil

	case shmPoolRequestDestroy:
		c.Unregister(r.id)
		return nil

	case shmPoolRequestResize:
		size, err := args.Int()
		if err != nil {
			return err
		}
		if err := r.pool.Resize(size); err != nil {
			return c.PostError(r.id, 0, fmt.Sprintf("wl_shm_pool.resize: %v", err))
		}
		return nil

	default:
		return c.PostError(r.id, 0, fmt.Sprintf("wl_shm_pool: bad opcode %d", op))
	}
}

func (r *shmPoolResource) OnDestroy() {
	r.pool.Destroy()
}

// wl_buffer request/event opcodes.
const (
	bufferRequestDestroy wire.Opcode = 0
	bufferEventRelease   wire.Opcode = 0
)

// bufferResource is the protocol-facing wl_buffer object. buffer satisfies
// surface.Buffer; shmBuffer, when non-nil, is used to wire the release
// event back to the client once the surface package signals
// OnLockReleased (spec §4.2/§5: a buffer may be reused by the client only
// after every lock guard referencing it has dropped).
type bufferResource struct {
	id        wire.ObjectID
	buffer    surface.Buffer
	shmBuffer *surface.ShmBuffer

	// destroy, when set, is called instead of shmBuffer.Destroy on
	// teardown — used by non-shm-backed buffers (zwp_linux_dmabuf_v1's
	// DmabufBuffer) that still want the uniform bufferResource wrapper.
	destroy func()
}

func (r *bufferResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != bufferRequestDestroy {
		return c.PostError(r.id, 0, fmt.Sprintf("wl_buffer: bad opcode %d", op))
	}
	c.Unregister(r.id)
	return nil
}

func (r *bufferResource) OnDestroy() {
	if r.destroy != nil {
		r.destroy()
		return
	}
	if r.shmBuffer != nil {
		r.shmBuffer.Destroy()
	}
}

// wireBufferRelease installs the release-event callback on an
// already-registered buffer resource, invoked by wl_shm_pool.create_buffer
// right after the buffer is registered, so the client receives
// wl_buffer.release exactly once per lock/unlock cycle.
func wireBufferRelease(c *Client, id wire.ObjectID, sb *surface.ShmBuffer) {
	sb.SetReleaseCallback(func() {
		c.SendEvent(id, bufferEventRelease, wire.NewMessageBuilder())
	})
}
