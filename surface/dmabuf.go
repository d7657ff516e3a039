package surface

import "github.com/gogpu/wroc/gpucore"

// DmabufBuffer is a wl_buffer created from zwp_linux_buffer_params_v1,
// backed directly by a gpucore.Image imported from the client's dma-buf
// rather than a host-mapped ShmPool region. Unlike ShmBuffer, its content
// is ready as soon as the import succeeds: there is no host-to-device
// staging copy to wait for, since the image's memory already lives on
// the device.
type DmabufBuffer struct {
	img               *gpucore.Image
	locked            bool
	lock              *BufferLock
	destroyed         bool
	onReleaseCallback func()
}

// NewDmabufBuffer wraps an already-imported image as a wl_buffer.
func NewDmabufBuffer(img *gpucore.Image) *DmabufBuffer {
	return &DmabufBuffer{img: img}
}

// Image returns the backing GPU image, consulted directly by the
// compositor's redraw path (the same role ShmBuffer.Data plays for the
// shm-backed path, except the pixels never need copying into the scene).
func (b *DmabufBuffer) Image() *gpucore.Image { return b.img }

// Extent implements Buffer.
func (b *DmabufBuffer) Extent() (w, h int32) {
	return int32(b.img.Extent.Width), int32(b.img.Extent.Height)
}

// SetReleaseCallback installs the function invoked once this buffer's
// last outstanding lock is released.
func (b *DmabufBuffer) SetReleaseCallback(fn func()) {
	b.onReleaseCallback = fn
}

// CommitLock implements Buffer.
func (b *DmabufBuffer) CommitLock(s *Surface) (*BufferLock, error) {
	if b.locked {
		b.lock.refs++
		return b.lock, nil
	}
	b.locked = true
	b.lock = &BufferLock{buffer: b, refs: 1}
	return b.lock, nil
}

// IsReady implements Buffer; a dma-buf import has no separate staging
// step to wait on.
func (b *DmabufBuffer) IsReady(s *Surface) (bool, error) {
	return true, nil
}

// OnLockReleased implements Buffer.
func (b *DmabufBuffer) OnLockReleased() {
	b.locked = false
	b.lock = nil
	if b.onReleaseCallback != nil {
		b.onReleaseCallback()
	}
	if b.destroyed {
		b.img.Release()
	}
}

// Destroy marks the buffer destroyed. If currently locked, the backing
// image is released once the outstanding lock drops instead of
// immediately, the same deferred-teardown rule ShmBuffer follows.
func (b *DmabufBuffer) Destroy() {
	if b.locked {
		b.destroyed = true
		return
	}
	b.img.Release()
}
