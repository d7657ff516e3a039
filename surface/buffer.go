package surface

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Buffer is a client-provided source of pixels. A buffer is either
// released (the client may safely mutate its backing memory) or locked
// (the compositor holds a reference to its content).
type Buffer interface {
	Extent() (w, h int32)

	// CommitLock transitions the buffer released->locked on the first
	// call after release, and returns a copy of the outstanding guard on
	// every subsequent call while still locked. It is never a fresh
	// re-acquisition once already locked.
	CommitLock(s *Surface) (*BufferLock, error)

	// IsReady reports whether the buffer's content is available to the
	// GPU (ShmBuffer always reports true; it tracks no staged
	// host-to-device copy). Flush polls this once per attempt and stops
	// advancing the cache until it returns true.
	IsReady(s *Surface) (bool, error)

	// OnLockReleased is called by the last BufferLock.Release on this
	// buffer; it flips locked back to released and, if Destroy was
	// called while still locked, frees the underlying resources now.
	OnLockReleased()
}

// BufferLock is a reference-counted guard held from commit time until a
// buffer's content has been consumed by the compositor. Every SurfaceState
// that commits the same still-locked buffer holds a copy of the same
// guard rather than acquiring an independent one.
type BufferLock struct {
	buffer Buffer
	refs   int32
}

// NewBufferLockForTest constructs a BufferLock around an external Buffer
// implementation, for use by package-external tests that implement Buffer
// against a fake rather than ShmBuffer.
func NewBufferLockForTest(b Buffer) *BufferLock {
	return &BufferLock{buffer: b, refs: 1}
}

// Release drops one reference; when the last reference is dropped the
// buffer transitions back to released.
func (l *BufferLock) Release() {
	l.refs--
	if l.refs <= 0 {
		l.buffer.OnLockReleased()
	}
}

// ShmMapping is an owned mmap'd memory region with a lifetime independent
// of the ShmPool handle that created it — a buffer retains its mapping
// even if the pool is resized or the client destroys the pool object.
type ShmMapping struct {
	data []byte
}

func mapFD(fd int, size int32) (*ShmMapping, error) {
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("surface: mmap shm pool: %w", err)
	}
	return &ShmMapping{data: data}, nil
}

// Bytes returns the mapped memory. Callers must not retain the slice past
// the mapping's lifetime (Unmap invalidates it).
func (m *ShmMapping) Bytes() []byte {
	return m.data
}

// Unmap releases the mapping. Safe to call once; idempotent thereafter.
func (m *ShmMapping) Unmap() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// ShmPool is an mmap'd file descriptor shared with a client via
// wl_shm.create_pool. Resizing (wl_shm_pool.resize) replaces the mapping
// atomically; buffers created before the resize keep their own
// independently-lifetimed ShmMapping reference and are unaffected.
type ShmPool struct {
	fd      int
	size    int32
	mapping *ShmMapping
}

// NewShmPool maps fd for size bytes.
func NewShmPool(fd int, size int32) (*ShmPool, error) {
	m, err := mapFD(fd, size)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &ShmPool{fd: fd, size: size, mapping: m}, nil
}

// Resize grows the pool's mapping to newSize. newSize must be >= the
// current size (wl_shm_pool.resize forbids shrinking).
func (p *ShmPool) Resize(newSize int32) error {
	if newSize < p.size {
		return fmt.Errorf("surface: shm pool resize to smaller size")
	}
	m, err := mapFD(p.fd, newSize)
	if err != nil {
		return err
	}
	// The old mapping stays mapped for buffers created before the resize.
	p.mapping = m
	p.size = newSize
	return nil
}

// Mapping returns the pool's current mapping.
func (p *ShmPool) Mapping() *ShmMapping {
	return p.mapping
}

// Destroy closes the pool's fd. Buffers created from this pool retain
// their own ShmMapping reference and remain valid.
func (p *ShmPool) Destroy() error {
	return unix.Close(p.fd)
}

// ShmBuffer is a wl_buffer backed by a region of an ShmPool's mapping.
type ShmBuffer struct {
	mapping           *ShmMapping
	offset            int32
	width, height     int32
	stride            int32
	format            uint32
	locked            bool
	lock              *BufferLock
	destroyed         bool
	onReleaseCallback func()
}

// NewShmBuffer constructs a buffer viewing mapping at the given offset
// and geometry, as created by wl_shm_pool.create_buffer.
func NewShmBuffer(mapping *ShmMapping, offset, width, height, stride int32, format uint32) *ShmBuffer {
	return &ShmBuffer{
		mapping: mapping,
		offset:  offset,
		width:   width,
		height:  height,
		stride:  stride,
		format:  format,
	}
}

// Extent returns the buffer's pixel dimensions.
func (b *ShmBuffer) Extent() (w, h int32) {
	return b.width, b.height
}

// SetReleaseCallback installs the function invoked once this buffer's
// last outstanding lock is released, used by the protocol layer to wire
// wl_buffer.release.
func (b *ShmBuffer) SetReleaseCallback(fn func()) {
	b.onReleaseCallback = fn
}

// Data returns the buffer's backing bytes, a sub-slice of the pool's
// mapping.
func (b *ShmBuffer) Data() []byte {
	end := b.offset + b.stride*b.height
	return b.mapping.Bytes()[b.offset:end]
}

// CommitLock implements Buffer.
func (b *ShmBuffer) CommitLock(s *Surface) (*BufferLock, error) {
	if b.locked {
		b.lock.refs++
		return b.lock, nil
	}
	b.locked = true
	b.lock = &BufferLock{buffer: b, refs: 1}
	return b.lock, nil
}

// IsReady implements Buffer. It always reports true: no host->GPU copy
// is staged or tracked for shm buffers.
func (b *ShmBuffer) IsReady(s *Surface) (bool, error) {
	return true, nil
}

// OnLockReleased implements Buffer.
func (b *ShmBuffer) OnLockReleased() {
	b.locked = false
	b.lock = nil
	if b.onReleaseCallback != nil {
		b.onReleaseCallback()
	}
	if b.destroyed {
		// Nothing further to free: the pool owns the mapping.
	}
}

// Destroy marks the buffer destroyed. If currently locked, the backing
// memory remains valid until the outstanding BufferLock releases.
func (b *ShmBuffer) Destroy() {
	b.destroyed = true
}
