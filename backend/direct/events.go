//go:build linux

package direct

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// DRM event types (drm_event.type); VBLANK is never requested by this
// backend, only page flips.
const (
	drmEventFlipComplete = 0x80000001
)

// drm_event header + drm_event_vblank body: 8 bytes of {type, length}
// followed by user_data/tv_sec/tv_usec/sequence/crtc_id (24 bytes),
// 32 bytes total.
const drmEventVblankSize = 32

// pendingFlip is one atomic commit awaiting its page-flip completion
// event, matched back to the committing output/buffer/release callback
// by the user_data value the commit was submitted with.
type pendingFlip struct {
	out       *Output
	buf       *drmBuffer
	onRelease func()
}

// handleDrmEvent drains and parses every complete event currently
// buffered on the primary node's fd, firing the matching pendingFlip's
// release callback for each DRM_EVENT_FLIP_COMPLETE.
func (b *Backend) handleDrmEvent() error {
	buf := make([]byte, 4096)
	n, err := unix.Read(b.fd, buf)
	if err != nil {
		if err == unix.EAGAIN {
			return nil
		}
		return fmt.Errorf("direct backend: read drm event fd: %w", err)
	}
	for _, userData := range parseFlipCompleteUserData(buf[:n]) {
		b.completeFlip(userData)
	}
	return nil
}

// parseFlipCompleteUserData extracts the user_data field of every
// DRM_EVENT_FLIP_COMPLETE event in buf, in arrival order. Events of any
// other type (DRM_EVENT_VBLANK, DRM_EVENT_CRTC_SEQUENCE) are stepped over
// using their length field, since one read can mix them in with the
// events this backend cares about.
func parseFlipCompleteUserData(buf []byte) []uint64 {
	var out []uint64
	for len(buf) >= 8 {
		typ := binary.LittleEndian.Uint32(buf[0:4])
		length := binary.LittleEndian.Uint32(buf[4:8])
		if length == 0 || int(length) > len(buf) {
			break
		}
		body := buf[:length]
		buf = buf[length:]

		if typ != drmEventFlipComplete || len(body) < drmEventVblankSize {
			continue
		}
		out = append(out, binary.LittleEndian.Uint64(body[8:16]))
	}
	return out
}

func (b *Backend) completeFlip(userData uint64) {
	flip, ok := b.pendingFlips[userData]
	if !ok {
		return
	}
	delete(b.pendingFlips, userData)

	flip.buf.free = true
	flip.out.frontbuffer = flip.buf
	flip.onRelease()
}
