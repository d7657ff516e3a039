//go:build linux

package direct

import (
	"encoding/binary"
	"testing"
)

func buildFlipEvent(userData uint64) []byte {
	buf := make([]byte, drmEventVblankSize)
	binary.LittleEndian.PutUint32(buf[0:4], drmEventFlipComplete)
	binary.LittleEndian.PutUint32(buf[4:8], drmEventVblankSize)
	binary.LittleEndian.PutUint64(buf[8:16], userData)
	return buf
}

func TestParseFlipCompleteUserDataSingleEvent(t *testing.T) {
	buf := buildFlipEvent(42)
	got := parseFlipCompleteUserData(buf)
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("parseFlipCompleteUserData = %v, want [42]", got)
	}
}

func TestParseFlipCompleteUserDataMultipleEventsInOneRead(t *testing.T) {
	buf := append(buildFlipEvent(1), buildFlipEvent(2)...)
	got := parseFlipCompleteUserData(buf)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("parseFlipCompleteUserData = %v, want [1 2]", got)
	}
}

func TestParseFlipCompleteUserDataIgnoresOtherEventTypes(t *testing.T) {
	other := make([]byte, 24)
	binary.LittleEndian.PutUint32(other[0:4], 0x01) // DRM_EVENT_VBLANK
	binary.LittleEndian.PutUint32(other[4:8], 24)

	buf := append(other, buildFlipEvent(7)...)
	got := parseFlipCompleteUserData(buf)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("parseFlipCompleteUserData = %v, want [7]", got)
	}
}

func TestCompleteFlipMarksBufferFreeAndSignalsRelease(t *testing.T) {
	b := &Backend{pendingFlips: make(map[uint64]*pendingFlip)}
	out := &Output{}
	buf := &drmBuffer{fbID: 5, free: false}

	released := false
	b.pendingFlips[3] = &pendingFlip{out: out, buf: buf, onRelease: func() { released = true }}

	b.completeFlip(3)

	if !buf.free {
		t.Errorf("completeFlip: buffer not marked free")
	}
	if out.frontbuffer != buf {
		t.Errorf("completeFlip: frontbuffer not updated")
	}
	if !released {
		t.Errorf("completeFlip: onRelease not called")
	}
	if _, ok := b.pendingFlips[3]; ok {
		t.Errorf("completeFlip: pending flip not removed")
	}
}
