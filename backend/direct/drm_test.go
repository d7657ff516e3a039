//go:build linux

package direct

import "testing"

func TestResolveActivePlaneReusesExistingConfiguration(t *testing.T) {
	res := &resources{
		connectors: []connector{{id: 10, encoderID: 20, connected: true}},
		encoders:   []encoder{{id: 20, crtcID: 30}},
		crtcs:      []crtc{{id: 30, fbID: 99}},
		planes:     []plane{{id: 40, crtcID: 30, fbID: 99}, {id: 41, crtcID: 0, fbID: 0}},
	}

	pl, c, ok := resolveActivePlane(res, &res.connectors[0])
	if !ok {
		t.Fatalf("resolveActivePlane: expected a match")
	}
	if pl.id != 40 {
		t.Errorf("plane id = %d, want 40", pl.id)
	}
	if c.id != 30 {
		t.Errorf("crtc id = %d, want 30", c.id)
	}
}

func TestResolveActivePlaneSkipsDisconnectedConnector(t *testing.T) {
	res := &resources{
		connectors: []connector{{id: 10, encoderID: 0, connected: false}},
	}
	_, _, ok := resolveActivePlane(res, &res.connectors[0])
	if ok {
		t.Errorf("resolveActivePlane: expected no match for a disconnected connector")
	}
}

func TestResolveActivePlaneSkipsInactiveCrtc(t *testing.T) {
	res := &resources{
		connectors: []connector{{id: 10, encoderID: 20, connected: true}},
		encoders:   []encoder{{id: 20, crtcID: 30}},
		crtcs:      []crtc{{id: 30, fbID: 0}},
	}
	_, _, ok := resolveActivePlane(res, &res.connectors[0])
	if ok {
		t.Errorf("resolveActivePlane: expected no match for an inactive crtc")
	}
}

func TestResolveActivePlaneReportsCrtcWithNoMatchingPlane(t *testing.T) {
	res := &resources{
		connectors: []connector{{id: 10, encoderID: 20, connected: true}},
		encoders:   []encoder{{id: 20, crtcID: 30}},
		crtcs:      []crtc{{id: 30, fbID: 99}},
		planes:     []plane{{id: 40, crtcID: 99, fbID: 1}}, // bound to a different crtc
	}
	pl, c, ok := resolveActivePlane(res, &res.connectors[0])
	if ok || pl != nil {
		t.Fatalf("resolveActivePlane: expected no plane match")
	}
	if c == nil || c.id != 30 {
		t.Errorf("expected the inactive-plane crtc to still be returned for error reporting")
	}
}

func TestRefreshRateMHz60Hz(t *testing.T) {
	var mode [68]byte
	// clock (kHz), htotal at offset 10, vtotal at offset 20, matching a
	// common 1920x1080@60 timing (148500 kHz / (2200 * 1125) = 60.00 Hz).
	putU32(mode[0:4], 148500)
	putU16(mode[10:12], 2200)
	putU16(mode[20:22], 1125)

	got := refreshRateMHz(&mode)
	if got < 59999 || got > 60001 {
		t.Errorf("refreshRateMHz = %d mHz, want ~60000", got)
	}
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU16(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
