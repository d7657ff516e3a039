//go:build linux

package direct

import "fmt"

// connector mirrors the subset of struct drm_mode_get_connector this
// backend consults: its own id, the encoder it is currently driven by
// (if connected), and whether it is connected at all.
type connector struct {
	id         uint32
	encoderID  uint32 // 0 if none
	connected  bool
	widthMM    uint32
	heightMM   uint32
}

type encoder struct {
	id     uint32
	crtcID uint32 // 0 if none
}

type crtc struct {
	id       uint32
	fbID     uint32 // 0 if inactive
	x, y     uint32
	refreshMHz uint32
}

type plane struct {
	id     uint32
	crtcID uint32
	fbID   uint32
}

// resources is the set of KMS objects discovered on one DRM primary node,
// grounded on the original compositor's drm_resources: flat lookup tables
// populated once at Init time, since this backend never hotplugs.
type resources struct {
	connectors []connector
	encoders   []encoder
	crtcs      []crtc
	planes     []plane
}

func loadResources(fd int) (*resources, error) {
	crtcIDs, connectorIDs, encoderIDs, err := getCardRes(fd)
	if err != nil {
		return nil, err
	}
	planeIDs, err := getPlaneIDs(fd)
	if err != nil {
		return nil, err
	}

	res := &resources{}
	for _, id := range connectorIDs {
		raw, err := getConnector(fd, id)
		if err != nil {
			return nil, err
		}
		res.connectors = append(res.connectors, connector{
			id:        id,
			encoderID: raw.EncoderID,
			connected: raw.Connection == 1, // DRM_MODE_CONNECTED
			widthMM:   raw.MmWidth,
			heightMM:  raw.MmHeight,
		})
	}
	for _, id := range encoderIDs {
		raw, err := getEncoder(fd, id)
		if err != nil {
			return nil, err
		}
		res.encoders = append(res.encoders, encoder{id: id, crtcID: raw.CrtcID})
	}
	for _, id := range crtcIDs {
		raw, err := getCrtc(fd, id)
		if err != nil {
			return nil, err
		}
		c := crtc{id: id, fbID: raw.FbID, x: raw.X, y: raw.Y}
		if raw.ModeValid != 0 {
			c.refreshMHz = refreshRateMHz(&raw.Mode)
		}
		res.crtcs = append(res.crtcs, c)
	}
	for _, id := range planeIDs {
		raw, err := getPlane(fd, id)
		if err != nil {
			return nil, err
		}
		res.planes = append(res.planes, plane{id: id, crtcID: raw.CrtcID, fbID: raw.FbID})
	}
	return res, nil
}

func (r *resources) findEncoder(id uint32) (*encoder, bool) {
	for i := range r.encoders {
		if r.encoders[i].id == id {
			return &r.encoders[i], true
		}
	}
	return nil, false
}

func (r *resources) findCrtc(id uint32) (*crtc, bool) {
	for i := range r.crtcs {
		if r.crtcs[i].id == id {
			return &r.crtcs[i], true
		}
	}
	return nil, false
}

// findActivePlane returns the plane currently scanning out crtcID's
// active framebuffer, i.e. the plane this output already owns under the
// existing KMS configuration.
func (r *resources) findActivePlane(crtcID, fbID uint32) (*plane, bool) {
	for i := range r.planes {
		if r.planes[i].crtcID == crtcID && r.planes[i].fbID == fbID && fbID != 0 {
			return &r.planes[i], true
		}
	}
	return nil, false
}

// refreshRateMHz mirrors the kernel's drm_mode_vrefresh calculation
// (clock in kHz, htotal/vtotal in pixels/lines) scaled to milli-Hz so
// output.go can report an integer without losing precision on NTSC-ish
// rates like 59940 mHz.
func refreshRateMHz(mode *[68]byte) uint32 {
	clock := u32(mode[0:4])
	htotal := u16(mode[10:12])
	vtotal := u16(mode[20:22])
	if htotal == 0 || vtotal == 0 {
		return 0
	}
	return uint32(uint64(clock) * 1_000_000 / (uint64(htotal) * uint64(vtotal)))
}

func u32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func u16(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8
}

// outputState is what add_output discovers and caches for one connected
// connector: the CRTC/plane it is already scanning out under, reused as
// is rather than driving a fresh modeset (spec §4.4, "initial
// prototype" — the same simplification the original drm.cpp makes).
type outputState struct {
	connectorID     uint32
	crtcID          uint32
	primaryPlaneID  uint32
	refreshMHz      uint32
	planeProps      map[string]uint32
	crtcProps       map[string]uint32
}

// resolveActivePlane is the pure connector -> encoder -> crtc -> plane
// walk add_output performs before touching any property ioctl: find the
// connector's current encoder, that encoder's current CRTC (it must be
// active, i.e. already scanning out a framebuffer), then the plane
// already bound to that CRTC's active framebuffer. Returns (nil, nil,
// false) if the connector isn't connected or has nothing active to
// reuse — not an error, just nothing to discover for this connector in
// this prototype.
func resolveActivePlane(res *resources, conn *connector) (*plane, *crtc, bool) {
	if !conn.connected || conn.encoderID == 0 {
		return nil, nil, false
	}
	enc, ok := res.findEncoder(conn.encoderID)
	if !ok || enc.crtcID == 0 {
		return nil, nil, false
	}
	c, ok := res.findCrtc(enc.crtcID)
	if !ok || c.fbID == 0 {
		return nil, nil, false // CRTC inactive; nothing to reuse in this prototype
	}
	pl, ok := res.findActivePlane(c.id, c.fbID)
	if !ok {
		return nil, c, false
	}
	return pl, c, true
}

// discoverOutput walks connector -> encoder -> crtc -> plane and returns
// the output state for a connected, already-configured connector, or
// (nil, nil) if the connector has no active configuration to reuse.
func discoverOutput(fd int, res *resources, conn *connector) (*outputState, error) {
	pl, c, ok := resolveActivePlane(res, conn)
	if !ok {
		if c != nil {
			return nil, fmt.Errorf("direct backend: connector %d has an active crtc %d but no matching plane", conn.id, c.id)
		}
		return nil, nil
	}

	planeProps, err := loadPropertyMap(fd, pl.id, modeObjectPlane)
	if err != nil {
		return nil, err
	}
	crtcProps, err := loadPropertyMap(fd, c.id, modeObjectCrtc)
	if err != nil {
		return nil, err
	}

	return &outputState{
		connectorID:    conn.id,
		crtcID:         c.id,
		primaryPlaneID: pl.id,
		refreshMHz:     c.refreshMHz,
		planeProps:     planeProps,
		crtcProps:      crtcProps,
	}, nil
}

// loadPropertyMap resolves an object's property ids to their names, the
// same role the original backend's drm_property_map plays: atomic commits
// address properties by id, but this code wants to address them by name
// ("FB_ID", "IN_FENCE_FD", ...).
func loadPropertyMap(fd int, objID, objType uint32) (map[string]uint32, error) {
	ids, _, err := objectProperties(fd, objID, objType)
	if err != nil {
		return nil, err
	}
	m := make(map[string]uint32, len(ids))
	for _, id := range ids {
		name, err := propertyName(fd, id)
		if err != nil {
			return nil, err
		}
		m[name] = id
	}
	return m, nil
}
