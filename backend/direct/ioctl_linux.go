//go:build linux

package direct

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DRM ioctl numbers, computed by hand from the standard Linux ioctl
// encoding (type 'd' = 0x64):
//
//	_IO(type, nr)         = (type << 8) | nr
//	_IOR(type, nr, size)  = 0x80000000 | (size << 16) | (type << 8) | nr
//	_IOW(type, nr, size)  = 0x40000000 | (size << 16) | (type << 8) | nr
//	_IOWR(type, nr, size) = 0xC0000000 | (size << 16) | (type << 8) | nr
const (
	ioctlSetMaster        = 0x641e          // DRM_IOCTL_SET_MASTER,  _IO('d', 0x1e)
	ioctlDropMaster       = 0x641f          // DRM_IOCTL_DROP_MASTER, _IO('d', 0x1f)
	ioctlGetCap           = 0xc010640c      // _IOWR('d', 0x0c, struct drm_get_cap) (16 bytes)
	ioctlSetClientCap     = 0x4010640d      // _IOW('d', 0x0d, struct drm_set_client_cap) (16 bytes)
	ioctlModeGetResources = 0xc04064a0      // _IOWR('d', 0xa0, struct drm_mode_card_res) (64 bytes)
	ioctlModeGetCrtc      = 0xc06864a1      // _IOWR('d', 0xa1, struct drm_mode_crtc) (104 bytes)
	ioctlModeGetEncoder   = 0xc01464a6      // _IOWR('d', 0xa6, struct drm_mode_get_encoder) (20 bytes)
	ioctlModeGetConnector = 0xc05064a7      // _IOWR('d', 0xa7, struct drm_mode_get_connector) (80 bytes)
	ioctlModeObjGetProps  = 0xc02064b9      // _IOWR('d', 0xb9, struct drm_mode_obj_get_properties) (32 bytes)
	ioctlModeGetProperty  = 0xc04064aa      // _IOWR('d', 0xaa, struct drm_mode_get_property) (64 bytes)
	ioctlModeGetPlaneRes  = 0xc01064b5      // _IOWR('d', 0xb5, struct drm_mode_get_plane_res) (16 bytes)
	ioctlModeGetPlane     = 0xc02064b6      // _IOWR('d', 0xb6, struct drm_mode_get_plane) (32 bytes)
	ioctlModeAddFb2       = 0xc06864b8      // _IOWR('d', 0xb8, struct drm_mode_fb_cmd2) (104 bytes)
	ioctlModeRmFb         = 0xc00464af      // _IOWR('d', 0xaf, uint32)
	ioctlModeAtomic       = 0xc03864bc      // _IOWR('d', 0xbc, struct drm_mode_atomic) (56 bytes)
	ioctlPrimeFdToHandle  = 0xc00c6443      // _IOWR('d', 0x43, struct drm_prime_handle) (12 bytes)
	ioctlGemClose         = 0x40086409      // _IOW('d', 0x09, struct drm_gem_close) (8 bytes)
)

// Client capabilities (DRM_CLIENT_CAP_*).
const (
	clientCapUniversalPlanes = 2
	clientCapAtomic          = 3
)

// Device capabilities (DRM_CAP_*).
const capAddFB2Modifiers = 16

// DRM_MODE_OBJECT_* object types (drm_mode.h), used by
// ioctlModeObjGetProps. The values look like placeholders but are the
// kernel's real constants, chosen to be recognizable in a debugger.
const (
	modeObjectCrtc      = 0xcccccccc
	modeObjectConnector = 0xc0c0c0c0
	modeObjectPlane     = 0xeeeeeeee
)

const fbModifiers = 1 << 1 // DRM_MODE_FB_MODIFIERS

const (
	atomicFlagNonBlock     = 1 << 9 // DRM_MODE_ATOMIC_NONBLOCK
	atomicFlagPageFlip     = 1 << 0 // DRM_MODE_PAGE_FLIP_EVENT (reused on the atomic ioctl's flags field)
	atomicFlagAllowModeset = 1 << 1 // DRM_MODE_ATOMIC_ALLOW_MODESET (unused; this backend never modesets)
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func openPrimaryNode(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("direct backend: open %s: %w", path, err)
	}
	if err := ioctl(int(f.Fd()), ioctlSetMaster, nil); err != nil {
		f.Close()
		return nil, fmt.Errorf("direct backend: DRM_IOCTL_SET_MASTER: %w", err)
	}
	return f, nil
}

func setClientCap(fd int, cap uint64, value uint64) error {
	req := drmSetClientCap{Capability: cap, Value: value}
	return ioctl(fd, ioctlSetClientCap, unsafe.Pointer(&req))
}

func getCap(fd int, cap uint64) (uint64, error) {
	req := drmGetCap{Capability: cap}
	if err := ioctl(fd, ioctlGetCap, unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return req.Value, nil
}

func getCardRes(fd int) (crtcIDs, connectorIDs, encoderIDs []uint32, err error) {
	var res drmModeCardRes
	if err := ioctl(fd, ioctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, nil, nil, fmt.Errorf("MODE_GETRESOURCES (count): %w", err)
	}

	crtcIDs = make([]uint32, res.CountCrtcs)
	connectorIDs = make([]uint32, res.CountConnectors)
	encoderIDs = make([]uint32, res.CountEncoders)

	res2 := drmModeCardRes{CountCrtcs: res.CountCrtcs, CountConnectors: res.CountConnectors, CountEncoders: res.CountEncoders}
	if len(crtcIDs) > 0 {
		res2.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	}
	if len(connectorIDs) > 0 {
		res2.ConnectorIDPtr = uint64(uintptr(unsafe.Pointer(&connectorIDs[0])))
	}
	if len(encoderIDs) > 0 {
		res2.EncoderIDPtr = uint64(uintptr(unsafe.Pointer(&encoderIDs[0])))
	}
	if err := ioctl(fd, ioctlModeGetResources, unsafe.Pointer(&res2)); err != nil {
		return nil, nil, nil, fmt.Errorf("MODE_GETRESOURCES (fill): %w", err)
	}
	return crtcIDs, connectorIDs, encoderIDs, nil
}

func getConnector(fd int, id uint32) (*drmModeGetConnector, error) {
	conn := drmModeGetConnector{ConnectorID: id}
	if err := ioctl(fd, ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return nil, fmt.Errorf("MODE_GETCONNECTOR(%d): %w", id, err)
	}
	return &conn, nil
}

func getEncoder(fd int, id uint32) (*drmModeGetEncoder, error) {
	enc := drmModeGetEncoder{EncoderID: id}
	if err := ioctl(fd, ioctlModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
		return nil, fmt.Errorf("MODE_GETENCODER(%d): %w", id, err)
	}
	return &enc, nil
}

func getCrtc(fd int, id uint32) (*drmModeCrtc, error) {
	crtc := drmModeCrtc{CrtcID: id}
	if err := ioctl(fd, ioctlModeGetCrtc, unsafe.Pointer(&crtc)); err != nil {
		return nil, fmt.Errorf("MODE_GETCRTC(%d): %w", id, err)
	}
	return &crtc, nil
}

func getPlaneIDs(fd int) ([]uint32, error) {
	var res drmModeGetPlaneRes
	if err := ioctl(fd, ioctlModeGetPlaneRes, unsafe.Pointer(&res)); err != nil {
		return nil, fmt.Errorf("MODE_GETPLANERESOURCES (count): %w", err)
	}
	ids := make([]uint32, res.CountPlanes)
	if len(ids) == 0 {
		return ids, nil
	}
	res2 := drmModeGetPlaneRes{CountPlanes: res.CountPlanes, PlaneIDPtr: uint64(uintptr(unsafe.Pointer(&ids[0])))}
	if err := ioctl(fd, ioctlModeGetPlaneRes, unsafe.Pointer(&res2)); err != nil {
		return nil, fmt.Errorf("MODE_GETPLANERESOURCES (fill): %w", err)
	}
	return ids, nil
}

func getPlane(fd int, id uint32) (*drmModeGetPlane, error) {
	p := drmModeGetPlane{PlaneID: id}
	if err := ioctl(fd, ioctlModeGetPlane, unsafe.Pointer(&p)); err != nil {
		return nil, fmt.Errorf("MODE_GETPLANE(%d): %w", id, err)
	}
	return &p, nil
}

// objectProperties returns the object's property ids and current values,
// in matching index order — the same two-call count-then-fill shape
// every variable-length DRM ioctl uses.
func objectProperties(fd int, objID, objType uint32) (ids []uint32, values []uint64, err error) {
	var req drmModeObjGetProperties
	req.ObjID, req.ObjType = objID, objType
	if err := ioctl(fd, ioctlModeObjGetProps, unsafe.Pointer(&req)); err != nil {
		return nil, nil, fmt.Errorf("MODE_OBJ_GETPROPERTIES(%d) count: %w", objID, err)
	}
	ids = make([]uint32, req.CountProps)
	values = make([]uint64, req.CountProps)
	if req.CountProps == 0 {
		return ids, values, nil
	}
	req2 := drmModeObjGetProperties{
		ObjID: objID, ObjType: objType, CountProps: req.CountProps,
		PropsPtr: uint64(uintptr(unsafe.Pointer(&ids[0]))), PropValuesPtr: uint64(uintptr(unsafe.Pointer(&values[0]))),
	}
	if err := ioctl(fd, ioctlModeObjGetProps, unsafe.Pointer(&req2)); err != nil {
		return nil, nil, fmt.Errorf("MODE_OBJ_GETPROPERTIES(%d) fill: %w", objID, err)
	}
	return ids, values, nil
}

func propertyName(fd int, propID uint32) (string, error) {
	prop := drmModeGetProperty{PropID: propID}
	if err := ioctl(fd, ioctlModeGetProperty, unsafe.Pointer(&prop)); err != nil {
		return "", fmt.Errorf("MODE_GETPROPERTY(%d): %w", propID, err)
	}
	n := 0
	for n < len(prop.Name) && prop.Name[n] != 0 {
		n++
	}
	return string(prop.Name[:n]), nil
}

func primeFDToHandle(fd int, dmaFD int) (uint32, error) {
	req := drmPrimeHandle{Fd: int32(dmaFD)}
	if err := ioctl(fd, ioctlPrimeFdToHandle, unsafe.Pointer(&req)); err != nil {
		return 0, fmt.Errorf("PRIME_FD_TO_HANDLE: %w", err)
	}
	return req.Handle, nil
}

func gemClose(fd int, handle uint32) error {
	req := drmGemClose{Handle: handle}
	return ioctl(fd, ioctlGemClose, unsafe.Pointer(&req))
}

// addFB2WithModifiers registers planes (already imported as GEM handles)
// as a scanout framebuffer with per-plane format modifiers.
func addFB2WithModifiers(fd int, width, height, pixelFormat uint32, handles, pitches, offsets [4]uint32, modifiers [4]uint64) (uint32, error) {
	req := drmModeFbCmd2{
		Width: width, Height: height, PixelFormat: pixelFormat, Flags: fbModifiers,
		Handles: handles, Pitches: pitches, Offsets: offsets, Modifier: modifiers,
	}
	if err := ioctl(fd, ioctlModeAddFb2, unsafe.Pointer(&req)); err != nil {
		return 0, fmt.Errorf("MODE_ADDFB2: %w", err)
	}
	return req.FbID, nil
}

func rmFB(fd int, fbID uint32) error {
	id := fbID
	return ioctl(fd, ioctlModeRmFb, unsafe.Pointer(&id))
}

// atomicCommit submits propIDs[i]=propValues[i] for objIDs[i] (parallel,
// flattened per-object slices built by the caller) as one atomic request.
// userData is returned unchanged in the page-flip event this commit
// completes with.
func atomicCommit(fd int, objIDs, propCounts []uint32, propIDs []uint32, propValues []uint64, nonblock bool, userData uint64) error {
	flags := uint32(atomicFlagPageFlip)
	if nonblock {
		flags |= atomicFlagNonBlock
	}
	req := drmModeAtomic{
		Flags: flags, CountObjs: uint32(len(objIDs)),
		ObjsPtr: uint64(uintptr(unsafe.Pointer(&objIDs[0]))), CountPropsPtr: uint64(uintptr(unsafe.Pointer(&propCounts[0]))),
		PropsPtr: uint64(uintptr(unsafe.Pointer(&propIDs[0]))), PropValuesPtr: uint64(uintptr(unsafe.Pointer(&propValues[0]))),
		UserData: userData,
	}
	if err := ioctl(fd, ioctlModeAtomic, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("MODE_ATOMIC: %w", err)
	}
	return nil
}
