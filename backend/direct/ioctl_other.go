//go:build !linux

package direct

import (
	"fmt"
	"os"
)

// Stubs for non-Linux platforms; the direct backend only runs on Linux.

func openPrimaryNode(path string) (*os.File, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func setClientCap(fd int, cap uint64, value uint64) error {
	return fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getCap(fd int, cap uint64) (uint64, error) {
	return 0, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getCardRes(fd int) (crtcIDs, connectorIDs, encoderIDs []uint32, err error) {
	return nil, nil, nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getConnector(fd int, id uint32) (*drmModeGetConnector, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getEncoder(fd int, id uint32) (*drmModeGetEncoder, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getCrtc(fd int, id uint32) (*drmModeCrtc, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getPlaneIDs(fd int) ([]uint32, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func getPlane(fd int, id uint32) (*drmModeGetPlane, error) {
	return nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func objectProperties(fd int, objID, objType uint32) (ids []uint32, values []uint64, err error) {
	return nil, nil, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func propertyName(fd int, propID uint32) (string, error) {
	return "", fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func primeFDToHandle(fd int, dmaFD int) (uint32, error) {
	return 0, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func gemClose(fd int, handle uint32) error {
	return fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func addFB2WithModifiers(fd int, width, height, pixelFormat uint32, handles, pitches, offsets [4]uint32, modifiers [4]uint64) (uint32, error) {
	return 0, fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func rmFB(fd int, fbID uint32) error {
	return fmt.Errorf("direct backend: DRM is only supported on Linux")
}

func atomicCommit(fd int, objIDs, propCounts []uint32, propIDs []uint32, propValues []uint64, nonblock bool, userData uint64) error {
	return fmt.Errorf("direct backend: DRM is only supported on Linux")
}
