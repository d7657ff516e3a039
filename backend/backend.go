// Package backend defines the presentation surface abstraction a
// compositor output is committed through: either a nested-Wayland parent
// compositor (backend/wayland) or a direct DRM/KMS scanout device
// (backend/direct).
package backend

import "github.com/gogpu/wroc/gpucore"

// CommitFlags parameterizes one per-output commit.
type CommitFlags uint32

// CommitVSync requests the backend wait for the next vertical blank
// before presenting (spec §4.4: "flags include vsync").
const CommitVSync CommitFlags = 1 << 0

// Backend owns zero or more Outputs and translates the core's GPU
// syncpoints into whatever native sync primitive the presentation target
// understands (syncobj timelines for the nested backend, an
// IN_FENCE_FD/out-fence pair for the direct backend).
type Backend interface {
	// Init binds the backend to a GPU context, discovering or connecting
	// to whatever the backend presents through.
	Init(gpu *gpucore.Gpu) error

	// Start begins accepting/producing outputs. For the nested backend
	// this performs the initial registry roundtrip; for the direct
	// backend it arms the DRM fd for page-flip event delivery.
	Start() error

	// CreateOutput establishes one presentable head.
	CreateOutput(name string) (Output, error)

	// DestroyOutput tears down a previously created output.
	DestroyOutput(o Output)
}

// Output is a single presentable head: a toplevel window proxied to a
// parent compositor, or a CRTC+connector pair on a DRM device.
type Output interface {
	Name() string
	Extent() gpucore.Extent

	// Commit presents img, which becomes ready to read at acquire's
	// syncpoint, and must be returned to the caller's free pool once
	// release's syncpoint is reached (the backend signals release itself
	// once the image has left scanout/been acknowledged by the parent).
	Commit(img *gpucore.Image, acquire gpucore.Syncpoint, release gpucore.Syncpoint, flags CommitFlags) error
}
