//go:build linux

// Package direct implements the direct DRM/KMS backend: each connected
// connector reuses whatever CRTC/plane the firmware or a previous
// compositor already configured it with (spec §4.4, "initial
// prototype"), rather than performing a fresh modeset.
package direct

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/internal/obslog"
	"github.com/gogpu/wroc/seat"
)

// Backend owns one DRM primary node and the fixed set of outputs
// discovered on it at Init time.
type Backend struct {
	loop *eventloop.Loop
	gpu  *gpucore.Gpu

	node *os.File
	fd   int

	res *resources

	// discovered holds one entry per connected connector with a
	// reusable CRTC/plane, keyed by the connector-derived name
	// CreateOutput expects (e.g. "DRM-7").
	discovered map[string]*outputState
	outputs    map[string]*Output

	pendingFlips map[uint64]*pendingFlip
	nextUserData uint64

	input *inputRouter
}

// New creates an unconnected Backend driven by loop once Start arms the
// primary node's fd for page-flip event delivery.
func New(loop *eventloop.Loop) *Backend {
	return &Backend{
		loop:         loop,
		discovered:   make(map[string]*outputState),
		outputs:      make(map[string]*Output),
		pendingFlips: make(map[uint64]*pendingFlip),
	}
}

// ConnectorNames lists the outputs discovered at Init, in a stable order,
// so server.go can call CreateOutput once per name without guessing at a
// naming scheme.
func (b *Backend) ConnectorNames() []string {
	names := make([]string, 0, len(b.discovered))
	for name := range b.discovered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init opens the first DRM render-capable primary node under /dev/dri,
// negotiates the capabilities this backend requires, and discovers the
// fixed output list.
func (b *Backend) Init(gpu *gpucore.Gpu) error {
	b.gpu = gpu

	path, err := findPrimaryNode()
	if err != nil {
		return err
	}
	node, err := openPrimaryNode(path)
	if err != nil {
		return err
	}
	b.node = node
	b.fd = int(node.Fd())

	if err := setClientCap(b.fd, clientCapUniversalPlanes, 1); err != nil {
		node.Close()
		return fmt.Errorf("direct backend: DRM_CLIENT_CAP_UNIVERSAL_PLANES: %w", err)
	}
	if err := setClientCap(b.fd, clientCapAtomic, 1); err != nil {
		node.Close()
		return fmt.Errorf("direct backend: DRM_CLIENT_CAP_ATOMIC: %w", err)
	}
	modifiers, err := getCap(b.fd, capAddFB2Modifiers)
	if err != nil || modifiers == 0 {
		node.Close()
		return fmt.Errorf("direct backend: DRM_CAP_ADDFB2_MODIFIERS not supported")
	}

	res, err := loadResources(b.fd)
	if err != nil {
		node.Close()
		return err
	}
	b.res = res

	for i := range res.connectors {
		conn := &res.connectors[i]
		state, err := discoverOutput(b.fd, res, conn)
		if err != nil {
			obslog.Get().Error("direct backend: skipping connector", "connector", conn.id, "err", err)
			continue
		}
		if state == nil {
			continue // not connected, or no active CRTC to reuse
		}
		name := fmt.Sprintf("DRM-%d", conn.id)
		b.discovered[name] = state
	}
	if len(b.discovered) == 0 {
		obslog.Get().Error("direct backend: no connector has a reusable KMS configuration")
	}
	return nil
}

// Start registers the primary node's fd with the main event loop so
// page-flip completion events are delivered as they arrive.
func (b *Backend) Start() error {
	return b.loop.AddFD(b.fd, unix.EPOLLIN, func(events uint32) {
		if err := b.handleDrmEvent(); err != nil {
			obslog.Get().Error("direct backend: drm event read failed", "err", err)
		}
	})
}

// StartInput opens every /dev/input/eventN node found and registers them
// with the same event loop Start arms the DRM fd on, routing decoded
// evdev events into st. Separate from Start because the core's seat
// isn't constructed until after the output list (and thus the keymap
// geometry driving it) is known; server.go calls this once both exist.
func (b *Backend) StartInput(st *seat.Seat, timeMs func() uint32) error {
	b.input = newInputRouter(b.loop, st, timeMs)
	return b.input.openAll()
}

// CreateOutput hands back the Output for a name previously returned by
// ConnectorNames. Outputs are fixed at Init time; this backend never
// creates new KMS configuration.
func (b *Backend) CreateOutput(name string) (backend.Output, error) {
	if out, ok := b.outputs[name]; ok {
		return out, nil
	}
	state, ok := b.discovered[name]
	if !ok {
		return nil, fmt.Errorf("direct backend: no such output %q", name)
	}
	out := &Output{
		b:       b,
		name:    name,
		state:   state,
		buffers: make(map[gpucore.DescriptorID]*drmBuffer),
	}
	b.outputs[name] = out
	return out, nil
}

// DestroyOutput releases the output's registered framebuffers. The
// underlying CRTC/plane are left exactly as they were: this backend never
// tears down a KMS configuration it did not itself create.
func (b *Backend) DestroyOutput(o backend.Output) {
	out, ok := o.(*Output)
	if !ok {
		return
	}
	for _, buf := range out.buffers {
		if err := rmFB(b.fd, buf.fbID); err != nil {
			obslog.Get().Error("direct backend: rmfb failed", "fb", buf.fbID, "err", err)
		}
	}
	delete(b.outputs, out.name)
}

func findPrimaryNode() (string, error) {
	const dir = "/dev/dri"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("direct backend: list %s: %w", dir, err)
	}
	var cards []string
	for _, e := range entries {
		if len(e.Name()) >= 4 && e.Name()[:4] == "card" {
			cards = append(cards, e.Name())
		}
	}
	sort.Strings(cards)
	if len(cards) == 0 {
		return "", fmt.Errorf("direct backend: no DRM primary node found under %s", dir)
	}
	return filepath.Join(dir, cards[0]), nil
}
