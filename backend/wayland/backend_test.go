//go:build linux

package wayland

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/wire"
)

// fakeParent emulates just enough of a parent compositor's wl_display/
// wl_registry to drive Backend.Init's registry roundtrip: it answers
// get_registry with a fixed set of globals and wl_display.sync with the
// matching callback.done.
func fakeParent(t *testing.T, conn *wire.Conn, globals map[string]uint32) {
	t.Helper()
	go func() {
		var recvBuf []byte
		buf := make([]byte, 4096)
		for {
			n, _, err := conn.Recv(buf)
			if err == wire.ErrNoMessage {
				continue
			}
			if err != nil {
				return
			}
			recvBuf = append(recvBuf, buf[:n]...)
			for len(recvBuf) >= 8 {
				msg, err := wire.DecodeHeader(recvBuf, nil)
				if err != nil {
					break
				}
				recvBuf = recvBuf[msg.Size:]
				if msg.ObjectID != displayObjectID {
					continue
				}
				switch msg.Opcode {
				case displayRequestGetRegistry:
					regID, err := msg.Args.NewID()
					if err != nil {
						continue
					}
					name := uint32(1)
					for iface, version := range globals {
						b := wire.NewMessageBuilder()
						b.PutUint(name)
						b.PutString(iface)
						b.PutUint(version)
						data, fds := b.BuildMessage(regID, registryEventGlobal)
						conn.Send(data, fds)
						name++
					}
				case displayRequestSync:
					cbID, err := msg.Args.NewID()
					if err != nil {
						continue
					}
					b := wire.NewMessageBuilder()
					b.PutUint(0)
					data, fds := b.BuildMessage(cbID, callbackEventDone)
					conn.Send(data, fds)
				}
			}
		}
	}()
}

func dialedBackend(t *testing.T, globals map[string]uint32) *Backend {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("WAYLAND_DISPLAY", "wayland-parent-test")

	ln, err := wire.Listen(dir, "wayland-parent-test")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan *wire.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	loop, err := eventloop.New()
	if err != nil {
		t.Fatalf("eventloop.New() error = %v", err)
	}
	b := New(loop)

	errCh := make(chan error, 1)
	go func() { errCh <- b.Init(&gpucore.Gpu{}) }()

	server := <-accepted
	t.Cleanup(func() { server.Close() })
	fakeParent(t, server, globals)

	if err := <-errCh; err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return b
}

func TestBackendInitBindsRequiredGlobals(t *testing.T) {
	b := dialedBackend(t, map[string]uint32{
		"wl_compositor": 6,
		"xdg_wm_base":   7,
	})
	if b.compositorID == 0 {
		t.Errorf("compositorID not bound")
	}
	if b.wmBaseID == 0 {
		t.Errorf("wmBaseID not bound")
	}
	if b.dmabufID != 0 {
		t.Errorf("dmabufID bound despite parent not advertising zwp_linux_dmabuf_v1")
	}
}

func TestBackendInitFailsWithoutRequiredGlobal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("WAYLAND_DISPLAY", "wayland-parent-test2")

	ln, err := wire.Listen(dir, "wayland-parent-test2")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	accepted := make(chan *wire.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	loop, err := eventloop.New()
	if err != nil {
		t.Fatalf("eventloop.New() error = %v", err)
	}
	b := New(loop)

	errCh := make(chan error, 1)
	go func() { errCh <- b.Init(&gpucore.Gpu{}) }()

	server := <-accepted
	defer server.Close()
	// Advertise only wl_compositor; xdg_wm_base is also required.
	fakeParent(t, server, map[string]uint32{"wl_compositor": 6})

	if err := <-errCh; err == nil {
		t.Fatal("expected Init() to fail when a required global is missing")
	}
}

func TestParentSocketPathAbsoluteDisplay(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "/tmp/custom-socket")

	path, err := parentSocketPath()
	if err != nil {
		t.Fatalf("parentSocketPath() error = %v", err)
	}
	if path != "/tmp/custom-socket" {
		t.Errorf("path = %q, want /tmp/custom-socket", path)
	}
}

func TestParentSocketPathJoinsRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "wayland-3")

	path, err := parentSocketPath()
	if err != nil {
		t.Fatalf("parentSocketPath() error = %v", err)
	}
	want := filepath.Join("/run/user/1000", "wayland-3")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestParentSocketPathRequiresRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	if _, err := parentSocketPath(); err == nil {
		t.Fatal("expected error when XDG_RUNTIME_DIR is unset")
	}
}
