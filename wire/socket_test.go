package wire_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/wroc/wire"
	"golang.org/x/sys/unix"
)

func TestListenAcceptRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ln, err := wire.Listen(dir, "wayland-test")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	if ln.SocketName() != "wayland-test" {
		t.Errorf("SocketName() = %q, want wayland-test", ln.SocketName())
	}
	if _, err := os.Stat(filepath.Join(dir, "wayland-test")); err != nil {
		t.Errorf("socket file missing: %v", err)
	}

	accepted := make(chan *wire.Conn, 1)
	acceptErr := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- c
	}()

	client, err := wire.Dial(filepath.Join(dir, "wayland-test"))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	var server *wire.Conn
	select {
	case server = <-accepted:
	case err := <-acceptErr:
		t.Fatalf("Accept() error = %v", err)
	}
	defer server.Close()

	b := wire.NewMessageBuilder()
	b.PutUint(7)
	data, _ := b.BuildMessage(1, 0)

	if err := client.Send(data, nil); err != nil {
		t.Fatalf("client Send() error = %v", err)
	}

	buf := make([]byte, 64)
	var n int
	var fds []int
	for {
		n, fds, err = server.Recv(buf)
		if err == wire.ErrNoMessage {
			continue
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		break
	}

	msg, err := wire.DecodeHeader(buf[:n], fds)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if msg.ObjectID != 1 {
		t.Errorf("ObjectID = %d, want 1", msg.ObjectID)
	}
	if v, err := msg.Args.Uint(); err != nil || v != 7 {
		t.Errorf("Uint() = %d, %v, want 7, nil", v, err)
	}
}

func TestListenDuplicateNameFails(t *testing.T) {
	dir := t.TempDir()

	ln1, err := wire.Listen(dir, "wayland-dup")
	if err != nil {
		t.Fatalf("first Listen() error = %v", err)
	}
	defer ln1.Close()

	if _, err := wire.Listen(dir, "wayland-dup"); err == nil {
		t.Fatal("expected second Listen() on the same name to fail")
	}
}

func TestConnSendRecvWithFDs(t *testing.T) {
	dir := t.TempDir()
	ln, err := wire.Listen(dir, "wayland-fds")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	var pipeFDs [2]int
	if err := unix.Pipe(pipeFDs[:]); err != nil {
		t.Fatalf("pipe error = %v", err)
	}
	r, w := pipeFDs[0], pipeFDs[1]
	defer unix.Close(r)

	accepted := make(chan *wire.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	client, err := wire.Dial(filepath.Join(dir, "wayland-fds"))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	server := <-accepted
	defer server.Close()

	if err := client.Send([]byte{0, 0, 0, 0}, []int{w}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	unix.Close(w)

	buf := make([]byte, 64)
	var fds []int
	for {
		_, fds, err = server.Recv(buf)
		if err == wire.ErrNoMessage {
			continue
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		break
	}

	if len(fds) != 1 {
		t.Fatalf("got %d fds, want 1", len(fds))
	}
	defer unix.Close(fds[0])
}
