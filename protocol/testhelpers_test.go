package protocol

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/wroc/wire"
)

// newTestClient dials a real Unix socket pair so Client.SendEvent has a
// live Conn to write to, and returns the server-side Client plus the
// client-side Conn tests can Recv events from.
func newTestClient(t *testing.T) (*Client, *wire.Conn) {
	t.Helper()
	dir := t.TempDir()
	ln, err := wire.Listen(dir, "wayland-proto-test")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan *wire.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	clientConn, err := wire.Dial(filepath.Join(dir, "wayland-proto-test"))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-accepted
	t.Cleanup(func() { serverConn.Close() })

	c := NewClient(serverConn, NewRegistry())
	return c, clientConn
}

// recvPending holds bytes a Recv returned beyond the messages recvOne has
// decoded so far, keyed by connection: one Recv can return several
// messages at once.
var recvPending = map[*wire.Conn][]byte{}

func recvOne(t *testing.T, conn *wire.Conn) *wire.Message {
	t.Helper()
	buf := make([]byte, 4096)
	for {
		if pending := recvPending[conn]; len(pending) > 0 {
			msg, err := wire.DecodeHeader(pending, nil)
			if err == nil {
				recvPending[conn] = pending[msg.Size:]
				return msg
			}
			if err != wire.ErrShortMessage {
				t.Fatalf("DecodeHeader() error = %v", err)
			}
		}
		n, _, err := conn.Recv(buf)
		if err == wire.ErrNoMessage {
			continue
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		recvPending[conn] = append(recvPending[conn], buf[:n]...)
	}
}
