//go:build linux

package wayland

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/wire"
)

const recvChunkSize = 4096

// pendingCallback tracks one outstanding wl_callback (from wl_display.sync
// or wl_surface.frame) awaiting its done event. roundtrip uses done to
// block synchronously; Commit uses fn to resume asynchronous work (firing
// a frame's release syncpoint) without blocking the caller.
type pendingCallback struct {
	id   wire.ObjectID
	done *bool
	fn   func()
}

// roundtrip sends a wl_display.sync and dispatches events until the
// matching wl_callback.done arrives, the same technique a Wayland client
// library uses to make a request sequence synchronous.
func (b *Backend) roundtrip() error {
	cbID := b.allocID()
	done := false
	b.pending = append(b.pending, pendingCallback{id: cbID, done: &done})

	if err := b.send(displayObjectID, displayRequestSync, func(m *wire.MessageBuilder) {
		m.PutNewID(cbID)
	}); err != nil {
		return err
	}

	for !done {
		if err := b.pollAndDispatch(); err != nil {
			return err
		}
	}
	return nil
}

// pollAndDispatch blocks (with a 1s timeout to re-check callers' exit
// conditions) until the parent's socket is readable, then drains it. Used
// only for the synchronous handshakes in Init/CreateOutput, which run
// before Start registers the connection with the main event loop.
func (b *Backend) pollAndDispatch() error {
	fd := b.conn.Fd()
	pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(pfds, 1000)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("wayland backend: poll: %w", err)
		}
		if n == 0 {
			return nil // timeout; let the caller re-check its exit condition
		}
		break
	}
	return b.drain()
}

// drain performs one non-blocking recv and dispatches every complete
// message currently buffered. Registered on the main event loop's fd
// readiness callback once Start runs (ongoing operation); also called
// directly by pollAndDispatch during the pre-Start synchronous handshake.
func (b *Backend) drain() error {
	chunk := make([]byte, recvChunkSize)
	n, fds, err := b.conn.Recv(chunk)
	if err != nil {
		if err == wire.ErrNoMessage {
			return nil
		}
		return fmt.Errorf("wayland backend: recv: %w", err)
	}
	b.recvBuf = append(b.recvBuf, chunk[:n]...)
	b.recvFDs = append(b.recvFDs, fds...)

	for len(b.recvBuf) >= 8 {
		msg, err := wire.DecodeHeader(b.recvBuf, b.recvFDs)
		if err != nil {
			break // incomplete message; wait for more bytes
		}
		b.recvBuf = b.recvBuf[msg.Size:]
		if err := b.handleEvent(msg); err != nil {
			return err
		}
	}
	if len(b.recvBuf) == 0 {
		b.recvFDs = nil
	}
	return nil
}

func (b *Backend) handleEvent(msg *wire.Message) error {
	switch {
	case msg.ObjectID == displayObjectID:
		return b.handleDisplayEvent(msg)
	case msg.ObjectID == b.registryID:
		return b.handleRegistryEvent(msg)
	case msg.ObjectID == b.wmBaseID && msg.Opcode == wmBaseEventPing:
		serial, err := msg.Args.Uint()
		if err != nil {
			return err
		}
		return b.send(b.wmBaseID, wmBaseRequestPong, func(m *wire.MessageBuilder) {
			m.PutUint(serial)
		})
	default:
		for i, p := range b.pending {
			if p.id == msg.ObjectID && msg.Opcode == callbackEventDone {
				if p.done != nil {
					*p.done = true
				}
				b.pending = append(b.pending[:i], b.pending[i+1:]...)
				if p.fn != nil {
					p.fn()
				}
				return nil
			}
		}
		if out, ok := b.outputs[msg.ObjectID]; ok {
			return out.handleEvent(msg)
		}
		return nil
	}
}

func (b *Backend) handleDisplayEvent(msg *wire.Message) error {
	switch msg.Opcode {
	case displayEventError:
		obj, err := msg.Args.Object()
		if err != nil {
			return err
		}
		code, err := msg.Args.Uint()
		if err != nil {
			return err
		}
		text, err := msg.Args.StringArg()
		if err != nil {
			return err
		}
		return fmt.Errorf("wayland backend: parent compositor error on object %d code %d: %s", obj, code, text)
	default:
		return nil // delete_id: this backend never recycles ids
	}
}

func (b *Backend) handleRegistryEvent(msg *wire.Message) error {
	switch msg.Opcode {
	case registryEventGlobal:
		name, err := msg.Args.Uint()
		if err != nil {
			return err
		}
		iface, err := msg.Args.StringArg()
		if err != nil {
			return err
		}
		version, err := msg.Args.Uint()
		if err != nil {
			return err
		}
		b.globals[iface] = globalInfo{name: name, iface: iface, version: version}
		return nil
	default:
		return nil // global_remove: globals never disappear mid-session here
	}
}
