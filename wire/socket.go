package wire

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrConnClosed is returned by Conn methods after Close has been called.
var ErrConnClosed = errors.New("wire: connection closed")

// ErrNoMessage is returned by Conn.Recv when no bytes are currently
// available (EAGAIN/EWOULDBLOCK on a non-blocking read).
var ErrNoMessage = errors.New("wire: no message available")

// Listener accepts Wayland client connections on a UNIX socket under
// $XDG_RUNTIME_DIR, following the auto-assigned "wayland-N" naming
// convention when SocketName is empty.
type Listener struct {
	ln       *net.UnixListener
	path     string
	lockFile *os.File
}

// Listen creates the protocol socket at runtimeDir/socketName. If
// socketName is empty, the first free "wayland-0".."wayland-31" is used.
// A matching ".lock" file is created and held for the lifetime of the
// listener, matching libwayland's convention for detecting a stale
// socket from a crashed compositor.
func Listen(runtimeDir, socketName string) (*Listener, error) {
	if runtimeDir == "" {
		return nil, fmt.Errorf("wire: runtime dir not set")
	}

	names := []string{socketName}
	if socketName == "" {
		names = names[:0]
		for i := 0; i < 32; i++ {
			names = append(names, fmt.Sprintf("wayland-%d", i))
		}
	}

	var lastErr error
	for _, name := range names {
		path := filepath.Join(runtimeDir, name)
		lockPath := path + ".lock"

		lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			lastErr = err
			continue
		}
		if err := unix.Flock(int(lock.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			lock.Close()
			lastErr = err
			continue
		}

		os.Remove(path) // stale socket from a crashed compositor holding no lock

		addr := &net.UnixAddr{Name: path, Net: "unix"}
		ln, err := net.ListenUnix("unix", addr)
		if err != nil {
			lock.Close()
			lastErr = err
			continue
		}

		return &Listener{ln: ln, path: path, lockFile: lock}, nil
	}

	return nil, fmt.Errorf("wire: no free wayland socket name: %w", lastErr)
}

// SocketName returns the basename of the bound socket, e.g. "wayland-0".
func (l *Listener) SocketName() string {
	return filepath.Base(l.path)
}

// Fd returns the listener's file descriptor, for registration with an
// event loop.
func (l *Listener) Fd() (int, error) {
	f, err := l.ln.File()
	if err != nil {
		return -1, err
	}
	// File() dups the fd; the caller owns the returned fd. The os.File
	// wrapper f is left open, since closing it would close that fd.
	return int(f.Fd()), nil
}

// Accept blocks until a client connects (callers typically invoke this
// from an eventloop.Callback registered on the listener's fd instead).
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.AcceptUnix()
	if err != nil {
		return nil, err
	}
	return newConn(c)
}

// Dial connects to an existing Wayland socket as a client, used by the
// nested-Wayland backend to present through a host compositor.
func Dial(path string) (*Conn, error) {
	c, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	return newConn(c)
}

// Close removes the socket and its lock file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	l.lockFile.Close()
	os.Remove(l.path)
	os.Remove(l.path + ".lock")
	return err
}

// Conn is a single client's protocol connection: a UNIX stream socket
// carrying framed Wayland messages, with out-of-band fd passing via
// SCM_RIGHTS. Grounded on the reference pure-Go Wayland client codec's
// sendWithFDs/RecvMessage, adapted for server-side accept instead of
// client-side dial.
type Conn struct {
	conn   *net.UnixConn
	file   *os.File
	closed bool
}

func newConn(c *net.UnixConn) (*Conn, error) {
	f, err := c.File()
	if err != nil {
		c.Close()
		return nil, err
	}
	if err := unix.SetNonblock(int(f.Fd()), true); err != nil {
		f.Close()
		c.Close()
		return nil, err
	}
	return &Conn{conn: c, file: f}, nil
}

// Fd returns the raw connection fd, for registration with an event loop.
func (c *Conn) Fd() int {
	return int(c.file.Fd())
}

// Send writes a framed message, passing fds out-of-band via SCM_RIGHTS
// when present.
func (c *Conn) Send(data []byte, fds []int) error {
	if c.closed {
		return ErrConnClosed
	}
	if len(fds) == 0 {
		_, err := unix.Write(c.Fd(), data)
		return err
	}
	oob := unix.UnixRights(fds...)
	return unix.Sendmsg(c.Fd(), data, oob, nil, 0)
}

const maxFDsPerMessage = 28

// Recv reads the bytes currently available, up to len(buf), and any fds
// sent alongside them. The bytes may hold several messages or only part
// of one; splitting them into messages is left to the caller.
// Returns ErrNoMessage if the socket is non-blocking and nothing is
// currently available; the caller should retry after the event loop
// reports readability again.
func (c *Conn) Recv(buf []byte) (n int, fds []int, err error) {
	if c.closed {
		return 0, nil, ErrConnClosed
	}

	oob := make([]byte, unix.CmsgSpace(maxFDsPerMessage*4))
	n, oobn, _, _, err := unix.Recvmsg(c.Fd(), buf, oob, 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, nil, ErrNoMessage
		}
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, ErrConnClosed
	}

	fds, err = parseFileDescriptors(oob[:oobn])
	if err != nil {
		return n, nil, err
	}
	return n, fds, nil
}

func parseFileDescriptors(oob []byte) ([]int, error) {
	if len(oob) == 0 {
		return nil, nil
	}
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, fmt.Errorf("wire: parse control message: %w", err)
	}
	var fds []int
	for _, msg := range msgs {
		if msg.Header.Level != unix.SOL_SOCKET || msg.Header.Type != unix.SCM_RIGHTS {
			continue
		}
		rights, err := unix.ParseUnixRights(&msg)
		if err != nil {
			return nil, fmt.Errorf("wire: parse unix rights: %w", err)
		}
		fds = append(fds, rights...)
	}
	return fds, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.file.Close()
	return c.conn.Close()
}
