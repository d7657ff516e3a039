package wroc

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/backend"
	"github.com/gogpu/wroc/backend/direct"
	"github.com/gogpu/wroc/backend/wayland"
	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore"
	"github.com/gogpu/wroc/internal/obslog"
	"github.com/gogpu/wroc/internal/xkb"
	"github.com/gogpu/wroc/output"
	"github.com/gogpu/wroc/protocol"
	"github.com/gogpu/wroc/seat"
	"github.com/gogpu/wroc/wire"
)

const recvChunkSize = 4096

// Server is one running compositor instance: a GPU context, a
// presentation backend, a seat, and the Wayland listener that accepts
// client connections onto the event loop.
type Server struct {
	cfg Config

	loop    *eventloop.Loop
	gpu     *gpucore.Gpu
	be      backend.Backend
	st      *seat.Seat
	keymap  int
	ln      *wire.Listener
	reg     *protocol.Registry
	outputs []*output.Output

	stopR, stopW int // self-pipe, closed fds once consumed by Close

	mu      sync.Mutex
	clients map[*wire.Conn]*protocol.Client
}

// NewServer constructs and initializes a Server from cfg: creates the
// event loop, GPU context, selected presentation backend, input seat,
// protocol registry, and Wayland listener. The server does not accept
// connections or present anything until Run is called.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loop, err := eventloop.New()
	if err != nil {
		return nil, fmt.Errorf("wroc: %w", err)
	}

	var features []gpucore.Feature
	if cfg.EnableValidation {
		features = append(features, gpucore.FeatureValidation)
	}
	gpu, err := gpucore.Create(loop, features)
	if err != nil {
		loop.Stop()
		return nil, fmt.Errorf("wroc: %w: %v", ErrNoSuitableDevice, err)
	}

	srv := &Server{
		cfg:     cfg,
		loop:    loop,
		gpu:     gpu,
		reg:     protocol.NewRegistry(),
		clients: make(map[*wire.Conn]*protocol.Client),
	}

	if err := srv.initBackend(); err != nil {
		gpu.Destroy()
		return nil, err
	}

	if err := srv.initSeat(); err != nil {
		gpu.Destroy()
		return nil, err
	}

	srv.registerGlobals()

	ln, err := wire.Listen(cfg.RuntimeDir, cfg.SocketName)
	if err != nil {
		gpu.Destroy()
		return nil, fmt.Errorf("wroc: listen: %w", err)
	}
	srv.ln = ln

	if err := srv.be.Start(); err != nil {
		ln.Close()
		gpu.Destroy()
		return nil, fmt.Errorf("wroc: backend start: %w", err)
	}

	if db, ok := srv.be.(*direct.Backend); ok {
		if err := db.StartInput(srv.st, monotonicMillis); err != nil {
			ln.Close()
			gpu.Destroy()
			return nil, fmt.Errorf("wroc: backend input: %w", err)
		}
	}

	if err := srv.createOutputs(); err != nil {
		ln.Close()
		gpu.Destroy()
		return nil, err
	}

	obslog.Get().Info("wroc server initialized", "socket", ln.SocketName(), "backend", cfg.Backend)
	return srv, nil
}

// initBackend selects and initializes the presentation backend per
// cfg.Backend (or $WAYLAND_DISPLAY when BackendAuto, spec §4.4).
func (s *Server) initBackend() error {
	kind := s.cfg.Backend
	if kind == BackendAuto {
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			kind = BackendWayland
		} else {
			kind = BackendDirect
		}
	}

	switch kind {
	case BackendWayland:
		s.be = wayland.New(s.loop)
	case BackendDirect:
		s.be = direct.New(s.loop)
	default:
		return fmt.Errorf("wroc: %w: unknown backend %q", ErrBackendUnavailable, kind)
	}

	if err := s.be.Init(s.gpu); err != nil {
		return fmt.Errorf("wroc: %w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// initSeat builds the US-104 keymap and the single wl_seat this core
// advertises (spec §5: one seat, keyboard + pointer capability).
func (s *Server) initSeat() error {
	fd, size, err := seat.WriteKeymapFD(xkb.BuildUS104())
	if err != nil {
		return fmt.Errorf("wroc: keymap: %w", err)
	}
	s.keymap = fd

	serial := uint32(0)
	var serialMu sync.Mutex
	nextSerial := func() uint32 {
		serialMu.Lock()
		defer serialMu.Unlock()
		serial++
		return serial
	}

	s.st = seat.New("seat0", fd, size, nextSerial)
	return nil
}

// createOutputs establishes one output.Output per head the backend
// currently exposes: the single nested toplevel for the wayland backend,
// or one per connector the direct backend discovered.
func (s *Server) createOutputs() error {
	var names []string
	if db, ok := s.be.(*direct.Backend); ok {
		names = db.ConnectorNames()
	} else {
		names = []string{"wroc-0"}
	}

	for _, name := range names {
		beOutput, err := s.be.CreateOutput(name)
		if err != nil {
			return fmt.Errorf("wroc: create output %q: %w", name, err)
		}
		extent := beOutput.Extent()
		o := output.NewOutput(name, beOutput, s.gpu, s.cfg.MaxImages, nil, &nullRedrawer{gpu: s.gpu})
		s.outputs = append(s.outputs, o)

		protocol.NewOutputGlobal(s.reg, protocol.OutputInfo{
			Name:           name,
			Width:          int32(extent.Width),
			Height:         int32(extent.Height),
			RefreshMilliHz: 60000,
			Scale:          1,
		})
	}
	return nil
}

// registerGlobals advertises every wl_registry global this core exposes.
func (s *Server) registerGlobals() {
	protocol.NewCompositorGlobal(s.reg, nil)
	protocol.NewSubcompositorGlobal(s.reg)
	protocol.NewShmGlobal(s.reg)
	protocol.NewShellGlobal(s.reg)
	protocol.NewSeatGlobal(s.reg, s.st)
	protocol.NewDecorationManagerGlobal(s.reg)
	protocol.NewDmabufGlobal(s.reg, s.gpu)
	protocol.NewSyncobjManagerGlobal(s.reg, s.gpu)
}

// nullRedrawer satisfies output.Redrawer by submitting an empty command
// batch: it produces a valid syncpoint so the output pacing and present
// pipeline runs end to end without performing any scene composition,
// which is out of scope for this core (see the scene package boundary).
type nullRedrawer struct {
	gpu *gpucore.Gpu
}

func (r *nullRedrawer) Redraw(img *gpucore.Image) (gpucore.Syncpoint, error) {
	batch, err := r.gpu.GetQueue(gpucore.QueueGraphics).CommandsBegin()
	if err != nil {
		return gpucore.Syncpoint{}, err
	}
	return batch.Submit(nil)
}

// Run registers the Wayland listener and backend onto the event loop and
// blocks until ctx is canceled or an unrecoverable loop error occurs.
// Loop.Stop is not safe to call from outside the loop's own goroutine, so
// cancellation is relayed through a self-pipe registered as an ordinary
// fd source: the actual Stop call happens inside that fd's callback, on
// the loop's own goroutine.
func (s *Server) Run(ctx context.Context) error {
	lnFd, err := s.ln.Fd()
	if err != nil {
		return fmt.Errorf("wroc: listener fd: %w", err)
	}
	if err := s.loop.AddFD(lnFd, unix.EPOLLIN, func(events uint32) {
		s.acceptOne()
	}); err != nil {
		return fmt.Errorf("wroc: register listener: %w", err)
	}

	r, w, err := newSelfPipe()
	if err != nil {
		return fmt.Errorf("wroc: self-pipe: %w", err)
	}
	s.stopR, s.stopW = r, w
	if err := s.loop.AddFD(r, unix.EPOLLIN, func(events uint32) {
		s.loop.Stop()
	}); err != nil {
		return fmt.Errorf("wroc: register self-pipe: %w", err)
	}

	go func() {
		<-ctx.Done()
		var one [1]byte
		unix.Write(w, one[:])
	}()

	return s.loop.Run()
}

// newSelfPipe creates a non-blocking pipe used only to wake the event
// loop from another goroutine; the byte written is never read back
// meaningfully, only its arrival matters.
func newSelfPipe() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

// acceptOne accepts one pending connection and wires it onto the event
// loop with its own read-and-dispatch callback.
func (s *Server) acceptOne() {
	conn, err := s.ln.Accept()
	if err != nil {
		obslog.Get().Warn("accept failed", "err", err)
		return
	}

	c := protocol.NewClient(conn, s.reg)
	cs := &clientState{server: s, client: c, conn: conn}
	c.OnDisconnect = cs.onDisconnect

	s.mu.Lock()
	s.clients[conn] = c
	s.mu.Unlock()

	if err := s.loop.AddFD(conn.Fd(), unix.EPOLLIN, func(events uint32) {
		cs.drain()
	}); err != nil {
		obslog.Get().Warn("register client fd failed", "err", err)
		conn.Close()
		return
	}
}

// clientState holds the per-connection receive buffer for one accepted
// client, the server-side mirror of backend/wayland's drain() pattern.
type clientState struct {
	server *Server
	client *protocol.Client
	conn   *wire.Conn

	recvBuf []byte
	recvFDs []int
}

// drain performs one non-blocking recv and dispatches every complete
// message currently buffered, tearing the connection down on the first
// fatal error — any error at all, whether a *wire.ProtocolError already
// sent to the client via PostError, or a raw decode failure that was
// not.
func (cs *clientState) drain() {
	chunk := make([]byte, recvChunkSize)
	n, fds, err := cs.conn.Recv(chunk)
	if err != nil {
		if err == wire.ErrNoMessage {
			return
		}
		cs.disconnect()
		return
	}
	cs.recvBuf = append(cs.recvBuf, chunk[:n]...)
	cs.recvFDs = append(cs.recvFDs, fds...)

	for len(cs.recvBuf) >= 8 {
		msg, err := wire.DecodeHeader(cs.recvBuf, cs.recvFDs)
		if err != nil {
			break // incomplete message; wait for more bytes
		}
		cs.recvBuf = cs.recvBuf[msg.Size:]
		if err := cs.client.Dispatch(msg); err != nil {
			obslog.Get().Info("client disconnected", "err", err)
			cs.disconnect()
			return
		}
	}
	if len(cs.recvBuf) == 0 {
		cs.recvFDs = nil
	}
}

func (cs *clientState) disconnect() {
	cs.server.loop.RemoveFD(cs.conn.Fd())
	cs.client.TeardownAll()
	cs.conn.Close()
	cs.client.OnDisconnect()
}

func (cs *clientState) onDisconnect() {
	cs.server.mu.Lock()
	delete(cs.server.clients, cs.conn)
	cs.server.mu.Unlock()
}

// monotonicMillis is the direct backend's input event timestamp source.
func monotonicMillis() uint32 {
	var ts unix.Timespec
	unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return uint32(ts.Sec*1000 + ts.Nsec/1e6)
}

// Close tears down the server: closes every client connection, the
// listener, the keymap fd, and the GPU context. Safe to call after Run
// has returned, or instead of ever calling Run.
func (s *Server) Close() error {
	s.mu.Lock()
	clients := make([]*protocol.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = make(map[*wire.Conn]*protocol.Client)
	s.mu.Unlock()

	for _, c := range clients {
		c.TeardownAll()
		c.Conn.Close()
	}

	if s.ln != nil {
		s.ln.Close()
	}
	if s.keymap > 0 {
		unix.Close(s.keymap)
	}
	if s.stopW > 0 {
		unix.Close(s.stopR)
		unix.Close(s.stopW)
	}
	if s.gpu != nil {
		s.gpu.Destroy()
	}
	return nil
}
