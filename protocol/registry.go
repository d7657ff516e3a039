// Package protocol implements server-side Wayland request dispatch: one
// file per interface family, each exposing a vtable-style Dispatch method
// on a Resource, mirroring the per-object dispatch pattern used throughout
// the reference wire codec (wl_display.sync/get_registry plus a bind
// dispatch table for every other global).
package protocol

import (
	"fmt"
	"sync"

	"github.com/gogpu/wroc/wire"
)

// DisplayObjectID is the well-known object id of wl_display, always 1.
const DisplayObjectID wire.ObjectID = 1

// wl_display event opcodes.
const (
	displayEventError        wire.Opcode = 0
	displayEventDeleteID     wire.Opcode = 1
)

// wl_display request opcodes.
const (
	displayRequestSync        wire.Opcode = 0
	displayRequestGetRegistry wire.Opcode = 1
)

// wl_callback event opcode.
const callbackEventDone wire.Opcode = 0

// wl_registry event opcodes.
const (
	registryEventGlobal       wire.Opcode = 0
	registryEventGlobalRemove wire.Opcode = 1
)

// wl_registry request opcode.
const registryRequestBind wire.Opcode = 0

// Resource is anything bound to an object id in a client's object table:
// wl_surface, xdg_toplevel, wl_buffer, and so on. Dispatch handles one
// incoming request; a Resource that has no more requests to accept (fully
// inert, e.g. after destroy) may return a ProtocolError for any further
// call.
type Resource interface {
	Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error
}

// Destroyer is implemented by resources that need to free external state
// (fds, GPU objects, registry entries) when their object id is destroyed,
// either by an explicit "destroy" request or by client disconnect.
type Destroyer interface {
	OnDestroy()
}

// Global is one bindable root object, advertised to every client's
// wl_registry and instantiated on bind.
type Global struct {
	Name    string
	Version uint32
	Bind    func(c *Client, id wire.ObjectID, version uint32) error
}

// Registry holds the process-wide set of advertised globals. One Registry
// is shared by every connected Client.
type Registry struct {
	mu      sync.Mutex
	globals []*Global
	names   []uint32
	nextNum uint32
}

// NewRegistry creates an empty global registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a new bindable global, returning the numeric name clients
// will see in wl_registry.global.
func (r *Registry) Add(g *Global) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextNum++
	num := r.nextNum
	r.globals = append(r.globals, g)
	r.names = append(r.names, num)
	return num
}

// Globals returns the registry's current globals paired with their
// numeric names, in advertisement order.
func (r *Registry) Globals() ([]uint32, []*Global) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.names...), append([]*Global(nil), r.globals...)
}

func (r *Registry) byNumericName(name uint32) *Global {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.names {
		if n == name {
			return r.globals[i]
		}
	}
	return nil
}

// Client is one connected Wayland client's object table, serial counter,
// and transport. It implements Resource dispatch for wl_display and
// wl_registry directly since those are intrinsic to every connection.
type Client struct {
	Conn     *wire.Conn
	Registry *Registry

	mu      sync.Mutex
	objects map[wire.ObjectID]Resource
	serial  uint32

	// OnDisconnect, if set, is invoked once after the connection's last
	// object is torn down (wired by server.go to drop the client from
	// the server's client list).
	OnDisconnect func()
}

// NewClient wraps an accepted connection with an object table seeded with
// the intrinsic wl_display object.
func NewClient(conn *wire.Conn, reg *Registry) *Client {
	c := &Client{
		Conn:     conn,
		Registry: reg,
		objects:  make(map[wire.ObjectID]Resource),
	}
	c.objects[DisplayObjectID] = (*displayResource)(c)
	return c
}

// NextSerial returns a fresh, monotonically increasing event serial.
func (c *Client) NextSerial() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serial++
	return c.serial
}

// Register binds a Resource to an object id the client supplied via a
// new_id argument. It is a protocol error (handled by the caller) to
// register over an id already in use.
func (c *Client) Register(id wire.ObjectID, r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[id] = r
}

// Lookup returns the Resource bound to id, or nil.
func (c *Client) Lookup(id wire.ObjectID) Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.objects[id]
}

// InUse reports whether id already has a bound Resource.
func (c *Client) InUse(id wire.ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.objects[id]
	return ok
}

// Unregister removes id from the object table, calling OnDestroy if the
// bound Resource implements Destroyer, and sends wl_display.delete_id so
// the client may recycle the id.
func (c *Client) Unregister(id wire.ObjectID) {
	c.mu.Lock()
	r, ok := c.objects[id]
	delete(c.objects, id)
	c.mu.Unlock()
	if !ok {
		return
	}
	if d, ok := r.(Destroyer); ok {
		d.OnDestroy()
	}
	b := wire.NewMessageBuilder()
	b.PutUint(uint32(id))
	c.sendRaw(DisplayObjectID, displayEventDeleteID, b)
}

// TeardownAll calls OnDestroy on every currently bound Destroyer resource
// and empties the object table, used once when a client disconnects.
// Unlike Unregister, it does not send wl_display.delete_id — the
// connection is already gone.
func (c *Client) TeardownAll() {
	c.mu.Lock()
	objects := c.objects
	c.objects = make(map[wire.ObjectID]Resource)
	c.mu.Unlock()

	for _, r := range objects {
		if d, ok := r.(Destroyer); ok {
			d.OnDestroy()
		}
	}
}

// Dispatch routes one decoded incoming message to its bound Resource.
func (c *Client) Dispatch(msg *wire.Message) error {
	r := c.Lookup(msg.ObjectID)
	if r == nil {
		return wire.NewProtocolError(msg.ObjectID, 0, fmt.Sprintf("no such object %d", msg.ObjectID))
	}
	return r.Dispatch(c, msg.Opcode, msg.Args)
}

// sendRaw frames and sends an event, handing any transport failure to
// PostErrorLog rather than returning it (events to a client that is
// already disconnecting are routinely lossy).
func (c *Client) sendRaw(obj wire.ObjectID, op wire.Opcode, b *wire.MessageBuilder) {
	data, fds := b.BuildMessage(obj, op)
	if err := c.Conn.Send(data, fds); err != nil {
		c.PostErrorLog(obj, err)
	}
}

// PostErrorLog receives a transport-level send failure and discards it;
// nothing is recorded or logged. Exported so
// interface-family files in this package can reuse the same
// best-effort-send convention without importing logging machinery
// themselves.
func (c *Client) PostErrorLog(obj wire.ObjectID, err error) {
	_ = obj
	_ = err // best-effort event delivery; transport errors surface via the next Recv
}

// SendEvent frames and sends an event to obj. Exported for use by every
// other file in this package.
func (c *Client) SendEvent(obj wire.ObjectID, op wire.Opcode, b *wire.MessageBuilder) {
	c.sendRaw(obj, op, b)
}

// PostError sends wl_display.error and returns a ProtocolError the
// caller's dispatch loop uses to tear down the connection.
func (c *Client) PostError(obj wire.ObjectID, code uint32, message string) error {
	b := wire.NewMessageBuilder()
	b.PutObject(obj)
	b.PutUint(code)
	b.PutString(message)
	c.sendRaw(DisplayObjectID, displayEventError, b)
	return wire.NewProtocolError(obj, code, message)
}

// displayResource implements wl_display's two requests. Defined as a
// pointer-to-Client alias so wl_display's identity is the client itself
// (there is exactly one per connection and it never has independent
// state).
type displayResource Client

func (d *displayResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	switch op {
	case displayRequestSync:
		cb, err := args.NewID()
		if err != nil {
			return err
		}
		c.Register(cb, &callbackResource{})
		b := wire.NewMessageBuilder()
		b.PutUint(0)
		c.SendEvent(cb, callbackEventDone, b)
		c.Unregister(cb)
		return nil
	case displayRequestGetRegistry:
		id, err := args.NewID()
		if err != nil {
			return err
		}
		reg := &registryResource{client: c}
		c.Register(id, reg)
		reg.sendInitialGlobals(id)
		return nil
	default:
		return c.PostError(DisplayObjectID, 0, fmt.Sprintf("wl_display: bad opcode %d", op))
	}
}

// callbackResource is wl_callback: a one-shot resource that exists only to
// carry a single "done" event before being destroyed by the sender.
type callbackResource struct{}

func (cb *callbackResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	return c.PostError(0, 0, "wl_callback has no requests")
}

// registryResource is wl_registry bound by a specific client; it replays
// the registry's current globals at bind time and forwards later bind
// requests to the matching Global.Bind.
type registryResource struct {
	client *Client
	self   wire.ObjectID
}

func (r *registryResource) sendInitialGlobals(self wire.ObjectID) {
	r.self = self
	names, globals := r.client.Registry.Globals()
	for i, g := range globals {
		b := wire.NewMessageBuilder()
		b.PutUint(names[i])
		b.PutString(g.Name)
		b.PutUint(g.Version)
		r.client.SendEvent(self, registryEventGlobal, b)
	}
}

func (r *registryResource) Dispatch(c *Client, op wire.Opcode, args *wire.Decoder) error {
	if op != registryRequestBind {
		return c.PostError(r.self, 0, fmt.Sprintf("wl_registry: bad opcode %d", op))
	}
	name, err := args.Uint()
	if err != nil {
		return err
	}
	version, err := args.Uint()
	if err != nil {
		return err
	}
	id, err := args.NewID()
	if err != nil {
		return err
	}
	g := c.Registry.byNumericName(name)
	if g == nil {
		return c.PostError(r.self, 0, fmt.Sprintf("wl_registry.bind: no global named %d", name))
	}
	if version > g.Version {
		return c.PostError(r.self, 0, fmt.Sprintf("wl_registry.bind: %s version %d unsupported (max %d)", g.Name, version, g.Version))
	}
	return g.Bind(c, id, version)
}
