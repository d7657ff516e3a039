package protocol

import (
	"testing"

	"github.com/gogpu/wroc/surface"
	"github.com/gogpu/wroc/wire"
)

func TestSubcompositorGetSubsurfaceSetsParentAndRole(t *testing.T) {
	c, _ := newTestClient(t)
	child := newSurfaceResource(c, 1)
	parent := newSurfaceResource(c, 2)
	c.Register(1, child)
	c.Register(2, parent)

	r := &subcompositorResource{}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutObject(1)
		b.PutObject(2)
	})
	if err := r.Dispatch(c, subcompositorRequestGetSubsurface, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !c.InUse(10) {
		t.Fatalf("subsurface object 10 not registered")
	}
	if child.Surface.Role != surface.RoleSubsurface {
		t.Errorf("child role = %v, want RoleSubsurface", child.Surface.Role)
	}
	if child.Surface.Parent != parent.Surface {
		t.Errorf("child.Parent not set to the parent surface")
	}
	if len(parent.Surface.Stack) != 1 || parent.Surface.Stack[0] != child.Surface {
		t.Errorf("parent.Stack = %v, want [child]", parent.Surface.Stack)
	}
}

func TestSubcompositorGetSubsurfaceRejectsUnknownSurface(t *testing.T) {
	c, _ := newTestClient(t)
	parent := newSurfaceResource(c, 2)
	c.Register(2, parent)

	r := &subcompositorResource{}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutObject(1) // never registered
		b.PutObject(2)
	})
	if err := r.Dispatch(c, subcompositorRequestGetSubsurface, args); err == nil {
		t.Fatal("expected get_subsurface with an unknown wl_surface to error")
	}
}

func TestSubcompositorGetSubsurfaceRejectsRoleConflict(t *testing.T) {
	c, _ := newTestClient(t)
	child := newSurfaceResource(c, 1)
	child.Surface.SetRole(surface.RoleCursor)
	parent := newSurfaceResource(c, 2)
	c.Register(1, child)
	c.Register(2, parent)

	r := &subcompositorResource{}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutNewID(10)
		b.PutObject(1)
		b.PutObject(2)
	})
	if err := r.Dispatch(c, subcompositorRequestGetSubsurface, args); err == nil {
		t.Fatal("expected get_subsurface on a surface with a conflicting role to error")
	}
}

func TestSubsurfaceSetPositionStagesOffset(t *testing.T) {
	c, _ := newTestClient(t)
	child := newSurfaceResource(c, 1)
	parent := newSurfaceResource(c, 2)
	child.Surface.Parent = parent.Surface
	parent.Surface.Stack = append(parent.Surface.Stack, child.Surface)

	r := &subsurfaceResource{id: 10, surface: child, parent: parent, synced: true}
	args := buildArgs(t, func(b *wire.MessageBuilder) {
		b.PutInt(5)
		b.PutInt(7)
	})
	if err := r.Dispatch(c, subsurfaceRequestSetPosition, args); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if child.Surface.Pending.Buffer.OffsetX != 5 || child.Surface.Pending.Buffer.OffsetY != 7 {
		t.Errorf("pending offset = (%d,%d), want (5,7)", child.Surface.Pending.Buffer.OffsetX, child.Surface.Pending.Buffer.OffsetY)
	}
}

func TestSubsurfaceSetSyncDesyncToggles(t *testing.T) {
	c, _ := newTestClient(t)
	r := &subsurfaceResource{id: 10, synced: true}

	if err := r.Dispatch(c, subsurfaceRequestSetDesync, buildArgs(t, func(b *wire.MessageBuilder) {})); err != nil {
		t.Fatalf("Dispatch(set_desync) error = %v", err)
	}
	if r.synced {
		t.Errorf("synced still true after set_desync")
	}

	if err := r.Dispatch(c, subsurfaceRequestSetSync, buildArgs(t, func(b *wire.MessageBuilder) {})); err != nil {
		t.Fatalf("Dispatch(set_sync) error = %v", err)
	}
	if !r.synced {
		t.Errorf("synced still false after set_sync")
	}
}

func TestSubsurfaceDestroyRemovesFromParentStack(t *testing.T) {
	c, _ := newTestClient(t)
	child := newSurfaceResource(c, 1)
	parent := newSurfaceResource(c, 2)
	child.Surface.Parent = parent.Surface
	parent.Surface.Stack = append(parent.Surface.Stack, child.Surface)

	r := &subsurfaceResource{id: 10, surface: child, parent: parent}
	c.Register(10, r)

	if err := r.Dispatch(c, subsurfaceRequestDestroy, buildArgs(t, func(b *wire.MessageBuilder) {})); err != nil {
		t.Fatalf("Dispatch(destroy) error = %v", err)
	}
	if len(parent.Surface.Stack) != 0 {
		t.Errorf("parent.Stack still has %d entries after destroy", len(parent.Surface.Stack))
	}
	if c.InUse(10) {
		t.Errorf("subsurface object 10 still registered after destroy")
	}
}
