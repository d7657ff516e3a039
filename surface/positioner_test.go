package surface_test

import (
	"testing"

	"github.com/gogpu/wroc/surface"
)

func TestPositionerFitsWithoutAdjustment(t *testing.T) {
	p := &surface.Positioner{
		AnchorRect: surface.Rect{X: 100, Y: 100, W: 20, H: 20},
		Width:      50,
		Height:     30,
		Anchor:     surface.AnchorBottomRight,
		Gravity:    surface.AnchorBottomRight,
		ConstraintX: surface.Rect{X: 0, W: 1000},
		ConstraintY: surface.Rect{Y: 0, H: 1000},
	}

	got := p.Solve()
	want := surface.Rect{X: 120, Y: 120, W: 50, H: 30}
	if got != want {
		t.Errorf("Solve() = %+v, want %+v", got, want)
	}
}

func TestPositionerSlidesWhenOverflowingOneEdge(t *testing.T) {
	p := &surface.Positioner{
		AnchorRect:  surface.Rect{X: 970, Y: 100, W: 20, H: 20},
		Width:       50,
		Height:      30,
		Anchor:      surface.AnchorBottomRight,
		Gravity:     surface.AnchorBottomRight,
		Constraint:  surface.AdjustSlideX | surface.AdjustSlideY,
		ConstraintX: surface.Rect{X: 0, W: 1000},
		ConstraintY: surface.Rect{Y: 0, H: 1000},
	}

	got := p.Solve()
	if got.X+got.W > 1000 {
		t.Errorf("Solve().X+W = %d, want <= 1000 after sliding", got.X+got.W)
	}
	if got.W != 50 {
		t.Errorf("Solve().W = %d, want 50 (slide must not resize)", got.W)
	}
}

func TestPositionerFlipsWhenConstrainedOnGravityEdge(t *testing.T) {
	p := &surface.Positioner{
		AnchorRect:  surface.Rect{X: 980, Y: 100, W: 10, H: 10},
		Width:       50,
		Height:      30,
		Anchor:      surface.AnchorRight,
		Gravity:     surface.AnchorRight,
		Constraint:  surface.AdjustFlipX,
		ConstraintX: surface.Rect{X: 0, W: 1000},
		ConstraintY: surface.Rect{Y: 0, H: 1000},
	}

	got := p.Solve()
	if got.X+got.W > 1000 {
		t.Errorf("flipped popup still overflows: X=%d W=%d", got.X, got.W)
	}
}

func TestPositionerResizesWhenLargerThanConstraint(t *testing.T) {
	p := &surface.Positioner{
		AnchorRect:  surface.Rect{X: 10, Y: 10, W: 5, H: 5},
		Width:       2000,
		Height:      30,
		Anchor:      surface.AnchorRight,
		Gravity:     surface.AnchorRight,
		Constraint:  surface.AdjustResizeX,
		ConstraintX: surface.Rect{X: 0, W: 1000},
		ConstraintY: surface.Rect{Y: 0, H: 1000},
	}

	got := p.Solve()
	if got.W > 1000 {
		t.Errorf("Solve().W = %d, want <= 1000 after resize", got.W)
	}
}
