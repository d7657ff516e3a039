package surface

// Anchor is a 9-way edge/corner/center designation shared by
// xdg_positioner's anchor and gravity enums.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorBottomLeft
	AnchorTopRight
	AnchorBottomRight
)

// axisBias decomposes a 9-way Anchor into independent per-axis biases in
// {-1, 0, +1}, letting the positioner solve x and y independently.
func axisBias(a Anchor) (x, y int32) {
	switch a {
	case AnchorTop:
		return 0, -1
	case AnchorBottom:
		return 0, 1
	case AnchorLeft:
		return -1, 0
	case AnchorRight:
		return 1, 0
	case AnchorTopLeft:
		return -1, -1
	case AnchorBottomLeft:
		return -1, 1
	case AnchorTopRight:
		return 1, -1
	case AnchorBottomRight:
		return 1, 1
	default:
		return 0, 0
	}
}

// ConstraintAdjustment is the per-axis bitset controlling how a
// positioner resolves a popup that does not fit within its constraint
// rectangle.
type ConstraintAdjustment uint32

const (
	AdjustSlideX ConstraintAdjustment = 1 << iota
	AdjustSlideY
	AdjustFlipX
	AdjustFlipY
	AdjustResizeX
	AdjustResizeY
)

// Positioner carries the parameters of an xdg_positioner and solves the
// popup frame relative to its parent surface's local coordinate space.
type Positioner struct {
	AnchorRect   Rect
	Width        int32
	Height       int32
	Anchor       Anchor
	Gravity      Anchor
	Constraint   ConstraintAdjustment
	OffsetX      int32
	OffsetY      int32
	Reactive     bool
	ConstraintX  Rect // constraint rectangle, x-axis start/end via X/W
	ConstraintY  Rect // constraint rectangle, y-axis start/end via Y/H
}

// anchorPoint returns the anchor point along one axis: the anchor rect's
// start, center, or end depending on bias.
func anchorPoint(start, size, bias int32) int32 {
	switch bias {
	case -1:
		return start
	case 1:
		return start + size
	default:
		return start + size/2
	}
}

// solveAxis implements the per-axis positioner algorithm (spec.md §4.2
// steps 1-7): compute the candidate region from anchor+gravity, check
// overlap against the constraint, and fall back through flip, slide, and
// resize adjustments in that order.
func solveAxis(anchorBias, gravityBias int32, anchorStart, anchorSize, size, offset int32, constraintStart, constraintSize int32, flip, slide, resize bool) (pos, newSize int32) {
	anchor := anchorPoint(anchorStart, anchorSize, anchorBias) + offset
	pos = anchor - size*(1-gravityBias)/2
	newSize = size
	constraintEnd := constraintStart + constraintSize

	startOverlap := constraintStart - pos
	endOverlap := (pos + newSize) - constraintEnd
	if startOverlap <= 0 && endOverlap <= 0 {
		return pos, newSize
	}

	if flip {
		flippedAnchorBias := -anchorBias
		flippedGravityBias := -gravityBias
		flippedAnchor := anchorPoint(anchorStart, anchorSize, flippedAnchorBias) + offset
		flippedPos := flippedAnchor - newSize*(1-flippedGravityBias)/2
		fStartOverlap := constraintStart - flippedPos
		fEndOverlap := (flippedPos + newSize) - constraintEnd
		if fStartOverlap <= 0 && fEndOverlap <= 0 {
			return flippedPos, newSize
		}
	}

	if slide {
		switch {
		case startOverlap > 0 && endOverlap > 0:
			switch {
			case gravityBias > 0:
				pos = constraintEnd - newSize
			case gravityBias < 0:
				pos = constraintStart
			default:
				pos = constraintStart
			}
			return pos, newSize
		case startOverlap > 0:
			slack := -endOverlap
			if slack < 0 {
				slack = 0
			}
			shift := startOverlap
			if shift > slack {
				shift = slack
			}
			return pos + shift, newSize
		case endOverlap > 0:
			slack := -startOverlap
			if slack < 0 {
				slack = 0
			}
			shift := endOverlap
			if shift > slack {
				shift = slack
			}
			return pos - shift, newSize
		}
	}

	if resize {
		switch {
		case startOverlap > 0 && endOverlap > 0:
			return constraintStart, constraintSize
		case startOverlap > 0 && startOverlap < newSize:
			return constraintStart, newSize - startOverlap
		case endOverlap > 0 && endOverlap < newSize:
			return pos, newSize - endOverlap
		}
	}

	return pos, newSize
}

// Solve computes the popup's frame in parent-local coordinates.
func (p *Positioner) Solve() Rect {
	anchorBiasX, anchorBiasY := axisBias(p.Anchor)
	gravityBiasX, gravityBiasY := axisBias(p.Gravity)

	flipX := p.Constraint&AdjustFlipX != 0
	flipY := p.Constraint&AdjustFlipY != 0
	slideX := p.Constraint&AdjustSlideX != 0
	slideY := p.Constraint&AdjustSlideY != 0
	resizeX := p.Constraint&AdjustResizeX != 0
	resizeY := p.Constraint&AdjustResizeY != 0

	x, w := solveAxis(anchorBiasX, gravityBiasX, p.AnchorRect.X, p.AnchorRect.W, p.Width, p.OffsetX,
		p.ConstraintX.X, p.ConstraintX.W, flipX, slideX, resizeX)
	y, h := solveAxis(anchorBiasY, gravityBiasY, p.AnchorRect.Y, p.AnchorRect.H, p.Height, p.OffsetY,
		p.ConstraintY.Y, p.ConstraintY.H, flipY, slideY, resizeY)

	return Rect{X: x, Y: y, W: w, H: h}
}
