package collision

import "github.com/mossforge/duskstep/internal/fixedpoint"

// AABB is an axis-aligned bounding box. Coordinates are FixedPoint:
// collision is simulation state and must produce identical results on
// every participant regardless of floating-point rounding.
type AABB struct {
	X, Y          fixedpoint.FixedPoint // Top-left corner
	Width, Height fixedpoint.FixedPoint
}

// NewAABB creates a bounding box.
func NewAABB(x, y, w, h fixedpoint.FixedPoint) AABB {
	return AABB{X: x, Y: y, Width: w, Height: h}
}

// Center returns the center point of the box.
func (a AABB) Center() (fixedpoint.FixedPoint, fixedpoint.FixedPoint) {
	two := fixedpoint.FromInt(2)
	return a.X.Add(a.Width.Div(two)), a.Y.Add(a.Height.Div(two))
}

// Overlaps checks if two boxes overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.X < b.X.Add(b.Width) &&
		a.X.Add(a.Width) > b.X &&
		a.Y < b.Y.Add(b.Height) &&
		a.Y.Add(a.Height) > b.Y
}

// Contains checks if a point is inside the box.
func (a AABB) Contains(x, y fixedpoint.FixedPoint) bool {
	return x >= a.X && x < a.X.Add(a.Width) &&
		y >= a.Y && y < a.Y.Add(a.Height)
}

// Penetration returns how much b penetrates into a (for resolution).
func (a AABB) Penetration(b AABB) (fixedpoint.FixedPoint, fixedpoint.FixedPoint) {
	if !a.Overlaps(b) {
		return fixedpoint.Zero, fixedpoint.Zero
	}

	left := b.X.Add(b.Width).Sub(a.X)
	right := a.X.Add(a.Width).Sub(b.X)
	top := b.Y.Add(b.Height).Sub(a.Y)
	bottom := a.Y.Add(a.Height).Sub(b.Y)

	var dx, dy fixedpoint.FixedPoint

	if left < right {
		dx = left.Neg()
	} else {
		dx = right
	}

	if top < bottom {
		dy = top.Neg()
	} else {
		dy = bottom
	}

	if dx.Abs() < dy.Abs() {
		return dx, fixedpoint.Zero
	}
	return fixedpoint.Zero, dy
}
