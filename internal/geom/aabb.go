package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box in world units.
type AABB struct {
	Min, Max mgl64.Vec2
}

// EmptyAABB returns a box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: mgl64.Vec2{math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// Extend grows the box to include p.
func (b AABB) Extend(p mgl64.Vec2) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1])},
		Max: mgl64.Vec2{math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1])},
	}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return b.Extend(other.Min).Extend(other.Max)
}

// Intersects returns true if this box overlaps with another.
// Boxes that only share an edge do not intersect.
func (b AABB) Intersects(other AABB) bool {
	if b.Min[0] >= other.Max[0] || other.Min[0] >= b.Max[0] {
		return false
	}
	if b.Min[1] >= other.Max[1] || other.Min[1] >= b.Max[1] {
		return false
	}
	return true
}

// Center returns the center point of the box.
func (b AABB) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Width returns the horizontal extent.
func (b AABB) Width() float64 {
	return b.Max[0] - b.Min[0]
}

// Height returns the vertical extent.
func (b AABB) Height() float64 {
	return b.Max[1] - b.Min[1]
}
