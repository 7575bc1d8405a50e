// Package geom provides the small amount of planar math the narrowphase needs on
// top of mgl64: rigid transforms, projection intervals and a single tolerance.
// It contains no shape or detector logic.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance for near-zero comparisons: axis lengths and the
// touching decision. Projection overlaps at or below Epsilon count as separation.
const Epsilon = 1e-9

// Normalize returns v scaled to unit length.
// Returns false when v is too short to normalize reliably.
func Normalize(v mgl64.Vec2) (mgl64.Vec2, bool) {
	l2 := v.LenSqr()
	if l2 <= Epsilon*Epsilon || math.IsNaN(l2) || math.IsInf(l2, 0) {
		return mgl64.Vec2{}, false
	}
	l := math.Sqrt(l2)
	return mgl64.Vec2{v[0] / l, v[1] / l}, true
}

// Left returns v rotated a quarter turn counter-clockwise.
func Left(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[1], v[0]}
}

// Right returns v rotated a quarter turn clockwise.
// For a counter-clockwise polygon this is the outward normal of an edge.
func Right(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v[1], -v[0]}
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// IsZero reports whether v is the zero vector.
func IsZero(v mgl64.Vec2) bool {
	return v[0] == 0 && v[1] == 0
}

// Near reports whether a and b are within tol of each other.
func Near(a, b mgl64.Vec2, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

// Interval is the projection of a shape onto an axis.
type Interval struct {
	Min, Max float64
}

// Overlaps returns true if the intervals overlap by more than Epsilon.
// Touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Overlap(other) > Epsilon
}

// Overlap returns min(maxes) - max(mins).
// Negative values are the gap between disjoint intervals.
func (i Interval) Overlap(other Interval) float64 {
	return math.Min(i.Max, other.Max) - math.Max(i.Min, other.Min)
}

// Contains returns true if other lies entirely inside i.
func (i Interval) Contains(other Interval) bool {
	return other.Min >= i.Min && other.Max <= i.Max
}

// Depth returns the distance one interval must move along the axis to stop
// overlapping the other. When one interval contains the other, the overlap is
// extended by the shorter way out.
func (i Interval) Depth(other Interval) float64 {
	o := i.Overlap(other)
	if i.Contains(other) || other.Contains(i) {
		o += math.Min(math.Abs(i.Min-other.Min), math.Abs(i.Max-other.Max))
	}
	return o
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
