package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/shape"
)

// SeparatedBy projects both shapes onto axis and reports whether the
// projections are disjoint. The normalized axis is returned; an axis that
// cannot be normalized separates nothing.
func SeparatedBy(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, axis mgl64.Vec2) (mgl64.Vec2, bool) {
	n, ok := geom.Normalize(axis)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return n, !a.Project(n, ta).Overlaps(b.Project(n, tb))
}

// Orient flips axis, if needed, so that moving B along it is the shorter way
// out of A. pa and pb are the projections of A and B on axis. When both ways
// are equally long the axis points from A's world center toward B's.
func Orient(axis mgl64.Vec2, pa, pb geom.Interval, a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) mgl64.Vec2 {
	forward := pa.Max - pb.Min
	backward := pb.Max - pa.Min
	switch {
	case forward < backward:
		return axis
	case backward < forward:
		return axis.Mul(-1)
	}
	c := shape.WorldCenter(b, tb).Sub(shape.WorldCenter(a, ta))
	if c.Dot(axis) < 0 {
		return axis.Mul(-1)
	}
	return axis
}

// CircleCircle is the closed-form test for two circles.
// Concentric circles are pushed apart along +x.
func CircleCircle(a *shape.Circle, ta geom.Transform, b *shape.Circle, tb geom.Transform) Result {
	v := tb.Translation.Sub(ta.Translation)
	axis, ok := geom.Normalize(v)
	if !ok {
		axis = mgl64.Vec2{1, 0}
	}

	depth := a.Radius() + b.Radius() - v.Len()
	if depth <= geom.Epsilon {
		return Separated(axis)
	}
	return Overlapping(Penetration{Axis: axis, Depth: depth})
}

// Circles returns both shapes as circles when they are.
func Circles(a, b shape.Convex) (*shape.Circle, *shape.Circle, bool) {
	ca, ok := a.(*shape.Circle)
	if !ok {
		return nil, nil, false
	}
	cb, ok := b.(*shape.Circle)
	if !ok {
		return nil, nil, false
	}
	return ca, cb, true
}
