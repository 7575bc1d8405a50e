package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
)

// Capsule is a segment along the local x axis swept by a disk.
// Length is the distance between the two cap centers.
type Capsule struct {
	half   float64
	radius float64
}

// NewCapsule creates a capsule centered on its local origin.
func NewCapsule(length, radius float64) (*Capsule, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("shape: capsule length %v: %w", length, ErrInvalidLength)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("shape: capsule radius %v: %w", radius, ErrInvalidRadius)
	}
	return &Capsule{half: length / 2, radius: radius}, nil
}

// Length returns the distance between the cap centers.
func (c *Capsule) Length() float64 {
	return 2 * c.half
}

// Radius returns the cap radius.
func (c *Capsule) Radius() float64 {
	return c.radius
}

// Kind implements Convex.
func (c *Capsule) Kind() Kind {
	return KindCapsule
}

// Center implements Convex.
func (c *Capsule) Center() mgl64.Vec2 {
	return mgl64.Vec2{}
}

// segment returns the world-space cap centers.
func (c *Capsule) segment(tx geom.Transform) (mgl64.Vec2, mgl64.Vec2) {
	return tx.Apply(mgl64.Vec2{-c.half, 0}), tx.Apply(mgl64.Vec2{c.half, 0})
}

// closestOnSegment returns the point of the core segment nearest to p.
func (c *Capsule) closestOnSegment(p mgl64.Vec2, tx geom.Transform) mgl64.Vec2 {
	a, b := c.segment(tx)
	ab := b.Sub(a)
	t := geom.ClampF(p.Sub(a).Dot(ab)/ab.LenSqr(), 0, 1)
	return a.Add(ab.Mul(t))
}

// Support implements Convex.
func (c *Capsule) Support(dir mgl64.Vec2, tx geom.Transform) mgl64.Vec2 {
	a, b := c.segment(tx)
	end := a
	if b.Dot(dir) > a.Dot(dir) {
		end = b
	}
	n, ok := geom.Normalize(dir)
	if !ok {
		return end
	}
	return end.Add(n.Mul(c.radius))
}

// Project implements Convex.
func (c *Capsule) Project(axis mgl64.Vec2, tx geom.Transform) geom.Interval {
	a, b := c.segment(tx)
	da, db := axis.Dot(a), axis.Dot(b)
	return geom.Interval{Min: math.Min(da, db) - c.radius, Max: math.Max(da, db) + c.radius}
}

// Axes implements Convex: the body normal, then one axis per focus from the
// nearest point of the core segment toward that focus.
func (c *Capsule) Axes(foci []mgl64.Vec2, tx geom.Transform) []mgl64.Vec2 {
	axes := make([]mgl64.Vec2, 0, 1+len(foci))
	axes = append(axes, tx.ApplyDir(mgl64.Vec2{0, 1}))
	for _, f := range foci {
		axes = append(axes, f.Sub(c.closestOnSegment(f, tx)))
	}
	return axes
}

// Foci implements Convex: the two cap centers.
func (c *Capsule) Foci(tx geom.Transform) []mgl64.Vec2 {
	a, b := c.segment(tx)
	return []mgl64.Vec2{a, b}
}

// Contains implements Convex.
func (c *Capsule) Contains(p mgl64.Vec2, tx geom.Transform) bool {
	return p.Sub(c.closestOnSegment(p, tx)).LenSqr() <= c.radius*c.radius
}

// AABB implements Convex.
func (c *Capsule) AABB(tx geom.Transform) geom.AABB {
	a, b := c.segment(tx)
	r := mgl64.Vec2{c.radius, c.radius}
	return geom.EmptyAABB().Extend(a.Sub(r)).Extend(a.Add(r)).Extend(b.Sub(r)).Extend(b.Add(r))
}
