package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
)

// Circle is a disk centered on its local origin.
type Circle struct {
	radius float64
}

// NewCircle creates a circle with the given radius.
func NewCircle(radius float64) (*Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("shape: circle radius %v: %w", radius, ErrInvalidRadius)
	}
	return &Circle{radius: radius}, nil
}

// Radius returns the circle radius.
func (c *Circle) Radius() float64 {
	return c.radius
}

// Kind implements Convex.
func (c *Circle) Kind() Kind {
	return KindCircle
}

// Center implements Convex.
func (c *Circle) Center() mgl64.Vec2 {
	return mgl64.Vec2{}
}

// Support implements Convex. A zero direction yields the center.
func (c *Circle) Support(dir mgl64.Vec2, tx geom.Transform) mgl64.Vec2 {
	center := tx.Translation
	n, ok := geom.Normalize(dir)
	if !ok {
		return center
	}
	return center.Add(n.Mul(c.radius))
}

// Project implements Convex.
func (c *Circle) Project(axis mgl64.Vec2, tx geom.Transform) geom.Interval {
	d := axis.Dot(tx.Translation)
	return geom.Interval{Min: d - c.radius, Max: d + c.radius}
}

// Axes implements Convex: one axis from the center toward each focus.
func (c *Circle) Axes(foci []mgl64.Vec2, tx geom.Transform) []mgl64.Vec2 {
	axes := make([]mgl64.Vec2, 0, len(foci))
	for _, f := range foci {
		axes = append(axes, f.Sub(tx.Translation))
	}
	return axes
}

// Foci implements Convex: the world-space center.
func (c *Circle) Foci(tx geom.Transform) []mgl64.Vec2 {
	return []mgl64.Vec2{tx.Translation}
}

// Contains implements Convex.
func (c *Circle) Contains(p mgl64.Vec2, tx geom.Transform) bool {
	return p.Sub(tx.Translation).LenSqr() <= c.radius*c.radius
}

// AABB implements Convex.
func (c *Circle) AABB(tx geom.Transform) geom.AABB {
	r := mgl64.Vec2{c.radius, c.radius}
	return geom.AABB{Min: tx.Translation.Sub(r), Max: tx.Translation.Add(r)}
}
