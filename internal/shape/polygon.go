package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
)

// Polygon is a convex polygon with counter-clockwise vertices.
type Polygon struct {
	vertices []mgl64.Vec2
	normals  []mgl64.Vec2 // normals[i] is the outward unit normal of edge i -> i+1
	center   mgl64.Vec2
}

// NewPolygon validates the vertices and builds a polygon.
// Clockwise input is reversed; the vertex slice is copied.
func NewPolygon(vertices ...mgl64.Vec2) (*Polygon, error) {
	n := len(vertices)
	if n < 3 {
		return nil, fmt.Errorf("shape: %d vertices: %w", n, ErrTooFewVertices)
	}

	vs := make([]mgl64.Vec2, n)
	copy(vs, vertices)

	for i := range vs {
		next := vs[(i+1)%n]
		if next.Sub(vs[i]).LenSqr() <= geom.Epsilon*geom.Epsilon {
			return nil, fmt.Errorf("shape: vertex %d: %w", i, ErrDuplicateVertex)
		}
	}

	area := signedArea(vs)
	if math.Abs(area) <= geom.Epsilon {
		return nil, fmt.Errorf("shape: %w", ErrDegenerate)
	}
	if area < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
		area = -area
	}

	// Every turn must be a left turn (or straight), and the turns must add up
	// to exactly one revolution; a pentagram passes the first test but not the second.
	var turning float64
	for i := range vs {
		e1 := vs[(i+1)%n].Sub(vs[i])
		e2 := vs[(i+2)%n].Sub(vs[(i+1)%n])
		cross := geom.Cross(e1, e2)
		if cross < -geom.Epsilon {
			return nil, fmt.Errorf("shape: right turn at vertex %d: %w", (i+1)%n, ErrNotConvex)
		}
		turning += math.Atan2(cross, e1.Dot(e2))
	}
	if math.Abs(turning-2*math.Pi) > 1e-6 {
		return nil, fmt.Errorf("shape: polygon winds %.2f turns: %w", turning/(2*math.Pi), ErrNotConvex)
	}

	p := &Polygon{
		vertices: vs,
		normals:  make([]mgl64.Vec2, n),
		center:   centroid(vs, area),
	}
	for i := range vs {
		// Duplicates were rejected above, so every edge normalizes.
		p.normals[i], _ = geom.Normalize(geom.Right(vs[(i+1)%n].Sub(vs[i])))
	}
	return p, nil
}

// NewRectangle creates an axis-aligned rectangle centered on the local origin.
func NewRectangle(width, height float64) (*Polygon, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("shape: rectangle %vx%v: %w", width, height, ErrInvalidLength)
	}
	hw, hh := width/2, height/2
	return NewPolygon(
		mgl64.Vec2{-hw, -hh},
		mgl64.Vec2{hw, -hh},
		mgl64.Vec2{hw, hh},
		mgl64.Vec2{-hw, hh},
	)
}

// signedArea returns the shoelace area, positive for counter-clockwise input.
func signedArea(vs []mgl64.Vec2) float64 {
	var sum float64
	for i := range vs {
		sum += geom.Cross(vs[i], vs[(i+1)%len(vs)])
	}
	return sum / 2
}

// centroid returns the area centroid of a counter-clockwise polygon.
func centroid(vs []mgl64.Vec2, area float64) mgl64.Vec2 {
	// Accumulate relative to the first vertex to limit cancellation.
	origin := vs[0]
	var c mgl64.Vec2
	for i := 1; i < len(vs)-1; i++ {
		e1 := vs[i].Sub(origin)
		e2 := vs[i+1].Sub(origin)
		tri := geom.Cross(e1, e2) / 2
		c = c.Add(e1.Add(e2).Mul(tri / 3))
	}
	return origin.Add(c.Mul(1 / area))
}

// Kind implements Convex.
func (p *Polygon) Kind() Kind {
	return KindPolygon
}

// Center implements Convex.
func (p *Polygon) Center() mgl64.Vec2 {
	return p.center
}

// Vertices returns a copy of the local-space vertices in counter-clockwise order.
func (p *Polygon) Vertices() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Normals returns a copy of the local-space outward edge normals.
func (p *Polygon) Normals() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(p.normals))
	copy(out, p.normals)
	return out
}

// WorldVertices returns the vertices placed by tx.
func (p *Polygon) WorldVertices(tx geom.Transform) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = tx.Apply(v)
	}
	return out
}

// Support implements Convex. Ties resolve to the lowest vertex index.
func (p *Polygon) Support(dir mgl64.Vec2, tx geom.Transform) mgl64.Vec2 {
	local := tx.InverseApplyDir(dir)
	best := 0
	bestDot := p.vertices[0].Dot(local)
	for i := 1; i < len(p.vertices); i++ {
		if d := p.vertices[i].Dot(local); d > bestDot {
			best, bestDot = i, d
		}
	}
	return tx.Apply(p.vertices[best])
}

// Project implements Convex.
// The axis is taken to local space once instead of moving every vertex.
func (p *Polygon) Project(axis mgl64.Vec2, tx geom.Transform) geom.Interval {
	local := tx.InverseApplyDir(axis)
	offset := axis.Dot(tx.Translation)
	lo := p.vertices[0].Dot(local)
	hi := lo
	for _, v := range p.vertices[1:] {
		d := v.Dot(local)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return geom.Interval{Min: lo + offset, Max: hi + offset}
}

// Axes implements Convex: the world edge normals, followed by one axis per
// focus from the polygon's closest vertex toward that focus.
func (p *Polygon) Axes(foci []mgl64.Vec2, tx geom.Transform) []mgl64.Vec2 {
	axes := make([]mgl64.Vec2, 0, len(p.normals)+len(foci))
	for _, n := range p.normals {
		axes = append(axes, tx.ApplyDir(n))
	}
	for _, f := range foci {
		closest := tx.Apply(p.vertices[0])
		best := f.Sub(closest).LenSqr()
		for _, v := range p.vertices[1:] {
			w := tx.Apply(v)
			if d := f.Sub(w).LenSqr(); d < best {
				closest, best = w, d
			}
		}
		axes = append(axes, f.Sub(closest))
	}
	return axes
}

// Foci implements Convex. Polygons have no curved features.
func (p *Polygon) Foci(geom.Transform) []mgl64.Vec2 {
	return nil
}

// Contains implements Convex. Points on the boundary are inside.
func (p *Polygon) Contains(pt mgl64.Vec2, tx geom.Transform) bool {
	local := tx.InverseApply(pt)
	for i, v := range p.vertices {
		if p.normals[i].Dot(local.Sub(v)) > geom.Epsilon {
			return false
		}
	}
	return true
}

// AABB implements Convex.
func (p *Polygon) AABB(tx geom.Transform) geom.AABB {
	box := geom.EmptyAABB()
	for _, v := range p.vertices {
		box = box.Extend(tx.Apply(v))
	}
	return box
}
