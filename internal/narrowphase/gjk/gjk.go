// Package gjk implements the Gilbert-Johnson-Keerthi distance algorithm for
// the boolean test and the Expanding Polytope Algorithm for penetration.
//
// Both work on the Minkowski difference A-B through the shapes' support
// functions only, so any convex shape is handled the same way.
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/shape"
)

// ID is the registry identifier of this strategy.
const ID = "gjk"

const (
	// DefaultMaxIterations bounds the GJK simplex search.
	DefaultMaxIterations = 32
	// DefaultEPAIterations bounds polytope expansion.
	DefaultEPAIterations = 64
)

func init() {
	registry.Register(ID, func() registry.Strategy { return Detector{} })
}

// Detector is the GJK/EPA strategy. Zero fields fall back to the defaults.
type Detector struct {
	MaxIterations int
	EPAIterations int
}

// ID implements registry.Strategy.
func (Detector) ID() string {
	return ID
}

// Title implements registry.Strategy.
func (Detector) Title() string {
	return "GJK + EPA"
}

func (d Detector) maxIterations() int {
	if d.MaxIterations > 0 {
		return d.MaxIterations
	}
	return DefaultMaxIterations
}

func (d Detector) epaIterations() int {
	if d.EPAIterations > 0 {
		return d.EPAIterations
	}
	return DefaultEPAIterations
}

// Test implements narrowphase.Detector.
func (d Detector) Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool {
	if ca, cb, ok := narrowphase.Circles(a, b); ok {
		return narrowphase.CircleCircle(ca, ta, cb, tb).Overlap
	}
	_, _, overlap := d.search(newMinkowski(a, ta, b, tb), mgl64.Vec2{})
	return overlap
}

// Detect implements narrowphase.Detector.
func (d Detector) Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (narrowphase.Penetration, bool) {
	return d.DetectWithHint(a, ta, b, tb, mgl64.Vec2{}).Penetrating()
}

// DetectWithHint implements narrowphase.Detector. The hint, when it does not
// separate the shapes on its own, still seeds the first search direction.
func (d Detector) DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) narrowphase.Result {
	if axis, separated := narrowphase.SeparatedBy(a, ta, b, tb, hint); separated {
		return narrowphase.Result{Separation: axis, Cached: true}
	}

	if ca, cb, ok := narrowphase.Circles(a, b); ok {
		return narrowphase.CircleCircle(ca, ta, cb, tb)
	}

	m := newMinkowski(a, ta, b, tb)
	simplex, axis, overlap := d.search(m, hint)
	if !overlap {
		return narrowphase.Separated(axis)
	}
	return narrowphase.Overlapping(d.expand(m, simplex))
}

// minkowski evaluates the support function of A-B.
type minkowski struct {
	a      shape.Convex
	ta     geom.Transform
	b      shape.Convex
	tb     geom.Transform
	center mgl64.Vec2 // world center of A minus world center of B
}

func newMinkowski(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) minkowski {
	return minkowski{
		a:      a,
		ta:     ta,
		b:      b,
		tb:     tb,
		center: shape.WorldCenter(a, ta).Sub(shape.WorldCenter(b, tb)),
	}
}

func (m minkowski) support(dir mgl64.Vec2) mgl64.Vec2 {
	return m.a.Support(dir, m.ta).Sub(m.b.Support(dir.Mul(-1), m.tb))
}

// reach returns the support point along dir and how far A-B extends past
// the origin along the normalized dir.
func (m minkowski) reach(dir mgl64.Vec2) (mgl64.Vec2, float64) {
	p := m.support(dir)
	n, ok := geom.Normalize(dir)
	if !ok {
		return p, 0
	}
	return p, p.Dot(n)
}

// search runs GJK. On overlap it returns a counter-clockwise triangle of A-B
// enclosing the origin. Otherwise it returns a unit separating axis, or the
// zero vector if the iteration limit was reached first.
//
// An axis along which A-B reaches at most geom.Epsilon past the origin counts
// as separating, so touching shapes are reported apart.
func (d Detector) search(m minkowski, hint mgl64.Vec2) ([3]mgl64.Vec2, mgl64.Vec2, bool) {
	var tri [3]mgl64.Vec2

	dir, ok := geom.Normalize(hint)
	if !ok {
		// Start along cA-cB, where A-B is centered.
		dir, ok = geom.Normalize(m.center)
	}
	if !ok {
		dir = mgl64.Vec2{1, 0}
	}

	first, r := m.reach(dir)
	if r <= geom.Epsilon {
		return tri, dir, false
	}
	simplex := []mgl64.Vec2{first}
	dir = first.Mul(-1)

	for range d.maxIterations() {
		if geom.IsZero(dir) {
			// The origin sits on the simplex; pick a side to probe.
			dir = d.probe(m, simplex)
			if geom.IsZero(dir) {
				return tri, mgl64.Vec2{}, false
			}
		}

		p, r := m.reach(dir)
		if r <= geom.Epsilon {
			n, _ := geom.Normalize(dir)
			return tri, n, false
		}
		simplex = append(simplex, p)

		var enclosed bool
		simplex, dir, enclosed = evolve(simplex)
		if enclosed {
			tri = [3]mgl64.Vec2{simplex[0], simplex[1], simplex[2]}
			if geom.Cross(tri[1].Sub(tri[0]), tri[2].Sub(tri[0])) < 0 {
				tri[1], tri[2] = tri[2], tri[1]
			}
			return tri, mgl64.Vec2{}, true
		}
	}
	return tri, mgl64.Vec2{}, false
}

// probe chooses a direction when the origin lies on the current simplex.
// For a single point the origin is the point itself; any direction works.
// For a segment, A-B extends past the origin on at most one side if the
// segment lies on the boundary, so the side with less reach is returned.
func (d Detector) probe(m minkowski, simplex []mgl64.Vec2) mgl64.Vec2 {
	if len(simplex) < 2 {
		return mgl64.Vec2{1, 0}
	}
	edge := simplex[1].Sub(simplex[0])
	left := geom.Left(edge)
	if geom.IsZero(left) {
		return mgl64.Vec2{}
	}
	_, rl := m.reach(left)
	_, rr := m.reach(left.Mul(-1))
	if rr < rl {
		return left.Mul(-1)
	}
	return left
}

// evolve updates the simplex, newest point last, and returns the next search
// direction. It reports true once a triangle encloses the origin.
func evolve(simplex []mgl64.Vec2) ([]mgl64.Vec2, mgl64.Vec2, bool) {
	switch len(simplex) {
	case 2:
		b, a := simplex[0], simplex[1]
		ab := b.Sub(a)
		ao := a.Mul(-1)
		if ab.Dot(ao) > 0 {
			return simplex, tripleProduct(ab, ao, ab), false
		}
		return []mgl64.Vec2{a}, ao, false

	case 3:
		c, b, a := simplex[0], simplex[1], simplex[2]
		ab := b.Sub(a)
		ac := c.Sub(a)
		ao := a.Mul(-1)

		abPerp := tripleProduct(ac, ab, ab)
		if !geom.IsZero(abPerp) && abPerp.Dot(ao) >= 0 {
			return []mgl64.Vec2{b, a}, abPerp, false
		}
		acPerp := tripleProduct(ab, ac, ac)
		if !geom.IsZero(acPerp) && acPerp.Dot(ao) >= 0 {
			return []mgl64.Vec2{c, a}, acPerp, false
		}
		return simplex, mgl64.Vec2{}, true
	}

	// A lone point: head back toward the origin.
	return simplex, simplex[len(simplex)-1].Mul(-1), false
}

// tripleProduct returns (a x b) x c, which for c == b is the component of -a
// perpendicular to b, scaled by |b|^2.
func tripleProduct(a, b, c mgl64.Vec2) mgl64.Vec2 {
	return b.Mul(c.Dot(a)).Sub(a.Mul(c.Dot(b)))
}
