// Package sat implements the Separating Axis Theorem strategy.
//
// Candidate axes are the edge normals of both shapes plus, for curved shapes,
// the axes toward the other shape's foci. The shapes overlap only if their
// projections overlap on every candidate; the candidate with the smallest
// overlap is the minimum translation axis.
package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/shape"
)

// ID is the registry identifier of this strategy.
const ID = "sat"

func init() {
	registry.Register(ID, func() registry.Strategy { return Detector{} })
}

// Detector is the SAT strategy. The zero value is ready to use.
type Detector struct{}

// ID implements registry.Strategy.
func (Detector) ID() string {
	return ID
}

// Title implements registry.Strategy.
func (Detector) Title() string {
	return "Separating Axis Theorem"
}

// Test implements narrowphase.Detector.
func (Detector) Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool {
	if ca, cb, ok := narrowphase.Circles(a, b); ok {
		return narrowphase.CircleCircle(ca, ta, cb, tb).Overlap
	}
	_, _, overlap := search(a, ta, b, tb, false)
	return overlap
}

// Detect implements narrowphase.Detector.
func (d Detector) Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (narrowphase.Penetration, bool) {
	return d.DetectWithHint(a, ta, b, tb, mgl64.Vec2{}).Penetrating()
}

// DetectWithHint implements narrowphase.Detector.
func (Detector) DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) narrowphase.Result {
	if axis, separated := narrowphase.SeparatedBy(a, ta, b, tb, hint); separated {
		return narrowphase.Result{Separation: axis, Cached: true}
	}

	if ca, cb, ok := narrowphase.Circles(a, b); ok {
		return narrowphase.CircleCircle(ca, ta, cb, tb)
	}

	axis, depth, overlap := search(a, ta, b, tb, true)
	if !overlap {
		return narrowphase.Separated(axis)
	}
	return narrowphase.Overlapping(narrowphase.Penetration{Axis: axis, Depth: depth})
}

// search tests every candidate axis, A's first.
// On separation it returns the separating axis. On overlap with track set it
// returns the axis of least depth, oriented so B leaves along it; ties keep
// the axis found first.
func search(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, track bool) (mgl64.Vec2, float64, bool) {
	fociA := a.Foci(ta)
	fociB := b.Foci(tb)

	best := mgl64.Vec2{}
	minDepth := math.MaxFloat64

	for _, axes := range [2][]mgl64.Vec2{a.Axes(fociB, ta), b.Axes(fociA, tb)} {
		for _, raw := range axes {
			n, ok := geom.Normalize(raw)
			if !ok {
				// Degenerate axis: it cannot discriminate anything.
				continue
			}

			pa := a.Project(n, ta)
			pb := b.Project(n, tb)
			if !pa.Overlaps(pb) {
				return n, 0, false
			}
			if !track {
				continue
			}

			if depth := pa.Depth(pb); depth < minDepth {
				minDepth = depth
				best = narrowphase.Orient(n, pa, pb, a, ta, b, tb)
			}
		}
	}

	if track && geom.IsZero(best) {
		// Only reachable with degenerate input: no axis could be normalized.
		return mgl64.Vec2{1, 0}, 0, true
	}
	return best, minDepth, true
}
