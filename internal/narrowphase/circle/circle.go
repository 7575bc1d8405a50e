// Package circle implements the closed-form circle/circle strategy.
// Pairs that are not two circles go to a fallback detector, SAT by default.
package circle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/shape"
)

// ID is the registry identifier of this strategy.
const ID = "circle"

func init() {
	registry.Register(ID, func() registry.Strategy { return Detector{} })
}

// Detector tests circle pairs by comparing the center distance with the sum
// of the radii.
type Detector struct {
	// Fallback handles every other pair. Nil means SAT.
	Fallback narrowphase.Detector
}

// ID implements registry.Strategy.
func (Detector) ID() string {
	return ID
}

// Title implements registry.Strategy.
func (Detector) Title() string {
	return "Circle/circle closed form"
}

func (d Detector) fallback() narrowphase.Detector {
	if d.Fallback != nil {
		return d.Fallback
	}
	return sat.Detector{}
}

// Test implements narrowphase.Detector.
func (d Detector) Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool {
	ca, cb, ok := narrowphase.Circles(a, b)
	if !ok {
		return d.fallback().Test(a, ta, b, tb)
	}
	return narrowphase.CircleCircle(ca, ta, cb, tb).Overlap
}

// Detect implements narrowphase.Detector.
func (d Detector) Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (narrowphase.Penetration, bool) {
	ca, cb, ok := narrowphase.Circles(a, b)
	if !ok {
		return d.fallback().Detect(a, ta, b, tb)
	}
	return narrowphase.CircleCircle(ca, ta, cb, tb).Penetrating()
}

// DetectWithHint implements narrowphase.Detector.
func (d Detector) DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) narrowphase.Result {
	ca, cb, ok := narrowphase.Circles(a, b)
	if !ok {
		return d.fallback().DetectWithHint(a, ta, b, tb, hint)
	}
	if axis, separated := narrowphase.SeparatedBy(a, ta, b, tb, hint); separated {
		return narrowphase.Result{Separation: axis, Cached: true}
	}
	return narrowphase.CircleCircle(ca, ta, cb, tb)
}
