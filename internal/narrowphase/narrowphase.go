// Package narrowphase defines the contract shared by every exact pairwise
// collision test, the result types they produce, and the caller-held
// separating-axis caches that exploit frame-to-frame coherence.
//
// Concrete strategies live in sub-packages (sat, circle, gjk, dispatch) and
// register themselves with the registry at init time.
package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/shape"
)

// Detector decides whether two convex shapes overlap and, if so, finds the
// minimum translation separating them.
//
// Implementations are stateless: a single value may be used concurrently on
// different shape pairs. Shapes and transforms are never modified.
//
// When a penetration is reported its Axis is unit length and points the way
// B leaves A; translating B by Axis*Depth (or A by the negation) removes the
// overlap. Shapes that exactly touch are reported as not overlapping.
type Detector interface {
	// Test reports overlap only. It skips the work of finding the
	// minimum penetration.
	Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool

	// Detect reports overlap and the minimum penetration.
	// The penetration is only valid when ok is true.
	Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (p Penetration, ok bool)

	// DetectWithHint is Detect with a separating axis carried over from a
	// previous call on the same pair. A zero hint is ignored. When the shapes
	// do not overlap, the result carries an axis proving it, to be passed as
	// the hint next time.
	DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) Result
}
