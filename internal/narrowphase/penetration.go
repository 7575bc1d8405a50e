package narrowphase

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// unitTolerance bounds how far a reported axis may stray from unit length.
const unitTolerance = 1e-6

// Penetration is the minimum translation separating two overlapping shapes.
type Penetration struct {
	Axis  mgl64.Vec2 // Unit direction from shape A toward shape B
	Depth float64    // Distance along Axis, never negative
}

// Vector returns Axis scaled by Depth.
func (p Penetration) Vector() mgl64.Vec2 {
	return p.Axis.Mul(p.Depth)
}

// Valid returns true if the axis is unit length and the depth is a
// non-negative finite number.
func (p Penetration) Valid() bool {
	if math.IsNaN(p.Depth) || math.IsInf(p.Depth, 0) || p.Depth < 0 {
		return false
	}
	return math.Abs(p.Axis.Len()-1) <= unitTolerance
}

// String returns a compact representation for logs and CLI output.
func (p Penetration) String() string {
	return fmt.Sprintf("depth %.6f along (%.6f, %.6f)", p.Depth, p.Axis[0], p.Axis[1])
}

// Result is the outcome of DetectWithHint.
type Result struct {
	// Overlap is true when the shapes penetrate.
	Overlap bool

	// Penetration is the zero value unless Overlap is true.
	// Prefer Penetrating to read it.
	Penetration Penetration

	// Separation is a unit axis proving the shapes are apart.
	// Zero when Overlap is true, or when the strategy could not name one.
	Separation mgl64.Vec2

	// Cached is true when the supplied hint alone proved separation.
	Cached bool
}

// Penetrating returns the penetration and whether it is valid to use.
func (r Result) Penetrating() (Penetration, bool) {
	if !r.Overlap {
		return Penetration{}, false
	}
	return r.Penetration, true
}

// Overlapping builds the result for a penetrating pair.
func Overlapping(p Penetration) Result {
	return Result{Overlap: true, Penetration: p}
}

// Separated builds the result for a separated pair.
func Separated(axis mgl64.Vec2) Result {
	return Result{Separation: axis}
}

// String summarizes the result.
func (r Result) String() string {
	if r.Overlap {
		return "overlap: " + r.Penetration.String()
	}
	s := fmt.Sprintf("separated along (%.6f, %.6f)", r.Separation[0], r.Separation[1])
	if r.Cached {
		s += " (hint)"
	}
	return s
}
