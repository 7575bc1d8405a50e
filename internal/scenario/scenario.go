// Package scenario loads shape-pair scenarios from YAML files.
// A scenario places two bodies, optionally animates them, and may state the
// detection result it expects.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/shape"
)

// ExpectTolerance is the tolerance used when checking expected depth and axis.
const ExpectTolerance = 1e-6

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a parsed, validated scenario.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Strategy    string // preferred strategy id, may be empty
	Frames      int    // at least 1
	A           Body
	B           Body
	Expect      *Expectation
	FilePath    string // empty for built-in scenarios
}

// Body is one shape of the pair with its placement and motion.
type Body struct {
	Label    string
	Spec     ShapeSpec
	Shape    shape.Convex
	Position mgl64.Vec2
	Angle    float64    // radians
	Velocity mgl64.Vec2 // world units per frame
	Spin     float64    // radians per frame
}

// TransformAt returns the body's placement at the given frame.
func (b Body) TransformAt(frame int) geom.Transform {
	f := float64(frame)
	p := b.Position.Add(b.Velocity.Mul(f))
	return geom.NewTransform(p[0], p[1], b.Angle+b.Spin*f)
}

// TransformsAt returns the placements of A and B at the given frame.
func (s *Scenario) TransformsAt(frame int) (geom.Transform, geom.Transform) {
	return s.A.TransformAt(frame), s.B.TransformAt(frame)
}

// Animated returns true if the scenario has more than one frame.
func (s *Scenario) Animated() bool {
	return s.Frames > 1
}

// Title returns the name, or the ID when no name is set.
func (s *Scenario) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Expectation is the result a scenario states for its first frame.
type Expectation struct {
	Overlap bool
	Depth   *float64
	Axis    *mgl64.Vec2
}

// Check compares r with the expectation. The axis is only compared when
// withAxis is set, since strategies may legitimately pick different axes of
// equal depth.
func (e *Expectation) Check(r narrowphase.Result, withAxis bool) error {
	if r.Overlap != e.Overlap {
		return fmt.Errorf("overlap = %v, expected %v", r.Overlap, e.Overlap)
	}
	if !r.Overlap {
		return nil
	}

	var errs []error
	p := r.Penetration
	if e.Depth != nil && math.Abs(p.Depth-*e.Depth) > ExpectTolerance {
		errs = append(errs, fmt.Errorf("depth = %.9f, expected %.9f", p.Depth, *e.Depth))
	}
	if withAxis && e.Axis != nil && !geom.Near(p.Axis, *e.Axis, ExpectTolerance) {
		errs = append(errs, fmt.Errorf("axis = (%.6f, %.6f), expected (%.6f, %.6f)",
			p.Axis[0], p.Axis[1], e.Axis[0], e.Axis[1]))
	}
	return errors.Join(errs...)
}
