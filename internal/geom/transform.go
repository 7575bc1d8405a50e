package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid transform: a rotation followed by a translation.
// The zero value is not usable; start from Identity or NewTransform.
type Transform struct {
	angle       float64
	rot         mgl64.Mat2
	Translation mgl64.Vec2
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return NewTransform(0, 0, 0)
}

// NewTransform creates a transform rotating by angle radians then translating by (x, y).
func NewTransform(x, y, angle float64) Transform {
	return Transform{
		angle:       angle,
		rot:         mgl64.Rotate2D(angle),
		Translation: mgl64.Vec2{x, y},
	}
}

// Angle returns the rotation in radians.
func (t Transform) Angle() float64 {
	return t.angle
}

// Apply maps a local-space point to world space.
func (t Transform) Apply(p mgl64.Vec2) mgl64.Vec2 {
	return t.rot.Mul2x1(p).Add(t.Translation)
}

// ApplyDir rotates a local-space direction into world space.
func (t Transform) ApplyDir(v mgl64.Vec2) mgl64.Vec2 {
	return t.rot.Mul2x1(v)
}

// InverseApply maps a world-space point to local space.
func (t Transform) InverseApply(p mgl64.Vec2) mgl64.Vec2 {
	return t.rot.Transpose().Mul2x1(p.Sub(t.Translation))
}

// InverseApplyDir rotates a world-space direction into local space.
func (t Transform) InverseApplyDir(v mgl64.Vec2) mgl64.Vec2 {
	return t.rot.Transpose().Mul2x1(v)
}

// Translate returns a copy of t moved by d in world space.
func (t Transform) Translate(d mgl64.Vec2) Transform {
	return Transform{angle: t.angle, rot: t.rot, Translation: t.Translation.Add(d)}
}

// Rotate returns a copy of t with da radians added to its rotation.
// The translation is unchanged: shapes spin about their own origin.
func (t Transform) Rotate(da float64) Transform {
	return NewTransform(t.Translation[0], t.Translation[1], t.angle+da)
}

// String returns a compact representation for logs.
func (t Transform) String() string {
	return fmt.Sprintf("(%.3f, %.3f) @ %.1f°", t.Translation[0], t.Translation[1], t.angle*180/math.Pi)
}
