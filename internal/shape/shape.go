// Package shape provides the convex shapes consumed by the narrowphase detectors.
// Shapes are immutable after construction and are defined in local space; every
// query takes the transform that places the shape in the world.
package shape

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
)

// Kind identifies the concrete geometry behind a Convex.
// Detectors use it for dispatch instead of type switches.
type Kind uint8

const (
	KindPolygon Kind = iota
	KindCircle
	KindCapsule
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	case KindCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// KindPair is an ordered pair of shape kinds, used as a dispatch key.
type KindPair struct {
	A, B Kind
}

// PairOf returns the kind pair of two shapes.
func PairOf(a, b Convex) KindPair {
	return KindPair{A: a.Kind(), B: b.Kind()}
}

// Swap returns the pair with A and B exchanged.
func (p KindPair) Swap() KindPair {
	return KindPair{A: p.B, B: p.A}
}

// String returns "a/b".
func (p KindPair) String() string {
	return p.A.String() + "/" + p.B.String()
}

// Convex is the capability every narrowphase detector relies on.
// Directions passed in are world-space; axes passed to Project must be unit length.
type Convex interface {
	// Kind returns the concrete geometry kind.
	Kind() Kind

	// Center returns the local-space center (area centroid for polygons).
	Center() mgl64.Vec2

	// Support returns the world-space point furthest along dir.
	Support(dir mgl64.Vec2, tx geom.Transform) mgl64.Vec2

	// Project returns the world-space extent of the shape along a unit axis.
	Project(axis mgl64.Vec2, tx geom.Transform) geom.Interval

	// Axes returns the world-space candidate separating axes this shape
	// contributes against a shape with the given world-space foci.
	// Axes are not guaranteed to be normalized; callers skip the ones that
	// cannot be.
	Axes(foci []mgl64.Vec2, tx geom.Transform) []mgl64.Vec2

	// Foci returns the world-space focal points of curved features.
	// Polygons have none.
	Foci(tx geom.Transform) []mgl64.Vec2

	// Contains returns true if the world-space point lies inside the shape.
	Contains(p mgl64.Vec2, tx geom.Transform) bool

	// AABB returns the world-space bounding box.
	AABB(tx geom.Transform) geom.AABB
}

// WorldCenter returns the world-space center of a shape.
func WorldCenter(s Convex, tx geom.Transform) mgl64.Vec2 {
	return tx.Apply(s.Center())
}
