package shape

import "errors"

// Validation errors returned by the shape constructors.
var (
	ErrTooFewVertices  = errors.New("polygon needs at least 3 vertices")
	ErrDuplicateVertex = errors.New("polygon has duplicate consecutive vertices")
	ErrDegenerate      = errors.New("polygon has zero area")
	ErrNotConvex       = errors.New("polygon is not convex")
	ErrInvalidRadius   = errors.New("radius must be positive and finite")
	ErrInvalidLength   = errors.New("length must be positive and finite")
)
