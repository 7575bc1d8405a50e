// Package dispatch selects a strategy per pair of shape kinds.
//
// The table is symmetric: a detector registered for (polygon, circle) also
// serves (circle, polygon) by swapping the operands and negating the axis.
package dispatch

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/narrowphase/circle"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/shape"
)

// ID is the registry identifier of this strategy.
const ID = "auto"

func init() {
	registry.Register(ID, func() registry.Strategy { return New() })
}

// Detector routes each call by the kinds of its two shapes.
// Configure it with Register before sharing it between goroutines.
type Detector struct {
	table    map[shape.KindPair]narrowphase.Detector
	fallback narrowphase.Detector
}

// New returns a table sending circle pairs to the closed form and every
// other pair to SAT.
func New() *Detector {
	d := NewWithFallback(sat.Detector{})
	d.Register(shape.KindPair{A: shape.KindCircle, B: shape.KindCircle}, circle.Detector{})
	return d
}

// NewWithFallback returns an empty table that sends every pair to fallback.
func NewWithFallback(fallback narrowphase.Detector) *Detector {
	return &Detector{
		table:    make(map[shape.KindPair]narrowphase.Detector),
		fallback: fallback,
	}
}

// ID implements registry.Strategy.
func (d *Detector) ID() string {
	return ID
}

// Title implements registry.Strategy.
func (d *Detector) Title() string {
	return "Dispatch by shape kind"
}

// Register sets the detector for a pair of kinds, replacing any previous one.
func (d *Detector) Register(pair shape.KindPair, det narrowphase.Detector) {
	d.table[pair] = det
}

// Pairs returns the registered kind pairs in a stable order.
func (d *Detector) Pairs() []shape.KindPair {
	pairs := make([]shape.KindPair, 0, len(d.table))
	for p := range d.table {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// Lookup returns the detector for pair. swapped is true when only the
// reversed pair is registered and the operands must be exchanged.
func (d *Detector) Lookup(pair shape.KindPair) (det narrowphase.Detector, swapped bool) {
	if det, ok := d.table[pair]; ok {
		return det, false
	}
	if det, ok := d.table[pair.Swap()]; ok {
		return det, true
	}
	return d.fallback, false
}

// Test implements narrowphase.Detector.
func (d *Detector) Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool {
	det, swapped := d.Lookup(shape.PairOf(a, b))
	if swapped {
		return det.Test(b, tb, a, ta)
	}
	return det.Test(a, ta, b, tb)
}

// Detect implements narrowphase.Detector.
func (d *Detector) Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (narrowphase.Penetration, bool) {
	det, swapped := d.Lookup(shape.PairOf(a, b))
	if !swapped {
		return det.Detect(a, ta, b, tb)
	}
	p, ok := det.Detect(b, tb, a, ta)
	p.Axis = p.Axis.Mul(-1)
	return p, ok
}

// DetectWithHint implements narrowphase.Detector.
func (d *Detector) DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) narrowphase.Result {
	det, swapped := d.Lookup(shape.PairOf(a, b))
	if !swapped {
		return det.DetectWithHint(a, ta, b, tb, hint)
	}
	r := det.DetectWithHint(b, tb, a, ta, hint)
	r.Penetration.Axis = r.Penetration.Axis.Mul(-1)
	r.Separation = r.Separation.Mul(-1)
	return r
}
