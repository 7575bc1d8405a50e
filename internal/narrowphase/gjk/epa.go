package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
)

// expand grows the polytope from the enclosing triangle until the edge
// closest to the origin lies on the boundary of A-B. That edge's outward
// normal points the way B leaves A and its distance is the penetration depth.
// If the iteration limit is reached, the closest edge found so far is used.
func (d Detector) expand(m minkowski, tri [3]mgl64.Vec2) narrowphase.Penetration {
	poly := make([]mgl64.Vec2, 3, 3+d.epaIterations())
	copy(poly, tri[:])

	var best narrowphase.Penetration
	for range d.epaIterations() {
		idx, normal, dist, ok := closestEdge(poly)
		if !ok {
			break
		}
		best = narrowphase.Penetration{Axis: normal, Depth: math.Max(dist, 0)}

		p := m.support(normal)
		if p.Dot(normal)-dist <= geom.Epsilon*math.Max(1, math.Abs(dist)) {
			return best
		}

		// Insert between the edge's endpoints, keeping the winding.
		poly = append(poly, mgl64.Vec2{})
		copy(poly[idx+2:], poly[idx+1:])
		poly[idx+1] = p
	}

	if geom.IsZero(best.Axis) {
		// Degenerate polytope: every edge collapsed.
		return narrowphase.Penetration{Axis: mgl64.Vec2{1, 0}}
	}
	return best
}

// closestEdge finds the edge of a counter-clockwise polytope nearest the
// origin. Zero-length edges are skipped.
func closestEdge(poly []mgl64.Vec2) (int, mgl64.Vec2, float64, bool) {
	found := false
	bestIdx := 0
	var bestNormal mgl64.Vec2
	bestDist := math.MaxFloat64

	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		n, ok := geom.Normalize(geom.Right(b.Sub(a)))
		if !ok {
			continue
		}
		if dist := n.Dot(a); dist < bestDist {
			found = true
			bestIdx, bestNormal, bestDist = i, n, dist
		}
	}
	return bestIdx, bestNormal, bestDist, found
}
