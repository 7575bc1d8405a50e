package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIntervalOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		overlap  float64
		overlaps bool
	}{
		{"partial", Interval{0, 2}, Interval{1, 3}, 1, true},
		{"disjoint", Interval{0, 1}, Interval{2, 3}, -1, false},
		{"touching", Interval{0, 1}, Interval{1, 2}, 0, false},
		{"contained", Interval{0, 10}, Interval{4, 5}, 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlap(tc.b); got != tc.overlap {
				t.Errorf("Overlap() = %v, expected %v", got, tc.overlap)
			}
			if got := tc.a.Overlaps(tc.b); got != tc.overlaps {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.overlaps)
			}
			// Also test symmetry
			if got := tc.b.Overlaps(tc.a); got != tc.overlaps {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.overlaps)
			}
		})
	}
}

func TestIntervalDepthContainment(t *testing.T) {
	outer := Interval{0, 10}
	inner := Interval{1, 3}

	// Overlap is the inner length (2); escaping needs 2 + min(1, 7) = 3.
	if got := outer.Depth(inner); got != 3 {
		t.Errorf("Depth() = %v, expected 3", got)
	}
	if got := inner.Depth(outer); got != 3 {
		t.Errorf("Depth() (reversed) = %v, expected 3", got)
	}

	if got := (Interval{0, 2}).Depth(Interval{1, 3}); got != 1 {
		t.Errorf("Depth() partial = %v, expected 1", got)
	}
}

func TestNormalize(t *testing.T) {
	n, ok := Normalize(mgl64.Vec2{3, 4})
	if !ok {
		t.Fatal("Normalize(3,4) should succeed")
	}
	if !Near(n, mgl64.Vec2{0.6, 0.8}, 1e-12) {
		t.Errorf("Normalize(3,4) = %v, expected (0.6, 0.8)", n)
	}

	if _, ok := Normalize(mgl64.Vec2{}); ok {
		t.Error("Normalize(0,0) should fail")
	}
	if _, ok := Normalize(mgl64.Vec2{1e-12, 0}); ok {
		t.Error("Normalize of a sub-epsilon vector should fail")
	}
	if _, ok := Normalize(mgl64.Vec2{math.NaN(), 0}); ok {
		t.Error("Normalize(NaN) should fail")
	}
}

func TestPerpendiculars(t *testing.T) {
	v := mgl64.Vec2{1, 0}
	if Left(v) != (mgl64.Vec2{0, 1}) {
		t.Errorf("Left(1,0) = %v", Left(v))
	}
	if Right(v) != (mgl64.Vec2{0, -1}) {
		t.Errorf("Right(1,0) = %v", Right(v))
	}
	if Cross(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}) != 1 {
		t.Error("Cross(x, y) should be 1")
	}
}

func TestTransformApply(t *testing.T) {
	tx := NewTransform(1, 2, math.Pi/2)

	got := tx.Apply(mgl64.Vec2{1, 0})
	if !Near(got, mgl64.Vec2{1, 3}, 1e-12) {
		t.Errorf("Apply(1,0) = %v, expected (1, 3)", got)
	}

	dir := tx.ApplyDir(mgl64.Vec2{1, 0})
	if !Near(dir, mgl64.Vec2{0, 1}, 1e-12) {
		t.Errorf("ApplyDir(1,0) = %v, expected (0, 1)", dir)
	}

	back := tx.InverseApply(got)
	if !Near(back, mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("InverseApply round trip = %v, expected (1, 0)", back)
	}

	local := tx.InverseApplyDir(dir)
	if !Near(local, mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("InverseApplyDir round trip = %v, expected (1, 0)", local)
	}
}

func TestTransformTranslateRotate(t *testing.T) {
	tx := Identity().Translate(mgl64.Vec2{3, -1}).Rotate(math.Pi)

	if tx.Translation != (mgl64.Vec2{3, -1}) {
		t.Errorf("Translation = %v, expected (3, -1)", tx.Translation)
	}
	if tx.Angle() != math.Pi {
		t.Errorf("Angle() = %v, expected pi", tx.Angle())
	}
	got := tx.Apply(mgl64.Vec2{1, 0})
	if !Near(got, mgl64.Vec2{2, -1}, 1e-12) {
		t.Errorf("Apply(1,0) = %v, expected (2, -1)", got)
	}
}

func TestAABB(t *testing.T) {
	a := EmptyAABB().Extend(mgl64.Vec2{0, 0}).Extend(mgl64.Vec2{2, 2})
	b := AABB{Min: mgl64.Vec2{1, 1}, Max: mgl64.Vec2{3, 3}}
	c := AABB{Min: mgl64.Vec2{2, 0}, Max: mgl64.Vec2{4, 2}}

	if !a.Intersects(b) {
		t.Error("overlapping boxes should intersect")
	}
	if a.Intersects(c) {
		t.Error("edge-sharing boxes should not intersect")
	}

	u := a.Union(c)
	if u.Width() != 4 || u.Height() != 2 {
		t.Errorf("Union size = %vx%v, expected 4x2", u.Width(), u.Height())
	}
	if u.Center() != (mgl64.Vec2{2, 1}) {
		t.Errorf("Center() = %v, expected (2, 1)", u.Center())
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestNear(t *testing.T) {
	tests := []struct {
		name     string
		a, b     mgl64.Vec2
		tol      float64
		expected bool
	}{
		{"equal", mgl64.Vec2{1, 0}, mgl64.Vec2{1, 0}, 0, true},
		{"zero component", mgl64.Vec2{1, 1e-12}, mgl64.Vec2{1, 0}, 1e-6, true},
		{"tiny values", mgl64.Vec2{1.22e-16, 3}, mgl64.Vec2{0, 3}, 1e-9, true},
		{"too far", mgl64.Vec2{1, 1e-3}, mgl64.Vec2{1, 0}, 1e-6, false},
		{"diagonal", mgl64.Vec2{0, 0}, mgl64.Vec2{3, 4}, 5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Near(tc.a, tc.b, tc.tol); got != tc.expected {
				t.Errorf("Near(%v, %v, %v) = %v, expected %v", tc.a, tc.b, tc.tol, got, tc.expected)
			}
		})
	}
}
