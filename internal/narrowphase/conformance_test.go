package narrowphase_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/narrowphase/circle"
	"github.com/vovakirdan/collide/internal/narrowphase/dispatch"
	"github.com/vovakirdan/collide/internal/narrowphase/gjk"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/shape"
)

type strategy struct {
	name string
	d    narrowphase.Detector
}

func strategies() []strategy {
	return []strategy{
		{"sat", sat.Detector{}},
		{"circle", circle.Detector{}},
		{"gjk", gjk.Detector{}},
		{"auto", dispatch.New()},
	}
}

type pairCase struct {
	name    string
	a       shape.Convex
	ta      geom.Transform
	b       shape.Convex
	tb      geom.Transform
	overlap bool
	curved  bool // polytope expansion only approximates curved boundaries
}

func cases(t *testing.T) []pairCase {
	t.Helper()
	box, err := shape.NewRectangle(2, 2)
	if err != nil {
		t.Fatalf("NewRectangle() failed: %v", err)
	}
	tri, err := shape.NewPolygon(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 0}, mgl64.Vec2{0, 2})
	if err != nil {
		t.Fatalf("NewPolygon() failed: %v", err)
	}
	disc, err := shape.NewCircle(1)
	if err != nil {
		t.Fatalf("NewCircle() failed: %v", err)
	}
	pill, err := shape.NewCapsule(4, 0.5)
	if err != nil {
		t.Fatalf("NewCapsule() failed: %v", err)
	}
	id := geom.Identity()

	return []pairCase{
		{"offset squares", box, id, box, geom.NewTransform(1, 0.5, 0), true, false},
		{"squares apart", box, id, box, geom.NewTransform(3.5, 0.2, 0), false, false},
		{"rotated square", box, id, box, geom.NewTransform(2.2, 0, math.Pi/4), true, false},
		{"triangle corner in square", tri, geom.NewTransform(-2.5, -0.5, 0), box, geom.NewTransform(0.6, 0.4, 0), true, false},
		{"triangle apart", tri, geom.NewTransform(5, 5, 1), box, id, false, false},
		{"circle on face", box, id, disc, geom.NewTransform(1.5, 0, 0), true, true},
		{"capsule across square", box, id, pill, geom.NewTransform(0, 1.2, 0), true, true},
		{"capsule apart from circle", pill, id, disc, geom.NewTransform(0, 2, 0), false, true},
		{"circles", disc, id, disc, geom.NewTransform(1.2, 0.9, 0), true, true},
	}
}

func tolerance(c pairCase) float64 {
	if c.curved {
		return 1e-4
	}
	return 1e-7
}

func TestAgreement(t *testing.T) {
	for _, s := range strategies() {
		for _, c := range cases(t) {
			t.Run(s.name+"/"+c.name, func(t *testing.T) {
				test := s.d.Test(c.a, c.ta, c.b, c.tb)
				p, ok := s.d.Detect(c.a, c.ta, c.b, c.tb)
				r := s.d.DetectWithHint(c.a, c.ta, c.b, c.tb, mgl64.Vec2{})

				if test != c.overlap || ok != c.overlap || r.Overlap != c.overlap {
					t.Fatalf("Test=%v Detect=%v DetectWithHint=%v, expected %v", test, ok, r.Overlap, c.overlap)
				}
				if !ok {
					return
				}
				if !p.Valid() {
					t.Errorf("invalid penetration %v", p)
				}
				if p.Depth <= 0 {
					t.Errorf("Depth = %v, expected positive", p.Depth)
				}
			})
		}
	}
}

func TestPenetrationResolves(t *testing.T) {
	for _, s := range strategies() {
		for _, c := range cases(t) {
			if !c.overlap {
				continue
			}
			t.Run(s.name+"/"+c.name, func(t *testing.T) {
				p, _ := s.d.Detect(c.a, c.ta, c.b, c.tb)

				// Moving B a little past the penetration separates the pair.
				past := c.tb.Translate(p.Axis.Mul(p.Depth + 10*tolerance(c)))
				if s.d.Test(c.a, c.ta, c.b, past) {
					t.Errorf("still overlapping after moving B by %v", p.Vector())
				}

				// Moving it a little less does not.
				short := c.tb.Translate(p.Axis.Mul(p.Depth - 10*tolerance(c)))
				if !s.d.Test(c.a, c.ta, c.b, short) {
					t.Errorf("separated before the full penetration %v", p.Vector())
				}
			})
		}
	}
}

func TestSymmetry(t *testing.T) {
	for _, s := range strategies() {
		for _, c := range cases(t) {
			t.Run(s.name+"/"+c.name, func(t *testing.T) {
				p, ok := s.d.Detect(c.a, c.ta, c.b, c.tb)
				q, swappedOK := s.d.Detect(c.b, c.tb, c.a, c.ta)
				if ok != swappedOK {
					t.Fatalf("overlap %v, swapped %v", ok, swappedOK)
				}
				if !ok {
					return
				}
				tol := tolerance(c)
				if math.Abs(p.Depth-q.Depth) > tol {
					t.Errorf("depth %v, swapped %v", p.Depth, q.Depth)
				}
				if !geom.Near(p.Axis, q.Axis.Mul(-1), math.Sqrt(tol)) {
					t.Errorf("axis %v, swapped %v", p.Axis, q.Axis)
				}
			})
		}
	}
}

func TestTranslationInvariance(t *testing.T) {
	shift := mgl64.Vec2{100, -50}
	for _, s := range strategies() {
		for _, c := range cases(t) {
			t.Run(s.name+"/"+c.name, func(t *testing.T) {
				p, ok := s.d.Detect(c.a, c.ta, c.b, c.tb)
				q, movedOK := s.d.Detect(c.a, c.ta.Translate(shift), c.b, c.tb.Translate(shift))
				if ok != movedOK {
					t.Fatalf("overlap %v, shifted %v", ok, movedOK)
				}
				if !ok {
					return
				}
				tol := tolerance(c)
				if math.Abs(p.Depth-q.Depth) > tol {
					t.Errorf("depth %v, shifted %v", p.Depth, q.Depth)
				}
				if !geom.Near(p.Axis, q.Axis, math.Sqrt(tol)) {
					t.Errorf("axis %v, shifted %v", p.Axis, q.Axis)
				}
			})
		}
	}
}

func TestHintEquivalence(t *testing.T) {
	for _, s := range strategies() {
		for _, c := range cases(t) {
			t.Run(s.name+"/"+c.name, func(t *testing.T) {
				first := s.d.DetectWithHint(c.a, c.ta, c.b, c.tb, mgl64.Vec2{})

				if !first.Overlap {
					if geom.IsZero(first.Separation) {
						t.Fatal("separated result carries no axis")
					}
					again := s.d.DetectWithHint(c.a, c.ta, c.b, c.tb, first.Separation)
					if again.Overlap || !again.Cached {
						t.Errorf("prior axis not reused: %+v", again)
					}
					if s.d.Test(c.a, c.ta, c.b, c.tb) {
						t.Error("Test() disagrees with the cached path")
					}
					return
				}

				// A hint that cannot separate the pair changes nothing but speed.
				for _, hint := range []mgl64.Vec2{{0, 1}, {1, 1}} {
					r := s.d.DetectWithHint(c.a, c.ta, c.b, c.tb, hint)
					if !r.Overlap || r.Cached {
						t.Fatalf("hint %v: %+v", hint, r)
					}
					tol := tolerance(c)
					if math.Abs(r.Penetration.Depth-first.Penetration.Depth) > tol {
						t.Errorf("hint %v: depth %v, expected %v", hint, r.Penetration.Depth, first.Penetration.Depth)
					}
				}
			})
		}
	}
}

func TestSeparationCacheAcrossFrames(t *testing.T) {
	box, _ := shape.NewRectangle(2, 2)
	ta := geom.Identity()

	for _, s := range strategies() {
		t.Run(s.name, func(t *testing.T) {
			var cache narrowphase.SeparationCache
			tb := geom.NewTransform(10, 0, 0)

			first := cache.Detect(s.d, box, ta, box, tb)
			if first.Overlap || first.Cached {
				t.Fatalf("first frame: %+v", first)
			}

			// B drifts but stays clear: the axis carries over.
			tb = tb.Translate(mgl64.Vec2{-1, 0.5})
			if r := cache.Detect(s.d, box, ta, box, tb); r.Overlap || !r.Cached {
				t.Errorf("second frame: %+v, expected cached separation", r)
			}

			// B lands on A: full detection, cache cleared.
			tb = geom.NewTransform(1, 1, 0)
			r := cache.Detect(s.d, box, ta, box, tb)
			if !r.Overlap || r.Cached {
				t.Errorf("third frame: %+v, expected overlap", r)
			}
			if !geom.IsZero(cache.Axis()) {
				t.Errorf("Axis() = %v after overlap, expected zero", cache.Axis())
			}
		})
	}
}

type randomPair struct {
	a, b   shape.Convex
	ta, tb geom.Transform
	curved bool
}

// randomConvex returns a polygon with vertices on a random ellipse, a circle or
// a capsule. The second result is true for curved shapes.
func randomConvex(t *testing.T, rng *rand.Rand) (shape.Convex, bool) {
	t.Helper()
	switch rng.IntN(3) {
	case 0:
		n := 3 + rng.IntN(5)
		sx, sy := 0.5+1.5*rng.Float64(), 0.5+1.5*rng.Float64()
		step := 2 * math.Pi / float64(n)
		vs := make([]mgl64.Vec2, n)
		for i := range vs {
			angle := float64(i)*step + (rng.Float64()-0.5)*0.6*step
			vs[i] = mgl64.Vec2{sx * math.Cos(angle), sy * math.Sin(angle)}
		}
		p, err := shape.NewPolygon(vs...)
		if err != nil {
			t.Fatalf("NewPolygon(%v) failed: %v", vs, err)
		}
		return p, false
	case 1:
		c, err := shape.NewCircle(0.3 + 1.2*rng.Float64())
		if err != nil {
			t.Fatalf("NewCircle() failed: %v", err)
		}
		return c, true
	default:
		c, err := shape.NewCapsule(0.5+2.5*rng.Float64(), 0.2+0.8*rng.Float64())
		if err != nil {
			t.Fatalf("NewCapsule() failed: %v", err)
		}
		return c, true
	}
}

func randomPairs(t *testing.T, n int) []randomPair {
	t.Helper()
	rng := rand.New(rand.NewPCG(2024, 7))
	pairs := make([]randomPair, n)
	for i := range pairs {
		a, curvedA := randomConvex(t, rng)
		b, curvedB := randomConvex(t, rng)
		ax, ay := 2*rng.Float64()-1, 2*rng.Float64()-1
		pairs[i] = randomPair{
			a:      a,
			b:      b,
			ta:     geom.NewTransform(ax, ay, 2*math.Pi*rng.Float64()),
			tb:     geom.NewTransform(ax+5*rng.Float64()-2.5, ay+5*rng.Float64()-2.5, 2*math.Pi*rng.Float64()),
			curved: curvedA || curvedB,
		}
	}
	return pairs
}

func TestRandomPairs(t *testing.T) {
	pairs := randomPairs(t, 1000)

	for _, s := range strategies() {
		t.Run(s.name, func(t *testing.T) {
			for i, c := range pairs {
				margin, tol := 1e-6, 1e-7
				if c.curved {
					margin, tol = 1e-3, 1e-3
				}

				p, ok := s.d.Detect(c.a, c.ta, c.b, c.tb)
				if test := s.d.Test(c.a, c.ta, c.b, c.tb); test != ok {
					t.Errorf("pair %d: Test()=%v, Detect()=%v", i, test, ok)
					continue
				}
				if !ok {
					continue
				}
				if !p.Valid() {
					t.Errorf("pair %d: invalid penetration %v", i, p)
					continue
				}

				moved := c.tb.Translate(p.Axis.Mul(p.Depth + margin))
				if s.d.Test(c.a, c.ta, c.b, moved) {
					t.Errorf("pair %d: still overlapping after moving B by %v", i, p.Vector())
				}

				q, swappedOK := s.d.Detect(c.b, c.tb, c.a, c.ta)
				if !swappedOK {
					t.Errorf("pair %d: swapped pair reported no overlap", i)
				} else if math.Abs(p.Depth-q.Depth) > tol {
					t.Errorf("pair %d: depth %v, swapped %v", i, p.Depth, q.Depth)
				}
			}
		})
	}
}

func TestRandomPairsSATMatchesGJK(t *testing.T) {
	for i, c := range randomPairs(t, 1000) {
		sp, satOK := sat.Detector{}.Detect(c.a, c.ta, c.b, c.tb)
		gp, gjkOK := gjk.Detector{}.Detect(c.a, c.ta, c.b, c.tb)

		if satOK != gjkOK {
			// Within a hair of touching either answer is acceptable.
			if math.Max(sp.Depth, gp.Depth) > 1e-6 {
				t.Errorf("pair %d: sat overlap %v (%v), gjk overlap %v (%v)", i, satOK, sp, gjkOK, gp)
			}
			continue
		}
		if !satOK || c.curved {
			continue
		}
		if math.Abs(sp.Depth-gp.Depth) > 1e-6 {
			t.Errorf("pair %d: sat depth %v, gjk depth %v", i, sp.Depth, gp.Depth)
		}
		if sp.Depth > 1e-6 && sp.Axis.Dot(gp.Axis) < 0 {
			t.Errorf("pair %d: sat axis %v, gjk axis %v point opposite ways", i, sp.Axis, gp.Axis)
		}
	}
}
