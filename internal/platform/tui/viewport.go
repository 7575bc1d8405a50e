package tui

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/core"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/shape"
)

// CellAspect is the height of a terminal cell over its width.
const CellAspect = 2.0

// Zoom limits in cells per world unit.
const (
	MinZoom = 0.5
	MaxZoom = 64.0
)

// Cell runes used by the rasterizer.
const (
	RuneA       = '░'
	RuneB       = '▒'
	RuneOverlap = '█'
	RuneVector  = '*'
	RuneTip     = '@'
	RuneAxis    = '·'
)

// axisCells is the on-screen length of a drawn separating axis.
const axisCells = 6

// Viewport maps world coordinates (y up) onto a rectangle of screen cells (y down).
type Viewport struct {
	Area   core.Rect
	Center mgl64.Vec2 // world point shown at the area's center cell
	Zoom   float64    // cells per world unit, horizontally
}

// NewViewport creates a viewport with the zoom clamped to its limits.
func NewViewport(area core.Rect, center mgl64.Vec2, zoom float64) Viewport {
	return Viewport{Area: area, Center: center, Zoom: geom.ClampF(zoom, MinZoom, MaxZoom)}
}

// ZoomBy scales the zoom by factor, within limits.
func (v Viewport) ZoomBy(factor float64) Viewport {
	v.Zoom = geom.ClampF(v.Zoom*factor, MinZoom, MaxZoom)
	return v
}

// ToCell returns the cell containing world point p.
func (v Viewport) ToCell(p mgl64.Vec2) (int, int) {
	cx, cy := v.Area.Center()
	x := cx + int(math.Round((p[0]-v.Center[0])*v.Zoom))
	y := cy - int(math.Round((p[1]-v.Center[1])*v.Zoom/CellAspect))
	return x, y
}

// ToWorld returns the world point sampled for cell (x, y).
func (v Viewport) ToWorld(x, y int) mgl64.Vec2 {
	cx, cy := v.Area.Center()
	return mgl64.Vec2{
		v.Center[0] + float64(x-cx)/v.Zoom,
		v.Center[1] - float64(y-cy)*CellAspect/v.Zoom,
	}
}

// Fit returns a viewport over area centered on box, zoomed so the box
// fills most of it.
func Fit(area core.Rect, box geom.AABB) Viewport {
	zoom := MaxZoom
	if w := box.Width(); w > 0 {
		zoom = math.Min(zoom, float64(area.W)*0.8/w)
	}
	if h := box.Height(); h > 0 {
		zoom = math.Min(zoom, float64(area.H)*0.8*CellAspect/h)
	}
	return NewViewport(area, box.Center(), zoom)
}

// Coverage counts the cells painted by Rasterize.
type Coverage struct {
	A, B, Both int
}

// Rasterize paints the cells covered by a, b and their intersection.
func Rasterize(s *core.Screen, v Viewport, a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) Coverage {
	var cov Coverage
	area := v.Area.Intersect(s.Bounds())
	if area.Empty() {
		return cov
	}
	boxA, boxB := a.AABB(ta), b.AABB(tb)

	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			p := v.ToWorld(x, y)
			inA := inBox(boxA, p) && a.Contains(p, ta)
			inB := inBox(boxB, p) && b.Contains(p, tb)

			switch {
			case inA && inB:
				s.SetCell(x, y, RuneOverlap, core.ColorOverlap)
				cov.Both++
			case inA:
				s.SetCell(x, y, RuneA, core.ColorA)
				cov.A++
			case inB:
				s.SetCell(x, y, RuneB, core.ColorB)
				cov.B++
			}
		}
	}
	return cov
}

func inBox(b geom.AABB, p mgl64.Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// DrawPenetration draws the vector that pushes B out of A, starting at from.
func DrawPenetration(s *core.Screen, v Viewport, from mgl64.Vec2, p narrowphase.Penetration) {
	x0, y0 := v.ToCell(from)
	x1, y1 := v.ToCell(from.Add(p.Vector()))
	s.DrawLine(x0, y0, x1, y1, RuneVector, core.ColorVector)
	s.SetCell(x1, y1, RuneTip, core.ColorVector)
}

// DrawAxis draws a separating axis as a short ray from the given point.
// A zero axis draws nothing.
func DrawAxis(s *core.Screen, v Viewport, from, axis mgl64.Vec2) {
	if axis.LenSqr() == 0 {
		return
	}
	x0, y0 := v.ToCell(from)
	x1, y1 := v.ToCell(from.Add(axis.Normalize().Mul(axisCells / v.Zoom)))
	s.DrawLine(x0, y0, x1, y1, RuneAxis, core.ColorAxis)
}

// DrawLabel writes a body label at the cell containing p.
func DrawLabel(s *core.Screen, v Viewport, p mgl64.Vec2, label string) {
	x, y := v.ToCell(p)
	if v.Area.Contains(x, y) {
		s.DrawText(x, y, label, core.ColorText)
	}
}
