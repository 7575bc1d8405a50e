package narrowphase

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/shape"
)

// traced logs every call of the wrapped detector at debug level.
type traced struct {
	next   Detector
	name   string
	logger *log.Logger
}

// Traced wraps d so each call is logged under the given strategy name.
// A nil logger returns d unchanged.
func Traced(d Detector, name string, logger *log.Logger) Detector {
	if logger == nil {
		return d
	}
	return &traced{next: d, name: name, logger: logger}
}

func (t *traced) Test(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) bool {
	ok := t.next.Test(a, ta, b, tb)
	t.logger.Debug("test",
		"strategy", t.name,
		"pair", shape.PairOf(a, b),
		"overlap", ok,
	)
	return ok
}

func (t *traced) Detect(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) (Penetration, bool) {
	p, ok := t.next.Detect(a, ta, b, tb)
	t.logger.Debug("detect",
		"strategy", t.name,
		"pair", shape.PairOf(a, b),
		"a", ta,
		"b", tb,
		"overlap", ok,
		"depth", p.Depth,
		"axis", p.Axis,
	)
	return p, ok
}

func (t *traced) DetectWithHint(a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform, hint mgl64.Vec2) Result {
	r := t.next.DetectWithHint(a, ta, b, tb, hint)
	t.logger.Debug("detect",
		"strategy", t.name,
		"pair", shape.PairOf(a, b),
		"hint", hint,
		"overlap", r.Overlap,
		"depth", r.Penetration.Depth,
		"separation", r.Separation,
		"cached", r.Cached,
	)
	return r
}
