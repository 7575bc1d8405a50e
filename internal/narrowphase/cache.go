package narrowphase

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/shape"
)

// SeparationCache carries the last separating axis of one shape pair between
// calls. It is owned by a single caller and is not safe for concurrent use.
type SeparationCache struct {
	axis mgl64.Vec2
}

// Axis returns the cached axis, zero when none is known.
func (c *SeparationCache) Axis() mgl64.Vec2 {
	return c.axis
}

// Reset forgets the cached axis.
func (c *SeparationCache) Reset() {
	c.axis = mgl64.Vec2{}
}

// Detect runs d with the cached hint and stores the new separating axis.
// An overlap clears the cache.
func (c *SeparationCache) Detect(d Detector, a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) Result {
	r := d.DetectWithHint(a, ta, b, tb, c.axis)
	if r.Overlap {
		c.axis = mgl64.Vec2{}
	} else {
		c.axis = r.Separation
	}
	return r
}

// PairID identifies an ordered shape pair in a PairCache.
type PairID uint64

// PairKey derives the id of the ordered pair (a, b) from body names.
// PairKey(a, b) and PairKey(b, a) differ because the cached axis is
// relative to the order in which the shapes are passed.
func PairKey(a, b string) PairID {
	d := xxhash.New()
	d.WriteString(a)
	d.Write([]byte{0})
	d.WriteString(b)
	return PairID(d.Sum64())
}

// Stats counts detections made through a PairCache.
type Stats struct {
	Calls    uint64
	Overlaps uint64
	HintHits uint64 // separations proven by the cached axis alone
}

// PairCache keeps one separating axis per pair for callers that track many
// pairs. Methods are safe for concurrent use as long as a given PairID is
// only detected by one goroutine at a time.
type PairCache struct {
	mu   sync.Mutex
	axes map[PairID]mgl64.Vec2

	calls    atomic.Uint64
	overlaps atomic.Uint64
	hits     atomic.Uint64
}

// NewPairCache creates an empty cache.
func NewPairCache() *PairCache {
	return &PairCache{axes: make(map[PairID]mgl64.Vec2)}
}

// Detect runs d for pair id with its cached hint and records the outcome.
func (c *PairCache) Detect(d Detector, id PairID, a shape.Convex, ta geom.Transform, b shape.Convex, tb geom.Transform) Result {
	c.mu.Lock()
	hint := c.axes[id]
	c.mu.Unlock()

	r := d.DetectWithHint(a, ta, b, tb, hint)

	c.calls.Add(1)
	if r.Overlap {
		c.overlaps.Add(1)
	}
	if r.Cached {
		c.hits.Add(1)
	}

	c.mu.Lock()
	if geom.IsZero(r.Separation) {
		delete(c.axes, id)
	} else {
		c.axes[id] = r.Separation
	}
	c.mu.Unlock()

	return r
}

// Axis returns the cached axis for id.
func (c *PairCache) Axis(id PairID) (mgl64.Vec2, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	axis, ok := c.axes[id]
	return axis, ok
}

// Forget drops the cached axis for id, e.g. when a pair leaves the broadphase.
func (c *PairCache) Forget(id PairID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.axes, id)
}

// Clear drops every cached axis. Counters are kept.
func (c *PairCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.axes)
}

// Len returns the number of pairs with a cached axis.
func (c *PairCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.axes)
}

// Stats returns a snapshot of the counters.
func (c *PairCache) Stats() Stats {
	return Stats{
		Calls:    c.calls.Load(),
		Overlaps: c.overlaps.Load(),
		HintHits: c.hits.Load(),
	}
}
