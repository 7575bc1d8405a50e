package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/shape"
)

// printVariants runs the three query forms on the first frame: the boolean
// test, the penetration query, and the hinted query fed its own separating
// axis back.
func printVariants(a, b shape.Convex, d narrowphase.Detector, at func(int) (geom.Transform, geom.Transform)) {
	ta, tb := at(0)

	fmt.Printf("  test:     %v\n", d.Test(a, ta, b, tb))

	if p, ok := d.Detect(a, ta, b, tb); ok {
		fmt.Printf("  detect:   %v\n", p)
	} else {
		fmt.Println("  detect:   no overlap")
	}

	r := d.DetectWithHint(a, ta, b, tb, mgl64.Vec2{})
	fmt.Printf("  hinted:   %v\n", r)
	if !r.Overlap && !geom.IsZero(r.Separation) {
		again := d.DetectWithHint(a, ta, b, tb, r.Separation)
		fmt.Printf("  re-hint:  %v\n", again)
	}
}
