// Package sim steps scenarios through a strategy frame by frame and measures
// the detections. RunAll fans a batch of runs out over a bounded worker pool.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
)

// Options tune a run.
type Options struct {
	// Iterations repeats the detection of every frame for timing.
	// Values below 1 mean 1.
	Iterations int

	// Logger, when set, traces the first detection of every frame at debug level.
	Logger *log.Logger
}

// Report summarizes one scenario run under one strategy.
type Report struct {
	Scenario   string
	Strategy   string
	Frames     int
	Iterations int
	Overlaps   int // frames with an overlap
	HintHits   int // frames where the cached axis alone proved separation
	MaxDepth   float64
	Duration   time.Duration // time spent in detection
	First      narrowphase.Result
	Last       narrowphase.Result
	Mismatch   error // expectation failure on the first frame, if any
}

// Passed returns true if the scenario's expectation held.
func (r Report) Passed() bool {
	return r.Mismatch == nil
}

// Detections returns the number of detector calls made.
func (r Report) Detections() int {
	return r.Frames * r.Iterations
}

// PerDetection returns the mean time of one detection.
func (r Report) PerDetection() time.Duration {
	n := r.Detections()
	if n == 0 {
		return 0
	}
	return r.Duration / time.Duration(n)
}

// Run steps sc through every frame with strategy s. The pair's separating
// axis is carried in cache between frames; a nil cache uses a fresh one.
// Cancelling ctx stops the run between frames.
func Run(ctx context.Context, sc *scenario.Scenario, s registry.Strategy, cache *narrowphase.PairCache, opts Options) (Report, error) {
	if cache == nil {
		cache = narrowphase.NewPairCache()
	}
	iterations := max(opts.Iterations, 1)

	rep := Report{
		Scenario:   sc.ID,
		Strategy:   s.ID(),
		Iterations: iterations,
	}

	var traced narrowphase.Detector = s
	if opts.Logger != nil {
		traced = narrowphase.Traced(s, s.ID(), opts.Logger)
	}

	id := narrowphase.PairKey(sc.A.Label, sc.B.Label)
	a, b := sc.A.Shape, sc.B.Shape
	withAxis := sc.Strategy == "" || sc.Strategy == s.ID()

	for frame := 0; frame < sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		ta, tb := sc.TransformsAt(frame)
		hint, _ := cache.Axis(id)

		start := time.Now()
		r := cache.Detect(traced, id, a, ta, b, tb)
		for i := 1; i < iterations; i++ {
			s.DetectWithHint(a, ta, b, tb, hint)
		}
		rep.Duration += time.Since(start)
		rep.Frames++

		if frame == 0 {
			rep.First = r
			if sc.Expect != nil {
				rep.Mismatch = sc.Expect.Check(r, withAxis)
			}
		}
		if r.Overlap {
			rep.Overlaps++
			rep.MaxDepth = max(rep.MaxDepth, r.Penetration.Depth)
		}
		if r.Cached {
			rep.HintHits++
		}
		rep.Last = r
	}

	return rep, nil
}

// Job is one scenario to run under one strategy.
type Job struct {
	Scenario   *scenario.Scenario
	Strategy   registry.Strategy
	Iterations int
}

// Jobs returns every scenario crossed with every strategy, scenario-major.
func Jobs(scenarios []*scenario.Scenario, strategies []registry.Strategy, iterations int) []Job {
	jobs := make([]Job, 0, len(scenarios)*len(strategies))
	for _, sc := range scenarios {
		for _, s := range strategies {
			jobs = append(jobs, Job{Scenario: sc, Strategy: s, Iterations: iterations})
		}
	}
	return jobs
}

// RunAll runs jobs on at most workers goroutines, each with its own cache.
// Reports are returned in job order. The first failure cancels the rest.
func RunAll(ctx context.Context, jobs []Job, workers int, logger *log.Logger) ([]Report, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	reports := make([]Report, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			rep, err := Run(ctx, job.Scenario, job.Strategy, nil, Options{Iterations: job.Iterations})
			if err != nil {
				return fmt.Errorf("sim: %s under %s: %w", job.Scenario.ID, job.Strategy.ID(), err)
			}
			reports[i] = rep

			if logger != nil {
				logger.Debug("run complete",
					"scenario", rep.Scenario,
					"strategy", rep.Strategy,
					"frames", rep.Frames,
					"overlaps", rep.Overlaps,
					"hint_hits", rep.HintHits,
					"per_detection", rep.PerDetection(),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
