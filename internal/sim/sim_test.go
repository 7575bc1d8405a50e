package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/narrowphase/dispatch"
	"github.com/vovakirdan/collide/internal/narrowphase/gjk"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
)

func builtin(t *testing.T, id string) *scenario.Scenario {
	t.Helper()
	sc, ok := scenario.BuiltinByID(id)
	if !ok {
		t.Fatalf("missing built-in scenario %q", id)
	}
	return sc
}

func allStrategies() []registry.Strategy {
	return []registry.Strategy{sat.Detector{}, gjk.Detector{}, dispatch.New()}
}

func TestRunOverlappingSquares(t *testing.T) {
	sc := builtin(t, "overlapping-squares")

	rep, err := Run(context.Background(), sc, sat.Detector{}, nil, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if rep.Frames != 1 || rep.Overlaps != 1 || rep.Iterations != 1 {
		t.Errorf("Run() = %+v", rep)
	}
	if math.Abs(rep.MaxDepth-1) > 1e-12 {
		t.Errorf("MaxDepth = %v, expected 1", rep.MaxDepth)
	}
	if !rep.Passed() {
		t.Errorf("expectation failed: %v", rep.Mismatch)
	}
}

func TestRunSeparatedSquaresUsesHint(t *testing.T) {
	sc := builtin(t, "separated-squares")

	for _, s := range allStrategies() {
		t.Run(s.ID(), func(t *testing.T) {
			cache := narrowphase.NewPairCache()
			rep, err := Run(context.Background(), sc, s, cache, Options{Iterations: 3})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if rep.Overlaps != 0 {
				t.Errorf("Overlaps = %d, expected 0", rep.Overlaps)
			}
			if rep.HintHits != sc.Frames-1 {
				t.Errorf("HintHits = %d, expected %d", rep.HintHits, sc.Frames-1)
			}
			if rep.Detections() != sc.Frames*3 {
				t.Errorf("Detections() = %d, expected %d", rep.Detections(), sc.Frames*3)
			}
			if stats := cache.Stats(); stats.Calls != uint64(sc.Frames) {
				t.Errorf("cache calls = %d, expected one per frame", stats.Calls)
			}
			if !rep.Passed() {
				t.Errorf("expectation failed: %v", rep.Mismatch)
			}
		})
	}
}

func TestRunBuiltinExpectations(t *testing.T) {
	for _, sc := range scenario.Builtin() {
		if sc.Expect == nil {
			continue
		}
		for _, s := range allStrategies() {
			t.Run(sc.ID+"/"+s.ID(), func(t *testing.T) {
				rep, err := Run(context.Background(), sc, s, nil, Options{})
				if err != nil {
					t.Fatalf("Run() failed: %v", err)
				}
				if !rep.Passed() {
					t.Errorf("expectation failed: %v", rep.Mismatch)
				}
			})
		}
	}
}

func TestRunMismatch(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
id: wrong
a: {shape: {type: circle, radius: 1}, position: [0, 0]}
b: {shape: {type: circle, radius: 1}, position: [5, 0]}
expect: {overlap: true}
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	rep, err := Run(context.Background(), sc, sat.Detector{}, nil, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if rep.Passed() {
		t.Error("Run() should report the failed expectation")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, builtin(t, "capsule-sweep"), sat.Detector{}, nil, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
}

func TestRunTraced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := Run(context.Background(), builtin(t, "touching-squares"), sat.Detector{}, nil, Options{Logger: logger})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "strategy=sat") {
		t.Errorf("expected a traced detection, got:\n%s", buf.String())
	}
}

func TestRunAll(t *testing.T) {
	scenarios := scenario.Builtin()
	jobs := Jobs(scenarios, allStrategies(), 2)
	if len(jobs) != len(scenarios)*3 {
		t.Fatalf("Jobs() = %d jobs, expected %d", len(jobs), len(scenarios)*3)
	}

	reports, err := RunAll(context.Background(), jobs, 4, nil)
	if err != nil {
		t.Fatalf("RunAll() failed: %v", err)
	}
	if len(reports) != len(jobs) {
		t.Fatalf("RunAll() = %d reports, expected %d", len(reports), len(jobs))
	}
	for i, rep := range reports {
		if rep.Scenario != jobs[i].Scenario.ID || rep.Strategy != jobs[i].Strategy.ID() {
			t.Errorf("report %d is %s/%s, expected %s/%s", i,
				rep.Scenario, rep.Strategy, jobs[i].Scenario.ID, jobs[i].Strategy.ID())
		}
		if rep.Frames != jobs[i].Scenario.Frames {
			t.Errorf("report %d ran %d frames, expected %d", i, rep.Frames, jobs[i].Scenario.Frames)
		}
	}
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := Jobs(scenario.Builtin(), []registry.Strategy{sat.Detector{}}, 1)
	if _, err := RunAll(ctx, jobs, 2, nil); err == nil {
		t.Error("RunAll() with a cancelled context should fail")
	}
}
