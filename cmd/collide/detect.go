package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/sim"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	flagDetectAll  bool
	flagDetectSave bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <scenario>",
	Short: "Run one scenario and print the result",
	Long: `Runs the first frame of a scenario through the boolean test, the
penetration query and the hinted query, then plays every frame through a
separating axis cache. Exits with status 1 when the scenario's expectation
does not hold.

The scenario is a path to a YAML file or the id of a built-in scenario.
The strategy comes from --strategy, the scenario file, or the config, in
that order.

Examples:
  collide detect overlapping-squares
  collide detect circles --all
  collide detect ./pair.yaml --strategy gjk --save`,
	Args: cobra.ExactArgs(1),
	Run:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&flagDetectAll, "all", false, "Run every registered strategy")
	detectCmd.Flags().BoolVar(&flagDetectSave, "save", false, "Store the runs in the history database")
}

func runDetect(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(flagVerbose)
	sc := resolveScenario(args[0])

	ids := []string{cfg.Strategy}
	switch {
	case flagDetectAll:
		ids = registry.IDs()
	case flagStrategy == "" && sc.Strategy != "":
		ids = []string{sc.Strategy}
	}

	var store *storage.Store
	if flagDetectSave {
		store = openStore(cfg)
	}

	fmt.Printf("%s (%s)\n", sc.Title(), sc.ID)
	fmt.Printf("  A: %s at %v\n", sc.A.Spec, sc.A.TransformAt(0))
	fmt.Printf("  B: %s at %v\n", sc.B.Spec, sc.B.TransformAt(0))

	failed := false
	for _, id := range ids {
		s := createStrategy(id)

		var d narrowphase.Detector = s
		if tl := traceLogger(logger); tl != nil {
			d = narrowphase.Traced(s, id, tl)
		}

		fmt.Println()
		fmt.Printf("%s - %s\n", s.ID(), s.Title())
		printVariants(sc.A.Shape, sc.B.Shape, d, sc.TransformsAt)

		rep, err := sim.Run(context.Background(), sc, s, nil, sim.Options{Logger: traceLogger(logger)})
		if err != nil {
			fail("%v", err)
		}
		if sc.Animated() {
			fmt.Printf("  frames:   %d, %d overlapping, %d proven by hint, max depth %.6f\n",
				rep.Frames, rep.Overlaps, rep.HintHits, rep.MaxDepth)
		}

		if sc.Expect != nil {
			if rep.Passed() {
				fmt.Println("  expect:   ok")
			} else {
				fmt.Printf("  expect:   FAILED\n    %v\n", rep.Mismatch)
				failed = true
			}
		}

		if store != nil {
			run, err := store.SaveRun(storage.FromReport(rep))
			if err != nil {
				logger.Error("cannot store run", "error", err)
			} else {
				logger.Debug("run stored", "run_id", run.RunID)
			}
		}
	}

	if store != nil {
		store.Close()
	}
	if failed {
		os.Exit(1)
	}
}
