package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
	"github.com/vovakirdan/collide/internal/sim"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	flagBenchIterations int
	flagBenchWorkers    int
	flagBenchDir        string
	flagBenchOnly       []string
	flagBenchNoSave     bool
)

var benchCmd = &cobra.Command{
	Use:   "bench [scenario...]",
	Short: "Time every strategy on every scenario",
	Long: `Runs scenarios under each strategy concurrently, repeating every frame's
detection for timing, and stores the results in the run history.

Without arguments all built-in scenarios are used, plus every scenario
file under --dir.

Examples:
  collide bench
  collide bench circles capsule-sweep --iterations 10000
  collide bench --dir ./scenarios --only sat,gjk
  collide bench --no-save`,
	Run: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagBenchIterations, "iterations", 0, "Detections per frame (default from config)")
	benchCmd.Flags().IntVar(&flagBenchWorkers, "workers", 0, "Concurrent runs (default from config)")
	benchCmd.Flags().StringVar(&flagBenchDir, "dir", "", "Directory of scenario files to add")
	benchCmd.Flags().StringSliceVar(&flagBenchOnly, "only", nil, "Strategies to run (default all)")
	benchCmd.Flags().BoolVar(&flagBenchNoSave, "no-save", false, "Do not store the runs")
}

func runBench(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(flagVerbose)

	iterations := cfg.Bench.Iterations
	if flagBenchIterations > 0 {
		iterations = flagBenchIterations
	}
	workers := cfg.Bench.Workers
	if flagBenchWorkers > 0 {
		workers = flagBenchWorkers
	}

	scenarios := benchScenarios(args)
	if len(scenarios) == 0 {
		fail("no scenarios to run")
	}

	ids := flagBenchOnly
	if len(ids) == 0 {
		ids = registry.IDs()
	}
	strategies := make([]registry.Strategy, 0, len(ids))
	for _, id := range ids {
		strategies = append(strategies, createStrategy(id))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs := sim.Jobs(scenarios, strategies, iterations)
	logger.Info("running bench", "scenarios", len(scenarios), "strategies", len(strategies), "iterations", iterations, "workers", workers)

	reports, err := sim.RunAll(ctx, jobs, workers, logger)
	if err != nil {
		fail("%v", err)
	}

	if !flagBenchNoSave {
		store := openStore(cfg)
		for _, rep := range reports {
			if _, err := store.SaveRun(storage.FromReport(rep)); err != nil {
				logger.Error("cannot store run", "scenario", rep.Scenario, "strategy", rep.Strategy, "error", err)
			}
		}
		store.Close()
	}

	if failed := printReports(reports); failed > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d run(s) did not meet their expectation\n", failed)
		os.Exit(1)
	}
}

// benchScenarios resolves the arguments, or returns the built-ins plus the
// files under --dir.
func benchScenarios(args []string) []*scenario.Scenario {
	if len(args) > 0 {
		scenarios := make([]*scenario.Scenario, len(args))
		for i, arg := range args {
			scenarios[i] = resolveScenario(arg)
		}
		return scenarios
	}

	scenarios := scenario.Builtin()
	if flagBenchDir != "" {
		extra, err := scenario.NewLoader(flagBenchDir).LoadAll()
		if err != nil {
			fail("%v", err)
		}
		scenarios = append(scenarios, extra...)
	}
	return scenarios
}

// printReports prints a table of reports and returns the number that failed.
func printReports(reports []sim.Report) int {
	maxIDLen := len("Scenario")
	for _, r := range reports {
		maxIDLen = max(maxIDLen, len(r.Scenario))
	}

	fmt.Println()
	fmt.Printf("  %-*s  %-8s  %7s  %8s  %6s  %10s  %8s  %s\n",
		maxIDLen, "Scenario", "Strategy", "Frames", "Overlaps", "Hints", "Max depth", "ns/det", "Result")
	fmt.Printf("  %s\n", strings.Repeat("-", maxIDLen+70))

	failed := 0
	for _, r := range reports {
		result := "ok"
		if !r.Passed() {
			result = "FAIL"
			failed++
		}
		fmt.Printf("  %-*s  %-8s  %7d  %8d  %6d  %10.6f  %8d  %s\n",
			maxIDLen, r.Scenario, r.Strategy, r.Frames, r.Overlaps, r.HintHits,
			r.MaxDepth, r.PerDetection().Nanoseconds(), result)
	}
	fmt.Println()
	return failed
}
