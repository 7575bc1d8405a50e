package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/platform/tui"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	flagHistoryLimit  int
	flagHistoryBrowse bool
	flagHistoryStats  bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [scenario]",
	Short: "Show stored runs",
	Long: `Display the most recent runs stored by 'collide detect --save' and
'collide bench', optionally for one scenario only.

Examples:
  collide history
  collide history circles --limit 50
  collide history --stats
  collide history --browse
  collide history circles --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryBrowse, "browse", false, "Browse runs in an interactive table")
	historyCmd.Flags().BoolVar(&flagHistoryStats, "stats", false, "Show per-strategy aggregates")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the runs instead of showing them")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
	}

	store := openStore(cfg)
	defer store.Close()

	switch {
	case flagHistoryClear:
		n, err := store.ClearRuns(scenarioID)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("Deleted %d run(s).\n", n)

	case flagHistoryBrowse:
		width, height := terminalSize()
		if err := tui.RunHistory(store, scenarioID, width, height); err != nil {
			fail("%v", err)
		}

	case flagHistoryStats:
		printStats(store)

	default:
		printRuns(store, scenarioID)
	}
}

func printRuns(store *storage.Store, scenarioID string) {
	var (
		runs []storage.Run
		err  error
	)
	if scenarioID == "" {
		runs, err = store.RecentRuns(flagHistoryLimit)
	} else {
		runs, err = store.RunsForScenario(scenarioID, flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'collide bench' or 'collide detect <scenario> --save' to record some.")
		return
	}

	fmt.Printf("  %-16s  %-24s  %-8s  %7s  %8s  %10s  %8s  %s\n",
		"Date", "Scenario", "Strategy", "Frames", "Overlaps", "Max depth", "ns/det", "Result")
	fmt.Printf("  %-16s  %-24s  %-8s  %7s  %8s  %10s  %8s  %s\n",
		"----", "--------", "--------", "------", "--------", "---------", "------", "------")

	for _, r := range runs {
		result := "ok"
		if !r.Passed {
			result = "FAIL: " + r.Mismatch
		}
		fmt.Printf("  %-16s  %-24s  %-8s  %7d  %8d  %10.6f  %8d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.ScenarioID, r.Strategy,
			r.Frames, r.Overlaps, r.MaxDepth, r.PerDetection().Nanoseconds(), result)
	}
}

func printStats(store *storage.Store) {
	stats, err := store.StrategyStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %5s  %12s  %8s  %8s  %s\n", "Strategy", "Runs", "Detections", "ns/det", "Overlap", "Failures")
	fmt.Printf("  %-8s  %5s  %12s  %8s  %8s  %s\n", "--------", "----", "----------", "------", "-------", "--------")
	for _, st := range stats {
		fmt.Printf("  %-8s  %5d  %12d  %8d  %7.1f%%  %d\n",
			st.Strategy, st.Runs, st.Detections, st.AvgDetection.Nanoseconds(), st.OverlapRatio*100, st.Failures)
	}
}
