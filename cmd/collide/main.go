// collide is a workbench for 2D convex narrowphase collision detection.
//
// Usage:
//
//	collide list                 - List strategies and built-in scenarios
//	collide detect <scenario>    - Run one scenario and print the result
//	collide bench [scenario...]  - Time every strategy on every scenario
//	collide history [scenario]   - Show stored runs
//	collide view <scenario>      - Interactive terminal viewer
//	collide serve                - Serve the viewer over SSH
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.collide/config.yaml)
//	--db <path>         - Run history database
//	--strategy <id>     - Strategy to use (sat, circle, gjk, auto)
//	--verbose           - Debug logging, including every detection
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
	"github.com/vovakirdan/collide/internal/storage"

	// Import strategies to register them
	_ "github.com/vovakirdan/collide/internal/narrowphase/circle"
	_ "github.com/vovakirdan/collide/internal/narrowphase/dispatch"
	_ "github.com/vovakirdan/collide/internal/narrowphase/gjk"
	_ "github.com/vovakirdan/collide/internal/narrowphase/sat"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagStrategy string
	flagVerbose  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collide",
	Short: "collide - 2D convex collision detection workbench",
	Long: `collide tests pairs of convex shapes (polygons, circles, capsules)
for overlap and reports the minimum penetration that separates them.

Available commands:
  list     - Show strategies and built-in scenarios
  detect   - Run one scenario and print the result
  bench    - Time every strategy on every scenario
  history  - Show stored runs
  view     - Interactive terminal viewer
  serve    - Serve the viewer over SSH

Examples:
  collide list
  collide detect overlapping-squares
  collide detect ./my-pair.yaml --strategy gjk
  collide bench --iterations 5000
  collide view spinning-triangle`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStrategy, "strategy", "", "Strategy id (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates the stderr logger shared by all commands.
func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "collide",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// traceLogger returns the logger detections are traced to, or nil when
// tracing is off.
func traceLogger(logger *log.Logger) *log.Logger {
	if !flagVerbose {
		return nil
	}
	return logger
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config and applies the global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagStrategy != "" {
		cfg.Strategy = flagStrategy
	}
	if !registry.Exists(cfg.Strategy) {
		fail("unknown strategy %q (available: %v)", cfg.Strategy, registry.IDs())
	}
	return cfg
}

// resolveScenario loads a scenario file or built-in by id.
func resolveScenario(arg string) *scenario.Scenario {
	sc, err := scenario.Resolve(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'collide list' to see built-in scenarios.")
		os.Exit(1)
	}
	return sc
}

// createStrategy instantiates a registered strategy or exits.
func createStrategy(id string) registry.Strategy {
	s, err := registry.Create(id)
	if err != nil {
		fail("%v", err)
	}
	return s
}

// openStore opens the run history database or exits.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fail("opening run history: %v", err)
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
