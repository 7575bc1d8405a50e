package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/platform/tui"
	"github.com/vovakirdan/collide/internal/registry"
)

var viewCmd = &cobra.Command{
	Use:   "view <scenario>",
	Short: "Show a scenario in the interactive viewer",
	Long: `Draws both shapes of a scenario in the terminal, with their overlap
and the penetration vector, and lets you move B around.

Controls:
  Arrows/WASD  - Move B
  [ / ]        - Rotate B
  Tab          - Next strategy
  Space        - Pause the animation
  R            - Reset
  + / -        - Zoom
  ?            - All keys
  Q/Ctrl+C     - Quit

Examples:
  collide view overlapping-squares
  collide view capsule-sweep --strategy gjk`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func runView(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	sc := resolveScenario(args[0])

	strategies, err := tui.CreateStrategies(registry.IDs())
	if err != nil {
		fail("%v", err)
	}

	initial := cfg.Strategy
	if flagStrategy == "" && sc.Strategy != "" {
		initial = sc.Strategy
	}

	if err := tui.RunViewer(sc, strategies, initial, cfg.Viewer, viewLogger()); err != nil {
		fail("%v", err)
	}
}

// viewLogger returns a debug logger writing to ~/.collide/trace.log under
// --verbose, since log lines on stderr would tear the alternate screen.
func viewLogger() *log.Logger {
	if !flagVerbose {
		return nil
	}

	path := filepath.Join(config.UserDir(), "trace.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "collide",
	})
	logger.SetLevel(log.DebugLevel)
	return logger
}
