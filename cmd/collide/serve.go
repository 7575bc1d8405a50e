package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/platform/tui"
	"github.com/vovakirdan/collide/internal/scenario"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeDir    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the viewer over SSH",
	Long: `Start an SSH server where every connection gets a scenario picker and
the interactive viewer.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.collide/host_key

Examples:
  collide serve                           # Listen on :23235 with auto-generated key
  collide serve --ssh :2222               # Listen on port 2222
  collide serve --dir ./scenarios         # Serve scenario files as well

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
	serveCmd.Flags().StringVar(&flagServeDir, "dir", "", "Directory of scenario files to serve with the built-ins")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(flagVerbose)

	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeoutMinutes = flagIdleTimeout
	}

	scenarios := scenario.Builtin()
	if flagServeDir != "" {
		extra, err := scenario.NewLoader(flagServeDir).LoadAll()
		if err != nil {
			fail("%v", err)
		}
		scenarios = append(scenarios, extra...)
	}

	server, err := tui.NewSSHServer(cfg, scenarios, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Serving %d scenarios over SSH on %s\n", len(scenarios), server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
