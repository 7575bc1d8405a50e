package config

import (
	_ "embed"
)

//go:embed defaults/collide.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Strategy: "auto",
		DBPath:   "~/.collide/runs.db",
		Viewer: ViewerConfig{
			FPS:   30,
			Zoom:  4.0,
			Nudge: 0.25,
			Spin:  0.1,
		},
		Bench: BenchConfig{
			Iterations: 1000,
			Workers:    4,
		},
		SSH: SSHConfig{
			Address:            ":23235",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
