// Package config provides YAML-based configuration loading for the collide
// command and its viewer.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Strategy string       `yaml:"strategy"` // default strategy id
	DBPath   string       `yaml:"db_path"`
	Viewer   ViewerConfig `yaml:"viewer"`
	Bench    BenchConfig  `yaml:"bench"`
	SSH      SSHConfig    `yaml:"ssh"`
}

// ViewerConfig defines the interactive viewer parameters.
type ViewerConfig struct {
	FPS   int     `yaml:"fps"`
	Zoom  float64 `yaml:"zoom"`  // terminal cells per world unit, horizontally
	Nudge float64 `yaml:"nudge"` // world units moved per key press
	Spin  float64 `yaml:"spin"`  // radians rotated per key press
}

// BenchConfig defines benchmark parameters.
type BenchConfig struct {
	Iterations int `yaml:"iterations"` // detections per scenario frame
	Workers    int `yaml:"workers"`
}

// SSHConfig defines the SSH viewer server.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"` // empty means ~/.collide/host_key
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// TickRate returns the viewer frame interval.
func (v ViewerConfig) TickRate() time.Duration {
	return time.Second / time.Duration(v.FPS)
}

// IdleTimeout returns the SSH idle timeout.
func (s SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Validate replaces missing or non-positive values with defaults.
func (c *Config) Validate() {
	def := Default()

	if c.Strategy == "" {
		c.Strategy = def.Strategy
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}

	if c.Viewer.FPS <= 0 {
		c.Viewer.FPS = def.Viewer.FPS
	}
	if c.Viewer.FPS > 120 {
		c.Viewer.FPS = 120
	}
	if c.Viewer.Zoom <= 0 {
		c.Viewer.Zoom = def.Viewer.Zoom
	}
	if c.Viewer.Nudge <= 0 {
		c.Viewer.Nudge = def.Viewer.Nudge
	}
	if c.Viewer.Spin <= 0 {
		c.Viewer.Spin = def.Viewer.Spin
	}

	if c.Bench.Iterations <= 0 {
		c.Bench.Iterations = def.Bench.Iterations
	}
	if c.Bench.Workers <= 0 {
		c.Bench.Workers = def.Bench.Workers
	}

	if c.SSH.Address == "" {
		c.SSH.Address = def.SSH.Address
	}
	if c.SSH.IdleTimeoutMinutes <= 0 {
		c.SSH.IdleTimeoutMinutes = def.SSH.IdleTimeoutMinutes
	}
}
