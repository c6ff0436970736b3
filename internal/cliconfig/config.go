// Package cliconfig layers CLI configuration from defaults, a TOML file,
// environment variables, and flags, with explicitly set flags taking
// precedence.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds CLI configuration for vidcap.
type Config struct {
	// CapturesDir is the directory holding capture session directories.
	CapturesDir string

	// CapMB is the default capture cap in megabytes (minimum 1).
	CapMB int

	// Stats enables the per-frame latency diagnostics log.
	Stats bool

	// Debounce is the delay between index activity and re-summarizing a
	// session in watch mode.
	Debounce time.Duration

	// Verbose enables debug-level logging.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		CapturesDir: defaultCapturesDir(),
		CapMB:       100,
		Debounce:    500 * time.Millisecond,
	}
}

func defaultCapturesDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vidcap", "captures")
	}
	return "captures"
}

// Validate checks the configuration for errors and clamps derived defaults.
func (c *Config) Validate() error {
	if c.CapturesDir == "" {
		return fmt.Errorf("captures-dir is required")
	}
	if c.CapMB < 1 {
		c.CapMB = 1
	}
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	return nil
}
