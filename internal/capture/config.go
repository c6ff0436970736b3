package capture

import "fmt"

// Config holds the immutable configuration for a capture session.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// BaseDir is the directory under which the "captures" tree is created.
	BaseDir string

	// Format is the negotiated video format bitmask.
	Format Format

	Width  int
	Height int
	FPS    int

	// Enabled turns capture on. When false the session starts disabled and
	// every ingestion call is a no-op.
	Enabled bool

	// StatsEnabled turns on the per-frame latency diagnostics log.
	StatsEnabled bool

	// CapMB is the maximum capture size in megabytes. Values below 1 are
	// treated as 1.
	CapMB int

	// OnCapReached is invoked exactly once, synchronously, when the cap is
	// reached. It runs under the session lock and must not call back into
	// the session.
	OnCapReached func()
}

// DefaultConfig returns a Config with default values.
// At minimum, you must set BaseDir, Format, Width, Height and FPS.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		CapMB:   100,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base dir is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	return nil
}

func (c *Config) capBytes() int64 {
	mb := c.CapMB
	if mb < 1 {
		mb = 1
	}
	return int64(mb) << 20
}
