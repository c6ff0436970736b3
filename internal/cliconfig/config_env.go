package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (VIDCAP_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("captures-dir", os.Getenv("VIDCAP_CAPTURES_DIR"), &cfg.CapturesDir)

	if err := s.setIntFromString("cap-mb", os.Getenv("VIDCAP_CAP_MB"), &cfg.CapMB); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("VIDCAP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("stats", os.Getenv("VIDCAP_STATS"), &cfg.Stats)
	s.setBoolFromString("verbose", os.Getenv("VIDCAP_VERBOSE"), &cfg.Verbose)

	return nil
}
