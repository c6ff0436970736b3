package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
captures_dir = "/data/captures"
cap_mb = 256
stats = true
debounce = "250ms"
verbose = false
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.CapturesDir != "/data/captures" {
		t.Errorf("CapturesDir = %q, want /data/captures", fc.CapturesDir)
	}
	if fc.CapMB != 256 {
		t.Errorf("CapMB = %d, want 256", fc.CapMB)
	}
	if fc.Stats == nil || !*fc.Stats {
		t.Errorf("Stats = %v, want true", fc.Stats)
	}
	if fc.Verbose == nil || *fc.Verbose {
		t.Errorf("Verbose = %v, want false", fc.Verbose)
	}
}

func TestLoadFileConfigBadTOML(t *testing.T) {
	path := writeConfigFile(t, `captures_dir = [broken`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("LoadFileConfig on broken TOML succeeded")
	}
}

func TestApplyFileConfigPrecedence(t *testing.T) {
	fc := FileConfig{
		CapturesDir: "/from/file",
		CapMB:       64,
		Debounce:    "1s",
	}

	cfg := DefaultConfig()
	cfg.CapturesDir = "/from/flag"
	cfg.CapMB = 8

	// cap-mb was set on the command line; the file must not override it.
	changed := map[string]bool{"cap-mb": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.CapMB != 8 {
		t.Errorf("CapMB = %d, want flag value 8", cfg.CapMB)
	}
	if cfg.CapturesDir != "/from/file" {
		t.Errorf("CapturesDir = %q, want /from/file", cfg.CapturesDir)
	}
	if cfg.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Debounce)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyFileConfig(&cfg, FileConfig{Debounce: "soon"}, nil)
	if err == nil {
		t.Fatal("ApplyFileConfig accepted invalid duration")
	}
}
