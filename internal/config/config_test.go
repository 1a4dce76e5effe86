package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apagar/certo/internal/difficulty"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Session.Count != def.Session.Count {
		t.Errorf("Count = %d, want default %d", cfg.Session.Count, def.Session.Count)
	}
	if cfg.Debounce() != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Debounce())
	}
	if cfg.Thresholds().AdvancedRatio != 0.8 {
		t.Errorf("AdvancedRatio = %v, want 0.8", cfg.Thresholds().AdvancedRatio)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
session:
  count: 20
  time_limit_minutes: 30
save:
  debounce_ms: 500
mastery:
  advanced_ratio: 0.9
difficulty:
  hard_threshold: 8
  topic_weights:
    Routing: 4.0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Count != 20 {
		t.Errorf("Count = %d, want 20", cfg.Session.Count)
	}
	if cfg.TimeLimit() != 30*time.Minute {
		t.Errorf("TimeLimit = %v, want 30m", cfg.TimeLimit())
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", cfg.Debounce())
	}

	th := cfg.Thresholds()
	if th.AdvancedRatio != 0.9 {
		t.Errorf("AdvancedRatio = %v, want 0.9", th.AdvancedRatio)
	}
	// Untouched fields keep their defaults.
	if th.IntermediateMinSamples != 3 {
		t.Errorf("IntermediateMinSamples = %d, want 3", th.IntermediateMinSamples)
	}

	w := cfg.Weights()
	if w.HardThreshold != 8 {
		t.Errorf("HardThreshold = %v, want 8", w.HardThreshold)
	}
	if w.Topic["Routing"] != 4.0 {
		t.Errorf("Routing weight = %v, want 4.0", w.Topic["Routing"])
	}
	// Overrides must not leak into the package defaults.
	if difficulty.DefaultWeights().Topic["Routing"] == 4.0 {
		t.Error("override mutated the default topic table")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("session: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	want := filepath.Join("/tmp/xdg", "certo", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}
