// Package config loads optional user overrides from a YAML file. A
// missing file is not an error; every field falls back to the built-in
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apagar/certo/internal/difficulty"
	"github.com/apagar/certo/internal/persist"
	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/session"
)

// Config is the user-tunable surface of the app.
type Config struct {
	Bank       string           `yaml:"bank"`
	Session    SessionConfig    `yaml:"session"`
	Save       SaveConfig       `yaml:"save"`
	Mastery    MasteryConfig    `yaml:"mastery"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SessionConfig tunes session planning.
type SessionConfig struct {
	Count            int `yaml:"count"`
	TimeLimitMinutes int `yaml:"time_limit_minutes"`
}

// SaveConfig tunes the persistence coordinator.
type SaveConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// MasteryConfig overrides the mastery promotion thresholds.
type MasteryConfig struct {
	AdvancedRatio          float64 `yaml:"advanced_ratio"`
	AdvancedMinSamples     int     `yaml:"advanced_min_samples"`
	IntermediateRatio      float64 `yaml:"intermediate_ratio"`
	IntermediateMinSamples int     `yaml:"intermediate_min_samples"`
}

// DifficultyConfig overrides classification banding and topic weights.
type DifficultyConfig struct {
	HardThreshold   float64            `yaml:"hard_threshold"`
	MediumThreshold float64            `yaml:"medium_threshold"`
	TopicWeights    map[string]float64 `yaml:"topic_weights"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	th := progress.DefaultThresholds()
	w := difficulty.DefaultWeights()
	return &Config{
		Session: SessionConfig{
			Count:            session.DefaultQuestionCount,
			TimeLimitMinutes: int(session.DefaultTimeLimit.Minutes()),
		},
		Save: SaveConfig{
			DebounceMs: int(persist.DefaultDelay.Milliseconds()),
		},
		Mastery: MasteryConfig{
			AdvancedRatio:          th.AdvancedRatio,
			AdvancedMinSamples:     th.AdvancedMinSamples,
			IntermediateRatio:      th.IntermediateRatio,
			IntermediateMinSamples: th.IntermediateMinSamples,
		},
		Difficulty: DifficultyConfig{
			HardThreshold:   w.HardThreshold,
			MediumThreshold: w.MediumThreshold,
		},
	}
}

// DefaultPath returns the config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "certo", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "certo", "config.yaml")
}

// Load reads the config at path, layered over the defaults. A missing
// file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Thresholds converts the mastery section into tracker thresholds.
func (c *Config) Thresholds() progress.Thresholds {
	return progress.Thresholds{
		AdvancedRatio:          c.Mastery.AdvancedRatio,
		AdvancedMinSamples:     c.Mastery.AdvancedMinSamples,
		IntermediateRatio:      c.Mastery.IntermediateRatio,
		IntermediateMinSamples: c.Mastery.IntermediateMinSamples,
	}
}

// Weights converts the difficulty section into classifier weights,
// starting from the defaults and applying overrides on top.
func (c *Config) Weights() difficulty.Weights {
	w := difficulty.DefaultWeights()
	w.HardThreshold = c.Difficulty.HardThreshold
	w.MediumThreshold = c.Difficulty.MediumThreshold
	for topic, weight := range c.Difficulty.TopicWeights {
		w.Topic[topic] = weight
	}
	return w
}

// Debounce returns the save coalescing window.
func (c *Config) Debounce() time.Duration {
	if c.Save.DebounceMs <= 0 {
		return persist.DefaultDelay
	}
	return time.Duration(c.Save.DebounceMs) * time.Millisecond
}

// TimeLimit returns the timed-mode deadline.
func (c *Config) TimeLimit() time.Duration {
	if c.Session.TimeLimitMinutes <= 0 {
		return session.DefaultTimeLimit
	}
	return time.Duration(c.Session.TimeLimitMinutes) * time.Minute
}
