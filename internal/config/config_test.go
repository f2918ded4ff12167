// ABOUTME: Tests for YAML configuration parsing
// ABOUTME: Verifies defaults, overrides and validation errors
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emgkit/flexbeeper/pkg/ring"
	"github.com/emgkit/flexbeeper/pkg/trigger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected endpoint %s, got %s", DefaultEndpoint, cfg.Endpoint)
	}

	want := trigger.Config{High: 3.0, Low: 2.0, MinGap: 300 * time.Millisecond}
	if cfg.TriggerConfig() != want {
		t.Errorf("trigger = %+v, want %+v", cfg.TriggerConfig(), want)
	}
	if cfg.Ring.Capacity != 4000 {
		t.Errorf("expected ring capacity 4000, got %d", cfg.Ring.Capacity)
	}
	if cfg.BeepDuration() != 120*time.Millisecond {
		t.Errorf("expected 120ms beep, got %v", cfg.BeepDuration())
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
endpoint: "ws://10.0.0.5:81/"
trigger:
  threshold_hi: 1.5
  threshold_lo: 0.5
  min_gap_ms: 250
ring:
  capacity: 2000
display:
  refresh_hz: 60
beep:
  enabled: false
`

	cfg, err := Load(writeConfig(t, yamlContent))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoint != "ws://10.0.0.5:81/" {
		t.Errorf("expected endpoint override, got %s", cfg.Endpoint)
	}
	if cfg.Trigger.ThresholdHi != 1.5 || cfg.Trigger.ThresholdLo != 0.5 || cfg.Trigger.MinGapMs != 250 {
		t.Errorf("unexpected trigger section: %+v", cfg.Trigger)
	}
	if cfg.Ring.Capacity != 2000 {
		t.Errorf("expected capacity 2000, got %d", cfg.Ring.Capacity)
	}
	if cfg.Display.RefreshHz != 60 {
		t.Errorf("expected refresh 60, got %d", cfg.Display.RefreshHz)
	}
	if cfg.Beep.Enabled {
		t.Error("expected beep disabled")
	}

	// Unset fields keep their defaults
	if cfg.Display.Height != Default().Display.Height {
		t.Errorf("expected default height, got %d", cfg.Display.Height)
	}
	if cfg.Beep.FrequencyHz != 880 {
		t.Errorf("expected default frequency, got %v", cfg.Beep.FrequencyHz)
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, "trigger:\n  threshold_hi: 1\n  threshold_lo: 2\n"))
	if !errors.Is(err, trigger.ErrInvertedThresholds) {
		t.Errorf("expected ErrInvertedThresholds, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "trigger: [1, 2\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, nil},
		{"equal thresholds", func(c *Config) { c.Trigger.ThresholdLo = c.Trigger.ThresholdHi }, trigger.ErrInvertedThresholds},
		{"negative gap", func(c *Config) { c.Trigger.MinGapMs = -1 }, trigger.ErrNegativeGap},
		{"zero capacity", func(c *Config) { c.Ring.Capacity = 0 }, ring.ErrCapacity},
		{"zero height", func(c *Config) { c.Display.Height = 0 }, nil},
		{"zero refresh", func(c *Config) { c.Display.RefreshHz = 0 }, nil},
		{"gain too high", func(c *Config) { c.Beep.Gain = 2 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIgnoresDisabledBeep(t *testing.T) {
	cfg := Default()
	cfg.Beep.Enabled = false
	cfg.Beep.FrequencyHz = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled beep should not be validated: %v", err)
	}
}
