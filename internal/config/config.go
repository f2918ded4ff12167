// ABOUTME: YAML configuration parsing and validation
// ABOUTME: Endpoint, trigger, ring, display and beep settings
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/emgkit/flexbeeper/pkg/ring"
	"github.com/emgkit/flexbeeper/pkg/trigger"
	"github.com/emgkit/flexbeeper/pkg/waveform"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the sensor's access-point address
const DefaultEndpoint = "ws://192.168.4.1:81/"

type Config struct {
	Endpoint string        `yaml:"endpoint"`
	Trigger  TriggerConfig `yaml:"trigger"`
	Ring     RingConfig    `yaml:"ring"`
	Display  DisplayConfig `yaml:"display"`
	Beep     BeepConfig    `yaml:"beep"`
	Logging  LoggingConfig `yaml:"logging"`
}

type TriggerConfig struct {
	ThresholdHi float64 `yaml:"threshold_hi"`
	ThresholdLo float64 `yaml:"threshold_lo"`
	MinGapMs    int     `yaml:"min_gap_ms"`
}

type RingConfig struct {
	Capacity int `yaml:"capacity"`
}

type DisplayConfig struct {
	Height    int     `yaml:"height"`     // waveform rows
	LineWidth float64 `yaml:"line_width"` // >1 draws a bold trace
	RefreshHz int     `yaml:"refresh_hz"`
}

type BeepConfig struct {
	Enabled     bool    `yaml:"enabled"`
	FrequencyHz float64 `yaml:"frequency_hz"`
	DurationMs  int     `yaml:"duration_ms"`
	Gain        float64 `yaml:"gain"`
}

type LoggingConfig struct {
	File string `yaml:"file"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Trigger: TriggerConfig{
			ThresholdHi: 3.0,
			ThresholdLo: 2.0,
			MinGapMs:    300,
		},
		Ring: RingConfig{
			Capacity: ring.DefaultCapacity,
		},
		Display: DisplayConfig{
			Height:    12,
			LineWidth: 1.25,
			RefreshHz: waveform.DefaultRefreshHz,
		},
		Beep: BeepConfig{
			Enabled:     true,
			FrequencyHz: 880,
			DurationMs:  120,
			Gain:        0.12,
		},
		Logging: LoggingConfig{
			File: "flexbeeper.log",
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}

	if err := c.TriggerConfig().Validate(); err != nil {
		return fmt.Errorf("trigger: %w", err)
	}

	if c.Ring.Capacity <= 0 {
		return fmt.Errorf("ring: %w", ring.ErrCapacity)
	}

	if c.Display.Height <= 0 {
		return fmt.Errorf("display: height must be positive")
	}
	if c.Display.RefreshHz <= 0 {
		return fmt.Errorf("display: refresh_hz must be positive")
	}
	if c.Display.LineWidth <= 0 {
		return fmt.Errorf("display: line_width must be positive")
	}

	if c.Beep.Enabled {
		if c.Beep.FrequencyHz <= 0 || c.Beep.DurationMs <= 0 {
			return fmt.Errorf("beep: frequency and duration must be positive")
		}
		if c.Beep.Gain < 0 || c.Beep.Gain > 1 {
			return fmt.Errorf("beep: gain must be within [0, 1]")
		}
	}

	return nil
}

// TriggerConfig converts the trigger section for the detector
func (c *Config) TriggerConfig() trigger.Config {
	return trigger.Config{
		High:   c.Trigger.ThresholdHi,
		Low:    c.Trigger.ThresholdLo,
		MinGap: time.Duration(c.Trigger.MinGapMs) * time.Millisecond,
	}
}

// BeepDuration returns the beep length
func (c *Config) BeepDuration() time.Duration {
	return time.Duration(c.Beep.DurationMs) * time.Millisecond
}
