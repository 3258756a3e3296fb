package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/kelseyhightower/envconfig"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
	"github.com/vedantwpatil/presentation-cursor/internal/trail"
)

// Prefix of every environment variable read by Load.
const Prefix = "CURSORTRAIL"

type Config struct {
	Trail     Trail     `envconfig:"TRAIL"`
	Overlay   Overlay   `envconfig:"OVERLAY"`
	Recording Recording `envconfig:"RECORDING"`
	Log       Log       `envconfig:"LOG"`
}

type Trail struct {
	MaxSegments   int     `envconfig:"MAX_SEGMENTS"`
	FadeRate      float64 `envconfig:"FADE_RATE"`
	MinMovement   float64 `envconfig:"MIN_MOVEMENT"`
	BaseThickness float64 `envconfig:"BASE_THICKNESS"`
	MinThickness  float64 `envconfig:"MIN_THICKNESS"`
}

type Overlay struct {
	TargetFPS          int      `envconfig:"TARGET_FPS"`
	HighlightRadius    float64  `envconfig:"HIGHLIGHT_RADIUS"`
	HighlightThickness float64  `envconfig:"HIGHLIGHT_THICKNESS"`
	Hotkey             []string `envconfig:"HOTKEY"`
}

type Recording struct {
	TargetFPS int    `envconfig:"TARGET_FPS"`
	OutputDir string `envconfig:"OUTPUT_DIR"`
}

type Log struct {
	Level string `envconfig:"LEVEL"`
}

// NewConfig returns the built-in defaults without looking at the
// environment.
func NewConfig() *Config {
	t := trail.DefaultConfig()
	return &Config{
		Trail: Trail{
			MaxSegments:   t.MaxSegments,
			FadeRate:      t.FadeRate,
			MinMovement:   t.MinMovement,
			BaseThickness: t.BaseThickness,
			MinThickness:  t.MinThickness,
		},
		Overlay: Overlay{
			TargetFPS:          60,
			HighlightRadius:    20,
			HighlightThickness: 3,
			Hotkey:             slices.Clone(tracking.DefaultHotkey),
		},
		Recording: Recording{
			TargetFPS: 60,
			OutputDir: "output",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load starts from NewConfig, overrides it with any CURSORTRAIL_* environment
// variables that are set, and validates the result.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Trail.MaxSegments < 1 {
		return fmt.Errorf("invalid max segments: %d", c.Trail.MaxSegments)
	}
	if !positive(c.Trail.FadeRate) {
		return fmt.Errorf("invalid fade rate: %v", c.Trail.FadeRate)
	}
	if !positive(c.Trail.MinMovement) {
		return fmt.Errorf("invalid min movement: %v", c.Trail.MinMovement)
	}
	if !positive(c.Trail.BaseThickness) || !positive(c.Trail.MinThickness) {
		return fmt.Errorf("invalid thickness: base %v, min %v", c.Trail.BaseThickness, c.Trail.MinThickness)
	}
	if c.Overlay.TargetFPS <= 0 {
		return fmt.Errorf("invalid overlay frame rate: %d", c.Overlay.TargetFPS)
	}
	if !positive(c.Overlay.HighlightRadius) || !positive(c.Overlay.HighlightThickness) {
		return fmt.Errorf("invalid highlight: radius %v, thickness %v", c.Overlay.HighlightRadius, c.Overlay.HighlightThickness)
	}
	if len(c.Overlay.Hotkey) == 0 {
		return fmt.Errorf("hotkey is empty")
	}
	if c.Recording.TargetFPS <= 0 {
		return fmt.Errorf("invalid recording frame rate: %d", c.Recording.TargetFPS)
	}
	if c.Recording.OutputDir == "" {
		return fmt.Errorf("recording output directory is empty")
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
