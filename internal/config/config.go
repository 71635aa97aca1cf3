// Package config handles loading and saving the pet's settings.
package config

import (
	"time"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/game/interaction"
	"github.com/Faultbox/overlay-pet/internal/game/overlay"
)

// Config holds all settings.
type Config struct {
	Overlay OverlayConfig `yaml:"overlay"`
	Gesture GestureConfig `yaml:"gesture"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`

	path string
}

// OverlayConfig holds overlay window and run loop settings.
type OverlayConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	StartX            float64       `yaml:"start_x"` // negative centres the pet
	StartY            float64       `yaml:"start_y"`
	DisplayIndex      int           `yaml:"display_index"`
	Background        string        `yaml:"background"` // hex colour behind the sprite
	PermissionGranted bool          `yaml:"permission_granted"`
}

// GestureConfig holds gesture disambiguation thresholds.
type GestureConfig struct {
	TapTimeout       time.Duration `yaml:"tap_timeout"`
	DoubleTapTimeout time.Duration `yaml:"double_tap_timeout"`
	TouchSlop        float64       `yaml:"touch_slop"`
	DoubleTapSlop    float64       `yaml:"double_tap_slop"`
	MinFlingVelocity float64       `yaml:"min_fling_velocity"`
	MaxFlingVelocity float64       `yaml:"max_fling_velocity"`
	VelocityWindow   time.Duration `yaml:"velocity_window"`
	FlingDivisor     float64       `yaml:"fling_divisor"`
}

// AudioConfig holds sound effect settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	g := gesture.DefaultConfig()
	return &Config{
		Overlay: OverlayConfig{
			TickInterval:      overlay.DefaultTickInterval,
			StartX:            -1,
			StartY:            -1,
			DisplayIndex:      0,
			Background:        "#1E1E2E",
			PermissionGranted: false,
		},
		Gesture: GestureConfig{
			TapTimeout:       g.TapTimeout,
			DoubleTapTimeout: g.DoubleTapTimeout,
			TouchSlop:        g.TouchSlop,
			DoubleTapSlop:    g.DoubleTapSlop,
			MinFlingVelocity: g.MinFlingVelocity,
			MaxFlingVelocity: g.MaxFlingVelocity,
			VelocityWindow:   g.VelocityWindow,
			FlingDivisor:     interaction.DefaultFlingDivisor,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// HasStartPosition reports whether an explicit start position is configured.
func (o OverlayConfig) HasStartPosition() bool {
	return o.StartX >= 0 && o.StartY >= 0
}

// Thresholds returns the classifier thresholds, without the fling divisor.
func (g GestureConfig) Thresholds() gesture.Config {
	return gesture.Config{
		TapTimeout:       g.TapTimeout,
		DoubleTapTimeout: g.DoubleTapTimeout,
		TouchSlop:        g.TouchSlop,
		DoubleTapSlop:    g.DoubleTapSlop,
		MinFlingVelocity: g.MinFlingVelocity,
		MaxFlingVelocity: g.MaxFlingVelocity,
		VelocityWindow:   g.VelocityWindow,
	}
}
