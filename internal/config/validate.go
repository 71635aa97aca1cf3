package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Overlay.TickInterval <= 0 {
		return fmt.Errorf("overlay.tick_interval must be positive, got %v", c.Overlay.TickInterval)
	}
	if c.Overlay.DisplayIndex < 0 {
		return fmt.Errorf("overlay.display_index must not be negative, got %d", c.Overlay.DisplayIndex)
	}
	if _, err := ParseHexColor(c.Overlay.Background); err != nil {
		return fmt.Errorf("overlay.background: %w", err)
	}
	g := c.Gesture
	if g.TapTimeout <= 0 || g.DoubleTapTimeout <= 0 || g.VelocityWindow <= 0 {
		return errors.New("gesture timeouts must be positive")
	}
	if g.TouchSlop < 0 || g.DoubleTapSlop < 0 || g.MinFlingVelocity < 0 || g.MaxFlingVelocity < 0 {
		return errors.New("gesture distances and velocities must not be negative")
	}
	if g.FlingDivisor <= 0 {
		return fmt.Errorf("gesture.fling_divisor must be positive, got %v", g.FlingDivisor)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume)
	}
	return nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
