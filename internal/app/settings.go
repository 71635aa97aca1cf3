package app

import (
	"github.com/Faultbox/overlay-pet/internal/config"
	"github.com/Faultbox/overlay-pet/internal/game/overlay"
	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// SessionConfig converts loaded settings into run loop settings.
func SessionConfig(cfg *config.Config) overlay.Config {
	sc := overlay.Config{
		Size:         pet.DefaultSize,
		TickInterval: cfg.Overlay.TickInterval,
		FlingDivisor: cfg.Gesture.FlingDivisor,
		Gesture:      cfg.Gesture.Thresholds(),
	}
	if cfg.Overlay.HasStartPosition() {
		sc.StartAt = &pmath.Vec2{X: cfg.Overlay.StartX, Y: cfg.Overlay.StartY}
	}
	return sc
}
