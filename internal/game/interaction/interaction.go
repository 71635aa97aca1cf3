// Package interaction applies classified gestures to the pet state.
package interaction

import (
	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

const (
	// TapSpeed bounds the random velocity given by a single tap.
	TapSpeed = 4.0
	// TeleportSpeed bounds the random velocity given after a double-tap teleport.
	TeleportSpeed = 2.0
	// DefaultFlingDivisor converts fling velocity (units/s) into units per tick.
	DefaultFlingDivisor = 200.0
)

// Rand is the random source used for taps. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Controller mutates a pet.State in response to gesture intents.
type Controller struct {
	bounds       pet.Bounds
	size         float64
	flingDivisor float64
	rng          Rand
}

// New creates a controller for a session with the given screen bounds.
func New(bounds pet.Bounds, size float64, rng Rand) *Controller {
	return &Controller{
		bounds:       bounds,
		size:         size,
		flingDivisor: DefaultFlingDivisor,
		rng:          rng,
	}
}

// SetFlingDivisor overrides the fling scaling. Non-positive values are ignored.
func (c *Controller) SetFlingDivisor(d float64) {
	if d > 0 {
		c.flingDivisor = d
	}
}

// Apply applies one intent to s in place.
func (c *Controller) Apply(in gesture.Intent, s *pet.State) {
	switch in.Kind {
	case gesture.IntentPressStart:
		s.Dragging = true

	case gesture.IntentDragTo:
		if !s.Dragging {
			return
		}
		half := c.size / 2
		s.Position = c.bounds.Clamp(pmath.Vec2{X: in.X - half, Y: in.Y - half}, c.size)

	case gesture.IntentPressEnd:
		s.Dragging = false

	case gesture.IntentSingleTap:
		s.Velocity = c.randomVelocity(TapSpeed)
		s.Phase = pet.PhaseHappy
		s.PhaseTicks = 0

	case gesture.IntentDoubleTap:
		m := c.bounds.Max(c.size)
		s.Position = pmath.Vec2{X: c.rng.Float64() * m.X, Y: c.rng.Float64() * m.Y}
		s.Velocity = c.randomVelocity(TeleportSpeed)

	case gesture.IntentFling:
		s.Velocity = pmath.Vec2{X: in.X / c.flingDivisor, Y: in.Y / c.flingDivisor}
	}
}

// randomVelocity returns a velocity with each axis uniform in [-limit, limit].
func (c *Controller) randomVelocity(limit float64) pmath.Vec2 {
	return pmath.Vec2{
		X: c.rng.Float64()*2*limit - limit,
		Y: c.rng.Float64()*2*limit - limit,
	}
}
