// Package physics advances the pet by one tick: bounded bouncing plus the
// autonomous animation phase cycle.
package physics

import (
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// Step returns the state one tick later.
//
// While the pet is being dragged only the animation phase advances. Otherwise the
// position moves by the velocity, and any axis that leaves [0, bound-size] has its
// velocity component negated and its position clamped back in.
func Step(s pet.State, b pet.Bounds, size float64) pet.State {
	if !s.Dragging {
		limit := b.Max(size)
		s.Position.X, s.Velocity.X = reflect(s.Position.X+s.Velocity.X, s.Velocity.X, limit.X)
		s.Position.Y, s.Velocity.Y = reflect(s.Position.Y+s.Velocity.Y, s.Velocity.Y, limit.Y)
	}
	return advancePhase(s)
}

// reflect bounces a single axis off the [0, limit] walls.
func reflect(p, v, limit float64) (float64, float64) {
	if p < 0 || p > limit {
		v = -v
	}
	if p < 0 {
		p = 0
	} else if p > limit {
		p = limit
	}
	return p, v
}

func advancePhase(s pet.State) pet.State {
	s.PhaseTicks++
	if s.PhaseTicks >= pet.PhaseDuration {
		s.Phase = s.Phase.Next()
		s.PhaseTicks = 0
	}
	return s
}
