// Package pet holds the mutable sprite state shared by the physics stepper and
// the interaction controller.
package pet

import (
	"fmt"

	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// DefaultSize is the edge length of the square sprite window in overlay units.
const DefaultSize = 120

// PhaseDuration is the number of ticks each animation phase lasts.
const PhaseDuration = 30

// Phase is the animation category used to pick a frame.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWalk
	PhaseHappy
)

// phaseCount must match the number of Phase values above.
const phaseCount = 3

// Next returns the phase that follows p in the autonomous cycle.
func (p Phase) Next() Phase {
	return (p + 1) % phaseCount
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWalk:
		return "walk"
	case PhaseHappy:
		return "happy"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Bounds is the screen area the sprite lives in.
type Bounds struct {
	Width  int
	Height int
}

// Max returns the largest allowed top-left position for a sprite of edge size.
// Each component is never below zero.
func (b Bounds) Max(size float64) pmath.Vec2 {
	return pmath.Vec2{
		X: max(0, float64(b.Width)-size),
		Y: max(0, float64(b.Height)-size),
	}
}

// Clamp limits a top-left position to the bounds.
func (b Bounds) Clamp(p pmath.Vec2, size float64) pmath.Vec2 {
	return p.Clamp(pmath.Vec2{}, b.Max(size))
}

// Contains reports whether a top-left position keeps the sprite fully on screen.
func (b Bounds) Contains(p pmath.Vec2, size float64) bool {
	m := b.Max(size)
	return p.X >= 0 && p.Y >= 0 && p.X <= m.X && p.Y <= m.Y
}

// State is the physical and animation state of the pet.
type State struct {
	Position   pmath.Vec2 // top-left, overlay units
	Velocity   pmath.Vec2 // units per tick
	Phase      Phase
	PhaseTicks int // ticks since the last phase change
	Dragging   bool
}

// DefaultVelocity is the drift a fresh pet starts with.
var DefaultVelocity = pmath.Vec2{X: 2, Y: 1}

// NewState returns a fresh state with the sprite centred in bounds.
func NewState(b Bounds, size float64) State {
	m := b.Max(size)
	return State{
		Position: pmath.Vec2{X: m.X / 2, Y: m.Y / 2},
		Velocity: DefaultVelocity,
		Phase:    PhaseIdle,
	}
}

// NewStateAt returns a fresh state at the given top-left position, clamped into bounds.
func NewStateAt(b Bounds, size float64, at pmath.Vec2) State {
	s := NewState(b, size)
	s.Position = b.Clamp(at, size)
	return s
}
