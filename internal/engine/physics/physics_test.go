package physics

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

const size = pet.DefaultSize

func TestStepStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		b := pet.Bounds{Width: 60 + rng.Intn(2000), Height: 60 + rng.Intn(2000)}
		limit := b.Max(size)
		s := pet.State{
			Position: pmath.Vec2{X: rng.Float64() * limit.X, Y: rng.Float64() * limit.Y},
			Velocity: pmath.Vec2{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200},
		}

		for tick := 0; tick < 200; tick++ {
			s = Step(s, b, size)
			if !b.Contains(s.Position, size) {
				t.Fatalf("trial %d tick %d: position %v outside %v", trial, tick, s.Position, b)
			}
		}
	}
}

func TestStepReflectsOnRightWall(t *testing.T) {
	b := pet.Bounds{Width: 800, Height: 600}
	s := pet.State{
		Position: pmath.Vec2{X: 678, Y: 100},
		Velocity: pmath.Vec2{X: 5, Y: 0},
	}

	got := Step(s, b, size)

	if got.Velocity.X != -5 {
		t.Errorf("expected velocity.x -5, got %v", got.Velocity.X)
	}
	if got.Position.X != 680 {
		t.Errorf("expected position.x clamped to 680, got %v", got.Position.X)
	}
	if got.Velocity.Y != 0 || got.Position.Y != 100 {
		t.Errorf("expected y axis untouched, got pos %v vel %v", got.Position.Y, got.Velocity.Y)
	}

	// The next step moves away from the wall without flipping again.
	next := Step(got, b, size)
	if next.Velocity.X != -5 {
		t.Errorf("expected velocity.x to stay -5, got %v", next.Velocity.X)
	}
	if next.Position.X != 675 {
		t.Errorf("expected position.x 675, got %v", next.Position.X)
	}
}

func TestStepReflectsOnTopWall(t *testing.T) {
	b := pet.Bounds{Width: 800, Height: 600}
	s := pet.State{
		Position: pmath.Vec2{X: 300, Y: 1},
		Velocity: pmath.Vec2{X: 0, Y: -3},
	}

	got := Step(s, b, size)
	if got.Position.Y != 0 || got.Velocity.Y != 3 {
		t.Errorf("expected (y=0, vy=3), got (y=%v, vy=%v)", got.Position.Y, got.Velocity.Y)
	}
}

func TestStepLandingExactlyOnWallDoesNotFlip(t *testing.T) {
	b := pet.Bounds{Width: 800, Height: 600}
	s := pet.State{
		Position: pmath.Vec2{X: 675, Y: 0},
		Velocity: pmath.Vec2{X: 5, Y: 0},
	}

	got := Step(s, b, size)
	if got.Position.X != 680 {
		t.Errorf("expected position.x 680, got %v", got.Position.X)
	}
	if got.Velocity.X != 5 {
		t.Errorf("expected no flip when landing on the wall, got %v", got.Velocity.X)
	}
}

func TestStepDraggingFreezesPosition(t *testing.T) {
	b := pet.Bounds{Width: 800, Height: 600}
	s := pet.State{
		Position: pmath.Vec2{X: 10, Y: 20},
		Velocity: pmath.Vec2{X: 50, Y: 50},
		Dragging: true,
	}

	for i := 0; i < 100; i++ {
		s = Step(s, b, size)
	}

	if s.Position != (pmath.Vec2{X: 10, Y: 20}) {
		t.Errorf("expected frozen position, got %v", s.Position)
	}
	if s.Velocity != (pmath.Vec2{X: 50, Y: 50}) {
		t.Errorf("expected velocity untouched, got %v", s.Velocity)
	}
	// 100 ticks is three full phase changes plus 10 ticks.
	if s.Phase != pet.PhaseIdle || s.PhaseTicks != 10 {
		t.Errorf("expected phase to keep cycling while dragging, got %v/%d", s.Phase, s.PhaseTicks)
	}
}

func TestStepPhaseCycle(t *testing.T) {
	b := pet.Bounds{Width: 800, Height: 600}
	s := pet.NewState(b, size)

	want := []pet.Phase{pet.PhaseWalk, pet.PhaseHappy, pet.PhaseIdle, pet.PhaseWalk}
	for i, w := range want {
		for tick := 0; tick < pet.PhaseDuration-1; tick++ {
			s = Step(s, b, size)
		}
		if s.PhaseTicks != pet.PhaseDuration-1 {
			t.Fatalf("cycle %d: expected counter %d, got %d", i, pet.PhaseDuration-1, s.PhaseTicks)
		}
		s = Step(s, b, size)
		if s.Phase != w {
			t.Errorf("cycle %d: expected phase %v, got %v", i, w, s.Phase)
		}
		if s.PhaseTicks != 0 {
			t.Errorf("cycle %d: expected counter reset, got %d", i, s.PhaseTicks)
		}
	}
}

func TestStepTinyScreen(t *testing.T) {
	b := pet.Bounds{Width: 40, Height: 40}
	s := pet.State{Velocity: pmath.Vec2{X: 3, Y: -2}}

	got := Step(s, b, size)
	if got.Position != (pmath.Vec2{}) {
		t.Errorf("expected sprite pinned at origin, got %v", got.Position)
	}
}
