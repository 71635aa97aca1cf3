package interaction

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/engine/physics"
	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

var bounds = pet.Bounds{Width: 800, Height: 600}

func newController(seed int64) *Controller {
	return New(bounds, pet.DefaultSize, rand.New(rand.NewSource(seed)))
}

func TestPressStartAndEnd(t *testing.T) {
	c := newController(1)
	s := pet.NewState(bounds, pet.DefaultSize)

	c.Apply(gesture.PressStart(), &s)
	if !s.Dragging {
		t.Error("expected dragging after press start")
	}
	c.Apply(gesture.PressEnd(), &s)
	if s.Dragging {
		t.Error("expected not dragging after press end")
	}
}

func TestDragToCentresAndClamps(t *testing.T) {
	c := newController(1)
	s := pet.NewState(bounds, pet.DefaultSize)
	c.Apply(gesture.PressStart(), &s)

	tests := []struct {
		x, y float64
		want pmath.Vec2
	}{
		{400, 300, pmath.Vec2{X: 340, Y: 240}},
		{10, 10, pmath.Vec2{X: 0, Y: 0}},
		{5000, 5000, pmath.Vec2{X: 680, Y: 480}},
	}
	for _, tt := range tests {
		c.Apply(gesture.DragTo(tt.x, tt.y), &s)
		if s.Position != tt.want {
			t.Errorf("drag-to(%v, %v): expected %v, got %v", tt.x, tt.y, tt.want, s.Position)
		}
	}
}

func TestDragToIgnoredWhenNotDragging(t *testing.T) {
	c := newController(1)
	s := pet.NewState(bounds, pet.DefaultSize)
	before := s.Position

	c.Apply(gesture.DragTo(10, 10), &s)
	if s.Position != before {
		t.Errorf("expected position unchanged, got %v", s.Position)
	}
}

func TestDraggingFreezesPhysics(t *testing.T) {
	c := newController(7)
	s := pet.NewState(bounds, pet.DefaultSize)
	s.Velocity = pmath.Vec2{X: 30, Y: -30}

	c.Apply(gesture.PressStart(), &s)
	rng := rand.New(rand.NewSource(3))
	var last pmath.Vec2
	for i := 0; i < 50; i++ {
		x, y := rng.Float64()*1000-100, rng.Float64()*800-100
		c.Apply(gesture.DragTo(x, y), &s)
		last = bounds.Clamp(pmath.Vec2{X: x - 60, Y: y - 60}, pet.DefaultSize)
		s = physics.Step(s, bounds, pet.DefaultSize)
		if s.Position != last {
			t.Fatalf("step %d: expected %v, got %v", i, last, s.Position)
		}
	}
	if s.Velocity != (pmath.Vec2{X: 30, Y: -30}) {
		t.Errorf("expected pending velocity untouched, got %v", s.Velocity)
	}
}

func TestSingleTap(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		c := newController(seed)
		s := pet.NewState(bounds, pet.DefaultSize)
		s.PhaseTicks = 17

		c.Apply(gesture.SingleTap(), &s)
		if s.Velocity.X < -4 || s.Velocity.X > 4 || s.Velocity.Y < -4 || s.Velocity.Y > 4 {
			t.Errorf("seed %d: velocity %v outside [-4, 4]", seed, s.Velocity)
		}
		if s.Phase != pet.PhaseHappy || s.PhaseTicks != 0 {
			t.Errorf("seed %d: expected happy/0, got %v/%d", seed, s.Phase, s.PhaseTicks)
		}
	}
}

func TestSingleTapThenCycleResumes(t *testing.T) {
	c := newController(5)
	s := pet.NewState(bounds, pet.DefaultSize)
	c.Apply(gesture.SingleTap(), &s)

	for i := 0; i < pet.PhaseDuration-1; i++ {
		s = physics.Step(s, bounds, pet.DefaultSize)
		if s.Phase != pet.PhaseHappy {
			t.Fatalf("tick %d: expected happy to hold, got %v", i, s.Phase)
		}
	}
	s = physics.Step(s, bounds, pet.DefaultSize)
	if s.Phase != pet.PhaseIdle {
		t.Errorf("expected cycle to resume with idle, got %v", s.Phase)
	}
}

func TestDoubleTap(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		c := newController(seed)
		s := pet.NewState(bounds, pet.DefaultSize)

		c.Apply(gesture.DoubleTap(), &s)
		if !bounds.Contains(s.Position, pet.DefaultSize) {
			t.Errorf("seed %d: position %v outside bounds", seed, s.Position)
		}
		if s.Velocity.X < -2 || s.Velocity.X > 2 || s.Velocity.Y < -2 || s.Velocity.Y > 2 {
			t.Errorf("seed %d: velocity %v outside [-2, 2]", seed, s.Velocity)
		}
	}
}

func TestFling(t *testing.T) {
	c := newController(1)
	s := pet.NewState(bounds, pet.DefaultSize)

	c.Apply(gesture.Fling(400, -200), &s)
	if s.Velocity != (pmath.Vec2{X: 2, Y: -1}) {
		t.Errorf("expected velocity (2, -1), got %v", s.Velocity)
	}
}

func TestFlingDivisor(t *testing.T) {
	c := newController(1)
	c.SetFlingDivisor(100)
	c.SetFlingDivisor(-1)
	s := pet.NewState(bounds, pet.DefaultSize)

	c.Apply(gesture.Fling(400, -200), &s)
	if s.Velocity != (pmath.Vec2{X: 4, Y: -2}) {
		t.Errorf("expected velocity (4, -2), got %v", s.Velocity)
	}
}
