package pet

import (
	"testing"

	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

func TestPhaseNext(t *testing.T) {
	tests := []struct {
		in, want Phase
	}{
		{PhaseIdle, PhaseWalk},
		{PhaseWalk, PhaseHappy},
		{PhaseHappy, PhaseIdle},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewStateCentred(t *testing.T) {
	s := NewState(Bounds{Width: 800, Height: 600}, DefaultSize)

	want := pmath.Vec2{X: 340, Y: 240}
	if s.Position != want {
		t.Errorf("expected position %v, got %v", want, s.Position)
	}
	if s.Phase != PhaseIdle || s.PhaseTicks != 0 {
		t.Errorf("expected fresh idle phase, got %v/%d", s.Phase, s.PhaseTicks)
	}
	if s.Dragging {
		t.Error("expected fresh state not to be dragging")
	}
}

func TestNewStateAtClamps(t *testing.T) {
	s := NewStateAt(Bounds{Width: 800, Height: 600}, DefaultSize, pmath.Vec2{X: 100, Y: 5000})
	want := pmath.Vec2{X: 100, Y: 480}
	if s.Position != want {
		t.Errorf("expected position %v, got %v", want, s.Position)
	}
}

func TestBoundsSmallerThanSprite(t *testing.T) {
	b := Bounds{Width: 50, Height: 50}
	if m := b.Max(DefaultSize); m != (pmath.Vec2{}) {
		t.Errorf("expected zero max for tiny screen, got %v", m)
	}
	if !b.Contains(pmath.Vec2{}, DefaultSize) {
		t.Error("expected origin to be contained in tiny screen")
	}
}
