package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got := (Vec2{0, 0}).Distance(v); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestVec2Scale(t *testing.T) {
	got := Vec2{400, -200}.Scale(1.0 / 200)
	want := Vec2{2, -1}
	if got != want {
		t.Errorf("Vec2.Scale() = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
		// Degenerate range (screen smaller than sprite) collapses to lo.
		{3, 0, -20, 0},
	}

	for _, tt := range tests {
		if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestVec2Clamp(t *testing.T) {
	got := Vec2{-5, 900}.Clamp(Vec2{0, 0}, Vec2{680, 480})
	want := Vec2{0, 480}
	if got != want {
		t.Errorf("Vec2.Clamp() = %v, want %v", got, want)
	}
}
