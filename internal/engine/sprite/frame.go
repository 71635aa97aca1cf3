// Package sprite describes the pet's animation frames as geometric primitives
// and rasterises them.
package sprite

import (
	"image/color"

	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// DesignSize is the edge length of the grid the frames are authored in.
// Rasterising at another size scales every primitive uniformly.
const DesignSize = pet.DefaultSize

// ShapeKind selects how a Shape is drawn.
type ShapeKind int

const (
	// ShapeEllipse is a full ellipse, filled or stroked.
	ShapeEllipse ShapeKind = iota
	// ShapeArc is an open elliptical arc, always stroked.
	ShapeArc
)

// Shape is one primitive of a frame.
//
// Angles are in degrees; 0 points along +X and positive sweeps run clockwise on
// screen (Y grows downwards).
type Shape struct {
	Kind        ShapeKind
	Center      pmath.Vec2
	RadiusX     float64
	RadiusY     float64
	StartDeg    float64
	SweepDeg    float64
	StrokeWidth float64 // 0 fills the ellipse
	Color       color.RGBA
}

// FrameSpec is a complete frame in DesignSize units, painted in order.
type FrameSpec struct {
	Phase  pet.Phase
	Shapes []Shape
}

// Palette.
var (
	BodyColor  = color.RGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}
	EyeColor   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	InkColor   = color.RGBA{A: 0xFF}
	ClearColor = color.RGBA{}
)

const (
	center     = DesignSize / 2
	bodyRadius = 80.0 / 3
	eyeOffsetX = 10
	eyeRadius  = 6
	pupilSize  = 3
	lineWidth  = 2
)

var frames = [...]FrameSpec{
	pet.PhaseIdle: {
		Phase: pet.PhaseIdle,
		Shapes: append([]Shape{
			circle(center, center, bodyRadius, BodyColor),
		}, append(eyes(center-8), Shape{
			Kind:        ShapeArc,
			Center:      pmath.Vec2{X: center, Y: center + 6},
			RadiusX:     8,
			RadiusY:     6,
			StartDeg:    0,
			SweepDeg:    180,
			StrokeWidth: lineWidth,
			Color:       InkColor,
		})...),
	},
	pet.PhaseWalk: {
		Phase: pet.PhaseWalk,
		Shapes: append([]Shape{{
			Kind:    ShapeEllipse,
			Center:  pmath.Vec2{X: center, Y: center},
			RadiusX: bodyRadius * 1.1,
			RadiusY: bodyRadius * 0.9,
			Color:   BodyColor,
		}}, eyes(center-5)...),
	},
	pet.PhaseHappy: {
		Phase: pet.PhaseHappy,
		Shapes: []Shape{
			circle(center, center-3, bodyRadius, BodyColor),
			happyEye(center - eyeOffsetX),
			happyEye(center + eyeOffsetX),
		},
	},
}

// FrameFor returns the frame drawn for a phase. Unknown phases fall back to idle.
// The returned Shapes slice is shared and must not be modified.
func FrameFor(phase pet.Phase) FrameSpec {
	if phase < 0 || int(phase) >= len(frames) {
		return frames[pet.PhaseIdle]
	}
	return frames[phase]
}

func circle(x, y, r float64, c color.RGBA) Shape {
	return Shape{
		Kind:    ShapeEllipse,
		Center:  pmath.Vec2{X: x, Y: y},
		RadiusX: r,
		RadiusY: r,
		Color:   c,
	}
}

// eyes returns white eyes with pupils at the given height.
func eyes(y float64) []Shape {
	return []Shape{
		circle(center-eyeOffsetX, y, eyeRadius, EyeColor),
		circle(center+eyeOffsetX, y, eyeRadius, EyeColor),
		circle(center-eyeOffsetX, y, pupilSize, InkColor),
		circle(center+eyeOffsetX, y, pupilSize, InkColor),
	}
}

func happyEye(x float64) Shape {
	return Shape{
		Kind:        ShapeArc,
		Center:      pmath.Vec2{X: x, Y: center - 10},
		RadiusX:     5,
		RadiusY:     5,
		StartDeg:    30,
		SweepDeg:    120,
		StrokeWidth: lineWidth,
		Color:       InkColor,
	}
}
