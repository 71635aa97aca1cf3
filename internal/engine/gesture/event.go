// Package gesture turns raw pointer events into discrete gesture intents.
package gesture

import (
	"fmt"
	"time"

	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// PointerKind identifies a raw pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return fmt.Sprintf("pointer(%d)", int(k))
	}
}

// PointerEvent is a raw pointer sample in absolute screen coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
	Time time.Time
}

// Point returns the event position.
func (e PointerEvent) Point() pmath.Vec2 {
	return pmath.Vec2{X: e.X, Y: e.Y}
}

// IntentKind enumerates the closed set of gesture intents.
type IntentKind int

const (
	IntentPressStart IntentKind = iota
	IntentDragTo
	IntentPressEnd
	IntentSingleTap
	IntentDoubleTap
	IntentFling
)

func (k IntentKind) String() string {
	switch k {
	case IntentPressStart:
		return "press-start"
	case IntentDragTo:
		return "drag-to"
	case IntentPressEnd:
		return "press-end"
	case IntentSingleTap:
		return "single-tap"
	case IntentDoubleTap:
		return "double-tap"
	case IntentFling:
		return "fling"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is a classified gesture.
//
// X and Y carry the pointer coordinates for DragTo and the release velocity in
// units per second for Fling. They are zero for every other kind.
type Intent struct {
	Kind IntentKind
	X, Y float64
}

// PressStart returns a PressStart intent.
func PressStart() Intent { return Intent{Kind: IntentPressStart} }

// DragTo returns a DragTo intent for the given pointer coordinates.
func DragTo(x, y float64) Intent { return Intent{Kind: IntentDragTo, X: x, Y: y} }

// PressEnd returns a PressEnd intent.
func PressEnd() Intent { return Intent{Kind: IntentPressEnd} }

// SingleTap returns a SingleTap intent.
func SingleTap() Intent { return Intent{Kind: IntentSingleTap} }

// DoubleTap returns a DoubleTap intent.
func DoubleTap() Intent { return Intent{Kind: IntentDoubleTap} }

// Fling returns a Fling intent with velocity in units per second.
func Fling(vx, vy float64) Intent { return Intent{Kind: IntentFling, X: vx, Y: vy} }

func (i Intent) String() string {
	switch i.Kind {
	case IntentDragTo, IntentFling:
		return fmt.Sprintf("%s(%.1f, %.1f)", i.Kind, i.X, i.Y)
	default:
		return i.Kind.String()
	}
}
