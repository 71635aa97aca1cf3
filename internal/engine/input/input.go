// Package input turns SDL2 events into pet pointer events and app commands.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowClosed
	EventKeyDown
	EventPointer
)

// Event represents a processed input event.
type Event struct {
	Type     EventType
	Key      sdl.Scancode
	WindowID uint32
	Pointer  gesture.PointerEvent
}

// Input polls SDL and reports pointer events in display coordinates. Pointer
// positions come from the global mouse state, so they stay correct while the
// pet window moves under the cursor.
type Input struct {
	events  []Event
	now     func() time.Time
	mouse   func() (int32, int32)
	originX int32
	originY int32
	pressed bool
}

// New creates an input handler. now stamps pointer events.
func New(now func() time.Time) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		now:    now,
		mouse: func() (int32, int32) {
			x, y, _ := sdl.GetGlobalMouseState()
			return x, y
		},
	}
}

// SetOrigin sets the top-left corner of the pet's display in global
// coordinates.
func (i *Input) SetOrigin(x, y int32) {
	i.originX, i.originY = x, y
}

// Update polls SDL events. It returns true if the app should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_CLOSE {
			i.events = append(i.events, Event{Type: EventWindowClosed, WindowID: e.WindowID})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			i.events = append(i.events, Event{
				Type:     EventKeyDown,
				Key:      e.Keysym.Scancode,
				WindowID: e.WindowID,
			})
		}

	case *sdl.MouseMotionEvent:
		if i.pressed {
			i.pointer(gesture.PointerMove, e.WindowID)
		}

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			break
		}
		if e.Type == sdl.MOUSEBUTTONDOWN && !i.pressed {
			i.pressed = true
			sdl.CaptureMouse(true)
			i.pointer(gesture.PointerDown, e.WindowID)
		} else if e.Type == sdl.MOUSEBUTTONUP && i.pressed {
			i.pressed = false
			sdl.CaptureMouse(false)
			i.pointer(gesture.PointerUp, e.WindowID)
		}
	}
	return false
}

func (i *Input) pointer(kind gesture.PointerKind, windowID uint32) {
	x, y := i.mouse()
	i.events = append(i.events, Event{
		Type:     EventPointer,
		WindowID: windowID,
		Pointer: gesture.PointerEvent{
			Kind: kind,
			X:    float64(x - i.originX),
			Y:    float64(y - i.originY),
			Time: i.now(),
		},
	})
}
