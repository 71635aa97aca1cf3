package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
)

// Command is what a terminal event asks the app to do.
type Command int

const (
	CmdNone Command = iota
	CmdPointer
	CmdToggle
	CmdPermission
	CmdResize
	CmdQuit
)

// Input converts tcell events into commands. Mouse positions are reported at
// the centre of the cell under the pointer.
type Input struct {
	now     func() time.Time
	pressed bool
}

// NewInput creates a translator that stamps pointer events with now.
func NewInput(now func() time.Time) *Input {
	return &Input{now: now}
}

// Translate classifies ev. The pointer event is only meaningful for CmdPointer.
func (in *Input) Translate(ev tcell.Event) (Command, gesture.PointerEvent) {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return in.mouse(e)
	case *tcell.EventKey:
		return keyCommand(e.Key(), e.Rune()), gesture.PointerEvent{}
	case *tcell.EventResize:
		return CmdResize, gesture.PointerEvent{}
	}
	return CmdNone, gesture.PointerEvent{}
}

func (in *Input) mouse(e *tcell.EventMouse) (Command, gesture.PointerEvent) {
	down := e.Buttons()&tcell.Button1 != 0

	var kind gesture.PointerKind
	switch {
	case down && !in.pressed:
		kind = gesture.PointerDown
	case down && in.pressed:
		kind = gesture.PointerMove
	case !down && in.pressed:
		kind = gesture.PointerUp
	default:
		return CmdNone, gesture.PointerEvent{}
	}
	in.pressed = down

	x, y := e.Position()
	return CmdPointer, gesture.PointerEvent{
		Kind: kind,
		X:    float64(x*CellUnits + CellUnits/2),
		Y:    float64(y*2*CellUnits + CellUnits),
		Time: in.now(),
	}
}

func keyCommand(k tcell.Key, r rune) Command {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyEnter:
		return CmdToggle
	case tcell.KeyRune:
		switch r {
		case 'q':
			return CmdQuit
		case ' ', 's':
			return CmdToggle
		case 'p':
			return CmdPermission
		}
	}
	return CmdNone
}

// Pump reads screen events until the screen is finalised and hands each one
// to post. It blocks; run it on its own goroutine.
func Pump(screen tcell.Screen, post func(tcell.Event)) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		post(ev)
	}
}
