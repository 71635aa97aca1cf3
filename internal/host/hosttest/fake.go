// Package hosttest provides an in-memory host.Overlay for tests.
package hosttest

import (
	"errors"
	"sync"

	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// ErrNoWindow is returned for operations on an unknown handle.
var ErrNoWindow = errors.New("no such window")

// Draw records one MoveAndRedraw call.
type Draw struct {
	Handle host.Handle
	X, Y   float64
	Phase  pet.Phase
}

// Overlay is a fake host.Overlay. Set the Err fields to make calls fail.
type Overlay struct {
	mu sync.Mutex

	Width, Height int

	CreateErr error
	MoveErr   error
	RemoveErr error

	next    host.Handle
	open    map[host.Handle]int
	Draws   []Draw
	Created int
	Removed int
}

// New creates a fake overlay for a width by height screen.
func New(width, height int) *Overlay {
	return &Overlay{
		Width:  width,
		Height: height,
		open:   make(map[host.Handle]int),
	}
}

// CreateWindow implements host.Overlay.
func (o *Overlay) CreateWindow(size int) (host.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.CreateErr != nil {
		return 0, o.CreateErr
	}
	o.next++
	o.open[o.next] = size
	o.Created++
	return o.next, nil
}

// MoveAndRedraw implements host.Overlay. Calls on a removed handle fail.
func (o *Overlay) MoveAndRedraw(h host.Handle, x, y float64, frame sprite.FrameSpec) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.open[h]; !ok {
		return host.Unavailable("move", ErrNoWindow)
	}
	if o.MoveErr != nil {
		return o.MoveErr
	}
	o.Draws = append(o.Draws, Draw{Handle: h, X: x, Y: y, Phase: frame.Phase})
	return nil
}

// RemoveWindow implements host.Overlay.
func (o *Overlay) RemoveWindow(h host.Handle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.open[h]; !ok {
		return host.Unavailable("remove", ErrNoWindow)
	}
	delete(o.open, h)
	o.Removed++
	return o.RemoveErr
}

// ScreenBounds implements host.Overlay.
func (o *Overlay) ScreenBounds() (int, int) {
	return o.Width, o.Height
}

// Open returns the number of windows currently shown.
func (o *Overlay) Open() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.open)
}

// DrawCount returns the number of successful redraws.
func (o *Overlay) DrawCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Draws)
}

// LastDraw returns the most recent redraw.
func (o *Overlay) LastDraw() (Draw, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Draws) == 0 {
		return Draw{}, false
	}
	return o.Draws[len(o.Draws)-1], true
}

// Permission is a PermissionProvider whose request outcome is set by the test.
type Permission struct {
	Granted  bool
	Answer   bool
	Requests int
}

// HasOverlayPermission implements host.PermissionProvider.
func (p *Permission) HasOverlayPermission() bool { return p.Granted }

// RequestPermission implements host.PermissionProvider. It grants Answer.
func (p *Permission) RequestPermission(onResult func(bool)) {
	p.Requests++
	p.Granted = p.Answer
	onResult(p.Answer)
}
