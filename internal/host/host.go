// Package host defines the collaborators the pet engine drives: the overlay
// window owner and the permission provider.
package host

import (
	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
)

// Handle identifies a window created by an Overlay.
type Handle uint64

// Overlay owns the top-level transparent window the pet is drawn in.
type Overlay interface {
	// CreateWindow shows a size by size window for the sprite.
	CreateWindow(size int) (Handle, error)
	// MoveAndRedraw moves the window's top-left to (x, y) and draws frame.
	MoveAndRedraw(h Handle, x, y float64, frame sprite.FrameSpec) error
	// RemoveWindow tears the window down. The handle is invalid afterwards.
	RemoveWindow(h Handle) error
	// ScreenBounds returns the usable screen size in overlay units.
	ScreenBounds() (width, height int)
}

// PermissionProvider answers whether the overlay may be shown.
type PermissionProvider interface {
	HasOverlayPermission() bool
	// RequestPermission asks the user out of band. onResult is called once,
	// on the looper thread, with the outcome.
	RequestPermission(onResult func(granted bool))
}

// StaticPermission is a PermissionProvider with a fixed answer.
type StaticPermission bool

// HasOverlayPermission returns the fixed answer.
func (p StaticPermission) HasOverlayPermission() bool { return bool(p) }

// RequestPermission reports the fixed answer immediately.
func (p StaticPermission) RequestPermission(onResult func(granted bool)) { onResult(bool(p)) }
