// Package app is the control surface around the overlay: the start/stop
// button, permission handling and user-facing messages.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/game/states"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/logger"
)

// Button labels.
const (
	StartText = "Start Pet"
	StopText  = "Stop Pet"
)

// User-facing messages.
const (
	MsgStarted            = "Pet started!"
	MsgStopped            = "Pet stopped!"
	MsgPermissionGranted  = "Overlay permission granted!"
	MsgPermissionNeeded   = "Overlay permission is needed to use the pet"
	MsgPermissionRequired = "overlay permission required to show the pet"
	MsgPermissionRequest  = "could not request permission"
)

// State is what the control surface shows.
type State struct {
	ServiceRunning       bool
	Loading              bool
	HasOverlayPermission bool
	ButtonText           string
	Error                string // empty when there is nothing to report
}

// EventKind identifies a one-shot event.
type EventKind int

const (
	ShowToast EventKind = iota
	ShowPermissionDialog
	RequestOverlayPermission
)

func (k EventKind) String() string {
	switch k {
	case ShowToast:
		return "show_toast"
	case ShowPermissionDialog:
		return "show_permission_dialog"
	case RequestOverlayPermission:
		return "request_overlay_permission"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is delivered once to every event listener. Message is only set for
// ShowToast.
type Event struct {
	Kind    EventKind
	Message string
}

// Controller turns user actions into lifecycle commands and keeps State in
// sync with the machine. It lives on the machine's thread.
type Controller struct {
	machine *states.Machine
	perm    host.PermissionProvider

	state        State
	onState      []func(State)
	onEvent      []func(Event)
	onPermission func(bool)
}

// New creates a controller and checks the current permission.
func New(machine *states.Machine, perm host.PermissionProvider) *Controller {
	c := &Controller{
		machine: machine,
		perm:    perm,
		state:   State{ButtonText: StartText},
	}
	machine.OnTransition(c.onTransition)
	c.CheckPermission()
	return c
}

// State returns the current control surface state.
func (c *Controller) State() State { return c.state }

// OnStateChange registers a listener called after every state change.
func (c *Controller) OnStateChange(fn func(State)) {
	c.onState = append(c.onState, fn)
}

// OnEvent registers a listener for one-shot events.
func (c *Controller) OnEvent(fn func(Event)) {
	c.onEvent = append(c.onEvent, fn)
}

// OnPermission registers a hook called with every permission result.
func (c *Controller) OnPermission(fn func(granted bool)) {
	c.onPermission = fn
}

// Toggle starts a stopped pet and stops a running one.
func (c *Controller) Toggle() {
	if c.state.ServiceRunning {
		c.Stop()
	} else {
		c.Start()
	}
}

// Start shows the pet.
func (c *Controller) Start() {
	c.setLoading()
	c.machine.Start(func(err error) {
		if err == nil {
			c.update(func(s *State) {
				s.ServiceRunning = true
				s.Loading = false
				s.ButtonText = StopText
				s.Error = ""
			})
			c.toast(MsgStarted)
			return
		}

		switch {
		case errors.Is(err, host.ErrPermissionDenied):
			c.update(func(s *State) {
				s.Loading = false
				s.Error = MsgPermissionRequired
			})
			c.emit(Event{Kind: ShowPermissionDialog})
		case errors.Is(err, states.ErrAlreadyRunning):
			c.update(func(s *State) {
				s.ServiceRunning = true
				s.Loading = false
				s.ButtonText = StopText
			})
		default:
			c.update(func(s *State) {
				s.Loading = false
				s.Error = "could not start pet: " + err.Error()
			})
			c.toast("error: " + err.Error())
		}
	})
}

// Stop hides the pet.
func (c *Controller) Stop() {
	c.setLoading()
	c.machine.Stop(func(err error) {
		if err == nil || errors.Is(err, states.ErrNotRunning) {
			c.update(func(s *State) {
				s.ServiceRunning = false
				s.Loading = false
				s.ButtonText = StartText
				s.Error = ""
			})
			if err == nil {
				c.toast(MsgStopped)
			}
			return
		}

		c.update(func(s *State) {
			s.ServiceRunning = c.machine.Status() == states.Running
			s.Loading = false
			if !s.ServiceRunning {
				s.ButtonText = StartText
			}
			s.Error = "could not stop pet: " + err.Error()
		})
		c.toast("error: " + err.Error())
	})
}

// CheckPermission re-reads the permission from the provider.
func (c *Controller) CheckPermission() {
	c.setLoading()
	granted := c.perm.HasOverlayPermission()
	c.machine.SetPermission(granted)
	c.update(func(s *State) {
		s.HasOverlayPermission = granted
		s.Loading = false
	})
}

// RequestPermission asks the provider for overlay permission. The provider
// must invoke its callback on the controller's thread.
func (c *Controller) RequestPermission() {
	c.setLoading()
	c.emit(Event{Kind: RequestOverlayPermission})

	defer func() {
		if r := recover(); r != nil {
			logger.Error("permission request failed", zap.Any("panic", r))
			c.update(func(s *State) {
				s.Loading = false
				s.Error = MsgPermissionRequest
			})
			c.toast(MsgPermissionRequest)
		}
	}()
	c.perm.RequestPermission(c.OnPermissionResult)
}

// OnPermissionResult records the answer to a permission request.
func (c *Controller) OnPermissionResult(granted bool) {
	c.machine.SetPermission(granted)
	c.update(func(s *State) {
		s.HasOverlayPermission = granted
		s.Loading = false
	})
	if c.onPermission != nil {
		c.onPermission(granted)
	}
	if granted {
		c.toast(MsgPermissionGranted)
	} else {
		c.toast(MsgPermissionNeeded)
	}
}

// ClearError dismisses the current error.
func (c *Controller) ClearError() {
	c.update(func(s *State) { s.Error = "" })
}

// OnPointerEvent forwards pointer input to the running pet.
func (c *Controller) OnPointerEvent(ev gesture.PointerEvent) {
	c.machine.HandlePointer(ev)
}

// HostFailed reports that the host lost the overlay.
func (c *Controller) HostFailed(err error) {
	c.machine.HostFailed(err)
}

func (c *Controller) onTransition(tr states.Transition) {
	if tr.To != states.Idle || tr.From == states.Stopping || tr.Err == nil || !c.state.ServiceRunning {
		return
	}
	// The overlay went away without a Stop.
	c.update(func(s *State) {
		s.ServiceRunning = false
		s.Loading = false
		s.ButtonText = StartText
		s.Error = "pet stopped: " + tr.Err.Error()
	})
	c.toast("error: " + tr.Err.Error())
}

func (c *Controller) setLoading() {
	c.update(func(s *State) {
		s.Loading = true
		s.Error = ""
	})
}

func (c *Controller) update(fn func(*State)) {
	prev := c.state
	fn(&c.state)
	if c.state == prev {
		return
	}
	for _, l := range c.onState {
		l(c.state)
	}
}

func (c *Controller) toast(msg string) {
	c.emit(Event{Kind: ShowToast, Message: msg})
}

func (c *Controller) emit(ev Event) {
	logger.Debug("app event", zap.Stringer("kind", ev.Kind), zap.String("message", ev.Message))
	for _, l := range c.onEvent {
		l(ev)
	}
}
