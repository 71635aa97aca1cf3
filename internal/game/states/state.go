// Package states implements the overlay lifecycle state machine.
package states

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/game/overlay"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// Status is a lifecycle state.
type Status int

const (
	Idle Status = iota
	Starting
	Running
	Stopping
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when a command arrives while a start or stop is resolving.
	ErrBusy = errors.New("lifecycle transition in progress")
	// ErrAlreadyRunning is returned by Start while the overlay is shown.
	ErrAlreadyRunning = errors.New("overlay already running")
	// ErrNotRunning is returned by Stop while the overlay is not shown.
	ErrNotRunning = errors.New("overlay not running")
	// ErrAborted is reported when the host failed before a start resolved.
	ErrAborted = errors.New("start aborted")

	// ErrPermissionRequired is the error Start reports without overlay permission.
	ErrPermissionRequired = fmt.Errorf("start: %w", host.ErrPermissionDenied)
)

// Transition describes a status change. Err is set when the change was caused
// by a failure.
type Transition struct {
	From, To Status
	Err      error
}

// Scheduler is the looper the machine and its run loop live on.
type Scheduler interface {
	overlay.Scheduler
	Post(fn func()) looper.Token
}

// Machine drives Idle -> Starting -> Running -> Stopping -> Idle. Every method
// must be called on the scheduler's thread; outcomes of Start and Stop are
// delivered through their callbacks, posted to the same thread.
type Machine struct {
	cfg   overlay.Config
	sched Scheduler
	host  host.Overlay
	rng   *rand.Rand

	status        Status
	startGen      uint64 // bumped by every Start and by aborts
	hasPermission bool
	handle        host.Handle
	session       *overlay.Loop

	listeners []func(Transition)
	onIntent  func(gesture.Intent)
}

// NewMachine creates an idle machine.
func NewMachine(cfg overlay.Config, sched Scheduler, ov host.Overlay, hasPermission bool) *Machine {
	return &Machine{
		cfg:           cfg,
		sched:         sched,
		host:          ov,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		hasPermission: hasPermission,
	}
}

// SetRand replaces the random source handed to new sessions.
func (m *Machine) SetRand(rng *rand.Rand) {
	m.rng = rng
}

// OnTransition registers a listener for status changes.
func (m *Machine) OnTransition(fn func(Transition)) {
	m.listeners = append(m.listeners, fn)
}

// OnIntent registers a callback passed to every session's run loop.
func (m *Machine) OnIntent(fn func(gesture.Intent)) {
	m.onIntent = fn
}

// Status returns the current lifecycle state.
func (m *Machine) Status() Status { return m.status }

// HasPermission returns the last known permission state.
func (m *Machine) HasPermission() bool { return m.hasPermission }

// Session returns the active run loop, or nil unless Running.
func (m *Machine) Session() *overlay.Loop { return m.session }

// SetPermission records a permission result. It never interrupts a session.
func (m *Machine) SetPermission(granted bool) {
	if m.hasPermission != granted {
		logger.Info("overlay permission changed", zap.Bool("granted", granted), zap.Stringer("status", m.status))
	}
	m.hasPermission = granted
}

// Start requests the overlay. done receives nil once Running, or the reason
// the machine stayed in or returned to Idle.
func (m *Machine) Start(done func(error)) {
	switch m.status {
	case Idle:
	case Running:
		m.finish(done, ErrAlreadyRunning)
		return
	default:
		m.finish(done, ErrBusy)
		return
	}

	if !m.hasPermission {
		logger.Warn("start rejected: overlay permission required")
		m.finish(done, ErrPermissionRequired)
		return
	}

	m.startGen++
	gen := m.startGen
	m.setStatus(Starting, nil)
	m.sched.Post(func() {
		if m.status != Starting || gen != m.startGen {
			if done != nil {
				done(ErrAborted)
			}
			return
		}
		err := m.createSession()
		if err != nil {
			m.setStatus(Idle, err)
		} else {
			// Started first so a listener reacting to Running can stop it.
			m.session.Start()
			m.setStatus(Running, nil)
		}
		if done != nil {
			done(err)
		}
	})
}

func (m *Machine) createSession() (err error) {
	h, err := m.host.CreateWindow(m.cfg.Size)
	if err != nil {
		if host.KindOf(err) == host.KindUnclassified {
			err = host.Unavailable("create window", err)
		}
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = &host.Error{Kind: host.KindUnclassified, Op: "start", Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			m.session = nil
			if rmErr := m.host.RemoveWindow(h); rmErr != nil {
				logger.Warn("removing window after failed start", zap.Error(rmErr))
			}
		}
	}()

	w, hgt := m.host.ScreenBounds()
	if w <= 0 || hgt <= 0 {
		return &host.Error{Kind: host.KindUnclassified, Op: "start", Err: fmt.Errorf("empty screen bounds %dx%d", w, hgt)}
	}

	m.handle = h
	m.session = overlay.New(m.cfg, m.sched, m.host, h, pet.Bounds{Width: w, Height: hgt}, m.rng)
	if m.onIntent != nil {
		m.session.OnIntent(m.onIntent)
	}
	return nil
}

// Stop tears the overlay down. The run loop is cancelled before Stop returns;
// done receives the outcome of removing the window.
func (m *Machine) Stop(done func(error)) {
	switch m.status {
	case Running:
	case Idle:
		m.finish(done, ErrNotRunning)
		return
	default:
		m.finish(done, ErrBusy)
		return
	}

	m.session.Stop()
	m.setStatus(Stopping, nil)

	h := m.handle
	m.sched.Post(func() {
		err := m.host.RemoveWindow(h)
		if err != nil && host.KindOf(err) == host.KindUnclassified {
			err = host.Unavailable("remove window", err)
		}
		m.session = nil
		m.setStatus(Idle, err)
		if done != nil {
			done(err)
		}
	})
}

// HostFailed reports that the host lost the overlay unexpectedly. A Starting
// or Running machine returns straight to Idle.
func (m *Machine) HostFailed(err error) {
	if m.status != Running && m.status != Starting {
		return
	}
	if host.KindOf(err) == host.KindUnclassified {
		err = host.Unavailable("host", err)
	}
	// A start still queued must not resume after this.
	m.startGen++
	if m.session != nil {
		m.session.Stop()
		m.session = nil
		if rmErr := m.host.RemoveWindow(m.handle); rmErr != nil {
			logger.Debug("removing lost window", zap.Error(rmErr))
		}
	}
	m.setStatus(Idle, err)
}

// HandlePointer forwards a pointer event to the running session.
func (m *Machine) HandlePointer(ev gesture.PointerEvent) {
	if m.session != nil {
		m.session.HandlePointer(ev)
	}
}

func (m *Machine) finish(done func(error), err error) {
	if done == nil {
		return
	}
	m.sched.Post(func() { done(err) })
}

func (m *Machine) setStatus(to Status, err error) {
	from := m.status
	if from == to {
		return
	}
	m.status = to

	if err != nil {
		logger.Error("overlay lifecycle failed",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Error(err),
		)
	} else {
		logger.Info("overlay lifecycle", zap.Stringer("from", from), zap.Stringer("to", to))
	}

	tr := Transition{From: from, To: to, Err: err}
	for _, fn := range m.listeners {
		fn(tr)
	}
}
