// Package overlay runs the pet while its window is shown: the fixed-rate tick
// that steps physics, picks a frame and pushes both to the host.
package overlay

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/engine/physics"
	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
	"github.com/Faultbox/overlay-pet/internal/game/interaction"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/pet"
	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// DefaultTickInterval gives roughly 60 ticks per second.
const DefaultTickInterval = 16 * time.Millisecond

// Scheduler is the timer facility of the thread that owns the loop.
type Scheduler interface {
	Now() time.Time
	PostDelayed(d time.Duration, fn func()) looper.Token
	Remove(tok looper.Token) bool
}

// Config holds per-session settings.
type Config struct {
	Size         int
	TickInterval time.Duration
	FlingDivisor float64
	Gesture      gesture.Config
	StartAt      *pmath.Vec2 // nil centres the pet
}

// DefaultConfig returns the standard session settings.
func DefaultConfig() Config {
	return Config{
		Size:         pet.DefaultSize,
		TickInterval: DefaultTickInterval,
		FlingDivisor: interaction.DefaultFlingDivisor,
		Gesture:      gesture.DefaultConfig(),
	}
}

// Loop owns the sprite state for one overlay session. All methods must be
// called on the scheduler's thread.
type Loop struct {
	cfg    Config
	sched  Scheduler
	host   host.Overlay
	handle host.Handle
	bounds pet.Bounds
	size   float64

	state      pet.State
	classifier *gesture.Classifier
	controller *interaction.Controller

	running  bool
	token    looper.Token
	ticks    uint64
	failures int // consecutive failed redraws

	onIntent func(gesture.Intent)
}

// New creates a stopped loop for an already created window.
func New(cfg Config, sched Scheduler, ov host.Overlay, h host.Handle, bounds pet.Bounds, rng interaction.Rand) *Loop {
	if cfg.Size <= 0 {
		cfg.Size = pet.DefaultSize
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	size := float64(cfg.Size)

	state := pet.NewState(bounds, size)
	if cfg.StartAt != nil {
		state = pet.NewStateAt(bounds, size, *cfg.StartAt)
	}

	ctrl := interaction.New(bounds, size, rng)
	ctrl.SetFlingDivisor(cfg.FlingDivisor)

	return &Loop{
		cfg:        cfg,
		sched:      sched,
		host:       ov,
		handle:     h,
		bounds:     bounds,
		size:       size,
		state:      state,
		classifier: gesture.NewClassifier(cfg.Gesture),
		controller: ctrl,
	}
}

// OnIntent registers a callback invoked after each intent is applied.
func (l *Loop) OnIntent(fn func(gesture.Intent)) {
	l.onIntent = fn
}

// Start schedules the first tick immediately.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.token = l.sched.PostDelayed(0, l.tick)
	logger.Debug("run loop started",
		zap.Int("width", l.bounds.Width),
		zap.Int("height", l.bounds.Height),
		zap.Duration("interval", l.cfg.TickInterval),
	)
}

// Stop cancels the pending tick. No tick runs after Stop returns.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.sched.Remove(l.token)
	l.classifier.Reset()
	logger.Debug("run loop stopped", zap.Uint64("ticks", l.ticks))
}

// Running reports whether ticks are being scheduled.
func (l *Loop) Running() bool { return l.running }

// State returns a copy of the current sprite state.
func (l *Loop) State() pet.State { return l.state }

// Bounds returns the session's screen bounds.
func (l *Loop) Bounds() pet.Bounds { return l.bounds }

// Ticks returns the number of ticks executed.
func (l *Loop) Ticks() uint64 { return l.ticks }

// HandlePointer classifies a raw pointer event and applies the resulting
// intents right away.
func (l *Loop) HandlePointer(ev gesture.PointerEvent) {
	if !l.running {
		return
	}
	l.apply(l.classifier.Feed(ev))
}

func (l *Loop) apply(intents []gesture.Intent) {
	for _, in := range intents {
		l.controller.Apply(in, &l.state)
		if in.Kind != gesture.IntentDragTo {
			logger.Debug("gesture", zap.Stringer("intent", in))
		}
		if l.onIntent != nil {
			l.onIntent(in)
		}
	}
}

func (l *Loop) tick() {
	if !l.running {
		return
	}

	l.apply(l.classifier.Expire(l.sched.Now()))

	l.state = physics.Step(l.state, l.bounds, l.size)
	frame := sprite.FrameFor(l.state.Phase)
	l.redraw(frame)
	l.ticks++

	// A callback above may have stopped the loop.
	if l.running {
		l.token = l.sched.PostDelayed(l.cfg.TickInterval, l.tick)
	}
}

func (l *Loop) redraw(frame sprite.FrameSpec) {
	err := l.host.MoveAndRedraw(l.handle, l.state.Position.X, l.state.Position.Y, frame)
	if err == nil {
		if l.failures > 0 {
			logger.Info("overlay redraw recovered", zap.Int("skipped", l.failures))
		}
		l.failures = 0
		return
	}

	l.failures++
	if l.failures == 1 {
		logger.Warn("overlay redraw failed, skipping tick", zap.Error(err))
	} else {
		logger.Debug("overlay redraw failed", zap.Int("streak", l.failures), zap.Error(err))
	}
}
