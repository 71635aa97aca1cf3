package gesture

import (
	"math"
	"time"

	pmath "github.com/Faultbox/overlay-pet/pkg/math"
)

// Config holds the disambiguation thresholds.
type Config struct {
	TapTimeout       time.Duration // longest Down->Up that can still be a tap
	DoubleTapTimeout time.Duration // how long a tap waits for a second Down
	TouchSlop        float64       // movement that turns a tap into a drag
	DoubleTapSlop    float64       // max distance between the two Downs of a double tap
	MinFlingVelocity float64       // units per second
	MaxFlingVelocity float64       // units per second, per axis
	VelocityWindow   time.Duration // samples older than this are ignored for flings
}

// DefaultConfig returns thresholds close to common touch platform defaults.
func DefaultConfig() Config {
	return Config{
		TapTimeout:       300 * time.Millisecond,
		DoubleTapTimeout: 300 * time.Millisecond,
		TouchSlop:        8,
		DoubleTapSlop:    100,
		MinFlingVelocity: 200,
		MaxFlingVelocity: 8000,
		VelocityWindow:   100 * time.Millisecond,
	}
}

const maxSamples = 32

type sample struct {
	pos pmath.Vec2
	t   time.Time
}

// Classifier is a single-pointer gesture recogniser. It is not safe for
// concurrent use; feed it from the thread that owns the sprite state.
type Classifier struct {
	cfg Config

	pressed     bool
	down        PointerEvent
	inTapRegion bool
	inDoubleTap bool
	samples     []sample

	// provisional tap waiting for a possible second Down
	tapPending bool
	tapDown    PointerEvent
	tapUpAt    time.Time
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		cfg:     cfg,
		samples: make([]sample, 0, maxSamples),
	}
}

// Pressed reports whether a pointer is currently down.
func (c *Classifier) Pressed() bool {
	return c.pressed
}

// TapPending reports whether a tap is waiting for the double-tap timeout.
func (c *Classifier) TapPending() bool {
	return c.tapPending
}

// Reset drops any gesture in progress without emitting intents.
func (c *Classifier) Reset() {
	c.pressed = false
	c.inTapRegion = false
	c.inDoubleTap = false
	c.tapPending = false
	c.samples = c.samples[:0]
}

// Feed classifies one pointer event. It returns the intents it produced, in the
// order they must be applied.
func (c *Classifier) Feed(ev PointerEvent) []Intent {
	switch ev.Kind {
	case PointerDown:
		return c.onDown(ev)
	case PointerMove:
		return c.onMove(ev)
	case PointerUp:
		return c.onUp(ev)
	}
	return nil
}

// Expire resolves a pending tap into SingleTap once its double-tap window has
// passed. Call it regularly, e.g. once per tick.
func (c *Classifier) Expire(now time.Time) []Intent {
	if c.tapPending && now.Sub(c.tapUpAt) > c.cfg.DoubleTapTimeout {
		c.tapPending = false
		return []Intent{SingleTap()}
	}
	return nil
}

func (c *Classifier) onDown(ev PointerEvent) []Intent {
	var out []Intent

	if c.tapPending {
		c.tapPending = false
		if c.isDoubleTap(ev) {
			c.inDoubleTap = true
			out = append(out, PressStart(), DoubleTap())
		} else {
			// The earlier tap is settled before the new press begins.
			out = append(out, SingleTap(), PressStart())
		}
	} else {
		out = append(out, PressStart())
	}

	c.pressed = true
	c.down = ev
	c.inTapRegion = true
	c.samples = c.samples[:0]
	c.record(ev)
	return out
}

func (c *Classifier) onMove(ev PointerEvent) []Intent {
	if !c.pressed {
		return nil
	}
	c.record(ev)
	c.trackSlop(ev)
	return []Intent{DragTo(ev.X, ev.Y)}
}

func (c *Classifier) onUp(ev PointerEvent) []Intent {
	if !c.pressed {
		return nil
	}
	c.pressed = false
	c.record(ev)
	c.trackSlop(ev)

	out := []Intent{PressEnd()}

	if c.inDoubleTap {
		c.inDoubleTap = false
		return out
	}

	if vx, vy, ok := c.flingVelocity(); ok {
		return append(out, Fling(vx, vy))
	}

	if c.inTapRegion && ev.Time.Sub(c.down.Time) <= c.cfg.TapTimeout {
		c.tapPending = true
		c.tapDown = c.down
		c.tapUpAt = ev.Time
	}
	return out
}

func (c *Classifier) isDoubleTap(ev PointerEvent) bool {
	if ev.Time.Sub(c.tapUpAt) > c.cfg.DoubleTapTimeout {
		return false
	}
	return ev.Point().Distance(c.tapDown.Point()) <= c.cfg.DoubleTapSlop
}

func (c *Classifier) trackSlop(ev PointerEvent) {
	if ev.Point().Distance(c.down.Point()) > c.cfg.TouchSlop {
		c.inTapRegion = false
	}
}

func (c *Classifier) record(ev PointerEvent) {
	if len(c.samples) == maxSamples {
		copy(c.samples, c.samples[1:])
		c.samples = c.samples[:maxSamples-1]
	}
	c.samples = append(c.samples, sample{pos: ev.Point(), t: ev.Time})
}

// flingVelocity measures the release velocity over the velocity window and
// reports whether it is fast enough to count as a fling.
func (c *Classifier) flingVelocity() (vx, vy float64, ok bool) {
	if len(c.samples) < 2 {
		return 0, 0, false
	}
	last := c.samples[len(c.samples)-1]

	first := last
	for i := len(c.samples) - 2; i >= 0; i-- {
		if last.t.Sub(c.samples[i].t) > c.cfg.VelocityWindow {
			break
		}
		first = c.samples[i]
	}

	dt := last.t.Sub(first.t).Seconds()
	if dt <= 0 {
		return 0, 0, false
	}

	d := last.pos.Sub(first.pos)
	vx = clampAbs(d.X/dt, c.cfg.MaxFlingVelocity)
	vy = clampAbs(d.Y/dt, c.cfg.MaxFlingVelocity)
	if math.Abs(vx) < c.cfg.MinFlingVelocity && math.Abs(vy) < c.cfg.MinFlingVelocity {
		return 0, 0, false
	}
	return vx, vy, true
}

func clampAbs(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Max(-limit, math.Min(limit, v))
}
