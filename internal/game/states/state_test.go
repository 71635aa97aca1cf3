package states

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/game/overlay"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/host/hosttest"
)

type fixture struct {
	clock *looper.ManualClock
	l     *looper.Looper
	host  *hosttest.Overlay
	m     *Machine
	trans []Transition
}

func newFixture(hasPermission bool) *fixture {
	clock := looper.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := looper.New(clock)
	ov := hosttest.New(800, 600)
	f := &fixture{clock: clock, l: l, host: ov}
	f.m = NewMachine(overlay.DefaultConfig(), l, ov, hasPermission)
	f.m.SetRand(rand.New(rand.NewSource(1)))
	f.m.OnTransition(func(tr Transition) { f.trans = append(f.trans, tr) })
	return f
}

func (f *fixture) run(d time.Duration) {
	looper.Step(f.l, f.clock, d, time.Millisecond)
}

// result captures an asynchronously delivered outcome.
type result struct {
	called bool
	err    error
}

func (r *result) done(err error) {
	r.called = true
	r.err = err
}

func TestStartWithoutPermission(t *testing.T) {
	f := newFixture(false)

	var r result
	f.m.Start(r.done)
	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
	f.run(0)

	if !r.called {
		t.Fatal("expected start outcome to be delivered")
	}
	if !errors.Is(r.err, host.ErrPermissionDenied) {
		t.Errorf("expected permission denied, got %v", r.err)
	}
	if host.KindOf(r.err) != host.KindPermissionDenied {
		t.Errorf("expected permission denied kind, got %v", host.KindOf(r.err))
	}
	if f.host.Created != 0 {
		t.Errorf("expected no window, got %d", f.host.Created)
	}
	if len(f.trans) != 0 {
		t.Errorf("expected no transitions, got %v", f.trans)
	}
}

func TestStartStopCycle(t *testing.T) {
	f := newFixture(true)

	var started result
	f.m.Start(started.done)
	if f.m.Status() != Starting {
		t.Fatalf("expected starting, got %v", f.m.Status())
	}
	if started.called {
		t.Fatal("expected outcome to be delivered asynchronously")
	}

	f.run(100 * time.Millisecond)
	if !started.called || started.err != nil {
		t.Fatalf("expected successful start, got called=%v err=%v", started.called, started.err)
	}
	if f.m.Status() != Running {
		t.Fatalf("expected running, got %v", f.m.Status())
	}
	if f.m.Session() == nil || f.host.DrawCount() == 0 {
		t.Fatal("expected a ticking session")
	}

	var stopped result
	f.m.Stop(stopped.done)
	drawsAtStop := f.host.DrawCount()
	if f.m.Status() != Stopping {
		t.Fatalf("expected stopping, got %v", f.m.Status())
	}

	f.run(time.Second)
	if !stopped.called || stopped.err != nil {
		t.Fatalf("expected successful stop, got called=%v err=%v", stopped.called, stopped.err)
	}
	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
	if f.host.Open() != 0 || f.host.Removed != 1 {
		t.Errorf("expected window removed, open=%d removed=%d", f.host.Open(), f.host.Removed)
	}
	if got := f.host.DrawCount(); got != drawsAtStop {
		t.Errorf("expected no ticks after stop, got %d more", got-drawsAtStop)
	}
	if f.m.Session() != nil {
		t.Error("expected session discarded")
	}

	want := []Status{Starting, Running, Stopping, Idle}
	if len(f.trans) != len(want) {
		t.Fatalf("expected transitions to %v, got %v", want, f.trans)
	}
	for i, s := range want {
		if f.trans[i].To != s {
			t.Errorf("transition %d: expected %v, got %v", i, s, f.trans[i].To)
		}
	}
}

func TestFreshSessionEachStart(t *testing.T) {
	f := newFixture(true)

	f.m.Start(nil)
	f.run(0)
	f.m.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerDown, X: 10, Y: 10, Time: f.clock.Now()})
	f.m.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerMove, X: 10, Y: 10, Time: f.clock.Now()})
	if got := f.m.Session().State().Position; got.X != 0 || got.Y != 0 {
		t.Fatalf("expected dragged to origin, got %v", got)
	}

	f.m.Stop(nil)
	f.run(0)
	f.m.Start(nil)
	f.run(0)

	s := f.m.Session().State()
	if s.Dragging {
		t.Error("expected fresh state not dragging")
	}
	if s.Position.X < 300 || s.Position.Y < 200 {
		t.Errorf("expected fresh centred position, got %v", s.Position)
	}
}

func TestStartWhileStartingIsBusy(t *testing.T) {
	f := newFixture(true)

	var first, second result
	f.m.Start(first.done)
	f.m.Start(second.done)
	f.run(0)

	if first.err != nil {
		t.Errorf("expected first start to succeed, got %v", first.err)
	}
	if !errors.Is(second.err, ErrBusy) {
		t.Errorf("expected busy, got %v", second.err)
	}
	if f.host.Created != 1 {
		t.Errorf("expected exactly one window, got %d", f.host.Created)
	}

	var third result
	f.m.Start(third.done)
	f.run(0)
	if !errors.Is(third.err, ErrAlreadyRunning) {
		t.Errorf("expected already running, got %v", third.err)
	}
}

func TestStopWhenIdle(t *testing.T) {
	f := newFixture(true)

	var r result
	f.m.Stop(r.done)
	f.run(0)
	if !errors.Is(r.err, ErrNotRunning) {
		t.Errorf("expected not running, got %v", r.err)
	}
}

func TestStartHostFailure(t *testing.T) {
	f := newFixture(true)
	f.host.CreateErr = errors.New("display server gone")

	var r result
	f.m.Start(r.done)
	f.run(0)

	if !errors.Is(r.err, host.ErrHostUnavailable) {
		t.Errorf("expected host unavailable, got %v", r.err)
	}
	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
	last := f.trans[len(f.trans)-1]
	if last.To != Idle || last.Err == nil {
		t.Errorf("expected failing transition to idle, got %+v", last)
	}
}

func TestStartEmptyBoundsIsUnclassified(t *testing.T) {
	f := newFixture(true)
	f.host.Width = 0

	var r result
	f.m.Start(r.done)
	f.run(0)

	if host.KindOf(r.err) != host.KindUnclassified || r.err == nil {
		t.Errorf("expected unclassified error, got %v", r.err)
	}
	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
	if f.host.Open() != 0 {
		t.Error("expected half-created window to be removed")
	}
}

func TestHostFailedWhileRunning(t *testing.T) {
	f := newFixture(true)
	f.m.Start(nil)
	f.run(50 * time.Millisecond)

	f.m.HostFailed(errors.New("window closed by user"))
	draws := f.host.DrawCount()
	f.run(time.Second)

	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
	if f.host.DrawCount() != draws {
		t.Error("expected ticks to stop after host failure")
	}
	last := f.trans[len(f.trans)-1]
	if !errors.Is(last.Err, host.ErrHostUnavailable) {
		t.Errorf("expected host unavailable transition, got %v", last.Err)
	}
}

func TestHostFailedWhileStartingAborts(t *testing.T) {
	f := newFixture(true)

	var r result
	f.m.Start(r.done)
	f.m.HostFailed(errors.New("lost display"))
	f.run(0)

	if !errors.Is(r.err, ErrAborted) {
		t.Errorf("expected aborted, got %v", r.err)
	}
	if f.host.Created != 0 || f.m.Status() != Idle {
		t.Errorf("expected no window and idle, got created=%d status=%v", f.host.Created, f.m.Status())
	}
}

func TestStopRemoveFailureStillIdle(t *testing.T) {
	f := newFixture(true)
	f.m.Start(nil)
	f.run(0)

	f.host.RemoveErr = errors.New("already gone")
	var r result
	f.m.Stop(r.done)
	f.run(0)

	if !errors.Is(r.err, host.ErrHostUnavailable) {
		t.Errorf("expected host unavailable, got %v", r.err)
	}
	if f.m.Status() != Idle {
		t.Errorf("expected idle, got %v", f.m.Status())
	}
}

func TestPermissionUpdateDoesNotInterrupt(t *testing.T) {
	f := newFixture(true)
	f.m.Start(nil)
	f.run(0)

	f.m.SetPermission(false)
	f.run(100 * time.Millisecond)
	if f.m.Status() != Running {
		t.Errorf("expected session to keep running, got %v", f.m.Status())
	}

	f.m.Stop(nil)
	f.run(0)
	var r result
	f.m.Start(r.done)
	f.run(0)
	if !errors.Is(r.err, host.ErrPermissionDenied) {
		t.Errorf("expected revoked permission to block next start, got %v", r.err)
	}

	f.m.SetPermission(true)
	f.m.Start(nil)
	f.run(0)
	if f.m.Status() != Running {
		t.Errorf("expected running after grant, got %v", f.m.Status())
	}
}

func TestStopFromRunningListener(t *testing.T) {
	f := newFixture(true)
	f.m.OnTransition(func(tr Transition) {
		if tr.To == Running {
			f.m.Stop(nil)
		}
	})

	f.m.Start(nil)
	f.run(100 * time.Millisecond)

	if f.m.Status() != Idle {
		t.Fatalf("expected idle, got %v", f.m.Status())
	}
	if f.host.Open() != 0 {
		t.Errorf("expected window removed, %d open", f.host.Open())
	}
	if f.l.Len() != 0 {
		t.Errorf("expected no pending ticks, got %d tasks", f.l.Len())
	}
}

func TestRestartAfterAbortedStart(t *testing.T) {
	f := newFixture(true)

	var first, second result
	f.m.Start(first.done)
	f.m.HostFailed(errors.New("display lost"))
	f.m.Start(second.done)
	f.run(0)

	if !errors.Is(first.err, ErrAborted) {
		t.Errorf("expected aborted first start, got %v", first.err)
	}
	if !second.called || second.err != nil {
		t.Errorf("expected second start to succeed, got called=%v err=%v", second.called, second.err)
	}
	if f.m.Status() != Running {
		t.Errorf("expected running, got %v", f.m.Status())
	}
	if f.host.Created != 1 {
		t.Errorf("expected one window, got %d", f.host.Created)
	}
}
