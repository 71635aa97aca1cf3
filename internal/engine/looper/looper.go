// Package looper is a single-threaded task queue: the pet's equivalent of a UI
// main thread. Any goroutine may post work; only the owner goroutine runs it.
package looper

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Token identifies a posted task so it can be removed before it runs.
type Token uint64

// Looper runs posted tasks in deadline order on the goroutine that calls
// RunPending or Run.
type Looper struct {
	clock Clock

	mu    sync.Mutex
	queue taskQueue
	seq   uint64
	wake  chan struct{}
}

// New creates a looper driven by clock. A nil clock uses wall time.
func New(clock Clock) *Looper {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Looper{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Now returns the looper's current time.
func (l *Looper) Now() time.Time {
	return l.clock.Now()
}

// Post queues fn to run as soon as possible.
func (l *Looper) Post(fn func()) Token {
	return l.PostDelayed(0, fn)
}

// PostDelayed queues fn to run once d has elapsed.
func (l *Looper) PostDelayed(d time.Duration, fn func()) Token {
	l.mu.Lock()
	l.seq++
	t := &task{
		token:    Token(l.seq),
		deadline: l.clock.Now().Add(d),
		seq:      l.seq,
		fn:       fn,
	}
	heap.Push(&l.queue, t)
	l.mu.Unlock()

	l.signal()
	return t.token
}

// Remove drops a queued task. It reports whether the task was still queued.
func (l *Looper) Remove(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, t := range l.queue {
		if t.token == tok {
			heap.Remove(&l.queue, i)
			return true
		}
	}
	return false
}

// Len returns the number of queued tasks.
func (l *Looper) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// NextDeadline returns when the earliest queued task becomes due.
func (l *Looper) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].deadline, true
}

// RunPending runs every task that is due now, including tasks that those tasks
// post with no delay. It returns the number of tasks run.
func (l *Looper) RunPending() int {
	n := 0
	for {
		now := l.clock.Now()

		l.mu.Lock()
		if len(l.queue) == 0 || l.queue[0].deadline.After(now) {
			l.mu.Unlock()
			return n
		}
		t := heap.Pop(&l.queue).(*task)
		l.mu.Unlock()

		t.fn()
		n++
	}
}

// Run processes tasks until ctx is cancelled. It is for hosts without their own
// event loop; the caller's goroutine becomes the looper thread.
func (l *Looper) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		l.RunPending()

		wait := time.Hour
		if next, ok := l.NextDeadline(); ok {
			wait = max(0, next.Sub(l.clock.Now()))
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timer.C:
		}
	}
}

// Wake returns a channel that receives after a task is posted. Hosts with their
// own event loop can select on it.
func (l *Looper) Wake() <-chan struct{} {
	return l.wake
}

func (l *Looper) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type task struct {
	token    Token
	deadline time.Time
	seq      uint64
	fn       func()
}

// taskQueue is a min-heap on (deadline, seq) so equal deadlines run FIFO.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) {
	*q = append(*q, x.(*task))
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
