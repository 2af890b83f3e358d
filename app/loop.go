// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Loop is a single threaded task scheduler. Every task and timer
// callback runs on the goroutine that drives the loop, so code that
// only runs inside the loop needs no locking.
//
// Post is safe to call from any goroutine and is the way to hand
// results of asynchronous work back to the loop. All other methods
// must be called from the loop goroutine.
type Loop struct {
	clock Clock

	mu     sync.Mutex
	posted []func()
	// wakeups wakes up Run when a task is posted from another
	// goroutine.
	wakeups chan struct{}

	timers timerQueue
	seq    uint64
}

// Timer is a delayed task created by PostDelayed. The creator owns
// the handle and must Cancel it when the state it captures is reset.
type Timer struct {
	loop  *Loop
	at    time.Duration
	seq   uint64
	f     func()
	index int
}

// NewLoop returns a loop driven by c.
func NewLoop(c Clock) *Loop {
	return &Loop{
		clock:   c,
		wakeups: make(chan struct{}, 1),
	}
}

// NewManualLoop returns a loop driven by a ManualClock starting at
// zero. Time only moves through Advance.
func NewManualLoop() *Loop {
	return NewLoop(new(ManualClock))
}

// Now returns the current loop time.
func (l *Loop) Now() time.Duration {
	return l.clock.Now()
}

// Post schedules f to run on the loop.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.posted = append(l.posted, f)
	l.mu.Unlock()
	select {
	case l.wakeups <- struct{}{}:
	default:
	}
}

// PostDelayed schedules f to run d from now. A non-positive d runs f
// at the next Flush.
func (l *Loop) PostDelayed(d time.Duration, f func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.seq++
	t := &Timer{loop: l, at: l.Now() + d, seq: l.seq, f: f, index: -1}
	heap.Push(&l.timers, t)
	return t
}

// Cancel prevents the timer from firing. Cancelling a fired or
// cancelled timer is a no-op; a nil Timer may be cancelled.
func (t *Timer) Cancel() {
	if t == nil || t.index < 0 {
		return
	}
	heap.Remove(&t.loop.timers, t.index)
	t.index = -1
}

// Pending reports whether the timer is scheduled and not yet fired.
func (t *Timer) Pending() bool {
	return t != nil && t.index >= 0
}

// Deadline returns the loop time the timer fires at.
func (t *Timer) Deadline() time.Duration {
	return t.at
}

// Timers returns the number of scheduled timers.
func (l *Loop) Timers() int {
	return len(l.timers)
}

// Flush runs posted tasks and every timer due at the current loop
// time, including tasks they post in turn.
func (l *Loop) Flush() {
	for {
		ran := l.runPosted()
		if t := l.popDue(l.Now()); t != nil {
			t.f()
			ran = true
		}
		if !ran {
			return
		}
	}
}

// Advance moves a manual clock forward by d, firing timers in
// deadline order with the clock set to each deadline. It panics if
// the loop is not driven by a ManualClock.
func (l *Loop) Advance(d time.Duration) {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		panic("app: Advance on a loop without a manual clock")
	}
	target := mc.now + d
	for {
		l.Flush()
		if len(l.timers) == 0 || l.timers[0].at > target {
			break
		}
		mc.now = l.timers[0].at
	}
	mc.now = target
	l.Flush()
}

// AdvanceTo advances a manual clock to the absolute loop time at.
func (l *Loop) AdvanceTo(at time.Duration) {
	if d := at - l.Now(); d > 0 {
		l.Advance(d)
		return
	}
	l.Flush()
}

// Run drives the loop with its clock until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		l.Flush()
		var timeC <-chan time.Time
		if len(l.timers) > 0 {
			wait := l.timers[0].at - l.Now()
			if timer == nil {
				timer = time.NewTimer(wait)
			} else {
				timer.Reset(wait)
			}
			timeC = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeups:
		case <-timeC:
		}
		if timer != nil && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

func (l *Loop) runPosted() bool {
	l.mu.Lock()
	tasks := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, f := range tasks {
		f()
	}
	return len(tasks) > 0
}

func (l *Loop) popDue(now time.Duration) *Timer {
	if len(l.timers) == 0 || l.timers[0].at > now {
		return nil
	}
	return heap.Pop(&l.timers).(*Timer)
}

// timerQueue orders timers by deadline, then by creation.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
