// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"time"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// Tap recognizes count consecutive taps of fingers.
type Tap struct {
	recognizer

	count int
	want  int

	taps int
	// peak is the most fingers down during the current tap.
	peak int
	// origin is the first press of the first tap.
	origin f32.Point
	downs  pointer.Fingers
}

const (
	// tapSlop is the movement that rejects a tap.
	tapSlop = unit.Vp(20)
	// tapInterval is the longest pause between taps of a multi-tap.
	tapInterval = 300 * time.Millisecond
)

// NewTap returns a tap gesture of count taps with fingers. A count
// below 1 means 1.
func NewTap(loop *app.Loop, count, fingers int) *Tap {
	if count < 1 {
		count = 1
	}
	t := &Tap{
		count: count,
		want:  clampFingers(fingers, 1, maxFingers),
		downs: make(pointer.Fingers),
	}
	t.init(t, KindTap, loop)
	return t
}

func (t *Tap) HandleEvent(e pointer.Event) {
	if t.resolved() {
		return
	}
	switch e.Kind {
	case pointer.Press:
		if t.fingers.Len() == 0 {
			// A new tap stops the interval timer.
			t.cancelTimers()
			if t.taps == 0 {
				t.origin = e.Position
			} else if t.moved(e.Position, t.origin) {
				t.adjudicate(Reject)
				return
			}
		}
		t.track(e)
		t.downs.Add(e)
		t.peak = max(t.peak, t.fingers.Len())
		if t.peak > t.want {
			t.adjudicate(Reject)
			return
		}
		t.state = StateDetecting
	case pointer.Move:
		if !t.track(e) {
			return
		}
		if t.moved(e.Position, t.downs[e.PointerID].Position) {
			t.adjudicate(Reject)
		}
	case pointer.Release:
		if !t.track(e) || t.fingers.Len() > 0 {
			return
		}
		t.downs.Clear()
		if t.peak < t.want {
			t.adjudicate(Reject)
			return
		}
		t.peak = 0
		t.taps++
		if t.taps == t.count {
			t.adjudicate(Accept)
			return
		}
		t.after(tapInterval, func() {
			tracer().Debugf("tap@%d: interval expired after %d taps", t.node, t.taps)
			t.adjudicate(Reject)
		})
	case pointer.Cancel:
		t.track(e)
		t.adjudicate(Reject)
	}
}

func (t *Tap) moved(p, from f32.Point) bool {
	d := p.Sub(from)
	return d.X*d.X+d.Y*d.Y > t.metric.Squared(tapSlop)
}

// OnAccepted reports the tap as a Start immediately followed by an
// End.
func (t *Tap) OnAccepted() {
	t.state = StateSucceed
	t.cancelTimers()
	e := t.snapshot()
	t.emitStart(e)
	t.emitEnd(e)
}

func (t *Tap) OnRejected() {
	t.fail()
}

func (t *Tap) OnPending() {
	if !t.resolved() {
		t.state = StatePending
	}
}

func (t *Tap) Reset() {
	t.reset()
	t.downs.Clear()
	t.taps, t.peak = 0, 0
}

func (t *Tap) snapshot() Event {
	e := t.event()
	e.Count = t.taps
	return e
}
