// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"time"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// LongPress recognizes fingers held stationary for a duration.
type LongPress struct {
	recognizer

	duration time.Duration
	want     int
	repeat   bool
	// catchMode gates the deadline through the judge.
	catchMode bool
	latch     RejectLatch

	thumbLead   time.Duration
	onThumbnail func(e Event)

	disableMouseLeft bool
	region           f32.Rectangle
	slop             unit.Vp

	// downs holds the press event of every finger.
	downs pointer.Fingers
}

const (
	DefaultLongPressDuration = 500 * time.Millisecond
	// DefaultLongPressSlop is the movement that rejects a long press.
	DefaultLongPressSlop = unit.Vp(15)
	maxFingers           = 10
)

// NewLongPress returns a long press of fingers held for duration.
// A non-positive duration means DefaultLongPressDuration, fingers is
// clamped to [1, 10]. With repeat set the gesture updates every
// duration until the fingers lift.
func NewLongPress(loop *app.Loop, fingers int, duration time.Duration, repeat bool) *LongPress {
	if duration <= 0 {
		duration = DefaultLongPressDuration
	}
	l := &LongPress{
		duration: duration,
		want:     clampFingers(fingers, 1, maxFingers),
		repeat:   repeat,
		slop:     DefaultLongPressSlop,
		downs:    make(pointer.Fingers),
	}
	l.init(l, KindLongPress, loop)
	return l
}

// Duration returns the effective duration.
func (l *LongPress) Duration() time.Duration {
	return l.duration
}

// Fingers returns the effective finger count.
func (l *LongPress) Fingers() int {
	return l.want
}

// SetCatchMode makes an expired deadline consult the judge and
// latch before the recognizer proposes Accept.
func (l *LongPress) SetCatchMode(catch bool) {
	l.catchMode = catch
}

// SetRejectLatch sets the latch that remembers judge rejections in
// catch mode.
func (l *LongPress) SetRejectLatch(latch RejectLatch) {
	l.latch = latch
}

// SetThumbnail makes the recognizer call f lead before its deadline,
// so that a preview snapshot can be prepared before the gesture
// resolves.
func (l *LongPress) SetThumbnail(lead time.Duration, f func(e Event)) {
	l.thumbLead = lead
	l.onThumbnail = f
}

// SetSlop sets the finger movement that rejects the gesture.
func (l *LongPress) SetSlop(v unit.Vp) {
	if v > 0 {
		l.slop = v
	}
}

// SetDisableMouseLeft rejects presses of the primary mouse button.
func (l *LongPress) SetDisableMouseLeft(disable bool) {
	l.disableMouseLeft = disable
}

// SetResponseRegion limits presses to the local rectangle r. The
// empty rectangle accepts presses anywhere.
func (l *LongPress) SetResponseRegion(r f32.Rectangle) {
	l.region = r
}

func (l *LongPress) HandleEvent(e pointer.Event) {
	switch e.Kind {
	case pointer.Press:
		l.handleTouchDown(e)
	case pointer.Move:
		l.handleTouchMove(e)
	case pointer.Release:
		l.handleTouchUp(e)
	case pointer.Cancel:
		l.handleTouchCancel(e)
	}
}

func (l *LongPress) handleTouchDown(e pointer.Event) {
	if l.state == StateFail {
		return
	}
	if l.disableMouseLeft && e.Source == pointer.Mouse && e.Buttons.Contain(pointer.ButtonPrimary) {
		l.adjudicate(Reject)
		return
	}
	if !l.region.Empty() && !l.region.Contains(e.Position) {
		l.adjudicate(Reject)
		return
	}
	l.track(e)
	l.downs.Add(e)
	n := l.fingers.Len()
	switch {
	case l.state == StateSucceed:
	case n > l.want:
		l.adjudicate(Reject)
	case n == l.want && l.state == StateReady:
		l.state = StateDetecting
		l.startDeadline()
	}
}

// startDeadline arms the deadline, shortened by the time the
// sequence spent in dispatch since the first press.
func (l *LongPress) startDeadline() {
	d := l.duration - (l.loop.Now() - l.first.Time)
	if d < 0 {
		d = 0
	}
	l.after(d, l.HandleOverdueDeadline)
	if l.onThumbnail != nil {
		l.after(max(d-l.thumbLead, 0), func() {
			if l.state == StateDetecting || l.state == StatePending {
				l.onThumbnail(l.snapshot())
			}
		})
	}
}

func (l *LongPress) handleTouchMove(e pointer.Event) {
	if !l.fingers.Update(e) {
		return
	}
	if l.resolved() {
		return
	}
	down := l.downs[e.PointerID]
	d := e.Position.Sub(down.Position)
	if d.X*d.X+d.Y*d.Y > l.metric.Squared(l.slop) {
		tracer().Debugf("long press@%d: moved %v", l.node, d)
		l.adjudicate(Reject)
	}
}

func (l *LongPress) handleTouchUp(e pointer.Event) {
	l.fingers.Remove(e.PointerID)
	l.downs.Remove(e.PointerID)
	switch l.state {
	case StateSucceed:
		if l.fingers.Len() == 0 {
			l.cancelTimers()
			l.emitEnd(l.snapshot())
		}
	case StateFail:
	default:
		l.adjudicate(Reject)
	}
}

func (l *LongPress) handleTouchCancel(e pointer.Event) {
	l.fingers.Remove(e.PointerID)
	l.downs.Remove(e.PointerID)
	if l.state == StateSucceed && l.fingers.Len() == 0 {
		l.cancelTimers()
		l.emitCancel(l.snapshot())
		l.reset()
		return
	}
	if l.state != StateFail {
		l.adjudicate(Reject)
	}
}

// HandleOverdueDeadline runs when the fingers were held for the
// duration. In catch mode a latched rejection fails the gesture and
// otherwise the judge decides before Accept is proposed.
func (l *LongPress) HandleOverdueDeadline() {
	if l.catchMode && l.latch != nil && l.latch.IsUserReject() {
		l.adjudicate(Reject)
		return
	}
	if l.state != StateDetecting && l.state != StatePending {
		return
	}
	if l.catchMode {
		if l.vetoed() {
			if l.latch != nil {
				l.latch.SetUserReject(true)
			}
			l.adjudicate(Reject)
			return
		}
	}
	l.adjudicate(Accept)
}

func (l *LongPress) OnAccepted() {
	l.state = StateSucceed
	l.cancelTimers()
	l.emitStart(l.snapshot())
	if l.repeat {
		l.after(l.duration, l.fireRepeat)
	}
}

func (l *LongPress) fireRepeat() {
	if l.state != StateSucceed || l.fingers.Len() == 0 {
		return
	}
	e := l.snapshot()
	e.Repeat = true
	l.emitUpdate(e)
	l.after(l.duration, l.fireRepeat)
}

func (l *LongPress) OnRejected() {
	l.fail()
}

func (l *LongPress) OnPending() {
	if !l.resolved() {
		l.state = StatePending
	}
}

// Reset implements OnResetStatus: it cancels the deadline, thumbnail
// and repeat timers and forgets the fingers.
func (l *LongPress) Reset() {
	l.reset()
	l.downs.Clear()
}

func (l *LongPress) snapshot() Event {
	return l.event()
}
