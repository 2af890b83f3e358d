// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"arkgesture.org/app"
	"arkgesture.org/io/pointer"
)

// Rotation recognizes two fingers turning around each other.
type Rotation struct {
	recognizer

	want int
	// threshold in degrees.
	threshold float32

	last  float32
	angle float32
}

// DefaultRotationAngle is the angle in degrees that starts a
// rotation.
const DefaultRotationAngle = 1

// NewRotation returns a rotation of [2, 5] fingers. A non-positive
// or larger than 360 degrees angle means DefaultRotationAngle.
func NewRotation(loop *app.Loop, fingers int, angle float32) *Rotation {
	if angle <= 0 || angle > 360 {
		angle = DefaultRotationAngle
	}
	r := &Rotation{
		want:      clampFingers(fingers, 2, 5),
		threshold: angle,
	}
	r.init(r, KindRotation, loop)
	return r
}

func (r *Rotation) HandleEvent(e pointer.Event) {
	if r.state == StateFail {
		r.track(e)
		return
	}
	switch e.Kind {
	case pointer.Press:
		r.track(e)
		if r.state == StateReady && r.fingers.Len() == r.want {
			r.state = StateDetecting
			r.last = r.pairAngle()
			r.angle = 0
		}
	case pointer.Move:
		if !r.track(e) || r.fingers.Len() < 2 {
			return
		}
		a := r.pairAngle()
		r.angle += wrapAngle(a - r.last)
		r.last = a
		switch r.state {
		case StateDetecting, StatePending:
			if abs(r.angle) >= r.threshold {
				r.adjudicate(Accept)
			}
		case StateSucceed:
			r.emitUpdate(r.snapshot())
		}
	case pointer.Release:
		if !r.track(e) {
			return
		}
		switch r.state {
		case StateSucceed:
			if r.fingers.Len() == 0 {
				r.emitEnd(r.snapshot())
			}
		default:
			r.adjudicate(Reject)
		}
	case pointer.Cancel:
		r.track(e)
		if r.state == StateSucceed && r.fingers.Len() == 0 {
			r.emitCancel(r.snapshot())
			r.Reset()
			return
		}
		r.adjudicate(Reject)
	}
}

// pairAngle returns the angle of the line through the two lowest
// numbered fingers.
func (r *Rotation) pairAngle() float32 {
	evs := r.fingers.Events()
	if len(evs) < 2 {
		return r.last
	}
	return evs[1].Position.Sub(evs[0].Position).Angle()
}

func (r *Rotation) OnAccepted() {
	r.state = StateSucceed
	r.emitStart(r.snapshot())
}

func (r *Rotation) OnRejected() {
	r.fail()
}

func (r *Rotation) OnPending() {
	if !r.resolved() {
		r.state = StatePending
	}
}

func (r *Rotation) Reset() {
	r.reset()
	r.last, r.angle = 0, 0
}

func (r *Rotation) snapshot() Event {
	e := r.event()
	e.Angle = r.angle
	if r.fingers.Len() > 0 {
		e.Center = r.fingers.Centroid()
	}
	return e
}

// wrapAngle maps a difference of angles to (-180, 180].
func wrapAngle(d float32) float32 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
