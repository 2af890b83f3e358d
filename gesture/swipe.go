// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/internal/fling"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// Swipe recognizes a fast release in allowed directions. Unlike a
// pan it decides when the fingers lift.
type Swipe struct {
	recognizer

	want  int
	dir   Direction
	speed unit.Vp

	vx, vy   fling.Extrapolation
	velocity f32.Point
}

// DefaultSwipeSpeed is the release speed of a swipe, per second.
const DefaultSwipeSpeed = unit.Vp(100)

// NewSwipe returns a swipe of fingers along dir at speed vp per
// second. A non-positive speed means DefaultSwipeSpeed.
func NewSwipe(loop *app.Loop, fingers int, dir Direction, speed unit.Vp) *Swipe {
	if speed <= 0 {
		speed = DefaultSwipeSpeed
	}
	if dir == DirNone {
		dir = DirAll
	}
	s := &Swipe{
		want:  clampFingers(fingers, 1, maxFingers),
		dir:   dir,
		speed: speed,
	}
	s.init(s, KindSwipe, loop)
	return s
}

func (s *Swipe) HandleEvent(e pointer.Event) {
	if s.state == StateFail {
		s.track(e)
		return
	}
	switch e.Kind {
	case pointer.Press:
		s.track(e)
		switch n := s.fingers.Len(); {
		case n > s.want && !s.resolved():
			s.adjudicate(Reject)
		case n == s.want && s.state == StateReady:
			s.state = StateDetecting
			s.vx.Reset()
			s.vy.Reset()
			s.sample(e)
		}
	case pointer.Move:
		if s.track(e) && s.state == StateDetecting {
			s.sample(e)
		}
	case pointer.Release:
		if !s.track(e) || s.state != StateDetecting {
			return
		}
		s.velocity = f32.Pt(s.vx.Estimate().Velocity, s.vy.Estimate().Velocity)
		if s.fingers.Len() > 0 {
			return
		}
		if s.dir.project(s.velocity) >= s.metric.Px(s.speed) {
			s.adjudicate(Accept)
		} else {
			s.adjudicate(Reject)
		}
	case pointer.Cancel:
		s.track(e)
		s.adjudicate(Reject)
	}
}

func (s *Swipe) sample(e pointer.Event) {
	c := s.fingers.Centroid()
	s.vx.Sample(e.Time, c.X)
	s.vy.Sample(e.Time, c.Y)
}

// OnAccepted reports the swipe as a Start immediately followed by
// an End.
func (s *Swipe) OnAccepted() {
	s.state = StateSucceed
	e := s.snapshot()
	s.emitStart(e)
	s.emitEnd(e)
}

func (s *Swipe) OnRejected() {
	s.fail()
}

func (s *Swipe) OnPending() {
	if !s.resolved() {
		s.state = StatePending
	}
}

func (s *Swipe) Reset() {
	s.reset()
	s.vx.Reset()
	s.vy.Reset()
	s.velocity = f32.Point{}
}

func (s *Swipe) snapshot() Event {
	e := s.event()
	e.Velocity = s.velocity
	e.Speed = s.velocity.Len()
	e.Angle = s.velocity.Angle()
	e.Direction = directionOf(s.velocity)
	return e
}
