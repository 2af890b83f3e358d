// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/internal/fling"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// Pan recognizes fingers moving a distance in allowed directions.
type Pan struct {
	recognizer

	want     int
	dir      Direction
	distance unit.Vp

	origin f32.Point
	// center is the latest centroid and last the centroid at the
	// previous update.
	center f32.Point
	last   f32.Point
	vx, vy fling.Extrapolation
}

// DefaultPanDistance is the distance a pan must travel.
const DefaultPanDistance = unit.Vp(5)

// NewPan returns a pan of fingers moving distance along dir. A
// negative distance means DefaultPanDistance; zero accepts on press.
func NewPan(loop *app.Loop, fingers int, dir Direction, distance unit.Vp) *Pan {
	p := &Pan{
		want: clampFingers(fingers, 1, maxFingers),
		dir:  dir,
	}
	if dir == DirNone {
		p.dir = DirAll
	}
	p.SetDistance(distance)
	p.init(p, KindPan, loop)
	return p
}

// SetDistance changes the distance threshold.
func (p *Pan) SetDistance(d unit.Vp) {
	if d < 0 {
		d = DefaultPanDistance
	}
	p.distance = d
}

// Distance returns the distance threshold.
func (p *Pan) Distance() unit.Vp {
	return p.distance
}

// Direction returns the allowed directions.
func (p *Pan) Direction() Direction {
	return p.dir
}

func (p *Pan) HandleEvent(e pointer.Event) {
	if p.state == StateFail {
		p.track(e)
		return
	}
	switch e.Kind {
	case pointer.Press:
		p.track(e)
		if p.state == StateReady && p.fingers.Len() == p.want {
			p.state = StateDetecting
			p.origin = p.fingers.Centroid()
			p.last = p.origin
			p.vx.Reset()
			p.vy.Reset()
			p.sample(e)
			if p.distance == 0 {
				p.adjudicate(Accept)
			}
		}
	case pointer.Move:
		if !p.track(e) {
			return
		}
		p.sample(e)
		switch p.state {
		case StateDetecting, StatePending:
			off := p.center.Sub(p.origin)
			if p.dir.project(off) >= p.metric.Px(p.distance) {
				p.adjudicate(Accept)
			}
		case StateSucceed:
			p.emitUpdate(p.snapshot())
			p.last = p.center
		}
	case pointer.Release:
		if !p.track(e) {
			return
		}
		switch p.state {
		case StateSucceed:
			if p.fingers.Len() == 0 {
				p.emitEnd(p.snapshot())
			}
		default:
			if p.fingers.Len() < p.want {
				p.adjudicate(Reject)
			}
		}
	case pointer.Cancel:
		p.track(e)
		if p.state == StateSucceed && p.fingers.Len() == 0 {
			p.emitCancel(p.snapshot())
			p.Reset()
			return
		}
		p.adjudicate(Reject)
	}
}

func (p *Pan) sample(e pointer.Event) {
	c := p.fingers.Centroid()
	p.center = c
	p.vx.Sample(e.Time, c.X)
	p.vy.Sample(e.Time, c.Y)
}

func (p *Pan) OnAccepted() {
	p.state = StateSucceed
	p.emitStart(p.snapshot())
	p.last = p.center
}

func (p *Pan) OnRejected() {
	p.fail()
}

func (p *Pan) OnPending() {
	if !p.resolved() {
		p.state = StatePending
	}
}

func (p *Pan) Reset() {
	p.reset()
	p.vx.Reset()
	p.vy.Reset()
}

func (p *Pan) snapshot() Event {
	e := p.event()
	e.Offset = p.center.Sub(p.origin)
	e.Delta = p.center.Sub(p.last)
	e.Center = p.center
	e.Velocity = f32.Pt(p.vx.Estimate().Velocity, p.vy.Estimate().Velocity)
	e.Direction = directionOf(e.Offset)
	return e
}
