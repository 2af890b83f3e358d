// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"arkgesture.org/app"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// Pinch recognizes fingers moving apart or together.
type Pinch struct {
	recognizer

	want     int
	distance unit.Vp

	// spread0 is the finger spread when detection started.
	spread0 float32
	scale   float32
}

// DefaultPinchDistance is the spread change that starts a pinch.
const DefaultPinchDistance = unit.Vp(5)

// NewPinch returns a pinch of [2, 5] fingers. A non-positive
// distance means DefaultPinchDistance.
func NewPinch(loop *app.Loop, fingers int, distance unit.Vp) *Pinch {
	if distance <= 0 {
		distance = DefaultPinchDistance
	}
	p := &Pinch{
		want:     clampFingers(fingers, 2, 5),
		distance: distance,
		scale:    1,
	}
	p.init(p, KindPinch, loop)
	return p
}

func (p *Pinch) HandleEvent(e pointer.Event) {
	if p.state == StateFail {
		p.track(e)
		return
	}
	switch e.Kind {
	case pointer.Press:
		p.track(e)
		if p.state == StateReady && p.fingers.Len() == p.want {
			p.state = StateDetecting
			p.spread0 = p.fingers.Spread()
		}
	case pointer.Move:
		if !p.track(e) {
			return
		}
		spread := p.fingers.Spread()
		switch p.state {
		case StateDetecting, StatePending:
			if abs(spread-p.spread0) >= p.metric.Px(p.distance) {
				p.adjudicate(Accept)
			}
		case StateSucceed:
			if p.spread0 > 0 {
				p.scale = spread / p.spread0
			}
			p.emitUpdate(p.snapshot())
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
			p.adjudicate(Reject)
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

func (p *Pinch) OnAccepted() {
	p.state = StateSucceed
	if p.spread0 > 0 {
		p.scale = p.fingers.Spread() / p.spread0
	}
	p.emitStart(p.snapshot())
}

func (p *Pinch) OnRejected() {
	p.fail()
}

func (p *Pinch) OnPending() {
	if !p.resolved() {
		p.state = StatePending
	}
}

func (p *Pinch) Reset() {
	p.reset()
	p.spread0 = 0
	p.scale = 1
}

func (p *Pinch) snapshot() Event {
	e := p.event()
	e.Scale = p.scale
	if p.fingers.Len() > 0 {
		e.Center = p.fingers.Centroid()
	}
	return e
}
