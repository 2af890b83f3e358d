// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"arkgesture.org/app"
	"arkgesture.org/io/pointer"
)

// Sequenced recognizes its children one after the other. Only the
// active child sees pointer events; it becomes active when its
// predecessor succeeded, and receives the pointers down at that time
// as presses. The group is Pending once the first child succeeded,
// proposes Accept when the last child does and fails when any
// child fails.
//
// The group reports phases through the handlers of its children.
type Sequenced struct {
	recognizer

	children []Recognizer
	cur      int
}

// NewSequenced returns the sequence of children, which must not be
// members of another referee.
func NewSequenced(loop *app.Loop, children ...Recognizer) *Sequenced {
	if len(children) == 0 {
		panic("gesture: empty sequence")
	}
	s := &Sequenced{children: children}
	s.init(s, KindSequenced, loop)
	for _, c := range children {
		c.base().bind(s)
	}
	return s
}

// Children returns the recognizers of the sequence.
func (s *Sequenced) Children() []Recognizer {
	return s.children
}

// Current returns the active child.
func (s *Sequenced) Current() Recognizer {
	return s.children[s.cur]
}

func (s *Sequenced) HandleEvent(e pointer.Event) {
	s.track(e)
	if s.state == StateFail {
		return
	}
	if s.state == StateReady && e.Kind == pointer.Press {
		s.state = StateDetecting
	}
	s.children[s.cur].HandleEvent(e)
}

// Adjudicate handles the disposals of the children.
func (s *Sequenced) Adjudicate(r Recognizer, d Disposal) {
	if s.state == StateFail {
		return
	}
	if r != s.children[s.cur] {
		tracer().Debugf("sequence: inactive child %v proposed %v", r.Info().Kind, d)
		if d == Reject {
			r.OnRejected()
		}
		return
	}
	switch d {
	case Pending:
		r.OnPending()
		s.adjudicate(Pending)
	case Reject:
		r.OnRejected()
		s.adjudicate(Reject)
	case Accept:
		if r.base().vetoed() {
			r.OnRejected()
			s.adjudicate(Reject)
			return
		}
		if s.cur == len(s.children)-1 {
			s.adjudicate(Accept)
			return
		}
		r.OnAccepted()
		s.cur++
		s.adjudicate(Pending)
		s.activate()
	}
}

// activate replays the pointers down to the new active child.
func (s *Sequenced) activate() {
	next := s.children[s.cur]
	for _, e := range s.fingers.Events() {
		if s.state == StateFail || next != s.children[s.cur] {
			return
		}
		e.Kind = pointer.Press
		next.HandleEvent(e)
	}
}

// OnAccepted accepts the last child.
func (s *Sequenced) OnAccepted() {
	s.state = StateSucceed
	s.children[s.cur].OnAccepted()
}

// OnRejected fails the group. Children that succeeded earlier report
// a Cancel.
func (s *Sequenced) OnRejected() {
	if s.state == StateSucceed {
		return
	}
	s.state = StateFail
	s.cancelTimers()
	for _, c := range s.children {
		if c.State() == StateSucceed {
			c.interrupt()
		} else {
			c.OnRejected()
		}
	}
}

func (s *Sequenced) OnPending() {
	if !s.resolved() {
		s.state = StatePending
	}
}

func (s *Sequenced) Reset() {
	s.reset()
	s.cur = 0
	for _, c := range s.children {
		c.Reset()
	}
}

func (s *Sequenced) interrupt() {
	s.state = StateFail
	s.cancelTimers()
	for _, c := range s.children {
		c.interrupt()
	}
}

func (s *Sequenced) snapshot() Event {
	return s.children[s.cur].snapshot()
}
