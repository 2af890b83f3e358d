// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"time"

	"arkgesture.org/app"
	"arkgesture.org/io/pointer"
	"arkgesture.org/render"
	"arkgesture.org/unit"
)

// Recognizer matches one gesture in a stream of pointer events.
//
// HandleEvent feeds a pointer event. The referee the recognizer is
// bound to calls OnAccepted, OnRejected and OnPending to commit the
// disposals the recognizer proposes; without a referee a recognizer
// commits its own proposals. Reset returns the recognizer to
// StateReady and cancels its timers.
type Recognizer interface {
	HandleEvent(e pointer.Event)
	State() State
	Priority() Priority
	SetPriority(p Priority)
	Mask() Mask
	SetMask(m Mask)
	Node() render.NodeID
	SetNode(id render.NodeID)
	Info() Info
	SetHandler(h Handler)
	SetJudge(j JudgeFunc)
	OnAccepted()
	OnRejected()
	OnPending()
	Reset()

	base() *recognizer
	// snapshot returns the Event describing the current state.
	snapshot() Event
	// interrupt forces the recognizer out of the touch sequence,
	// reporting a Cancel if it had succeeded.
	interrupt()
}

// recognizer is the bookkeeping shared by every Recognizer. It is
// embedded by the variants, which set self to the outer value.
type recognizer struct {
	self     Recognizer
	kind     Kind
	loop     *app.Loop
	node     render.NodeID
	state    State
	priority Priority
	mask     Mask
	metric   unit.Metric
	handler  Handler
	judge    JudgeFunc
	// judged is set when the judge was consulted for the
	// current sequence.
	judged  bool
	referee Referee
	fingers pointer.Fingers
	// first is the first press of the sequence.
	first  pointer.Event
	timers []*app.Timer
}

func (r *recognizer) init(self Recognizer, kind Kind, loop *app.Loop) {
	r.self = self
	r.kind = kind
	r.loop = loop
	r.fingers = make(pointer.Fingers)
}

func (r *recognizer) base() *recognizer {
	return r
}

// State reports the arbitration state.
func (r *recognizer) State() State {
	return r.state
}

// Priority returns the priority in the arena.
func (r *recognizer) Priority() Priority {
	return r.priority
}

// SetPriority sets the priority for later arenas.
func (r *recognizer) SetPriority(p Priority) {
	r.priority = p
}

// Mask returns the arena mask.
func (r *recognizer) Mask() Mask {
	return r.mask
}

// SetMask sets the arena mask.
func (r *recognizer) SetMask(m Mask) {
	r.mask = m
}

// Node returns the node the recognizer is attached to.
func (r *recognizer) Node() render.NodeID {
	return r.node
}

// SetNode tags the recognizer with the node it is attached to.
func (r *recognizer) SetNode(id render.NodeID) {
	r.node = id
}

// SetMetric sets the density used to convert thresholds to pixels.
func (r *recognizer) SetMetric(m unit.Metric) {
	r.metric = m
}

// SetHandler sets the receiver of gesture phases.
func (r *recognizer) SetHandler(h Handler) {
	r.handler = h
}

// SetJudge sets the function consulted before the recognizer is
// accepted. A nil judge always continues.
func (r *recognizer) SetJudge(j JudgeFunc) {
	r.judge = j
}

// Info describes the recognizer to a judge.
func (r *recognizer) Info() Info {
	return Info{
		Kind:     r.kind,
		Node:     r.node,
		Priority: r.priority,
		Fingers:  r.fingers.Len(),
	}
}

func (r *recognizer) bind(ref Referee) {
	r.referee = ref
}

// adjudicate proposes d to the referee.
func (r *recognizer) adjudicate(d Disposal) {
	tracer().Debugf("%v@%d: propose %v in %v", r.kind, r.node, d, r.state)
	if r.referee != nil {
		r.referee.Adjudicate(r.self, d)
		return
	}
	switch d {
	case Accept:
		if r.vetoed() {
			r.self.OnRejected()
			return
		}
		r.self.OnAccepted()
	case Reject:
		r.self.OnRejected()
	case Pending:
		r.self.OnPending()
	}
}

// vetoed consults the judge unless it was already consulted in this
// sequence.
func (r *recognizer) vetoed() bool {
	if r.judge == nil || r.judged {
		return false
	}
	r.judged = true
	if r.judge(r.self.Info(), r.self.snapshot()) == JudgeReject {
		tracer().Debugf("%v@%d: judge rejected", r.kind, r.node)
		return true
	}
	return false
}

// resolved reports whether the recognizer reached a terminal state.
func (r *recognizer) resolved() bool {
	return r.state == StateSucceed || r.state == StateFail
}

// track records the pointer of e and reports whether it is
// tracked afterwards.
func (r *recognizer) track(e pointer.Event) bool {
	switch e.Kind {
	case pointer.Press:
		if r.fingers.Len() == 0 {
			r.first = e
		}
		r.fingers.Add(e)
		return true
	case pointer.Move:
		return r.fingers.Update(e)
	case pointer.Release, pointer.Cancel:
		return r.fingers.Remove(e.PointerID)
	}
	return false
}

// after runs f after d on the loop. The timer belongs to the
// recognizer and is cancelled by cancelTimers.
func (r *recognizer) after(d time.Duration, f func()) *app.Timer {
	var t *app.Timer
	t = r.loop.PostDelayed(d, func() {
		r.forget(t)
		f()
	})
	r.timers = append(r.timers, t)
	return t
}

func (r *recognizer) forget(t *app.Timer) {
	for i, t2 := range r.timers {
		if t2 == t {
			r.timers = append(r.timers[:i], r.timers[i+1:]...)
			return
		}
	}
}

func (r *recognizer) cancelTimers() {
	for _, t := range r.timers {
		t.Cancel()
	}
	r.timers = r.timers[:0]
}

// fail moves a recognizer that has not succeeded to StateFail.
func (r *recognizer) fail() {
	if r.state == StateSucceed {
		return
	}
	r.state = StateFail
	r.cancelTimers()
}

func (r *recognizer) reset() {
	r.cancelTimers()
	r.fingers.Clear()
	r.first = pointer.Event{}
	r.state = StateReady
	r.judged = false
}

func (r *recognizer) interrupt() {
	if r.state == StateSucceed {
		r.emitCancel(r.self.snapshot())
	}
	r.state = StateFail
	r.cancelTimers()
}

// event returns the fields common to every snapshot.
func (r *recognizer) event() Event {
	e := Event{
		Kind:    r.kind,
		Node:    r.node,
		Time:    r.loop.Now(),
		Source:  r.first.Source,
		Fingers: r.fingers.Events(),
	}
	if len(e.Fingers) > 0 {
		f := e.Fingers[0]
		e.Position, e.Global, e.Screen = f.Position, f.Global, f.Screen
	} else {
		e.Position, e.Global, e.Screen = r.first.Position, r.first.Global, r.first.Screen
	}
	return e
}

func (r *recognizer) emitStart(e Event) {
	if r.handler != nil {
		r.handler.OnActionStart(e)
	}
}

func (r *recognizer) emitUpdate(e Event) {
	if r.handler != nil {
		r.handler.OnActionUpdate(e)
	}
}

func (r *recognizer) emitEnd(e Event) {
	if r.handler != nil {
		r.handler.OnActionEnd(e)
	}
}

func (r *recognizer) emitCancel(e Event) {
	if r.handler != nil {
		r.handler.OnActionCancel(e)
	}
}

func clampFingers(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
