// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements pointer gesture recognizers and the arena
that arbitrates between them.

Every recognizer attached to the nodes under a touch sequence observes
the same pointer Events. A recognizer proposes a Disposal for itself
(Accept, Reject or Pending) to its Referee, usually an Arena, and the
arena lets at most one competing recognizer succeed. The winner then
reports its phases, Start, Update, End or Cancel, to its Handler.

Recognizers are not safe for concurrent use. They run on an app.Loop,
which also runs their timers.
*/
package gesture

import (
	"time"

	"github.com/npillmayer/schuko/tracing"

	"arkgesture.org/f32"
	"arkgesture.org/io/pointer"
	"arkgesture.org/render"
)

// State is the arbitration state of a recognizer.
type State uint8

// Disposal is the verdict a recognizer proposes for itself.
type Disposal uint8

// JudgeResult is the answer of a JudgeFunc.
type JudgeResult uint8

// Priority orders competing recognizers.
type Priority uint8

// Mask controls which recognizers join an arena.
type Mask uint8

// Kind identifies the recognizer variant.
type Kind uint8

// Direction is a set of pan or swipe directions.
type Direction uint8

const (
	// StateReady is the state of a recognizer that has not
	// seen enough pointers to start detecting.
	StateReady State = iota
	// StateDetecting is the state while the gesture is
	// being matched.
	StateDetecting
	// StatePending is the state of a recognizer that matched
	// part of its gesture and waits for the rest.
	StatePending
	// StateSucceed is the state of the arena winner.
	StateSucceed
	// StateFail is the state of a rejected recognizer.
	StateFail
)

const (
	// Accept claims the gesture.
	Accept Disposal = iota
	// Reject gives the gesture up.
	Reject
	// Pending holds the arena while more input is awaited.
	Pending
)

const (
	// JudgeContinue lets the recognizer succeed.
	JudgeContinue JudgeResult = iota
	// JudgeReject vetoes it.
	JudgeReject
)

const (
	// PriorityLow is the default.
	PriorityLow Priority = iota
	// PriorityHigh wins over low priority proposals of the same tick.
	PriorityHigh
	// PriorityParallel recognizers never compete: they succeed
	// alongside the arena winner.
	PriorityParallel
)

const (
	// MaskNormal lets every hit recognizer compete.
	MaskNormal Mask = iota
	// MaskIgnoreInternal keeps the recognizers of descendant nodes
	// out of the arena.
	MaskIgnoreInternal
)

// Recognizer kinds, reported in Info and Event.
const (
	KindLongPress Kind = iota
	KindPan
	KindSwipe
	KindPinch
	KindRotation
	KindTap
	KindSequenced
)

const (
	DirLeft Direction = 1 << iota
	DirRight
	DirUp
	DirDown

	DirNone       Direction = 0
	DirHorizontal           = DirLeft | DirRight
	DirVertical             = DirUp | DirDown
	DirAll                  = DirHorizontal | DirVertical
)

// Event is the snapshot passed to a Handler. It is created for
// each callback.
type Event struct {
	Kind Kind
	Node render.NodeID
	Time time.Duration
	// Source of the first pointer.
	Source pointer.Source
	// Repeat is set for the updates of a repeating long press.
	Repeat bool
	// Fingers is the pointers down, ordered by id.
	Fingers []pointer.Event
	// Position is the local position of the first pointer.
	Position f32.Point
	// Global is the window position of the first pointer.
	Global f32.Point
	Screen f32.Point

	// Offset is the pan distance since detection started and
	// Delta the distance since the previous update.
	Offset f32.Point
	Delta  f32.Point
	// Velocity in pixels per second.
	Velocity f32.Point
	// Scale is the pinch scale factor.
	Scale float32
	// Center is the centroid of the fingers.
	Center f32.Point
	// Angle is the rotation in degrees, or the swipe direction.
	Angle float32
	// Speed is the swipe speed in pixels per second.
	Speed float32
	// Count is the number of taps.
	Count int
	// Direction of a pan or swipe.
	Direction Direction
}

// Info describes a recognizer to a JudgeFunc.
type Info struct {
	Kind     Kind
	Node     render.NodeID
	Priority Priority
	Fingers  int
}

// Handler receives the phases of a successful gesture.
type Handler interface {
	OnActionStart(e Event)
	OnActionUpdate(e Event)
	OnActionEnd(e Event)
	OnActionCancel(e Event)
}

// HandlerFuncs adapts optional functions to a Handler.
type HandlerFuncs struct {
	Start  func(e Event)
	Update func(e Event)
	End    func(e Event)
	Cancel func(e Event)
}

// JudgeFunc can veto the acceptance of a recognizer.
type JudgeFunc func(info Info, e Event) JudgeResult

// RejectLatch records that a judge rejected a gesture, so later
// deadlines in the same arena fail without consulting it again.
type RejectLatch interface {
	IsUserReject() bool
	SetUserReject(reject bool)
}

// Referee arbitrates between recognizers.
type Referee interface {
	Adjudicate(r Recognizer, d Disposal)
}

// tracer traces with key 'arkgesture.gesture'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.gesture")
}

func (h HandlerFuncs) OnActionStart(e Event) {
	if h.Start != nil {
		h.Start(e)
	}
}

func (h HandlerFuncs) OnActionUpdate(e Event) {
	if h.Update != nil {
		h.Update(e)
	}
}

func (h HandlerFuncs) OnActionEnd(e Event) {
	if h.End != nil {
		h.End(e)
	}
}

func (h HandlerFuncs) OnActionCancel(e Event) {
	if h.Cancel != nil {
		h.Cancel(e)
	}
}

// project returns the largest component of v along the directions
// in d. DirAll measures the whole length of v.
func (d Direction) project(v f32.Point) float32 {
	if d == DirAll {
		return v.Len()
	}
	var p float32
	if d&DirLeft != 0 {
		p = max(p, -v.X)
	}
	if d&DirRight != 0 {
		p = max(p, v.X)
	}
	if d&DirUp != 0 {
		p = max(p, -v.Y)
	}
	if d&DirDown != 0 {
		p = max(p, v.Y)
	}
	return p
}

// directionOf returns the single direction v points to most.
func directionOf(v f32.Point) Direction {
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	switch {
	case ax == 0 && ay == 0:
		return DirNone
	case ax >= ay && v.X < 0:
		return DirLeft
	case ax >= ay:
		return DirRight
	case v.Y < 0:
		return DirUp
	default:
		return DirDown
	}
}

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateDetecting:
		return "Detecting"
	case StatePending:
		return "Pending"
	case StateSucceed:
		return "Succeed"
	case StateFail:
		return "Fail"
	default:
		panic("invalid State")
	}
}

func (d Disposal) String() string {
	switch d {
	case Accept:
		return "Accept"
	case Reject:
		return "Reject"
	case Pending:
		return "Pending"
	default:
		panic("invalid Disposal")
	}
}

func (k Kind) String() string {
	switch k {
	case KindLongPress:
		return "LongPress"
	case KindPan:
		return "Pan"
	case KindSwipe:
		return "Swipe"
	case KindPinch:
		return "Pinch"
	case KindRotation:
		return "Rotation"
	case KindTap:
		return "Tap"
	case KindSequenced:
		return "Sequenced"
	default:
		panic("invalid Kind")
	}
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "None"
	case DirAll:
		return "All"
	case DirHorizontal:
		return "Horizontal"
	case DirVertical:
		return "Vertical"
	}
	var s string
	for _, n := range []struct {
		d    Direction
		name string
	}{{DirLeft, "Left"}, {DirRight, "Right"}, {DirUp, "Up"}, {DirDown, "Down"}} {
		if d&n.d != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}
