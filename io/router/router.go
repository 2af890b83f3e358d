// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router dispatches pointer events to gesture recognizers.

A Router hit tests every press against a render.Tree and gathers
the recognizers attached to the nodes under the pointer, deepest
first, into the gesture.Arena of the current touch sequence. Every
event is then delivered to all arena members inside one arena tick,
with its position translated to the member's node.

The arena lives until the last pointer is up and no member is still
detecting, so multi-tap recognizers may span several presses.
*/
package router

import (
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"

	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/pointer"
	"arkgesture.org/render"
)

// Router dispatches pointer events to the recognizers of a tree.
type Router struct {
	tree     render.Tree
	hubs     map[render.NodeID]*hub
	pointers []pointer.ID
	arena    *gesture.Arena
}

// Collector supplies recognizers at hit test time, for nodes whose
// recognizers depend on the pressing pointer.
type Collector interface {
	CollectRecognizers(e pointer.Event) []gesture.Recognizer
}

// hub is the gesture attachment of one node.
type hub struct {
	recognizers []gesture.Recognizer
	collectors  []Collector
}

// tracer traces with key 'arkgesture.router'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.router")
}

// New returns a router for tree.
func New(tree render.Tree) *Router {
	return &Router{
		tree: tree,
		hubs: make(map[render.NodeID]*hub),
	}
}

// Attach attaches recognizers to node.
func (q *Router) Attach(node render.NodeID, recs ...gesture.Recognizer) {
	h := q.hub(node)
	for _, r := range recs {
		r.SetNode(node)
		h.recognizers = append(h.recognizers, r)
	}
}

// AttachCollector attaches a recognizer collector to node.
func (q *Router) AttachCollector(node render.NodeID, c Collector) {
	h := q.hub(node)
	h.collectors = append(h.collectors, c)
}

func (q *Router) hub(node render.NodeID) *hub {
	h, ok := q.hubs[node]
	if !ok {
		h = new(hub)
		q.hubs[node] = h
	}
	return h
}

// Detach removes the gesture attachment of node. Its recognizers
// that take part in the current touch sequence receive a Cancel for
// every pointer down, leave the arena and are reset.
func (q *Router) Detach(node render.NodeID) {
	if _, ok := q.hubs[node]; !ok {
		return
	}
	delete(q.hubs, node)
	if q.arena == nil || q.arena.Closed() {
		return
	}
	var dropped []gesture.Recognizer
	for _, r := range q.arena.Members() {
		if r.Node() == node {
			dropped = append(dropped, r)
		}
	}
	if len(dropped) == 0 {
		return
	}
	tracer().Debugf("detach %d: dropping %d recognizers", node, len(dropped))
	q.arena.Begin()
	for _, r := range dropped {
		for _, id := range q.pointers {
			r.HandleEvent(pointer.Event{Kind: pointer.Cancel, PointerID: id})
		}
	}
	q.arena.End()
	for _, r := range dropped {
		q.arena.Remove(r)
		r.Reset()
	}
}

// Arena returns the arena of the current touch sequence, or nil.
func (q *Router) Arena() *gesture.Arena {
	if q.arena == nil || q.arena.Closed() {
		return nil
	}
	return q.arena
}

// Queue dispatches events in order. Positions are in window
// coordinates.
func (q *Router) Queue(events ...pointer.Event) {
	for _, e := range events {
		q.push(e)
	}
}

func (q *Router) push(e pointer.Event) {
	e.Global = e.Position
	switch e.Kind {
	case pointer.Cancel:
		q.cancel()
		return
	case pointer.Press:
		if slices.Contains(q.pointers, e.PointerID) {
			tracer().Infof("press of pointer %d that is already down", e.PointerID)
			return
		}
		q.pointers = append(q.pointers, e.PointerID)
		q.collect(e)
	case pointer.Move, pointer.Release:
		if !slices.Contains(q.pointers, e.PointerID) {
			return
		}
	}
	a := q.arena
	if a == nil {
		return
	}
	q.deliver(a, e)
	if e.Kind == pointer.Release {
		i := slices.Index(q.pointers, e.PointerID)
		q.pointers = slices.Delete(q.pointers, i, i+1)
		if len(q.pointers) == 0 {
			a.CloseWhenSettled()
		}
	}
}

// collect adds the recognizers hit by e to the arena of the
// sequence, creating it at the first press.
func (q *Router) collect(e pointer.Event) {
	if q.arena == nil || q.arena.Closed() {
		q.arena = gesture.NewArena()
	} else {
		q.arena.Reopen()
	}
	// Walk from the root towards the pointer; a recognizer masking
	// internal gestures hides the nodes below its own.
	chain := q.tree.HitTest(e.Position)
	var levels [][]gesture.Recognizer
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		h, ok := q.hubs[node]
		if !ok {
			continue
		}
		le := e
		le.Position = q.local(node, e.Position)
		recs := append([]gesture.Recognizer(nil), h.recognizers...)
		for _, c := range h.collectors {
			for _, r := range c.CollectRecognizers(le) {
				r.SetNode(node)
				recs = append(recs, r)
			}
		}
		levels = append(levels, recs)
		if slices.ContainsFunc(recs, func(r gesture.Recognizer) bool {
			return r.Mask() == gesture.MaskIgnoreInternal
		}) {
			break
		}
	}
	// Deepest first.
	for i := len(levels) - 1; i >= 0; i-- {
		for _, r := range levels[i] {
			q.arena.Add(r)
		}
	}
	tracer().Debugf("press %d at %v: %d nodes, %d members", e.PointerID, e.Position, len(chain), len(q.arena.Members()))
}

func (q *Router) deliver(a *gesture.Arena, e pointer.Event) {
	members := append([]gesture.Recognizer(nil), a.Members()...)
	a.Begin()
	defer a.End()
	for _, r := range members {
		le := e
		le.Position = q.local(r.Node(), e.Position)
		r.HandleEvent(le)
	}
}

func (q *Router) local(node render.NodeID, p f32.Point) f32.Point {
	b, ok := q.tree.Bounds(node)
	if !ok {
		return p
	}
	return p.Sub(b.Min)
}

// cancel interrupts the touch sequence: members receive a Cancel for
// every pointer down, then the arena forces the rest out.
func (q *Router) cancel() {
	a := q.arena
	ids := q.pointers
	q.pointers = nil
	if a == nil || a.Closed() {
		return
	}
	tracer().Debugf("cancel of %d pointers", len(ids))
	members := append([]gesture.Recognizer(nil), a.Members()...)
	a.Begin()
	for _, id := range ids {
		for _, r := range members {
			r.HandleEvent(pointer.Event{Kind: pointer.Cancel, PointerID: id})
		}
	}
	a.End()
	a.Cancel()
}
