// SPDX-License-Identifier: Unlicense OR MIT

package script

import (
	"fmt"
	"time"

	"arkgesture.org/app"
	"arkgesture.org/config"
	"arkgesture.org/drag"
	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/router"
	"arkgesture.org/render"
	"arkgesture.org/render/scene"
	"arkgesture.org/unit"
)

// trace collects callback lines.
type trace struct {
	loop  *app.Loop
	lines []string
}

// Replay plays s with tuning t on a manual clock and returns one line
// per callback, such as
//
//	520ms item longpress start (60,70)
func Replay(s *Script, t config.Tuning) []string {
	l := app.NewManualLoop()
	sc := scene.New(l, f32.Pt(s.Size[0], s.Size[1]))
	sc.Synchronous = true
	r := router.New(sc)
	session := drag.NewSession()
	tr := &trace{loop: l}

	type dragged struct {
		name string
		a    *drag.Actuator
	}
	var drags []dragged
	nodes := make(map[string]render.NodeID)
	for _, n := range s.Nodes {
		parent := sc.Root()
		if n.Parent != "" {
			parent = nodes[n.Parent]
		}
		rect := f32.Rect(n.Rect[0], n.Rect[1], n.Rect[2], n.Rect[3])
		id := sc.Add(parent, rect, scene.WithInspectorID(n.ID))
		nodes[n.ID] = id
		for _, g := range n.Gestures {
			rec := g.recognizer(l, t)
			rec.SetHandler(tr.gesture(n.ID, g.Type))
			r.Attach(id, rec)
		}
		if d := n.Drag; d != nil {
			opts := drag.Options{
				Fingers:   d.Fingers,
				Direction: directions[d.Direction],
				Distance:  d.Distance,
				Draggable: true,
				Handler:   tr.drag(n.ID),
				NoPreview: d.NoPreview,
			}
			if d.Text != "" {
				opts.Text = &drag.TextSource{Text: d.Text, Selection: rect.Sub(rect.Min)}
			}
			a := drag.NewActuator(drag.Deps{
				Loop:        l,
				Tree:        sc,
				Animator:    sc,
				Snapshotter: sc,
				Session:     session,
				Tuning:      t,
			}, id, opts)
			r.AttachCollector(id, a)
			drags = append(drags, dragged{n.ID, a})
		}
	}

	var end time.Duration
	for _, e := range s.Events {
		l.AdvanceTo(time.Duration(e.At))
		r.Queue(e.event(l.Now()))
		end = time.Duration(e.At)
	}
	l.AdvanceTo(max(end, time.Duration(s.Until)))
	for _, d := range drags {
		tr.printf("%s drag stage %v", d.name, d.a.Stage())
	}
	return tr.lines
}

func (g Gesture) recognizer(l *app.Loop, t config.Tuning) gesture.Recognizer {
	var r gesture.Recognizer
	dir := directions[g.Direction]
	switch g.Type {
	case "longpress":
		d := time.Duration(g.Duration)
		if d == 0 {
			d = time.Duration(t.LongPress)
		}
		lp := gesture.NewLongPress(l, g.Fingers, d, g.Repeat)
		lp.SetSlop(t.Slop)
		lp.SetMetric(t.Metric())
		r = lp
	case "pan":
		dist := t.PanDistance
		if g.Distance != nil {
			dist = *g.Distance
		}
		p := gesture.NewPan(l, g.Fingers, dir, dist)
		p.SetMetric(t.Metric())
		r = p
	case "swipe":
		s := gesture.NewSwipe(l, g.Fingers, dir, g.Speed)
		s.SetMetric(t.Metric())
		r = s
	case "pinch":
		var dist unit.Vp
		if g.Distance != nil {
			dist = *g.Distance
		}
		p := gesture.NewPinch(l, g.Fingers, dist)
		p.SetMetric(t.Metric())
		r = p
	case "rotation":
		r = gesture.NewRotation(l, g.Fingers, g.Angle)
	case "tap":
		tp := gesture.NewTap(l, g.Count, g.Fingers)
		tp.SetMetric(t.Metric())
		r = tp
	default:
		panic(fmt.Sprintf("script: unknown gesture %q", g.Type))
	}
	r.SetPriority(priorities[g.Priority])
	r.SetMask(masks[g.Mask])
	return r
}

func (t *trace) printf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf("%v ", t.loop.Now())+fmt.Sprintf(format, args...))
}

func (t *trace) gesture(node, typ string) gesture.HandlerFuncs {
	rec := func(phase string) func(gesture.Event) {
		return func(e gesture.Event) {
			t.printf("%s %s %s%s", node, typ, phase, describe(e))
		}
	}
	return gesture.HandlerFuncs{
		Start:  rec("start"),
		Update: rec("update"),
		End:    rec("end"),
		Cancel: rec("cancel"),
	}
}

func (t *trace) drag(node string) drag.HandlerFuncs {
	rec := func(phase string) func(gesture.Event) {
		return func(e gesture.Event) {
			t.printf("%s drag %s%s", node, phase, describe(e))
		}
	}
	return drag.HandlerFuncs{
		Start:  rec("start"),
		Move:   rec("move"),
		End:    rec("end"),
		Cancel: rec("cancel"),
	}
}

// describe formats the fields of e that are set.
func describe(e gesture.Event) string {
	s := fmt.Sprintf(" (%g,%g)", e.Global.X, e.Global.Y)
	if e.Repeat {
		s += " repeat"
	}
	if e.Offset != (f32.Point{}) {
		s += fmt.Sprintf(" offset=(%g,%g)", e.Offset.X, e.Offset.Y)
	}
	if e.Scale != 0 {
		s += fmt.Sprintf(" scale=%.2f", e.Scale)
	}
	if e.Angle != 0 {
		s += fmt.Sprintf(" angle=%.1f", e.Angle)
	}
	if e.Speed != 0 {
		s += fmt.Sprintf(" speed=%.0f", e.Speed)
	}
	if e.Count != 0 {
		s += fmt.Sprintf(" count=%d", e.Count)
	}
	return s
}
