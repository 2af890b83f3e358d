// SPDX-License-Identifier: Unlicense OR MIT

/*
Package drag implements the press-then-drag interaction of a node.

An Actuator composes three recognizers. A long press of the tuned
duration, 500ms by default, marks the node as about to be dragged and
is followed in sequence by a pan that moves the drag. A second long
press running in parallel, 800ms by default, mounts a floating
preview of the node with a blurred backdrop filter. Mouse presses
skip both long presses and drag as soon as the pan distance is
covered.

	Idle -> AboutToPreview -> PreviewShown -> Dragging -> Ended
	                                                   \-> Cancelled

The actuators of a window share a Session, which admits one drag and
one floating preview at a time.
*/
package drag

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"arkgesture.org/app"
	"arkgesture.org/config"
	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/pointer"
	"arkgesture.org/render"
	"arkgesture.org/unit"
)

// Stage of a drag interaction.
type Stage uint8

const (
	StageIdle Stage = iota
	// StageAboutToPreview follows the drag long press.
	StageAboutToPreview
	// StagePreviewShown follows the preview long press.
	StagePreviewShown
	StageDragging
	StageEnded
	StageCancelled
)

// Handler receives the phases of a drag.
type Handler interface {
	OnDragStart(e gesture.Event)
	OnDragMove(e gesture.Event)
	OnDragEnd(e gesture.Event)
	OnDragCancel(e gesture.Event)
}

// HandlerFuncs adapts optional functions to a Handler.
type HandlerFuncs struct {
	Start  func(e gesture.Event)
	Move   func(e gesture.Event)
	End    func(e gesture.Event)
	Cancel func(e gesture.Event)
}

// TextSource is draggable text. Its preview is a rendering of the
// text instead of a snapshot of the node.
type TextSource struct {
	Text string
	// Selection is the selected text in node coordinates. The
	// preview only shows for presses inside it.
	Selection f32.Rectangle
	Color     color.Color
}

// Options configures an Actuator.
type Options struct {
	// Fingers of the drag, 1 if zero.
	Fingers int
	// Direction of the drag, every direction if DirNone.
	Direction gesture.Direction
	// Distance the fingers move before the drag starts. Zero means
	// the tuned pan distance.
	Distance  unit.Vp
	Draggable bool
	// Handler is the custom drag handler. A node that is not
	// Draggable but has a Handler takes no part in drags.
	Handler Handler
	// Judge may veto the drag long press.
	Judge gesture.JudgeFunc

	// The preview is the first available of PixelMap, the screenshot
	// of the node with InspectorID, the snapshot of Builder and the
	// thumbnail of the node itself.
	PixelMap    image.Image
	InspectorID string
	Builder     render.NodeID
	Text        *TextSource
	// NoPreview disables the floating preview.
	NoPreview bool
}

// Deps are the services an Actuator drives.
type Deps struct {
	Loop        *app.Loop
	Tree        render.Tree
	Animator    render.Animator
	Snapshotter render.Snapshotter
	Session     *Session
	Tuning      config.Tuning
}

// Actuator is the drag interaction of one node. It persists across
// touch sequences; its recognizers are reset by every arena they
// take part in.
type Actuator struct {
	deps    Deps
	node    render.NodeID
	opts    Options
	enabled bool

	longPress *gesture.LongPress
	pan       *gesture.Pan
	sequenced *gesture.Sequenced
	preview   *gesture.LongPress
	mousePan  *gesture.Pan
	mouseSeq  *gesture.Sequenced

	stage        Stage
	notInPreview bool
	userReject   bool

	// gen counts touch sequences. Captures started in an earlier
	// sequence are dropped.
	gen        int
	pixelMap   render.NodeID
	filterNode render.NodeID
	captured   image.Image
	capturing  bool
	// showOnCapture mounts the preview when the capture completes.
	showOnCapture bool
}

// tracer traces with key 'arkgesture.drag'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.drag")
}

// NewActuator returns the drag interaction of node.
func NewActuator(deps Deps, node render.NodeID, opts Options) *Actuator {
	if opts.Fingers <= 0 {
		opts.Fingers = 1
	}
	t := deps.Tuning
	distance := opts.Distance
	if distance <= 0 {
		distance = t.PanDistance
	}
	a := &Actuator{
		deps:    deps,
		node:    node,
		opts:    opts,
		enabled: true,
	}
	dragPhases := gesture.HandlerFuncs{
		Start:  a.onDragStart,
		Update: a.onDragMove,
		End:    a.onDragEnd,
		Cancel: a.onDragCancel,
	}

	a.longPress = gesture.NewLongPress(deps.Loop, opts.Fingers, time.Duration(t.LongPress), false)
	a.longPress.SetCatchMode(true)
	a.longPress.SetRejectLatch(a)
	a.longPress.SetJudge(opts.Judge)
	a.longPress.SetSlop(t.Slop)
	a.longPress.SetHandler(gesture.HandlerFuncs{
		Start:  a.onLongPress,
		End:    a.onLongPressEnd,
		Cancel: a.onLongPressEnd,
	})
	a.pan = gesture.NewPan(deps.Loop, opts.Fingers, opts.Direction, distance)
	a.pan.SetHandler(dragPhases)
	a.sequenced = gesture.NewSequenced(deps.Loop, a.longPress, a.pan)

	a.preview = gesture.NewLongPress(deps.Loop, opts.Fingers, time.Duration(t.Preview), false)
	a.preview.SetPriority(gesture.PriorityParallel)
	a.preview.SetSlop(t.Slop)
	a.preview.SetThumbnail(time.Duration(t.ThumbnailLead), a.prepareThumbnail)
	a.preview.SetHandler(gesture.HandlerFuncs{
		Start:  a.onPreview,
		End:    a.onPreviewEnd,
		Cancel: a.onPreviewCancel,
	})

	a.mousePan = gesture.NewPan(deps.Loop, 1, opts.Direction, t.MousePanDistance)
	a.mousePan.SetHandler(dragPhases)
	a.mouseSeq = gesture.NewSequenced(deps.Loop, a.mousePan)

	m := t.Metric()
	a.longPress.SetMetric(m)
	a.pan.SetMetric(m)
	a.preview.SetMetric(m)
	a.mousePan.SetMetric(m)
	return a
}

// Node returns the node the actuator drags.
func (a *Actuator) Node() render.NodeID {
	return a.node
}

// Stage returns the stage of the current or last drag.
func (a *Actuator) Stage() Stage {
	return a.stage
}

// SetEnabled switches the drag interaction on or off for later touch
// sequences.
func (a *Actuator) SetEnabled(enabled bool) {
	a.enabled = enabled
}

// IsNotInPreview reports whether the drag long press succeeded and
// the preview has not shown yet.
func (a *Actuator) IsNotInPreview() bool {
	return a.notInPreview
}

// IsUserReject reports whether the judge rejected the drag long press
// in the current touch sequence.
func (a *Actuator) IsUserReject() bool {
	return a.userReject
}

// SetUserReject sets the reject latch checked before the judge.
func (a *Actuator) SetUserReject(reject bool) {
	a.userReject = reject
}

// CollectRecognizers returns the recognizers a press of e starts.
// Nodes that cannot drag, and every node while a drag is in
// progress, contribute none.
func (a *Actuator) CollectRecognizers(e pointer.Event) []gesture.Recognizer {
	switch {
	case !a.enabled:
		return nil
	case !a.opts.Draggable && a.opts.Handler != nil:
		return nil
	case !a.opts.Draggable && a.opts.Text == nil:
		return nil
	case a.deps.Session.IsDragging():
		tracer().Debugf("drag@%d: another drag is in progress", a.node)
		return nil
	}
	if e.Source == pointer.Mouse {
		if a.mouseSeq.State() == gesture.StateReady {
			a.begin()
		}
		return []gesture.Recognizer{a.mouseSeq}
	}
	if a.sequenced.State() == gesture.StateReady && a.preview.State() == gesture.StateReady {
		a.begin()
	}
	return []gesture.Recognizer{a.sequenced, a.preview}
}

// begin prepares a new touch sequence.
func (a *Actuator) begin() {
	a.gen++
	a.stage = StageIdle
	a.notInPreview = false
	a.userReject = false
	a.captured = nil
	a.capturing = false
	a.showOnCapture = false
}

func (a *Actuator) onLongPress(e gesture.Event) {
	if a.stage != StageIdle {
		return
	}
	tracer().Debugf("drag@%d: about to preview", a.node)
	a.stage = StageAboutToPreview
	a.notInPreview = true
}

// onLongPressEnd handles the end of the drag long press. Before the
// preview shows there is nothing to tear down; afterwards the preview
// long press ends the interaction.
func (a *Actuator) onLongPressEnd(e gesture.Event) {
	if a.stage != StageAboutToPreview {
		return
	}
	tracer().Debugf("drag@%d: cancelled before the preview", a.node)
	a.notInPreview = false
	a.stage = StageCancelled
}

func (a *Actuator) prepareThumbnail(e gesture.Event) {
	if a.stage != StageAboutToPreview || a.opts.NoPreview {
		return
	}
	switch {
	case a.opts.Text != nil, a.opts.PixelMap != nil:
	case a.opts.Builder != render.NoNode:
		if a.captured == nil && !a.capturing {
			a.capture()
		}
	default:
		if ctx := a.deps.Tree.Context(a.node); ctx != nil {
			ctx.Thumbnail(true)
		}
	}
}

func (a *Actuator) onPreview(e gesture.Event) {
	s := a.deps.Session
	switch {
	case a.stage != StageAboutToPreview:
		return
	case a.opts.NoPreview:
		return
	case a.opts.Text != nil && !a.opts.Text.Selection.Contains(e.Position):
		tracer().Debugf("drag@%d: press at %v outside the text selection", a.node, e.Position)
		return
	case s.HasPixelMap():
		tracer().Infof("drag@%d: a preview is already mounted", a.node)
		return
	case !s.TryBeginDrag(a):
		return
	}
	a.stage = StagePreviewShown
	a.notInPreview = false
	a.showPreview()
}

func (a *Actuator) onPreviewEnd(e gesture.Event) {
	if a.stage != StagePreviewShown {
		return
	}
	a.stage = StageEnded
	a.teardown()
}

func (a *Actuator) onPreviewCancel(e gesture.Event) {
	if a.stage != StagePreviewShown {
		return
	}
	a.stage = StageCancelled
	a.teardown()
}

func (a *Actuator) onDragStart(e gesture.Event) {
	if !a.deps.Session.TryBeginDrag(a) {
		tracer().Infof("drag@%d: another drag is in progress", a.node)
		return
	}
	if a.stage == StagePreviewShown {
		a.hidePreview()
	}
	tracer().Debugf("drag@%d: dragging from %v", a.node, e.Global)
	a.stage = StageDragging
	a.notInPreview = false
	if h := a.opts.Handler; h != nil {
		h.OnDragStart(e)
	}
}

func (a *Actuator) onDragMove(e gesture.Event) {
	if a.stage != StageDragging {
		return
	}
	if h := a.opts.Handler; h != nil {
		h.OnDragMove(e)
	}
}

func (a *Actuator) onDragEnd(e gesture.Event) {
	if a.stage != StageDragging {
		return
	}
	defer a.deps.Session.EndDrag(a)
	a.stage = StageEnded
	if h := a.opts.Handler; h != nil {
		h.OnDragEnd(e)
	}
}

func (a *Actuator) onDragCancel(e gesture.Event) {
	if a.stage != StageDragging {
		return
	}
	defer a.deps.Session.EndDrag(a)
	a.stage = StageCancelled
	if h := a.opts.Handler; h != nil {
		h.OnDragCancel(e)
	}
}

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageAboutToPreview:
		return "AboutToPreview"
	case StagePreviewShown:
		return "PreviewShown"
	case StageDragging:
		return "Dragging"
	case StageEnded:
		return "Ended"
	case StageCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

func (h HandlerFuncs) OnDragStart(e gesture.Event) {
	if h.Start != nil {
		h.Start(e)
	}
}

func (h HandlerFuncs) OnDragMove(e gesture.Event) {
	if h.Move != nil {
		h.Move(e)
	}
}

func (h HandlerFuncs) OnDragEnd(e gesture.Event) {
	if h.End != nil {
		h.End(e)
	}
}

func (h HandlerFuncs) OnDragCancel(e gesture.Event) {
	if h.Cancel != nil {
		h.Cancel(e)
	}
}
