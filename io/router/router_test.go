// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/pointer"
	"arkgesture.org/render/scene"
)

type recorder struct {
	names  []string
	events []gesture.Event
}

func (r *recorder) handler(prefix string) gesture.HandlerFuncs {
	rec := func(name string) func(gesture.Event) {
		return func(e gesture.Event) {
			r.names = append(r.names, prefix+" "+name)
			r.events = append(r.events, e)
		}
	}
	return gesture.HandlerFuncs{
		Start:  rec("start"),
		Update: rec("update"),
		End:    rec("end"),
		Cancel: rec("cancel"),
	}
}

func touch(l *app.Loop, k pointer.Kind, id pointer.ID, x, y float32) pointer.Event {
	return pointer.Event{
		Kind:      k,
		Source:    pointer.Touch,
		PointerID: id,
		Time:      l.Now(),
		Position:  f32.Pt(x, y),
	}
}

func newFixture() (*app.Loop, *scene.Scene, *Router) {
	l := app.NewManualLoop()
	s := scene.New(l, f32.Pt(400, 400))
	return l, s, New(s)
}

func TestLongPressOnItem(t *testing.T) {
	l, s, r := newFixture()
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))

	var got recorder
	lp := gesture.NewLongPress(l, 1, 0, false)
	lp.SetHandler(got.handler("press"))
	pan := gesture.NewPan(l, 1, gesture.DirVertical, -1)
	pan.SetHandler(got.handler("pan"))
	r.Attach(item, lp)
	r.Attach(list, pan)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	require.NotNil(t, r.Arena())
	assert.Equal(t, []gesture.Recognizer{lp, pan}, r.Arena().Members())
	assert.Equal(t, item, lp.Node())

	l.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"press start"}, got.names)
	// Local to the item.
	assert.Equal(t, f32.Pt(10, 20), got.events[0].Position)
	assert.Equal(t, f32.Pt(60, 70), got.events[0].Global)
	assert.Equal(t, gesture.StateFail, pan.State())

	r.Queue(touch(l, pointer.Release, 1, 60, 70))
	assert.Equal(t, []string{"press start", "press end"}, got.names)
	assert.Nil(t, r.Arena())
}

func TestPanOnList(t *testing.T) {
	l, s, r := newFixture()
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))

	var got recorder
	lp := gesture.NewLongPress(l, 1, 0, false)
	lp.SetHandler(got.handler("press"))
	pan := gesture.NewPan(l, 1, gesture.DirVertical, -1)
	pan.SetHandler(got.handler("pan"))
	r.Attach(item, lp)
	r.Attach(list, pan)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	l.Advance(10 * time.Millisecond)
	r.Queue(touch(l, pointer.Move, 1, 60, 100))
	assert.Equal(t, []string{"pan start"}, got.names)
	assert.Equal(t, gesture.StateFail, lp.State())

	// The long press deadline was cancelled.
	l.Advance(time.Second)
	assert.Equal(t, []string{"pan start"}, got.names)

	r.Queue(touch(l, pointer.Release, 1, 60, 100))
	assert.Equal(t, []string{"pan start", "pan end"}, got.names)
	assert.Nil(t, r.Arena())
	assert.Equal(t, gesture.StateReady, pan.State())
}

func TestIgnoreInternal(t *testing.T) {
	l, s, r := newFixture()
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))

	lp := gesture.NewLongPress(l, 1, 0, false)
	pan := gesture.NewPan(l, 1, gesture.DirAll, -1)
	pan.SetMask(gesture.MaskIgnoreInternal)
	r.Attach(item, lp)
	r.Attach(list, pan)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	assert.Equal(t, []gesture.Recognizer{pan}, r.Arena().Members())
	assert.Equal(t, gesture.StateReady, lp.State())
}

type collector struct {
	rec  gesture.Recognizer
	seen []pointer.Event
}

func (c *collector) CollectRecognizers(e pointer.Event) []gesture.Recognizer {
	c.seen = append(c.seen, e)
	return []gesture.Recognizer{c.rec}
}

func TestCollector(t *testing.T) {
	l, s, r := newFixture()
	item := s.Add(s.Root(), f32.Rect(50, 50, 150, 150))
	c := &collector{rec: gesture.NewTap(l, 1, 1)}
	r.AttachCollector(item, c)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	require.Len(t, c.seen, 1)
	assert.Equal(t, f32.Pt(10, 20), c.seen[0].Position)
	assert.Equal(t, item, c.rec.Node())
	r.Queue(touch(l, pointer.Release, 1, 60, 70))
	assert.Equal(t, gesture.StateReady, c.rec.State())
	assert.Nil(t, r.Arena())
}

func TestArenaSpansTaps(t *testing.T) {
	l, s, r := newFixture()
	item := s.Add(s.Root(), f32.Rect(0, 0, 100, 100))
	var got recorder
	tap := gesture.NewTap(l, 2, 1)
	tap.SetHandler(got.handler("tap"))
	r.Attach(item, tap)

	r.Queue(touch(l, pointer.Press, 1, 10, 10), touch(l, pointer.Release, 1, 10, 10))
	// The tap waits for its second press.
	a := r.Arena()
	require.NotNil(t, a)
	l.Advance(100 * time.Millisecond)
	r.Queue(touch(l, pointer.Press, 2, 12, 10))
	assert.Same(t, a, r.Arena())
	r.Queue(touch(l, pointer.Release, 2, 12, 10))
	assert.Equal(t, []string{"tap start", "tap end"}, got.names)
	assert.Nil(t, r.Arena())
}

func TestCancel(t *testing.T) {
	l, s, r := newFixture()
	item := s.Add(s.Root(), f32.Rect(0, 0, 100, 100))
	var got recorder
	lp := gesture.NewLongPress(l, 1, 0, false)
	lp.SetHandler(got.handler("press"))
	r.Attach(item, lp)

	r.Queue(touch(l, pointer.Press, 1, 10, 10))
	l.Advance(600 * time.Millisecond)
	r.Queue(pointer.Event{Kind: pointer.Cancel})
	assert.Equal(t, []string{"press start", "press cancel"}, got.names)
	assert.Nil(t, r.Arena())

	// Stray events of the cancelled sequence are ignored.
	r.Queue(touch(l, pointer.Release, 1, 10, 10))
	assert.Equal(t, []string{"press start", "press cancel"}, got.names)
}

func TestDetach(t *testing.T) {
	l, s, r := newFixture()
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))
	var got recorder
	lp := gesture.NewLongPress(l, 1, 0, false)
	lp.SetHandler(got.handler("press"))
	r.Attach(item, lp)
	pan := gesture.NewPan(l, 1, gesture.DirAll, -1)
	r.Attach(list, pan)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	l.Advance(600 * time.Millisecond)
	r.Detach(item)
	assert.Equal(t, []string{"press start", "press cancel"}, got.names)
	assert.Equal(t, gesture.StateReady, lp.State())

	r.Queue(touch(l, pointer.Release, 1, 60, 70))
	r.Queue(touch(l, pointer.Press, 2, 60, 70))
	assert.Equal(t, []gesture.Recognizer{pan}, r.Arena().Members())
}

func TestDetachDuringSequence(t *testing.T) {
	l, s, r := newFixture()
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))
	var got recorder
	lp := gesture.NewLongPress(l, 1, 0, false)
	lp.SetHandler(got.handler("press"))
	r.Attach(item, lp)
	pan := gesture.NewPan(l, 2, gesture.DirAll, -1)
	r.Attach(list, pan)

	r.Queue(touch(l, pointer.Press, 1, 60, 70))
	l.Advance(100 * time.Millisecond)
	r.Detach(item)
	require.NotNil(t, r.Arena())
	assert.Equal(t, []gesture.Recognizer{pan}, r.Arena().Members())

	// A second finger joins the sequence on the list.
	r.Queue(touch(l, pointer.Press, 2, 300, 250))
	l.Advance(600 * time.Millisecond)
	assert.Empty(t, got.names)
	assert.Equal(t, gesture.StateReady, lp.State())
	assert.Equal(t, []gesture.Recognizer{pan}, r.Arena().Members())
	assert.Nil(t, r.Arena().Winner())
}

func TestPressOutside(t *testing.T) {
	l, s, r := newFixture()
	item := s.Add(s.Root(), f32.Rect(0, 0, 100, 100))
	tap := gesture.NewTap(l, 1, 1)
	r.Attach(item, tap)
	r.Queue(touch(l, pointer.Press, 1, 200, 200))
	assert.Empty(t, r.Arena().Members())
	r.Queue(touch(l, pointer.Release, 1, 200, 200))
	assert.Nil(t, r.Arena())
}
