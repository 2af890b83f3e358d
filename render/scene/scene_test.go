// SPDX-License-Identifier: Unlicense OR MIT

package scene

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/render"
)

var _ interface {
	render.Tree
	render.Animator
	render.Snapshotter
} = (*Scene)(nil)

func TestHitTest(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(400, 400))
	list := s.Add(s.Root(), f32.Rect(0, 0, 400, 300))
	item := s.Add(list, f32.Rect(50, 50, 150, 150))
	above := s.Add(list, f32.Rect(100, 100, 200, 200))

	assert.Equal(t, []render.NodeID{item, list, s.Root()}, s.HitTest(f32.Pt(60, 60)))
	// The later sibling is on top.
	assert.Equal(t, []render.NodeID{above, list, s.Root()}, s.HitTest(f32.Pt(120, 120)))
	assert.Equal(t, []render.NodeID{s.Root()}, s.HitTest(f32.Pt(10, 350)))
	assert.Empty(t, s.HitTest(f32.Pt(-1, 10)))

	// Overlay content is not hit.
	img := s.NewImage(image.NewRGBA(image.Rect(0, 0, 10, 10)), f32.Rect(0, 0, 400, 400))
	require.NoError(t, s.Mount(img, s.Overlay()))
	assert.Equal(t, []render.NodeID{item, list, s.Root()}, s.HitTest(f32.Pt(60, 60)))
}

func TestMount(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	a := s.Add(s.Root(), f32.Rect(0, 0, 50, 50))
	b := s.Add(a, f32.Rect(0, 0, 10, 10))
	assert.True(t, s.Mounted(b))

	s.Unmount(a)
	assert.False(t, s.Mounted(a))
	assert.False(t, s.Mounted(b))
	s.Unmount(a)

	assert.ErrorIs(t, s.Mount(a, b), ErrCycle)
	assert.ErrorIs(t, s.Mount(a, 999), ErrNoNode)
	require.NoError(t, s.Mount(a, s.Overlay()))
	assert.True(t, s.Mounted(b))
	assert.Equal(t, []render.NodeID{a}, s.Children(s.Overlay()))
}

func TestLookup(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	id := s.Add(s.Root(), f32.Rect(0, 0, 50, 50), WithInspectorID("card"))
	got, ok := s.Lookup("card")
	assert.True(t, ok)
	assert.Equal(t, id, got)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)
	_, ok = s.Lookup("")
	assert.False(t, ok)
}

func TestContextAnimate(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	id := s.Add(s.Root(), f32.Rect(0, 0, 50, 50))
	l.Advance(10 * time.Millisecond)
	s.Context(id).Animate(render.PropScale, 1, 1.1, 300*time.Millisecond, render.CurveEaseOut)

	assert.Equal(t, float32(1.1), s.Property(id, render.PropScale))
	assert.Equal(t, []Animation{{
		Node: id, Prop: render.PropScale, From: 1, To: 1.1,
		Duration: 300 * time.Millisecond, Curve: render.CurveEaseOut,
		Start: 10 * time.Millisecond,
	}}, s.Animations())
	assert.Nil(t, s.Context(999))
}

func TestAnimatorFinish(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	updated, finished := false, false
	s.Animate(render.AnimationOption{Duration: 100 * time.Millisecond}, func() { updated = true }, func() { finished = true })
	assert.True(t, updated)
	l.Advance(99 * time.Millisecond)
	assert.False(t, finished)
	l.Advance(time.Millisecond)
	assert.True(t, finished)
}

func TestThumbnail(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	red := color.RGBA{R: 0xff, A: 0xff}
	id := s.Add(s.Root(), f32.Rect(10, 10, 30, 20), WithColor(red))

	img := s.Context(id).Thumbnail(false)
	require.NotNil(t, img)
	assert.Equal(t, image.Pt(20, 10), img.Bounds().Size())
	assert.Equal(t, red, img.At(5, 5))
	// Cached.
	assert.Same(t, img, s.Context(id).Thumbnail(true))
}

func TestThumbnailAsyncWarmsCache(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	s.Synchronous = true
	id := s.Add(s.Root(), f32.Rect(0, 0, 20, 20))
	assert.Nil(t, s.Context(id).Thumbnail(true))
	l.Flush()
	assert.NotNil(t, s.Context(id).Thumbnail(true))
}

func TestCaptureAsync(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	id := s.NewImage(image.NewRGBA(image.Rect(0, 0, 8, 8)), f32.Rect(0, 0, 8, 8))

	var got image.Image
	calls := 0
	s.CaptureAsync(id, func(img image.Image) {
		calls++
		got = img
	}, false, time.Second)
	require.Eventually(t, func() bool {
		l.Flush()
		return calls > 0
	}, time.Second, time.Millisecond)
	assert.NotNil(t, got)
	// Delivery stops the timeout.
	assert.Zero(t, l.Timers())
	l.Advance(2 * time.Second)
	assert.Equal(t, 1, calls)
}

func TestCaptureAsyncEmpty(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	s.Synchronous = true
	empty := s.Add(s.Root(), f32.Rectangle{})

	delivered := false
	var got image.Image = image.NewRGBA(image.Rect(0, 0, 1, 1))
	s.CaptureAsync(empty, func(img image.Image) {
		delivered = true
		got = img
	}, false, 0)
	l.Flush()
	assert.True(t, delivered)
	assert.Nil(t, got)

	delivered = false
	s.CaptureAsync(999, func(img image.Image) { delivered = true }, true, 0)
	l.Flush()
	assert.True(t, delivered)
}

func TestCaptureSynchronous(t *testing.T) {
	l := app.NewManualLoop()
	s := New(l, f32.Pt(100, 100))
	s.Synchronous = true
	id := s.Add(s.Root(), f32.Rect(0, 0, 20, 20))
	calls := 0
	var got image.Image
	s.CaptureAsync(id, func(img image.Image) {
		calls++
		got = img
	}, true, 0)
	// A synchronous capture completes on the next flush, before any
	// timeout.
	l.Flush()
	assert.Equal(t, 1, calls)
	assert.NotNil(t, got)
}
