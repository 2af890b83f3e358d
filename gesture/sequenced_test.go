// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/io/pointer"
)

func newPressThenPan(l *app.Loop) (*Sequenced, *LongPress, *Pan, *phases, *phases) {
	lp := NewLongPress(l, 1, 0, false)
	pan := NewPan(l, 1, DirAll, -1)
	var lpGot, panGot phases
	lp.SetHandler(lpGot.handler())
	pan.SetHandler(panGot.handler())
	return NewSequenced(l, lp, pan), lp, pan, &lpGot, &panGot
}

func TestSequencedGating(t *testing.T) {
	l := app.NewManualLoop()
	seq, lp, pan, lpGot, panGot := newPressThenPan(l)
	a := NewArena(seq)

	dispatch(a, touch(l, pointer.Press, 1, 100, 100))
	// Movement past the pan distance but inside the long press slop
	// is not seen by the pan yet.
	dispatch(a, touch(l, pointer.Move, 1, 110, 100))
	assert.Equal(t, StateReady, pan.State())
	assert.Equal(t, StateDetecting, lp.State())
	assert.Empty(t, panGot.names)

	l.Advance(500 * time.Millisecond)
	assert.Equal(t, StateSucceed, lp.State())
	assert.Equal(t, []string{"start"}, lpGot.names)
	assert.Equal(t, StatePending, seq.State())
	// The pan got the finger down as a press at its current position.
	assert.Equal(t, StateDetecting, pan.State())
	assert.Equal(t, Recognizer(pan), seq.Current())

	dispatch(a, touch(l, pointer.Move, 1, 116, 100))
	assert.Equal(t, StateSucceed, seq.State())
	assert.Equal(t, []string{"start"}, panGot.names)
	assert.Equal(t, f32.Pt(6, 0), panGot.last().Offset)

	dispatch(a, touch(l, pointer.Move, 1, 126, 100))
	dispatch(a, touch(l, pointer.Release, 1, 126, 100))
	assert.Equal(t, []string{"start", "update", "end"}, panGot.names)
	assert.Equal(t, []string{"start"}, lpGot.names)
}

func TestSequencedFirstRejects(t *testing.T) {
	l := app.NewManualLoop()
	seq, lp, pan, _, panGot := newPressThenPan(l)
	a := NewArena(seq)

	dispatch(a, touch(l, pointer.Press, 1, 100, 100))
	dispatch(a, touch(l, pointer.Move, 1, 130, 100))
	assert.Equal(t, StateFail, lp.State())
	assert.Equal(t, StateFail, seq.State())

	l.Advance(time.Second)
	dispatch(a, touch(l, pointer.Move, 1, 200, 100))
	assert.NotEqual(t, StateSucceed, pan.State())
	assert.Empty(t, panGot.names)
}

func TestSequencedCancelsEarlierChildren(t *testing.T) {
	l := app.NewManualLoop()
	seq, _, _, lpGot, panGot := newPressThenPan(l)
	a := NewArena(seq)

	dispatch(a, touch(l, pointer.Press, 1, 100, 100))
	l.Advance(500 * time.Millisecond)
	// Lifting without a pan fails the sequence.
	dispatch(a, touch(l, pointer.Release, 1, 100, 100))

	assert.Equal(t, StateFail, seq.State())
	assert.Equal(t, []string{"start", "cancel"}, lpGot.names)
	assert.Empty(t, panGot.names)
}

func TestSequencedCompetesWithSibling(t *testing.T) {
	l := app.NewManualLoop()
	seq, _, _, lpGot, _ := newPressThenPan(l)
	scroll := NewPan(l, 1, DirVertical, -1)
	a := NewArena(seq, scroll)

	dispatch(a, touch(l, pointer.Press, 1, 100, 100))
	l.Advance(500 * time.Millisecond)
	dispatch(a, touch(l, pointer.Move, 1, 100, 90))

	// Both pans match in the same tick; the sequence proposed first.
	assert.Equal(t, StateSucceed, seq.State())
	assert.Equal(t, StateFail, scroll.State())
	assert.Equal(t, []string{"start"}, lpGot.names)
}

func TestSequencedResetRestarts(t *testing.T) {
	l := app.NewManualLoop()
	seq, lp, pan, _, _ := newPressThenPan(l)
	a := NewArena(seq)
	dispatch(a, touch(l, pointer.Press, 1, 100, 100))
	l.Advance(500 * time.Millisecond)
	a.Close()

	assert.Equal(t, StateReady, seq.State())
	assert.Equal(t, StateReady, lp.State())
	assert.Equal(t, StateReady, pan.State())
	assert.Equal(t, Recognizer(lp), seq.Current())
}
