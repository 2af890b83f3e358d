// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arkgesture.org/app"
	"arkgesture.org/io/pointer"
)

// dispatch delivers e to every member of a within one tick, the way
// the router does.
func dispatch(a *Arena, e pointer.Event) {
	a.Begin()
	defer a.End()
	for _, r := range a.Members() {
		r.HandleEvent(e)
	}
}

func succeeded(a *Arena) int {
	n := 0
	for _, r := range a.Members() {
		if r.State() == StateSucceed && r.Priority() != PriorityParallel {
			n++
		}
	}
	return n
}

func TestArenaMutualExclusion(t *testing.T) {
	l := app.NewManualLoop()
	lp1 := NewLongPress(l, 1, 0, false)
	lp2 := NewLongPress(l, 1, 0, false)
	pan := NewPan(l, 1, DirAll, -1)
	a := NewArena(lp1, lp2, pan)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	l.Advance(500 * time.Millisecond)

	assert.Equal(t, 1, succeeded(a))
	assert.Equal(t, StateSucceed, lp1.State())
	assert.Equal(t, StateFail, lp2.State())
	assert.Equal(t, StateFail, pan.State())
	assert.Equal(t, Recognizer(lp1), a.Winner())

	// Movement after the win does not produce a second winner.
	dispatch(a, touch(l, pointer.Move, 1, 60, 10))
	assert.Equal(t, 1, succeeded(a))
}

func TestArenaPanBeatsLongPress(t *testing.T) {
	l := app.NewManualLoop()
	lp := NewLongPress(l, 1, 0, false)
	pan := NewPan(l, 1, DirAll, -1)
	var got phases
	pan.SetHandler(got.handler())
	a := NewArena(lp, pan)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	l.Advance(100 * time.Millisecond)
	dispatch(a, touch(l, pointer.Move, 1, 16, 10))

	assert.Equal(t, StateSucceed, pan.State())
	assert.Equal(t, StateFail, lp.State())
	assert.Equal(t, []string{"start"}, got.names)
	// The losing long press never fires.
	l.Advance(time.Second)
	assert.Equal(t, StateFail, lp.State())
}

func TestArenaPriorityInTick(t *testing.T) {
	l := app.NewManualLoop()
	low := NewPan(l, 1, DirAll, 0)
	high := NewPan(l, 1, DirAll, 0)
	high.SetPriority(PriorityHigh)
	// The low priority member proposes first.
	a := NewArena(low, high)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))

	assert.Equal(t, StateSucceed, high.State())
	assert.Equal(t, StateFail, low.State())
}

func TestArenaEqualPriorityFirstWins(t *testing.T) {
	l := app.NewManualLoop()
	p1 := NewPan(l, 1, DirAll, 0)
	p2 := NewPan(l, 1, DirAll, 0)
	a := NewArena(p1, p2)
	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	assert.Equal(t, StateSucceed, p1.State())
	assert.Equal(t, StateFail, p2.State())
}

func TestArenaPendingHigherPriorityBlocks(t *testing.T) {
	l := app.NewManualLoop()
	lp := NewLongPress(l, 1, 0, false)
	lp.SetPriority(PriorityHigh)
	pan := NewPan(l, 1, DirAll, -1)
	a := NewArena(lp, pan)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	a.Adjudicate(lp, Pending)
	require.Equal(t, StatePending, lp.State())

	// The pan matches but waits for the pending long press.
	pan.HandleEvent(touch(l, pointer.Move, 1, 20, 10))
	assert.Equal(t, StateDetecting, pan.State())
	assert.Nil(t, a.Winner())

	a.Adjudicate(lp, Reject)
	assert.Equal(t, StateSucceed, pan.State())
}

func TestArenaRemove(t *testing.T) {
	l := app.NewManualLoop()
	lp := NewLongPress(l, 1, 0, false)
	lp.SetPriority(PriorityHigh)
	pan := NewPan(l, 1, DirAll, -1)
	a := NewArena(lp, pan)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	a.Adjudicate(lp, Pending)
	pan.HandleEvent(touch(l, pointer.Move, 1, 20, 10))
	require.Equal(t, StateDetecting, pan.State())

	// Removing the pending member unblocks the pan.
	a.Remove(lp)
	lp.Reset()
	assert.Equal(t, []Recognizer{pan}, a.Members())
	assert.Equal(t, StateSucceed, pan.State())
	assert.Equal(t, Recognizer(pan), a.Winner())

	// The removed long press no longer reaches the arena.
	a.Adjudicate(lp, Accept)
	assert.Equal(t, StateReady, lp.State())
	a.Remove(lp)
	assert.Len(t, a.Members(), 1)
}

func TestArenaParallel(t *testing.T) {
	l := app.NewManualLoop()
	preview := NewLongPress(l, 1, 800*time.Millisecond, false)
	preview.SetPriority(PriorityParallel)
	lp := NewLongPress(l, 1, 0, false)
	var got phases
	preview.SetHandler(got.handler())
	a := NewArena(lp, preview)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	l.Advance(500 * time.Millisecond)
	assert.Equal(t, StateSucceed, lp.State())
	// The winner does not reject the parallel member.
	assert.Equal(t, StateDetecting, preview.State())
	l.Advance(300 * time.Millisecond)
	assert.Equal(t, StateSucceed, preview.State())
	assert.Equal(t, []string{"start"}, got.names)
	assert.Equal(t, 1, succeeded(a))
}

func TestArenaJudgeVeto(t *testing.T) {
	l := app.NewManualLoop()
	pan := NewPan(l, 1, DirAll, 0)
	calls := 0
	pan.SetJudge(func(info Info, e Event) JudgeResult {
		calls++
		return JudgeReject
	})
	other := NewPan(l, 1, DirAll, -1)
	a := NewArena(pan, other)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	assert.Equal(t, StateFail, pan.State())
	assert.Equal(t, 1, calls)
	assert.Nil(t, a.Winner())

	// The arena stays open for the remaining member.
	dispatch(a, touch(l, pointer.Move, 1, 20, 10))
	assert.Equal(t, StateSucceed, other.State())
}

func TestArenaCancel(t *testing.T) {
	l := app.NewManualLoop()
	pan := NewPan(l, 1, DirAll, -1)
	lp := NewLongPress(l, 1, 0, false)
	var got phases
	pan.SetHandler(got.handler())
	a := NewArena(pan, lp)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	dispatch(a, touch(l, pointer.Move, 1, 30, 10))
	a.Cancel()

	assert.Equal(t, []string{"start", "cancel"}, got.names)
	assert.True(t, a.Closed())
	// Closing resets every member.
	assert.Equal(t, StateReady, pan.State())
	assert.Equal(t, StateReady, lp.State())
	l.Advance(time.Second)
	assert.Equal(t, StateReady, lp.State())
}

func TestArenaCloseWhenSettled(t *testing.T) {
	l := app.NewManualLoop()
	tap := NewTap(l, 2, 1)
	a := NewArena(tap)

	dispatch(a, touch(l, pointer.Press, 1, 10, 10))
	dispatch(a, touch(l, pointer.Release, 1, 10, 10))
	a.CloseWhenSettled()
	// The tap waits for its second tap.
	assert.False(t, a.Closed())

	l.Advance(400 * time.Millisecond)
	assert.True(t, a.Closed())
	assert.Equal(t, StateReady, tap.State())
}

func TestArenaClosedIgnoresProposals(t *testing.T) {
	l := app.NewManualLoop()
	pan := NewPan(l, 1, DirAll, 0)
	a := NewArena(pan)
	a.Close()
	a.Adjudicate(pan, Accept)
	assert.Equal(t, StateReady, pan.State())
	assert.Nil(t, a.Winner())
}
