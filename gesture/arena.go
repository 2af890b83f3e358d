// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"golang.org/x/exp/slices"
)

// Arena is the Referee of one touch sequence. Of the members that
// are not PriorityParallel at most one succeeds; when it does, every
// other unresolved member is rejected before the winner is
// accepted.
//
// Accept proposals made between Begin and End are collected and the
// highest priority proposal wins, the earliest among equals. A
// proposal waits while a member of strictly higher priority is
// Pending. The judge of a winner is consulted before the win is
// committed.
type Arena struct {
	members []Recognizer
	winner  Recognizer
	// proposals are Accept proposals waiting for resolution, in
	// proposal order.
	proposals []Recognizer
	batch     int
	// closeSettled closes the arena once every member is resolved.
	closeSettled bool
	closed       bool
}

// NewArena returns an arena with the given members.
func NewArena(members ...Recognizer) *Arena {
	a := new(Arena)
	for _, r := range members {
		a.Add(r)
	}
	return a
}

// Add makes r compete in the arena.
func (a *Arena) Add(r Recognizer) {
	if slices.Contains(a.members, r) {
		return
	}
	r.base().bind(a)
	a.members = append(a.members, r)
}

// Remove takes r out of the arena and unbinds it. The caller resets
// r. Proposals that r blocked are resolved.
func (a *Arena) Remove(r Recognizer) {
	i := slices.Index(a.members, r)
	if i < 0 {
		return
	}
	a.members = slices.Delete(a.members, i, i+1)
	a.dropProposal(r)
	if a.winner == r {
		a.winner = nil
	}
	r.base().bind(nil)
	if a.batch == 0 && !a.closed {
		a.resolve()
		a.closeIfSettled()
	}
}

// Members returns the recognizers of the arena.
func (a *Arena) Members() []Recognizer {
	return a.members
}

// Winner returns the succeeded competing member, or nil.
func (a *Arena) Winner() Recognizer {
	return a.winner
}

// Begin starts a dispatch tick. Ticks nest.
func (a *Arena) Begin() {
	a.batch++
}

// End ends a dispatch tick and resolves the proposals made in it.
func (a *Arena) End() {
	if a.batch == 0 {
		panic("gesture: End without Begin")
	}
	a.batch--
	if a.batch == 0 {
		a.resolve()
		a.closeIfSettled()
	}
}

// Adjudicate commits or collects the disposal d proposed by r.
func (a *Arena) Adjudicate(r Recognizer, d Disposal) {
	if a.closed || !slices.Contains(a.members, r) {
		return
	}
	switch d {
	case Pending:
		if !r.base().resolved() {
			r.OnPending()
		}
	case Reject:
		a.dropProposal(r)
		if r.State() != StateFail {
			r.OnRejected()
		}
		// A rejection can unblock lower priority proposals.
		if a.batch == 0 {
			a.resolve()
		}
	case Accept:
		switch {
		case r.base().resolved():
		case r.Priority() == PriorityParallel:
			a.commitParallel(r)
		case a.winner != nil:
			r.OnRejected()
		default:
			if !slices.Contains(a.proposals, r) {
				a.proposals = append(a.proposals, r)
			}
			if a.batch == 0 {
				a.resolve()
			}
		}
	}
	if a.batch == 0 {
		a.closeIfSettled()
	}
}

func (a *Arena) resolve() {
	for len(a.proposals) > 0 {
		if a.winner != nil {
			props := a.proposals
			a.proposals = nil
			for _, r := range props {
				r.OnRejected()
			}
			return
		}
		r := a.candidate()
		if a.blocked(r) {
			return
		}
		a.dropProposal(r)
		if r.base().vetoed() {
			r.OnRejected()
			continue
		}
		a.commit(r)
	}
}

// candidate returns the highest priority proposal.
func (a *Arena) candidate() Recognizer {
	best := a.proposals[0]
	for _, r := range a.proposals[1:] {
		if r.Priority() > best.Priority() {
			best = r
		}
	}
	return best
}

// blocked reports whether a competing member of higher priority than
// r is still Pending.
func (a *Arena) blocked(r Recognizer) bool {
	for _, m := range a.members {
		if m == r || m.Priority() == PriorityParallel {
			continue
		}
		if m.Priority() > r.Priority() && m.State() == StatePending {
			return true
		}
	}
	return false
}

func (a *Arena) commit(w Recognizer) {
	tracer().Debugf("arena: %v@%d wins", w.Info().Kind, w.Node())
	a.winner = w
	losers := a.proposals
	a.proposals = nil
	for _, m := range a.members {
		if m == w || m.Priority() == PriorityParallel || slices.Contains(losers, m) {
			continue
		}
		if !m.base().resolved() {
			m.OnRejected()
		}
	}
	for _, m := range losers {
		m.OnRejected()
	}
	w.OnAccepted()
}

func (a *Arena) commitParallel(r Recognizer) {
	if r.base().vetoed() {
		r.OnRejected()
		return
	}
	r.OnAccepted()
}

func (a *Arena) dropProposal(r Recognizer) {
	if i := slices.Index(a.proposals, r); i >= 0 {
		a.proposals = slices.Delete(a.proposals, i, i+1)
	}
}

// Cancel interrupts every member: succeeded members report a Cancel
// and the rest fail. The arena is closed afterwards.
func (a *Arena) Cancel() {
	if a.closed {
		return
	}
	tracer().Debugf("arena: cancel")
	a.proposals = nil
	for _, m := range a.members {
		m.interrupt()
	}
	a.Close()
}

// CloseWhenSettled closes the arena as soon as no member is
// detecting or pending. The dispatcher calls it when the last
// pointer of the sequence is up.
func (a *Arena) CloseWhenSettled() {
	a.closeSettled = true
	if a.batch == 0 {
		a.closeIfSettled()
	}
}

// Reopen cancels a CloseWhenSettled, when a new pointer joins a
// lingering arena.
func (a *Arena) Reopen() {
	a.closeSettled = false
}

// Settled reports whether every member is idle or resolved.
func (a *Arena) Settled() bool {
	for _, m := range a.members {
		switch m.State() {
		case StateDetecting, StatePending:
			return false
		}
	}
	return true
}

func (a *Arena) closeIfSettled() {
	if a.closeSettled && !a.closed && a.Settled() {
		a.Close()
	}
}

// Close resets every member, cancelling their timers, and unbinds
// them from the arena.
func (a *Arena) Close() {
	if a.closed {
		return
	}
	a.closed = true
	for _, m := range a.members {
		m.Reset()
		m.base().bind(nil)
	}
}

// Closed reports whether the arena is closed.
func (a *Arena) Closed() bool {
	return a.closed
}
