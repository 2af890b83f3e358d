// SPDX-License-Identifier: Unlicense OR MIT

package pointer

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"arkgesture.org/f32"
)

// Fingers maps the id of every pointer currently down to its most
// recent Event. A Fingers value is owned by a single recognizer; ids
// are removed on Release and Cancel.
type Fingers map[ID]Event

// Add records a newly pressed pointer.
func (f Fingers) Add(e Event) {
	f[e.PointerID] = e
}

// Update replaces the last event of a tracked pointer and reports
// whether the pointer was tracked.
func (f Fingers) Update(e Event) bool {
	if _, ok := f[e.PointerID]; !ok {
		return false
	}
	f[e.PointerID] = e
	return true
}

// Remove forgets the pointer and reports whether it was tracked.
func (f Fingers) Remove(id ID) bool {
	if _, ok := f[id]; !ok {
		return false
	}
	delete(f, id)
	return true
}

// Has reports whether id is down.
func (f Fingers) Has(id ID) bool {
	_, ok := f[id]
	return ok
}

// Len returns the number of pointers down.
func (f Fingers) Len() int {
	return len(f)
}

// Clear forgets every pointer.
func (f Fingers) Clear() {
	maps.Clear(f)
}

// IDs returns the tracked ids in ascending order.
func (f Fingers) IDs() []ID {
	ids := maps.Keys(f)
	slices.Sort(ids)
	return ids
}

// Events returns a snapshot of the tracked events ordered by id.
func (f Fingers) Events() []Event {
	ids := f.IDs()
	evs := make([]Event, len(ids))
	for i, id := range ids {
		evs[i] = f[id]
	}
	return evs
}

// Centroid returns the mean local position of the tracked pointers.
func (f Fingers) Centroid() f32.Point {
	var sum f32.Point
	for _, e := range f {
		sum = sum.Add(e.Position)
	}
	return sum.Div(float32(len(f)))
}

// Spread returns the mean distance of the tracked pointers from
// their centroid.
func (f Fingers) Spread() float32 {
	if len(f) == 0 {
		return 0
	}
	c := f.Centroid()
	var sum float32
	for _, e := range f {
		sum += e.Position.Dist(c)
	}
	return sum / float32(len(f))
}
