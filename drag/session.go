// SPDX-License-Identifier: Unlicense OR MIT

package drag

// Session is the drag state of one window: whether a drag is in
// progress and whether a floating preview and its filter are
// mounted. Every Actuator of the window shares the session, so at
// most one drag and one preview exist at a time.
//
// The flags are set by check-then-set methods and the actuator that
// set one clears it on every exit path.
type Session struct {
	dragging bool
	pixelMap bool
	filter   bool
	// owner is the actuator holding the drag.
	owner *Actuator
}

// NewSession returns an idle session.
func NewSession() *Session {
	return new(Session)
}

// IsDragging reports whether an actuator holds the drag.
func (s *Session) IsDragging() bool {
	return s.dragging
}

// HasPixelMap reports whether a floating preview is mounted.
func (s *Session) HasPixelMap() bool {
	return s.pixelMap
}

// HasFilter reports whether the backdrop filter is mounted.
func (s *Session) HasFilter() bool {
	return s.filter
}

// TryBeginDrag claims the drag for a. It reports false if another
// actuator holds it. Claiming twice is allowed.
func (s *Session) TryBeginDrag(a *Actuator) bool {
	if s.dragging {
		return s.owner == a
	}
	s.dragging = true
	s.owner = a
	return true
}

// EndDrag releases a drag claimed by a.
func (s *Session) EndDrag(a *Actuator) {
	if s.owner != a {
		return
	}
	s.dragging = false
	s.owner = nil
}

// TryMountPreview reserves the floating preview. It reports false if
// a preview is already mounted, for example while the teardown
// animation of the previous drag runs.
func (s *Session) TryMountPreview() bool {
	if s.pixelMap {
		return false
	}
	s.pixelMap = true
	return true
}

// SetFilter records whether the preview filter is mounted.
func (s *Session) SetFilter(mounted bool) {
	s.filter = mounted
}

// ReleasePreview clears the preview and filter flags.
func (s *Session) ReleasePreview() {
	s.pixelMap = false
	s.filter = false
}

// Reset clears every flag, recovering from an actuator that
// disappeared during a drag.
func (s *Session) Reset() {
	*s = Session{}
}
