// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer describes raw touch input: one Event per sample of a
finger, mouse or stylus, identified by a PointerID that is unique among
the contacts currently down.
*/
package pointer

import (
	"fmt"
	"strings"
	"time"

	"arkgesture.org/f32"
)

// Event is a pointer event. Events are values; receivers copy the
// fields they need.
type Event struct {
	Kind   Kind
	Source Source
	// PointerID identifies the contact from its Press until its
	// Release or Cancel.
	PointerID ID
	// Time is when the event was received, on the clock of the
	// run loop that dispatches it.
	Time time.Duration
	// Buttons held during a mouse event.
	Buttons Buttons
	// Position is relative to the receiving node.
	Position f32.Point
	// Global is the position in window coordinates.
	Global f32.Point
	// Screen is the position in screen coordinates.
	Screen f32.Point
	// Tilt is the stylus tilt in degrees along each axis, if known.
	Tilt f32.Point
	// Pressure is the normalized contact pressure, or zero if unknown.
	Pressure float32
}

type ID uint16

// Kind of an Event.
type Kind uint8

// Source of an Event.
type Source uint8

// Buttons is a bit set of mouse buttons.
type Buttons uint8

const (
	// A Cancel event is generated when the current touch sequence is
	// interrupted by the system. A Cancel without a PointerID applies
	// to every pointer.
	Cancel Kind = 1 << iota
	Press
	Release
	// Move of a pointer that is down.
	Move
)

const (
	Touch Source = iota
	Mouse
	Stylus
	Touchpad
)

const (
	// ButtonPrimary is the left button, or the contact of a stylus.
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonTertiary
)

var (
	kindNames   = [...]string{"Cancel", "Press", "Release", "Move"}
	sourceNames = [...]string{"Touch", "Mouse", "Stylus", "Touchpad"}
	buttonNames = [...]string{"Primary", "Secondary", "Tertiary"}
)

// String lists the kinds of the set t separated by '|'.
func (t Kind) String() string {
	return flags(uint8(t), kindNames[:])
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// Contain reports whether b holds every button of buttons.
func (b Buttons) Contain(buttons Buttons) bool {
	return b&buttons == buttons
}

func (b Buttons) String() string {
	return flags(uint8(b), buttonNames[:])
}

// flags names the bits of v, bit i by names[i].
func flags(v uint8, names []string) string {
	var parts []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if rest := v &^ (1<<len(names) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", rest))
	}
	return strings.Join(parts, "|")
}
