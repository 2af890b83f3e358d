// SPDX-License-Identifier: Unlicense OR MIT

// Package script replays touch scripts against an in-memory scene and
// records the gesture and drag callbacks they trigger.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"arkgesture.org/config"
	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/pointer"
	"arkgesture.org/unit"
)

// Script is a scene and the pointer events played on it.
type Script struct {
	Name string `yaml:"name"`
	// Size of the window.
	Size   [2]float32 `yaml:"size"`
	Nodes  []Node     `yaml:"nodes"`
	Events []Event    `yaml:"events"`
	// Until is the loop time the replay runs to after the last
	// event.
	Until config.Duration `yaml:"until"`
}

// Node is a scene node with its gestures.
type Node struct {
	ID string `yaml:"id"`
	// Parent is the id of the parent node, the root if empty.
	Parent   string     `yaml:"parent"`
	Rect     [4]float32 `yaml:"rect"`
	Gestures []Gesture  `yaml:"gestures"`
	Drag     *Drag      `yaml:"drag"`
}

// Gesture configures a recognizer.
type Gesture struct {
	Type      string          `yaml:"type"`
	Fingers   int             `yaml:"fingers"`
	Duration  config.Duration `yaml:"duration"`
	Repeat    bool            `yaml:"repeat"`
	Direction string          `yaml:"direction"`
	Distance  *unit.Vp        `yaml:"distance"`
	Speed     unit.Vp         `yaml:"speed"`
	Angle     float32         `yaml:"angle"`
	Count     int             `yaml:"count"`
	Priority  string          `yaml:"priority"`
	Mask      string          `yaml:"mask"`
}

// Drag makes a node draggable.
type Drag struct {
	Fingers   int     `yaml:"fingers"`
	Direction string  `yaml:"direction"`
	Distance  unit.Vp `yaml:"distance"`
	NoPreview bool    `yaml:"no_preview"`
	Text      string  `yaml:"text"`
}

// Event is a pointer event at a loop time.
type Event struct {
	At      config.Duration `yaml:"at"`
	Kind    string          `yaml:"kind"`
	Pointer int             `yaml:"pointer"`
	Source  string          `yaml:"source"`
	X       float32         `yaml:"x"`
	Y       float32         `yaml:"y"`
}

// ErrInvalid is wrapped by the errors of malformed scripts.
var ErrInvalid = errors.New("script: invalid")

var (
	kinds = map[string]pointer.Kind{
		"press":   pointer.Press,
		"move":    pointer.Move,
		"release": pointer.Release,
		"cancel":  pointer.Cancel,
	}
	sources = map[string]pointer.Source{
		"":         pointer.Touch,
		"touch":    pointer.Touch,
		"mouse":    pointer.Mouse,
		"stylus":   pointer.Stylus,
		"touchpad": pointer.Touchpad,
	}
	directions = map[string]gesture.Direction{
		"":           gesture.DirAll,
		"all":        gesture.DirAll,
		"horizontal": gesture.DirHorizontal,
		"vertical":   gesture.DirVertical,
		"left":       gesture.DirLeft,
		"right":      gesture.DirRight,
		"up":         gesture.DirUp,
		"down":       gesture.DirDown,
	}
	priorities = map[string]gesture.Priority{
		"":         gesture.PriorityLow,
		"low":      gesture.PriorityLow,
		"high":     gesture.PriorityHigh,
		"parallel": gesture.PriorityParallel,
	}
	masks = map[string]gesture.Mask{
		"":                gesture.MaskNormal,
		"normal":          gesture.MaskNormal,
		"ignore-internal": gesture.MaskIgnoreInternal,
	}
	gestureTypes = []string{"longpress", "pan", "swipe", "pinch", "rotation", "tap"}
)

// Load reads the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML script.
func Parse(r io.Reader) (*Script, error) {
	s := new(Script)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) validate() error {
	if s.Size[0] <= 0 || s.Size[1] <= 0 {
		s.Size = [2]float32{400, 400}
	}
	ids := make(map[string]bool)
	for _, n := range s.Nodes {
		switch {
		case n.ID == "":
			return fmt.Errorf("%w: node without id", ErrInvalid)
		case ids[n.ID]:
			return fmt.Errorf("%w: duplicate node %q", ErrInvalid, n.ID)
		case n.Parent != "" && !ids[n.Parent]:
			return fmt.Errorf("%w: node %q: parent %q must come first", ErrInvalid, n.ID, n.Parent)
		}
		ids[n.ID] = true
		for _, g := range n.Gestures {
			if !slices.Contains(gestureTypes, g.Type) {
				return fmt.Errorf("%w: node %q: unknown gesture %q", ErrInvalid, n.ID, g.Type)
			}
			if _, ok := directions[g.Direction]; !ok {
				return fmt.Errorf("%w: node %q: unknown direction %q", ErrInvalid, n.ID, g.Direction)
			}
			if _, ok := priorities[g.Priority]; !ok {
				return fmt.Errorf("%w: node %q: unknown priority %q", ErrInvalid, n.ID, g.Priority)
			}
			if _, ok := masks[g.Mask]; !ok {
				return fmt.Errorf("%w: node %q: unknown mask %q", ErrInvalid, n.ID, g.Mask)
			}
		}
		if d := n.Drag; d != nil {
			if _, ok := directions[d.Direction]; !ok {
				return fmt.Errorf("%w: node %q: unknown direction %q", ErrInvalid, n.ID, d.Direction)
			}
		}
	}
	var last config.Duration
	for i, e := range s.Events {
		if _, ok := kinds[e.Kind]; !ok {
			return fmt.Errorf("%w: event %d: unknown kind %q", ErrInvalid, i, e.Kind)
		}
		if _, ok := sources[e.Source]; !ok {
			return fmt.Errorf("%w: event %d: unknown source %q", ErrInvalid, i, e.Source)
		}
		if e.At < last {
			return fmt.Errorf("%w: event %d at %v precedes %v", ErrInvalid, i, e.At, last)
		}
		last = e.At
	}
	return nil
}

func (e Event) event(now time.Duration) pointer.Event {
	return pointer.Event{
		Kind:      kinds[e.Kind],
		Source:    sources[e.Source],
		PointerID: pointer.ID(e.Pointer),
		Time:      now,
		Position:  f32.Pt(e.X, e.Y),
		Buttons:   buttons(sources[e.Source]),
	}
}

func buttons(s pointer.Source) pointer.Buttons {
	if s == pointer.Mouse {
		return pointer.ButtonPrimary
	}
	return 0
}
