// SPDX-License-Identifier: Unlicense OR MIT

/*
Package render declares the services gesture and drag handling consume
from the render tree: hit testing, node bounds, mounting of overlay
nodes, property animation and bitmap snapshots.

Nodes are referred to by NodeID handles. Recognizers keep the id of
the node they are attached to and resolve it through a Tree when they
need geometry; they never hold the node itself.
*/
package render

import (
	"image"
	"time"

	"arkgesture.org/f32"
)

// NodeID identifies a node of a Tree. The zero value is no node.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// Property is an animatable node property.
type Property uint8

const (
	PropScale Property = iota
	PropOpacity
	PropBorderRadius
	PropBlurRadius
)

// Curve is an easing curve.
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveEaseOut
	CurveFriction
	CurveSharp
)

// Tree is the render tree as seen from input handling.
type Tree interface {
	// Root returns the root node.
	Root() NodeID
	// Overlay returns the node floating previews are mounted under.
	Overlay() NodeID
	// HitTest returns the nodes containing the window position p,
	// deepest first.
	HitTest(p f32.Point) []NodeID
	// Bounds returns the window rectangle of a node.
	Bounds(id NodeID) (f32.Rectangle, bool)
	// Lookup finds a node by its inspector id.
	Lookup(inspectorID string) (NodeID, bool)
	// NewImage creates an unmounted node displaying img.
	NewImage(img image.Image, bounds f32.Rectangle) NodeID
	// Mount attaches node as the last child of parent.
	Mount(node, parent NodeID) error
	// Unmount detaches node. Unmounting an unmounted node is a no-op.
	Unmount(node NodeID)
	// Context returns the render context of a node, or nil.
	Context(id NodeID) Context
}

// Context is the per node render service.
type Context interface {
	// Animate moves property p from one value to another.
	Animate(p Property, from, to float32, d time.Duration, c Curve)
	// Thumbnail returns a snapshot of the node, or nil. With async
	// set the snapshot may come from a cache filled in the
	// background.
	Thumbnail(async bool) image.Image
}

// AnimationOption configures an Animator transaction.
type AnimationOption struct {
	Duration time.Duration
	Delay    time.Duration
	Curve    Curve
}

// Animator runs animation transactions.
type Animator interface {
	// Animate runs update, interpolating the property changes it makes
	// with opt. onFinish, if not nil, runs on the loop when the
	// animation completes.
	Animate(opt AnimationOption, update func(), onFinish func())
}

// Snapshotter captures bitmaps of nodes that are not part of the
// visible tree, such as custom drag previews.
type Snapshotter interface {
	// CaptureAsync renders node and calls cb on the loop with the
	// result, or with nil on failure or when timeout elapses first.
	CaptureAsync(node NodeID, cb func(image.Image), allowEmptyCache bool, timeout time.Duration)
}

func (p Property) String() string {
	switch p {
	case PropScale:
		return "scale"
	case PropOpacity:
		return "opacity"
	case PropBorderRadius:
		return "borderRadius"
	case PropBlurRadius:
		return "blurRadius"
	default:
		panic("unknown property")
	}
}
