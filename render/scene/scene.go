// SPDX-License-Identifier: Unlicense OR MIT

/*
Package scene is an in-memory render tree. It implements the render
services input handling depends on, records the animations and
mounts it is asked for, and rasterizes nodes as flat colored
rectangles. Tools and tests use it in place of a real renderer.
*/
package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"arkgesture.org/app"
	"arkgesture.org/f32"
	"arkgesture.org/render"
)

// Scene is a tree of rectangular nodes. Except for the completion of
// CaptureAsync it must only be used from the goroutine of its loop.
type Scene struct {
	loop    *app.Loop
	nodes   map[render.NodeID]*node
	last    render.NodeID
	root    render.NodeID
	overlay render.NodeID

	// thumbs caches node thumbnails.
	thumbs  *lru.Cache
	capture singleflight.Group
	// Synchronous makes CaptureAsync rasterize on the calling
	// goroutine. The callback still runs from the loop.
	Synchronous bool

	animations []Animation
	txs        []render.AnimationOption
}

// Option configures a node added with Add.
type Option func(n *node)

// Animation is a recorded property animation.
type Animation struct {
	Node     render.NodeID
	Prop     render.Property
	From, To float32
	Duration time.Duration
	Curve    render.Curve
	// Start is the loop time the animation was requested.
	Start time.Duration
}

type node struct {
	id          render.NodeID
	parent      render.NodeID
	children    []render.NodeID
	bounds      f32.Rectangle
	inspectorID string
	fill        color.Color
	img         image.Image
	props       map[render.Property]float32
	mounted     bool
}

// nodeContext is the render.Context of a node.
type nodeContext struct {
	s  *Scene
	id render.NodeID
}

var (
	// ErrNoNode is returned for operations on unknown nodes.
	ErrNoNode = errors.New("scene: no such node")
	// ErrCycle is returned when mounting a node below itself.
	ErrCycle = errors.New("scene: node would contain itself")
)

const thumbnailCacheSize = 64

// tracer traces with key 'arkgesture.scene'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.scene")
}

// New returns a scene with a root node and an overlay node of the
// given size.
func New(loop *app.Loop, size f32.Point) *Scene {
	cache, err := lru.New(thumbnailCacheSize)
	if err != nil {
		panic(err)
	}
	s := &Scene{
		loop:   loop,
		nodes:  make(map[render.NodeID]*node),
		thumbs: cache,
	}
	bounds := f32.Rectangle{Max: size}
	s.root = s.newNode(bounds)
	s.nodes[s.root].mounted = true
	s.overlay = s.newNode(bounds)
	s.nodes[s.overlay].mounted = true
	return s
}

// WithInspectorID sets the inspector id of a node.
func WithInspectorID(id string) Option {
	return func(n *node) {
		n.inspectorID = id
	}
}

// WithColor sets the fill color of a node.
func WithColor(c color.Color) Option {
	return func(n *node) {
		n.fill = c
	}
}

// WithImage sets the content of a node.
func WithImage(img image.Image) Option {
	return func(n *node) {
		n.img = img
	}
}

// Add creates a node with window bounds and mounts it under parent.
func (s *Scene) Add(parent render.NodeID, bounds f32.Rectangle, opts ...Option) render.NodeID {
	id := s.newNode(bounds)
	n := s.nodes[id]
	for _, o := range opts {
		o(n)
	}
	if err := s.Mount(id, parent); err != nil {
		panic(err)
	}
	return id
}

func (s *Scene) newNode(bounds f32.Rectangle) render.NodeID {
	s.last++
	s.nodes[s.last] = &node{
		id:     s.last,
		bounds: bounds.Canon(),
		fill:   color.NRGBA{A: 0xff},
		props: map[render.Property]float32{
			render.PropScale:   1,
			render.PropOpacity: 1,
		},
	}
	return s.last
}

func (s *Scene) Root() render.NodeID {
	return s.root
}

func (s *Scene) Overlay() render.NodeID {
	return s.overlay
}

// HitTest returns the mounted nodes below the root containing p,
// deepest and topmost first. Overlay nodes are never hit.
func (s *Scene) HitTest(p f32.Point) []render.NodeID {
	var hits []render.NodeID
	s.hit(s.root, p, &hits)
	// hit appends parents before children.
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits
}

func (s *Scene) hit(id render.NodeID, p f32.Point, hits *[]render.NodeID) {
	n := s.nodes[id]
	if !n.bounds.Contains(p) {
		return
	}
	*hits = append(*hits, id)
	// Later children are on top.
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if s.nodes[c].bounds.Contains(p) {
			s.hit(c, p, hits)
			return
		}
	}
}

func (s *Scene) Bounds(id render.NodeID) (f32.Rectangle, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return f32.Rectangle{}, false
	}
	return n.bounds, true
}

// SetBounds moves a node.
func (s *Scene) SetBounds(id render.NodeID, r f32.Rectangle) {
	if n, ok := s.nodes[id]; ok {
		n.bounds = r.Canon()
		s.thumbs.Remove(id)
	}
}

func (s *Scene) Lookup(inspectorID string) (render.NodeID, bool) {
	if inspectorID == "" {
		return render.NoNode, false
	}
	for _, n := range s.nodes {
		if n.inspectorID == inspectorID {
			return n.id, true
		}
	}
	return render.NoNode, false
}

func (s *Scene) NewImage(img image.Image, bounds f32.Rectangle) render.NodeID {
	id := s.newNode(bounds)
	s.nodes[id].img = img
	return id
}

// Mount attaches node under parent, detaching it from its previous
// parent.
func (s *Scene) Mount(id, parent render.NodeID) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("mount %d: %w", id, ErrNoNode)
	}
	p, ok := s.nodes[parent]
	if !ok {
		return fmt.Errorf("mount %d under %d: %w", id, parent, ErrNoNode)
	}
	for a := parent; a != render.NoNode; a = s.nodes[a].parent {
		if a == id {
			return fmt.Errorf("mount %d under %d: %w", id, parent, ErrCycle)
		}
	}
	s.Unmount(id)
	n.parent = parent
	p.children = append(p.children, id)
	s.setMounted(id, p.mounted)
	tracer().Debugf("mount %d under %d", id, parent)
	return nil
}

func (s *Scene) Unmount(id render.NodeID) {
	n, ok := s.nodes[id]
	if !ok || n.parent == render.NoNode {
		return
	}
	p := s.nodes[n.parent]
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = render.NoNode
	s.setMounted(id, false)
	tracer().Debugf("unmount %d", id)
}

func (s *Scene) setMounted(id render.NodeID, mounted bool) {
	n := s.nodes[id]
	n.mounted = mounted
	for _, c := range n.children {
		s.setMounted(c, mounted)
	}
}

// Mounted reports whether id is attached to the root or overlay.
func (s *Scene) Mounted(id render.NodeID) bool {
	n, ok := s.nodes[id]
	return ok && n.mounted
}

// Children returns the children of id in paint order.
func (s *Scene) Children(id render.NodeID) []render.NodeID {
	if n, ok := s.nodes[id]; ok {
		return n.children
	}
	return nil
}

// Image returns the content of an image node.
func (s *Scene) Image(id render.NodeID) image.Image {
	if n, ok := s.nodes[id]; ok {
		return n.img
	}
	return nil
}

// Property returns the current value of an animated property.
func (s *Scene) Property(id render.NodeID, p render.Property) float32 {
	if n, ok := s.nodes[id]; ok {
		return n.props[p]
	}
	return 0
}

// Animations returns the recorded property animations.
func (s *Scene) Animations() []Animation {
	return s.animations
}

// Transactions returns the recorded Animator transactions.
func (s *Scene) Transactions() []render.AnimationOption {
	return s.txs
}

func (s *Scene) Context(id render.NodeID) render.Context {
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	return nodeContext{s: s, id: id}
}

// Animate records the animation and jumps to its final value.
func (c nodeContext) Animate(p render.Property, from, to float32, d time.Duration, curve render.Curve) {
	s := c.s
	s.animations = append(s.animations, Animation{
		Node: c.id, Prop: p, From: from, To: to,
		Duration: d, Curve: curve, Start: s.loop.Now(),
	})
	s.nodes[c.id].props[p] = to
}

func (c nodeContext) Thumbnail(async bool) image.Image {
	s := c.s
	if img, ok := s.thumbs.Get(c.id); ok {
		return img.(image.Image)
	}
	if async {
		// Warm the cache for a later synchronous request.
		s.CaptureAsync(c.id, func(image.Image) {}, true, 0)
		return nil
	}
	img := rasterize(s.nodes[c.id].content())
	if img != nil {
		s.thumbs.Add(c.id, img)
	}
	return img
}

// Animate runs update and posts onFinish after the delay and
// duration of opt.
func (s *Scene) Animate(opt render.AnimationOption, update func(), onFinish func()) {
	s.txs = append(s.txs, opt)
	if update != nil {
		update()
	}
	if onFinish != nil {
		s.loop.PostDelayed(opt.Delay+opt.Duration, onFinish)
	}
}

// content is the immutable input of rasterize.
type content struct {
	size image.Point
	fill color.Color
	img  image.Image
}

func (n *node) content() content {
	sz := n.bounds.Size()
	return content{
		size: image.Pt(int(sz.X+.5), int(sz.Y+.5)),
		fill: n.fill,
		img:  n.img,
	}
}

func rasterize(c content) image.Image {
	if c.img != nil {
		return c.img
	}
	if c.size.X <= 0 || c.size.Y <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rectangle{Max: c.size})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.fill), image.Point{}, draw.Src)
	return dst
}
