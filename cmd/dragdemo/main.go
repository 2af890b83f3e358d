// SPDX-License-Identifier: Unlicense OR MIT

// Command dragdemo shows long press, preview and drag of a column of
// cards. Hold a card to lift it, then move to drag it; the mouse drags
// right away.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"arkgesture.org/app"
	"arkgesture.org/config"
	"arkgesture.org/drag"
	"arkgesture.org/f32"
	"arkgesture.org/gesture"
	"arkgesture.org/io/pointer"
	"arkgesture.org/io/router"
	"arkgesture.org/render"
	"arkgesture.org/render/scene"
)

const (
	width, height = 480, 640
	// mouseID keeps the mouse apart from touch ids.
	mouseID pointer.ID = 0xffff
)

var palette = []color.RGBA{
	{0xe5, 0x73, 0x73, 0xff},
	{0x64, 0xb5, 0xf6, 0xff},
	{0x81, 0xc7, 0x84, 0xff},
	{0xff, 0xd5, 0x4f, 0xff},
}

type card struct {
	node  render.NodeID
	a     *drag.Actuator
	label string
	// base is the card bounds when its drag started.
	base f32.Rectangle
}

type demo struct {
	loop   *app.Loop
	scene  *scene.Scene
	router *router.Router
	cards  []*card
	// images caches the ebiten image of each node thumbnail.
	images  map[render.NodeID]*ebiten.Image
	touches map[ebiten.TouchID]pointer.ID
	mouse   bool
	cursor  image.Point
	status  string
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "tuning file")
	flag.Parse()
	t, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	d := newDemo(t)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Drag demo")
	if err := ebiten.RunGame(d); err != nil {
		log.Fatal(err)
	}
}

func newDemo(t config.Tuning) *demo {
	l := app.NewLoop(app.MonotonicClock())
	s := scene.New(l, f32.Pt(width, height))
	d := &demo{
		loop:    l,
		scene:   s,
		router:  router.New(s),
		images:  make(map[render.NodeID]*ebiten.Image),
		touches: make(map[ebiten.TouchID]pointer.ID),
	}
	session := drag.NewSession()
	list := s.Add(s.Root(), f32.Rect(0, 0, width, height), scene.WithColor(color.RGBA{0x30, 0x30, 0x30, 0xff}))
	// The list pan competes with the cards for vertical moves.
	d.router.Attach(list, gesture.NewPan(l, 1, gesture.DirVertical, t.PanDistance))
	for i, c := range palette {
		r := f32.Rect(40, 40+float32(i)*140, width-40, 160+float32(i)*140)
		cd := &card{label: fmt.Sprintf("card %d", i+1)}
		cd.node = s.Add(list, r, scene.WithColor(c))
		cd.a = drag.NewActuator(drag.Deps{
			Loop:        l,
			Tree:        s,
			Animator:    s,
			Snapshotter: s,
			Session:     session,
			Tuning:      t,
		}, cd.node, drag.Options{
			Draggable: true,
			Handler:   d.handler(cd),
		})
		d.router.AttachCollector(cd.node, cd.a)
		d.cards = append(d.cards, cd)
	}
	return d
}

func (d *demo) handler(c *card) drag.HandlerFuncs {
	return drag.HandlerFuncs{
		Start: func(e gesture.Event) {
			c.base, _ = d.scene.Bounds(c.node)
			d.status = "dragging " + c.label
		},
		Move: func(e gesture.Event) {
			d.scene.SetBounds(c.node, c.base.Add(e.Offset))
		},
		End: func(e gesture.Event) {
			d.status = "dropped " + c.label
		},
		Cancel: func(e gesture.Event) {
			d.scene.SetBounds(c.node, c.base)
			d.status = "cancelled"
		},
	}
}

func (d *demo) Update() error {
	d.input()
	d.loop.Flush()
	for id, img := range d.images {
		if !d.scene.Mounted(id) {
			img.Deallocate()
			delete(d.images, id)
		}
	}
	return nil
}

func (d *demo) input() {
	now := d.loop.Now()
	ev := func(k pointer.Kind, src pointer.Source, id pointer.ID, x, y int) pointer.Event {
		e := pointer.Event{
			Kind:      k,
			Source:    src,
			PointerID: id,
			Time:      now,
			Position:  f32.Pt(float32(x), float32(y)),
		}
		if src == pointer.Mouse {
			e.Buttons = pointer.ButtonPrimary
		}
		return e
	}
	var events []pointer.Event

	mx, my := ebiten.CursorPosition()
	switch down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft); {
	case down && !d.mouse:
		events = append(events, ev(pointer.Press, pointer.Mouse, mouseID, mx, my))
	case down && d.cursor != image.Pt(mx, my):
		events = append(events, ev(pointer.Move, pointer.Mouse, mouseID, mx, my))
	case d.mouse:
		events = append(events, ev(pointer.Release, pointer.Mouse, mouseID, mx, my))
	}
	d.mouse = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	d.cursor = image.Pt(mx, my)

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		pid := pointer.ID(len(d.touches))
		for d.inUse(pid) {
			pid++
		}
		d.touches[id] = pid
		x, y := ebiten.TouchPosition(id)
		events = append(events, ev(pointer.Press, pointer.Touch, pid, x, y))
	}
	for id, pid := range d.touches {
		if inpututil.IsTouchJustReleased(id) {
			x, y := inpututil.TouchPositionInPreviousTick(id)
			events = append(events, ev(pointer.Release, pointer.Touch, pid, x, y))
			delete(d.touches, id)
			continue
		}
		if inpututil.IsTouchJustPressed(id) {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		if px, py := inpututil.TouchPositionInPreviousTick(id); px != x || py != y {
			events = append(events, ev(pointer.Move, pointer.Touch, pid, x, y))
		}
	}
	if len(events) > 0 {
		d.router.Queue(events...)
	}
}

func (d *demo) inUse(pid pointer.ID) bool {
	for _, v := range d.touches {
		if v == pid {
			return true
		}
	}
	return false
}

func (d *demo) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	for _, id := range d.scene.Children(d.scene.Root()) {
		d.draw(screen, id)
	}
	for _, id := range d.scene.Children(d.scene.Overlay()) {
		d.draw(screen, id)
	}
	msg := "hold a card to lift it, then drag"
	if d.status != "" {
		msg = d.status
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, height-20)
}

// draw paints id and its children. Scale and opacity animations jump
// to their final values, so the properties are read as they are.
func (d *demo) draw(screen *ebiten.Image, id render.NodeID) {
	if b, ok := d.scene.Bounds(id); ok && d.scene.Mounted(id) {
		if img := d.image(id); img != nil {
			op := &ebiten.DrawImageOptions{}
			sz := b.Size()
			isz := img.Bounds().Size()
			op.GeoM.Scale(float64(sz.X)/float64(isz.X), float64(sz.Y)/float64(isz.Y))
			scale := float64(d.scene.Property(id, render.PropScale))
			c := b.Center()
			op.GeoM.Translate(-float64(sz.X)/2, -float64(sz.Y)/2)
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(float64(c.X), float64(c.Y))
			op.ColorScale.ScaleAlpha(d.scene.Property(id, render.PropOpacity))
			screen.DrawImage(img, op)
		}
	}
	for _, child := range d.scene.Children(id) {
		d.draw(screen, child)
	}
}

func (d *demo) image(id render.NodeID) *ebiten.Image {
	if img, ok := d.images[id]; ok {
		return img
	}
	ctx := d.scene.Context(id)
	if ctx == nil {
		return nil
	}
	src := ctx.Thumbnail(false)
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	d.images[id] = img
	return img
}

func (d *demo) Layout(outsideWidth, outsideHeight int) (int, int) {
	return width, height
}

