// SPDX-License-Identifier: Unlicense OR MIT

package drag

import (
	"image"
	"time"

	"arkgesture.org/f32"
	"arkgesture.org/render"
)

// showPreview mounts the floating preview, or arranges for it to be
// mounted when its snapshot arrives.
func (a *Actuator) showPreview() {
	img, ready := a.previewImage()
	if !ready {
		a.showOnCapture = true
		return
	}
	a.mountPreview(img)
}

// previewImage returns the first available preview source. It
// reports false while the snapshot of the builder is in flight.
func (a *Actuator) previewImage() (image.Image, bool) {
	tree := a.deps.Tree
	if a.opts.Text != nil {
		return textImage(a.opts.Text), true
	}
	if a.opts.PixelMap != nil {
		return a.opts.PixelMap, true
	}
	if id := a.opts.InspectorID; id != "" {
		if n, ok := tree.Lookup(id); ok {
			if ctx := tree.Context(n); ctx != nil {
				if img := ctx.Thumbnail(false); img != nil {
					return img, true
				}
			}
		}
		tracer().Infof("drag@%d: no screenshot of %q", a.node, id)
	}
	if a.opts.Builder != render.NoNode {
		if a.captured != nil {
			return a.captured, true
		}
		if !a.capturing {
			a.capture()
		}
		return nil, false
	}
	if ctx := tree.Context(a.node); ctx != nil {
		return ctx.Thumbnail(false), true
	}
	return nil, true
}

// capture snapshots the builder node.
func (a *Actuator) capture() {
	a.capturing = true
	gen := a.gen
	timeout := time.Duration(a.deps.Tuning.SnapshotTimeout)
	a.deps.Snapshotter.CaptureAsync(a.opts.Builder, func(img image.Image) {
		if gen != a.gen {
			return
		}
		a.capturing = false
		a.captured = img
		if !a.showOnCapture {
			return
		}
		a.showOnCapture = false
		if a.stage == StagePreviewShown {
			a.mountPreview(img)
		}
	}, true, timeout)
}

// previewBounds returns the window rectangle of the preview.
func (a *Actuator) previewBounds() f32.Rectangle {
	b, _ := a.deps.Tree.Bounds(a.node)
	if t := a.opts.Text; t != nil {
		return t.Selection.Add(b.Min)
	}
	return b
}

func (a *Actuator) mountPreview(img image.Image) {
	if img == nil {
		tracer().Infof("drag@%d: no preview image", a.node)
		return
	}
	s := a.deps.Session
	if !s.TryMountPreview() {
		return
	}
	tree := a.deps.Tree
	if root, ok := tree.Bounds(tree.Root()); ok {
		img = render.Fit(img, image.Pt(int(root.Dx()), int(root.Dy())))
	}
	a.mountFilter()
	id := tree.NewImage(img, a.previewBounds())
	if err := tree.Mount(id, tree.Overlay()); err != nil {
		tracer().Errorf("drag@%d: preview: %v", a.node, err)
		a.unmount(a.filterNode)
		a.filterNode = render.NoNode
		s.ReleasePreview()
		return
	}
	a.pixelMap = id
	tracer().Debugf("drag@%d: preview %d mounted", a.node, id)
	t := a.deps.Tuning
	d := time.Duration(t.ShowDuration)
	if ctx := tree.Context(id); ctx != nil {
		ctx.Animate(render.PropScale, 1, t.PreviewScale, d, render.CurveEaseOut)
		ctx.Animate(render.PropBorderRadius, 0, t.Metric().Px(t.BorderRadius), d, render.CurveEaseOut)
	}
}

// mountFilter mounts the blurred backdrop below the preview.
func (a *Actuator) mountFilter() {
	s := a.deps.Session
	if s.HasFilter() {
		return
	}
	tree := a.deps.Tree
	root := tree.Root()
	ctx := tree.Context(root)
	if ctx == nil {
		return
	}
	backdrop := ctx.Thumbnail(false)
	if backdrop == nil {
		tracer().Infof("drag@%d: no backdrop for the filter", a.node)
		return
	}
	t := a.deps.Tuning
	bounds, _ := tree.Bounds(root)
	id := tree.NewImage(render.Blur(backdrop, float64(t.BlurRadius)), bounds)
	if err := tree.Mount(id, tree.Overlay()); err != nil {
		tracer().Errorf("drag@%d: filter: %v", a.node, err)
		return
	}
	a.filterNode = id
	s.SetFilter(true)
	if fc := tree.Context(id); fc != nil {
		d := time.Duration(t.ShowDuration)
		fc.Animate(render.PropOpacity, 0, 1, d, render.CurveEaseOut)
		fc.Animate(render.PropBlurRadius, 0, t.BlurRadius, d, render.CurveEaseOut)
	}
}

// hidePreview removes the preview at once when the drag takes over.
func (a *Actuator) hidePreview() {
	defer a.deps.Session.ReleasePreview()
	a.unmount(a.pixelMap, a.filterNode)
	a.pixelMap, a.filterNode = render.NoNode, render.NoNode
}

// teardown animates the preview back to the node and then removes
// it, ending the drag.
func (a *Actuator) teardown() {
	preview, filter := a.pixelMap, a.filterNode
	a.pixelMap, a.filterNode = render.NoNode, render.NoNode
	release := func() {
		a.deps.Session.ReleasePreview()
		a.deps.Session.EndDrag(a)
	}
	if preview == render.NoNode && filter == render.NoNode {
		release()
		return
	}
	t := a.deps.Tuning
	d := time.Duration(t.HideDuration)
	opt := render.AnimationOption{Duration: d, Curve: render.CurveFriction}
	a.deps.Animator.Animate(opt, func() {
		if ctx := a.context(preview); ctx != nil {
			ctx.Animate(render.PropBorderRadius, t.Metric().Px(t.BorderRadius), 0, d, opt.Curve)
			ctx.Animate(render.PropScale, t.PreviewScale, 1, d, opt.Curve)
		}
		if ctx := a.context(filter); ctx != nil {
			ctx.Animate(render.PropBlurRadius, t.BlurRadius, 0, d, opt.Curve)
			ctx.Animate(render.PropOpacity, 1, 0, d, opt.Curve)
		}
	}, func() {
		defer release()
		a.unmount(preview, filter)
		tracer().Debugf("drag@%d: preview removed", a.node)
	})
}

func (a *Actuator) context(id render.NodeID) render.Context {
	if id == render.NoNode {
		return nil
	}
	return a.deps.Tree.Context(id)
}

func (a *Actuator) unmount(ids ...render.NodeID) {
	for _, id := range ids {
		if id != render.NoNode {
			a.deps.Tree.Unmount(id)
		}
	}
}
