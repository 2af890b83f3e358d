// SPDX-License-Identifier: Unlicense OR MIT

package scene

import (
	"image"
	"strconv"
	"time"

	"arkgesture.org/app"
	"arkgesture.org/render"
)

// CaptureAsync rasterizes node in the background and calls cb from
// the loop. Concurrent captures of the same node share one
// rasterization. A positive timeout delivers nil if the capture is
// not done in time; without allowEmptyCache an empty node delivers
// nil.
func (s *Scene) CaptureAsync(id render.NodeID, cb func(image.Image), allowEmptyCache bool, timeout time.Duration) {
	n, ok := s.nodes[id]
	if !ok {
		tracer().Infof("capture %d: %v", id, ErrNoNode)
		s.loop.Post(func() { cb(nil) })
		return
	}
	done := false
	var expiry *app.Timer
	deliver := func(img image.Image) {
		if done {
			return
		}
		done = true
		expiry.Cancel()
		cb(img)
	}
	if timeout > 0 {
		expiry = s.loop.PostDelayed(timeout, func() {
			if !done {
				tracer().Infof("capture %d: timed out after %v", id, timeout)
			}
			deliver(nil)
		})
	}
	c := n.content()
	key := strconv.FormatUint(uint64(id), 10)
	run := func() {
		v, _, _ := s.capture.Do(key, func() (any, error) {
			return rasterize(c), nil
		})
		img, _ := v.(image.Image)
		s.loop.Post(func() {
			if img == nil && !allowEmptyCache {
				deliver(nil)
				return
			}
			if img != nil {
				s.thumbs.Add(id, img)
			}
			deliver(img)
		})
	}
	if s.Synchronous {
		run()
		return
	}
	go run()
}
