// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Fit scales img to fit within max, keeping its aspect ratio. Images
// already inside max are returned unchanged.
func Fit(img image.Image, max image.Point) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() <= max.X && b.Dy() <= max.Y || b.Empty() {
		return img
	}
	w, h := max.X, b.Dy()*max.X/b.Dx()
	if h > max.Y {
		w, h = b.Dx()*max.Y/b.Dy(), max.Y
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Blur returns a gaussian blurred copy of img, the backdrop of a
// drag filter.
func Blur(img image.Image, sigma float64) image.Image {
	if img == nil || sigma <= 0 {
		return img
	}
	return imaging.Blur(img, sigma)
}
