// SPDX-License-Identifier: Unlicense OR MIT

package drag

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textPadding surrounds the text of a text drag node.
const textPadding = 4

// textImage renders the drag node of a text source: the text on a
// white plate.
func textImage(t *TextSource) image.Image {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	w := d.MeasureString(t.Text).Ceil()
	if w == 0 {
		return nil
	}
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w+2*textPadding, h+2*textPadding))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	c := t.Color
	if c == nil {
		c = color.Black
	}
	d.Dst = img
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(textPadding, textPadding+m.Ascent.Ceil())
	d.DrawString(t.Text)
	return img
}
