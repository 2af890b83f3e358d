// SPDX-License-Identifier: Unlicense OR MIT

/*
Package unit implements device independent units.

A virtual pixel, or vp, is the unit for gesture thresholds such as
touch slop and pan distance. It has the same apparent size across
displays; Metric converts it to device pixels, the unit of touch
coordinates.
*/
package unit

import (
	"fmt"
	"math"
)

// Vp represents virtual pixels.
type Vp float32

// Metric converts Values to device pixels.
type Metric struct {
	// PxPerVp is the device pixels per vp. Zero means 1.
	PxPerVp float32
}

func (v Vp) String() string {
	return fmt.Sprintf("%gvp", float32(v))
}

// Px converts v to device pixels.
func (m Metric) Px(v Vp) float32 {
	return float32(v) * m.scale()
}

// PxToVp converts px device pixels to vp.
func (m Metric) PxToVp(px float32) Vp {
	return Vp(px / m.scale())
}

// Squared returns the square of v in device pixels. Comparing
// squared distances avoids a square root per touch sample.
func (m Metric) Squared(v Vp) float32 {
	px := m.Px(v)
	return px * px
}

func (m Metric) scale() float32 {
	if m.PxPerVp <= 0 || math.IsNaN(float64(m.PxPerVp)) {
		return 1
	}
	return m.PxPerVp
}
