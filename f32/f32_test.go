// SPDX-License-Identifier: Unlicense OR MIT

package f32

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPointLen(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Len(); !near(got, 5) {
		t.Errorf("len mismatch: have %v, want 5", got)
	}
	if got := Pt(1, 1).Dist(Pt(4, 5)); !near(got, 5) {
		t.Errorf("dist mismatch: have %v, want 5", got)
	}
}

func TestPointAngle(t *testing.T) {
	for _, tc := range []struct {
		p    Point
		want float32
	}{
		{Pt(1, 0), 0},
		{Pt(0, 1), 90},
		{Pt(-1, 0), 180},
		{Pt(0, -1), -90},
	} {
		if got := tc.p.Angle(); !near(got, tc.want) {
			t.Errorf("angle of %v: have %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rect(10, 10, 0, 0)
	if r.Min != Pt(0, 0) || r.Max != Pt(10, 10) {
		t.Fatalf("Rect did not canonicalize: %v", r)
	}
	if !r.Contains(Pt(0, 0)) {
		t.Error("min corner should be contained")
	}
	if r.Contains(Pt(10, 5)) {
		t.Error("max edge should be excluded")
	}
	if got := r.Scale(2); got != Rect(-5, -5, 15, 15) {
		t.Errorf("scale mismatch: %v", got)
	}
	if got := (Rectangle{}).Union(r); got != r {
		t.Errorf("union with empty: %v", got)
	}
}
