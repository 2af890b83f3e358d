// SPDX-License-Identifier: Unlicense OR MIT

package pointer

import (
	"testing"

	"arkgesture.org/f32"
)

func TestKindString(t *testing.T) {
	for _, tc := range []struct {
		typ Kind
		res string
	}{
		{Cancel, "Cancel"},
		{Press, "Press"},
		{Release, "Release"},
		{Move, "Move"},
		{Press | Release, "Press|Release"},
		{Press | Move | Release, "Press|Release|Move"},
		{Kind(0x30) | Press, "Press|0x30"},
	} {
		t.Run(tc.res, func(t *testing.T) {
			if want, got := tc.res, tc.typ.String(); want != got {
				t.Errorf("got %q; want %q", got, want)
			}
		})
	}
}

func TestSourceButtonsString(t *testing.T) {
	if got := Stylus.String(); got != "Stylus" {
		t.Errorf("got %q", got)
	}
	if got := Source(9).String(); got != "Source(9)" {
		t.Errorf("got %q", got)
	}
	if got := (ButtonPrimary | ButtonTertiary).String(); got != "Primary|Tertiary" {
		t.Errorf("got %q", got)
	}
}

func TestFingers(t *testing.T) {
	f := make(Fingers)
	f.Add(Event{PointerID: 2, Position: f32.Pt(10, 0)})
	f.Add(Event{PointerID: 1, Position: f32.Pt(0, 0)})

	if got := f.IDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("ids not sorted: %v", got)
	}
	if c := f.Centroid(); c != f32.Pt(5, 0) {
		t.Errorf("centroid: got %v", c)
	}
	if s := f.Spread(); s != 5 {
		t.Errorf("spread: got %v", s)
	}
	if f.Update(Event{PointerID: 3}) {
		t.Error("update of untracked pointer should fail")
	}
	if !f.Remove(2) || f.Has(2) || f.Len() != 1 {
		t.Error("remove did not forget pointer")
	}
	f.Clear()
	if f.Len() != 0 {
		t.Error("clear left pointers behind")
	}
}
