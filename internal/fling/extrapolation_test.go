// SPDX-License-Identifier: Unlicense OR MIT

package fling

import (
	"testing"
	"time"
)

func TestDecomposeQR(t *testing.T) {
	A := &matrix{
		rows: 3, cols: 3,
		data: []float32{
			12, 6, -4,
			-51, 167, 24,
			4, -68, -41,
		},
	}
	Q, Rt, ok := decomposeQR(A)
	if !ok {
		t.Fatal("decomposeQR failed")
	}
	R := Rt.transpose()
	QR := Q.mul(R)
	if !A.approxEqual(QR) {
		t.Log("A\n", A)
		t.Log("Q\n", Q)
		t.Log("R\n", R)
		t.Log("QR\n", QR)
		t.Fatal("Q*R not approximately equal to A")
	}
}

func TestFit(t *testing.T) {
	X := []float32{-1, 0, 1}
	Y := []float32{2, 0, 2}

	got, ok := polyFit(X, Y)
	if !ok {
		t.Fatal("polyFit failed")
	}
	want := coefficients{0, 0, 2}
	if !got.approxEqual(want) {
		t.Fatalf("polyFit: got %v want %v", got, want)
	}
}

func TestEstimateConstantVelocity(t *testing.T) {
	var e Extrapolation
	// 2 units per millisecond, sampled every 8ms.
	for i := 0; i < 10; i++ {
		ts := time.Duration(i) * 8 * time.Millisecond
		e.Sample(ts, float32(i)*16)
	}
	est := e.Estimate()
	if d := est.Velocity - 2000; d < -10 || d > 10 {
		t.Fatalf("velocity: got %v want 2000", est.Velocity)
	}
}

func TestEstimateStaleSamples(t *testing.T) {
	var e Extrapolation
	e.Sample(0, 0)
	e.Sample(10*time.Millisecond, 50)
	// A pause longer than maxGap discards the history.
	e.Sample(200*time.Millisecond, 50)
	if est := e.Estimate(); est.Velocity != 0 {
		t.Fatalf("velocity after pause: got %v want 0", est.Velocity)
	}
}
