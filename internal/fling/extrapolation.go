// SPDX-License-Identifier: Unlicense OR MIT

// Package fling estimates pointer velocity from a short history of
// position samples, by least squares fitting of a quadratic.
package fling

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Extrapolation computes a 1-dimensional velocity estimate
// for a set of timestamped points.
type Extrapolation struct {
	idx    int
	n      int
	values [historySize]float32
	times  [historySize]time.Duration
}

// Estimate is the result of an Extrapolation.
type Estimate struct {
	// Velocity in units per second at the most recent sample.
	Velocity float32
	// Distance covered by the samples used for the fit.
	Distance float32
}

type coefficients [degree + 1]float32

// matrix is a row-major dense matrix.
type matrix struct {
	rows, cols int
	data       []float32
}

const (
	historySize = 20
	degree      = 2
	// maxAge is the oldest sample that takes part in an estimate.
	maxAge = 100 * time.Millisecond
	// maxGap ends the history at a pause in movement.
	maxGap = 40 * time.Millisecond
)

// Sample adds a sample at time t.
func (e *Extrapolation) Sample(t time.Duration, v float32) {
	e.idx = (e.idx + 1) % historySize
	e.values[e.idx] = v
	e.times[e.idx] = t
	if e.n < historySize {
		e.n++
	}
}

// Reset forgets every sample.
func (e *Extrapolation) Reset() {
	*e = Extrapolation{}
}

// Estimate the velocity at the most recent sample.
func (e *Extrapolation) Estimate() Estimate {
	if e.n < 2 {
		return Estimate{}
	}
	last := e.times[e.idx]
	var X, Y []float32
	prev := last
	for i := 0; i < e.n; i++ {
		j := (e.idx - i + historySize) % historySize
		t := e.times[j]
		if last-t > maxAge || prev-t > maxGap {
			break
		}
		prev = t
		// Sample times relative to the last sample, in milliseconds
		// to keep the quadratic column well conditioned.
		X = append(X, float32(t-last)/float32(time.Millisecond))
		Y = append(Y, e.values[j])
	}
	if len(X) < 2 {
		return Estimate{}
	}
	dist := Y[0] - Y[len(Y)-1]
	if len(X) > degree {
		if coef, ok := polyFit(X, Y); ok {
			return Estimate{Velocity: coef[1] * 1000, Distance: dist}
		}
	}
	// Too few samples for a quadratic; use the secant.
	dt := X[0] - X[len(X)-1]
	if dt <= 0 {
		return Estimate{Distance: dist}
	}
	return Estimate{Velocity: dist / dt * 1000, Distance: dist}
}

// polyFit finds the polynomial coefficients of degree `degree` that
// best fit the samples in the least squares sense.
func polyFit(X, Y []float32) (coefficients, bool) {
	if len(X) != len(Y) {
		panic("X and Y lengths differ")
	}
	if len(X) <= degree {
		panic("not enough samples")
	}
	A := newMatrix(len(X), degree+1)
	for i, x := range X {
		p := float32(1)
		for j := 0; j <= degree; j++ {
			A.set(i, j, p)
			p *= x
		}
	}
	Q, Rt, ok := decomposeQR(A)
	if !ok {
		return coefficients{}, false
	}
	// Solve R*c = Qt*Y by back substitution.
	var c coefficients
	for i := degree; i >= 0; i-- {
		s := float32(0)
		for j := range Y {
			s += Q.get(j, i) * Y[j]
		}
		for j := i + 1; j <= degree; j++ {
			s -= Rt.get(j, i) * c[j]
		}
		c[i] = s / Rt.get(i, i)
	}
	return c, true
}

// decomposeQR computes the QR decomposition of A by Gram-Schmidt
// orthogonalization. It returns Q and the transpose of R, and false
// if A is rank deficient.
func decomposeQR(A *matrix) (*matrix, *matrix, bool) {
	Q := newMatrix(A.rows, A.cols)
	Rt := newMatrix(A.cols, A.cols)
	for i := 0; i < A.cols; i++ {
		for r := 0; r < A.rows; r++ {
			Q.set(r, i, A.get(r, i))
		}
		for j := 0; j < i; j++ {
			d := Q.colDot(i, Q, j)
			for r := 0; r < A.rows; r++ {
				Q.set(r, i, Q.get(r, i)-d*Q.get(r, j))
			}
		}
		n := float32(math.Sqrt(float64(Q.colDot(i, Q, i))))
		if n < 1e-6 {
			return nil, nil, false
		}
		for r := 0; r < A.rows; r++ {
			Q.set(r, i, Q.get(r, i)/n)
		}
	}
	for i := 0; i < A.cols; i++ {
		for j := i; j < A.cols; j++ {
			Rt.set(j, i, Q.colDot(i, A, j))
		}
	}
	return Q, Rt, true
}

func newMatrix(rows, cols int) *matrix {
	return &matrix{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

func (m *matrix) get(row, col int) float32 {
	return m.data[row*m.cols+col]
}

func (m *matrix) set(row, col int, v float32) {
	m.data[row*m.cols+col] = v
}

// colDot returns the dot product of column i of m and column j of m2.
func (m *matrix) colDot(i int, m2 *matrix, j int) float32 {
	var s float32
	for r := 0; r < m.rows; r++ {
		s += m.get(r, i) * m2.get(r, j)
	}
	return s
}

func (m *matrix) transpose() *matrix {
	t := newMatrix(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			t.set(c, r, m.get(r, c))
		}
	}
	return t
}

func (m *matrix) mul(m2 *matrix) *matrix {
	if m.cols != m2.rows {
		panic("mismatched matrices")
	}
	p := newMatrix(m.rows, m2.cols)
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			var s float32
			for k := 0; k < m.cols; k++ {
				s += m.get(r, k) * m2.get(k, c)
			}
			p.set(r, c, s)
		}
	}
	return p
}

func (m *matrix) approxEqual(m2 *matrix) bool {
	if m.rows != m2.rows || m.cols != m2.cols {
		return false
	}
	for i, v := range m.data {
		if !approxEqual(v, m2.data[i]) {
			return false
		}
	}
	return true
}

func (c coefficients) approxEqual(c2 coefficients) bool {
	for i, v := range c {
		if !approxEqual(v, c2[i]) {
			return false
		}
	}
	return true
}

func approxEqual(a, b float32) bool {
	const eps = 1e-3
	scale := float32(math.Max(1, math.Max(math.Abs(float64(a)), math.Abs(float64(b)))))
	return float32(math.Abs(float64(a-b))) <= eps*scale
}

func (m *matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			b.WriteString(strconv.FormatFloat(float64(m.get(r, c)), 'g', 5, 32))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
