// Package spline implements natural cubic splines over a scalar parameter,
// and a 2D arc-length-parameterized spline built from two of them — the
// reference curve the rest of the planner lifts Frenet coordinates against.
package spline

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Spline1D is a natural cubic spline over strictly increasing x with paired
// y. Evaluation outside [x[0], x[n-1]] returns 0, per the domain contract.
type Spline1D struct {
	x          []float64
	a, b, c, d []float64 // per-segment coefficients, length n-1
}

// NewSpline1D builds a natural cubic spline through (x[i], y[i]). x must be
// strictly increasing and len(x) must be >= 3.
//
// The second-derivative coefficients are obtained by solving the standard
// natural-spline tridiagonal system as a general dense linear system (via
// gonum/mat), rather than a size-hard-coded closed form — the source this
// planner is derived from hard-codes a 5x5 matrix inverse that silently
// returns zeros for any other n.
func NewSpline1D(x, y []float64) (*Spline1D, error) {
	n := len(x)
	if n != len(y) {
		return nil, errors.New("spline: x and y must have equal length")
	}
	if n < 3 {
		return nil, errors.New("spline: need at least 3 points")
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, errors.New("spline: x must be strictly increasing")
		}
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}

	c := make([]float64, n)
	if n > 2 {
		interior := n - 2
		sys := mat.NewDense(interior, interior, nil)
		rhs := mat.NewVecDense(interior, nil)
		for row := 0; row < interior; row++ {
			i := row + 1 // index into h/y, 1..n-2
			sys.Set(row, row, 2*(h[i-1]+h[i]))
			if row > 0 {
				sys.Set(row, row-1, h[i-1])
			}
			if row < interior-1 {
				sys.Set(row, row+1, h[i])
			}
			rhs.SetVec(row, 3*((y[i+1]-y[i])/h[i]-(y[i]-y[i-1])/h[i-1]))
		}

		var sol mat.VecDense
		if err := sol.SolveVec(sys, rhs); err != nil {
			return nil, errors.Wrap(err, "spline: solving natural-spline tridiagonal system")
		}
		for row := 0; row < interior; row++ {
			c[row+1] = sol.AtVec(row)
		}
	}
	// c[0] = c[n-1] = 0 (natural boundary), already the zero value.

	a := make([]float64, n-1)
	b := make([]float64, n-1)
	d := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		a[i] = y[i]
		d[i] = (c[i+1] - c[i]) / (3 * h[i])
		b[i] = (y[i+1]-y[i])/h[i] - h[i]*(c[i+1]+2*c[i])/3
	}

	return &Spline1D{x: append([]float64(nil), x...), a: a, b: b, c: c[:n-1], d: d}, nil
}

// segment returns the index i such that x[i] <= t < x[i+1], or -1 if t is
// out of range.
func (s *Spline1D) segment(t float64) int {
	n := len(s.x)
	if t < s.x[0] || t > s.x[n-1] {
		return -1
	}
	// binary search for the rightmost x[i] <= t
	i := sort.Search(n, func(i int) bool { return s.x[i] > t }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i
}

// Value returns the spline's value at t, or 0 if t is outside the domain.
func (s *Spline1D) Value(t float64) float64 {
	i := s.segment(t)
	if i < 0 {
		return 0
	}
	dx := t - s.x[i]
	return s.a[i] + s.b[i]*dx + s.c[i]*dx*dx + s.d[i]*dx*dx*dx
}

// D1 returns the spline's first derivative at t, or 0 if out of domain.
func (s *Spline1D) D1(t float64) float64 {
	i := s.segment(t)
	if i < 0 {
		return 0
	}
	dx := t - s.x[i]
	return s.b[i] + 2*s.c[i]*dx + 3*s.d[i]*dx*dx
}

// D2 returns the spline's second derivative at t, or 0 if out of domain.
func (s *Spline1D) D2(t float64) float64 {
	i := s.segment(t)
	if i < 0 {
		return 0
	}
	dx := t - s.x[i]
	return 2*s.c[i] + 6*s.d[i]*dx
}

// Domain returns [x[0], x[n-1]].
func (s *Spline1D) Domain() (float64, float64) {
	return s.x[0], s.x[len(s.x)-1]
}
