// Package polynomial implements the quartic and quintic interpolators used
// to build lateral and longitudinal Frenet profiles between boundary
// kinematic states.
package polynomial

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Quintic is a degree-5 polynomial matching a start and end
// (position, velocity, acceleration) over [0, T].
type Quintic struct {
	a0, a1, a2, a3, a4, a5 float64
	t                      float64
}

// NewQuintic solves for the coefficients of p such that
// p(0)=startPos, p'(0)=startVel, p''(0)=startAccel,
// p(T)=endPos,   p'(T)=endVel,   p''(T)=endAccel.
func NewQuintic(startPos, startVel, startAccel, endPos, endVel, endAccel, t float64) (*Quintic, error) {
	if t <= 0 {
		return nil, errors.New("polynomial: quintic duration must be positive")
	}

	a0 := startPos
	a1 := startVel
	a2 := startAccel / 2

	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	t5 := t4 * t

	a := mat.NewDense(3, 3, []float64{
		t3, t4, t5,
		3 * t2, 4 * t3, 5 * t4,
		6 * t, 12 * t2, 20 * t3,
	})
	b := mat.NewVecDense(3, []float64{
		endPos - (a0 + a1*t + a2*t2),
		endVel - (a1 + 2*a2*t),
		endAccel - 2*a2,
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "polynomial: solving quintic boundary system")
	}

	return &Quintic{
		a0: a0, a1: a1, a2: a2,
		a3: x.AtVec(0), a4: x.AtVec(1), a5: x.AtVec(2),
		t: t,
	}, nil
}

// Duration returns the T the polynomial was built for.
func (q *Quintic) Duration() float64 { return q.t }

// Value returns p(t).
func (q *Quintic) Value(t float64) float64 {
	return q.a0 + q.a1*t + q.a2*t*t + q.a3*t*t*t + q.a4*t*t*t*t + q.a5*t*t*t*t*t
}

// D1 returns p'(t).
func (q *Quintic) D1(t float64) float64 {
	return q.a1 + 2*q.a2*t + 3*q.a3*t*t + 4*q.a4*t*t*t + 5*q.a5*t*t*t*t
}

// D2 returns p''(t).
func (q *Quintic) D2(t float64) float64 {
	return 2*q.a2 + 6*q.a3*t + 12*q.a4*t*t + 20*q.a5*t*t*t
}

// D3 returns p'''(t), the jerk.
func (q *Quintic) D3(t float64) float64 {
	return 6*q.a3 + 24*q.a4*t + 60*q.a5*t*t
}

// Quartic is a degree-4 polynomial matching a start
// (position, velocity, acceleration) and an end (velocity, acceleration)
// over [0, T]; the end position is left free.
type Quartic struct {
	a0, a1, a2, a3, a4 float64
	t                  float64
}

// NewQuartic solves for the coefficients of p such that
// p(0)=startPos, p'(0)=startVel, p''(0)=startAccel, p'(T)=endVel, p''(T)=endAccel.
func NewQuartic(startPos, startVel, startAccel, endVel, endAccel, t float64) (*Quartic, error) {
	if t <= 0 {
		return nil, errors.New("polynomial: quartic duration must be positive")
	}

	a0 := startPos
	a1 := startVel
	a2 := startAccel / 2

	t2 := t * t

	a := mat.NewDense(2, 2, []float64{
		3 * t2, 4 * t2 * t,
		6 * t, 12 * t2,
	})
	b := mat.NewVecDense(2, []float64{
		endVel - (a1 + 2*a2*t),
		endAccel - 2*a2,
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "polynomial: solving quartic boundary system")
	}

	return &Quartic{
		a0: a0, a1: a1, a2: a2,
		a3: x.AtVec(0), a4: x.AtVec(1),
		t: t,
	}, nil
}

// Duration returns the T the polynomial was built for.
func (q *Quartic) Duration() float64 { return q.t }

// Value returns p(t).
func (q *Quartic) Value(t float64) float64 {
	return q.a0 + q.a1*t + q.a2*t*t + q.a3*t*t*t + q.a4*t*t*t*t
}

// D1 returns p'(t).
func (q *Quartic) D1(t float64) float64 {
	return q.a1 + 2*q.a2*t + 3*q.a3*t*t + 4*q.a4*t*t*t
}

// D2 returns p''(t).
func (q *Quartic) D2(t float64) float64 {
	return 2*q.a2 + 6*q.a3*t + 12*q.a4*t*t
}

// D3 returns p'''(t), the jerk.
func (q *Quartic) D3(t float64) float64 {
	return 6*q.a3 + 24*q.a4*t
}
