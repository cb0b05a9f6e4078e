package spline

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Spline2D parameterizes a 2D curve by cumulative arc length s, giving
// position, yaw, and curvature at any s along the reference waypoints it
// was built from.
type Spline2D struct {
	sx, sy *Spline1D
	sTotal float64
}

// NewSpline2D builds a Spline2D from an ordered, duplicate-free waypoint
// list. Arc length is accumulated as piecewise Euclidean distance between
// consecutive waypoints: s[0] = 0, s[i] = s[i-1] + |p[i] - p[i-1]|.
func NewSpline2D(waypoints []r3.Vector) (*Spline2D, error) {
	if len(waypoints) < 3 {
		return nil, errors.New("spline: need at least 3 waypoints")
	}

	s := make([]float64, len(waypoints))
	for i := 1; i < len(waypoints); i++ {
		d := waypoints[i].Sub(waypoints[i-1]).Norm()
		if d <= 0 {
			return nil, errors.New("spline: duplicate consecutive waypoints")
		}
		s[i] = s[i-1] + d
	}

	xs := make([]float64, len(waypoints))
	ys := make([]float64, len(waypoints))
	for i, p := range waypoints {
		xs[i] = p.X
		ys[i] = p.Y
	}

	sx, err := NewSpline1D(s, xs)
	if err != nil {
		return nil, errors.Wrap(err, "spline: building x(s)")
	}
	sy, err := NewSpline1D(s, ys)
	if err != nil {
		return nil, errors.Wrap(err, "spline: building y(s)")
	}

	return &Spline2D{sx: sx, sy: sy, sTotal: s[len(s)-1]}, nil
}

// TotalLength returns the spline's total arc length.
func (s *Spline2D) TotalLength() float64 { return s.sTotal }

// Position returns (x, y) at arc length s.
func (sp *Spline2D) Position(s float64) r3.Vector {
	return r3.Vector{X: sp.sx.Value(s), Y: sp.sy.Value(s), Z: 0}
}

// Yaw returns the tangent heading atan2(dy/ds, dx/ds) at arc length s.
func (sp *Spline2D) Yaw(s float64) float64 {
	return math.Atan2(sp.sy.D1(s), sp.sx.D1(s))
}

// Curvature returns the signed curvature (x'y'' - y'x'') / (x'^2 + y'^2)^(3/2)
// at arc length s.
func (sp *Spline2D) Curvature(s float64) float64 {
	dx := sp.sx.D1(s)
	dy := sp.sy.D1(s)
	ddx := sp.sx.D2(s)
	ddy := sp.sy.D2(s)
	denom := math.Pow(dx*dx+dy*dy, 1.5)
	if denom == 0 {
		return 0
	}
	return (dx*ddy - dy*ddx) / denom
}
