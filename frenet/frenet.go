// Package frenet defines the Frenet-frame trajectory representation and the
// lift from Frenet (s, d) samples to a global Cartesian path.
package frenet

import (
	"math"

	"github.com/golang/geo/r3"
)

// State is a Frenet-frame kinematic state. T is only meaningful on end
// states, where it is the candidate's time horizon.
type State struct {
	S, SDot, SDDot    float64
	D, DDot, DDDot    float64
	T                 float64
}

// Path is a single candidate trajectory: the end state it targets, its
// lane tag, per-tick Frenet samples, the Cartesian lift of those samples,
// and the bookkeeping/cost fields the sampling and search stages fill in.
type Path struct {
	End    State
	LaneID int

	// Per-tick Frenet samples.
	T     []float64
	S     []float64
	SDot  []float64
	SDDot []float64
	SJerk []float64
	D     []float64
	DDot  []float64
	DDDot []float64
	DJerk []float64

	// Cartesian lift, populated by ToCartesian.
	X         []float64
	Y         []float64
	Yaw       []float64
	Ds        []float64
	Curvature []float64

	// Lifecycle flags.
	IsGenerated      bool
	IsUsed           bool
	ConstraintPassed bool
	CurvatureRatePassed bool
	CollisionPassed  bool

	// Costs. FixCost and HurCost are available at sampling time; DynCost
	// only after on-demand generation.
	FixCost float64
	HurCost float64
	DynCost float64
}

// FinalCost returns FixCost + DynCost. It is only meaningful once the path
// has been generated.
func (p *Path) FinalCost() float64 { return p.FixCost + p.DynCost }

// ReferenceCurve is the subset of spline.Spline2D that ToCartesian needs,
// kept narrow so this package does not import spline directly and create a
// cycle with callers that need both.
type ReferenceCurve interface {
	Position(s float64) r3.Vector
	Yaw(s float64) float64
}

// ToCartesian lifts p's Frenet samples into p.X/Y/Yaw/Ds/Curvature using
// the reference curve ref. If a lifted coordinate is non-finite the
// trajectory is truncated at that tick.
func ToCartesian(p *Path, ref ReferenceCurve) {
	n := len(p.S)
	p.X = make([]float64, 0, n)
	p.Y = make([]float64, 0, n)

	for k := 0; k < n; k++ {
		refPt := ref.Position(p.S[k])
		yawRef := ref.Yaw(p.S[k])
		x := refPt.X + p.D[k]*math.Cos(yawRef+math.Pi/2)
		y := refPt.Y + p.D[k]*math.Sin(yawRef+math.Pi/2)
		if !isFinite(x) || !isFinite(y) {
			break
		}
		p.X = append(p.X, x)
		p.Y = append(p.Y, y)
	}

	m := len(p.X)
	p.Yaw = make([]float64, m)
	p.Ds = make([]float64, m)
	for k := 0; k < m-1; k++ {
		dx := p.X[k+1] - p.X[k]
		dy := p.Y[k+1] - p.Y[k]
		p.Yaw[k] = math.Atan2(dy, dx)
		p.Ds[k] = math.Hypot(dx, dy)
	}
	if m > 0 {
		p.Yaw[m-1] = p.Yaw[maxIdx(m-2)]
		p.Ds[m-1] = p.Ds[maxIdx(m-2)]
	}

	p.Curvature = make([]float64, m)
	for k := 0; k < m-1; k++ {
		if p.Ds[k] == 0 {
			continue
		}
		p.Curvature[k] = normalizeAngle(p.Yaw[k+1]-p.Yaw[k]) / p.Ds[k]
	}
	if m > 0 {
		p.Curvature[m-1] = p.Curvature[maxIdx(m-2)]
	}

	// Truncate every other per-tick series to the same surviving length so
	// downstream consumers can index any field safely.
	truncate(&p.T, m)
	truncate(&p.S, m)
	truncate(&p.SDot, m)
	truncate(&p.SDDot, m)
	truncate(&p.SJerk, m)
	truncate(&p.D, m)
	truncate(&p.DDot, m)
	truncate(&p.DDDot, m)
	truncate(&p.DJerk, m)
}

func truncate(s *[]float64, n int) {
	if len(*s) > n {
		*s = (*s)[:n]
	}
}

func maxIdx(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// normalizeAngle maps any real angle into (-pi, pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}
