package planner

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
)

// ObstacleInput is one detected obstacle as supplied to a planning call.
type ObstacleInput struct {
	Position    r3.Vector
	Orientation quat.Number
	Velocity    r3.Vector
	Length      float64
	Width       float64
}

// PlanRequest carries every input to a single planning call.
type PlanRequest struct {
	// Waypoints is the reference centerline, at least 3 strictly distinct
	// points.
	Waypoints []r3.Vector

	// Start is the ego's current Frenet state.
	Start frenet.State

	// LaneID tags the lane this planning call's grid belongs to; carried
	// onto every generated candidate.
	LaneID int

	// LeftWidth and RightWidth are the positive lane half-widths bounding
	// the lateral sampling grid.
	LeftWidth  float64
	RightWidth float64

	// CurrentSpeed is the ego's current longitudinal speed, used by the
	// speed-tracking term of the fixed cost.
	CurrentSpeed float64

	Obstacles []ObstacleInput

	// CheckCollision disables the collision-checking stage entirely when
	// false (every constraint-passing candidate is accepted). Default true
	// is the caller's responsibility; the zero value here means false, so
	// callers must set it explicitly.
	CheckCollision bool

	// UseAsync dispatches the per-candidate collision check across a
	// worker pool instead of running it inline.
	UseAsync bool

	// Observer receives optional per-stage telemetry. If nil, NullObserver
	// is used.
	Observer Observer
}

// PlanResult is the outcome of a single planning call: at most one winning
// trajectory.
type PlanResult struct {
	Trajectory *frenet.Path
}

// gridIndex addresses one cell of the 3D sampling grid.
type gridIndex struct {
	I, J, K int
}

// cell is one seed in the sampling grid: a candidate trajectory plus the
// bookkeeping fields the search stage needs. Distinct from frenet.Path so
// the grid's coordinate-descent state (isUsed) never leaks into the
// trajectory type itself.
type cell struct {
	idx    gridIndex
	path   *frenet.Path
	isUsed bool
	queued bool
}
