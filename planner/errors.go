package planner

import "github.com/pkg/errors"

// NewInvalidWaypointsError is used when a planning call is given fewer than
// three reference waypoints.
func NewInvalidWaypointsError(got int) error {
	return errors.Errorf("planner: need at least 3 reference waypoints, got %d", got)
}

// NewNonMonotoneWaypointsError is used when two consecutive waypoints
// coincide, leaving the reference spline's arc-length parameterization
// degenerate.
func NewNonMonotoneWaypointsError(index int) error {
	return errors.Errorf("planner: waypoints %d and %d are not strictly monotone (zero-length segment)", index-1, index)
}

// NewInvalidGridSizeError is used when a grid dimension is too small to
// bracket a descent.
func NewInvalidGridSizeError(name string, got int) error {
	return errors.Errorf("planner: grid dimension %s must be >= 2, got %d", name, got)
}

// NewInvalidHorizonError is used when the planning horizon range is
// degenerate or inverted.
func NewInvalidHorizonError(minT, maxT float64) error {
	return errors.Errorf("planner: max_t (%f) must exceed min_t (%f)", maxT, minT)
}
