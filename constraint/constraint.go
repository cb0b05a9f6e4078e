// Package constraint checks a lifted Frenet trajectory against the vehicle's
// kinematic limits.
package constraint

import (
	"math"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
)

// Result records the outcome of checking a trajectory. Passed is the hard
// speed/accel/curvature/NaN check. CurvatureRate is a separate, softer
// check: trajectories that fail only CurvatureRate are eligible for the
// orchestrator's backup-path fallback rather than being dropped outright.
type Result struct {
	Passed        bool
	CurvatureRate bool
	FailedAtTick  int
}

// Check runs the constraint check once. It is idempotent: it reads only
// from p and cfg, and writes nothing, so running it twice on the same
// trajectory yields the same Result.
func Check(p *frenet.Path, cfg *config.Config) Result {
	res := Result{Passed: true, CurvatureRate: true, FailedAtTick: -1}

	if len(p.X) < 2 {
		res.Passed = false
		res.FailedAtTick = 0
		return res
	}

	for k := range p.X {
		if !isFinite(p.X[k]) || !isFinite(p.Y[k]) {
			res.Passed = false
			res.FailedAtTick = k
			break
		}
		if p.SDot[k] > cfg.MaxSpeed {
			res.Passed = false
			res.FailedAtTick = k
			break
		}
		if p.SDDot[k] > cfg.MaxAccel || p.SDDot[k] < cfg.MaxDecel {
			res.Passed = false
			res.FailedAtTick = k
			break
		}
		if math.Abs(p.Curvature[k]) > cfg.MaxCurvature {
			res.Passed = false
			res.FailedAtTick = k
			break
		}
	}

	if res.Passed && cfg.SteeringAngleRate > 0 && cfg.RearAxleOffset > 0 {
		maxCurvatureRate := cfg.SteeringAngleRate / cfg.RearAxleOffset
		maxCurvatureChange := maxCurvatureRate*cfg.TickT - 0.0005
		for k := 1; k < len(p.Curvature); k++ {
			if math.Abs(p.Curvature[k]-p.Curvature[k-1]) > maxCurvatureChange {
				res.CurvatureRate = false
				break
			}
		}
	}

	return res
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
