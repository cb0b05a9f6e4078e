// Package planner composes the sampling engine, gradient-descent selector,
// and validation pipeline into a single planning call.
package planner

import (
	"container/heap"
	"context"

	"github.com/pkg/errors"

	"github.com/Forrest-Z/frenet-optimal-planner/collision"
	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/constraint"
	"github.com/Forrest-Z/frenet-optimal-planner/flog"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
	"github.com/Forrest-Z/frenet-optimal-planner/obstacle"
	"github.com/Forrest-Z/frenet-optimal-planner/spline"
)

// Orchestrator composes the sampling, search, and validation stages behind
// a single Plan entry point. One Orchestrator value is reusable across
// calls (it holds only configuration and a logger), but a single call's
// grid and queue never outlive that call.
type Orchestrator struct {
	cfg    *config.Config
	logger flog.Logger
}

// NewOrchestrator builds an Orchestrator against a validated Config. If
// logger is nil, flog.NewNopLogger() is used.
func NewOrchestrator(cfg *config.Config, logger flog.Logger) *Orchestrator {
	if logger == nil {
		logger = flog.NewNopLogger()
	}
	return &Orchestrator{cfg: cfg, logger: logger}
}

// Plan runs one planning call to completion: validate the request, predict
// obstacle trajectories, build the sampling grid, search it, validate the
// winner, and return.
func (o *Orchestrator) Plan(ctx context.Context, req *PlanRequest) (PlanResult, error) {
	obs := req.Observer
	if obs == nil {
		obs = NullObserver{}
	}

	if err := validateRequest(req, o.cfg); err != nil {
		return PlanResult{}, err
	}
	if ctx.Err() != nil {
		return PlanResult{}, nil
	}

	ref, err := spline.NewSpline2D(req.Waypoints)
	if err != nil {
		return PlanResult{}, errors.Wrap(err, "planner: building reference curve")
	}

	detections := make([]obstacle.Detection, len(req.Obstacles))
	for i, ob := range req.Obstacles {
		detections[i] = obstacle.Detection{
			Position:    ob.Position,
			Orientation: ob.Orientation,
			Velocity:    ob.Velocity,
			Length:      ob.Length,
			Width:       ob.Width,
		}
	}
	obstacleTrajs := obstacle.PredictAll(detections, o.cfg.MaxT, o.cfg.TickT)
	obs.Predicted(len(obstacleTrajs))

	g, seed := buildGrid(req, o.cfg)
	obs.Sampled(g.numWidth * g.numSpeed * g.numT)

	var q candidateQueue
	heap.Init(&q)
	visited, err := search(g, seed, req.Start, o.cfg, &q)
	if err != nil {
		return PlanResult{}, errors.Wrap(err, "planner: search")
	}
	obs.Searched(visited, q.Len())

	if ctx.Err() != nil {
		return PlanResult{}, nil
	}

	winner, checked := o.validate(ctx, &q, ref, obstacleTrajs, req, obs)
	obs.Validated(checked, winner != nil)

	return PlanResult{Trajectory: winner}, nil
}

// PlanAllLanes runs Plan once per request in reqs (one per lane) and
// returns the best safe trajectory for each lane that produced one, keyed
// by lane_id. It performs no behavior-level lane selection of its own — it
// only reports whatever each lane's own grid already judged best.
func (o *Orchestrator) PlanAllLanes(ctx context.Context, reqs []PlanRequest) (map[int]*frenet.Path, error) {
	results := make(map[int]*frenet.Path, len(reqs))
	for i := range reqs {
		res, err := o.Plan(ctx, &reqs[i])
		if err != nil {
			return nil, err
		}
		if res.Trajectory != nil {
			results[reqs[i].LaneID] = res.Trajectory
		}
	}
	return results, nil
}

func validateRequest(req *PlanRequest, cfg *config.Config) error {
	if len(req.Waypoints) < 3 {
		return NewInvalidWaypointsError(len(req.Waypoints))
	}
	for i := 1; i < len(req.Waypoints); i++ {
		if req.Waypoints[i].Sub(req.Waypoints[i-1]).Norm() <= 0 {
			return NewNonMonotoneWaypointsError(i)
		}
	}
	if cfg.NumWidth < 2 {
		return NewInvalidGridSizeError("num_width", cfg.NumWidth)
	}
	if cfg.NumSpeed < 2 {
		return NewInvalidGridSizeError("num_speed", cfg.NumSpeed)
	}
	if cfg.NumT < 2 {
		return NewInvalidGridSizeError("num_t", cfg.NumT)
	}
	if cfg.MaxT <= cfg.MinT {
		return NewInvalidHorizonError(cfg.MinT, cfg.MaxT)
	}
	return nil
}

// validate pops candidates in strictly nondecreasing final-cost order,
// running them through the constraint and collision stages until one
// passes or the queue is drained. Candidates that fail only the
// curvature-rate check are set aside as backups and retried, in their
// original cost order, if the strict set never produces a winner.
func (o *Orchestrator) validate(
	ctx context.Context,
	q *candidateQueue,
	ref *spline.Spline2D,
	obstacleTrajs []obstacle.Trajectory,
	req *PlanRequest,
	obs Observer,
) (*frenet.Path, int) {
	var backups []*cell
	checked := 0

	for q.Len() > 0 {
		if ctx.Err() != nil {
			return nil, checked
		}
		c := heap.Pop(q).(*cell)
		checked++

		frenet.ToCartesian(c.path, ref)
		cres := constraint.Check(c.path, o.cfg)
		c.path.ConstraintPassed = cres.Passed
		c.path.CurvatureRatePassed = cres.CurvatureRate

		if !cres.Passed {
			obs.Validated(checked, false)
			continue
		}
		if !cres.CurvatureRate {
			backups = append(backups, c)
			obs.Validated(checked, false)
			continue
		}
		passed := o.checkCollisionAndSurcharge(ctx, c, obstacleTrajs, req, obs)
		obs.Validated(checked, passed)
		if passed {
			return c.path, checked
		}
	}

	if len(backups) > 0 {
		o.logger.Warnw("curvature-rate-strict set exhausted, retrying backup paths",
			"numBackups", len(backups))
	}
	for _, c := range backups {
		checked++
		passed := o.checkCollisionAndSurcharge(ctx, c, obstacleTrajs, req, obs)
		obs.Validated(checked, passed)
		if passed {
			return c.path, checked
		}
	}

	return nil, checked
}

func (o *Orchestrator) checkCollisionAndSurcharge(
	ctx context.Context,
	c *cell,
	obstacleTrajs []obstacle.Trajectory,
	req *PlanRequest,
	obs Observer,
) bool {
	if !req.CheckCollision || len(obstacleTrajs) == 0 {
		c.path.CollisionPassed = true
		return true
	}

	var safeHard bool
	var numChecks int
	if req.UseAsync {
		safeHard, numChecks = collision.CheckAsync(ctx, c.path, obstacleTrajs, o.cfg, collision.Hard, 0)
	} else {
		safeHard, numChecks = collision.Check(c.path, obstacleTrajs, o.cfg, collision.Hard)
	}
	obs.CollisionChecked(numChecks)

	if !safeHard {
		c.path.CollisionPassed = false
		return false
	}

	safeSoft, _ := collision.Check(c.path, obstacleTrajs, o.cfg, collision.Soft)
	if !safeSoft {
		c.path.DynCost += o.cfg.KObstacle * 100
	}

	c.path.CollisionPassed = true
	return true
}
