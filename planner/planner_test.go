package planner

import (
	"container/heap"
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
)

func straightWaypoints() []r3.Vector {
	return []r3.Vector{{X: 0}, {X: 10}, {X: 20}, {X: 30}, {X: 40}}
}

// baseConfig is a straight-road, obstacle-free configuration, with the
// curvature-rate fields left permissive so they never interfere with the
// scenarios below.
func baseConfig() *config.Config {
	return &config.Config{
		MaxSpeed:          20,
		MaxAccel:          5,
		MaxDecel:          -5,
		MaxCurvature:      0.5,
		SteeringAngleRate: 0, // disabled: scenarios below don't exercise it
		VehicleLength:     4,
		VehicleWidth:      2,
		RearAxleOffset:    1,
		CenterOffset:      0,
		NumWidth:          3,
		NumSpeed:          3,
		NumT:              3,
		LowestSpeed:       4,
		HighestSpeed:      6,
		MinT:              2,
		MaxT:              4,
		TickT:             0.5,
		SafetyMarginLon:   1,
		SafetyMarginLat:   0.5,
		KJerk:             0.1,
		KTime:             1,
		KDiff:             1,
		KLat:              1,
		KLon:              1,
		KObstacle:         1,
	}
}

func baseRequest() *PlanRequest {
	return &PlanRequest{
		Waypoints:      straightWaypoints(),
		Start:          frenet.State{S: 0, D: 0, SDot: 5},
		LeftWidth:      1,
		RightWidth:     1,
		CurrentSpeed:   5,
		CheckCollision: true,
	}
}

func TestPlanS1StraightRoadNoObstacles(t *testing.T) {
	o := NewOrchestrator(baseConfig(), nil)
	res, err := o.Plan(context.Background(), baseRequest())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Trajectory, test.ShouldNotBeNil)
	test.That(t, math.Abs(res.Trajectory.End.D), test.ShouldBeLessThan, 0.51)
	test.That(t, res.Trajectory.ConstraintPassed, test.ShouldBeTrue)
}

func TestPlanS2ObstacleDeadAhead(t *testing.T) {
	req := baseRequest()
	req.Obstacles = []ObstacleInput{
		{
			Position:    r3.Vector{X: 15, Y: 0},
			Orientation: quat.Number{Real: 1},
			Length:      4,
			Width:       2,
		},
	}
	o := NewOrchestrator(baseConfig(), nil)
	res, err := o.Plan(context.Background(), req)
	test.That(t, err, test.ShouldBeNil)

	if res.Trajectory == nil {
		return // declining to plan around the obstacle is an acceptable outcome too
	}
	requiredExcursion := baseConfig().SafetyMarginLat + 1.0 // obstacle half-width
	excursion := 0.0
	for _, d := range res.Trajectory.D {
		if math.Abs(d) > excursion {
			excursion = math.Abs(d)
		}
	}
	test.That(t, excursion, test.ShouldBeGreaterThanOrEqualTo, requiredExcursion-1e-6)
}

func TestPlanS4InfeasibleSpeedReturnsEmpty(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxSpeed = 1
	req := baseRequest()
	o := NewOrchestrator(cfg, nil)
	res, err := o.Plan(context.Background(), req)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Trajectory, test.ShouldBeNil)
}

func TestPlanS5DegenerateGridTerminates(t *testing.T) {
	cfg := baseConfig()
	cfg.NumWidth, cfg.NumSpeed, cfg.NumT = 2, 2, 2
	req := baseRequest()
	o := NewOrchestrator(cfg, nil)
	res, err := o.Plan(context.Background(), req)
	test.That(t, err, test.ShouldBeNil)
	_ = res
}

func TestPlanS6NonMonotoneWaypointsIsConfigError(t *testing.T) {
	req := baseRequest()
	req.Waypoints = []r3.Vector{{X: 0}, {X: 10}, {X: 10}, {X: 20}}
	o := NewOrchestrator(baseConfig(), nil)
	res, err := o.Plan(context.Background(), req)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, res.Trajectory, test.ShouldBeNil)
}

func TestPlanRejectsTooFewWaypoints(t *testing.T) {
	req := baseRequest()
	req.Waypoints = []r3.Vector{{X: 0}, {X: 10}}
	o := NewOrchestrator(baseConfig(), nil)
	_, err := o.Plan(context.Background(), req)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlanCancelledContextReturnsEmptyWithoutError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := NewOrchestrator(baseConfig(), nil)
	res, err := o.Plan(ctx, baseRequest())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Trajectory, test.ShouldBeNil)
}

// TestFinalCostIsAtLeastFixCost checks that DynCost never goes negative.
func TestFinalCostIsAtLeastFixCost(t *testing.T) {
	cfg := baseConfig()
	req := baseRequest()
	g, seed := buildGrid(req, cfg)
	var q candidateQueue
	_, err := search(g, seed, req.Start, cfg, &q)
	test.That(t, err, test.ShouldBeNil)
	for _, c := range q {
		test.That(t, c.path.FinalCost(), test.ShouldBeGreaterThanOrEqualTo, c.path.FixCost-1e-9)
	}
}

// TestSearchVisitsAtMostGridSize checks the walk never revisits past the
// total cell count.
func TestSearchVisitsAtMostGridSize(t *testing.T) {
	cfg := baseConfig()
	req := baseRequest()
	g, seed := buildGrid(req, cfg)
	var q candidateQueue
	visited, err := search(g, seed, req.Start, cfg, &q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, visited, test.ShouldBeLessThanOrEqualTo, cfg.NumWidth*cfg.NumSpeed*cfg.NumT)
}

// TestQueuePopOrderIsNondecreasing checks the heap discipline: popped costs
// never decrease.
func TestQueuePopOrderIsNondecreasing(t *testing.T) {
	cfg := baseConfig()
	req := baseRequest()
	g, seed := buildGrid(req, cfg)
	var q candidateQueue
	_, err := search(g, seed, req.Start, cfg, &q)
	test.That(t, err, test.ShouldBeNil)

	last := math.Inf(-1)
	for q.Len() > 0 {
		c := heap.Pop(&q).(*cell)
		test.That(t, c.path.FinalCost(), test.ShouldBeGreaterThanOrEqualTo, last-1e-9)
		last = c.path.FinalCost()
	}
}

func TestPlanAllLanesReportsPerLaneBest(t *testing.T) {
	reqLeft := baseRequest()
	reqLeft.LaneID = 1
	reqRight := baseRequest()
	reqRight.LaneID = 2

	o := NewOrchestrator(baseConfig(), nil)
	results, err := o.PlanAllLanes(context.Background(), []PlanRequest{*reqLeft, *reqRight})
	test.That(t, err, test.ShouldBeNil)
	for laneID, path := range results {
		test.That(t, path.LaneID, test.ShouldEqual, laneID)
	}
}
