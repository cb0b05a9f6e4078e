package collision

import (
	"context"
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
	"github.com/Forrest-Z/frenet-optimal-planner/obstacle"
)

func TestOverlapsSeparatedAxisAlignedBoxes(t *testing.T) {
	a := Rectangle{CenterX: 0, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	b := Rectangle{CenterX: 5, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	test.That(t, Overlaps(a, b), test.ShouldBeFalse)
}

func TestOverlapsCoincidentBoxes(t *testing.T) {
	a := Rectangle{CenterX: 0, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	b := Rectangle{CenterX: 0, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	test.That(t, Overlaps(a, b), test.ShouldBeTrue)
}

func TestOverlapsFlushEdgesCountAsOverlapping(t *testing.T) {
	// Boxes with edges exactly touching (zero gap) count as overlapping.
	a := Rectangle{CenterX: 0, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	b := Rectangle{CenterX: 2, CenterY: 0, HalfLength: 1, HalfWidth: 1}
	test.That(t, Overlaps(a, b), test.ShouldBeTrue)
}

func TestOverlapsSymmetric(t *testing.T) {
	a := Rectangle{CenterX: 1, CenterY: 3, Yaw: 0.4, HalfLength: 2, HalfWidth: 0.8}
	b := Rectangle{CenterX: 2.2, CenterY: 3.3, Yaw: -0.9, HalfLength: 1.5, HalfWidth: 0.6}
	test.That(t, Overlaps(a, b), test.ShouldEqual, Overlaps(b, a))
}

func TestOverlapsRotatedBoxesClearingCorners(t *testing.T) {
	// Two 45-degree-rotated unit squares (diamonds) 2.9 apart: their nearest
	// corners are 2.9 - 2*sqrt(2) ~= 0.07 apart, and along each face normal
	// the gap is 2.9*cos(pi/4) - 2 ~= 0.05.
	a := Rectangle{CenterX: 0, CenterY: 0, Yaw: math.Pi / 4, HalfLength: 1, HalfWidth: 1}
	b := Rectangle{CenterX: 2.9, CenterY: 0, Yaw: math.Pi / 4, HalfLength: 1, HalfWidth: 1}
	test.That(t, Overlaps(a, b), test.ShouldBeFalse)
}

func testCollisionConfig() *config.Config {
	return &config.Config{
		VehicleLength:   4,
		VehicleWidth:    2,
		RearAxleOffset:  1,
		SafetyMarginLon: 1,
		SafetyMarginLat: 0.5,
	}
}

func TestCheckDetectsHeadOnCollision(t *testing.T) {
	p := &frenet.Path{
		X:   []float64{0, 1, 2},
		Y:   []float64{0, 0, 0},
		Yaw: []float64{0, 0, 0},
	}
	obs := []obstacle.Trajectory{
		{
			Samples: []obstacle.Sample{{X: 2, Y: 0, Yaw: math.Pi}},
			Length:  4,
			Width:   2,
		},
	}
	safe, numChecks := Check(p, obs, testCollisionConfig(), Hard)
	test.That(t, safe, test.ShouldBeFalse)
	test.That(t, numChecks, test.ShouldBeGreaterThan, 0)
}

func TestCheckClearsDistantObstacle(t *testing.T) {
	p := &frenet.Path{
		X:   []float64{0, 1, 2},
		Y:   []float64{0, 0, 0},
		Yaw: []float64{0, 0, 0},
	}
	obs := []obstacle.Trajectory{
		{
			Samples: []obstacle.Sample{{X: 50, Y: 50, Yaw: 0}},
			Length:  4,
			Width:   2,
		},
	}
	safe, _ := Check(p, obs, testCollisionConfig(), Hard)
	test.That(t, safe, test.ShouldBeTrue)
}

func TestCheckSoftModeIsStricterThanHard(t *testing.T) {
	// Soft doubles the margins, so anything Hard calls unsafe, Soft also
	// calls unsafe (Soft never clears what Hard rejects). Here the ego center
	// is at x=1 (half length 2) and the obstacle at x=6.4: the Hard half
	// length 3 leaves a 0.4 gap, the Soft half length 4 overlaps by 0.6.
	p := &frenet.Path{
		X:   []float64{0},
		Y:   []float64{0},
		Yaw: []float64{0},
	}
	obs := []obstacle.Trajectory{
		{
			Samples: []obstacle.Sample{{X: 6.4, Y: 0, Yaw: 0}},
			Length:  4,
			Width:   2,
		},
	}
	cfg := testCollisionConfig()
	hardSafe, _ := Check(p, obs, cfg, Hard)
	softSafe, _ := Check(p, obs, cfg, Soft)
	test.That(t, hardSafe, test.ShouldBeTrue)
	test.That(t, softSafe, test.ShouldBeFalse)
}

func TestCheckAsyncAgreesWithSynchronousCheck(t *testing.T) {
	p := &frenet.Path{
		X:   []float64{0, 1, 2},
		Y:   []float64{0, 0, 0},
		Yaw: []float64{0, 0, 0},
	}
	obs := []obstacle.Trajectory{
		{Samples: []obstacle.Sample{{X: 2, Y: 0, Yaw: math.Pi}}, Length: 4, Width: 2},
		{Samples: []obstacle.Sample{{X: 50, Y: 50, Yaw: 0}}, Length: 4, Width: 2},
	}
	cfg := testCollisionConfig()
	syncSafe, _ := Check(p, obs, cfg, Hard)
	asyncSafe, _ := CheckAsync(context.Background(), p, obs, cfg, Hard, 2)
	test.That(t, asyncSafe, test.ShouldEqual, syncSafe)
}
