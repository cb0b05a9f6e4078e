// Package collision checks a candidate trajectory's swept ego footprint
// against predicted obstacle footprints using the separating axis theorem.
package collision

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
	"github.com/Forrest-Z/frenet-optimal-planner/internal/workerpool"
	"github.com/Forrest-Z/frenet-optimal-planner/obstacle"
)

// Rectangle is an oriented 2D box: center, heading, and half-extents along
// its own length/width axes.
type Rectangle struct {
	CenterX, CenterY float64
	Yaw              float64
	HalfLength       float64
	HalfWidth        float64
}

// Mode selects how tightly an obstacle rectangle is inflated before the SAT
// test runs. The soft margin is wider than the hard margin, so it catches
// near-misses the hard gate would clear; a trajectory that only fails Soft
// gets a cost surcharge instead of outright rejection, while one that fails
// Hard is dropped.
type Mode int

const (
	// Hard uses cfg's safety margins directly; failing it rejects the
	// trajectory outright.
	Hard Mode = iota
	// Soft doubles cfg's safety margins; failing it (but not Hard) only
	// incurs a cost surcharge.
	Soft
)

// rectSATMaxGap computes the maximum separation gap across the 4 SAT axes
// for two oriented rectangles (the face normals of a and of b). This is the
// obbSATMaxGap formulation from the 3D oriented-bounding-box case, dropped
// to 2D: only the two face-axis families survive, since in the plane the
// nine edge-cross-product axes of the 3D case degenerate to axes already
// covered by the face normals.
//
// Returns the maximum gap across all 4 axes:
//   - Positive: rectangles are separated by at least this distance.
//   - Non-positive: rectangles overlap (or touch): a gap of exactly zero
//     (edges flush) counts as overlapping, a closed-interval convention.
func rectSATMaxGap(a, b Rectangle) float64 {
	const eps = 1e-10

	ca, sa := math.Cos(a.Yaw), math.Sin(a.Yaw)
	cb, sb := math.Cos(b.Yaw), math.Sin(b.Yaw)

	// Rows of each rectangle's rotation matrix: axis 0 is "length", axis 1
	// is "width".
	a00, a01 := ca, sa
	a10, a11 := -sa, ca
	b00, b01 := cb, sb
	b10, b11 := -sb, cb

	cdx := b.CenterX - a.CenterX
	cdy := b.CenterY - a.CenterY

	// Center distance expressed in A's frame.
	t0 := a00*cdx + a01*cdy
	t1 := a10*cdx + a11*cdy

	// Relative rotation R = A * B^T.
	r00 := a00*b00 + a01*b01
	r01 := a00*b10 + a01*b11
	r10 := a10*b00 + a11*b01
	r11 := a10*b10 + a11*b11

	ar00 := math.Abs(r00) + eps
	ar01 := math.Abs(r01) + eps
	ar10 := math.Abs(r10) + eps
	ar11 := math.Abs(r11) + eps

	best := math.Inf(-1)

	// Face axes from A.
	if g := math.Abs(t0) - a.HalfLength - (b.HalfLength*ar00 + b.HalfWidth*ar01); g > best {
		best = g
	}
	if g := math.Abs(t1) - a.HalfWidth - (b.HalfLength*ar10 + b.HalfWidth*ar11); g > best {
		best = g
	}

	// Face axes from B.
	if g := math.Abs(t0*r00+t1*r10) - b.HalfLength - (a.HalfLength*ar00 + a.HalfWidth*ar10); g > best {
		best = g
	}
	if g := math.Abs(t0*r01+t1*r11) - b.HalfWidth - (a.HalfLength*ar01 + a.HalfWidth*ar11); g > best {
		best = g
	}

	return best
}

// Overlaps reports whether a and b intersect, using the closed-interval
// convention: boxes that are exactly flush (gap == 0) count as overlapping.
func Overlaps(a, b Rectangle) bool {
	return rectSATMaxGap(a, b) <= 0
}

// egoFootprint builds the ego rectangle at tick k of p, anchored at the
// rear axle per cfg.RearAxleOffset.
func egoFootprint(p *frenet.Path, k int, cfg *config.Config) Rectangle {
	yaw := p.Yaw[k]
	return Rectangle{
		CenterX:    p.X[k] + cfg.RearAxleOffset*math.Cos(yaw),
		CenterY:    p.Y[k] + cfg.RearAxleOffset*math.Sin(yaw),
		Yaw:        yaw,
		HalfLength: cfg.VehicleLength / 2,
		HalfWidth:  cfg.VehicleWidth / 2,
	}
}

// obstacleFootprint builds an obstacle's inflated rectangle at sample k,
// with margins scaled by mode.
func obstacleFootprint(traj obstacle.Trajectory, k int, cfg *config.Config, mode Mode) Rectangle {
	marginLon, marginLat := cfg.SafetyMarginLon, cfg.SafetyMarginLat
	if mode == Soft {
		marginLon *= 2
		marginLat *= 2
	}
	s := traj.Samples[k]
	return Rectangle{
		CenterX:    s.X,
		CenterY:    s.Y,
		Yaw:        s.Yaw,
		HalfLength: traj.Length/2 + marginLon,
		HalfWidth:  traj.Width/2 + marginLat,
	}
}

// Check tests p's full Cartesian lift against every predicted obstacle
// trajectory, tick by tick, stopping at the first collision. It requires
// p.X/Y/Yaw to already be populated (frenet.ToCartesian having run).
//
// Returns (safe, numChecks): safe is false as soon as any tick/obstacle
// pair overlaps, true after every pair has been exhausted with no overlap.
func Check(p *frenet.Path, obstacles []obstacle.Trajectory, cfg *config.Config, mode Mode) (bool, int) {
	n := len(p.X)
	checks := 0
	for _, traj := range obstacles {
		m := len(traj.Samples)
		if m > n {
			m = n
		}
		for k := 0; k < m; k++ {
			checks++
			if Overlaps(egoFootprint(p, k, cfg), obstacleFootprint(traj, k, cfg, mode)) {
				return false, checks
			}
		}
	}
	return true, checks
}

// CheckAsync is Check's dispatch-per-obstacle variant: each obstacle's
// tick series is tested on its own worker. A worker-pool error (including a
// recovered panic) is treated the same as a collision.
func CheckAsync(ctx context.Context, p *frenet.Path, obstacles []obstacle.Trajectory, cfg *config.Config, mode Mode, workers int) (bool, int) {
	n := len(p.X)
	var checks int64
	var collided int32

	err := workerpool.Run(ctx, len(obstacles), workers, func(_ context.Context, oi int) error {
		traj := obstacles[oi]
		m := len(traj.Samples)
		if m > n {
			m = n
		}
		for k := 0; k < m; k++ {
			atomic.AddInt64(&checks, 1)
			if atomic.LoadInt32(&collided) != 0 {
				return nil
			}
			if Overlaps(egoFootprint(p, k, cfg), obstacleFootprint(traj, k, cfg, mode)) {
				atomic.StoreInt32(&collided, 1)
				return nil
			}
		}
		return nil
	})

	if err != nil || atomic.LoadInt32(&collided) != 0 {
		return false, int(checks)
	}
	return true, int(checks)
}
