package planner

import (
	"container/heap"
	"math"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
	"github.com/Forrest-Z/frenet-optimal-planner/polynomial"
)

// axisCount is the number of grid dimensions the descent walks: lateral
// offset, end speed, horizon.
const axisCount = 3

// materialize builds c's quintic lateral and quartic longitudinal
// polynomials, samples them at cfg.TickT, and computes its dyn_cost and
// final_cost. It is a no-op if c was already generated: a cell transitions
// to generated exactly once.
func materialize(c *cell, start frenet.State, cfg *config.Config) error {
	if c.path.IsGenerated {
		return nil
	}

	end := c.path.End
	lat, err := polynomial.NewQuintic(start.D, start.DDot, start.DDDot, end.D, 0, 0, end.T)
	if err != nil {
		return err
	}
	lon, err := polynomial.NewQuartic(start.S, start.SDot, start.SDDot, end.SDot, 0, end.T)
	if err != nil {
		return err
	}

	n := int(end.T/cfg.TickT) + 1
	p := c.path
	p.T = make([]float64, n)
	p.D = make([]float64, n)
	p.DDot = make([]float64, n)
	p.DDDot = make([]float64, n)
	p.DJerk = make([]float64, n)
	p.S = make([]float64, n)
	p.SDot = make([]float64, n)
	p.SDDot = make([]float64, n)
	p.SJerk = make([]float64, n)

	var jerkD, jerkS float64
	for k := 0; k < n; k++ {
		t := float64(k) * cfg.TickT
		if t > end.T {
			t = end.T
		}
		p.T[k] = t
		p.D[k] = lat.Value(t)
		p.DDot[k] = lat.D1(t)
		p.DDDot[k] = lat.D2(t)
		p.DJerk[k] = lat.D3(t)
		p.S[k] = lon.Value(t)
		p.SDot[k] = lon.D1(t)
		p.SDDot[k] = lon.D2(t)
		p.SJerk[k] = lon.D3(t)

		jerkD += p.DJerk[k] * p.DJerk[k]
		jerkS += p.SJerk[k] * p.SJerk[k]
	}

	p.DynCost = cfg.KJerk * (cfg.KLon*jerkS + cfg.KLat*jerkD)
	p.IsGenerated = true
	return nil
}

// search runs the coordinate-descent walk starting at seed, materializing
// every visited cell and its probed neighbors, pushing each
// materialized cell into q. It returns the number of cells marked used
// before convergence.
func search(g *grid, seed gridIndex, start frenet.State, cfg *config.Config, q *candidateQueue) (int, error) {
	idx := seed
	visited := 0

	for {
		c := g.at(idx)
		if c.isUsed {
			break // converged: revisiting an already-used cell.
		}
		c.isUsed = true
		visited++

		if err := materialize(c, start, cfg); err != nil {
			return visited, err
		}
		if !c.queued {
			heap.Push(q, c)
			c.queued = true
		}
		currentCost := c.path.FinalCost()

		var gradient [axisCount]float64
		for axis := 0; axis < axisCount; axis++ {
			dir := +1
			if atUpperBound(g, idx, axis) {
				dir = -1
			}
			neighborIdx := stepAxis(idx, axis, dir)
			if !g.inBounds(neighborIdx) {
				continue
			}
			nc := g.at(neighborIdx)
			if err := materialize(nc, start, cfg); err != nil {
				return visited, err
			}
			if !nc.queued {
				heap.Push(q, nc)
				nc.queued = true
			}
			neighborCost := nc.path.FinalCost()

			if dir > 0 {
				gradient[axis] = neighborCost - currentCost
			} else {
				gradient[axis] = currentCost - neighborCost
			}

			// Clamp to 0 when the descent step this gradient implies would
			// leave the grid, so argmax below never picks an axis it can't
			// actually step along.
			descDelta := -1
			if gradient[axis] <= 0 {
				descDelta = +1
			}
			if !g.inBounds(stepAxis(idx, axis, descDelta)) {
				gradient[axis] = 0
			}
		}

		bestAxis, bestMag := -1, 0.0
		for axis, gr := range gradient {
			if mag := math.Abs(gr); mag > bestMag {
				bestMag = mag
				bestAxis = axis
			}
		}
		if bestAxis == -1 || bestMag == 0 {
			break // converged: every axis is clamped or flat.
		}

		delta := -1
		if gradient[bestAxis] <= 0 {
			delta = +1
		}
		idx = stepAxis(idx, bestAxis, delta)
	}

	return visited, nil
}

func atUpperBound(g *grid, idx gridIndex, axis int) bool {
	switch axis {
	case 0:
		return idx.I == g.numWidth-1
	case 1:
		return idx.J == g.numSpeed-1
	default:
		return idx.K == g.numT-1
	}
}

func stepAxis(idx gridIndex, axis, delta int) gridIndex {
	switch axis {
	case 0:
		idx.I += delta
	case 1:
		idx.J += delta
	default:
		idx.K += delta
	}
	return idx
}
