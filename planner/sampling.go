package planner

import (
	"math"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
)

// grid is the dense 3D array of sampling-grid seeds, sized NumWidth x
// NumSpeed x NumT.
type grid struct {
	cells    [][][]*cell
	numWidth int
	numSpeed int
	numT     int
}

func (g *grid) at(idx gridIndex) *cell { return g.cells[idx.I][idx.J][idx.K] }

func (g *grid) inBounds(idx gridIndex) bool {
	return idx.I >= 0 && idx.I < g.numWidth &&
		idx.J >= 0 && idx.J < g.numSpeed &&
		idx.K >= 0 && idx.K < g.numT
}

// buildGrid enumerates every (d, v, T) end state, computing the
// precomputable fixed and heuristic-lower-bound costs for each, and
// returns the grid plus the argmin-(fix+hur) seed index.
func buildGrid(req *PlanRequest, cfg *config.Config) (*grid, gridIndex) {
	nw, nv, nt := cfg.NumWidth, cfg.NumSpeed, cfg.NumT

	deltaW := (req.LeftWidth - cfg.CenterOffset) / (float64(nw-1) / 2)
	maxLatDenom := math.Max(
		(req.LeftWidth-cfg.CenterOffset)*(req.LeftWidth-cfg.CenterOffset),
		(req.RightWidth-cfg.CenterOffset)*(req.RightWidth-cfg.CenterOffset),
	)

	g := &grid{
		cells:    make([][][]*cell, nw),
		numWidth: nw, numSpeed: nv, numT: nt,
	}

	best := gridIndex{}
	bestCost := math.Inf(1)

	for i := 0; i < nw; i++ {
		// The grid spans [-right_w, 2*(left_w-center_offset) - right_w],
		// i.e. [-w, w] when left_w == right_w == w and center_offset is 0;
		// see DESIGN.md for why this reads "-right_w", not "right_w", as the
		// starting point.
		d := -req.RightWidth + float64(i)*deltaW
		g.cells[i] = make([][]*cell, nv)

		latCost := (d - cfg.CenterOffset) * (d - cfg.CenterOffset)
		if maxLatDenom > 0 {
			latCost /= maxLatDenom
		}
		hurCost := cfg.KLat * cfg.KDiff * (req.Start.D - d) * (req.Start.D - d)

		for j := 0; j < nv; j++ {
			v := cfg.LowestSpeed + float64(j)*(cfg.HighestSpeed-cfg.LowestSpeed)/float64(nv-1)
			g.cells[i][j] = make([]*cell, nt)

			speedCost := (cfg.HighestSpeed-v)*(cfg.HighestSpeed-v) +
				0.5*(req.CurrentSpeed-v)*(req.CurrentSpeed-v)

			for k := 0; k < nt; k++ {
				tHorizon := cfg.MinT + float64(k)*(cfg.MaxT-cfg.MinT)/float64(nt-1)
				timeCost := 1 - tHorizon/cfg.MaxT

				fixCost := cfg.KLat*cfg.KDiff*latCost +
					cfg.KLon*(cfg.KTime*timeCost+cfg.KDiff*speedCost)

				idx := gridIndex{I: i, J: j, K: k}
				g.cells[i][j][k] = &cell{
					idx: idx,
					path: &frenet.Path{
						End: frenet.State{
							S: req.Start.S, D: d, T: tHorizon,
							SDot: v,
						},
						LaneID:  req.LaneID,
						FixCost: fixCost,
						HurCost: hurCost,
					},
				}

				if total := fixCost + hurCost; total < bestCost {
					bestCost = total
					best = idx
				}
			}
		}
	}

	return g, best
}
