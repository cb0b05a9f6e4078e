// Command frenetplan runs a single planning call against a JSON scenario
// file and prints the winning trajectory, or reports infeasibility.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Forrest-Z/frenet-optimal-planner/config"
	"github.com/Forrest-Z/frenet-optimal-planner/flog"
	"github.com/Forrest-Z/frenet-optimal-planner/frenet"
	"github.com/Forrest-Z/frenet-optimal-planner/planner"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// scenarioObstacle mirrors planner.ObstacleInput with JSON tags; the
// orientation is given as a yaw in radians for readability and converted to
// a quaternion at load time.
type scenarioObstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	YawRad float64 `json:"yaw"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

type scenario struct {
	ConfigPath string `json:"config_path"`

	Waypoints [][2]float64 `json:"waypoints"`

	Start struct {
		S     float64 `json:"s"`
		SDot  float64 `json:"s_dot"`
		SDDot float64 `json:"s_ddot"`
		D     float64 `json:"d"`
		DDot  float64 `json:"d_dot"`
		DDDot float64 `json:"d_ddot"`
	} `json:"start"`

	LaneID         int                 `json:"lane_id"`
	LeftWidth      float64             `json:"left_width"`
	RightWidth     float64             `json:"right_width"`
	CurrentSpeed   float64             `json:"current_speed"`
	Obstacles      []scenarioObstacle  `json:"obstacles"`
	CheckCollision bool                `json:"check_collision"`
	UseAsync       bool                `json:"use_async"`
}

func realMain() error {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if len(flag.Args()) == 0 {
		return fmt.Errorf("usage: frenetplan <scenario.json>")
	}

	logger := flog.NewLogger("frenetplan")
	if *verbose {
		logger.SetLevel(zap.NewAtomicLevelAt(zap.DebugLevel))
	}
	logger.Infow("reading scenario", "path", flag.Arg(0))

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return err
	}
	var sc scenario
	if err := json.Unmarshal(content, &sc); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}

	cfg, err := config.Load(sc.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	req := toPlanRequest(sc)

	o := planner.NewOrchestrator(cfg, logger)
	res, err := o.Plan(context.Background(), req)
	if err != nil {
		return fmt.Errorf("planning: %w", err)
	}

	mylog := log.New(os.Stdout, "", 0)
	if res.Trajectory == nil {
		mylog.Println("no safe trajectory found")
		return nil
	}
	printTrajectory(mylog, res.Trajectory)
	return nil
}

func toPlanRequest(sc scenario) *planner.PlanRequest {
	waypoints := make([]r3.Vector, len(sc.Waypoints))
	for i, wp := range sc.Waypoints {
		waypoints[i] = r3.Vector{X: wp[0], Y: wp[1]}
	}

	obstacles := make([]planner.ObstacleInput, len(sc.Obstacles))
	for i, ob := range sc.Obstacles {
		half := ob.YawRad / 2
		obstacles[i] = planner.ObstacleInput{
			Position:    r3.Vector{X: ob.X, Y: ob.Y},
			Orientation: quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)},
			Velocity:    r3.Vector{X: ob.VX, Y: ob.VY},
			Length:      ob.Length,
			Width:       ob.Width,
		}
	}

	return &planner.PlanRequest{
		Waypoints: waypoints,
		Start: frenet.State{
			S: sc.Start.S, SDot: sc.Start.SDot, SDDot: sc.Start.SDDot,
			D: sc.Start.D, DDot: sc.Start.DDot, DDDot: sc.Start.DDDot,
		},
		LaneID:         sc.LaneID,
		LeftWidth:      sc.LeftWidth,
		RightWidth:     sc.RightWidth,
		CurrentSpeed:   sc.CurrentSpeed,
		Obstacles:      obstacles,
		CheckCollision: sc.CheckCollision,
		UseAsync:       sc.UseAsync,
	}
}

func printTrajectory(mylog *log.Logger, p *frenet.Path) {
	mylog.Printf("winning trajectory: lane=%d final_cost=%.4f ticks=%d", p.LaneID, p.FinalCost(), len(p.X))
	for k := range p.X {
		mylog.Printf("  t=%.2f x=%.3f y=%.3f yaw=%.3f c=%.4f", p.T[k], p.X[k], p.Y[k], p.Yaw[k], p.Curvature[k])
	}
}
