// Package config defines the tunable limits and cost weights that drive a
// single planning call.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Config holds every physical limit, grid size, and cost weight the planner
// needs. All fields are required unless noted; Validate reports the first
// violated invariant.
type Config struct {
	// Kinematic limits, consumed by package constraint.
	MaxSpeed      float64 `json:"max_speed"`
	MaxAccel      float64 `json:"max_accel"`
	MaxDecel      float64 `json:"max_decel"`
	MaxCurvature  float64 `json:"max_curvature"`

	// SteeringAngleRate bounds how fast curvature may change between ticks
	// (rad/s); zero disables the curvature-rate check.
	SteeringAngleRate float64 `json:"steering_angle_rate"`

	// Ego geometry, consumed by package collision.
	VehicleLength  float64 `json:"vehicle_length"`
	VehicleWidth   float64 `json:"vehicle_width"`
	RearAxleOffset float64 `json:"rear_axle_offset"`

	// CenterOffset is the preferred lateral offset (usually 0).
	CenterOffset float64 `json:"center_offset"`

	// Sampling grid sizes. NumWidth must be odd so the lateral axis has a
	// middle sample (d = 0 when the lane widths are equal and CenterOffset
	// is 0).
	NumWidth int `json:"num_width"`
	NumSpeed int `json:"num_speed"`
	NumT     int `json:"num_t"`

	// End-speed sampling range.
	LowestSpeed  float64 `json:"lowest_speed"`
	HighestSpeed float64 `json:"highest_speed"`

	// Planning horizon range and sampling tick.
	MinT   float64 `json:"min_t"`
	MaxT   float64 `json:"max_t"`
	TickT  float64 `json:"tick_t"`

	// Obstacle inflation margins.
	SafetyMarginLon float64 `json:"safety_margin_lon"`
	SafetyMarginLat float64 `json:"safety_margin_lat"`

	// Cost weights.
	KJerk     float64 `json:"k_jerk"`
	KTime     float64 `json:"k_time"`
	KDiff     float64 `json:"k_diff"`
	KLat      float64 `json:"k_lat"`
	KLon      float64 `json:"k_lon"`
	KObstacle float64 `json:"k_obstacle"`
}

// Load reads a JSON-encoded Config from path and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports a classified error for the first invariant violated by
// cfg. Load calls it; planner.Orchestrator.Plan does not, and checks only
// the grid sizes (>= 2) and the horizon range itself.
func (c *Config) Validate() error {
	if c.MaxSpeed <= 0 {
		return errors.New("config: max_speed must be positive")
	}
	if c.MaxAccel <= 0 {
		return errors.New("config: max_accel must be positive")
	}
	if c.MaxCurvature <= 0 {
		return errors.New("config: max_curvature must be positive")
	}
	if c.VehicleLength <= 0 || c.VehicleWidth <= 0 {
		return errors.New("config: vehicle_length and vehicle_width must be positive")
	}
	if c.NumWidth < 2 || c.NumSpeed < 2 || c.NumT < 2 {
		return errors.New("config: num_width, num_speed, and num_t must each be >= 2")
	}
	if c.NumWidth%2 == 0 {
		return errors.New("config: num_width must be odd")
	}
	if c.HighestSpeed <= c.LowestSpeed {
		return errors.New("config: highest_speed must exceed lowest_speed")
	}
	if c.MaxT <= c.MinT || c.MinT < 0 {
		return errors.New("config: max_t must exceed min_t, and min_t must be non-negative")
	}
	if c.TickT <= 0 {
		return errors.New("config: tick_t must be positive")
	}
	return nil
}
