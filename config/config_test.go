package config

import (
	"testing"

	"go.viam.com/test"
)

func validConfig() Config {
	return Config{
		MaxSpeed:        10,
		MaxAccel:        2,
		MaxDecel:        -4,
		MaxCurvature:    1,
		VehicleLength:   4,
		VehicleWidth:    2,
		RearAxleOffset:  1.2,
		CenterOffset:    0,
		NumWidth:        3,
		NumSpeed:        3,
		NumT:            3,
		LowestSpeed:     4,
		HighestSpeed:    6,
		MinT:            2,
		MaxT:            4,
		TickT:           0.1,
		SafetyMarginLon: 1,
		SafetyMarginLat: 0.5,
		KJerk:           0.1,
		KTime:           0.1,
		KDiff:           1,
		KLat:            1,
		KLon:            1,
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
}

func TestValidateRejectsBadFields(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive max speed", func(c *Config) { c.MaxSpeed = 0 }},
		{"non-positive max accel", func(c *Config) { c.MaxAccel = -1 }},
		{"non-positive curvature", func(c *Config) { c.MaxCurvature = 0 }},
		{"non-positive vehicle length", func(c *Config) { c.VehicleLength = 0 }},
		{"even num_width", func(c *Config) { c.NumWidth = 4 }},
		{"grid too small", func(c *Config) { c.NumSpeed = 1 }},
		{"inverted speed range", func(c *Config) { c.LowestSpeed = 8 }},
		{"inverted horizon range", func(c *Config) { c.MinT = 5 }},
		{"non-positive tick", func(c *Config) { c.TickT = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			test.That(t, cfg.Validate(), test.ShouldNotBeNil)
		})
	}
}
