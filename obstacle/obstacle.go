// Package obstacle predicts the future rectangle footprint of detected
// moving obstacles by constant-velocity straight-line forward simulation.
package obstacle

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Detection is a single perceived obstacle: pose, orientation (as a unit
// quaternion, matching the upstream perception message this package
// consumes), linear velocity, and bounding-box footprint.
type Detection struct {
	Position    r3.Vector
	Orientation quat.Number
	Velocity    r3.Vector // vx, vy, vz; only its magnitude (all three components) is used.
	Length      float64
	Width       float64
}

// Sample is one tick of a predicted obstacle trajectory.
type Sample struct {
	X, Y, Yaw, V float64
}

// Trajectory is an ordered sequence of predicted samples, one per
// simulation tick over the planning horizon.
type Trajectory struct {
	Samples []Sample
	Length  float64
	Width   float64
}

// yawFromQuaternion extracts the heading (rotation about Z) from a unit
// quaternion, discarding roll and pitch. Grounded on the same
// quaternion-to-Euler-angle identity used for yaw extraction elsewhere in
// the corpus (atan2 of the quaternion's z-rotation terms).
func yawFromQuaternion(q quat.Number) float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
}

// Predict runs constant-velocity forward simulation for a single
// detection, producing floor(maxT/tickT)+1 samples.
//
// Each step applies x[k+1] = x[k] + v*tickT*cos(yaw), y[k+1] = y[k] +
// v*tickT*sin(yaw).
func Predict(d Detection, maxT, tickT float64) Trajectory {
	n := int(math.Floor(maxT/tickT)) + 1
	yaw := yawFromQuaternion(d.Orientation)
	v := d.Velocity.Norm()

	samples := make([]Sample, n)
	x, y := d.Position.X, d.Position.Y
	for k := 0; k < n; k++ {
		samples[k] = Sample{X: x, Y: y, Yaw: yaw, V: v}
		x += v * tickT * math.Cos(yaw)
		y += v * tickT * math.Sin(yaw)
	}

	return Trajectory{Samples: samples, Length: d.Length, Width: d.Width}
}

// PredictAll predicts trajectories for every detection.
func PredictAll(detections []Detection, maxT, tickT float64) []Trajectory {
	out := make([]Trajectory, len(detections))
	for i, d := range detections {
		out[i] = Predict(d, maxT, tickT)
	}
	return out
}
