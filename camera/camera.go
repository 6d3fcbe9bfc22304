// Package camera provides an orbit camera around the tree.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/config"
)

// nearPlane is the closest depth Project accepts.
const nearPlane = 0.1

var worldUp = r3.Vec{Y: 1}

// Orbit circles a target on a sphere. Polar is measured from +Y, azimuth
// around +Y starting at +Z.
type Orbit struct {
	Target   r3.Vec
	Azimuth  float64
	Polar    float64
	Distance float64

	// Vertical field of view in degrees
	Fov float64

	// Constraints
	MinPolar, MaxPolar       float64
	MinDistance, MaxDistance float64

	// AutoRotateSpeed of 1.0 is one orbit per minute. Negative turns clockwise.
	AutoRotate      bool
	AutoRotateSpeed float64

	// Damping is the fraction of pending input applied per update. Zero
	// applies input immediately.
	Damping float64

	dAzimuth, dPolar, dZoom float64

	home struct{ azimuth, polar, distance float64 }
}

// New creates an orbit camera from config, placed at the configured eye.
func New(cfg config.CameraConfig) *Orbit {
	o := &Orbit{
		Target:          r3.Vec{X: cfg.Target.X, Y: cfg.Target.Y, Z: cfg.Target.Z},
		Fov:             cfg.Fov,
		MinPolar:        cfg.MinPolar,
		MaxPolar:        cfg.MaxPolar,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
		Damping:         cfg.Damping,
	}
	o.LookFrom(r3.Vec{X: cfg.Position.X, Y: cfg.Position.Y, Z: cfg.Position.Z})
	o.home.azimuth, o.home.polar, o.home.distance = o.Azimuth, o.Polar, o.Distance
	return o
}

// LookFrom places the camera at eye, clamped to the constraints.
func (o *Orbit) LookFrom(eye r3.Vec) {
	rel := r3.Sub(eye, o.Target)
	o.Distance = r3.Norm(rel)
	if o.Distance > 0 {
		o.Polar = math.Acos(clamp(rel.Y/o.Distance, -1, 1))
	}
	o.Azimuth = math.Atan2(rel.X, rel.Z)
	o.constrain()
}

// Rotate queues an azimuth and polar change in radians.
func (o *Orbit) Rotate(dAzimuth, dPolar float64) {
	o.dAzimuth += dAzimuth
	o.dPolar += dPolar
}

// Zoom queues a dolly step. Positive moves closer; once fully applied a step
// of 1.0 divides the distance by e.
func (o *Orbit) Zoom(amount float64) {
	o.dZoom += amount
}

// Update applies auto-rotation and damped input for a frame of dt seconds.
func (o *Orbit) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if o.AutoRotate {
		o.Azimuth += 2 * math.Pi / 60 * o.AutoRotateSpeed * dt
	}

	k := o.Damping
	if k <= 0 || k > 1 {
		k = 1
	}
	o.Azimuth += o.dAzimuth * k
	o.Polar += o.dPolar * k
	o.Distance *= math.Exp(-o.dZoom * k)

	o.dAzimuth *= 1 - k
	o.dPolar *= 1 - k
	o.dZoom *= 1 - k

	o.Azimuth = math.Remainder(o.Azimuth, 2*math.Pi)
	o.constrain()
}

// Reset returns to the starting eye and drops pending input.
func (o *Orbit) Reset() {
	o.Azimuth, o.Polar, o.Distance = o.home.azimuth, o.home.polar, o.home.distance
	o.dAzimuth, o.dPolar, o.dZoom = 0, 0, 0
}

// Eye returns the camera position in world space.
func (o *Orbit) Eye() r3.Vec {
	sp, cp := math.Sincos(o.Polar)
	sa, ca := math.Sincos(o.Azimuth)
	return r3.Add(o.Target, r3.Scale(o.Distance, r3.Vec{X: sp * sa, Y: cp, Z: sp * ca}))
}

// Project maps p onto a w by h viewport with perspective. x and y are in
// viewport units from the top-left, depth is the distance along the view
// axis. ok is false for points behind the near plane or outside the view.
func (o *Orbit) Project(p r3.Vec, w, h float64) (x, y, depth float64, ok bool) {
	eye := o.Eye()
	forward := r3.Unit(r3.Sub(o.Target, eye))
	right := r3.Cross(forward, worldUp)
	if r3.Norm(right) < 1e-9 {
		right = r3.Vec{X: 1}
	}
	right = r3.Unit(right)
	up := r3.Cross(right, forward)

	rel := r3.Sub(p, eye)
	depth = r3.Dot(rel, forward)
	if depth <= nearPlane || w <= 0 || h <= 0 {
		return 0, 0, depth, false
	}

	f := 1 / math.Tan(o.Fov*math.Pi/360)
	ndcX := r3.Dot(rel, right) * f / (w / h) / depth
	ndcY := r3.Dot(rel, up) * f / depth

	x = (ndcX + 1) / 2 * w
	y = (1 - ndcY) / 2 * h
	ok = ndcX >= -1 && ndcX <= 1 && ndcY >= -1 && ndcY <= 1
	return x, y, depth, ok
}

func (o *Orbit) constrain() {
	o.Polar = clamp(o.Polar, o.MinPolar, o.MaxPolar)
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
