package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// NewTopper creates the star topper parked at its scattered position.
func NewTopper(cfg config.TopperConfig) components.Topper {
	scattered := r3.Vec{X: cfg.Scattered.X, Y: cfg.Scattered.Y, Z: cfg.Scattered.Z}
	return components.Topper{
		Formed:    r3.Vec{X: cfg.Formed.X, Y: cfg.Formed.Y, Z: cfg.Formed.Z},
		Scattered: scattered,
		Transform: components.Transform{Position: scattered, Scale: 1},
	}
}

// UpdateTopper lerps the topper toward its target for mode and spins it
// about the vertical axis.
func UpdateTopper(t *components.Topper, mode components.Mode, frame components.Frame, lerpSpeed, spinSpeed float64) {
	delta := frame.Delta
	if delta < 0 {
		delta = 0
	}
	target := t.Scattered
	if mode == components.ModeFormed {
		target = t.Formed
	}
	t.Transform.Position = Lerp(t.Transform.Position, target, LerpFactor(lerpSpeed, delta))
	t.Transform.Rotation.Y += spinSpeed * delta
}
