package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// AnimParams holds the animator constants.
type AnimParams struct {
	LerpSpeed      float64 // Fraction of the remaining distance covered per second
	PulseAmplitude float64
	BlockPulseFreq float64
	RoundPulseFreq float64
	SpinFactor     float64
}

// NewAnimParams extracts animator constants from config.
func NewAnimParams(cfg config.AnimationConfig) AnimParams {
	return AnimParams{
		LerpSpeed:      cfg.LerpSpeed,
		PulseAmplitude: cfg.PulseAmplitude,
		BlockPulseFreq: cfg.BlockPulseFreq,
		RoundPulseFreq: cfg.RoundPulseFreq,
		SpinFactor:     cfg.SpinFactor,
	}
}

// LerpFactor returns the per-frame interpolation weight for speed and delta,
// clamped to [0, 1] so long frames never overshoot.
func LerpFactor(speed, delta float64) float64 {
	k := speed * delta
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}

// Lerp moves from toward to by k.
func Lerp(from, to r3.Vec, k float64) r3.Vec {
	return r3.Add(from, r3.Scale(k, r3.Sub(to, from)))
}

// Animate advances every transform one frame toward the target for mode.
// It writes only field.Transforms and allocates nothing.
func Animate(field *components.Field, mode components.Mode, frame components.Frame, p AnimParams) {
	delta := frame.Delta
	if delta < 0 {
		delta = 0
	}
	k := LerpFactor(p.LerpSpeed, delta)
	t := frame.Elapsed

	particles := field.Particles
	transforms := field.Transforms[:len(particles)]

	for i := range particles {
		d := &particles[i]
		tr := &transforms[i]

		tr.Position = Lerp(tr.Position, d.Target(mode), k)

		switch d.Category {
		case components.CategoryBlock:
			spin := d.RotationSpeed * p.SpinFactor * delta
			tr.Rotation.X += spin
			tr.Rotation.Y += spin
			tr.Scale = d.BaseScale * (1 + p.PulseAmplitude*math.Sin(t*p.BlockPulseFreq+d.PulsePhase))
		default:
			tr.Scale = d.BaseScale * (1 + p.PulseAmplitude*math.Cos(t*p.RoundPulseFreq+d.PulsePhase))
		}
	}
}

// MaxTargetDistance returns the largest distance between a particle and its
// target in mode m.
func MaxTargetDistance(field *components.Field, m components.Mode) float64 {
	var worst float64
	for i := range field.Particles {
		d := r3.Norm(r3.Sub(field.Transforms[i].Position, field.Particles[i].Target(m)))
		if d > worst {
			worst = d
		}
	}
	return worst
}

// TargetDistances writes each particle's distance to its target into dst,
// growing it if needed, and returns it.
func TargetDistances(dst []float64, field *components.Field, m components.Mode) []float64 {
	n := field.Len()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range field.Particles {
		dst[i] = r3.Norm(r3.Sub(field.Transforms[i].Position, field.Particles[i].Target(m)))
	}
	return dst
}
