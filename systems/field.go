package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// ErrEmptyField is returned when a field is requested with no particles.
var ErrEmptyField = errors.New("particle count must be positive")

// GenerateField builds the particle arena: a tree position and a shell position
// per particle, plus its fixed appearance. paletteSize is the number of entries
// colours are drawn from uniformly; duplicate entries weight a colour.
//
// Every particle starts at the origin so the field bursts outward on the first
// frames.
func GenerateField(cfg config.FieldConfig, paletteSize int, rng *rand.Rand) (*components.Field, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("generating field: %w (got %d)", ErrEmptyField, cfg.Count)
	}
	if paletteSize <= 0 || paletteSize > math.MaxUint8+1 {
		return nil, fmt.Errorf("generating field: palette size %d out of range", paletteSize)
	}

	n := cfg.Count
	f := &components.Field{
		Particles:  make([]components.Particle, n),
		Transforms: make([]components.Transform, n),
	}

	for i := 0; i < n; i++ {
		p := components.Particle{
			ID:        i,
			Formed:    TreePosition(cfg, i, n, rng),
			Scattered: ScatterPosition(cfg, rng),
		}
		p.ColorIndex = uint8(rng.Intn(paletteSize))
		p.BaseScale = cfg.ScaleMin + rng.Float64()*cfg.ScaleSpan
		p.RotationSpeed = rng.Float64() * cfg.SpinMax
		p.PulsePhase = rng.Float64() * 2 * math.Pi
		p.Category = components.CategoryRound
		if rng.Float64() > 1-cfg.BlockChance {
			p.Category = components.CategoryBlock
		}

		f.Particles[i] = p
		f.Transforms[i] = components.Transform{Scale: p.BaseScale}
	}
	return f, nil
}

// ScatterPosition samples a point in the spherical shell between
// ScatterInner*ScatterRadius and ScatterRadius. The polar angle is drawn via
// acos(2U-1) so directions are uniform over the sphere.
func ScatterPosition(cfg config.FieldConfig, rng *rand.Rand) r3.Vec {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	r := cfg.ScatterRadius * (cfg.ScatterInner + rng.Float64()*(1-cfg.ScatterInner))

	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: r * sinPhi * math.Cos(theta),
		Y: r * sinPhi * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

// TreeHeight returns the biased normalized height of particle i of n.
func TreeHeight(cfg config.FieldConfig, i, n int) float64 {
	return math.Pow(float64(i)/float64(n), cfg.HeightBias)
}

// TreeRadius returns the nominal (unjittered) cone radius at normalized height h.
func TreeRadius(cfg config.FieldConfig, h float64) float64 {
	return cfg.TreeRadius * (1 - h)
}

// TreePosition places particle i of n on the cone. The azimuth advances by the
// golden angle per index, which spreads particles evenly without randomness;
// only the radius is jittered.
func TreePosition(cfg config.FieldConfig, i, n int, rng *rand.Rand) r3.Vec {
	h := TreeHeight(cfg, i, n)
	y := cfg.TreeBaseY + h*cfg.TreeHeight
	r := TreeRadius(cfg, h) * (cfg.JitterMin + rng.Float64()*cfg.JitterSpan)
	theta := float64(i) * cfg.GoldenAngle

	return r3.Vec{
		X: r * math.Cos(theta),
		Y: y,
		Z: r * math.Sin(theta),
	}
}
