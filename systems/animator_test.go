package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

func defaultParams() AnimParams {
	return NewAnimParams(config.Default().Animation)
}

func singleParticleField(cat components.Category) *components.Field {
	return &components.Field{
		Particles: []components.Particle{{
			Formed:        r3.Vec{X: 1, Y: 2, Z: 3},
			Scattered:     r3.Vec{X: -8, Y: 4, Z: 6},
			Category:      cat,
			BaseScale:     1,
			RotationSpeed: 1.5,
		}},
		Transforms: []components.Transform{{Scale: 1}},
	}
}

func TestLerpFactor(t *testing.T) {
	tests := []struct {
		name         string
		speed, delta float64
		want         float64
	}{
		{"typical frame", 2, 1.0 / 60, 2.0 / 60},
		{"zero delta", 2, 0, 0},
		{"negative delta", 2, -0.1, 0},
		{"long frame clamps", 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LerpFactor(tt.speed, tt.delta); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LerpFactor(%v, %v) = %v, want %v", tt.speed, tt.delta, got, tt.want)
			}
		})
	}
}

func TestAnimateZeroDeltaIsIdempotent(t *testing.T) {
	f := mustField(t, 200, 1)
	p := defaultParams()

	Animate(f, components.ModeScattered, components.Frame{Elapsed: 1.25, Delta: 1.0 / 60}, p)
	before := append([]components.Transform(nil), f.Transforms...)

	Animate(f, components.ModeScattered, components.Frame{Elapsed: 1.25, Delta: 0}, p)
	for i := range before {
		if before[i] != f.Transforms[i] {
			t.Fatalf("particle %d changed with zero delta: %+v -> %+v", i, before[i], f.Transforms[i])
		}
	}
}

func TestAnimateConvergesMonotonically(t *testing.T) {
	for _, mode := range []components.Mode{components.ModeFormed, components.ModeScattered} {
		t.Run(mode.String(), func(t *testing.T) {
			f := singleParticleField(components.CategoryBlock)
			p := defaultParams()
			target := f.Particles[0].Target(mode)

			prev := r3.Norm(r3.Sub(f.Transforms[0].Position, target))
			elapsed := 0.0
			for step := 0; step < 600; step++ {
				elapsed += 1.0 / 60
				Animate(f, mode, components.Frame{Elapsed: elapsed, Delta: 1.0 / 60}, p)
				d := r3.Norm(r3.Sub(f.Transforms[0].Position, target))
				if d >= prev && prev > 0 {
					t.Fatalf("step %d: distance %g did not decrease from %g", step, d, prev)
				}
				prev = d
			}
			if prev > 1e-6 {
				t.Errorf("expected convergence, still %g away", prev)
			}
		})
	}
}

func TestAnimateLongFrameLandsOnTarget(t *testing.T) {
	f := singleParticleField(components.CategoryRound)
	Animate(f, components.ModeFormed, components.Frame{Elapsed: 3, Delta: 5}, defaultParams())

	if got := f.Transforms[0].Position; got != f.Particles[0].Formed {
		t.Errorf("expected clamp to land on target, got %+v", got)
	}
}

func TestAnimateLeavesStaticDataAlone(t *testing.T) {
	f := mustField(t, 300, 2)
	snapshot := append([]components.Particle(nil), f.Particles...)

	elapsed := 0.0
	for i := 0; i < 120; i++ {
		elapsed += 1.0 / 60
		mode := components.ModeScattered
		if i > 60 {
			mode = components.ModeFormed
		}
		Animate(f, mode, components.Frame{Elapsed: elapsed, Delta: 1.0 / 60}, defaultParams())
	}

	for i := range snapshot {
		if snapshot[i] != f.Particles[i] {
			t.Fatalf("particle %d static data changed", i)
		}
	}
}

func TestAnimatePulseAndSpinByCategory(t *testing.T) {
	p := defaultParams()

	block := singleParticleField(components.CategoryBlock)
	Animate(block, components.ModeFormed, components.Frame{Elapsed: 0, Delta: 0.1}, p)
	if got := block.Transforms[0].Scale; math.Abs(got-1) > 1e-12 {
		t.Errorf("block pulse uses sine: want scale 1 at t=0, got %f", got)
	}
	wantSpin := 1.5 * p.SpinFactor * 0.1
	if r := block.Transforms[0].Rotation; math.Abs(r.X-wantSpin) > 1e-12 || math.Abs(r.Y-wantSpin) > 1e-12 || r.Z != 0 {
		t.Errorf("block rotation = %+v, want x=y=%f", r, wantSpin)
	}

	round := singleParticleField(components.CategoryRound)
	Animate(round, components.ModeFormed, components.Frame{Elapsed: 0, Delta: 0.1}, p)
	if got := round.Transforms[0].Scale; math.Abs(got-(1+p.PulseAmplitude)) > 1e-12 {
		t.Errorf("round pulse uses cosine: want scale %f at t=0, got %f", 1+p.PulseAmplitude, got)
	}
	if r := round.Transforms[0].Rotation; r != (r3.Vec{}) {
		t.Errorf("round particles should not spin, got %+v", r)
	}
}

func TestAnimatePulseStaysInBand(t *testing.T) {
	f := mustField(t, 500, 4)
	p := defaultParams()

	for step := 0; step < 300; step++ {
		Animate(f, components.ModeFormed, components.Frame{Elapsed: float64(step) * 0.037, Delta: 0.016}, p)
		for i, tr := range f.Transforms {
			base := f.Particles[i].BaseScale
			if tr.Scale < base*(1-p.PulseAmplitude)-1e-12 || tr.Scale > base*(1+p.PulseAmplitude)+1e-12 {
				t.Fatalf("particle %d scale %f outside pulse band around %f", i, tr.Scale, base)
			}
		}
	}
}

func TestAnimateDoesNotAllocate(t *testing.T) {
	f := mustField(t, 2500, 8)
	p := defaultParams()
	frame := components.Frame{Elapsed: 1, Delta: 1.0 / 60}

	allocs := testing.AllocsPerRun(20, func() {
		Animate(f, components.ModeFormed, frame, p)
	})
	if allocs != 0 {
		t.Errorf("Animate allocated %.1f times per run", allocs)
	}
}

func TestUpdateTopperFollowsMode(t *testing.T) {
	top := NewTopper(config.Default().Topper)
	if top.Transform.Position != top.Scattered {
		t.Fatalf("topper should start at its scattered position")
	}

	elapsed := 0.0
	for i := 0; i < 600; i++ {
		elapsed += 1.0 / 60
		UpdateTopper(&top, components.ModeFormed, components.Frame{Elapsed: elapsed, Delta: 1.0 / 60}, 2, 0.5)
	}
	if d := r3.Norm(r3.Sub(top.Transform.Position, top.Formed)); d > 0.01 {
		t.Errorf("topper still %f from formed position", d)
	}
	if math.Abs(top.Transform.Rotation.Y-0.5*10) > 1e-9 {
		t.Errorf("topper spin = %f, want %f", top.Transform.Rotation.Y, 0.5*10)
	}
}

func TestTargetDistancesReusesBuffer(t *testing.T) {
	f := mustField(t, 100, 12)
	buf := make([]float64, 0, 100)
	out := TargetDistances(buf, f, components.ModeFormed)

	if len(out) != 100 || &out[0] != &buf[:1][0] {
		t.Fatalf("expected the caller's buffer to be reused")
	}
	if worst := MaxTargetDistance(f, components.ModeFormed); worst <= 0 {
		t.Errorf("particles at the origin should be away from their targets")
	}
}
