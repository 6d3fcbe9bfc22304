// Package components defines the data types shared by the scene systems.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Mode selects which layout particles are drawn toward.
type Mode uint8

const (
	ModeScattered Mode = iota // Particles drift toward their shell positions
	ModeFormed                // Particles gather into the tree cone
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeFormed {
		return ModeScattered
	}
	return ModeFormed
}

func (m Mode) String() string {
	if m == ModeFormed {
		return "formed"
	}
	return "scattered"
}

// Category is the visual shape of a particle.
type Category uint8

const (
	CategoryBlock Category = iota // Spinning cube ("gift")
	CategoryRound                 // Sphere ("bauble")
)

func (c Category) String() string {
	if c == CategoryRound {
		return "round"
	}
	return "block"
}

// Particle holds the per-particle data fixed at generation time.
type Particle struct {
	ID            int
	Formed        r3.Vec
	Scattered     r3.Vec
	Category      Category
	ColorIndex    uint8
	BaseScale     float64
	RotationSpeed float64
	PulsePhase    float64
}

// Target returns the position the particle is drawn toward in mode m.
func (p *Particle) Target(m Mode) r3.Vec {
	if m == ModeFormed {
		return p.Formed
	}
	return p.Scattered
}

// Transform is the mutable visual state of a particle.
type Transform struct {
	Position r3.Vec
	Rotation r3.Vec // Euler angles, radians
	Scale    float64
}

// Field is the particle arena. Particles and Transforms are parallel slices
// indexed by particle ID; neither is resized after generation.
type Field struct {
	Particles  []Particle
	Transforms []Transform
}

// Len returns the particle count.
func (f *Field) Len() int {
	return len(f.Particles)
}

// Frame carries the host clock for one rendered frame.
type Frame struct {
	Elapsed float64 // Seconds since start
	Delta   float64 // Seconds since the previous frame
}

// Topper is the decorative star above the tree.
type Topper struct {
	Formed    r3.Vec
	Scattered r3.Vec
	Transform Transform
}
