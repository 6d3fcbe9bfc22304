// Package renderer draws the scene with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/scene"
)

// Star topper geometry, in world units.
const (
	topperCoreRadius = 0.35
	topperSpikes     = 5
	topperSpikeLen   = 0.9
	topperSpikeBase  = 0.12
	topperRays       = 8
	topperRayLen     = 1.6
)

// TreeRenderer draws the particles, the topper and the floor in 3D.
type TreeRenderer struct {
	cfg *config.Config

	cube     rl.Mesh
	sphere   rl.Mesh
	material rl.Material

	initialized bool
}

// NewTreeRenderer creates a tree renderer. GPU resources are created by Init.
func NewTreeRenderer(cfg *config.Config) *TreeRenderer {
	return &TreeRenderer{cfg: cfg}
}

// Init uploads the particle meshes (must be called after raylib window is created).
func (t *TreeRenderer) Init() {
	if t.initialized {
		return
	}
	size := float32(t.cfg.Animation.BlockSize)
	t.cube = rl.GenMeshCube(size, size, size)
	t.sphere = rl.GenMeshSphere(float32(t.cfg.Animation.RoundRadius), 8, 12)
	t.material = rl.LoadMaterialDefault()
	t.initialized = true
}

// Draw renders the tree. Call between BeginMode3D and EndMode3D.
func (t *TreeRenderer) Draw(s *scene.Scene) {
	if !t.initialized {
		t.Init()
	}

	field := s.Field()
	colors := s.Colors()
	for i := range field.Particles {
		mesh := t.cube
		if field.Particles[i].Category == components.CategoryRound {
			mesh = t.sphere
		}
		t.material.Maps.Color = colors[i]
		rl.DrawMesh(mesh, t.material, transformMatrix(field.Transforms[i]))
	}

	t.drawTopper(s.Topper())
	t.drawFloor()
}

func transformMatrix(tr components.Transform) rl.Matrix {
	sc := float32(tr.Scale)
	m := rl.MatrixScale(sc, sc, sc)
	m = rl.MatrixMultiply(m, rl.MatrixRotateXYZ(vec3(tr.Rotation)))
	return rl.MatrixMultiply(m, rl.MatrixTranslate(float32(tr.Position.X), float32(tr.Position.Y), float32(tr.Position.Z)))
}

// drawTopper draws the core with star spikes in the vertical plane facing
// the spin angle, plus thin rays radiating around it.
func (t *TreeRenderer) drawTopper(top components.Topper) {
	d := t.cfg.Derived
	center := vec3(top.Transform.Position)
	scale := float32(top.Transform.Scale)

	rl.DrawSphereEx(center, topperCoreRadius*scale, 8, 10, d.CoreColor)

	spin := top.Transform.Rotation.Y
	sinSpin, cosSpin := float32(math.Sin(spin)), float32(math.Cos(spin))
	for i := 0; i < topperSpikes; i++ {
		a := float64(i) * 2 * math.Pi / topperSpikes
		tip := rl.Vector3{
			X: center.X + float32(math.Sin(a))*topperSpikeLen*scale*cosSpin,
			Y: center.Y + float32(math.Cos(a))*topperSpikeLen*scale,
			Z: center.Z - float32(math.Sin(a))*topperSpikeLen*scale*sinSpin,
		}
		rl.DrawCylinderEx(center, tip, topperSpikeBase*scale, 0, 4, d.StarColor)
	}

	for i := 0; i < topperRays; i++ {
		a := float64(i)*2*math.Pi/topperRays + spin
		tip := rl.Vector3{
			X: center.X + float32(math.Cos(a))*topperRayLen*scale,
			Y: center.Y,
			Z: center.Z + float32(math.Sin(a))*topperRayLen*scale,
		}
		rl.DrawLine3D(center, tip, withAlpha(d.RayColor, 120))
	}
}

func (t *TreeRenderer) drawFloor() {
	floor := t.cfg.Lighting.Floor
	size := float32(floor.Size)
	rl.DrawPlane(rl.Vector3{Y: float32(floor.Y)}, rl.Vector2{X: size, Y: size}, t.cfg.Derived.FloorColor)
}

// Unload frees GPU resources.
func (t *TreeRenderer) Unload() {
	if !t.initialized {
		return
	}
	rl.UnloadMesh(&t.cube)
	rl.UnloadMesh(&t.sphere)
	rl.UnloadMaterial(t.material)
	t.initialized = false
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
