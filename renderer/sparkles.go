package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/systems"
)

// Sparkle sizes are given in pixels at this depth.
const sparkleReferenceDepth = 14.0

// SparkleRenderer draws sparkles as soft screen-space dots.
type SparkleRenderer struct {
	cam *camera.Orbit
}

// NewSparkleRenderer creates a new sparkle renderer.
func NewSparkleRenderer(cam *camera.Orbit) *SparkleRenderer {
	return &SparkleRenderer{cam: cam}
}

// Draw renders every visible sparkle. Call outside Mode3D.
func (r *SparkleRenderer) Draw(sparkles *systems.SparkleSystem, screenW, screenH int32) {
	proj := newScreenProjector(r.cam, screenW, screenH)
	refScale := float32(proj.focal / sparkleReferenceDepth)

	rl.BeginBlendMode(rl.BlendAdditive)
	sparkles.Visit(func(sp systems.SparkleSample) {
		pos, pxPerUnit, ok := proj.project(r3.Vec{X: float64(sp.X), Y: float64(sp.Y), Z: float64(sp.Z)})
		if !ok || sp.Color.A == 0 {
			return
		}

		// Perspective-scaled, but never below a visible pixel
		size := sp.Size * 0.5 * pxPerUnit / refScale
		if size < 0.75 {
			size = 0.75
		}
		rl.DrawCircleV(pos, size, sp.Color)
	})
	rl.EndBlendMode()
}
