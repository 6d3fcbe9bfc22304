package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/scene"
	"github.com/pthm-cable/tinsel/systems"
)

// GlowRenderer adds soft halos around bright particles and the topper. It
// stands in for a bloom pass.
type GlowRenderer struct {
	cam       *camera.Orbit
	threshold float64
	intensity float32
	radius    float32
	coreColor color.RGBA
}

// NewGlowRenderer creates a glow renderer.
func NewGlowRenderer(cam *camera.Orbit, cfg *config.Config) *GlowRenderer {
	glow := cfg.Lighting.Glow
	return &GlowRenderer{
		cam:       cam,
		threshold: glow.Threshold,
		intensity: float32(glow.Intensity),
		radius:    float32(glow.Radius),
		coreColor: cfg.Derived.CoreColor,
	}
}

// Draw renders the halos additively. Call outside Mode3D.
func (g *GlowRenderer) Draw(s *scene.Scene, screenW, screenH int32) {
	proj := newScreenProjector(g.cam, screenW, screenH)

	rl.BeginBlendMode(rl.BlendAdditive)

	field := s.Field()
	colors := s.Colors()
	for i := range field.Particles {
		c := colors[i]
		lum := systems.Luminance(c)
		if lum < g.threshold {
			continue
		}
		pos, pxPerUnit, ok := proj.project(field.Transforms[i].Position)
		if !ok {
			continue
		}

		// Brighter particles bleed further
		strength := float32((lum-g.threshold)/(1-g.threshold+1e-6)) * g.intensity
		if strength > 1 {
			strength = 1
		}
		radius := g.radius * float32(field.Transforms[i].Scale) * pxPerUnit
		inner := color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(60 * strength)}
		rl.DrawCircleGradient(int32(pos.X), int32(pos.Y), radius, inner, color.RGBA{R: c.R, G: c.G, B: c.B})
	}

	g.drawTopperGlow(proj, s.Topper().Transform.Position)

	rl.EndBlendMode()
}

func (g *GlowRenderer) drawTopperGlow(proj screenProjector, p r3.Vec) {
	pos, pxPerUnit, ok := proj.project(p)
	if !ok {
		return
	}

	layers := []struct {
		radius float32
		alpha  float32
	}{
		{3.0, 10},
		{1.8, 20},
		{1.0, 40},
		{0.5, 80},
	}
	for _, layer := range layers {
		c := g.coreColor
		c.A = uint8(min(layer.alpha*g.intensity, 255))
		rl.DrawCircleV(pos, layer.radius*pxPerUnit, c)
	}
}
