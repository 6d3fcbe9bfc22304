// Package game runs the scene in a raylib window.
package game

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/renderer"
	"github.com/pthm-cable/tinsel/scene"
	"github.com/pthm-cable/tinsel/ui"
)

const controlsHint = "SPACE toggle | G greeting | drag orbit | wheel zoom | HOME reset | H hud | P perf | F11 fullscreen"

// Game holds the scene, its camera and the raylib renderers.
type Game struct {
	ctx   context.Context
	cfg   *config.Config
	scene *scene.Scene
	clock scene.Clock
	cam   *camera.Orbit

	// Rendering
	tree     *renderer.TreeRenderer
	sparkles *renderer.SparkleRenderer
	glow     *renderer.GlowRenderer
	post     *renderer.PostRenderer

	// UI
	overlay   *ui.Overlay
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	showHUD   bool
	showPerf  bool

	// Window dimensions
	screenWidth, screenHeight int32
}

// NewGame builds the scene and the renderers. The raylib window must already
// be open. ctx bounds greeting requests.
func NewGame(ctx context.Context, cfg *config.Config, opts scene.Options) (*Game, error) {
	s, err := scene.New(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	return newGame(ctx, s), nil
}

func newGame(ctx context.Context, s *scene.Scene) *Game {
	cfg := s.Config()
	cam := camera.New(cfg.Camera)
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	g := &Game{
		ctx:          ctx,
		cfg:          cfg,
		scene:        s,
		cam:          cam,
		tree:         renderer.NewTreeRenderer(cfg),
		sparkles:     renderer.NewSparkleRenderer(cam),
		glow:         renderer.NewGlowRenderer(cam, cfg),
		post:         renderer.NewPostRenderer(w, h, cfg.Lighting.Glow),
		overlay:      ui.NewOverlay(cfg.Overlay),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(w-250, 10),
		screenWidth:  w,
		screenHeight: h,
	}
	g.tree.Init()
	g.post.Init()
	return g
}

// Scene returns the running scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Update handles input and advances the scene by the last frame time.
func (g *Game) Update() {
	g.handleInput()

	dt := float64(rl.GetFrameTime())
	g.scene.Step(g.clock.Tick(dt))

	g.cam.AutoRotate = g.scene.Mode() == components.ModeFormed
	g.cam.Update(dt)

	msg, ok := g.scene.Greeting()
	g.overlay.Update(float32(dt), msg, ok)
}

// Unload releases GPU resources and writes the final telemetry window.
func (g *Game) Unload() {
	g.scene.Close()
	g.tree.Unload()
	g.post.Unload()
}

func (g *Game) toggleFormation() {
	g.scene.ToggleFormation()
}

func (g *Game) requestGreeting() {
	g.scene.RequestGreeting(g.ctx)
}
