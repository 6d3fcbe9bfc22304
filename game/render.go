package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/renderer"
	"github.com/pthm-cable/tinsel/ui"
)

// Draw renders one frame. Overlay buttons are immediate mode, so their
// presses are applied here and picked up by the next Update.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(g.cfg.Derived.Background)

	rl.BeginMode3D(renderer.Camera3D(g.cam))
	g.tree.Draw(g.scene)
	rl.EndMode3D()

	g.sparkles.Draw(g.scene.Sparkles(), g.screenWidth, g.screenHeight)
	g.glow.Draw(g.scene, g.screenWidth, g.screenHeight)
	g.post.Draw(float32(g.clock.Elapsed()))

	if g.showHUD {
		g.drawHUD()
	}
	if g.showPerf {
		g.perfPanel.Draw(g.scene.Perf().Stats())
	}

	act := g.overlay.Draw(ui.OverlayData{
		Formed:          g.scene.Mode() == components.ModeFormed,
		GreetingLoading: g.scene.GreetingLoading(),
		ScreenWidth:     g.screenWidth,
		ScreenHeight:    g.screenHeight,
	})

	rl.EndDrawing()
	g.scene.Perf().RecordFrame()

	if act.Toggle {
		g.toggleFormation()
	}
	if act.Greet {
		g.requestGreeting()
	}
}

func (g *Game) drawHUD() {
	g.hud.Draw(ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Mode:         g.scene.Mode().String(),
		Particles:    g.scene.Field().Len(),
		Sparkles:     g.scene.Sparkles().Count(),
		Frame:        g.scene.FrameCount(),
		FPS:          rl.GetFPS(),
		ScreenWidth:  g.screenWidth,
		ScreenHeight: g.screenHeight,
	})
	g.hud.DrawControls(g.screenWidth, g.screenHeight, controlsHint)
}
