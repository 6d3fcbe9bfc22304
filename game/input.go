package game

import rl "github.com/gen2brain/raylib-go/raylib"

// Orbit sensitivity in radians per pixel of mouse drag, and zoom per wheel notch.
const (
	dragSensitivity = 0.005
	wheelZoom       = 0.1
	keyOrbit        = 0.03
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.toggleFormation()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.requestGreeting()
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.post.Resize(w, h)
	g.perfPanel.SetPosition(w-250, 10)
}

// handleCameraInput orbits on left-drag or arrow keys and zooms on the wheel.
func (g *Game) handleCameraInput() {
	// The overlay loading screen swallows input
	if g.overlay.Loading() {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			g.cam.Rotate(-float64(d.X)*dragSensitivity, -float64(d.Y)*dragSensitivity)
		}
	}

	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Rotate(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Rotate(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Rotate(0, -keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Rotate(0, keyOrbit)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.Zoom(float64(wheel) * wheelZoom)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}
