package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/scene"
)

// Orbit step sizes for the arrow keys and zoom keys.
const (
	orbitStep = 0.15
	zoomStep  = 0.1
)

type action int

const (
	actionNone action = iota
	actionToggle
	actionGreet
	actionQuit
	actionLeft
	actionRight
	actionUp
	actionDown
	actionZoomIn
	actionZoomOut
	actionReset
)

// keyAction maps a key press to an action.
func keyAction(key tcell.Key, ch rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyLeft:
		return actionLeft
	case tcell.KeyRight:
		return actionRight
	case tcell.KeyUp:
		return actionUp
	case tcell.KeyDown:
		return actionDown
	case tcell.KeyRune:
		switch ch {
		case 't', 'T', ' ':
			return actionToggle
		case 'g', 'G':
			return actionGreet
		case 'q', 'Q':
			return actionQuit
		case '+', '=':
			return actionZoomIn
		case '-', '_':
			return actionZoomOut
		case 'r', 'R':
			return actionReset
		}
	}
	return actionNone
}

// Options controls the terminal loop.
type Options struct {
	FPS       int
	MaxFrames int // Zero runs until quit
}

// App runs the scene in a terminal.
type App struct {
	screen   tcell.Screen
	scene    *scene.Scene
	cam      *camera.Orbit
	renderer *Renderer
	clock    scene.Clock
}

// NewApp wires a scene to an initialised screen.
func NewApp(screen tcell.Screen, s *scene.Scene) *App {
	cfg := s.Config()
	cam := camera.New(cfg.Camera)
	return &App{
		screen:   screen,
		scene:    s,
		cam:      cam,
		renderer: NewRenderer(screen, cam, cfg.Overlay.CardFade),
	}
}

// handle applies an action. It reports false when the app should quit.
func (a *App) handle(ctx context.Context, act action) bool {
	switch act {
	case actionQuit:
		return false
	case actionToggle:
		a.scene.ToggleFormation()
	case actionGreet:
		a.scene.RequestGreeting(ctx)
	case actionLeft:
		a.cam.Rotate(-orbitStep, 0)
	case actionRight:
		a.cam.Rotate(orbitStep, 0)
	case actionUp:
		a.cam.Rotate(0, -orbitStep)
	case actionDown:
		a.cam.Rotate(0, orbitStep)
	case actionZoomIn:
		a.cam.Zoom(zoomStep)
	case actionZoomOut:
		a.cam.Zoom(-zoomStep)
	case actionReset:
		a.cam.Reset()
	}
	return true
}

// Frame steps the scene by dt and draws it.
func (a *App) Frame(dt float64) {
	a.scene.Step(a.clock.Tick(dt))
	a.cam.AutoRotate = a.scene.Mode() == components.ModeFormed
	a.cam.Update(dt)
	a.renderer.Draw(a.scene, dt)
	a.scene.Perf().RecordFrame()
	a.screen.Show()
}

// Run drives the loop until quit, ctx is cancelled or MaxFrames is reached.
// Input is read on a separate goroutine and applied on the loop goroutine.
func (a *App) Run(ctx context.Context, opts Options) error {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()

	for frames := 0; opts.MaxFrames == 0 || frames < opts.MaxFrames; frames++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handle(ctx, keyAction(ev.Key(), ev.Rune())) {
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			frames--
		case now := <-ticker.C:
			a.Frame(now.Sub(last).Seconds())
			last = now
		}
	}
	return nil
}
