// Field preview tool - interactive side and top views of the generated
// particle field with sliders for the generator parameters.
//
// Usage: go run ./cmd/fieldpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	viewSize     = 340
	panelX       = 2*viewSize + 40
	panelWidth   = windowWidth - panelX - 20
	worldSpan    = 32.0 // World units across each view
)

// slider binds a raygui slider to one field parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*config.FieldConfig) float32
	set      func(*config.FieldConfig, float32)
}

var sliders = []slider{
	{"Count", 100, 8000, "%.0f",
		func(c *config.FieldConfig) float32 { return float32(c.Count) },
		func(c *config.FieldConfig, v float32) { c.Count = int(v) }},
	{"Height bias (<1 packs the base)", 0.3, 2.0, "%.2f",
		func(c *config.FieldConfig) float32 { return float32(c.HeightBias) },
		func(c *config.FieldConfig, v float32) { c.HeightBias = float64(v) }},
	{"Base radius", 0.5, 8.0, "%.2f",
		func(c *config.FieldConfig) float32 { return float32(c.TreeRadius) },
		func(c *config.FieldConfig, v float32) { c.TreeRadius = float64(v) }},
	{"Tree height", 2.0, 14.0, "%.2f",
		func(c *config.FieldConfig) float32 { return float32(c.TreeHeight) },
		func(c *config.FieldConfig, v float32) { c.TreeHeight = float64(v) }},
	{"Jitter span", 0.0, 1.0, "%.2f",
		func(c *config.FieldConfig) float32 { return float32(c.JitterSpan) },
		func(c *config.FieldConfig, v float32) { c.JitterSpan = float64(v) }},
	{"Scatter radius", 4.0, 30.0, "%.1f",
		func(c *config.FieldConfig) float32 { return float32(c.ScatterRadius) },
		func(c *config.FieldConfig, v float32) { c.ScatterRadius = float64(v) }},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := cfg.Field
	params := defaults
	palette := cfg.Derived.Palette

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	seed := int64(1)
	showScatter := false
	var field *components.Field
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			f, err := systems.GenerateField(params, len(palette), rand.New(rand.NewSource(seed)))
			if err != nil {
				slog.Warn("field generation failed", "error", err)
			} else {
				field = f
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		drawView(field, palette, showScatter, 10, "Side (x, y)", func(p components.Particle, scattered bool) (float64, float64) {
			pos := p.Formed
			if scattered {
				pos = p.Scattered
			}
			return pos.X, pos.Y
		})
		drawView(field, palette, showScatter, viewSize+30, "Top (x, z)", func(p components.Particle, scattered bool) (float64, float64) {
			pos := p.Formed
			if scattered {
				pos = p.Scattered
			}
			return pos.X, -pos.Z
		})

		if field != nil {
			rl.DrawText(fmt.Sprintf("Particles: %d  Seed: %d", field.Len(), seed), 15, viewSize+50, 16, rl.LightGray)
		}

		// Control panel
		x := float32(panelX)
		y := float32(10)
		rl.DrawText("Field Parameters", int32(x), int32(y), 20, rl.RayWhite)
		y += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(x), int32(y), 14, rl.Gray)
			y += 18
			cur := s.get(&params)
			next := gui.SliderBar(
				rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
				"", "", cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.LightGray)
			if next != cur {
				s.set(&params, next)
				needsRegen = true
			}
			y += 32
		}
		y += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Reseed") {
			seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Reset") {
			params = defaults
			seed = 1
			needsRegen = true
		}
		y += 40
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 250, Height: 30}, toggleText(showScatter, "Show formed", "Show scattered")) {
			showScatter = !showScatter
		}
		y += 50

		// Output YAML
		snippet := fieldYAML(params)
		rl.DrawText("YAML Config:", int32(x), int32(y), 16, rl.LightGray)
		y += 25
		rl.DrawText(snippet, int32(x), int32(y), 12, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(x), windowHeight-30, 12, rl.DarkGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// drawView plots every particle with project mapping it to view coordinates.
func drawView(field *components.Field, palette []rl.Color, scattered bool, left int32, title string,
	project func(components.Particle, bool) (float64, float64)) {
	top := int32(30)
	rl.DrawRectangleLines(left, top, viewSize, viewSize, rl.DarkGray)
	rl.DrawText(title, left, 8, 16, rl.LightGray)
	if field == nil {
		return
	}

	scale := viewSize / worldSpan
	cx := float64(left) + viewSize/2
	cy := float64(top) + viewSize/2
	for _, p := range field.Particles {
		u, v := project(p, scattered)
		px := cx + u*scale
		py := cy - v*scale
		if px < float64(left) || px > float64(left+viewSize) || py < float64(top) || py > float64(top+viewSize) {
			continue
		}
		rl.DrawPixel(int32(px), int32(py), palette[p.ColorIndex])
	}
}

func fieldYAML(c config.FieldConfig) string {
	out, err := yaml.Marshal(map[string]config.FieldConfig{"field": c})
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
