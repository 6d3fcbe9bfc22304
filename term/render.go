// Package term draws the scene on a terminal with tcell.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/anim"
	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/greeting"
	"github.com/pthm-cable/tinsel/scene"
	"github.com/pthm-cable/tinsel/systems"
)

// Glyphs used for each kind of element.
const (
	GlyphBlock   = '■'
	GlyphRound   = '●'
	GlyphTopper  = '★'
	GlyphSparkle = '·'
)

// cellAspect is the height-to-width ratio of a terminal cell.
const cellAspect = 2.0

var (
	backgroundColor = tcell.NewRGBColor(0, 0, 0)
	goldColor       = color.RGBA{R: 255, G: 215, A: 255}
	hintColor       = tcell.NewRGBColor(110, 110, 110)
)

// Renderer projects the scene onto a character grid.
type Renderer struct {
	screen tcell.Screen
	cam    *camera.Orbit
	fade   *anim.Fader
	fadeIn float32

	depth []float64
	w, h  int

	shown greeting.Greeting
}

// NewRenderer creates a renderer drawing to screen through cam.
func NewRenderer(screen tcell.Screen, cam *camera.Orbit, cardFade float64) *Renderer {
	return &Renderer{
		screen: screen,
		cam:    cam,
		fade:   anim.NewFader(0),
		fadeIn: float32(cardFade),
	}
}

// Draw renders one frame. dt advances the greeting fade.
func (r *Renderer) Draw(s *scene.Scene, dt float64) {
	r.resize()
	r.screen.Fill(' ', tcell.StyleDefault.Background(backgroundColor))

	s.Sparkles().Visit(func(sp systems.SparkleSample) {
		r.plot(r3.Vec{X: float64(sp.X), Y: float64(sp.Y), Z: float64(sp.Z)}, GlyphSparkle, sp.Color)
	})

	f := s.Field()
	colors := s.Colors()
	for i := range f.Particles {
		glyph := GlyphRound
		if f.Particles[i].Category == components.CategoryBlock {
			glyph = GlyphBlock
		}
		r.plot(f.Transforms[i].Position, glyph, colors[i])
	}

	if x, y, _, ok := r.project(s.Topper().Transform.Position); ok {
		r.setCell(x, y, GlyphTopper, tcell.StyleDefault.Foreground(rgb(goldColor)).Background(backgroundColor).Bold(true))
	}

	r.drawStatus(s)
	r.drawGreeting(s, dt)
}

func (r *Renderer) resize() {
	w, h := r.screen.Size()
	if w != r.w || h != r.h || len(r.depth) != w*h {
		r.w, r.h = w, h
		r.depth = make([]float64, w*h)
	}
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
}

func (r *Renderer) project(p r3.Vec) (x, y int, depth float64, ok bool) {
	if r.w == 0 || r.h == 0 {
		return 0, 0, 0, false
	}
	px, py, depth, ok := r.cam.Project(p, float64(r.w), float64(r.h)*cellAspect)
	if !ok {
		return 0, 0, depth, false
	}
	x, y = int(px), int(py/cellAspect)
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return 0, 0, depth, false
	}
	return x, y, depth, true
}

// plot draws glyph at p if nothing nearer occupies the cell.
func (r *Renderer) plot(p r3.Vec, glyph rune, c color.RGBA) {
	x, y, depth, ok := r.project(p)
	if !ok {
		return
	}
	i := y*r.w + x
	if depth >= r.depth[i] {
		return
	}
	r.depth[i] = depth
	r.setCell(x, y, glyph, tcell.StyleDefault.Foreground(rgb(premultiply(c))).Background(backgroundColor))
}

func (r *Renderer) setCell(x, y int, ch rune, style tcell.Style) {
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *Renderer) drawStatus(s *scene.Scene) {
	status := " " + s.Mode().String()
	if s.GreetingLoading() {
		status += " · composing greeting…"
	}
	r.text(0, 0, status, tcell.StyleDefault.Foreground(rgb(goldColor)).Background(backgroundColor))
	r.text(0, r.h-1, " t toggle  g greet  arrows orbit  +/- zoom  q quit", tcell.StyleDefault.Foreground(hintColor).Background(backgroundColor))
}

func (r *Renderer) drawGreeting(s *scene.Scene, dt float64) {
	g, ok := s.Greeting()
	if !ok {
		return
	}
	if g != r.shown {
		r.shown = g
		r.fade.Reset(0)
		r.fade.FadeIn(r.fadeIn)
	}
	r.fade.Update(float32(dt))

	c := goldColor
	c.A = r.fade.Alpha()
	style := tcell.StyleDefault.Foreground(rgb(premultiply(c))).Background(backgroundColor)

	lines := wrap(g.Message, r.w-4)
	lines = append(lines, "- "+g.Signature)
	top := r.h - 2 - len(lines)
	for i, line := range lines {
		r.text((r.w-len([]rune(line)))/2, top+i, line, style)
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	if y < 0 || y >= r.h {
		return
	}
	for _, ch := range s {
		if x >= r.w {
			return
		}
		if x >= 0 {
			r.setCell(x, y, ch, style)
		}
		x++
	}
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// premultiply folds alpha into the colour against a black background.
func premultiply(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: 255,
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
