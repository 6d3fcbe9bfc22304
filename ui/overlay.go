package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/anim"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/greeting"
)

const maxCardWidth = 640

// Actions reports which overlay buttons were pressed this frame.
type Actions struct {
	Toggle bool
	Greet  bool
}

// OverlayData is the scene state the overlay needs each frame.
type OverlayData struct {
	Formed          bool
	GreetingLoading bool
	ScreenWidth     int32
	ScreenHeight    int32
}

// Overlay owns the buttons, the greeting card and the loading screen.
type Overlay struct {
	renderer *Renderer

	loading  *anim.Fader
	card     *anim.Fader
	cardFade float32

	shown   greeting.Greeting
	hasCard bool
}

// NewOverlay creates the overlay with the loading screen fully opaque. It
// holds for the loading duration and then fades out.
func NewOverlay(cfg config.OverlayConfig) *Overlay {
	o := &Overlay{
		renderer: NewRenderer(),
		loading:  anim.NewFader(1),
		card:     anim.NewFader(0),
		cardFade: float32(cfg.CardFade),
	}
	o.loading.FadeOut(float32(cfg.FadeDuration), float32(cfg.LoadingDuration))
	return o
}

// Update advances the fades. A greeting that differs from the one on the
// card restarts the card fade-in.
func (o *Overlay) Update(dt float32, g greeting.Greeting, ok bool) {
	o.loading.Update(dt)
	if ok && (!o.hasCard || g != o.shown) {
		o.shown, o.hasCard = g, true
		o.card.Reset(0)
		o.card.FadeIn(o.cardFade)
	}
	o.card.Update(dt)
}

// Loading reports whether the loading screen is still visible.
func (o *Overlay) Loading() bool {
	return o.loading.Value() > 0
}

// LoadingAlpha returns the loading screen opacity.
func (o *Overlay) LoadingAlpha() float32 {
	return o.loading.Value()
}

// CardAlpha returns the greeting card opacity.
func (o *Overlay) CardAlpha() float32 {
	if !o.hasCard {
		return 0
	}
	return o.card.Value()
}

// Draw renders the overlay and returns the button presses.
func (o *Overlay) Draw(data OverlayData) Actions {
	var act Actions

	// Buttons stay hidden until the loading screen is mostly gone
	if o.loading.Value() < 0.5 {
		act = o.drawButtons(data)
	}
	if a := o.CardAlpha(); a > 0 {
		o.drawCard(data.ScreenWidth, data.ScreenHeight, a)
	}
	if a := o.loading.Value(); a > 0 {
		o.drawLoading(data.ScreenWidth, data.ScreenHeight, a)
	}
	return act
}

func (o *Overlay) drawButtons(data OverlayData) Actions {
	t := o.renderer.Theme
	gap := t.Padding
	total := t.ButtonWidth*2 + gap
	x := float32((data.ScreenWidth - total) / 2)
	y := float32(data.ScreenHeight - t.ButtonHeight - 40)
	w, h := float32(t.ButtonWidth), float32(t.ButtonHeight)

	toggleLabel := "Toggle formation"
	if data.Formed {
		toggleLabel = "Scatter"
	}
	greetLabel := "Generate greeting"
	if data.GreetingLoading {
		greetLabel = "Composing..."
	}

	return Actions{
		Toggle: gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, toggleLabel),
		Greet:  gui.Button(rl.Rectangle{X: x + w + float32(gap), Y: y, Width: w, Height: h}, greetLabel),
	}
}

func (o *Overlay) drawCard(screenW, screenH int32, alpha float32) {
	t := o.renderer.Theme
	width := min(int32(maxCardWidth), screenW-80)
	textWidth := width - t.Padding*4

	lines := WrapText(o.shown.Message, textWidth, func(s string) int32 {
		return rl.MeasureText(s, t.MessageSize)
	})
	lineH := t.MessageSize + 6
	height := int32(len(lines))*lineH + t.SignatureSize + t.Padding*5

	x := (screenW - width) / 2
	y := screenH / 8
	rl.DrawRectangle(x, y, width, height, Fade(t.CardBg, alpha))
	rl.DrawRectangleLines(x, y, width, height, Fade(t.CardBorder, alpha))

	cx := screenW / 2
	ty := y + t.Padding*2
	for _, line := range lines {
		o.renderer.DrawCentered(line, cx, ty, t.MessageSize, Fade(t.MessageColor, alpha))
		ty += lineH
	}
	o.renderer.DrawCentered("- "+o.shown.Signature, cx, ty+t.Padding, t.SignatureSize, Fade(t.SignatureColor, alpha))
}

func (o *Overlay) drawLoading(screenW, screenH int32, alpha float32) {
	t := o.renderer.Theme
	rl.DrawRectangle(0, 0, screenW, screenH, Fade(t.LoadingBg, alpha))
	cx, cy := screenW/2, screenH/2
	o.renderer.DrawCentered("Tinsel", cx, cy-40, 48, Fade(t.LoadingText, alpha))
	o.renderer.DrawCentered("gathering the lights", cx, cy+20, 18, Fade(rl.LightGray, alpha))
}
