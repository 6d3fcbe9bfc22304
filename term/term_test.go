package term

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/scene"
)

func newTestApp(t *testing.T, w, h int) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)

	s, err := scene.New(config.Default(), scene.Options{Seed: 1})
	require.NoError(t, err)
	return NewApp(screen, s), screen
}

func countGlyphs(screen tcell.SimulationScreen) map[rune]int {
	w, h := screen.Size()
	counts := map[rune]int{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch, _, _, _ := screen.GetContent(x, y)
			counts[ch]++
		}
	}
	return counts
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func TestFormedTreeDrawsAllGlyphs(t *testing.T) {
	app, screen := newTestApp(t, 120, 50)

	app.scene.ToggleFormation()
	for i := 0; i < 300; i++ {
		app.Frame(1.0 / 60)
	}

	counts := countGlyphs(screen)
	assert.Greater(t, counts[GlyphBlock], 50, "expected block particles on screen")
	assert.Greater(t, counts[GlyphRound], 20, "expected round particles on screen")
	assert.Equal(t, 1, counts[GlyphTopper], "exactly one topper")
	assert.Greater(t, counts[GlyphSparkle], 0, "expected sparkles")
	assert.Contains(t, rowText(screen, 0), "formed")
}

func TestTopperAboveTreeCentre(t *testing.T) {
	app, screen := newTestApp(t, 100, 40)

	app.scene.ToggleFormation()
	for i := 0; i < 400; i++ {
		app.Frame(1.0 / 60)
	}

	w, h := screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ch, _, _, _ := screen.GetContent(x, y); ch == GlyphTopper {
				assert.InDelta(t, w/2, x, float64(w)/6, "topper should be near the centre column")
				assert.Less(t, y, h/2, "topper should be in the upper half")
				return
			}
		}
	}
	t.Fatal("topper not drawn")
}

func TestGreetingDrawnAtBottom(t *testing.T) {
	app, screen := newTestApp(t, 100, 40)

	<-app.scene.RequestGreeting(context.Background())
	for i := 0; i < 60; i++ {
		app.Frame(1.0 / 60)
	}

	_, h := screen.Size()
	assert.Contains(t, rowText(screen, h-3), "The Arix Collection")
	assert.Equal(t, components.ModeFormed, app.scene.Mode())
}

func TestKeyActions(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		ch   rune
		want action
	}{
		{tcell.KeyRune, 't', actionToggle},
		{tcell.KeyRune, 'g', actionGreet},
		{tcell.KeyRune, 'q', actionQuit},
		{tcell.KeyEscape, 0, actionQuit},
		{tcell.KeyLeft, 0, actionLeft},
		{tcell.KeyDown, 0, actionDown},
		{tcell.KeyRune, '+', actionZoomIn},
		{tcell.KeyRune, 'x', actionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyAction(tt.key, tt.ch), "key %v rune %q", tt.key, tt.ch)
	}
}

func TestHandleToggleAndQuit(t *testing.T) {
	app, _ := newTestApp(t, 40, 20)
	ctx := context.Background()

	assert.True(t, app.handle(ctx, actionToggle))
	assert.Equal(t, components.ModeFormed, app.scene.Mode())
	assert.False(t, app.handle(ctx, actionQuit))
}

func TestWrap(t *testing.T) {
	lines := wrap("May the golden glow of this season illuminate your path", 20)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 20)
	}
	assert.Equal(t, "May the golden glow of this season illuminate your path", strings.Join(lines, " "))
}
