package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/greeting"
)

// runeWidth measures every character as 10 units wide.
func runeWidth(s string) int32 {
	return int32(len([]rune(s))) * 10
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int32
		want  []string
	}{
		{"fits", "merry christmas", 200, []string{"merry christmas"}},
		{"breaks on words", "merry christmas to all", 120, []string{"merry", "christmas to", "all"}},
		{"long word alone", "a supercalifragilistic b", 50, []string{"a", "supercalifragilistic", "b"}},
		{"explicit newline", "one\ntwo", 500, []string{"one", "two"}},
		{"collapses spaces", "  hello   there ", 500, []string{"hello there"}},
		{"empty", "", 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width, runeWidth))
		})
	}
}

func overlayConfig() config.OverlayConfig {
	return config.OverlayConfig{LoadingDuration: 2, FadeDuration: 1, CardFade: 0.5}
}

func TestLoadingScreenHoldsThenFades(t *testing.T) {
	o := NewOverlay(overlayConfig())
	assert.True(t, o.Loading())

	o.Update(1.5, greeting.Greeting{}, false)
	assert.Equal(t, float32(1), o.LoadingAlpha(), "held during the loading duration")

	o.Update(1.0, greeting.Greeting{}, false)
	assert.Greater(t, o.LoadingAlpha(), float32(0))
	assert.Less(t, o.LoadingAlpha(), float32(1))

	o.Update(1.0, greeting.Greeting{}, false)
	assert.False(t, o.Loading())
}

func TestCardFadesInForNewGreeting(t *testing.T) {
	o := NewOverlay(overlayConfig())
	assert.Zero(t, o.CardAlpha())

	o.Update(0.25, greeting.Default, true)
	mid := o.CardAlpha()
	assert.Greater(t, mid, float32(0))
	assert.Less(t, mid, float32(1))

	o.Update(0.25, greeting.Default, true)
	assert.InDelta(t, 1, o.CardAlpha(), 1e-4)

	// Same greeting again does not restart the fade
	o.Update(0.25, greeting.Default, true)
	assert.InDelta(t, 1, o.CardAlpha(), 1e-4)

	o.Update(0.25, greeting.Greeting{Message: "Let it snow", Signature: "The Weather"}, true)
	assert.Less(t, o.CardAlpha(), float32(1), "new greeting fades in again")
}
