// Package ui draws the raylib overlay: buttons, the greeting card, the
// loading screen and the diagnostic panels.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	CardBg         rl.Color
	CardBorder     rl.Color
	MessageColor   rl.Color
	SignatureColor rl.Color
	LoadingBg      rl.Color
	LoadingText    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
	MessageSize    int32
	SignatureSize  int32
	ButtonWidth    int32
	ButtonHeight   int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 8, G: 20, B: 14, A: 220},
		PanelBorder:    rl.Color{R: 120, G: 100, B: 30, A: 255},
		SectionHeader:  rl.Gold,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		CardBg:         rl.Color{R: 0, G: 26, B: 15, A: 200},
		CardBorder:     rl.Color{R: 255, G: 215, B: 0, A: 255},
		MessageColor:   rl.Color{R: 255, G: 245, B: 220, A: 255},
		SignatureColor: rl.Color{R: 255, G: 215, B: 0, A: 255},
		LoadingBg:      rl.Black,
		LoadingText:    rl.Color{R: 255, G: 215, B: 0, A: 255},
		Padding:        12,
		LineHeight:     16,
		LabelWidth:     80,
		FontSize:       12,
		HeaderFontSize: 14,
		MessageSize:    26,
		SignatureSize:  18,
		ButtonWidth:    180,
		ButtonHeight:   36,
	}
}
