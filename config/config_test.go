package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.Field.Count)
	assert.InDelta(t, 14.0, cfg.Field.ScatterRadius, 1e-9)
	assert.InDelta(t, 2.39996, cfg.Field.GoldenAngle, 1e-9)
	assert.InDelta(t, 2.0, cfg.Animation.LerpSpeed, 1e-9)
	assert.Equal(t, "static", cfg.Greeting.Provider)

	require.Len(t, cfg.Derived.Palette, 5)
	assert.Equal(t, color.RGBA{R: 0x00, G: 0x42, B: 0x25, A: 255}, cfg.Derived.Palette[0])
	assert.Equal(t, cfg.Derived.Palette[0], cfg.Derived.Palette[1], "dark green is doubled")
	assert.Len(t, cfg.Derived.Lights, len(cfg.Lighting.Lights))
	assert.Len(t, cfg.Derived.SparkleColor, len(cfg.Sparkles))
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  count: 300\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Field.Count)
	assert.InDelta(t, 7.0, cfg.Field.TreeHeight, 1e-9, "untouched fields keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Field.Count = 0 }},
		{"negative count", func(c *Config) { c.Field.Count = -5 }},
		{"empty palette", func(c *Config) { c.Palette = nil }},
		{"bad inner band", func(c *Config) { c.Field.ScatterInner = 1.5 }},
		{"zero lerp speed", func(c *Config) { c.Animation.LerpSpeed = 0 }},
		{"unknown provider", func(c *Config) { c.Greeting.Provider = "oracle" }},
		{"file provider without path", func(c *Config) { c.Greeting.Provider = "file" }},
		{"unknown light", func(c *Config) { c.Lighting.Lights[0].Kind = "area" }},
		{"inverted polar clamp", func(c *Config) { c.Camera.MinPolar, c.Camera.MaxPolar = 2, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FFD700", color.RGBA{R: 255, G: 215, B: 0, A: 255}, false},
		{"d40000", color.RGBA{R: 212, A: 255}, false},
		{" #88CCFF ", color.RGBA{R: 0x88, G: 0xCC, B: 0xFF, A: 255}, false},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBadPaletteColourFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("palette: [\"#12345\"]\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Field.Count = 123
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 123, loaded.Field.Count)
}
