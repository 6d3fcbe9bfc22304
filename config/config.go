// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Palette   []string        `yaml:"palette"`
	Animation AnimationConfig `yaml:"animation"`
	Topper    TopperConfig    `yaml:"topper"`
	Sparkles  []SparkleLayer  `yaml:"sparkles"`
	Lighting  LightingConfig  `yaml:"lighting"`
	Camera    CameraConfig    `yaml:"camera"`
	Greeting  GreetingConfig  `yaml:"greeting"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"`
}

// Vec3 is a plain YAML-friendly 3D coordinate.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// FieldConfig holds particle field generation parameters.
type FieldConfig struct {
	Count         int     `yaml:"count"`
	ScatterRadius float64 `yaml:"scatter_radius"`
	ScatterInner  float64 `yaml:"scatter_inner"` // Fraction of radius where the shell band starts
	TreeHeight    float64 `yaml:"tree_height"`
	TreeRadius    float64 `yaml:"tree_radius"` // Cone radius at the base
	TreeBaseY     float64 `yaml:"tree_base_y"`
	HeightBias    float64 `yaml:"height_bias"` // Exponent on i/N; <1 packs particles near the base
	GoldenAngle   float64 `yaml:"golden_angle"`
	JitterMin     float64 `yaml:"jitter_min"`
	JitterSpan    float64 `yaml:"jitter_span"`
	BlockChance   float64 `yaml:"block_chance"`
	ScaleMin      float64 `yaml:"scale_min"`
	ScaleSpan     float64 `yaml:"scale_span"`
	SpinMax       float64 `yaml:"spin_max"`
}

// AnimationConfig holds per-frame animation parameters.
type AnimationConfig struct {
	LerpSpeed      float64 `yaml:"lerp_speed"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	BlockPulseFreq float64 `yaml:"block_pulse_freq"`
	RoundPulseFreq float64 `yaml:"round_pulse_freq"`
	SpinFactor     float64 `yaml:"spin_factor"`
	BlockSize      float64 `yaml:"block_size"`
	RoundRadius    float64 `yaml:"round_radius"`
}

// TopperConfig holds the star topper parameters.
type TopperConfig struct {
	Formed    Vec3    `yaml:"formed"`
	Scattered Vec3    `yaml:"scattered"`
	SpinSpeed float64 `yaml:"spin_speed"`
	CoreColor string  `yaml:"core_color"`
	StarColor string  `yaml:"star_color"`
	RayColor  string  `yaml:"ray_color"`
}

// SparkleLayer describes one population of drifting glints.
type SparkleLayer struct {
	Name       string  `yaml:"name"`
	Count      int     `yaml:"count"`
	Scale      Vec3    `yaml:"scale"`
	Size       float64 `yaml:"size"`
	Speed      float64 `yaml:"speed"`
	Opacity    float64 `yaml:"opacity"`
	Drift      float64 `yaml:"drift"` // Drift amplitude as a fraction of the box scale
	Color      string  `yaml:"color"`
	FormedOnly bool    `yaml:"formed_only"`
	FollowTop  bool    `yaml:"follow_topper"`
}

// LightConfig describes a single light in the rig.
type LightConfig struct {
	Kind      string  `yaml:"kind"` // ambient | spot | point
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Position  Vec3    `yaml:"position"`
	Angle     float64 `yaml:"angle"`    // Spot cone half-angle (radians)
	Penumbra  float64 `yaml:"penumbra"` // Fraction of the cone that fades
	Distance  float64 `yaml:"distance"` // Point light cutoff (0 = infinite)
}

// LightingConfig holds the light rig.
type LightingConfig struct {
	Exposure float64       `yaml:"exposure"`
	Lights   []LightConfig `yaml:"lights"`
	Floor    FloorConfig   `yaml:"floor"`
	Glow     GlowConfig    `yaml:"glow"`
}

// FloorConfig holds the reflective floor plane.
type FloorConfig struct {
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// GlowConfig holds the additive glow pass that stands in for bloom.
type GlowConfig struct {
	Threshold float64 `yaml:"threshold"` // Luminance above which particles glow
	Intensity float64 `yaml:"intensity"`
	Radius    float64 `yaml:"radius"`
	Vignette  float64 `yaml:"vignette"`
	Noise     float64 `yaml:"noise"`
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Position        Vec3    `yaml:"position"`
	Target          Vec3    `yaml:"target"`
	Fov             float64 `yaml:"fov"`
	MinPolar        float64 `yaml:"min_polar"`
	MaxPolar        float64 `yaml:"max_polar"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"`
	Damping         float64 `yaml:"damping"`
}

// GreetingConfig selects and tunes the greeting provider.
type GreetingConfig struct {
	Provider string  `yaml:"provider"` // static | file
	Path     string  `yaml:"path"`
	Timeout  float64 `yaml:"timeout"` // Seconds
}

// OverlayConfig holds UI timing.
type OverlayConfig struct {
	LoadingDuration float64 `yaml:"loading_duration"`
	FadeDuration    float64 `yaml:"fade_duration"`
	CardFade        float64 `yaml:"card_fade"`
}

// AudioConfig holds the greeting chime settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	ConvergedEpsilon    float64 `yaml:"converged_epsilon"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette      []color.RGBA // Parsed Palette, duplicates preserved
	Background   color.RGBA
	Lights       []color.RGBA // Parsed Lighting.Lights colours, same order
	SparkleColor []color.RGBA // Parsed Sparkles colours, same order
	FloorColor   color.RGBA
	CoreColor    color.RGBA
	StarColor    color.RGBA
	RayColor     color.RGBA
	ScreenW32    float32
	ScreenH32    float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the scene cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Field.Count <= 0:
		return fmt.Errorf("%w: field.count must be positive, got %d", ErrInvalidConfig, c.Field.Count)
	case c.Field.ScatterRadius <= 0:
		return fmt.Errorf("%w: field.scatter_radius must be positive", ErrInvalidConfig)
	case c.Field.ScatterInner < 0 || c.Field.ScatterInner > 1:
		return fmt.Errorf("%w: field.scatter_inner must be in [0, 1]", ErrInvalidConfig)
	case c.Field.HeightBias <= 0:
		return fmt.Errorf("%w: field.height_bias must be positive", ErrInvalidConfig)
	case c.Field.BlockChance < 0 || c.Field.BlockChance > 1:
		return fmt.Errorf("%w: field.block_chance must be in [0, 1]", ErrInvalidConfig)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	case len(c.Palette) > math.MaxUint8+1:
		return fmt.Errorf("%w: palette has %d colours, max %d", ErrInvalidConfig, len(c.Palette), math.MaxUint8+1)
	case c.Animation.LerpSpeed <= 0:
		return fmt.Errorf("%w: animation.lerp_speed must be positive", ErrInvalidConfig)
	case c.Camera.MinPolar > c.Camera.MaxPolar:
		return fmt.Errorf("%w: camera.min_polar exceeds camera.max_polar", ErrInvalidConfig)
	case c.Camera.MinDistance > c.Camera.MaxDistance:
		return fmt.Errorf("%w: camera.min_distance exceeds camera.max_distance", ErrInvalidConfig)
	}

	switch c.Greeting.Provider {
	case "static":
	case "file":
		if c.Greeting.Path == "" {
			return fmt.Errorf("%w: greeting.path is required for the file provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown greeting.provider %q", ErrInvalidConfig, c.Greeting.Provider)
	}

	for i, l := range c.Lighting.Lights {
		switch l.Kind {
		case "ambient", "spot", "point":
		default:
			return fmt.Errorf("%w: lighting.lights[%d]: unknown kind %q", ErrInvalidConfig, i, l.Kind)
		}
	}
	for i, s := range c.Sparkles {
		if s.Count < 0 {
			return fmt.Errorf("%w: sparkles[%d]: negative count", ErrInvalidConfig, i)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived = DerivedConfig{
		ScreenW32: float32(c.Screen.Width),
		ScreenH32: float32(c.Screen.Height),
	}

	var err error
	c.Derived.Palette = make([]color.RGBA, len(c.Palette))
	for i, hex := range c.Palette {
		if c.Derived.Palette[i], err = ParseHex(hex); err != nil {
			return fmt.Errorf("%w: palette[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	c.Derived.Lights = make([]color.RGBA, len(c.Lighting.Lights))
	for i, l := range c.Lighting.Lights {
		if c.Derived.Lights[i], err = ParseHex(l.Color); err != nil {
			return fmt.Errorf("%w: lighting.lights[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	c.Derived.SparkleColor = make([]color.RGBA, len(c.Sparkles))
	for i, s := range c.Sparkles {
		if c.Derived.SparkleColor[i], err = ParseHex(s.Color); err != nil {
			return fmt.Errorf("%w: sparkles[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	singles := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"screen.background", c.Screen.Background, &c.Derived.Background},
		{"lighting.floor.color", c.Lighting.Floor.Color, &c.Derived.FloorColor},
		{"topper.core_color", c.Topper.CoreColor, &c.Derived.CoreColor},
		{"topper.star_color", c.Topper.StarColor, &c.Derived.StarColor},
		{"topper.ray_color", c.Topper.RayColor, &c.Derived.RayColor},
	}
	for _, s := range singles {
		if *s.dst, err = ParseHex(s.hex); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, s.name, err)
		}
	}
	return nil
}

// ParseHex parses "#RRGGBB" (or "RRGGBB") into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
