package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// Noise sampling constants for sparkle drift.
const (
	sparkleNoiseScale = 0.15
	sparkleTwinkle    = 4.0
)

// Per-axis offsets into the noise field so the three axes drift independently.
var sparkleAxisOffset = [3]float64{17.3, 41.7, 73.1}

// SparkleSample is one sparkle ready to draw.
type SparkleSample struct {
	X, Y, Z float32
	Size    float32
	Color   color.RGBA // Alpha already includes the twinkle
	Layer   uint8
}

type sparkleLayer struct {
	cfg     config.SparkleLayer
	color   color.RGBA
	visible bool
	origin  components.SparklePos
}

// SparkleSystem drifts small glints around the scene. Sparkles live in an ECS
// world so the renderers can iterate them without knowing the layers.
type SparkleSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.SparklePos, components.SparkleAnchor, components.Sparkle]
	filter *ecs.Filter3[components.SparklePos, components.SparkleAnchor, components.Sparkle]
	layers []sparkleLayer
	noise  opensimplex.Noise
	count  int
}

// NewSparkleSystem spawns every layer's sparkles at random anchors inside the
// layer box. colors must be parallel to layers.
func NewSparkleSystem(layers []config.SparkleLayer, colors []color.RGBA, rng *rand.Rand) *SparkleSystem {
	world := ecs.NewWorld()
	s := &SparkleSystem{
		world:  world,
		mapper: ecs.NewMap3[components.SparklePos, components.SparkleAnchor, components.Sparkle](world),
		filter: ecs.NewFilter3[components.SparklePos, components.SparkleAnchor, components.Sparkle](world),
		layers: make([]sparkleLayer, len(layers)),
		noise:  opensimplex.New(rng.Int63()),
	}

	for li, lc := range layers {
		s.layers[li] = sparkleLayer{cfg: lc, visible: !lc.FormedOnly}
		if li < len(colors) {
			s.layers[li].color = colors[li]
		}

		for j := 0; j < lc.Count; j++ {
			anchor := components.SparkleAnchor{
				X: float32((rng.Float64() - 0.5) * lc.Scale.X),
				Y: float32((rng.Float64() - 0.5) * lc.Scale.Y),
				Z: float32((rng.Float64() - 0.5) * lc.Scale.Z),
			}
			pos := components.SparklePos{X: anchor.X, Y: anchor.Y, Z: anchor.Z}
			sp := components.Sparkle{
				Layer: uint8(li),
				Size:  float32(lc.Size * (0.5 + rng.Float64()*0.5)),
				Phase: float32(rng.Float64() * 2 * math.Pi),
			}
			s.mapper.NewEntity(&pos, &anchor, &sp)
			s.count++
		}
	}
	return s
}

// Update drifts and twinkles every sparkle. Layers marked formed-only are
// hidden while scattered; follow-topper layers are centred on topper.
func (s *SparkleSystem) Update(frame components.Frame, mode components.Mode, topper r3.Vec) {
	t := frame.Elapsed
	for i := range s.layers {
		l := &s.layers[i]
		l.visible = !l.cfg.FormedOnly || mode == components.ModeFormed
		l.origin = components.SparklePos{}
		if l.cfg.FollowTop {
			l.origin = components.SparklePos{X: float32(topper.X), Y: float32(topper.Y), Z: float32(topper.Z)}
		}
	}

	query := s.filter.Query()
	for query.Next() {
		pos, anchor, sp := query.Get()
		l := &s.layers[sp.Layer]
		if !l.visible {
			sp.Alpha = 0
			continue
		}

		ax, ay, az := float64(anchor.X), float64(anchor.Y), float64(anchor.Z)
		shift := t * l.cfg.Speed
		nx := clampUnit(s.noise.Eval3(ax*sparkleNoiseScale+shift, ay*sparkleNoiseScale, az*sparkleNoiseScale+sparkleAxisOffset[0]))
		ny := clampUnit(s.noise.Eval3(ax*sparkleNoiseScale, ay*sparkleNoiseScale+shift, az*sparkleNoiseScale+sparkleAxisOffset[1]))
		nz := clampUnit(s.noise.Eval3(ax*sparkleNoiseScale+sparkleAxisOffset[2], ay*sparkleNoiseScale, az*sparkleNoiseScale+shift))

		pos.X = l.origin.X + anchor.X + float32(nx*l.cfg.Drift*l.cfg.Scale.X)
		pos.Y = l.origin.Y + anchor.Y + float32(ny*l.cfg.Drift*l.cfg.Scale.Y)
		pos.Z = l.origin.Z + anchor.Z + float32(nz*l.cfg.Drift*l.cfg.Scale.Z)

		sp.Alpha = float32(l.cfg.Opacity * (0.5 + 0.5*math.Sin(t*l.cfg.Speed*sparkleTwinkle+float64(sp.Phase))))
	}
}

// Visit calls fn for every visible sparkle.
func (s *SparkleSystem) Visit(fn func(SparkleSample)) {
	query := s.filter.Query()
	for query.Next() {
		pos, _, sp := query.Get()
		l := &s.layers[sp.Layer]
		if !l.visible || sp.Alpha <= 0 {
			continue
		}
		c := l.color
		c.A = uint8(clamp01(float64(sp.Alpha)) * 255)
		fn(SparkleSample{X: pos.X, Y: pos.Y, Z: pos.Z, Size: sp.Size, Color: c, Layer: sp.Layer})
	}
}

// LayerVisible reports whether layer i is currently shown.
func (s *SparkleSystem) LayerVisible(i int) bool {
	return i >= 0 && i < len(s.layers) && s.layers[i].visible
}

// Count returns the number of sparkles across all layers.
func (s *SparkleSystem) Count() int {
	return s.count
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
