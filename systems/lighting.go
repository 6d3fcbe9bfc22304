package systems

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/config"
)

// LightKind identifies how a light contributes.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightSpot
	LightPoint
)

// Light is one entry in the rig. Colour channels are in [0, 1].
type Light struct {
	Kind      LightKind
	R, G, B   float64
	Intensity float64
	Position  r3.Vec
	Target    r3.Vec
	Angle     float64
	Penumbra  float64
	Distance  float64
}

// LightRig shades particle colours on the CPU. It is a stand-in for the
// engine's lighting: Lambert per light, exponential tone mapping.
type LightRig struct {
	Lights   []Light
	Exposure float64
}

// NewLightRig builds a rig from config. colors must be parallel to cfg.Lights.
// Spot lights aim at the origin.
func NewLightRig(cfg config.LightingConfig, colors []color.RGBA) LightRig {
	rig := LightRig{Exposure: cfg.Exposure, Lights: make([]Light, 0, len(cfg.Lights))}
	for i, lc := range cfg.Lights {
		l := Light{
			Intensity: lc.Intensity,
			Position:  r3.Vec{X: lc.Position.X, Y: lc.Position.Y, Z: lc.Position.Z},
			Angle:     lc.Angle,
			Penumbra:  lc.Penumbra,
			Distance:  lc.Distance,
		}
		if i < len(colors) {
			l.R = float64(colors[i].R) / 255
			l.G = float64(colors[i].G) / 255
			l.B = float64(colors[i].B) / 255
		}
		switch lc.Kind {
		case "spot":
			l.Kind = LightSpot
		case "point":
			l.Kind = LightPoint
		default:
			l.Kind = LightAmbient
		}
		rig.Lights = append(rig.Lights, l)
	}
	return rig
}

// Shade returns base lit at pos with surface normal n (unit length).
func (r *LightRig) Shade(pos, n r3.Vec, base color.RGBA) color.RGBA {
	var lr, lg, lb float64
	for i := range r.Lights {
		l := &r.Lights[i]
		w := l.Intensity * l.weight(pos, n)
		if w <= 0 {
			continue
		}
		lr += l.R * w
		lg += l.G * w
		lb += l.B * w
	}

	return color.RGBA{
		R: toneMap(float64(base.R)/255*lr, r.Exposure),
		G: toneMap(float64(base.G)/255*lg, r.Exposure),
		B: toneMap(float64(base.B)/255*lb, r.Exposure),
		A: base.A,
	}
}

// weight is the unscaled contribution of l at pos, in [0, 1].
func (l *Light) weight(pos, n r3.Vec) float64 {
	if l.Kind == LightAmbient {
		return 1
	}

	toLight := r3.Sub(l.Position, pos)
	dist := r3.Norm(toLight)
	if dist == 0 {
		return 1
	}
	dir := r3.Scale(1/dist, toLight)
	ndl := r3.Dot(n, dir)
	if ndl <= 0 {
		return 0
	}

	switch l.Kind {
	case LightPoint:
		if l.Distance > 0 {
			if dist >= l.Distance {
				return 0
			}
			ndl *= 1 - dist/l.Distance
		}
	case LightSpot:
		axis := r3.Sub(l.Target, l.Position)
		if r3.Norm(axis) == 0 {
			return 0
		}
		cosToPoint := r3.Dot(r3.Unit(axis), r3.Scale(-1, dir))
		outer := math.Cos(l.Angle)
		inner := math.Cos(l.Angle * (1 - l.Penumbra))
		ndl *= smoothstep(outer, inner, cosToPoint)
	}
	return ndl
}

// SurfaceNormal approximates a particle's normal as pointing away from the
// scene origin.
func SurfaceNormal(pos r3.Vec) r3.Vec {
	if r3.Norm(pos) < 1e-9 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(pos)
}

// Luminance returns the relative luminance of c in [0, 1].
func Luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func toneMap(v, exposure float64) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(math.Round(255 * (1 - math.Exp(-v*exposure))))
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x >= edge0 {
			return 1
		}
		return 0
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
