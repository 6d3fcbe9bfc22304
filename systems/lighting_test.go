package systems

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/config"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func TestShadeAmbientOnly(t *testing.T) {
	rig := LightRig{Exposure: 1, Lights: []Light{{Kind: LightAmbient, R: 1, G: 1, B: 1, Intensity: 1}}}

	got := rig.Shade(r3.Vec{X: 3}, r3.Vec{X: 1}, white)
	want := uint8(math.Round(255 * (1 - math.Exp(-1))))
	if got.R != want || got.G != want || got.B != want {
		t.Errorf("ambient shade = %+v, want %d on every channel", got, want)
	}
	if got.A != 255 {
		t.Errorf("alpha should pass through, got %d", got.A)
	}
}

func TestShadeNoLightIsBlack(t *testing.T) {
	rig := LightRig{Exposure: 1}
	if got := rig.Shade(r3.Vec{}, r3.Vec{Y: 1}, white); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("expected black with no lights, got %+v", got)
	}
}

func TestPointLightFalloff(t *testing.T) {
	l := Light{Kind: LightPoint, R: 1, G: 1, B: 1, Intensity: 1, Position: r3.Vec{X: 10}, Distance: 12}
	n := r3.Vec{X: 1}

	tests := []struct {
		name string
		pos  r3.Vec
		want float64
	}{
		{"close", r3.Vec{X: 7}, 1 - 3.0/12},
		{"at cutoff", r3.Vec{X: -2}, 0},
		{"beyond cutoff", r3.Vec{X: -5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.weight(tt.pos, n); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("weight = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBackFacingSurfaceUnlit(t *testing.T) {
	l := Light{Kind: LightPoint, R: 1, G: 1, B: 1, Intensity: 1, Position: r3.Vec{X: 10}}
	if w := l.weight(r3.Vec{}, r3.Vec{X: -1}); w != 0 {
		t.Errorf("back-facing weight = %f, want 0", w)
	}
}

func TestSpotCone(t *testing.T) {
	spot := Light{
		Kind: LightSpot, R: 1, G: 1, B: 1, Intensity: 1,
		Position: r3.Vec{Y: 10}, Target: r3.Vec{},
		Angle: 0.4, Penumbra: 0.3,
	}
	up := r3.Vec{Y: 1}

	if w := spot.weight(r3.Vec{}, up); math.Abs(w-1) > 1e-12 {
		t.Errorf("on-axis weight = %f, want 1", w)
	}
	// tan(0.4)*10 ~ 4.23, so x=6 is well outside the cone.
	if w := spot.weight(r3.Vec{X: 6}, up); w != 0 {
		t.Errorf("outside cone weight = %f, want 0", w)
	}
	edge := spot.weight(r3.Vec{X: 10 * math.Tan(0.34)}, up)
	if edge <= 0 || edge >= 1 {
		t.Errorf("penumbra weight = %f, want strictly between 0 and 1", edge)
	}
}

func TestNewLightRigFromDefaults(t *testing.T) {
	cfg := config.Default()
	rig := NewLightRig(cfg.Lighting, cfg.Derived.Lights)

	if len(rig.Lights) != len(cfg.Lighting.Lights) {
		t.Fatalf("rig has %d lights, want %d", len(rig.Lights), len(cfg.Lighting.Lights))
	}
	kinds := map[LightKind]int{}
	for _, l := range rig.Lights {
		kinds[l.Kind]++
	}
	if kinds[LightAmbient] != 1 || kinds[LightSpot] != 2 || kinds[LightPoint] != 1 {
		t.Errorf("unexpected light kinds %v", kinds)
	}

	// A gold particle at the front of the tree should be lit brighter than one
	// facing away from the key light.
	gold := color.RGBA{R: 255, G: 215, A: 255}
	front := r3.Vec{X: 2, Y: 1, Z: 2}
	back := r3.Vec{X: -2, Y: -2, Z: -2}
	lf := Luminance(rig.Shade(front, SurfaceNormal(front), gold))
	lb := Luminance(rig.Shade(back, SurfaceNormal(back), gold))
	if lf <= lb {
		t.Errorf("front luminance %f should exceed back %f", lf, lb)
	}
}

func TestSurfaceNormal(t *testing.T) {
	if n := SurfaceNormal(r3.Vec{}); n != (r3.Vec{Y: 1}) {
		t.Errorf("origin normal = %+v, want up", n)
	}
	if n := SurfaceNormal(r3.Vec{Z: -4}); math.Abs(n.Z+1) > 1e-12 {
		t.Errorf("normal = %+v, want -z", n)
	}
}
