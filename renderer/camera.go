package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tinsel/camera"
)

// Camera3D converts the orbit camera into a raylib camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(o.Eye()),
		Target:     vec3(o.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(o.Fov),
		Projection: rl.CameraPerspective,
	}
}

// screenProjector maps world points to pixels with the same projection the
// 3D pass uses, so 2D overlays line up with the meshes.
type screenProjector struct {
	cam   *camera.Orbit
	w, h  float64
	focal float64 // Pixels per world unit at depth 1
}

func newScreenProjector(cam *camera.Orbit, w, h int32) screenProjector {
	return screenProjector{
		cam:   cam,
		w:     float64(w),
		h:     float64(h),
		focal: float64(h) / 2 / math.Tan(cam.Fov*math.Pi/360),
	}
}

// project returns the pixel position of p and how many pixels one world unit
// spans there.
func (s screenProjector) project(p r3.Vec) (rl.Vector2, float32, bool) {
	x, y, depth, ok := s.cam.Project(p, s.w, s.h)
	if !ok {
		return rl.Vector2{}, 0, false
	}
	return rl.Vector2{X: float32(x), Y: float32(y)}, float32(s.focal / depth), true
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
