package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/config"
)

//go:embed shaders/post.fs
var postShader string

// PostRenderer darkens the corners and adds film grain over the finished
// frame.
type PostRenderer struct {
	shader        rl.Shader
	timeLoc       int32
	resolutionLoc int32
	vignetteLoc   int32
	noiseLoc      int32

	screenW, screenH float32
	vignette, noise  float32
	initialized      bool
}

// NewPostRenderer creates a post renderer for the given screen size.
func NewPostRenderer(screenW, screenH int32, glow config.GlowConfig) *PostRenderer {
	return &PostRenderer{
		screenW:  float32(screenW),
		screenH:  float32(screenH),
		vignette: float32(glow.Vignette),
		noise:    float32(glow.Noise),
	}
}

// Init compiles the shader (must be called after raylib window is created).
func (p *PostRenderer) Init() {
	if p.initialized {
		return
	}

	p.shader = rl.LoadShaderFromMemory("", postShader)
	p.timeLoc = rl.GetShaderLocation(p.shader, "time")
	p.resolutionLoc = rl.GetShaderLocation(p.shader, "resolution")
	p.vignetteLoc = rl.GetShaderLocation(p.shader, "vignette")
	p.noiseLoc = rl.GetShaderLocation(p.shader, "noise")

	rl.SetShaderValue(p.shader, p.vignetteLoc, []float32{p.vignette}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.noiseLoc, []float32{p.noise}, rl.ShaderUniformFloat)
	p.setResolution()

	p.initialized = true
}

// Resize updates the screen size after a window resize.
func (p *PostRenderer) Resize(screenW, screenH int32) {
	p.screenW, p.screenH = float32(screenW), float32(screenH)
	if p.initialized {
		p.setResolution()
	}
}

func (p *PostRenderer) setResolution() {
	rl.SetShaderValue(p.shader, p.resolutionLoc, []float32{p.screenW, p.screenH}, rl.ShaderUniformVec2)
}

// Draw overlays the vignette and grain. Call outside Mode3D.
func (p *PostRenderer) Draw(time float32) {
	if !p.initialized {
		p.Init()
	}

	rl.BeginShaderMode(p.shader)
	rl.SetShaderValue(p.shader, p.timeLoc, []float32{time}, rl.ShaderUniformFloat)
	rl.DrawRectangle(0, 0, int32(p.screenW), int32(p.screenH), rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (p *PostRenderer) Unload() {
	if p.initialized {
		rl.UnloadShader(p.shader)
		p.initialized = false
	}
}
