package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"reveal/pkg/config"
)

// UniformSink receives named shader inputs. The GL renderer implements it
// by forwarding to uniform locations; tests record the calls.
type UniformSink interface {
	SetFloat(name string, v float32)
	SetVec2(name string, v mgl32.Vec2)
}

// Uniforms is the complete input set of the plane's fragment shader
type Uniforms struct {
	Mouse      mgl32.Vec2
	Resolution mgl32.Vec2 // source image size in pixels
	Time       float32
	Radius     float32

	Effect config.EffectConfig
}

// NewUniforms creates uniforms for an image of the given pixel size
func NewUniforms(imageWidth, imageHeight int) *Uniforms {
	return &Uniforms{Resolution: mgl32.Vec2{float32(imageWidth), float32(imageHeight)}}
}

// Sync copies the per-frame state into the uniform set. It runs once per
// rendered frame before the draw call.
func (u *Uniforms) Sync(params *Params, mouse mgl32.Vec2, elapsed float32, radius float32) {
	u.Effect = params.Effect()
	u.Mouse = mouse
	u.Time = elapsed
	u.Radius = radius
}

// Upload pushes every uniform to sink under its GLSL name
func (u *Uniforms) Upload(sink UniformSink) {
	sink.SetVec2("uMouse", u.Mouse)
	sink.SetVec2("uResolution", u.Resolution)
	sink.SetFloat("uTime", u.Time)
	sink.SetFloat("uRadius", u.Radius)

	e := &u.Effect
	sink.SetFloat("uBlur", e.Blur)
	sink.SetFloat("uBlurIntensity", e.BlurIntensity)
	sink.SetFloat("uThreshold", e.Threshold)
	sink.SetFloat("uSoftness", e.Softness)
	sink.SetFloat("uNoise1Size", e.Noise1Size)
	sink.SetFloat("uNoise1Freq", e.Noise1Freq)
	sink.SetFloat("uNoise2Size", e.Noise2Size)
	sink.SetFloat("uNoise2Freq", e.Noise2Freq)
	sink.SetFloat("uNoise2Factor", e.Noise2Factor)
	sink.SetFloat("uNoise3Size", e.Noise3Size)
	sink.SetFloat("uNoise3Freq", e.Noise3Freq)
	sink.SetFloat("uNoise3Factor", e.Noise3Factor)
}

// uniformNames lists every name Upload writes, used to resolve locations
var uniformNames = []string{
	"uMouse", "uResolution", "uTime", "uRadius",
	"uBlur", "uBlurIntensity", "uThreshold", "uSoftness",
	"uNoise1Size", "uNoise1Freq",
	"uNoise2Size", "uNoise2Freq", "uNoise2Factor",
	"uNoise3Size", "uNoise3Freq", "uNoise3Factor",
}
