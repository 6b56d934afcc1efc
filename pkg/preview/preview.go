// Package preview renders a single frame of the distortion effect on the
// CPU. It mirrors the plane and post-processing shaders closely enough to
// inspect a parameter set without a GL context; the variable-radius blur
// is approximated by mixing towards one Gaussian-blurred copy.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"github.com/go-gl/mathgl/mgl32"

	"reveal/internal/noise"
	"reveal/internal/util"
	"reveal/pkg/config"
	"reveal/pkg/engine"
)

// Layers returns the three noise octaves of a parameter set
func Layers(e config.EffectConfig) []noise.Layer {
	return []noise.Layer{
		{Size: e.Noise1Size, Freq: e.Noise1Freq, Factor: 1},
		{Size: e.Noise2Size, Freq: e.Noise2Freq, Factor: e.Noise2Factor},
		{Size: e.Noise3Size, Freq: e.Noise3Freq, Factor: e.Noise3Factor},
	}
}

// Reveal is 1 at the pointer and falls to 0 at the radius, with the edge
// perturbed by the noise value n
func Reveal(u *engine.Uniforms, uv mgl32.Vec2, n float32) float32 {
	if u.Radius <= 0 {
		return 0
	}
	aspect := u.Resolution.X() / max(u.Resolution.Y(), 1)
	dx := (uv.X() - u.Mouse.X()) * aspect
	dy := uv.Y() - u.Mouse.Y()
	d := math32.Sqrt(dx*dx+dy*dy) + (n-0.5)*u.Radius*0.5
	return 1 - util.Smoothstep(u.Radius*0.5, u.Radius, d)
}

// Effect returns the distortion strength at uv in [0, 1] and the layered
// noise value it was derived from
func Effect(u *engine.Uniforms, uv mgl32.Vec2) (effect, n float32) {
	e := u.Effect
	n = noise.Layered(uv.X(), uv.Y(), u.Time, Layers(e)...)
	strength := util.Smoothstep(e.Threshold-e.Softness*0.5, e.Threshold+e.Softness*0.5, n)
	return strength * (1 - Reveal(u, uv, n)), n
}

// Render produces the frame for src under u. src row 0 is the top of the
// image; uv (0,0) is its bottom-left corner, as on the GPU.
func Render(src *image.NRGBA, u *engine.Uniforms, post config.PostConfig) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	sigma := float64(u.Effect.Blur*u.Effect.BlurIntensity) / 2
	blurred := blur.Gaussian(src, sigma)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			uv := mgl32.Vec2{(float32(x) + 0.5) / float32(w), 1 - (float32(y)+0.5)/float32(h)}
			effect, n := Effect(u, uv)

			suv := uv.Add(mgl32.Vec2{n - 0.5, 0.5 - n}.Mul(0.02 * effect))
			sx, sy := texel(suv, w, h)

			sharp := rgb(src.At(b.Min.X+sx, b.Min.Y+sy))
			soft := rgb(blurred.At(blurred.Bounds().Min.X+sx, blurred.Bounds().Min.Y+sy))

			var c [3]float32
			for i := range c {
				c[i] = util.Mix(sharp[i], soft[i], effect)
			}
			if post.Enabled {
				c = Grain(c, x, y, u.Time, post.NoiseOpacity)
				c = Vignette(c, uv, post.VignetteOffset, post.VignetteDarkness)
			}

			_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetNRGBA(x, y, color.NRGBA{
				R: to8(c[0]),
				G: to8(c[1]),
				B: to8(c[2]),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// Grain screen-blends hashed film noise at opacity onto pixel (x, y)
func Grain(c [3]float32, x, y int, t, opacity float32) [3]float32 {
	frame := math32.Floor(t * 24)
	g := noise.Hash2(float32(x)+noise.Hash2(frame, 1)*97, float32(y)+noise.Hash2(frame, 2)*89)
	for i := range c {
		screened := 1 - (1-c[i])*(1-g)
		c[i] = util.Mix(c[i], screened, opacity)
	}
	return c
}

// Vignette darkens towards the corners like the post shader
func Vignette(c [3]float32, uv mgl32.Vec2, offset, darkness float32) [3]float32 {
	cx := (uv.X() - 0.5) * offset
	cy := (uv.Y() - 0.5) * offset
	t := cx*cx + cy*cy
	for i := range c {
		c[i] = util.Mix(c[i], 1-darkness, t)
	}
	return c
}

// Save writes img, picking the encoder from the file extension
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// texel maps uv to the nearest pixel, clamping at the edges
func texel(uv mgl32.Vec2, w, h int) (int, int) {
	x := int(util.Clamp(uv.X(), 0, 1) * float32(w))
	y := int((1 - util.Clamp(uv.Y(), 0, 1)) * float32(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}
	return x, y
}

func rgb(c color.Color) [3]float32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return [3]float32{float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255}
}

func to8(v float32) uint8 {
	return uint8(util.Clamp(v, 0, 1)*255 + 0.5)
}
