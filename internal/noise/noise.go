// Package noise is a CPU mirror of the value noise used by the plane and
// post-processing shaders. Hash2 matches the GLSL hash, so CPU previews and
// the GPU output share the same pattern up to float precision.
package noise

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"reveal/internal/util"
)

// Layer is one noise octave: spatial size, temporal frequency and weight.
type Layer struct {
	Size   float32
	Freq   float32
	Factor float32
}

// Hash2 returns a pseudo-random value in [0, 1) for a 2D point,
// fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453).
func Hash2(x, y float32) float32 {
	return util.Fract(math32.Sin(x*12.9898+y*78.233) * 43758.5453)
}

// Value2D is smooth value noise in [0, 1) with Hermite interpolation
// between lattice hashes.
func Value2D(x, y float32) float32 {
	ix, iy := math32.Floor(x), math32.Floor(y)
	fx, fy := x-ix, y-iy

	// Hermite curve, same as smoothstep(0, 1, f)
	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	a := Hash2(ix, iy)
	b := Hash2(ix+1, iy)
	c := Hash2(ix, iy+1)
	d := Hash2(ix+1, iy+1)

	return util.Mix(util.Mix(a, b, ux), util.Mix(c, d, ux), uy)
}

// Layered sums octaves at (u, v) and time t, normalised by the total
// weight. The first layer always weighs 1 regardless of its Factor.
func Layered(u, v, t float32, layers ...Layer) float32 {
	if len(layers) == 0 {
		return 0
	}
	var sum, weight float32
	for i, l := range layers {
		w := l.Factor
		if i == 0 {
			w = 1
		}
		sum += w * Value2D(u*l.Size+t*l.Freq, v*l.Size+t*l.Freq)
		weight += w
	}
	if weight <= 0 {
		return 0
	}
	return sum / weight
}

// GrainImage builds a square single-channel tile of hashed noise used as
// the film grain texture. Different seeds yield different tiles.
func GrainImage(size int, seed int64) *image.Gray {
	if size <= 0 {
		size = 1
	}
	img := image.NewGray(image.Rect(0, 0, size, size))
	off := float32(seed%9973) * 0.618
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			h := Hash2(float32(x)+off, float32(y)-off)
			img.SetGray(x, y, color.Gray{Y: uint8(h * 255)})
		}
	}
	return img
}
