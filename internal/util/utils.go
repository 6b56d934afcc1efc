// Package util holds small scalar helpers shared by the engine and the CPU
// preview. The float32 helpers follow GLSL semantics so CPU code can mirror
// the shaders.
package util

import (
	"os"

	"github.com/chewxy/math32"
)

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Mix performs linear interpolation between a and b, like GLSL mix
func Mix(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Smoothstep is GLSL smoothstep. Equal edges act as a hard step at edge0.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Fract returns the fractional part of x, like GLSL fract
func Fract(x float32) float32 {
	f := x - math32.Floor(x)
	// tiny negative inputs round up to exactly 1 in float32
	if f >= 1 {
		return 0
	}
	return f
}

// Snap rounds value to the nearest multiple of step measured from origin.
// A non-positive step returns value unchanged.
func Snap(value, origin, step float32) float32 {
	if step <= 0 {
		return value
	}
	n := math32.Round((value - origin) / step)
	return origin + n*step
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
