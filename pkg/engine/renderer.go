package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is everything a renderer needs to draw one frame
type Frame struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Uniforms   *Uniforms

	// Elapsed drives the post-processing grain, seconds since start
	Elapsed float32
	// Framebuffer size in pixels
	Width  int
	Height int
}

// Renderer defines the interface for the scene renderer
type Renderer interface {
	// Render draws the plane and applies post-processing
	Render(frame *Frame)

	// UpdateResolution resizes offscreen targets to the framebuffer size
	UpdateResolution(width, height int)

	// TogglePostProcessing enables or disables the film noise and vignette
	// pass and reports the new state
	TogglePostProcessing() bool

	// Close releases resources
	Close()
}
