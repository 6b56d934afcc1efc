package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"reveal/pkg/config"
)

// springStepsPerSecond is the fixed rate the reveal spring integrates at
const springStepsPerSecond = 120

// Scene holds the per-frame state of the image plane independent of any
// window or GL context
type Scene struct {
	Camera   *Camera
	Params   *Params
	Panel    *Panel
	Pointer  *PointerTracker
	Radius   *RevealRadius
	Uniforms *Uniforms

	imageAspect float32
	sizeScale   float32
	fitDistance float32
	elapsed     float64
}

// NewScene builds the scene for an image of width x height pixels
func NewScene(cfg *config.Config, width, height int) *Scene {
	radius := NewRevealRadius(cfg.Reveal.MaxRadius, springStepsPerSecond, cfg.Reveal.AngularFrequency, cfg.Reveal.Damping)
	params := NewParams(cfg.Effect)

	s := &Scene{
		Camera:      NewCamera(cfg.Camera),
		Params:      params,
		Panel:       NewPanel(params),
		Pointer:     NewPointerTracker(radius),
		Radius:      radius,
		Uniforms:    NewUniforms(width, height),
		sizeScale:   cfg.Plane.SizeScale,
		fitDistance: cfg.Camera.Distance,
	}
	if height > 0 {
		s.imageAspect = float32(width) / float32(height)
	}
	return s
}

// PlaneSize returns the plane's world size for a screen of aspect
func (s *Scene) PlaneSize(aspect float32) (sx, sy float32) {
	vp := ViewportAt(s.Camera.FOV(), s.fitDistance, aspect)
	return PlaneScale(vp, aspect, s.imageAspect, s.sizeScale)
}

// Cursor is the pointer in window coordinates, y down
type Cursor struct {
	X, Y float64
	// Inside is false while the pointer is outside the window
	Inside bool
}

// inWindow reports whether the cursor is over a winW x winH window
func (c Cursor) inWindow(winW, winH int) bool {
	return c.Inside && c.X >= 0 && c.Y >= 0 && c.X < float64(winW) && c.Y < float64(winH)
}

// Step advances the scene by dt seconds for a winW x winH window; the
// returned frame is ready to render. A cursor outside the window never
// hovers the plane, even where the plane extends past the window edge.
func (s *Scene) Step(dt float64, cursor Cursor, winW, winH int) *Frame {
	s.elapsed += dt

	var aspect float32
	if winH > 0 {
		aspect = float32(winW) / float32(winH)
	}
	sx, sy := s.PlaneSize(aspect)

	hit := false
	var uv mgl32.Vec2
	if cursor.inWindow(winW, winH) && sx > 0 {
		ray := s.Camera.Ray(float32(cursor.X), float32(cursor.Y), winW, winH)
		uv, hit = PickPlane(ray, sx, sy)
	}
	s.Pointer.Update(hit, uv)

	radius := s.Radius.Advance(dt)
	s.Uniforms.Sync(s.Params, s.Pointer.UV(), float32(s.elapsed), radius)

	return &Frame{
		Model:      mgl32.Scale3D(sx, sy, 1),
		View:       s.Camera.View(),
		Projection: s.Camera.Projection(aspect),
		Uniforms:   s.Uniforms,
		Elapsed:    float32(s.elapsed),
	}
}

// Elapsed returns the scene time in seconds
func (s *Scene) Elapsed() float64 { return s.elapsed }
