package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"reveal/pkg/config"
)

// maxPitch keeps the orbit away from the poles where LookAt degenerates
const maxPitch = math32.Pi/2 - 0.01

// Ray is a half-line in world space
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// Camera is a perspective camera orbiting the origin
type Camera struct {
	fov      float32 // radians
	near     float32
	far      float32
	yaw      float32
	pitch    float32
	distance float32

	minDistance float32
	maxDistance float32
	rotateSpeed float32
	zoomSpeed   float32
}

// NewCamera creates a camera on the +Z axis looking at the origin
func NewCamera(cfg config.CameraConfig) *Camera {
	return &Camera{
		fov:         mgl32.DegToRad(cfg.FOV),
		near:        cfg.Near,
		far:         cfg.Far,
		distance:    cfg.Distance,
		minDistance: cfg.MinDistance,
		maxDistance: cfg.MaxDistance,
		rotateSpeed: cfg.RotateSpeed,
		zoomSpeed:   cfg.ZoomSpeed,
	}
}

// Rotate orbits by a pointer drag of (dx, dy) pixels
func (c *Camera) Rotate(dx, dy float32) {
	c.yaw -= dx * c.rotateSpeed
	c.pitch = mgl32.Clamp(c.pitch+dy*c.rotateSpeed, -maxPitch, maxPitch)
}

// Zoom dollies toward the origin for positive delta
func (c *Camera) Zoom(delta float32) {
	c.distance = mgl32.Clamp(c.distance-delta*c.zoomSpeed, c.minDistance, c.maxDistance)
}

// Distance returns the current distance to the orbit target
func (c *Camera) Distance() float32 { return c.distance }

// FOV returns the vertical field of view in degrees
func (c *Camera) FOV() float32 { return mgl32.RadToDeg(c.fov) }

// Eye returns the camera position
func (c *Camera) Eye() mgl32.Vec3 {
	cp := math32.Cos(c.pitch)
	return mgl32.Vec3{
		c.distance * cp * math32.Sin(c.yaw),
		c.distance * math32.Sin(c.pitch),
		c.distance * cp * math32.Cos(c.yaw),
	}
}

// View returns the world-to-camera matrix
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for a surface aspect ratio
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.fov, aspect, c.near, c.far)
}

// Ray returns the world-space ray through a window point. Window
// coordinates grow right and down, as GLFW reports them.
func (c *Camera) Ray(x, y float32, width, height int) Ray {
	if width <= 0 || height <= 0 {
		return Ray{Origin: c.Eye(), Dir: c.Eye().Mul(-1).Normalize()}
	}
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	inv := c.Projection(float32(width) / float32(height)).Mul4(c.View()).Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())

	return Ray{Origin: n, Dir: f.Sub(n).Normalize()}
}

// PickPlane intersects a ray with the z=0 image plane of size sx by sy
// centred on the origin. Only the front face (+Z) is pickable. uv runs
// from (0,0) bottom-left to (1,1) top-right.
func PickPlane(r Ray, sx, sy float32) (uv mgl32.Vec2, hit bool) {
	if sx <= 0 || sy <= 0 {
		return mgl32.Vec2{}, false
	}
	if r.Origin.Z() <= 0 || r.Dir.Z() >= 0 {
		return mgl32.Vec2{}, false
	}
	t := -r.Origin.Z() / r.Dir.Z()
	p := r.Origin.Add(r.Dir.Mul(t))

	lx := p.X() / sx
	ly := p.Y() / sy
	if lx < -0.5 || lx > 0.5 || ly < -0.5 || ly > 0.5 {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{lx + 0.5, ly + 0.5}, true
}
