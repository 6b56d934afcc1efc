package engine

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// settleEpsilon is how close position and velocity must be to rest
const settleEpsilon = 1e-5

// RevealRadius eases the reveal radius toward a target with a damped
// spring. The spring runs at a fixed step; Advance feeds it wall time.
type RevealRadius struct {
	spring  harmonica.Spring
	step    float64
	pending float64

	pos    float64
	vel    float64
	target float64
	max    float64
	omega  float64
}

// NewRevealRadius creates a radius at rest at zero. stepsPerSecond sets
// the spring's fixed step; angularFrequency and damping are harmonica's.
func NewRevealRadius(maxRadius float32, stepsPerSecond int, angularFrequency, damping float64) *RevealRadius {
	if stepsPerSecond <= 0 {
		stepsPerSecond = 60
	}
	return &RevealRadius{
		spring: harmonica.NewSpring(harmonica.FPS(stepsPerSecond), angularFrequency, damping),
		step:   1 / float64(stepsPerSecond),
		max:    float64(maxRadius),
		omega:  angularFrequency,
	}
}

// SetTarget changes where the spring is heading
func (r *RevealRadius) SetTarget(target float32) {
	r.retarget(math.Max(0, math.Min(r.max, float64(target))))
}

// Expand heads toward the maximum radius
func (r *RevealRadius) Expand() { r.retarget(r.max) }

// Collapse heads toward zero
func (r *RevealRadius) Collapse() { r.retarget(0) }

// retarget keeps the approach to target monotonic: momentum pointing away
// is dropped, and momentum toward it is capped at omega*|distance|, the
// fastest a critically damped spring can move without overshooting.
func (r *RevealRadius) retarget(target float64) {
	r.target = target
	d := target - r.pos
	if r.vel*d < 0 {
		r.vel = 0
	}
	if limit := r.omega * math.Abs(d); math.Abs(r.vel) > limit {
		r.vel = math.Copysign(limit, r.vel)
	}
}

// Advance runs as many fixed spring steps as fit in dt plus leftovers
// from earlier calls, and returns the new value
func (r *RevealRadius) Advance(dt float64) float32 {
	if dt > 0 {
		r.pending += dt
	}
	// a stalled frame must not turn into thousands of steps
	if r.pending > 0.25 {
		r.pending = 0.25
	}
	for r.pending >= r.step {
		r.pos, r.vel = r.spring.Update(r.pos, r.vel, r.target)
		r.pending -= r.step
	}
	if r.Settled() {
		r.pos, r.vel = r.target, 0
	}
	return r.Value()
}

// Value returns the current radius clamped to [0, max]
func (r *RevealRadius) Value() float32 {
	return float32(math.Max(0, math.Min(r.max, r.pos)))
}

// Target returns where the radius is heading
func (r *RevealRadius) Target() float32 { return float32(r.target) }

// Max returns the configured maximum radius
func (r *RevealRadius) Max() float32 { return float32(r.max) }

// Settled reports whether the spring has come to rest at its target
func (r *RevealRadius) Settled() bool {
	return math.Abs(r.pos-r.target) < settleEpsilon && math.Abs(r.vel) < settleEpsilon
}
