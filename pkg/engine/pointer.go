package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PointerTracker follows the pointer over the image plane. It records the
// last UV under the pointer and drives the reveal radius on enter and exit.
type PointerTracker struct {
	uv      mgl32.Vec2
	hovered bool
	radius  *RevealRadius

	// OnEnter and OnLeave are optional hooks for hover transitions
	OnEnter func()
	OnLeave func()
}

// NewPointerTracker creates a tracker driving radius
func NewPointerTracker(radius *RevealRadius) *PointerTracker {
	return &PointerTracker{radius: radius}
}

// Move records the pointer position in image UV space
func (p *PointerTracker) Move(uv mgl32.Vec2) {
	p.uv = uv
}

// Over marks the pointer as entering the plane
func (p *PointerTracker) Over() {
	if p.hovered {
		return
	}
	p.hovered = true
	p.radius.Expand()
	if p.OnEnter != nil {
		p.OnEnter()
	}
}

// Out marks the pointer as leaving the plane. The last UV is kept so the
// collapsing radius stays where the pointer left.
func (p *PointerTracker) Out() {
	if !p.hovered {
		return
	}
	p.hovered = false
	p.radius.Collapse()
	if p.OnLeave != nil {
		p.OnLeave()
	}
}

// Update turns one frame's pick result into enter, move and exit events
func (p *PointerTracker) Update(hit bool, uv mgl32.Vec2) {
	if !hit {
		p.Out()
		return
	}
	p.Over()
	p.Move(uv)
}

// UV returns the last recorded pointer position
func (p *PointerTracker) UV() mgl32.Vec2 { return p.uv }

// Hovered reports whether the pointer is over the plane
func (p *PointerTracker) Hovered() bool { return p.hovered }
