package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// inputSource is the part of *glfw.Window the input handler polls
type inputSource interface {
	GetKey(key glfw.Key) glfw.Action
	GetMouseButton(button glfw.MouseButton) glfw.Action
	GetCursorPos() (x, y float64)
}

// trackedKeys are the keys the scene reacts to
var trackedKeys = []glfw.Key{
	glfw.KeyEscape,
	glfw.KeyUp,
	glfw.KeyDown,
	glfw.KeyLeft,
	glfw.KeyRight,
	glfw.KeyLeftShift,
	glfw.KeyRightShift,
	glfw.KeyR,
	glfw.KeyBackspace,
	glfw.KeyS,
	glfw.KeyP,
}

// InputHandler polls keyboard and mouse state once per frame so callers
// can ask for edges (pressed this frame) as well as levels (held)
type InputHandler struct {
	source            inputSource
	currentKeys       map[glfw.Key]bool
	previousKeys      map[glfw.Key]bool
	currentMousePos   [2]float64
	previousMousePos  [2]float64
	currentMouseBtns  map[glfw.MouseButton]bool
	previousMouseBtns map[glfw.MouseButton]bool
	mouseDelta        [2]float64
	mouseWheelDelta   float64
	cursorInside      bool
	primed            bool
}

// NewInputHandler creates an input handler for window and hooks its
// scroll and cursor-enter callbacks
func NewInputHandler(window *glfw.Window) *InputHandler {
	handler := newInputHandler(window)
	handler.cursorInside = window.GetAttrib(glfw.Hovered) == glfw.True
	window.SetScrollCallback(func(_ *glfw.Window, _, yoffset float64) {
		handler.AddScroll(yoffset)
	})
	window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		handler.SetCursorInside(entered)
	})
	return handler
}

func newInputHandler(source inputSource) *InputHandler {
	return &InputHandler{
		source:            source,
		currentKeys:       make(map[glfw.Key]bool),
		previousKeys:      make(map[glfw.Key]bool),
		currentMouseBtns:  make(map[glfw.MouseButton]bool),
		previousMouseBtns: make(map[glfw.MouseButton]bool),
		cursorInside:      true,
	}
}

// Update snapshots the input state for this frame
func (ih *InputHandler) Update() {
	for k, v := range ih.currentKeys {
		ih.previousKeys[k] = v
	}
	for b, v := range ih.currentMouseBtns {
		ih.previousMouseBtns[b] = v
	}

	ih.previousMousePos = ih.currentMousePos
	x, y := ih.source.GetCursorPos()
	ih.currentMousePos = [2]float64{x, y}

	// no delta on the first frame, the previous position is unknown
	if ih.primed {
		ih.mouseDelta[0] = ih.currentMousePos[0] - ih.previousMousePos[0]
		ih.mouseDelta[1] = ih.currentMousePos[1] - ih.previousMousePos[1]
	}
	ih.primed = true

	for _, key := range trackedKeys {
		ih.currentKeys[key] = ih.source.GetKey(key) == glfw.Press
	}
	for btn := glfw.MouseButton1; btn <= glfw.MouseButton3; btn++ {
		ih.currentMouseBtns[btn] = ih.source.GetMouseButton(btn) == glfw.Press
	}
}

// IsKeyDown reports whether key is held
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsShiftDown reports whether either shift key is held
func (ih *InputHandler) IsShiftDown() bool {
	return ih.currentKeys[glfw.KeyLeftShift] || ih.currentKeys[glfw.KeyRightShift]
}

// IsMouseButtonDown reports whether button is held
func (ih *InputHandler) IsMouseButtonDown(button glfw.MouseButton) bool {
	return ih.currentMouseBtns[button]
}

// SetCursorInside records the pointer entering or leaving the window
func (ih *InputHandler) SetCursorInside(inside bool) {
	ih.cursorInside = inside
}

// Cursor returns the pointer position and whether it is in the window.
// Some platforms keep reporting the last position after the pointer has
// left, so Inside is what callers should trust.
func (ih *InputHandler) Cursor() Cursor {
	return Cursor{X: ih.currentMousePos[0], Y: ih.currentMousePos[1], Inside: ih.cursorInside}
}

// MouseDelta returns the cursor movement since the previous frame
func (ih *InputHandler) MouseDelta() [2]float64 {
	return ih.mouseDelta
}

// AddScroll accumulates wheel movement until the next MouseWheelDelta
func (ih *InputHandler) AddScroll(y float64) {
	ih.mouseWheelDelta += y
}

// MouseWheelDelta returns and clears the accumulated wheel movement
func (ih *InputHandler) MouseWheelDelta() float64 {
	delta := ih.mouseWheelDelta
	ih.mouseWheelDelta = 0
	return delta
}
