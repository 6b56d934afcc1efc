package engine

import (
	"github.com/chewxy/math32"
)

// Viewport is the visible area in world units at some depth
type Viewport struct {
	Width  float32
	Height float32
}

// ViewportAt returns the visible area of a perspective camera at distance
// from the eye. fovDeg is the vertical field of view.
func ViewportAt(fovDeg, distance, aspect float32) Viewport {
	if fovDeg <= 0 || distance <= 0 || aspect <= 0 {
		return Viewport{}
	}
	h := 2 * math32.Tan(fovDeg*math32.Pi/180/2) * distance
	return Viewport{Width: h * aspect, Height: h}
}

// PlaneScale fits an image of imageAspect (width/height) into fraction of
// the viewport. When the screen is narrower than the image the width is
// the limiting side, otherwise the height is.
func PlaneScale(vp Viewport, aspect, imageAspect, fraction float32) (sx, sy float32) {
	if vp.Width <= 0 || vp.Height <= 0 || aspect <= 0 || imageAspect <= 0 || fraction <= 0 {
		return 0, 0
	}
	if aspect < imageAspect {
		sx = fraction * vp.Width
		sy = sx / imageAspect
	} else {
		sy = fraction * vp.Height
		sx = sy * imageAspect
	}
	return sx, sy
}
