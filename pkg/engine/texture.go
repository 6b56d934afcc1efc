package engine

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// extra decoders beyond the png/jpeg/gif that imaging pulls in
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageAsset is a decoded image ready for texture upload
type ImageAsset struct {
	// Pixels is flipped vertically so row 0 is the bottom, as GL expects
	Pixels *image.NRGBA
	// Source is the unflipped image, used by the CPU preview
	Source *image.NRGBA
	Width  int
	Height int
}

// Aspect returns width / height
func (a *ImageAsset) Aspect() float32 {
	if a.Height == 0 {
		return 0
	}
	return float32(a.Width) / float32(a.Height)
}

// LoadImage decodes the image at path, honouring EXIF orientation, and
// shrinks it so neither side exceeds maxSize. maxSize <= 0 keeps the
// original size.
func LoadImage(path string, maxSize int) (*ImageAsset, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return NewImageAsset(img, maxSize)
}

// NewImageAsset prepares an already decoded image
func NewImageAsset(img image.Image, maxSize int) (*ImageAsset, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("image is empty (%dx%d)", b.Dx(), b.Dy())
	}

	var src *image.NRGBA
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		src = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	} else {
		src = imaging.Clone(img)
	}

	return &ImageAsset{
		Pixels: imaging.FlipV(src),
		Source: src,
		Width:  src.Bounds().Dx(),
		Height: src.Bounds().Dy(),
	}, nil
}
