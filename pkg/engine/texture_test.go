package engine

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 64, A: 255})
		}
	}
	return img
}

func TestNewImageAssetFlips(t *testing.T) {
	src := gradientImage(8, 4)
	asset, err := NewImageAsset(src, 0)
	require.NoError(t, err)

	assert.Equal(t, 8, asset.Width)
	assert.Equal(t, 4, asset.Height)
	assert.Equal(t, float32(2), asset.Aspect())
	assert.Equal(t, src.NRGBAAt(3, 0), asset.Pixels.NRGBAAt(3, 3))
	assert.Equal(t, src.NRGBAAt(3, 0), asset.Source.NRGBAAt(3, 0))
}

func TestNewImageAssetShrinks(t *testing.T) {
	asset, err := NewImageAsset(gradientImage(400, 100), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, asset.Width)
	assert.Equal(t, 50, asset.Height)
}

func TestNewImageAssetEmpty(t *testing.T) {
	_, err := NewImageAsset(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0)
	assert.Error(t, err)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	require.NoError(t, imaging.Save(gradientImage(30, 20), path))

	asset, err := LoadImage(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, asset.Width)
	assert.Equal(t, 20, asset.Height)

	_, err = LoadImage(filepath.Join(dir, "missing.png"), 0)
	assert.Error(t, err)
}
