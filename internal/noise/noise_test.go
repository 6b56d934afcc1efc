package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash2Range(t *testing.T) {
	for y := float32(-20); y < 20; y += 0.37 {
		for x := float32(-20); x < 20; x += 0.41 {
			h := Hash2(x, y)
			assert.GreaterOrEqual(t, h, float32(0))
			assert.Less(t, h, float32(1))
		}
	}
}

func TestValue2DMatchesLattice(t *testing.T) {
	// on integer coordinates value noise is exactly the lattice hash
	for _, p := range [][2]float32{{0, 0}, {3, 7}, {-2, 5}} {
		assert.InDelta(t, Hash2(p[0], p[1]), Value2D(p[0], p[1]), 1e-6)
	}
}

func TestValue2DContinuous(t *testing.T) {
	const eps = 1e-3
	for x := float32(0.1); x < 5; x += 0.7 {
		a := Value2D(x, 1.3)
		b := Value2D(x+eps, 1.3)
		assert.InDelta(t, a, b, 0.05)
	}
}

func TestLayered(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, float32(0), Layered(0.5, 0.5, 0))
	})

	t.Run("single layer equals value noise", func(t *testing.T) {
		l := Layer{Size: 10, Freq: 0.3, Factor: 0}
		want := Value2D(0.25*10+2*0.3, 0.75*10+2*0.3)
		assert.InDelta(t, want, Layered(0.25, 0.75, 2, l), 1e-6)
	})

	t.Run("stays in unit range", func(t *testing.T) {
		layers := []Layer{{10, 0.3, 0}, {20, 0.02, 0.75}, {150, 0.15, 0.1}}
		for v := float32(0); v <= 1; v += 0.05 {
			for u := float32(0); u <= 1; u += 0.05 {
				n := Layered(u, v, 1.5, layers...)
				assert.GreaterOrEqual(t, n, float32(0))
				assert.LessOrEqual(t, n, float32(1))
			}
		}
	})
}

func TestGrainImage(t *testing.T) {
	a := GrainImage(16, 1)
	b := GrainImage(16, 2)
	assert.Equal(t, 16, a.Bounds().Dx())
	assert.Equal(t, 16, a.Bounds().Dy())
	assert.NotEqual(t, a.Pix, b.Pix)
	assert.Equal(t, a.Pix, GrainImage(16, 1).Pix)

	assert.Equal(t, 1, GrainImage(0, 0).Bounds().Dx())
}
