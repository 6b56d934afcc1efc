package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(-1, 0, 1))
	assert.Equal(t, float32(1), Clamp(2, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name            string
		edge0, edge1, x float32
		want            float32
	}{
		{"below", 0, 1, -1, 0},
		{"above", 0, 1, 2, 1},
		{"middle", 0, 1, 0.5, 0.5},
		{"hard step below", 0.3, 0.3, 0.2, 0},
		{"hard step at edge", 0.3, 0.3, 0.3, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Smoothstep(tc.edge0, tc.edge1, tc.x), 1e-6)
		})
	}
}

func TestMixAndFract(t *testing.T) {
	assert.InDelta(t, 2.5, Mix(2, 3, 0.5), 1e-6)
	assert.InDelta(t, 0.25, Fract(3.25), 1e-6)
	assert.InDelta(t, 0.75, Fract(-0.25), 1e-6)
}

func TestSnap(t *testing.T) {
	assert.InDelta(t, 0.8, Snap(0.804, 0, 0.01), 1e-6)
	assert.InDelta(t, 1.1, Snap(1.13, 1, 0.1), 1e-5)
	assert.Equal(t, float32(0.123), Snap(0.123, 0, 0))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	assert.False(t, FileExists(path))
	assert.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
}
