package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newTestRadius() *RevealRadius {
	return NewRevealRadius(0.1, 120, 13, 1)
}

func TestRevealRadiusStartsAtRest(t *testing.T) {
	r := newTestRadius()
	assert.Equal(t, float32(0), r.Value())
	assert.True(t, r.Settled())
	assert.Equal(t, float32(0), r.Advance(frame))
}

func TestRevealRadiusExpandIsMonotonic(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	require.Equal(t, r.Max(), r.Target())

	prev := r.Value()
	for i := 0; i < 180; i++ {
		v := r.Advance(frame)
		assert.GreaterOrEqual(t, v, prev, "frame %d", i)
		assert.LessOrEqual(t, v, r.Max())
		prev = v
	}
	assert.InDelta(t, 0.1, r.Value(), 1e-4)
}

func TestRevealRadiusCollapseIsMonotonic(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	for i := 0; i < 300; i++ {
		r.Advance(frame)
	}
	require.True(t, r.Settled())

	r.Collapse()
	prev := r.Value()
	for i := 0; i < 180; i++ {
		v := r.Advance(frame)
		assert.LessOrEqual(t, v, prev, "frame %d", i)
		assert.GreaterOrEqual(t, v, float32(0))
		prev = v
	}
	assert.InDelta(t, 0, r.Value(), 1e-4)
}

func TestRevealRadiusReversesMidFlight(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	for i := 0; i < 4; i++ {
		r.Advance(frame)
	}
	require.False(t, r.Settled())

	r.Collapse()
	prev := r.Value()
	for i := 0; i < 180; i++ {
		v := r.Advance(frame)
		require.LessOrEqual(t, v, prev, "rose after collapse at frame %d", i)
		prev = v
	}
	assert.InDelta(t, 0, r.Value(), 1e-4)

	r.Expand()
	for i := 0; i < 4; i++ {
		r.Advance(frame)
	}
	r.Collapse()
	for i := 0; i < 3; i++ {
		r.Advance(frame)
	}
	require.False(t, r.Settled())

	r.Expand()
	prev = r.Value()
	for i := 0; i < 180; i++ {
		v := r.Advance(frame)
		require.GreaterOrEqual(t, v, prev, "fell after expand at frame %d", i)
		prev = v
	}
	assert.InDelta(t, 0.1, r.Value(), 1e-4)
}

func TestRevealRadiusSetTargetNeverOvershoots(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	for i := 0; i < 6; i++ {
		r.Advance(frame)
	}
	// moving up fast, then asked to stop just ahead
	target := r.Value() + 0.001
	r.SetTarget(target)
	for i := 0; i < 120; i++ {
		assert.LessOrEqual(t, r.Advance(frame), target+1e-6, "frame %d", i)
	}
}

func TestRevealRadiusIsEased(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	v := r.Advance(frame)
	assert.Greater(t, v, float32(0))
	assert.Less(t, v, float32(0.05), "radius must not jump to the target")
}

func TestRevealRadiusAccumulatesShortFrames(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	// shorter than one spring step: nothing happens yet
	assert.Equal(t, float32(0), r.Advance(1.0/240))
	assert.Greater(t, r.Advance(1.0/240), float32(0))
}

func TestRevealRadiusClampsStall(t *testing.T) {
	r := newTestRadius()
	r.Expand()
	v := r.Advance(10)
	assert.LessOrEqual(t, v, r.Max())
	assert.Less(t, r.pending, r.step)
}

func TestRevealRadiusSetTargetClamps(t *testing.T) {
	r := newTestRadius()
	r.SetTarget(5)
	assert.Equal(t, r.Max(), r.Target())
	r.SetTarget(-1)
	assert.Equal(t, float32(0), r.Target())
}
