package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(0.8), cfg.Plane.SizeScale)
	assert.Equal(t, float32(0.1), cfg.Reveal.MaxRadius)
	assert.Equal(t, float32(0.1), cfg.Post.NoiseOpacity)
	assert.Equal(t, float32(0.2), cfg.Post.VignetteOffset)
	assert.Equal(t, float32(0.7), cfg.Post.VignetteDarkness)
	assert.Equal(t, DefaultEffect(), cfg.Effect)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
window:
  width: 640
  height: 480
effect:
  blur: 2.5
  noise3_factor: 0.4
post:
  enabled: false
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, float32(2.5), cfg.Effect.Blur)
	assert.Equal(t, float32(0.4), cfg.Effect.Noise3Factor)
	assert.False(t, cfg.Post.Enabled)

	// untouched keys keep their defaults
	assert.Equal(t, float32(4.6), cfg.Effect.BlurIntensity)
	assert.Equal(t, float32(75), cfg.Camera.FOV)
}

func TestLoadConfigParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0644))

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Effect.Softness = 0.55
	cfg.Image.Path = "other.png"

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"window size", func(c *Config) { c.Window.Width = 0 }, "window: size"},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }, "camera: fov"},
		{"near far", func(c *Config) { c.Camera.Far = 0.01 }, "near < far"},
		{"size scale", func(c *Config) { c.Plane.SizeScale = 1.5 }, "plane: size_scale"},
		{"image path", func(c *Config) { c.Image.Path = "" }, "image: path"},
		{"noise opacity", func(c *Config) { c.Post.NoiseOpacity = 2 }, "noise_opacity"},
		{"clear color", func(c *Config) { c.Post.ClearColor = "grey" }, "invalid color"},
		{"spring", func(c *Config) { c.Reveal.AngularFrequency = 0 }, "angular_frequency"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = -1
	cfg.Plane.SizeScale = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window")
	assert.Contains(t, err.Error(), "plane")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#999999")
	require.NoError(t, err)
	for _, v := range c {
		assert.InDelta(t, 0.6, v, 1e-6)
	}

	_, err = ParseColor("#12")
	assert.Error(t, err)
}

func TestEffectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	effect := DefaultEffect()
	effect.Threshold = 0.9
	require.NoError(t, SaveEffect(effect, path))

	loaded, err := LoadEffect(path, DefaultEffect())
	require.NoError(t, err)
	assert.Equal(t, effect, loaded)

	t.Run("partial file keeps base values", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("blur: 3\n"), 0644))
		loaded, err := LoadEffect(path, DefaultEffect())
		require.NoError(t, err)
		assert.Equal(t, float32(3), loaded.Blur)
		assert.Equal(t, DefaultEffect().Softness, loaded.Softness)
	})

	t.Run("empty file is not an update", func(t *testing.T) {
		for _, content := range []string{"", "  \n\t\n"} {
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			base := DefaultEffect()
			base.Blur = 6
			loaded, err := LoadEffect(path, base)
			assert.ErrorIs(t, err, ErrEmptyParams)
			assert.Equal(t, base, loaded)
		}
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("blurr: 3\n"), 0644))
		base := DefaultEffect()
		loaded, err := LoadEffect(path, base)
		require.Error(t, err)
		assert.Equal(t, base, loaded)
	})
}
