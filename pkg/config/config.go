package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window WindowConfig `yaml:"window"`
	Image  ImageConfig  `yaml:"image"`
	Camera CameraConfig `yaml:"camera"`
	Plane  PlaneConfig  `yaml:"plane"`
	Reveal RevealConfig `yaml:"reveal"`
	Effect EffectConfig `yaml:"effect"`
	Post   PostConfig   `yaml:"post"`
	Panel  PanelConfig  `yaml:"panel"`
	Log    LogConfig    `yaml:"log"`
}

// WindowConfig contains window and frame pacing settings
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FrameRate  int    `yaml:"framerate"` // 0 disables the frame cap
}

// ImageConfig points at the displayed raster image
type ImageConfig struct {
	Path    string `yaml:"path"`
	MaxSize int    `yaml:"max_size"` // long edge in pixels, 0 keeps the original size
}

// CameraConfig describes the perspective camera and its orbit limits
type CameraConfig struct {
	FOV         float32 `yaml:"fov"` // vertical, degrees
	Distance    float32 `yaml:"distance"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Orbit       bool    `yaml:"orbit"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	RotateSpeed float32 `yaml:"rotate_speed"` // radians per pixel dragged
	ZoomSpeed   float32 `yaml:"zoom_speed"`
}

// PlaneConfig controls how the image plane fits the viewport
type PlaneConfig struct {
	SizeScale float32 `yaml:"size_scale"` // fraction of the visible viewport
}

// RevealConfig controls the hover radius animation
type RevealConfig struct {
	MaxRadius        float32 `yaml:"max_radius"`
	AngularFrequency float64 `yaml:"angular_frequency"`
	Damping          float64 `yaml:"damping"`
}

// EffectConfig holds the live-tunable shader parameters
type EffectConfig struct {
	Blur          float32 `yaml:"blur"`
	BlurIntensity float32 `yaml:"blur_intensity"`
	Threshold     float32 `yaml:"threshold"`
	Softness      float32 `yaml:"softness"`
	Noise1Size    float32 `yaml:"noise1_size"`
	Noise1Freq    float32 `yaml:"noise1_freq"`
	Noise2Size    float32 `yaml:"noise2_size"`
	Noise2Freq    float32 `yaml:"noise2_freq"`
	Noise2Factor  float32 `yaml:"noise2_factor"`
	Noise3Size    float32 `yaml:"noise3_size"`
	Noise3Freq    float32 `yaml:"noise3_freq"`
	Noise3Factor  float32 `yaml:"noise3_factor"`
}

// PostConfig contains the film noise and vignette settings
type PostConfig struct {
	Enabled          bool    `yaml:"enabled"`
	NoiseOpacity     float32 `yaml:"noise_opacity"`
	VignetteOffset   float32 `yaml:"vignette_offset"`
	VignetteDarkness float32 `yaml:"vignette_darkness"`
	ClearColor       string  `yaml:"clear_color"` // hex, e.g. "#999999"
	GrainSize        int     `yaml:"grain_size"`
}

// PanelConfig contains the settings panel options
type PanelConfig struct {
	ParamsFile string `yaml:"params_file"`
	Watch      bool   `yaml:"watch"`
}

// LogConfig contains logging options
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultEffect returns the initial tuning of the distortion shader
func DefaultEffect() EffectConfig {
	return EffectConfig{
		Blur:          0.8,
		BlurIntensity: 4.6,
		Threshold:     0.4,
		Softness:      0.2,
		Noise1Size:    10,
		Noise1Freq:    0.3,
		Noise2Size:    20,
		Noise2Freq:    0.02,
		Noise2Factor:  0.75,
		Noise3Size:    150,
		Noise3Freq:    0.15,
		Noise3Factor:  0.1,
	}
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     800,
			Title:      "reveal",
			Fullscreen: false,
			VSync:      true,
			FrameRate:  60,
		},
		Image: ImageConfig{
			Path:    "assets/img1.jpg",
			MaxSize: 2048,
		},
		Camera: CameraConfig{
			FOV:         75,
			Distance:    5,
			Near:        0.1,
			Far:         1000,
			Orbit:       true,
			MinDistance: 1,
			MaxDistance: 20,
			RotateSpeed: 0.005,
			ZoomSpeed:   0.5,
		},
		Plane: PlaneConfig{
			SizeScale: 0.8,
		},
		Reveal: RevealConfig{
			MaxRadius:        0.1,
			AngularFrequency: 13,
			Damping:          1,
		},
		Effect: DefaultEffect(),
		Post: PostConfig{
			Enabled:          true,
			NoiseOpacity:     0.1,
			VignetteOffset:   0.2,
			VignetteDarkness: 0.7,
			ClearColor:       "#999999",
			GrainSize:        256,
		},
		Panel: PanelConfig{
			ParamsFile: "params.yaml",
			Watch:      true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. The defaults are returned
// alongside any error so callers can continue with them.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate reports every out-of-range setting at once
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FrameRate >= 0, "window: framerate must not be negative, got %d", c.Window.FrameRate)
	check(c.Image.Path != "", "image: path is required")
	check(c.Image.MaxSize >= 0, "image: max_size must not be negative, got %d", c.Image.MaxSize)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera: fov must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera: need 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Distance > c.Camera.Near, "camera: distance %v must exceed near plane %v", c.Camera.Distance, c.Camera.Near)
	check(c.Camera.MinDistance > 0 && c.Camera.MaxDistance >= c.Camera.MinDistance,
		"camera: need 0 < min_distance <= max_distance, got %v/%v", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Plane.SizeScale > 0 && c.Plane.SizeScale <= 1, "plane: size_scale must be in (0, 1], got %v", c.Plane.SizeScale)
	check(c.Reveal.MaxRadius >= 0, "reveal: max_radius must not be negative, got %v", c.Reveal.MaxRadius)
	check(c.Reveal.AngularFrequency > 0, "reveal: angular_frequency must be positive, got %v", c.Reveal.AngularFrequency)
	check(c.Reveal.Damping >= 0, "reveal: damping must not be negative, got %v", c.Reveal.Damping)
	check(c.Post.NoiseOpacity >= 0 && c.Post.NoiseOpacity <= 1, "post: noise_opacity must be in [0, 1], got %v", c.Post.NoiseOpacity)
	check(c.Post.GrainSize > 0, "post: grain_size must be positive, got %d", c.Post.GrainSize)
	if _, err := ParseColor(c.Post.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("post: %w", err))
	}

	return errors.Join(errs...)
}

// ParseColor converts a hex color string into RGB floats in [0, 1]
func ParseColor(hex string) ([3]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// ErrEmptyParams is returned by LoadEffect for a file with no content,
// which is also what a reader sees between truncate and write
var ErrEmptyParams = errors.New("params file is empty")

// LoadEffect reads a standalone parameter file. Keys absent from the file
// keep the values of base.
func LoadEffect(filePath string, base EffectConfig) (EffectConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return base, fmt.Errorf("error reading params: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return base, fmt.Errorf("%w: %s", ErrEmptyParams, filePath)
	}

	effect := base
	if err := yaml.UnmarshalStrict(data, &effect); err != nil {
		return base, fmt.Errorf("error parsing params %s: %w", filePath, err)
	}
	return effect, nil
}

// SaveEffect writes the parameter set to a standalone file
func SaveEffect(effect EffectConfig, filePath string) error {
	data, err := yaml.Marshal(effect)
	if err != nil {
		return fmt.Errorf("error serializing params: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing params file: %w", err)
	}
	return nil
}
