package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	flag "github.com/spf13/pflag"

	"reveal/internal/logger"
	"reveal/pkg/config"
	"reveal/pkg/engine"
	"reveal/pkg/preview"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "Path to configuration file")
	imagePath := flag.StringP("image", "i", "", "Image to display, overrides the configuration")
	logLevel := flag.StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	previewPath := flag.String("preview", "", "Render one frame on the CPU to this file and exit")
	previewTime := flag.Float32("preview-time", 0, "Scene time in seconds for --preview")
	previewMouse := flag.Float32Slice("preview-mouse", nil, "Pointer UV for --preview, e.g. 0.5,0.5; omit for no reveal")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)
	if *imagePath != "" {
		cfg.Image.Path = *imagePath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfgErr != nil {
		log.Warnf("Using default configuration: %v", cfgErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *previewPath != "" {
		if err := renderPreview(cfg, *previewPath, *previewTime, *previewMouse); err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		log.Infof("Wrote preview to %s", *previewPath)
		return
	}

	log.Info("Starting reveal...")
	app, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	log.Info("Engine initialized, starting render loop...")
	app.Run()
}

// renderPreview draws a single frame without opening a window
func renderPreview(cfg *config.Config, path string, t float32, mouse []float32) error {
	asset, err := engine.LoadImage(cfg.Image.Path, cfg.Image.MaxSize)
	if err != nil {
		return err
	}

	u, err := previewUniforms(cfg, asset.Width, asset.Height, t, mouse)
	if err != nil {
		return err
	}
	return preview.Save(preview.Render(asset.Source, u, cfg.Post), path)
}

// previewUniforms builds the shader inputs for one still frame, clamping
// parameters the way the interactive scene does. A readable params file
// overrides the configured effect.
func previewUniforms(cfg *config.Config, width, height int, t float32, mouse []float32) (*engine.Uniforms, error) {
	params := engine.NewParams(cfg.Effect)
	if cfg.Panel.ParamsFile != "" {
		if effect, err := config.LoadEffect(cfg.Panel.ParamsFile, params.Effect()); err == nil {
			params.Apply(effect)
		}
	}

	var uv mgl32.Vec2
	var radius float32
	switch len(mouse) {
	case 0:
	case 2:
		uv = mgl32.Vec2{mouse[0], mouse[1]}
		radius = cfg.Reveal.MaxRadius
	default:
		return nil, fmt.Errorf("--preview-mouse wants two values, got %d", len(mouse))
	}

	u := engine.NewUniforms(width, height)
	u.Sync(params, uv, t, radius)
	return u, nil
}
