package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"reveal/internal/logger"
	"reveal/internal/util"
	"reveal/pkg/config"
)

// Engine owns the window, the renderer and the frame loop
type Engine struct {
	window   *glfw.Window
	config   *config.Config
	logger   *logger.Logger
	renderer Renderer
	scene    *Scene
	input    *InputHandler
	watcher  *ParamsWatcher

	isRunning  bool
	lastUpdate time.Time
	frameRate  int
	title      string
}

// NewEngine opens the window, loads the image and builds the scene
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	asset, err := LoadImage(cfg.Image.Path, cfg.Image.MaxSize)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %s (%dx%d)", cfg.Image.Path, asset.Width, asset.Height)

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Window.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	renderer, err := NewOpenGLRenderer(cfg, asset, log, fbWidth, fbHeight)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	e := &Engine{
		window:    window,
		config:    cfg,
		logger:    log,
		renderer:  renderer,
		scene:     NewScene(cfg, asset.Width, asset.Height),
		input:     NewInputHandler(window),
		frameRate: cfg.Window.FrameRate,
	}

	e.scene.Panel.OnChange = func(name string, value float32) {
		log.Debugf("%s = %g", name, value)
	}
	e.scene.Pointer.OnEnter = func() { log.Debug("pointer entered image") }
	e.scene.Pointer.OnLeave = func() { log.Debug("pointer left image") }

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		e.renderer.UpdateResolution(width, height)
	})

	if cfg.Panel.Watch && cfg.Panel.ParamsFile != "" {
		if err := e.startWatcher(); err != nil {
			log.Warnf("Params file will not be reloaded: %v", err)
		}
	}

	return e, nil
}

// startWatcher seeds the params file if needed and follows edits to it
func (e *Engine) startWatcher() error {
	path := e.config.Panel.ParamsFile
	seed := !util.FileExists(path)
	if !seed {
		effect, err := config.LoadEffect(path, e.scene.Params.Effect())
		switch {
		case errors.Is(err, config.ErrEmptyParams):
			seed = true
		case err != nil:
			return err
		default:
			e.scene.Panel.Apply(effect)
		}
	}
	if seed {
		if err := e.scene.Panel.Save(path); err != nil {
			return err
		}
		e.logger.Infof("Wrote initial parameters to %s", path)
	}

	w, err := NewParamsWatcher(path, e.scene.Params.Effect())
	if err != nil {
		return err
	}
	e.watcher = w
	e.logger.Infof("Watching %s for parameter edits", path)
	return nil
}

// Run starts the main loop and returns when the window closes
func (e *Engine) Run() {
	e.isRunning = true
	e.lastUpdate = time.Now()

	for e.isRunning && !e.window.ShouldClose() {
		currentTime := time.Now()
		deltaTime := currentTime.Sub(e.lastUpdate).Seconds()
		e.lastUpdate = currentTime

		e.processInput()
		e.pollWatcher()
		e.render(deltaTime)

		e.window.SwapBuffers()
		glfw.PollEvents()

		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	e.cleanup()
}

// processInput handles the panel keys and the orbit controls
func (e *Engine) processInput() {
	in := e.input
	in.Update()

	if in.IsKeyPressed(glfw.KeyEscape) {
		e.isRunning = false
		return
	}

	panel := e.scene.Panel
	switch {
	case in.IsKeyPressed(glfw.KeyDown):
		panel.Next()
	case in.IsKeyPressed(glfw.KeyUp):
		panel.Prev()
	case in.IsKeyPressed(glfw.KeyRight):
		panel.Increase(in.IsShiftDown())
	case in.IsKeyPressed(glfw.KeyLeft):
		panel.Decrease(in.IsShiftDown())
	case in.IsKeyPressed(glfw.KeyR):
		panel.ResetSelected()
	case in.IsKeyPressed(glfw.KeyBackspace):
		panel.ResetAll()
		e.logger.Info("All parameters reset")
	case in.IsKeyPressed(glfw.KeyS):
		e.saveParams()
	case in.IsKeyPressed(glfw.KeyP):
		if e.renderer.TogglePostProcessing() {
			e.logger.Info("Post-processing on")
		} else {
			e.logger.Info("Post-processing off")
		}
	}

	if e.config.Camera.Orbit {
		if in.IsMouseButtonDown(glfw.MouseButtonLeft) {
			d := in.MouseDelta()
			e.scene.Camera.Rotate(float32(d[0]), float32(d[1]))
		}
		if wheel := in.MouseWheelDelta(); wheel != 0 {
			e.scene.Camera.Zoom(float32(wheel))
		}
	}

	e.updateTitle()
}

func (e *Engine) saveParams() {
	path := e.config.Panel.ParamsFile
	if path == "" {
		e.logger.Warn("No params file configured")
		return
	}
	if err := e.scene.Panel.Save(path); err != nil {
		e.logger.Errorf("Failed to save parameters: %v", err)
		return
	}
	e.logger.Infof("Saved parameters to %s", path)
}

// pollWatcher applies edits made to the params file since the last frame
func (e *Engine) pollWatcher() {
	if e.watcher == nil {
		return
	}
	effect, err := e.watcher.Poll()
	if err != nil {
		e.logger.Warnf("Ignoring params file: %v", err)
	}
	if effect == nil {
		return
	}
	if changed := e.scene.Panel.Apply(*effect); len(changed) > 0 {
		e.logger.Infof("Reloaded %d parameter(s) from %s", len(changed), e.config.Panel.ParamsFile)
	}
}

// render advances the scene and draws it
func (e *Engine) render(deltaTime float64) {
	winW, winH := e.window.GetSize()
	frame := e.scene.Step(deltaTime, e.input.Cursor(), winW, winH)
	frame.Width, frame.Height = e.window.GetFramebufferSize()
	e.renderer.Render(frame)
}

func (e *Engine) updateTitle() {
	title := e.config.Window.Title + "  " + e.scene.Panel.Title()
	if title != e.title {
		e.window.SetTitle(title)
		e.title = title
	}
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			e.logger.Warnf("Failed to stop params watcher: %v", err)
		}
	}
	e.renderer.Close()
	e.window.Destroy()
	glfw.Terminate()
}
