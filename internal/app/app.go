// Package app runs the interactive demo: window, input, scene and renderer.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/config"
	"github.com/Faultbox/raydemo/internal/engine/debug"
	"github.com/Faultbox/raydemo/internal/engine/gpu/opengl"
	"github.com/Faultbox/raydemo/internal/engine/input"
	"github.com/Faultbox/raydemo/internal/engine/input/sdlinput"
	"github.com/Faultbox/raydemo/internal/engine/renderer"
	"github.com/Faultbox/raydemo/internal/engine/scene"
	"github.com/Faultbox/raydemo/internal/engine/window"
	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/internal/scenefile"
)

// App is the demo instance.
type App struct {
	config   *config.Config
	running  bool
	paused   bool
	clock    float64 // scene time in seconds, frozen while paused
	window   *window.Window
	device   *opengl.Device
	renderer *renderer.Renderer
	input    *input.State
	controls input.Controls
	scene    *scene.Scene
	watcher  *scenefile.Watcher
	shots    *debug.Screenshots
}

// New opens the window and loads the first scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing demo",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("scene", cfg.Scene.Path),
	)

	a := &App{
		config:   cfg,
		input:    input.NewState(),
		controls: input.Controls{MoveSpeed: cfg.Camera.MoveSpeed, RotateSpeed: cfg.Camera.RotateSpeed},
		shots:    debug.NewScreenshots("screenshots", "raydemo"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	a.device = opengl.NewDevice()
	rcfg := renderer.DefaultConfig()
	rcfg.Width, rcfg.Height = a.window.DrawableSize()
	rcfg.Wireframe = cfg.Window.Wireframe
	a.renderer, err = renderer.New(rcfg, a.device)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene, err = a.loadScene()
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Scene.Watch && cfg.Scene.Path != "" {
		a.watcher, err = scenefile.Watch(cfg.Scene.Path)
		if err != nil {
			// Reload stays available on R.
			logger.Warn("scene watch disabled", zap.Error(err))
		}
	}

	logger.Info("demo initialized successfully")
	return a, nil
}

// loadScene builds the configured scene and fits its camera to the window.
func (a *App) loadScene() (*scene.Scene, error) {
	var (
		desc *scenefile.Description
		dir  string
		err  error
	)
	if path := a.config.Scene.Path; path != "" {
		desc, err = scenefile.Load(path)
		if err != nil {
			return nil, err
		}
		dir = filepath.Dir(path)
	} else {
		desc = scenefile.Demo(a.config.Water.ResX, a.config.Water.ResZ)
		desc.Camera.FOV = a.config.Camera.FOV
		desc.Camera.Near = a.config.Camera.Near
		desc.Camera.Far = a.config.Camera.Far
	}

	s, err := desc.Build(a.device, dir)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	s.Camera.DragSensitivity = a.config.Camera.DragSensitivity
	s.Camera.ZoomSensitivity = a.config.Camera.ZoomSensitivity

	w, h := a.window.Size()
	if err := s.Camera.SetViewport(w, h); err != nil {
		logger.Warn("ignoring viewport", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
	}
	if err := s.Init(); err != nil {
		return nil, multierr.Append(fmt.Errorf("initializing scene: %w", err), s.Destroy())
	}
	return s, nil
}

// reload swaps in a freshly loaded scene. On failure the current scene
// stays.
func (a *App) reload() {
	next, err := a.loadScene()
	if err != nil {
		logger.Warn("scene reload failed", zap.Error(err))
		return
	}
	a.renderer.Forget(a.scene)
	if err := a.scene.Destroy(); err != nil {
		logger.Warn("destroying previous scene", zap.Error(err))
	}
	a.scene = next
	logger.Info("scene reloaded", zap.Int("objects", len(next.Objects())))
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		a.input.BeginFrame()
		sdlinput.Poll(a.input)
		if a.input.Quit() || a.input.Pressed(input.KeyEscape) {
			a.running = false
			break
		}
		a.handleInput(dt)

		// 2. Update scene
		if !a.paused {
			a.clock += dt
		}
		if err := a.scene.Update(a.clock); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		if err := a.renderer.Render(a.scene); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			a.window.SetTitle(fmt.Sprintf("%s - %d fps", a.config.Window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleInput(dt float64) {
	if w, h, ok := a.input.Resized(); ok {
		if err := a.scene.Camera.SetViewport(w, h); err != nil {
			logger.Debug("ignoring resize", zap.Error(err))
		} else {
			a.renderer.Resize(a.window.DrawableSize())
		}
	}

	if a.input.Pressed(input.KeyF) {
		a.config.Window.Wireframe = !a.config.Window.Wireframe
		a.renderer.SetWireframe(a.config.Window.Wireframe)
	}
	if a.input.Pressed(input.KeyF11) {
		if err := a.window.SetFullscreen(!a.window.Fullscreen()); err != nil {
			logger.Warn("fullscreen toggle failed", zap.Error(err))
		}
	}
	if a.input.Pressed(input.KeySpace) {
		a.paused = !a.paused
		logger.Info("animation", zap.Bool("paused", a.paused))
	}
	if a.input.Pressed(input.KeyR) || (a.watcher != nil && a.watcher.Changed()) {
		a.reload()
	}
	if a.input.Pressed(input.KeyC) {
		a.frameScene()
	}
	if a.input.Pressed(input.KeyP) {
		a.screenshot()
	}

	for _, click := range a.input.Clicks() {
		a.pick(click)
	}
	a.controls.Apply(a.input, a.scene.Camera, dt)
}

// pick refocuses the orbit on the object under p.
func (a *App) pick(p input.Point) {
	w, h := a.window.Size()
	u, v := p.NDC(w, h)
	cam := a.scene.Camera
	origin, dir := cam.Ray(u, v)
	hit, ok := a.scene.Intersect(origin, dir)
	if !ok {
		return
	}
	if err := cam.LookAt(hit.Point, cam.Up()); err != nil {
		logger.Debug("pick", zap.Error(err))
		return
	}
	logger.Info("focus",
		zap.String("object", hit.Object.Name),
		zap.Float64("distance", hit.Distance),
	)
}

// frameScene moves the camera back until every object is in view.
func (a *App) frameScene() {
	lo, hi, ok := a.scene.Bounds()
	if !ok {
		return
	}
	center := lo.Add(hi).Scale(0.5)
	a.scene.Camera.Frame(center, hi.Sub(lo).Length()/2)
}

// screenshot saves the last rendered frame.
func (a *App) screenshot() {
	img, err := debug.FromFramebuffer(a.renderer.ReadPixels())
	if err == nil {
		var path string
		if path, err = a.shots.Save(img); err == nil {
			logger.Info("screenshot saved", zap.String("path", path))
			return
		}
	}
	logger.Warn("screenshot failed", zap.Error(err))
}

// Close releases the scene, renderer and window.
func (a *App) Close() error {
	logger.Info("closing demo")

	var err error
	if a.watcher != nil {
		err = multierr.Append(err, a.watcher.Close())
	}
	if a.scene != nil {
		if a.renderer != nil {
			a.renderer.Forget(a.scene)
		}
		err = multierr.Append(err, a.scene.Destroy())
	}
	if a.renderer != nil {
		err = multierr.Append(err, a.renderer.Close())
	}
	if a.window != nil {
		a.window.Close()
	}
	return err
}
