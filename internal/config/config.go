// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/raydemo/internal/logger"
)

// ErrInvalidArgument reports an out-of-range setting.
var ErrInvalidArgument = errors.New("invalid config value")

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Water   WaterConfig   `yaml:"water"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"msaa_samples"` // 0 disables multisampling
	Wireframe  bool   `yaml:"wireframe"`
}

// CameraConfig holds the built-in scene's projection and the input speeds.
type CameraConfig struct {
	FOV             float64 `yaml:"fov_deg"`
	Near            float64 `yaml:"near"`
	Far             float64 `yaml:"far"`
	DragSensitivity float64 `yaml:"orbit_sensitivity"` // radians per pixel
	ZoomSensitivity float64 `yaml:"zoom_sensitivity"`
	MoveSpeed       float64 `yaml:"move_speed"`   // units per second
	RotateSpeed     float64 `yaml:"rotate_speed"` // radians per second
}

// WaterConfig sets the grid of the built-in scene's water surface.
type WaterConfig struct {
	ResX int `yaml:"resx"`
	ResZ int `yaml:"resz"`
}

// SceneConfig selects the scene file. An empty path uses the built-in scene.
type SceneConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // reload on change
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "raydemo",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
		},
		Camera: CameraConfig{
			FOV:             60,
			Near:            0.1,
			Far:             100,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
			MoveSpeed:       2,
			RotateSpeed:     1.5,
		},
		Water: WaterConfig{
			ResX: 64,
			ResZ: 64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalidArgument)
	case c.Window.Samples < 0 || c.Window.Samples > 16:
		return fmt.Errorf("msaa samples %d: %w", c.Window.Samples, ErrInvalidArgument)
	case !(c.Camera.FOV > 0 && c.Camera.FOV < 180):
		return fmt.Errorf("camera fov %g: %w", c.Camera.FOV, ErrInvalidArgument)
	case !(c.Camera.Near > 0) || !(c.Camera.Far > c.Camera.Near):
		return fmt.Errorf("camera clip range [%g, %g]: %w", c.Camera.Near, c.Camera.Far, ErrInvalidArgument)
	case c.Camera.DragSensitivity < 0 || c.Camera.ZoomSensitivity < 0:
		return fmt.Errorf("camera sensitivity: %w", ErrInvalidArgument)
	case c.Camera.MoveSpeed < 0 || c.Camera.RotateSpeed < 0:
		return fmt.Errorf("camera speed: %w", ErrInvalidArgument)
	case c.Water.ResX < 1 || c.Water.ResZ < 1:
		return fmt.Errorf("water resolution %dx%d: %w", c.Water.ResX, c.Water.ResZ, ErrInvalidArgument)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", errors.Join(ErrInvalidArgument, err))
	}
	return nil
}
