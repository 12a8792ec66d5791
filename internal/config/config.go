package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all renderer and viewer configuration values
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Camera      CameraConfig      `yaml:"camera"`
	Raycast     RaycastConfig     `yaml:"raycast"`
	Textures    TextureConfig     `yaml:"textures"`
	Sprites     SpriteConfig      `yaml:"sprites"`
	Movement    MovementConfig    `yaml:"movement"`
	Map         MapConfig         `yaml:"map"`
	Performance PerformanceConfig `yaml:"performance"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view"` // Degrees
	// ScreenDistance overrides the projection constant; 0 derives it from the FOV.
	ScreenDistance float64 `yaml:"screen_distance"`
}

type RaycastConfig struct {
	NumRays   int     `yaml:"num_rays"`
	MaxDepth  int     `yaml:"max_depth"`  // Grid lines stepped per scan before giving up
	AngleBias float64 `yaml:"angle_bias"` // Added to every ray angle, radians
	Parallel  bool    `yaml:"parallel"`
	// 0 uses the CPU count. Read once when the worker pool is created; a
	// reload only resizes a pool the renderer owns.
	Workers int `yaml:"workers"`
}

type TextureConfig struct {
	Size      int    `yaml:"size"`
	Directory string `yaml:"directory"`
	WallIDs   []int  `yaml:"wall_ids"`
	CacheSize int    `yaml:"cache_size"`
}

type SpriteConfig struct {
	Directory string  `yaml:"directory"`
	NearClip  float64 `yaml:"near_clip"`
	Scale     float64 `yaml:"scale"`
}

type MovementConfig struct {
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	StartAngle      float64 `yaml:"start_angle"`
	MoveSpeed       float64 `yaml:"move_speed"`     // Tiles per second
	RotationSpeed   float64 `yaml:"rotation_speed"` // Radians per second
	CollisionRadius float64 `yaml:"collision_radius"`
}

type MapConfig struct {
	File string `yaml:"file"`
}

type PerformanceConfig struct {
	Monitor         bool    `yaml:"monitor"`
	LowFPSThreshold float64 `yaml:"low_fps_threshold"`
	ShowFPS         bool    `yaml:"show_fps"`
}

var (
	ErrInvalidDisplay = errors.New("config: invalid display")
	ErrInvalidCamera  = errors.New("config: invalid camera")
	ErrInvalidRaycast = errors.New("config: invalid raycast")
	ErrInvalidTexture = errors.New("config: invalid textures")
)

// LoadConfig loads the configuration from a YAML file. Fields missing from
// the file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that would make a frame impossible to cast.
func (c *Config) Validate() error {
	var errs []error
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: screen %dx%d", ErrInvalidDisplay, c.Display.ScreenWidth, c.Display.ScreenHeight))
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("%w: field_of_view %.2f must be in (0, 180)", ErrInvalidCamera, c.Camera.FieldOfView))
	}
	if c.Camera.ScreenDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: screen_distance %.2f is negative", ErrInvalidCamera, c.Camera.ScreenDistance))
	}
	if c.Raycast.NumRays <= 0 {
		errs = append(errs, fmt.Errorf("%w: num_rays %d", ErrInvalidRaycast, c.Raycast.NumRays))
	}
	if c.Raycast.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth %d", ErrInvalidRaycast, c.Raycast.MaxDepth))
	}
	if c.Raycast.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers %d", ErrInvalidRaycast, c.Raycast.Workers))
	}
	if c.Textures.Size <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %d", ErrInvalidTexture, c.Textures.Size))
	}
	for _, id := range c.Textures.WallIDs {
		if id <= 0 {
			errs = append(errs, fmt.Errorf("%w: wall id %d must be positive", ErrInvalidTexture, id))
		}
	}
	return errors.Join(errs...)
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// GetFOV returns the field of view in radians.
func (c *Config) GetFOV() float64 {
	return c.Camera.FieldOfView * math.Pi / 180
}

// GetScreenDistance returns the projection constant: the distance from the
// eye to a virtual screen that spans the full width at the configured FOV.
func (c *Config) GetScreenDistance() float64 {
	if c.Camera.ScreenDistance > 0 {
		return c.Camera.ScreenDistance
	}
	return float64(c.Display.ScreenWidth) / 2 / math.Tan(c.GetFOV()/2)
}

// GetColumnWidth returns how many screen pixels one ray covers.
func (c *Config) GetColumnWidth() int {
	w := c.Display.ScreenWidth / c.Raycast.NumRays
	if w < 1 {
		return 1
	}
	return w
}

func (c *Config) GetTextureSize() int {
	return c.Textures.Size
}
