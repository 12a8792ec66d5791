package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// Default returns the built-in configuration. The embedded YAML is the
// source of truth; the hardcoded values only back it up if it fails to parse.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return fallbackConfig()
	}
	return &cfg
}

func fallbackConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1600,
			ScreenHeight: 900,
			WindowTitle:  "Raycaster",
			TPS:          60,
		},
		Camera: CameraConfig{FieldOfView: 60},
		Raycast: RaycastConfig{
			NumRays:   800,
			MaxDepth:  20,
			AngleBias: 0.0001,
		},
		Textures: TextureConfig{
			Size:      256,
			Directory: "assets/textures",
			WallIDs:   []int{1, 2, 3, 4, 5},
			CacheSize: 512,
		},
		Sprites: SpriteConfig{
			Directory: "assets/sprites",
			NearClip:  0.5,
			Scale:     0.7,
		},
		Movement: MovementConfig{
			StartX:          1.5,
			StartY:          5,
			MoveSpeed:       4,
			RotationSpeed:   2,
			CollisionRadius: 0.2,
		},
		Performance: PerformanceConfig{
			Monitor:         true,
			LowFPSThreshold: 30,
			ShowFPS:         true,
		},
	}
}
