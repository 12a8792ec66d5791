// raycaster renders a pseudo-3D view of a tile map by casting one ray per
// screen column.
//
// Usage:
//
//	raycaster run                 - Open the interactive viewer
//	raycaster snapshot            - Render one frame headless to a PNG
//	raycaster dump                - Print the draw list for a pose
//
// Global flags:
//
//	--config <path>  - Configuration file (default: config.yaml)
//	--map <path>     - Map file overriding map.file from the config
//	--debug          - Verbose logging
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/sprite"
	"raycaster/internal/texture"
	"raycaster/internal/threading"
	"raycaster/internal/world"
)

var (
	// Global flags
	flagConfig string
	flagMap    string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raycaster",
	Short: "Grid raycaster with textured walls and billboard sprites",
	Long: `raycaster draws a first-person view of a 2D tile map.

Available commands:
  run       - Walk the map in a window
  snapshot  - Render a single frame to a PNG file
  dump      - Print the sorted draw list for a pose

Examples:
  raycaster run
  raycaster run --map assets/maps/maze.map
  raycaster snapshot --x 1.5 --y 5.5 --heading 0 --out frame.png
  raycaster dump --heading 1.57`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagMap, "map", "", "Path to a map file (overrides map.file)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(dumpCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "raycaster",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// scene is everything a command needs to render frames.
type scene struct {
	cfg      *config.Config
	mapData  *world.MapData
	grid     *world.GridMap
	textures *graphics.TextureManager
	sampler  *texture.Sampler
	sprites  *sprite.Handler
	workers  *threading.Components
}

// Close stops the scene's worker pool.
func (sc *scene) Close() {
	sc.workers.Shutdown()
}

// loadConfig reads the config file. A missing file at the default path falls
// back to the built-in defaults.
func loadConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		logger.Info("no config file, using defaults", "path", flagConfig)
		return config.Default(), nil
	}
	return nil, err
}

func loadScene(logger *log.Logger) (*scene, error) {
	cfg, err := loadConfig(logger)
	if err != nil {
		return nil, err
	}

	mapPath := cfg.Map.File
	if flagMap != "" {
		mapPath = flagMap
	}
	mapData := world.DefaultMap()
	if mapPath != "" {
		if mapData, err = world.LoadMap(mapPath); err != nil {
			return nil, err
		}
	}
	grid, err := mapData.Grid()
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	logger.Info("map loaded", "path", mapPath, "width", grid.Width(), "height", grid.Height(), "walls", grid.Len())

	table := texture.NewTable(cfg.GetTextureSize())
	textures := graphics.NewTextureManager(table, cfg.Textures.Directory, cfg.Sprites.Directory, logger)
	n, err := textures.LoadWalls(cfg.Textures.WallIDs)
	if err != nil {
		logger.Warn("some wall textures could not be decoded", "err", err)
	}
	sprites := defaultSprites()
	names := append([]string{candlebraFrame}, greenLightFrames...)
	m, err := textures.LoadSprites(names)
	if err != nil {
		logger.Warn("some sprites could not be decoded", "err", err)
	}
	logger.Debug("textures loaded", "walls", n, "sprites", m)

	workers := threading.NewComponents(cfg)
	return &scene{
		cfg:      cfg,
		mapData:  mapData,
		grid:     grid,
		textures: textures,
		sampler:  texture.NewSampler(table, workers.ColumnCache),
		sprites:  sprites,
		workers:  workers,
	}, nil
}

const candlebraFrame = "candlebra"

var greenLightFrames = []string{"green_light0", "green_light1", "green_light2", "green_light3"}

// defaultSprites places the static and animated sprites of the default world.
func defaultSprites() *sprite.Handler {
	h := sprite.NewHandler()
	h.Add(sprite.NewStatic(sprite.Object{
		X: 10.5, Y: 3.5, Frame: candlebraFrame, Scale: 0.7, HeightShift: 0.27,
	}))
	h.Add(sprite.NewAnimated(sprite.Object{
		X: 11.5, Y: 3.5, Scale: 0.8, HeightShift: 0.16,
	}, greenLightFrames, 120*time.Millisecond))
	return h
}
