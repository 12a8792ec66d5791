package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"raycaster/internal/game"
)

var flagParallel bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive viewer",
	Long: `Open a window and walk the map.

Controls:
  W/S or Up/Down   - Move forward/back
  A/D              - Strafe
  Left/Right, Q/E  - Turn
  Tab              - Toggle minimap
  F3               - Toggle frame statistics

The config file is watched; edits are applied between frames.`,
	RunE: runViewer,
}

func init() {
	runCmd.Flags().BoolVar(&flagParallel, "parallel", false, "Cast columns on a worker pool")
}

func runViewer(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	sc, err := loadScene(logger)
	if err != nil {
		return err
	}
	defer sc.Close()
	if cmd.Flags().Changed("parallel") {
		sc.cfg.Raycast.Parallel = flagParallel
	}

	// Set window properties from config
	ebiten.SetWindowSize(sc.cfg.GetScreenWidth(), sc.cfg.GetScreenHeight())
	ebiten.SetWindowTitle(sc.cfg.Display.WindowTitle)
	if sc.cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if sc.cfg.Display.TPS > 0 {
		ebiten.SetTPS(sc.cfg.Display.TPS)
	}

	g := game.NewGame(game.Options{
		Config:     sc.cfg,
		ConfigPath: flagConfig,
		Grid:       sc.grid,
		Start:      sc.mapData,
		Textures:   sc.textures,
		Sprites:    sc.sprites,
		Threading:  sc.workers,
		Logger:     logger,
	})
	defer g.Close()

	logger.Info("starting viewer", "width", sc.cfg.GetScreenWidth(), "height", sc.cfg.GetScreenHeight())
	return ebiten.RunGame(g)
}
