// Package game hosts the interactive viewer: an ebiten window that walks the
// map and blits the renderer's draw list.
package game

import (
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"raycaster/internal/config"
	"raycaster/internal/game/keytracker"
	"raycaster/internal/graphics"
	"raycaster/internal/render"
	"raycaster/internal/sprite"
	"raycaster/internal/texture"
	"raycaster/internal/threading"
	"raycaster/internal/threading/monitoring"
	"raycaster/internal/threading/rendering"
	"raycaster/internal/world"
)

const configPollInterval = time.Second

// Game implements ebiten.Game around a Renderer.
type Game struct {
	config   *config.Config
	grid     *world.GridMap
	renderer *render.Renderer
	textures *graphics.TextureManager
	sprites  *sprite.Handler
	monitor  *monitoring.PerformanceMonitor
	watcher  *config.Watcher
	cache    *rendering.ColumnCache
	logger   *log.Logger
	keys     *keytracker.KeyStateTracker

	player    Player
	objects   []sprite.Object
	skyImg    *ebiten.Image
	floorImg  *ebiten.Image
	skyOffset float64 // Horizontal sky scroll in pixels, in [0, width)

	showMinimap bool
	showFPS     bool
	lastUpdate  time.Time

	perfLowFPSSince time.Time
	perfLastLog     time.Time
}

// Options carries the collaborators NewGame wires together.
type Options struct {
	Config     *config.Config
	ConfigPath string // Watched for hot reload when not empty
	Grid       *world.GridMap
	Start      *world.MapData // Player start; Config.Movement is used when nil or unset
	Textures   *graphics.TextureManager
	Sprites    *sprite.Handler
	Threading  *threading.Components // Worker pool and monitor; optional
	Logger     *log.Logger
}

// NewGame creates the viewer.
func NewGame(opts Options) *Game {
	cfg := opts.Config
	g := &Game{
		config:   cfg,
		grid:     opts.Grid,
		textures: opts.Textures,
		sprites:  opts.Sprites,
		logger:   opts.Logger,
		keys:     keytracker.New(),
		player: Player{
			X:     cfg.Movement.StartX,
			Y:     cfg.Movement.StartY,
			Angle: cfg.Movement.StartAngle,
		},
		showFPS: cfg.Performance.ShowFPS,
	}
	if opts.Start != nil && opts.Start.HasStart {
		// Stand in the middle of the start tile
		g.player.X = float64(opts.Start.StartX) + 0.5
		g.player.Y = float64(opts.Start.StartY) + 0.5
	}
	if g.sprites == nil {
		g.sprites = sprite.NewHandler()
	}

	renderOpts := []render.Option{render.WithLogger(g.logger)}
	if g.textures != nil {
		renderOpts = append(renderOpts, render.WithTextureTable(g.textures.Table()))
	}
	if tc := opts.Threading; tc != nil {
		g.monitor = tc.PerformanceMonitor
		g.cache = tc.ColumnCache
		renderOpts = append(renderOpts, render.WithWorkerPool(tc.WorkerPool))
	} else if cfg.Performance.Monitor {
		g.monitor = monitoring.NewPerformanceMonitor(cfg.Performance.LowFPSThreshold)
	}
	if g.monitor != nil {
		renderOpts = append(renderOpts, render.WithMonitor(g.monitor))
	}
	g.renderer = render.NewRenderer(g.grid, cfg, renderOpts...)

	if opts.ConfigPath != "" {
		g.watcher = config.NewWatcher(opts.ConfigPath, configPollInterval)
	}
	g.rebuildBackdrop()
	return g
}

// Close releases the renderer's worker pool if it created one.
func (g *Game) Close() {
	g.renderer.Close()
}

func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.lastUpdate.IsZero() {
		dt = math.Min(now.Sub(g.lastUpdate).Seconds(), 0.1)
	}
	g.lastUpdate = now

	g.pollConfig(now)
	g.handleToggles()

	mv := g.config.Movement
	turn := g.player.Update(readInput(), dt, mv.MoveSpeed, mv.RotationSpeed, mv.CollisionRadius, g.grid)
	g.skyOffset = scrollSky(g.skyOffset, turn, g.config.GetFOV(), g.config.GetScreenWidth())

	g.sprites.Update(now)
	g.objects = g.sprites.Objects(g.objects)

	g.maybeLogPerfDrop(now)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	var frameTimer *monitoring.FrameTimer
	if g.monitor != nil {
		frameTimer = g.monitor.StartFrame()
	}

	list := g.renderer.Frame(g.player.Pose(), g.objects)

	g.drawBackdrop(screen)
	g.drawList(screen, list)
	if g.showMinimap {
		g.drawMinimap(screen)
	}
	if g.showFPS {
		g.drawOverlay(screen, len(list))
	}

	if frameTimer != nil {
		frameTimer.EndFrame()
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}

// pollConfig hands a changed config file to the renderer. The renderer applies
// it at the start of the next frame.
func (g *Game) pollConfig(now time.Time) {
	if g.watcher == nil {
		return
	}
	cfg, changed, err := g.watcher.Poll(now)
	if err != nil {
		g.logger.Warn("config reload failed, keeping current settings", "err", err)
		return
	}
	if !changed {
		return
	}

	resized := cfg.GetScreenWidth() != g.config.GetScreenWidth() || cfg.GetScreenHeight() != g.config.GetScreenHeight()
	g.config = cfg
	g.showFPS = cfg.Performance.ShowFPS
	g.resizeTextures(cfg.GetTextureSize())
	g.renderer.Reconfigure(cfg)
	if resized {
		ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
		g.rebuildBackdrop()
	}
	g.logger.Info("config reloaded", "rays", cfg.Raycast.NumRays, "fov", cfg.Camera.FieldOfView)
}

// resizeTextures brings the texture table to size before the renderer picks
// up a new configuration, so source rectangles never outgrow the textures.
func (g *Game) resizeTextures(size int) {
	if g.textures == nil || size == g.textures.Table().Size() {
		return
	}
	g.textures.Resize(size)
	if g.cache != nil {
		g.cache.Clear()
	}
	g.logger.Info("texture size changed", "size", size)
}

func (g *Game) handleToggles() {
	if g.keys.IsKeyJustPressed(ebiten.KeyTab) {
		g.showMinimap = !g.showMinimap
	}
	if g.keys.IsKeyJustPressed(ebiten.KeyF3) {
		g.showFPS = !g.showFPS
	}
}

func (g *Game) rebuildBackdrop() {
	w, h := g.config.GetScreenWidth(), g.config.GetScreenHeight()
	g.skyImg = ebiten.NewImageFromImage(texture.SkyPlaceholder(w, h/2))
	g.floorImg = ebiten.NewImage(w, h-h/2)
	g.floorImg.Fill(color.RGBA{30, 30, 30, 255})
	g.skyOffset = 0
}

// scrollSky moves the sky with the heading so that turning by a full field
// of view scrolls it by one screen width.
func scrollSky(offset, turn, fov float64, width int) float64 {
	if width <= 0 || fov <= 0 {
		return 0
	}
	w := float64(width)
	offset = math.Mod(offset+turn/fov*w, w)
	if offset < 0 {
		offset += w
	}
	return offset
}
