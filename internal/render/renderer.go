// Package render runs the per-frame pipeline: cast, project, merge and sort.
package render

import (
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"raycaster/internal/compose"
	"raycaster/internal/config"
	"raycaster/internal/projection"
	"raycaster/internal/raycast"
	"raycaster/internal/sprite"
	"raycaster/internal/texture"
	"raycaster/internal/threading/core"
	"raycaster/internal/threading/monitoring"
)

// Renderer owns every per-frame buffer. One Renderer serves one view and is
// not safe for concurrent Frame calls.
type Renderer struct {
	grid      raycast.Grid
	cfg       *config.Config
	caster    *raycast.Caster
	projector *projection.Projector

	pool     *core.WorkerPool
	ownsPool bool
	parallel bool

	monitor *monitoring.PerformanceMonitor
	logger  *log.Logger
	table   *texture.Table

	// Set by Reconfigure, consumed at the start of the next frame
	pendingMu sync.Mutex
	pending   *config.Config

	// Reused across frames
	objects   []sprite.Object
	hits      []raycast.Hit
	walls     []projection.WallColumn
	sprites   []projection.SpriteProjection
	drawables []compose.Drawable
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for configuration changes.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithMonitor records stage timings into m.
func WithMonitor(m *monitoring.PerformanceMonitor) Option {
	return func(r *Renderer) { r.monitor = m }
}

// WithWorkerPool casts on an existing pool instead of creating one when the
// configuration asks for parallel casting. The caller keeps ownership.
func WithWorkerPool(pool *core.WorkerPool) Option {
	return func(r *Renderer) { r.pool = pool }
}

// WithTextureTable sizes source rectangles from table instead of the
// configured texture size, so they always address the textures that are
// actually loaded.
func WithTextureTable(t *texture.Table) Option {
	return func(r *Renderer) { r.table = t }
}

// NewRenderer creates a renderer over grid. A nil cfg uses the defaults.
func NewRenderer(grid raycast.Grid, cfg *config.Config, opts ...Option) *Renderer {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Renderer{grid: grid}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	r.apply(cfg)
	return r
}

// Reconfigure queues cfg. It takes effect at the start of the next Frame, so a
// frame is never cast with mixed settings. Safe to call from any goroutine.
func (r *Renderer) Reconfigure(cfg *config.Config) {
	if cfg == nil {
		return
	}
	r.pendingMu.Lock()
	r.pending = cfg
	r.pendingMu.Unlock()
}

// Frame renders pose and objects into a painter-ordered draw list. The
// returned slice and everything it references stay valid until the next call.
func (r *Renderer) Frame(p raycast.Pose, objects []sprite.Object) []compose.Drawable {
	r.pendingMu.Lock()
	next := r.pending
	r.pending = nil
	r.pendingMu.Unlock()
	if next != nil {
		r.apply(next)
	}

	r.objects = sprite.Snapshot(objects, r.objects)

	var cast *monitoring.StageTimer
	if r.monitor != nil {
		cast = r.monitor.StartRaycast()
	}
	if r.parallel && r.pool != nil {
		r.hits = r.caster.CastParallel(r.pool, p, r.hits)
	} else {
		r.hits = r.caster.Cast(p, r.hits)
	}
	if cast != nil {
		cast.End()
	}

	var stage *monitoring.StageTimer
	if r.monitor != nil {
		stage = r.monitor.StartCompose()
	}
	r.walls = r.projector.Walls(r.hits, r.walls)
	r.sprites = r.projector.Sprites(p, r.objects, r.sprites)
	r.drawables = compose.Merge(r.drawables, r.walls, r.sprites)
	compose.Sort(r.drawables)
	if stage != nil {
		stage.End()
		r.monitor.RecordFrameContents(len(r.drawables), len(r.sprites))
		if r.pool != nil {
			r.monitor.UpdateWorkerMetrics(r.pool.Stats())
		}
	}
	return r.drawables
}

// Hits returns the column hits of the last frame.
func (r *Renderer) Hits() []raycast.Hit { return r.hits }

// Projector returns the projector of the current configuration.
func (r *Renderer) Projector() *projection.Projector { return r.projector }

// Config returns the configuration in effect.
func (r *Renderer) Config() *config.Config { return r.cfg }

// Close stops the worker pool if the renderer created it.
func (r *Renderer) Close() {
	if r.ownsPool && r.pool != nil {
		r.pool.Stop()
		r.pool = nil
		r.ownsPool = false
	}
}

func (r *Renderer) apply(cfg *config.Config) {
	r.cfg = cfg
	r.caster = raycast.NewCaster(r.grid, raycast.Settings{
		FOV:       cfg.GetFOV(),
		NumRays:   cfg.Raycast.NumRays,
		MaxDepth:  cfg.Raycast.MaxDepth,
		AngleBias: cfg.Raycast.AngleBias,
	})
	texSize := cfg.GetTextureSize()
	if r.table != nil {
		texSize = r.table.Size()
	}
	r.projector = projection.NewProjector(projection.Viewport{
		Width:       cfg.GetScreenWidth(),
		Height:      cfg.GetScreenHeight(),
		NumRays:     cfg.Raycast.NumRays,
		TextureSize: texSize,
		FOV:         cfg.GetFOV(),
		ScreenDist:  cfg.GetScreenDistance(),
		NearClip:    cfg.Sprites.NearClip,
		SpriteScale: cfg.Sprites.Scale,
	})

	r.parallel = cfg.Raycast.Parallel
	if r.ownsPool && (!r.parallel || r.pool.GetNumWorkers() != workerCount(cfg)) {
		r.Close()
	}
	if r.parallel && r.pool == nil {
		r.pool = core.NewWorkerPool(cfg.Raycast.Workers)
		r.pool.Start()
		r.ownsPool = true
	}
	if r.pool != nil && !r.ownsPool && cfg.Raycast.Workers > 0 && r.pool.GetNumWorkers() != cfg.Raycast.Workers {
		r.logger.Warn("shared worker pool is not resized, restart to apply raycast.workers",
			"workers", r.pool.GetNumWorkers(),
			"configured", cfg.Raycast.Workers,
		)
	}

	r.logger.Info("renderer configured",
		"rays", r.caster.NumRays(),
		"delta_angle", r.caster.DeltaAngle(),
		"texture_size", r.projector.Viewport().TextureSize,
		"fov", cfg.Camera.FieldOfView,
		"max_steps", r.caster.MaxSteps(),
		"screen_width", cfg.GetScreenWidth(),
		"screen_height", cfg.GetScreenHeight(),
		"parallel", r.parallel,
	)
}

func workerCount(cfg *config.Config) int {
	if cfg.Raycast.Workers > 0 {
		return cfg.Raycast.Workers
	}
	return runtime.NumCPU()
}
