package threading

import (
	"raycaster/internal/config"
	"raycaster/internal/threading/core"
	"raycaster/internal/threading/monitoring"
	"raycaster/internal/threading/rendering"
)

// Components holds the long-lived concurrency helpers shared by the renderer
// and the texture sampler.
type Components struct {
	WorkerPool         *core.WorkerPool
	ColumnCache        *rendering.ColumnCache
	PerformanceMonitor *monitoring.PerformanceMonitor // nil when monitoring is off
}

// NewComponents creates and starts the components for cfg. The worker pool is
// always started so parallel casting can be switched on by a config reload.
func NewComponents(cfg *config.Config) *Components {
	pool := core.NewWorkerPool(cfg.Raycast.Workers)
	pool.Start()

	tc := &Components{
		WorkerPool:  pool,
		ColumnCache: rendering.NewColumnCache(cfg.Textures.CacheSize),
	}
	if cfg.Performance.Monitor {
		tc.PerformanceMonitor = monitoring.NewPerformanceMonitor(cfg.Performance.LowFPSThreshold)
	}
	return tc
}

// Shutdown stops the worker pool. Safe to call more than once.
func (tc *Components) Shutdown() {
	if tc.WorkerPool != nil {
		tc.WorkerPool.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *Components) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
