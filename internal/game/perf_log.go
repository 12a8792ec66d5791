package game

import (
	"time"
)

const (
	perfLowFPSDuration = 3 * time.Second
	perfLogInterval    = 3 * time.Second
)

// maybeLogPerfDrop logs the monitor's alerts once the frame rate has stayed
// below the configured threshold for perfLowFPSDuration, at most once per
// perfLogInterval.
func (g *Game) maybeLogPerfDrop(now time.Time) {
	if g.monitor == nil {
		return
	}

	alerts := g.monitor.CheckPerformanceAlerts()
	if len(alerts) == 0 {
		g.perfLowFPSSince = time.Time{}
		return
	}

	if g.perfLowFPSSince.IsZero() {
		g.perfLowFPSSince = now
		return
	}
	if now.Sub(g.perfLowFPSSince) < perfLowFPSDuration {
		return
	}
	if !g.perfLastLog.IsZero() && now.Sub(g.perfLastLog) < perfLogInterval {
		return
	}
	g.perfLastLog = now

	stats := g.monitor.GetStats()
	for _, a := range alerts {
		g.logger.Warn(a.Message,
			"type", a.Type,
			"value", a.Value,
			"threshold", a.Threshold,
			"last_frame", stats.LastFrame,
			"last_raycast", stats.LastRaycast,
			"avg_raycast", stats.AvgRaycast,
			"drawables", stats.Drawables,
			"goroutines", stats.Goroutines,
			"mem_mb", stats.MemoryAllocMB,
		)
	}
}
