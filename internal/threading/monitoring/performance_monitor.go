package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMonitor tracks per-frame timings of the render pipeline.
// Counters are atomics so the cast workers and the game loop can update them
// without sharing a lock.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame

	// Pipeline stage metrics, last frame
	raycastTime atomic.Uint64
	composeTime atomic.Uint64
	drawables   atomic.Int32
	sprites     atomic.Int32

	// Worker pool metrics
	activeWorkers atomic.Int32
	queuedJobs    atomic.Int32
	completedJobs atomic.Uint64

	// Statistics
	mutex           sync.RWMutex
	totalFrameTime  time.Duration
	avgRaycastTime  float64 // exponential moving average, nanoseconds
	startTime       time.Time
	lowFPSThreshold float64
}

// NewPerformanceMonitor creates a new performance monitor. Frames slower than
// lowFPSThreshold frames per second raise an alert; zero disables the alert.
func NewPerformanceMonitor(lowFPSThreshold float64) *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:       time.Now(),
		lowFPSThreshold: lowFPSThreshold,
	}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: pm, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	elapsed := time.Since(ft.startTime)
	ft.monitor.frameTime.Store(uint64(elapsed.Nanoseconds()))
	ft.monitor.frameCount.Add(1)

	ft.monitor.mutex.Lock()
	ft.monitor.totalFrameTime += elapsed
	ft.monitor.mutex.Unlock()
}

// StageTimer measures one pipeline stage
type StageTimer struct {
	target    *atomic.Uint64
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartRaycast begins raycast timing
func (pm *PerformanceMonitor) StartRaycast() *StageTimer {
	return &StageTimer{target: &pm.raycastTime, monitor: pm, startTime: time.Now()}
}

// StartCompose begins projection, merge and sort timing
func (pm *PerformanceMonitor) StartCompose() *StageTimer {
	return &StageTimer{target: &pm.composeTime, monitor: pm, startTime: time.Now()}
}

// End completes stage timing
func (st *StageTimer) End() time.Duration {
	elapsed := time.Since(st.startTime)
	st.target.Store(uint64(elapsed.Nanoseconds()))

	if st.target == &st.monitor.raycastTime {
		st.monitor.mutex.Lock()
		if st.monitor.avgRaycastTime == 0 {
			st.monitor.avgRaycastTime = float64(elapsed)
		} else {
			st.monitor.avgRaycastTime = 0.9*st.monitor.avgRaycastTime + 0.1*float64(elapsed)
		}
		st.monitor.mutex.Unlock()
	}
	return elapsed
}

// RecordFrameContents stores how many drawables and sprites the last frame produced
func (pm *PerformanceMonitor) RecordFrameContents(drawables, sprites int) {
	pm.drawables.Store(int32(drawables))
	pm.sprites.Store(int32(sprites))
}

// UpdateWorkerMetrics updates threading metrics
func (pm *PerformanceMonitor) UpdateWorkerMetrics(active, queued int32, completed uint64) {
	pm.activeWorkers.Store(active)
	pm.queuedJobs.Store(queued)
	pm.completedJobs.Store(completed)
}

// Stats is a point-in-time copy of the monitor's counters
type Stats struct {
	Uptime         time.Duration
	FrameCount     uint64
	LastFrame      time.Duration
	AvgFrame       time.Duration
	LastRaycast    time.Duration
	AvgRaycast     time.Duration
	LastCompose    time.Duration
	Drawables      int
	Sprites        int
	ActiveWorkers  int32
	QueuedJobs     int32
	CompletedJobs  uint64
	FPS            float64
	MemoryAllocMB  uint64
	Goroutines     int
	GCCycles       uint32
	LowFPSAlerting bool
}

// GetStats returns the current performance statistics
func (pm *PerformanceMonitor) GetStats() Stats {
	pm.mutex.RLock()
	total := pm.totalFrameTime
	avgRaycast := pm.avgRaycastTime
	pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	count := pm.frameCount.Load()
	stats := Stats{
		Uptime:        time.Since(pm.startTime),
		FrameCount:    count,
		LastFrame:     time.Duration(pm.frameTime.Load()),
		LastRaycast:   time.Duration(pm.raycastTime.Load()),
		AvgRaycast:    time.Duration(avgRaycast),
		LastCompose:   time.Duration(pm.composeTime.Load()),
		Drawables:     int(pm.drawables.Load()),
		Sprites:       int(pm.sprites.Load()),
		ActiveWorkers: pm.activeWorkers.Load(),
		QueuedJobs:    pm.queuedJobs.Load(),
		CompletedJobs: pm.completedJobs.Load(),
		MemoryAllocMB: memStats.Alloc / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		GCCycles:      memStats.NumGC,
	}
	if count > 0 {
		stats.AvgFrame = total / time.Duration(count)
	}
	if stats.LastFrame > 0 {
		stats.FPS = float64(time.Second) / float64(stats.LastFrame)
	}
	stats.LowFPSAlerting = pm.lowFPSThreshold > 0 && stats.FPS > 0 && stats.FPS < pm.lowFPSThreshold
	return stats
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 && pm.lowFPSThreshold > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < pm.lowFPSThreshold {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below threshold",
				Value:     fps,
				Threshold: pm.lowFPSThreshold,
				Timestamp: now,
			})
		}
	}

	// A backlog means casting is not finishing inside the frame
	if queued := pm.queuedJobs.Load(); queued > 100 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "queue_backlog",
			Message:   "Worker queue has more than 100 pending jobs",
			Value:     float64(queued),
			Threshold: 100,
			Timestamp: now,
		})
	}

	return alerts
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.raycastTime.Store(0)
	pm.composeTime.Store(0)
	pm.drawables.Store(0)
	pm.sprites.Store(0)
	pm.activeWorkers.Store(0)
	pm.queuedJobs.Store(0)
	pm.completedJobs.Store(0)

	pm.mutex.Lock()
	pm.totalFrameTime = 0
	pm.avgRaycastTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
