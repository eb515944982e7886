package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats summarizes the draws recorded since the previous report.
type Stats struct {
	Draws       int
	Commands    int
	Elapsed     time.Duration
	DrawsPerSec float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	MaxPauseUs  uint64
}

// Profiler tracks draw throughput, command volume and memory statistics of a command producer.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	draws          int
	commands       int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         *log.Logger
	now            func() time.Time
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second and stats go to
// the standard logger.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		logger:         log.Default(),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	runtime.ReadMemStats(&p.memStats)
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return p
}

// Tick records one draw and the number of commands it emitted. Logs the stats when the update
// interval has elapsed.
//
// Parameters:
//   - commands: the commands the draw emitted
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(commands int) bool {
	p.draws++
	p.commands += commands
	if p.now().Sub(p.lastTime) < p.updateInterval {
		return false
	}
	p.Report()
	return true
}

// Report logs and returns the stats since the previous report, then starts a new period.
//
// Returns:
//   - Stats: the stats of the period that ended
func (p *Profiler) Report() Stats {
	current := p.now()
	elapsed := current.Sub(p.lastTime)

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		Draws:    p.draws,
		Commands: p.commands,
		Elapsed:  elapsed,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:    float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:  p.memStats.NumGC,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.DrawsPerSec = float64(p.draws) / secs
		s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / secs
	}

	// PauseNs is a circular buffer of the last 256 GC pauses.
	start := p.lastGCCount
	if s.GCCount-start > 256 {
		start = s.GCCount - 256
	}
	for i := start; i < s.GCCount; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	p.logger.Printf("[Profiler] Draws: %d (%.2f/s) | Commands: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs) | Sys: %.2f MB",
		s.Draws, s.DrawsPerSec, s.Commands, s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPauseUs, s.SysMB)

	p.draws = 0
	p.commands = 0
	p.lastTime = current
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
