package profiler

import (
	"log"
	"time"
)

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often Tick logs the stats.
//
// Parameters:
//   - d: the update interval
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the update interval
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithLogger sets the logger the stats are written to.
//
// Parameters:
//   - logger: the logger, log.Default() by default
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the logger
func WithLogger(logger *log.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
