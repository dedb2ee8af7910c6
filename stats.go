// stats.go: atomic statistics counters for a single cache instance.
package corecache

import "sync/atomic"

// statsRecorder holds the atomic counters backing a cache's Stats snapshot.
// Counters are monotonic; the only way to reset them is to construct a new
// cache (spec: "may only be reset by destroying the cache").
type statsRecorder struct {
	hits            atomic.Uint64
	misses          atomic.Uint64
	loads           atomic.Uint64
	loadFailures    atomic.Uint64
	loadTimeTotalNs atomic.Uint64
	evictions       atomic.Uint64
}

func (s *statsRecorder) recordHit()    { s.hits.Add(1) }
func (s *statsRecorder) recordMiss()   { s.misses.Add(1) }
func (s *statsRecorder) recordLoad(ns int64) {
	s.loads.Add(1)
	s.loadTimeTotalNs.Add(uint64(ns))
}
func (s *statsRecorder) recordLoadFailure() { s.loadFailures.Add(1) }
func (s *statsRecorder) recordEviction()    { s.evictions.Add(1) }

// Stats is a read-only snapshot of a cache's counters plus its current size.
type Stats struct {
	Hits            uint64
	Misses          uint64
	Loads           uint64
	LoadFailures    uint64
	LoadTimeTotalNs uint64
	Evictions       uint64
	Size            uint64
}

// HitRatio returns Hits / (Hits + Misses), or 0 when there have been no
// lookups yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// AverageLoadTimeNs returns the mean loader latency in nanoseconds, or 0
// when no loads have completed.
func (s Stats) AverageLoadTimeNs() float64 {
	if s.Loads == 0 {
		return 0
	}
	return float64(s.LoadTimeTotalNs) / float64(s.Loads)
}

func (s *statsRecorder) snapshot(size uint64) Stats {
	return Stats{
		Hits:            s.hits.Load(),
		Misses:          s.misses.Load(),
		Loads:           s.loads.Load(),
		LoadFailures:    s.loadFailures.Load(),
		LoadTimeTotalNs: s.loadTimeTotalNs.Load(),
		Evictions:       s.evictions.Load(),
		Size:            size,
	}
}

// MetricsCollector is an optional, nil-safe sink for per-operation latency
// and outcome metrics. The core never requires one; see the otel/
// submodule for an OpenTelemetry-backed implementation.
type MetricsCollector interface {
	RecordGet(latencyNs int64, hit bool)
	RecordSet(latencyNs int64)
	RecordDelete(latencyNs int64)
	RecordEviction()
	RecordExpiration()
}

// NoOpMetricsCollector discards every metric. It is the default.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}
func (NoOpMetricsCollector) RecordSet(latencyNs int64)           {}
func (NoOpMetricsCollector) RecordDelete(latencyNs int64)        {}
func (NoOpMetricsCollector) RecordEviction()                     {}
func (NoOpMetricsCollector) RecordExpiration()                   {}
