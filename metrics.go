package capset

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each add operation.
	// err is nil if the capability was accepted.
	RecordAdd(duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	// removed is false if the capability was not held.
	RecordRemove(duration time.Duration, removed bool)

	// RecordMatch is called after each match query.
	// matched is the result size, err is non-nil if the filter did not parse.
	RecordMatch(matched int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)        {}
func (NoopMetricsCollector) RecordRemove(time.Duration, bool)      {}
func (NoopMetricsCollector) RecordMatch(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddErrors       atomic.Int64
	RemoveCount     atomic.Int64
	RemoveMisses    atomic.Int64
	MatchCount      atomic.Int64
	MatchErrors     atomic.Int64
	MatchResults    atomic.Int64
	MatchTotalNanos atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, removed bool) {
	b.RemoveCount.Add(1)
	if !removed {
		b.RemoveMisses.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(matched int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.MatchResults.Add(int64(matched))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:      b.AddCount.Load(),
		AddErrors:     b.AddErrors.Load(),
		RemoveCount:   b.RemoveCount.Load(),
		RemoveMisses:  b.RemoveMisses.Load(),
		MatchCount:    b.MatchCount.Load(),
		MatchErrors:   b.MatchErrors.Load(),
		MatchResults:  b.MatchResults.Load(),
		MatchAvgNanos: b.getAvgMatchNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgMatchNanos() int64 {
	count := b.MatchCount.Load()
	if count == 0 {
		return 0
	}
	return b.MatchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount      int64
	AddErrors     int64
	RemoveCount   int64
	RemoveMisses  int64
	MatchCount    int64
	MatchErrors   int64
	MatchResults  int64
	MatchAvgNanos int64
}
