package gateway

import (
	"errors"
	"sync/atomic"
	"time"
)

// Metrics counts gateway round trips.
type Metrics struct {
	reads     int64
	writes    int64
	uploads   int64
	errors    int64
	latencyNs int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Reads            int64   `json:"reads"`
	Writes           int64   `json:"writes"`
	Uploads          int64   `json:"uploads"`
	Errors           int64   `json:"errors"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	reads := atomic.LoadInt64(&m.reads)
	writes := atomic.LoadInt64(&m.writes)
	uploads := atomic.LoadInt64(&m.uploads)
	s := MetricsSnapshot{
		Reads:   reads,
		Writes:  writes,
		Uploads: uploads,
		Errors:  atomic.LoadInt64(&m.errors),
	}
	if calls := reads + writes + uploads; calls > 0 {
		s.AverageLatencyMs = float64(atomic.LoadInt64(&m.latencyNs)) / float64(calls) / 1e6
	}
	return s
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.reads, 0)
	atomic.StoreInt64(&m.writes, 0)
	atomic.StoreInt64(&m.uploads, 0)
	atomic.StoreInt64(&m.errors, 0)
	atomic.StoreInt64(&m.latencyNs, 0)
}

func (m *Metrics) record(counter *int64, started time.Time, err error) {
	atomic.AddInt64(counter, 1)
	atomic.AddInt64(&m.latencyNs, time.Since(started).Nanoseconds())
	if err != nil && !errors.Is(err, ErrNotFound) {
		atomic.AddInt64(&m.errors, 1)
	}
}
