// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks request counts and latencies for a client.
type Metrics struct {
	// Counters
	requestsTotal  int64
	errorsTotal    int64
	retriesTotal   int64
	throttledTotal int64

	// Durations (nanoseconds)
	requestDurationTotal int64
	requestCount         int64

	latencies *latencyHistogram
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: newLatencyHistogram(),
	}
}

// RecordRequest records a completed API request.
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	atomic.AddInt64(&m.requestsTotal, 1)
	atomic.AddInt64(&m.requestDurationTotal, int64(duration))
	atomic.AddInt64(&m.requestCount, 1)

	if err != nil {
		atomic.AddInt64(&m.errorsTotal, 1)
		if IsRateLimitError(err) {
			atomic.AddInt64(&m.throttledTotal, 1)
		}
	}

	m.latencies.Record(duration)
}

// RecordRetry records a retried request attempt.
func (m *Metrics) RecordRetry() {
	atomic.AddInt64(&m.retriesTotal, 1)
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	requestCount := atomic.LoadInt64(&m.requestCount)

	var avgLatency time.Duration
	if requestCount > 0 {
		avgLatency = time.Duration(atomic.LoadInt64(&m.requestDurationTotal) / requestCount)
	}

	return &MetricsSnapshot{
		RequestsTotal:  atomic.LoadInt64(&m.requestsTotal),
		ErrorsTotal:    atomic.LoadInt64(&m.errorsTotal),
		RetriesTotal:   atomic.LoadInt64(&m.retriesTotal),
		ThrottledTotal: atomic.LoadInt64(&m.throttledTotal),
		AvgLatency:     avgLatency,
		LatencyP50:     m.latencies.Percentile(0.5),
		LatencyP95:     m.latencies.Percentile(0.95),
		LatencyP99:     m.latencies.Percentile(0.99),
	}
}

// Reset resets all metrics.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.requestsTotal, 0)
	atomic.StoreInt64(&m.errorsTotal, 0)
	atomic.StoreInt64(&m.retriesTotal, 0)
	atomic.StoreInt64(&m.throttledTotal, 0)
	atomic.StoreInt64(&m.requestDurationTotal, 0)
	atomic.StoreInt64(&m.requestCount, 0)

	m.latencies.Reset()
}

// MetricsSnapshot represents a point-in-time snapshot of client metrics.
type MetricsSnapshot struct {
	RequestsTotal  int64         `json:"requests_total"`
	ErrorsTotal    int64         `json:"errors_total"`
	RetriesTotal   int64         `json:"retries_total"`
	ThrottledTotal int64         `json:"throttled_total"`
	AvgLatency     time.Duration `json:"avg_latency"`
	LatencyP50     time.Duration `json:"latency_p50"`
	LatencyP95     time.Duration `json:"latency_p95"`
	LatencyP99     time.Duration `json:"latency_p99"`
}

// latencyHistogram provides simple percentile calculations.
type latencyHistogram struct {
	samples []time.Duration
	maxSize int
	mu      sync.Mutex
}

func newLatencyHistogram() *latencyHistogram {
	return &latencyHistogram{
		samples: make([]time.Duration, 0, 1000),
		maxSize: 10000,
	}
}

// Record adds a latency sample.
func (h *latencyHistogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) >= h.maxSize {
		// Remove oldest samples
		h.samples = h.samples[len(h.samples)/2:]
	}
	h.samples = append(h.samples, d)
}

// Percentile calculates the given percentile.
func (h *latencyHistogram) Percentile(p float64) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(h.samples))
	copy(sorted, h.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// Reset clears all samples.
func (h *latencyHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}
