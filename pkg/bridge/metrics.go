package bridge

import (
	"sync"
	"time"
)

// Metrics aggregates performance counters for an adapter or a pipeline.
// All methods are safe for concurrent use; the counters live behind their
// own lock, independent of any other synchronization.
type Metrics struct {
	mu          sync.Mutex
	numCalls    int64
	totalTime   time.Duration
	totalTokens int64
	errors      int64
}

// NewMetrics creates a zeroed metrics recorder.
func NewMetrics() *Metrics { return &Metrics{} }

// RecordCall counts one completed call that started at the given time.
func (m *Metrics) RecordCall(start time.Time) {
	elapsed := time.Since(start)
	m.mu.Lock()
	m.numCalls++
	m.totalTime += elapsed
	m.mu.Unlock()
}

// AddTokens adds n to the processed-token counter.
func (m *Metrics) AddTokens(n int) {
	m.mu.Lock()
	m.totalTokens += int64(n)
	m.mu.Unlock()
}

// RecordError counts one degraded call.
func (m *Metrics) RecordError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

// Snapshot returns the counters plus derived averages: avg_time per call
// and tokens_per_second, present only when their denominators are nonzero.
func (m *Metrics) Snapshot() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := map[string]float64{
		"num_calls":    float64(m.numCalls),
		"total_time":   m.totalTime.Seconds(),
		"total_tokens": float64(m.totalTokens),
		"errors":       float64(m.errors),
	}
	if m.numCalls > 0 {
		out["avg_time"] = m.totalTime.Seconds() / float64(m.numCalls)
		if m.totalTokens > 0 && m.totalTime > 0 {
			out["tokens_per_second"] = float64(m.totalTokens) / m.totalTime.Seconds()
		}
	}
	return out
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	m.numCalls = 0
	m.totalTime = 0
	m.totalTokens = 0
	m.errors = 0
	m.mu.Unlock()
}
