package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks report generation calls
type Metrics struct {
	generateCalls  int64
	generateErrors int64
	cacheHits      int64
	llmCalls       int64
	llmErrors      int64
	llmLatency     int64 // Total latency in nanoseconds
}

// MetricsSnapshot is a point-in-time copy of Metrics suitable for JSON.
type MetricsSnapshot struct {
	GenerateCalls       int64   `json:"generate_calls"`
	GenerateErrors      int64   `json:"generate_errors"`
	CacheHits           int64   `json:"cache_hits"`
	LLMCalls            int64   `json:"llm_calls"`
	LLMErrors           int64   `json:"llm_errors"`
	AverageLLMLatencyMs float64 `json:"average_llm_latency_ms"`
	LLMErrorRate        float64 `json:"llm_error_rate"`
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		GenerateCalls:  atomic.LoadInt64(&m.generateCalls),
		GenerateErrors: atomic.LoadInt64(&m.generateErrors),
		CacheHits:      atomic.LoadInt64(&m.cacheHits),
		LLMCalls:       atomic.LoadInt64(&m.llmCalls),
		LLMErrors:      atomic.LoadInt64(&m.llmErrors),
	}
	if s.LLMCalls > 0 {
		latency := atomic.LoadInt64(&m.llmLatency)
		s.AverageLLMLatencyMs = float64(latency) / float64(s.LLMCalls) / 1e6
		s.LLMErrorRate = float64(s.LLMErrors) / float64(s.LLMCalls) * 100
	}
	return s
}

// Reset zeroes all counters (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.generateCalls, 0)
	atomic.StoreInt64(&m.generateErrors, 0)
	atomic.StoreInt64(&m.cacheHits, 0)
	atomic.StoreInt64(&m.llmCalls, 0)
	atomic.StoreInt64(&m.llmErrors, 0)
	atomic.StoreInt64(&m.llmLatency, 0)
}

func (m *Metrics) recordGenerate(err error) {
	atomic.AddInt64(&m.generateCalls, 1)
	if err != nil {
		atomic.AddInt64(&m.generateErrors, 1)
	}
}

func (m *Metrics) recordCacheHit() {
	atomic.AddInt64(&m.cacheHits, 1)
}

func (m *Metrics) recordLLMCall(duration time.Duration, err error) {
	atomic.AddInt64(&m.llmCalls, 1)
	atomic.AddInt64(&m.llmLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&m.llmErrors, 1)
	}
}
