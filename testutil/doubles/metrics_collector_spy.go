package doubles

import (
	"sync"
	"time"
)

// SpyDurationRecord represents a recorded duration measurement.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// MetricsCollectorSpy captures metrics calls for testing. It implements
// the pipeline.MetricsCollector interface.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyDurationRecord
	counters  map[string]int
	values    map[string]float64
}

// NewMetricsCollectorSpy creates a MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		counters: make(map[string]int),
		values:   make(map[string]float64),
	}
}

// RecordDuration implements the pipeline.MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyDurationRecord{Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements the pipeline.MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[metric]++
}

// RecordValue implements the pipeline.MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[metric] = value
}

// Durations returns a copy of all recorded duration measurements.
func (s *MetricsCollectorSpy) Durations() []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	durations := make([]SpyDurationRecord, len(s.durations))
	copy(durations, s.durations)

	return durations
}

// CounterValue returns the current value of a counter.
func (s *MetricsCollectorSpy) CounterValue(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[metric]
}
