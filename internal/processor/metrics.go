package processor

import (
	"sync/atomic"
	"time"
)

// ServiceMetrics are in-process counters logged periodically by the
// notifier; prometheus carries the same numbers for scraping.
type ServiceMetrics struct {
	delivered       atomic.Int64
	failed          atomic.Int64
	totalDurationNs atomic.Int64
	startedNs       atomic.Int64
}

type MetricsSnapshot struct {
	Delivered     int64
	Failed        int64
	RatePerSecond float64
	AvgDuration   time.Duration
	Uptime        time.Duration
}

func NewServiceMetrics() *ServiceMetrics {
	m := &ServiceMetrics{}
	m.startedNs.Store(time.Now().UnixNano())
	return m
}

func (m *ServiceMetrics) RecordSuccess(duration time.Duration) {
	m.delivered.Add(1)
	m.totalDurationNs.Add(int64(duration))
}

func (m *ServiceMetrics) RecordFailure() {
	m.failed.Add(1)
}

func (m *ServiceMetrics) Snapshot() MetricsSnapshot {
	delivered := m.delivered.Load()
	uptime := time.Since(time.Unix(0, m.startedNs.Load()))

	s := MetricsSnapshot{
		Delivered: delivered,
		Failed:    m.failed.Load(),
		Uptime:    uptime,
	}
	if secs := uptime.Seconds(); secs > 0 {
		s.RatePerSecond = float64(delivered) / secs
	}
	if delivered > 0 {
		s.AvgDuration = time.Duration(m.totalDurationNs.Load() / delivered)
	}
	return s
}

func (m *ServiceMetrics) Reset() {
	m.delivered.Store(0)
	m.failed.Store(0)
	m.totalDurationNs.Store(0)
	m.startedNs.Store(time.Now().UnixNano())
}
