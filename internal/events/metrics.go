package events

import (
	"sync/atomic"
	"time"
)

type PublisherMetrics struct {
	Published int64 `json:"published"`
	Failed    int64 `json:"failed"`
	Rejected  int64 `json:"rejected"`
	StartTime int64 `json:"start_time"`
}

func NewPublisherMetrics() *PublisherMetrics {
	return &PublisherMetrics{
		StartTime: time.Now().Unix(),
	}
}

func (m *PublisherMetrics) RecordPublished() {
	atomic.AddInt64(&m.Published, 1)
}

func (m *PublisherMetrics) RecordFailed() {
	atomic.AddInt64(&m.Failed, 1)
}

// RecordRejected counts events dropped because the breaker was open.
func (m *PublisherMetrics) RecordRejected() {
	atomic.AddInt64(&m.Rejected, 1)
}

func (m *PublisherMetrics) GetStats() PublisherMetrics {
	return PublisherMetrics{
		Published: atomic.LoadInt64(&m.Published),
		Failed:    atomic.LoadInt64(&m.Failed),
		Rejected:  atomic.LoadInt64(&m.Rejected),
		StartTime: m.StartTime,
	}
}

func (m *PublisherMetrics) FailureRate() float64 {
	published := atomic.LoadInt64(&m.Published)
	failed := atomic.LoadInt64(&m.Failed)
	total := published + failed

	if total == 0 {
		return 0.0
	}

	return float64(failed) / float64(total) * 100.0
}
