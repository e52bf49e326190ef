package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps coarse request counters for the /metrics endpoint. It is a
// set of atomics, not a metrics pipeline; anything finer-grained belongs in
// the logs.
type Collector struct {
	requests   atomic.Uint64
	errors     atomic.Uint64
	throttled  atomic.Uint64
	durationMs atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.errors.Add(1)
	}
	if status == 429 {
		c.throttled.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	requests := c.requests.Load()
	durationMs := c.durationMs.Load()
	avg := float64(0)
	if requests > 0 {
		avg = float64(durationMs) / float64(requests)
	}
	return map[string]any{
		"requests":     requests,
		"serverErrors": c.errors.Load(),
		"throttled":    c.throttled.Load(),
		"avgLatencyMs": avg,
	}
}
