package metrics

import (
	"sync/atomic"
	"time"
)

// Counter only grows; Registry reports it since process start.
type Counter struct {
	n atomic.Uint64
}

func (c *Counter) Inc() { c.n.Add(1) }

func (c *Counter) Add(delta uint64) { c.n.Add(delta) }

func (c *Counter) Load() uint64 { return c.n.Load() }

// Timer backs the uptime figure.
type Timer struct {
	started time.Time
}

func StartTimer() *Timer {
	return &Timer{started: time.Now()}
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.started)
}
