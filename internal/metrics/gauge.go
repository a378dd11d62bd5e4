package metrics

import "sync/atomic"

// Gauge tracks a value that moves both ways, such as open websocket sinks.
type Gauge struct {
	n atomic.Int64
}

func (g *Gauge) Inc() { g.n.Add(1) }

func (g *Gauge) Dec() { g.n.Add(-1) }

func (g *Gauge) Load() int64 { return g.n.Load() }
