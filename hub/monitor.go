package hub

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Monitor ticks the hub's Ping cadence: every keep_alive_interval it asks
// the hub to ping every connected client, garbage-collecting any whose
// sink has gone dead. Grounded on
// original_source/src/server/monitor.rs's Monitor::start ticking task,
// rebuilt on golang.org/x/time/rate instead of a bare ticker so a slow
// Ping send can't cause the next tick to double up.
type Monitor struct {
	hub     *EventHub
	limiter *rate.Limiter
}

// NewMonitor returns a Monitor that pings hub at most once per interval.
func NewMonitor(hub *EventHub, interval time.Duration) *Monitor {
	return &Monitor{
		hub:     hub,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Run blocks, pinging on cadence until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
		m.hub.Ping()
	}
}
