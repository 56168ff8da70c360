package relay

import (
	"context"
	"time"
)

// Probe implements ports.Reachability against the configured relays: the
// terminal is online when at least one relay answers.
type Probe struct {
	transport *Transport
}

// NewProbe creates a Probe sharing the transport's connections.
func NewProbe(t *Transport) *Probe {
	return &Probe{transport: t}
}

// Online reports whether any relay is currently reachable.
func (p *Probe) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return len(p.transport.connected(probeCtx)) > 0
}

// Ping implements ports.HealthChecker.
func (p *Probe) Ping(ctx context.Context) error {
	if !p.Online(ctx) {
		return context.DeadlineExceeded
	}
	return nil
}

// Name returns "relay".
func (p *Probe) Name() string {
	return "relay"
}
