// Package sync implements the offline-first reconciliation core: the
// connectivity monitor that tracks remote reachability and the reconciler
// that exchanges pending drafts for canonical numbers.
package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/logging"
)

// Status is the last known reachability of the remote store.
type Status string

const (
	// StatusUnknown holds until the first probe completes.
	StatusUnknown      Status = "unknown"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// DefaultProbeInterval matches the original application's 30-second cadence.
const DefaultProbeInterval = 30 * time.Second

// DefaultProbeTimeout bounds a single probe round trip.
const DefaultProbeTimeout = 3 * time.Second

// Monitor keeps a tri-state reachability flag fed by periodic PING probes.
// It is advisory only: it never blocks user actions, and consumers must
// tolerate the state being stale.
type Monitor struct {
	client  remote.Client
	logger  logging.Logger
	timeout time.Duration

	mu     stdsync.RWMutex
	status Status
}

func NewMonitor(client remote.Client, logger logging.Logger) *Monitor {
	return &Monitor{
		client:  client,
		logger:  logger.With("component", "monitor"),
		timeout: DefaultProbeTimeout,
		status:  StatusUnknown,
	}
}

// Status returns the last known state.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// MarkDisconnected records a failed data-bearing call without waiting for
// the next probe.
func (m *Monitor) MarkDisconnected() {
	m.setStatus(context.Background(), StatusDisconnected)
}

// MarkConnected records a successful data-bearing call.
func (m *Monitor) MarkConnected() {
	m.setStatus(context.Background(), StatusConnected)
}

// Probe performs one no-op round trip and updates the state accordingly.
func (m *Monitor) Probe(ctx context.Context) Status {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.Ping(probeCtx); err != nil {
		m.setStatus(ctx, StatusDisconnected)
	} else {
		m.setStatus(ctx, StatusConnected)
	}
	return m.Status()
}

// Watch probes once immediately and then on every tick until ctx is
// cancelled. Run it in its own goroutine for the lifetime of a session.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) {
	m.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) setStatus(ctx context.Context, s Status) {
	m.mu.Lock()
	changed := m.status != s
	m.status = s
	m.mu.Unlock()

	if changed {
		m.logger.Info(ctx, "connectivity changed", "status", string(s))
	}
}
