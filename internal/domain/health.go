package domain

import (
	"sync"
	"time"
)

// HealthState tracks whether the primary store is believed to be reachable.
// It is a cooperative best-effort signal, not a circuit breaker: failures mark
// it pessimistically, successes optimistically, and reconnect probes are rate
// limited by a fixed cooldown window.
type HealthState struct {
	mu          sync.Mutex
	healthy     bool
	lastAttempt time.Time
	cooldown    time.Duration
}

func NewHealthState(cooldown time.Duration) *HealthState {
	return &HealthState{healthy: true, cooldown: cooldown}
}

func (h *HealthState) MarkHealthy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healthy = true
}

func (h *HealthState) MarkUnhealthy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healthy = false
}

func (h *HealthState) IsHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.healthy
}

// ShouldAttemptReconnect reports whether a reconnect probe is due. It stamps
// the attempt time when it returns true, so at most one probe fires per
// cooldown window regardless of caller concurrency.
func (h *HealthState) ShouldAttemptReconnect(now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.healthy {
		return false
	}
	if !h.lastAttempt.IsZero() && now.Sub(h.lastAttempt) < h.cooldown {
		return false
	}
	h.lastAttempt = now
	return true
}
