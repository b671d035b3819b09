package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Manager tracks per-provider rate-limit state. All methods are safe for
// concurrent use; locking is striped per provider id.
type Manager struct {
	cfg Config

	mu        sync.RWMutex
	providers map[string]*providerState

	now func() time.Time
}

// NewManager creates a Manager with the given configuration.
func NewManager(cfg Config) *Manager {
	cfg.Validate()
	return &Manager{
		cfg:       cfg,
		providers: make(map[string]*providerState),
		now:       time.Now,
	}
}

// state returns the provider's entry, creating it on first use.
func (m *Manager) state(providerID string) *providerState {
	m.mu.RLock()
	s, ok := m.providers[providerID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok = m.providers[providerID]; ok {
		return s
	}
	s = &providerState{}
	m.providers[providerID] = s
	return s
}

// RecordRateLimit registers a 429 from the provider and recomputes its
// cooldown window from the new consecutive error count.
func (m *Manager) RecordRateLimit(providerID string) {
	s := m.state(providerID)
	now := m.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.errorCount++
	s.totalErrors++
	s.successCount = 0
	s.lastErrorAt = now
	s.cooldownUntil = now.Add(m.backoff(s.errorCount))
}

// RecordSuccess registers a successful call. Once the success streak
// reaches ResetSuccessCount while errors are present, the provider's
// error history clears in one step, not gradually.
func (m *Manager) RecordSuccess(providerID string) {
	s := m.state(providerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.successCount++
	if s.successCount >= m.cfg.ResetSuccessCount && s.errorCount > 0 {
		s.errorCount = 0
		s.successCount = 0
		s.cooldownUntil = time.Time{}
	}
}

// IsInCooldown reports whether the provider should be skipped right now.
func (m *Manager) IsInCooldown(providerID string) bool {
	return m.GetCooldownRemaining(providerID) > 0
}

// GetCooldownRemaining returns how long until the provider may be tried
// again, or zero when it is available.
func (m *Manager) GetCooldownRemaining(providerID string) time.Duration {
	m.mu.RLock()
	s, ok := m.providers[providerID]
	m.mu.RUnlock()
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.cooldownUntil.Sub(m.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ShouldNotifyAdmin reports whether the provider has crossed the error
// threshold and no notification went out within the notify interval.
// The manager only flags eligibility; dispatching the notification is the
// caller's concern. A true result marks the provider as notified.
func (m *Manager) ShouldNotifyAdmin(providerID string) bool {
	m.mu.RLock()
	s, ok := m.providers[providerID]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errorCount < m.cfg.NotifyAfterErrors {
		return false
	}
	now := m.now()
	if !s.notifiedAt.IsZero() && now.Sub(s.notifiedAt) < m.cfg.NotifyInterval {
		return false
	}
	s.notifiedAt = now
	return true
}

// ResetProvider is a manual admin override clearing one provider.
func (m *Manager) ResetProvider(providerID string) {
	m.mu.RLock()
	s, ok := m.providers[providerID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount = 0
	s.successCount = 0
	s.cooldownUntil = time.Time{}
	s.notifiedAt = time.Time{}
}

// ResetAll clears every provider.
func (m *Manager) ResetAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.providers))
	for id := range m.providers {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.ResetProvider(id)
	}
}

// Snapshot returns a read-only copy of every provider's state, for the
// status endpoint and for logging.
func (m *Manager) Snapshot() map[string]ProviderState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	out := make(map[string]ProviderState, len(m.providers))
	for id, s := range m.providers {
		s.mu.Lock()
		out[id] = ProviderState{
			ErrorCount:    s.errorCount,
			SuccessCount:  s.successCount,
			LastErrorAt:   s.lastErrorAt,
			CooldownUntil: s.cooldownUntil,
			TotalErrors:   s.totalErrors,
			InCooldown:    s.cooldownUntil.After(now),
		}
		s.mu.Unlock()
	}
	return out
}

// backoff computes min(base*2^(errorCount-1), max) with +-20% jitter.
func (m *Manager) backoff(errorCount int) time.Duration {
	if errorCount < 1 {
		errorCount = 1
	}

	d := m.cfg.BaseDelay
	for i := 1; i < errorCount; i++ {
		d *= 2
		if d >= m.cfg.MaxDelay {
			d = m.cfg.MaxDelay
			break
		}
	}
	if d > m.cfg.MaxDelay {
		d = m.cfg.MaxDelay
	}

	jitter := 1 - jitterFactor + 2*jitterFactor*rand.Float64()
	return time.Duration(float64(d) * jitter)
}
