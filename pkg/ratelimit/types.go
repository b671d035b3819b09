package ratelimit

import (
	"sync"
	"time"
)

// Config tunes the cooldown bookkeeping.
type Config struct {
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	ResetSuccessCount int
	NotifyAfterErrors int
	NotifyInterval    time.Duration
}

// Validate fills zero values with defaults.
func (c *Config) Validate() {
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.ResetSuccessCount <= 0 {
		c.ResetSuccessCount = DefaultResetSuccessCount
	}
	if c.NotifyAfterErrors <= 0 {
		c.NotifyAfterErrors = DefaultNotifyAfterErrors
	}
	if c.NotifyInterval <= 0 {
		c.NotifyInterval = DefaultNotifyInterval
	}
}

// providerState is one provider's rate-limit bookkeeping. Entries are
// created lazily on first failure and live for the process lifetime.
// Each entry carries its own lock so providers never contend with each
// other.
type providerState struct {
	mu sync.Mutex

	errorCount    int
	successCount  int
	lastErrorAt   time.Time
	cooldownUntil time.Time
	totalErrors   int
	notifiedAt    time.Time
}

// ProviderState is a read-only snapshot of one provider's state.
type ProviderState struct {
	ErrorCount    int       `json:"error_count"`
	SuccessCount  int       `json:"success_count"`
	LastErrorAt   time.Time `json:"last_error_at,omitempty"`
	CooldownUntil time.Time `json:"cooldown_until,omitempty"`
	TotalErrors   int       `json:"total_errors"`
	InCooldown    bool      `json:"in_cooldown"`
}
