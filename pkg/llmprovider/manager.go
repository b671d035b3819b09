package llmprovider

import (
	"context"
	"time"

	"guest-intent-engine/pkg/log"
	"guest-intent-engine/pkg/ratelimit"
)

// Manager walks the provider chain in priority order with fallback.
// Providers currently in rate-limit cooldown are skipped. Calls are
// strictly sequential so a cheaper provider is never bypassed needlessly.
type Manager struct {
	providers   []Provider
	limiter     *ratelimit.Manager
	logger      log.Logger
	chatTimeout time.Duration
}

// Result is a successful chain outcome.
type Result struct {
	Content  string
	Provider string
	Model    string
	Usage    *Usage
	Elapsed  time.Duration
}

// NewManager creates a Manager. providers must already be sorted by
// ascending priority (InitializeProviders guarantees this).
func NewManager(providers []Provider, limiter *ratelimit.Manager, logger log.Logger, chatTimeout time.Duration) *Manager {
	if chatTimeout <= 0 {
		chatTimeout = 15 * time.Second
	}
	return &Manager{
		providers:   providers,
		limiter:     limiter,
		logger:      logger,
		chatTimeout: chatTimeout,
	}
}

// Providers returns the chain in call order.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// Limiter exposes the rate-limit manager for status reporting.
func (m *Manager) Limiter() *ratelimit.Manager {
	return m.limiter
}

// ChatWithFallback tries each provider in priority order and returns the
// first success. A rate-limited provider is recorded and skipped for the
// remainder of its cooldown; any other failure advances the chain too.
// When every provider fails it returns ErrAllProvidersFailed; callers
// must degrade to a static fallback, never surface this to the guest.
func (m *Manager) ChatWithFallback(ctx context.Context, req *Request) (*Result, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	start := time.Now()

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if m.limiter.IsInCooldown(provider.ID()) {
			m.logger.Debugf(ctx, "Provider %s cooling down for %v, skipping",
				provider.ID(), m.limiter.GetCooldownRemaining(provider.ID()))
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, m.chatTimeout)
		resp, err := provider.Chat(callCtx, req)
		cancel()

		if err != nil {
			if isRateLimited(err) {
				m.limiter.RecordRateLimit(provider.ID())
				m.logger.Warnf(ctx, "Provider %s rate limited, cooling for %v",
					provider.ID(), m.limiter.GetCooldownRemaining(provider.ID()))
				if m.limiter.ShouldNotifyAdmin(provider.ID()) {
					m.logger.Error(ctx, "Provider repeatedly rate limited, admin attention needed",
						"provider", provider.ID())
				}
				continue
			}

			m.logger.Warnf(ctx, "Provider %s failed: %v", provider.ID(), err)
			continue
		}

		m.limiter.RecordSuccess(provider.ID())
		m.logger.Info(ctx, "Chat completion successful",
			"provider", provider.Name(),
			"model", provider.Model(),
			"elapsed", time.Since(start).String(),
		)

		return &Result{
			Content:  resp.Content,
			Provider: provider.Name(),
			Model:    provider.Model(),
			Usage:    resp.Usage,
			Elapsed:  time.Since(start),
		}, nil
	}

	return nil, &ProviderError{Provider: "chain", Err: ErrAllProvidersFailed}
}

// SmartSubset returns a Manager restricted to smart-fallback providers:
// those on the explicit allow-list, or, when the list is empty, those
// flagged smart or holding priority <= 1. Returns nil when no provider
// qualifies; the caller then keeps its original result.
func (m *Manager) SmartSubset(allowList []string) *Manager {
	allowed := make(map[string]bool, len(allowList))
	for _, id := range allowList {
		allowed[id] = true
	}

	var smart []Provider
	for _, p := range m.providers {
		if len(allowList) > 0 {
			if allowed[p.ID()] {
				smart = append(smart, p)
			}
			continue
		}
		if p.Smart() || p.Priority() <= 1 {
			smart = append(smart, p)
		}
	}

	if len(smart) == 0 {
		return nil
	}

	return &Manager{
		providers:   smart,
		limiter:     m.limiter,
		logger:      m.logger,
		chatTimeout: m.chatTimeout,
	}
}
