package ratelimit

import "time"

const (
	// DefaultBaseDelay is the cooldown after the first rate-limit error.
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 5 * time.Minute

	// DefaultResetSuccessCount is the success streak that fully clears a
	// provider's error history.
	DefaultResetSuccessCount = 3

	// DefaultNotifyAfterErrors is the error count at which the provider
	// becomes eligible for an admin notification.
	DefaultNotifyAfterErrors = 5

	// DefaultNotifyInterval is the minimum gap between admin
	// notifications for the same provider.
	DefaultNotifyInterval = time.Hour

	// jitterFactor spreads cooldowns +-20% so concurrent callers do not
	// retry in lockstep.
	jitterFactor = 0.2
)
