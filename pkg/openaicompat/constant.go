package openaicompat

import "time"

const (
	// DefaultTimeout bounds every chat completion call.
	DefaultTimeout = 15 * time.Second
)
