package detect

import (
	"context"
	"time"

	"guest-intent-engine/internal/model"
)

// DetectIntentWithThinking runs the cascade, firing onThinking exactly
// once if classification is still in flight after ThinkingDelay. Fast
// paths (Tiers 1-3, warm providers) finish first and the callback never
// fires. onThinking may be nil.
func (s *Service) DetectIntentWithThinking(ctx context.Context, text string, conv model.ConversationContext, onThinking func()) *Detection {
	if onThinking == nil {
		return s.DetectIntent(ctx, text, conv)
	}

	timer := time.AfterFunc(ThinkingDelay, onThinking)
	defer timer.Stop()

	return s.DetectIntent(ctx, text, conv)
}
