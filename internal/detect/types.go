package detect

import (
	"context"

	"guest-intent-engine/config"
	"guest-intent-engine/internal/language"
	"guest-intent-engine/internal/matcher"
	"guest-intent-engine/internal/model"
	"guest-intent-engine/pkg/llmprovider"
	"guest-intent-engine/pkg/log"
)

// EmergencyClassifier is the Tier-1 regex detector, an external
// collaborator. A nil result means "no emergency signal".
type EmergencyClassifier interface {
	Classify(text string) *model.TierResult
}

// SemanticClassifier is the Tier-3 embedding-search collaborator.
type SemanticClassifier interface {
	Classify(ctx context.Context, text string, recent []model.ChatMessage) (*model.TierResult, error)
}

// Service sequences the four-tier classification cascade.
type Service struct {
	cfg      config.DetectionConfig
	matcher  *matcher.Matcher
	language *language.Router
	llm      *llmprovider.Manager

	// Optional tier collaborators; nil disables the tier.
	emergency EmergencyClassifier
	semantic  SemanticClassifier

	intents map[string]bool
	l       log.Logger
}

// Detection is one cascade outcome with its diagnostics.
type Detection struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
	Tier   string  `json:"tier"`

	// Matched keyword / context boost, present on Tier-2 hits.
	MatchedKeyword string `json:"matched_keyword,omitempty"`
	ContextBoost   bool   `json:"context_boost,omitempty"`
}

// ReplyResult is the GenerateReplyOnly outcome.
type ReplyResult struct {
	Response     string  `json:"response"`
	Confidence   float64 `json:"confidence"`
	Model        string  `json:"model,omitempty"`
	ResponseTime int64   `json:"response_time_ms,omitempty"`
}
