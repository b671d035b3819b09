package detect

import (
	"guest-intent-engine/config"
	"guest-intent-engine/internal/language"
	"guest-intent-engine/internal/matcher"
	"guest-intent-engine/pkg/llmprovider"
	"guest-intent-engine/pkg/log"
)

// Deps is the dependency bag passed to New().
type Deps struct {
	Config   config.DetectionConfig
	Matcher  *matcher.Matcher
	Language *language.Router
	LLM      *llmprovider.Manager

	// Optional tiers.
	Emergency EmergencyClassifier
	Semantic  SemanticClassifier

	// RoutingIntents is the live set of valid intent names.
	RoutingIntents []string

	Logger log.Logger
}

// New creates the cascade service.
func New(deps Deps) *Service {
	intents := make(map[string]bool, len(deps.RoutingIntents)+1)
	for _, name := range deps.RoutingIntents {
		intents[name] = true
	}
	intents["general"] = true

	return &Service{
		cfg:       deps.Config,
		matcher:   deps.Matcher,
		language:  deps.Language,
		llm:       deps.LLM,
		emergency: deps.Emergency,
		semantic:  deps.Semantic,
		intents:   intents,
		l:         deps.Logger,
	}
}
