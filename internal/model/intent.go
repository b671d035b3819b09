package model

// IntentGeneral is the catch-all intent every unknown classification
// collapses to. It must always be present in the configured intent set's
// semantics even when the admin never declares it.
const IntentGeneral = "general"

// Language is a supported guest language tag.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageMalay   Language = "ms"
	LanguageChinese Language = "zh"
	LanguageUnknown Language = "unknown"
)

// KeywordIntent is one admin-configured intent with its trigger keywords.
// Loaded once at startup and never mutated afterwards.
type KeywordIntent struct {
	Intent   string   `json:"intent"`
	Keywords []string `json:"keywords"`
	Language Language `json:"language,omitempty"` // empty = language-agnostic
}

// FuzzyMatchResult is a single keyword-matcher hit.
type FuzzyMatchResult struct {
	Intent         string  `json:"intent"`
	Score          float64 `json:"score"`
	MatchedKeyword string  `json:"matched_keyword,omitempty"`
	ContextBoost   bool    `json:"context_boost,omitempty"`
}

// TierResult is the {intent, score} shape every tier classifier returns.
type TierResult struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}
