package matcher

import "guest-intent-engine/internal/model"

// indexEntry is one flattened (intent, normalized keyword, language)
// triple derived from the configured keyword sets.
type indexEntry struct {
	intent   string
	keyword  string
	words    int
	language model.Language
}

// Matcher is the approximate keyword matcher. The index is built once
// from the loaded keyword sets and never mutated, so the Matcher is safe
// for concurrent use.
type Matcher struct {
	index []indexEntry
}
