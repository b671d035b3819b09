package matcher

import (
	"strings"

	"guest-intent-engine/internal/model"
)

// New builds a Matcher from the loaded keyword sets. Keywords are
// normalized (lowercased, trimmed) into a flattened index; entries
// shorter than MinMatchLength are dropped.
func New(intents []model.KeywordIntent) *Matcher {
	m := &Matcher{}
	for _, set := range intents {
		for _, keyword := range set.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(keyword))
			if len([]rune(normalized)) < MinMatchLength {
				continue
			}
			m.index = append(m.index, indexEntry{
				intent:   set.Intent,
				keyword:  normalized,
				words:    len(strings.Fields(normalized)),
				language: set.Language,
			})
		}
	}
	return m
}
