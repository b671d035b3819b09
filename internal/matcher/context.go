package matcher

import (
	"strings"
	"unicode/utf8"

	"guest-intent-engine/internal/model"
)

// MatchWithContext runs the direct match first and, when it is absent or
// weak, applies the conversation continuation rules. The rules never fire
// without a lastIntent and at least one prior message, and they never
// override a confident direct match.
func (m *Matcher) MatchWithContext(text string, recentMessages []model.ChatMessage, lastIntent string, langFilter model.Language) *model.FuzzyMatchResult {
	direct := m.Match(text, langFilter)
	if direct != nil && direct.Score >= DirectMatchBar {
		return direct
	}

	if lastIntent == "" || len(recentMessages) == 0 {
		return direct
	}

	if boosted := continuation(text, lastIntent); boosted != nil {
		return boosted
	}
	return direct
}

// continuation applies the per-intent follow-up rules to a short reply
// that only makes sense given what the guest was just talking about.
func continuation(text, lastIntent string) *model.FuzzyMatchResult {
	norm := normalize(text)
	if norm == "" {
		return nil
	}

	switch lastIntent {
	case "booking", "availability":
		// "tomorrow", "2 nights": the guest is continuing the booking.
		if datePattern.MatchString(norm) || quantityPattern.MatchString(norm) {
			return &model.FuzzyMatchResult{
				Intent:       "booking",
				Score:        contextBookingDateScore,
				ContextBoost: true,
			}
		}
		if confirmPattern.MatchString(norm) {
			return &model.FuzzyMatchResult{
				Intent:       "booking",
				Score:        contextBookingConfirmScore,
				ContextBoost: true,
			}
		}

	case "complaint":
		// Mid-length free text right after a complaint is elaboration.
		// Counted in runes so CJK text gets the same window.
		if n := utf8.RuneCountInString(strings.TrimSpace(text)); n > contextComplaintMinLen && n < contextComplaintMaxLen {
			return &model.FuzzyMatchResult{
				Intent:       "complaint",
				Score:        contextComplaintScore,
				ContextBoost: true,
			}
		}

	case "facilities":
		if questionPattern.MatchString(norm) {
			return &model.FuzzyMatchResult{
				Intent:       "facilities",
				Score:        contextFacilitiesScore,
				ContextBoost: true,
			}
		}
	}

	return nil
}
