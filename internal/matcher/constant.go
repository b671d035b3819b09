package matcher

import "regexp"

const (
	// MatchThreshold is the normalized-distance ceiling for an index hit
	// (0 = exact only, 1 = anything). Confidence = 1 - normalized distance,
	// so hits score at least 1 - MatchThreshold.
	MatchThreshold = 0.3

	// MinMatchLength drops keywords too short to match meaningfully.
	MinMatchLength = 2

	// SubstringMinWords and SubstringMinChars gate the substring fallback
	// to long, specific phrases. Generic short keywords would otherwise
	// claim a fixed high confidence on trivial containment.
	SubstringMinWords = 4
	SubstringMinChars = 18

	// SubstringConfidence is the fixed confidence for a containment hit.
	SubstringConfidence = 0.95

	// DirectMatchBar: a direct result at or above this score is confident
	// enough that the context continuation rules stay out of it.
	DirectMatchBar = 0.80
)

// Context-continuation patterns, compiled once. Each covers English,
// Malay, and Chinese variants.
var (
	datePattern = regexp.MustCompile(
		`\b(tomorrow|today|tonight|next week|this weekend|monday|tuesday|wednesday|thursday|friday|saturday|sunday|esok|lusa|hari ini|malam ini|minggu depan)\b` +
			`|明天|今天|今晚|后天|下周|这个周末` +
			`|\b\d{1,2}[/-]\d{1,2}\b`)

	quantityPattern = regexp.MustCompile(
		`\b\d+\s*(night|nights|day|days|room|rooms|pax|person|people|guest|guests|malam|hari|bilik|orang)\b` +
			`|\d+\s*[晚天间人位]`)

	confirmPattern = regexp.MustCompile(
		`\b(yes|yeah|yep|ok|okay|sure|confirm|confirmed|boleh|ya|baik|baiklah|setuju)\b` +
			`|是的|好的|好|确认|可以|行`)

	questionPattern = regexp.MustCompile(
		`\b(where|how|what time|when|which|mana|di mana|bagaimana|macam mana|pukul berapa|bila)\b` +
			`|哪里|在哪|怎么|几点|什么时候`)
)

// Context rule scores.
const (
	contextBookingDateScore    = 0.90
	contextBookingConfirmScore = 0.85
	contextComplaintScore      = 0.88
	contextFacilitiesScore     = 0.85

	contextComplaintMinLen = 5
	contextComplaintMaxLen = 100
)
