// Package parser turns raw model output into a validated AIResponse.
// Every strategy in the recovery chain returns a success/failure result;
// the chain is total: no input can make it panic or error out.
package parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"guest-intent-engine/internal/model"
)

// Parse recovers a structured AIResponse from raw model output. The
// strategies run in order: direct JSON parse, rightmost-brace recovery,
// trailing-JSON-block prose split, fixed fallback. knownIntents is the
// live configured intent set; anything outside it is coerced to
// "general".
func Parse(raw string, knownIntents map[string]bool) model.AIResponse {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback()
	}

	// Strategy 1: the whole text is a JSON object.
	if doc, ok := parseObject(trimmed); ok {
		return extract(doc, knownIntents)
	}

	// Strategy 2: rightmost plausible {...} span. Anchor on the last '}'
	// and walk candidate opening braces backward until one parses.
	if doc, ok := rightmostObject(trimmed); ok {
		return extract(doc, knownIntents)
	}

	// Strategy 3: prose followed by a (truncated) JSON block. The prose
	// is the reply; the broken block is discarded.
	if prose, ok := proseBeforeJSONBlock(trimmed); ok {
		return model.AIResponse{
			Intent:     model.IntentGeneral,
			Action:     model.ActionReply,
			Response:   prose,
			Confidence: 0.5,
		}
	}

	// Strategy 4: nothing parsed.
	return fallback()
}

func fallback() model.AIResponse {
	return model.AIResponse{
		Intent:     model.IntentGeneral,
		Action:     model.ActionReply,
		Response:   "",
		Confidence: 0.5,
	}
}

// parseObject reports whether s is a valid JSON object.
func parseObject(s string) (gjson.Result, bool) {
	if !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(s)
	return doc, doc.IsObject()
}

// rightmostObject scans backward from the last '}' for an opening brace
// that yields a parseable object.
func rightmostObject(s string) (gjson.Result, bool) {
	end := strings.LastIndex(s, "}")
	if end < 0 {
		return gjson.Result{}, false
	}

	for start := strings.LastIndex(s[:end], "{"); start >= 0; start = strings.LastIndex(s[:start], "{") {
		candidate := s[start : end+1]
		if doc, ok := parseObject(candidate); ok {
			return doc, true
		}
	}
	return gjson.Result{}, false
}

// proseBeforeJSONBlock handles output shaped like a human-readable answer
// followed by "\n\n{...". When the prose itself does not look like JSON
// it is returned verbatim as the reply.
func proseBeforeJSONBlock(s string) (string, bool) {
	idx := strings.LastIndex(s, "\n\n{")
	if idx <= 0 {
		return "", false
	}

	prose := strings.TrimSpace(s[:idx])
	if prose == "" || looksLikeJSON(prose) {
		return "", false
	}
	return prose, true
}

// extract performs field-level recovery: each field is taken only when
// well-typed and in-range, otherwise replaced with its safe default. A
// fully valid document passes through unchanged apart from intent
// coercion and JSON-leak stripping.
func extract(doc gjson.Result, knownIntents map[string]bool) model.AIResponse {
	out := fallback()

	if intent := doc.Get("intent"); intent.Type == gjson.String {
		if knownIntents[intent.Str] {
			out.Intent = intent.Str
		}
	}

	if action := doc.Get("action"); action.Type == gjson.String {
		if a := model.Action(action.Str); model.ValidAction(a) {
			out.Action = a
		}
	}

	if response := doc.Get("response"); response.Type == gjson.String {
		// Never leak raw structure to the guest.
		if !looksLikeJSON(response.Str) {
			out.Response = response.Str
		}
	}

	if confidence := doc.Get("confidence"); confidence.Type == gjson.Number {
		out.Confidence = model.Clamp01(confidence.Num)
	}

	return out
}

// looksLikeJSON is the leak heuristic: trimmed text starting with '{' or
// '[{' and carrying a quote is structure, not prose.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "[{") {
		return false
	}
	return strings.Contains(t, `"`)
}
