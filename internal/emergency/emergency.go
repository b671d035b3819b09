// Package emergency is the cascade's first tier: a set of precompiled
// patterns for situations that must never wait on a language model.
package emergency

import (
	"regexp"
	"strings"

	"guest-intent-engine/internal/model"
)

const (
	// Intent assigned to every pattern hit.
	Intent = "emergency"

	// Confidence of a pattern hit. High enough to clear any sane
	// tier threshold; not 1.0 so logs can tell regex hits apart from
	// hand-labelled data.
	Score = 0.98
)

var patterns = []*regexp.Regexp{
	// Fire and smoke.
	regexp.MustCompile(`\b(fire|smoke|burning|on fire)\b`),
	regexp.MustCompile(`\b(kebakaran|api|asap)\b`),
	regexp.MustCompile(`着火|起火|冒烟|火灾|失火`),

	// Medical.
	regexp.MustCompile(`\b(heart attack|can'?t breathe|unconscious|bleeding|ambulance|medical emergency|seizure)\b`),
	regexp.MustCompile(`\b(serangan jantung|tidak sedarkan diri|pendarahan|ambulans|kecemasan perubatan)\b`),
	regexp.MustCompile(`心脏病|昏迷|不省人事|流血不止|救护车|呼吸困难`),

	// Security and crime.
	regexp.MustCompile(`\b(break[ -]?in|intruder|robbery|robbed|assault(ed)?|attack(ed)?|stolen|theft)\b`),
	regexp.MustCompile(`\b(pecah masuk|penceroboh|rompakan|dirompak|diserang|kecurian|dicuri)\b`),
	regexp.MustCompile(`被偷|被抢|小偷|闯入|抢劫|袭击`),

	// Gas, flooding, structural.
	regexp.MustCompile(`\b(gas leak|smell gas|flood(ing|ed)?|ceiling (fell|collapsed)|electric shock)\b`),
	regexp.MustCompile(`\b(kebocoran gas|bau gas|banjir|renjatan elektrik)\b`),
	regexp.MustCompile(`煤气泄漏|漏气|淹水|漏水严重|触电`),

	// Explicit calls for help.
	regexp.MustCompile(`\b(emergency|help me|call (the )?(police|911|999))\b`),
	regexp.MustCompile(`\b(kecemasan|tolong saya|panggil polis)\b`),
	regexp.MustCompile(`紧急|救命|报警`),
}

// Classifier matches guest text against the emergency pattern set.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify returns an emergency result on the first pattern hit, nil
// otherwise.
func (c *Classifier) Classify(text string) *model.TierResult {
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" {
		return nil
	}
	for _, p := range patterns {
		if p.MatchString(norm) {
			return &model.TierResult{Intent: Intent, Score: Score}
		}
	}
	return nil
}
