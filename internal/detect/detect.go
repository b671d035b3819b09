package detect

import (
	"context"

	"guest-intent-engine/internal/matcher"
	"guest-intent-engine/internal/model"
)

// DetectIntent walks the cascade cheapest-first and returns the first
// tier result that clears its effective threshold. Disabled or unwired
// tiers are skipped. When Tiers 1-3 all decline, the LLM tier's answer is
// returned regardless of its confidence; the LLM has no reject path
// short of total provider failure.
func (s *Service) DetectIntent(ctx context.Context, text string, conv model.ConversationContext) *Detection {
	d, _ := s.ClassifyMessage(ctx, text, conv)
	return d
}

// ClassifyMessage is DetectIntent plus the generated reply when the LLM
// tier produced the answer. For Tiers 1-3 the reply is nil; the caller
// routes the intent itself.
func (s *Service) ClassifyMessage(ctx context.Context, text string, conv model.ConversationContext) (*Detection, *model.AIResponse) {
	// Tier 1: regex emergency detector.
	if s.cfg.Tier1.Enabled && s.emergency != nil {
		if r := s.emergency.Classify(text); r != nil {
			if s.checkTierThreshold(r.Intent, r.Score, s.cfg.Tier1.Threshold, TierEmergency) {
				s.l.Info(ctx, "Intent accepted", "tier", TierEmergency, "intent", r.Intent, "score", r.Score)
				return &Detection{Intent: r.Intent, Score: r.Score, Tier: TierEmergency}, nil
			}
		}
	}

	// Tier 2: fuzzy keyword matcher with context continuation.
	if s.cfg.Tier2.Enabled {
		lang := s.language.DetectLanguage(text)
		recent := lastN(conv.Recent, s.cfg.Tier2.ContextMessages)
		if r := s.matcher.MatchWithContext(text, recent, conv.LastIntent, lang); r != nil {
			if s.checkTierThreshold(r.Intent, r.Score, s.cfg.Tier2.Threshold, TierKeyword) {
				s.l.Info(ctx, "Intent accepted", "tier", TierKeyword, "intent", r.Intent, "score", r.Score)
				return &Detection{
					Intent:         r.Intent,
					Score:          r.Score,
					Tier:           TierKeyword,
					MatchedKeyword: r.MatchedKeyword,
					ContextBoost:   r.ContextBoost,
				}, nil
			}
		}
	}

	// Tier 3: semantic similarity.
	if s.cfg.Tier3.Enabled && s.semantic != nil {
		recent := lastN(conv.Recent, s.cfg.Tier3.ContextMessages)
		r, err := s.semantic.Classify(ctx, text, recent)
		if err != nil {
			s.l.Warnf(ctx, "Semantic tier failed, falling through: %v", err)
		} else if r != nil {
			if s.checkTierThreshold(r.Intent, r.Score, s.cfg.Tier3.Threshold, TierSemantic) {
				s.l.Info(ctx, "Intent accepted", "tier", TierSemantic, "intent", r.Intent, "score", r.Score)
				return &Detection{Intent: r.Intent, Score: r.Score, Tier: TierSemantic}, nil
			}
		}
	}

	// Tier 4: LLM classification, accepted unconditionally.
	if s.cfg.Tier4.Enabled {
		resp := s.classifyLLM(ctx, text, conv)
		return &Detection{Intent: resp.Intent, Score: resp.Confidence, Tier: TierLLM}, &resp
	}

	// Nothing matched and the LLM tier is switched off. Serve the canned
	// reply without consulting any model.
	s.l.Warn(ctx, "No tier matched and the LLM tier is disabled")
	resp := s.staticFallback(text, model.ModelNone)
	return &Detection{Intent: resp.Intent, Score: resp.Confidence, Tier: TierLLM}, &resp
}

// KeywordCandidates lists every keyword intent the text plausibly
// matches, best first. Diagnostic only; the cascade never consults it.
func (s *Service) KeywordCandidates(text string) []model.FuzzyMatchResult {
	return s.matcher.MatchAll(text, 1-matcher.MatchThreshold)
}

// lastN returns the trailing n messages. The slice aliases the input;
// callers never mutate it.
func lastN(messages []model.ChatMessage, n int) []model.ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
