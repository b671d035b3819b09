package detect

// effectiveThreshold resolves the bar an intent must clear on a tier.
// A per-intent per-tier override or a per-intent minConfidence, when
// present, replaces the tier's global threshold; if both are present the
// stricter one wins.
func (s *Service) effectiveThreshold(intent string, global float64, tier string) float64 {
	var overrides map[string]float64
	switch tier {
	case TierKeyword:
		overrides = s.cfg.T2Threshold
	case TierSemantic:
		overrides = s.cfg.T3Threshold
	}

	tierOverride, hasTier := overrides[intent]
	minConf, hasMin := s.cfg.MinConfidence[intent]

	switch {
	case hasTier && hasMin:
		if tierOverride > minConf {
			return tierOverride
		}
		return minConf
	case hasTier:
		return tierOverride
	case hasMin:
		return minConf
	default:
		return global
	}
}

// checkTierThreshold reports whether a tier result is confident enough
// to stop the cascade.
func (s *Service) checkTierThreshold(intent string, score, global float64, tier string) bool {
	return score >= s.effectiveThreshold(intent, global, tier)
}
