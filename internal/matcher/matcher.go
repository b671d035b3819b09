package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"guest-intent-engine/internal/model"
)

// Match runs the approximate search and returns the best hit, or nil when
// nothing clears the match threshold and the substring fallback finds
// nothing either. langFilter narrows the index to same-language,
// language-agnostic, and English entries; an empty filtered result set
// falls back to the full index rather than silently returning nothing.
func (m *Matcher) Match(text string, langFilter model.Language) *model.FuzzyMatchResult {
	results := m.scan(text, langFilter)

	var best *model.FuzzyMatchResult
	for i := range results {
		if results[i].Score < 1-MatchThreshold {
			continue
		}
		if best == nil || results[i].Score > best.Score {
			best = &results[i]
		}
	}

	if best == nil || best.Score < 0.70 {
		if sub := m.substringFallback(text); sub != nil {
			return sub
		}
	}

	return best
}

// MatchAll returns the best hit per intent scoring at least threshold,
// sorted by score descending. Ties keep index order. Hits collapse to one
// per intent; a keyword list never puts its intent in the result twice.
func (m *Matcher) MatchAll(text string, threshold float64) []model.FuzzyMatchResult {
	results := m.scan(text, "")

	var out []model.FuzzyMatchResult
	for _, r := range results {
		if r.Score >= threshold {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// scan scores the whole index against text, keeping the best keyword per
// intent. Results come back in index order, unsorted and unfiltered by
// threshold.
func (m *Matcher) scan(text string, langFilter model.Language) []model.FuzzyMatchResult {
	norm := normalize(text)
	if norm == "" {
		return nil
	}
	words := strings.Fields(norm)

	entries := m.filterByLanguage(langFilter)

	bestByIntent := make(map[string]int)
	var results []model.FuzzyMatchResult

	for _, e := range entries {
		score := scoreEntry(norm, words, e)
		if score <= 0 {
			continue
		}

		if idx, ok := bestByIntent[e.intent]; ok {
			if score > results[idx].Score {
				results[idx].Score = score
				results[idx].MatchedKeyword = e.keyword
			}
			continue
		}

		bestByIntent[e.intent] = len(results)
		results = append(results, model.FuzzyMatchResult{
			Intent:         e.intent,
			Score:          score,
			MatchedKeyword: e.keyword,
		})
	}

	return results
}

// filterByLanguage narrows the index for a language filter, falling back
// to the full index when the filter leaves nothing.
func (m *Matcher) filterByLanguage(langFilter model.Language) []indexEntry {
	if langFilter == "" || langFilter == model.LanguageUnknown {
		return m.index
	}

	var filtered []indexEntry
	for _, e := range m.index {
		if e.language == langFilter || e.language == model.LanguageEnglish || e.language == "" {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return m.index
	}
	return filtered
}

// scoreEntry computes 1 - normalized edit distance between the keyword
// and the closest-matching span of the text: the whole text, or any
// window of the same word count as the keyword. CJK keywords additionally
// match by literal containment since the text carries no word boundaries.
func scoreEntry(norm string, words []string, e indexEntry) float64 {
	best := levScore(norm, e.keyword)

	if e.words >= 1 && e.words <= len(words) {
		for i := 0; i+e.words <= len(words); i++ {
			window := strings.Join(words[i:i+e.words], " ")
			if s := levScore(window, e.keyword); s > best {
				best = s
			}
		}
	}

	if containsCJK(e.keyword) && strings.Contains(norm, e.keyword) {
		best = 1.0
	}

	return best
}

// levScore is confidence from normalized levenshtein distance.
func levScore(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 0
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(maxLen)
}

// substringFallback scans long, specific keywords for literal containment.
// Only phrases of at least SubstringMinWords words and SubstringMinChars
// characters participate; among hits the longest keyword (most specific)
// wins, at a fixed confidence.
func (m *Matcher) substringFallback(text string) *model.FuzzyMatchResult {
	norm := normalize(text)
	if norm == "" {
		return nil
	}

	var best *indexEntry
	for i := range m.index {
		e := &m.index[i]
		if e.words < SubstringMinWords || len(e.keyword) < SubstringMinChars {
			continue
		}
		if !strings.Contains(norm, e.keyword) {
			continue
		}
		if best == nil || len(e.keyword) > len(best.keyword) {
			best = e
		}
	}

	if best == nil {
		return nil
	}
	return &model.FuzzyMatchResult{
		Intent:         best.intent,
		Score:          SubstringConfidence,
		MatchedKeyword: best.keyword,
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
