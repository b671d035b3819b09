package language

import (
	"regexp"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"guest-intent-engine/internal/model"
)

// cjkPattern matches CJK unified ideographs; any hit implies Chinese.
var cjkPattern = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3400}-\x{4dbf}]`)

// Router performs cheap language detection for keyword filtering.
// Detection is three-stage: CJK codepoint scan, function-word counting,
// then a statistical identifier for whatever remains.
type Router struct {
	minLength int
	cache     *expirable.LRU[string, model.Language]

	englishWords map[string]bool
	malayWords   map[string]bool
}

// NewRouter creates a Router. minLength <= 0 selects the default.
func NewRouter(minLength int) *Router {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	r := &Router{
		minLength:    minLength,
		cache:        expirable.NewLRU[string, model.Language](cacheSize, nil, 10*time.Minute),
		englishWords: make(map[string]bool, len(englishFunctionWords)),
		malayWords:   make(map[string]bool, len(malayFunctionWords)),
	}
	for _, w := range englishFunctionWords {
		r.englishWords[w] = true
	}
	for _, w := range malayFunctionWords {
		r.malayWords[w] = true
	}
	return r
}

// DetectLanguage classifies text as en, ms, zh, or unknown.
func (r *Router) DetectLanguage(text string) model.Language {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < r.minLength {
		return model.LanguageUnknown
	}

	if lang, ok := r.cache.Get(trimmed); ok {
		return lang
	}

	lang := r.detect(trimmed)
	r.cache.Add(trimmed, lang)
	return lang
}

func (r *Router) detect(text string) model.Language {
	// Fast path: any CJK character implies Chinese.
	if cjkPattern.MatchString(text) {
		return model.LanguageChinese
	}

	// Function-word counting. A strict winner decides; ties fall through.
	enHits, msHits := 0, 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")
		if r.englishWords[word] {
			enHits++
		}
		if r.malayWords[word] {
			msHits++
		}
	}
	if enHits > msHits {
		return model.LanguageEnglish
	}
	if msHits > enHits {
		return model.LanguageMalay
	}

	// Statistical fallback.
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return model.LanguageUnknown
	}
	switch info.Lang {
	case whatlanggo.Eng:
		return model.LanguageEnglish
	case whatlanggo.Ind, whatlanggo.Jav:
		// Indonesian is the closest tag the identifier has for Malay.
		return model.LanguageMalay
	case whatlanggo.Cmn:
		return model.LanguageChinese
	default:
		return model.LanguageUnknown
	}
}

// FilterKeywordsByLanguage keeps intents whose language matches the
// detected one, is English, or is unset (language-agnostic).
func FilterKeywordsByLanguage(intents []model.KeywordIntent, lang model.Language) []model.KeywordIntent {
	if lang == model.LanguageUnknown || lang == "" {
		return intents
	}

	var out []model.KeywordIntent
	for _, intent := range intents {
		if intent.Language == lang || intent.Language == model.LanguageEnglish || intent.Language == "" {
			out = append(out, intent)
		}
	}
	return out
}
