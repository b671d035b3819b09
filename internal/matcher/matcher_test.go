package matcher

import (
	"strings"
	"testing"

	"guest-intent-engine/internal/model"
)

func testIntents() []model.KeywordIntent {
	return []model.KeywordIntent{
		{Intent: "wifi", Keywords: []string{"wifi", "wifi password", "internet not working"}},
		{Intent: "thanks", Keywords: []string{"thanks", "thank you"}},
		{Intent: "booking", Keywords: []string{"book a room", "make a reservation"}},
		{Intent: "checkin", Keywords: []string{"check in", "what time is check in today"}},
		{Intent: "wifi_zh", Language: model.LanguageChinese, Keywords: []string{"密码", "无线网络"}},
		{Intent: "facilities_ms", Language: model.LanguageMalay, Keywords: []string{"kolam renang"}},
	}
}

func TestMatchExactKeywords(t *testing.T) {
	m := New(testIntents())

	// Every loaded (intent, keyword) pair must match itself, any case.
	for _, set := range testIntents() {
		for _, keyword := range set.Keywords {
			got := m.Match(strings.ToUpper(keyword), "")
			if got == nil {
				t.Errorf("Match(%q) = nil, want intent %s", keyword, set.Intent)
				continue
			}
			if got.Intent != set.Intent {
				t.Errorf("Match(%q) intent = %s, want %s", keyword, got.Intent, set.Intent)
			}
			if got.Score <= 0.9 {
				t.Errorf("Match(%q) score = %.3f, want > 0.9", keyword, got.Score)
			}
		}
	}
}

func TestMatchTypoTolerance(t *testing.T) {
	m := New(testIntents())

	got := m.Match("thnks", "")
	if got == nil {
		t.Fatal("Match(\"thnks\") = nil, want thanks")
	}
	if got.Intent != "thanks" {
		t.Errorf("intent = %s, want thanks", got.Intent)
	}
	if got.Score <= 0.6 {
		t.Errorf("score = %.3f, want > 0.6", got.Score)
	}
}

func TestMatchKeywordInsideSentence(t *testing.T) {
	m := New(testIntents())

	got := m.Match("hey, what is the wifi password please", "")
	if got == nil || got.Intent != "wifi" {
		t.Fatalf("expected wifi intent, got %+v", got)
	}
	if got.Score < 0.9 {
		t.Errorf("aligned window should score high, got %.3f", got.Score)
	}
}

func TestMatchNoHit(t *testing.T) {
	m := New(testIntents())

	if got := m.Match("zzzz qqqq xxxx", ""); got != nil {
		t.Errorf("expected nil for garbage input, got %+v", got)
	}
}

func TestMatchAllSortedAndThresholded(t *testing.T) {
	m := New(testIntents())

	results := m.MatchAll("thanks for fixing the wifi", 0.5)
	if len(results) == 0 {
		t.Fatal("expected hits for thanks + wifi")
	}
	for i, r := range results {
		if r.Score < 0.5 {
			t.Errorf("result %d score %.3f below threshold", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("results not sorted descending at %d", i)
		}
	}

	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.Intent] {
			t.Errorf("intent %s appears twice, want one hit per intent", r.Intent)
		}
		seen[r.Intent] = true
	}
}

func TestSubstringFallbackPrefersLongest(t *testing.T) {
	m := New([]model.KeywordIntent{
		{Intent: "checkin", Keywords: []string{"what time is check in"}},
		{Intent: "checkin_full", Keywords: []string{"what time is check in and check out"}},
	})

	got := m.Match("hello sir can you tell me what time is check in and check out for my stay next week because i will arrive late", "")
	if got == nil {
		t.Fatal("expected substring fallback hit")
	}
	if got.Intent != "checkin_full" {
		t.Errorf("longest keyword should win, got %s", got.Intent)
	}
	if got.Score != SubstringConfidence {
		t.Errorf("substring hits carry fixed confidence %.2f, got %.3f", SubstringConfidence, got.Score)
	}
}

func TestSubstringFallbackIgnoresShortPhrases(t *testing.T) {
	m := New([]model.KeywordIntent{
		{Intent: "wifi", Keywords: []string{"the wifi here"}}, // 3 words, too short
	})

	long := "could someone explain why the wifi here keeps dropping every few minutes since yesterday evening"
	if got := m.Match(long, ""); got != nil && got.Score == SubstringConfidence {
		t.Errorf("short phrase must not take the substring path, got %+v", got)
	}
}

func TestMatchChineseContainment(t *testing.T) {
	m := New(testIntents())

	got := m.Match("请问密码是多少", model.LanguageChinese)
	if got == nil || got.Intent != "wifi_zh" {
		t.Fatalf("expected wifi_zh via containment, got %+v", got)
	}
}

func TestLanguageFilterFallsBackWhenEmpty(t *testing.T) {
	m := New([]model.KeywordIntent{
		{Intent: "wifi_zh", Language: model.LanguageChinese, Keywords: []string{"无线网络"}},
	})

	// Malay filter leaves nothing; the full index must be consulted.
	got := m.Match("无线网络", model.LanguageMalay)
	if got == nil || got.Intent != "wifi_zh" {
		t.Errorf("empty filtered set must fall back to full index, got %+v", got)
	}
}
