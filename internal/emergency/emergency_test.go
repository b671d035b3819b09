package emergency

import "testing"

func TestClassifyHits(t *testing.T) {
	cases := []string{
		"THERE IS A FIRE IN MY ROOM",
		"someone broke in, call the police",
		"I smell gas in the corridor",
		"my husband is unconscious, we need an ambulance",
		"kebakaran di tingkat 3, tolong saya",
		"ada pecah masuk di bilik saya",
		"房间着火了",
		"救命，有人闯入我的房间",
	}

	c := New()
	for _, text := range cases {
		r := c.Classify(text)
		if r == nil {
			t.Errorf("expected emergency for %q", text)
			continue
		}
		if r.Intent != Intent || r.Score != Score {
			t.Errorf("unexpected result for %q: %+v", text, r)
		}
	}
}

func TestClassifyDeclines(t *testing.T) {
	cases := []string{
		"",
		"what time is breakfast",
		"the fireplace photo on your website looks great", // "fireplace" must not trip the fire pattern
		"I want to book a room for two nights",
		"boleh saya tahu kata laluan wifi",
		"请问早餐几点开始",
	}

	c := New()
	for _, text := range cases {
		if r := c.Classify(text); r != nil {
			t.Errorf("expected no emergency for %q, got %+v", text, r)
		}
	}
}
