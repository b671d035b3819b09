package parser

import (
	"strings"
	"testing"

	"guest-intent-engine/internal/model"
)

func knownSet() map[string]bool {
	return map[string]bool{
		"wifi": true, "booking": true, "complaint": true, "general": true,
	}
}

// checkShape asserts the structural invariants that hold for every input.
func checkShape(t *testing.T, got model.AIResponse) {
	t.Helper()
	if got.Intent == "" {
		t.Error("intent must never be empty")
	}
	if !model.ValidAction(got.Action) {
		t.Errorf("action %q outside the fixed set", got.Action)
	}
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Errorf("confidence %.3f outside [0,1]", got.Confidence)
	}
}

func TestParseIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		`{"intent":"x"`, // truncated
		`{"intent":"wifi","action":"reply","response":"ok","confidence":0.8}`,
		"}}}}{{{{",
		strings.Repeat("{", 500),
		"\x00\xff binary garbage",
	}
	for _, in := range inputs {
		checkShape(t, Parse(in, knownSet()))
	}
}

func TestParseValidDocument(t *testing.T) {
	got := Parse(`{"intent":"wifi","action":"reply","response":"The password is guest123.","confidence":0.8}`, knownSet())
	if got.Intent != "wifi" || got.Action != model.ActionReply {
		t.Errorf("unexpected parse: %+v", got)
	}
	if got.Response != "The password is guest123." {
		t.Errorf("response mangled: %q", got.Response)
	}
	if got.Confidence != 0.8 {
		t.Errorf("confidence = %.3f, want 0.8", got.Confidence)
	}
}

func TestParseUnknownIntentCoerced(t *testing.T) {
	got := Parse(`{"intent":"pool_party","action":"reply","response":"ok","confidence":0.9}`, knownSet())
	if got.Intent != model.IntentGeneral {
		t.Errorf("hallucinated intent should coerce to general, got %s", got.Intent)
	}
}

func TestParseEmbeddedInProse(t *testing.T) {
	raw := "Sure! Here is the classification:\n" +
		`{"intent":"booking","action":"reply","response":"We have rooms.","confidence":0.75}` +
		"\nLet me know if you need anything else."
	got := Parse(raw, knownSet())
	if got.Intent != "booking" {
		t.Errorf("rightmost-brace recovery failed: %+v", got)
	}
	if got.Confidence != 0.75 {
		t.Errorf("confidence = %.3f, want 0.75", got.Confidence)
	}
}

func TestParseProseBeforeTruncatedBlock(t *testing.T) {
	raw := "The pool opens at 8am and closes at 10pm.\n\n{\"intent\":\"facil"
	got := Parse(raw, knownSet())
	if got.Response != "The pool opens at 8am and closes at 10pm." {
		t.Errorf("prose should become the reply, got %q", got.Response)
	}
	if got.Confidence != 0.5 {
		t.Errorf("prose replies carry confidence 0.5, got %.3f", got.Confidence)
	}
}

func TestParseJSONLeakStripped(t *testing.T) {
	raw := `{"intent":"wifi","action":"reply","response":"{\"nested\":\"structure\"}","confidence":0.9}`
	got := Parse(raw, knownSet())
	if got.Response != "" {
		t.Errorf("JSON-looking response must be nulled, got %q", got.Response)
	}
	if got.Intent != "wifi" {
		t.Errorf("other fields keep their values, got %s", got.Intent)
	}
}

func TestParsePartialRecovery(t *testing.T) {
	// action invalid, confidence out of range, intent known.
	raw := `{"intent":"complaint","action":"launch_rockets","response":"Sorry about that.","confidence":7}`
	got := Parse(raw, knownSet())
	if got.Intent != "complaint" {
		t.Errorf("valid intent should survive, got %s", got.Intent)
	}
	if got.Action != model.ActionReply {
		t.Errorf("invalid action should default to reply, got %s", got.Action)
	}
	if got.Confidence != 1 {
		t.Errorf("confidence should clamp to 1, got %.3f", got.Confidence)
	}
	if got.Response != "Sorry about that." {
		t.Errorf("valid response should survive, got %q", got.Response)
	}
}

func TestParseWrongTypes(t *testing.T) {
	raw := `{"intent":42,"action":null,"response":["a"],"confidence":"high"}`
	got := Parse(raw, knownSet())
	if got.Intent != model.IntentGeneral || got.Action != model.ActionReply {
		t.Errorf("wrong-typed fields should default, got %+v", got)
	}
	if got.Response != "" || got.Confidence != 0.5 {
		t.Errorf("wrong-typed fields should default, got %+v", got)
	}
}

func TestLooksLikeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"a":1}`, true},
		{`[{"a":1}]`, true},
		{"  {\"padded\":true}", true},
		{"plain text", false},
		{"{no quotes}", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeJSON(tt.in); got != tt.want {
			t.Errorf("looksLikeJSON(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
