package detect

import "time"

// Tier labels used in threshold overrides and diagnostics.
const (
	TierEmergency = "t1"
	TierKeyword   = "t2"
	TierSemantic  = "t3"
	TierLLM       = "t4"
)

// ThinkingDelay is how long classification may run before the caller's
// thinking indicator fires.
const ThinkingDelay = 3 * time.Second

// Classification prompt. The model must answer with a single JSON object.
const SystemPromptClassify = `You are the assistant for a property-management guest service.
Classify the guest's message into exactly one intent from this list:
%s

Respond with ONLY a JSON object, no other text:
{"intent": "<one intent from the list>", "action": "reply", "response": "<your reply to the guest, in their language>", "confidence": <0.0-1.0>}

If no intent fits, use "general". Never invent intents.`

// Reply-only prompt with explicit confidence banding.
const SystemPromptReplyOnly = `You are the assistant for a property-management guest service.
The guest's intent is already known: %s.
Using the knowledge below, write a reply to the guest in their language.

Knowledge:
%s

Respond with ONLY a JSON object:
{"response": "<your reply>", "confidence": <0.0-1.0>}

Confidence rules:
- quoting the knowledge exactly: 0.9 or above
- answering directly from the knowledge without quoting: 0.7 or above
- interpreting or combining knowledge entries: below 0.7
- partial or uncertain answers: below 0.5`

// Static replies when every AI provider is down, keyed by language.
var allProvidersDownMessages = map[string]string{
	"en": "Sorry, our assistant is temporarily unavailable. A member of our team will get back to you shortly.",
	"ms": "Maaf, pembantu kami tidak tersedia buat masa ini. Pasukan kami akan menghubungi anda sebentar lagi.",
	"zh": "抱歉，智能助手暂时无法使用。我们的工作人员会尽快回复您。",
}
