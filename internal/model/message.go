package model

// Action is what the caller should do with a classified message.
type Action string

const (
	ActionReply    Action = "reply"
	ActionEscalate Action = "escalate"
	ActionWorkflow Action = "workflow"
	ActionHandoff  Action = "handoff"
	ActionNone     Action = "none"
)

// ValidAction reports whether a is a member of the fixed action set.
func ValidAction(a Action) bool {
	switch a {
	case ActionReply, ActionEscalate, ActionWorkflow, ActionHandoff, ActionNone:
		return true
	}
	return false
}

// Diagnostic model markers. These appear in AIResponse.Model on degraded
// paths so logs can tell which failure mode produced the response.
const (
	ModelNone         = "none"
	ModelError        = "error"
	ModelAllLLMFailed = "all_llm_failed"
)

// ChatMessage is one turn of conversation history.
type ChatMessage struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// ConversationContext is the read-only slice of conversation state handed
// in by the transport. The engine never mutates it.
type ConversationContext struct {
	Recent     []ChatMessage `json:"recent"`
	LastIntent string        `json:"last_intent,omitempty"`
}

// TokenUsage tracks provider token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AIResponse is the engine's single output shape. Every path, including
// every failure path, terminates in a structurally valid AIResponse:
// Confidence is always within [0,1], Intent is always a configured intent
// or "general", and Response never contains raw JSON.
type AIResponse struct {
	Intent       string      `json:"intent"`
	Action       Action      `json:"action"`
	Response     string      `json:"response"`
	Confidence   float64     `json:"confidence"`
	Model        string      `json:"model,omitempty"`
	ResponseTime int64       `json:"response_time_ms,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
