package llmprovider

import "context"

// Provider defines the interface for chat-capable AI providers.
type Provider interface {
	// Chat sends a chat request and returns the model's reply.
	Chat(ctx context.Context, req *Request) (*Response, error)

	// ID returns the stable provider id used for rate-limit bookkeeping.
	ID() string

	// Name returns the human-readable provider name.
	Name() string

	// Model returns the model being used.
	Model() string

	// Priority returns the chain position; lower is tried first.
	Priority() int

	// Smart reports whether the provider is eligible for the
	// smart-fallback pass.
	Smart() bool
}

// Message represents a conversation message.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Request represents a normalized chat request.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool // ask the provider for a JSON object response
}

// Response represents a normalized chat response.
type Response struct {
	Content string
	Usage   *Usage
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
