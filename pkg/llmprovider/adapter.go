package llmprovider

import (
	"context"

	"guest-intent-engine/pkg/groq"
	"guest-intent-engine/pkg/ollama"
	"guest-intent-engine/pkg/openaicompat"
)

// descriptor carries the chain metadata shared by every adapter.
type descriptor struct {
	id       string
	name     string
	priority int
	smart    bool
}

func (d descriptor) ID() string    { return d.id }
func (d descriptor) Name() string  { return d.name }
func (d descriptor) Priority() int { return d.priority }
func (d descriptor) Smart() bool   { return d.smart }

// GroqAdapter adapts pkg/groq to the Provider interface.
type GroqAdapter struct {
	descriptor
	client *groq.Client
}

// NewGroqAdapter creates a new Groq adapter.
func NewGroqAdapter(client *groq.Client, d descriptor) *GroqAdapter {
	return &GroqAdapter{descriptor: d, client: client}
}

// Chat implements Provider.
func (a *GroqAdapter) Chat(ctx context.Context, req *Request) (*Response, error) {
	groqReq := &groq.Request{
		Messages:    make([]groq.Message, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, msg := range req.Messages {
		groqReq.Messages = append(groqReq.Messages, groq.Message{Role: msg.Role, Content: msg.Content})
	}
	if req.JSONMode {
		groqReq.ResponseFormat = &groq.ResponseFormat{Type: "json_object"}
	}

	resp, err := a.client.ChatCompletion(ctx, groqReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return &Response{Usage: &Usage{}}, nil
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Model returns the model being used.
func (a *GroqAdapter) Model() string { return a.client.Model() }

// OpenAICompatAdapter adapts pkg/openaicompat to the Provider interface.
type OpenAICompatAdapter struct {
	descriptor
	client openaicompat.IChat
}

// NewOpenAICompatAdapter creates a new OpenAI-compatible adapter.
func NewOpenAICompatAdapter(client openaicompat.IChat, d descriptor) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{descriptor: d, client: client}
}

// Chat implements Provider.
func (a *OpenAICompatAdapter) Chat(ctx context.Context, req *Request) (*Response, error) {
	compatReq := &openaicompat.Request{
		Messages:    make([]openaicompat.Message, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		JSONMode:    req.JSONMode,
	}
	for _, msg := range req.Messages {
		compatReq.Messages = append(compatReq.Messages, openaicompat.Message{Role: msg.Role, Content: msg.Content})
	}

	resp, err := a.client.ChatCompletion(ctx, compatReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content: resp.Content,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Model returns the model being used.
func (a *OpenAICompatAdapter) Model() string { return a.client.Model() }

// OllamaAdapter adapts pkg/ollama to the Provider interface.
type OllamaAdapter struct {
	descriptor
	client *ollama.Client
}

// NewOllamaAdapter creates a new Ollama adapter.
func NewOllamaAdapter(client *ollama.Client, d descriptor) *OllamaAdapter {
	return &OllamaAdapter{descriptor: d, client: client}
}

// Chat implements Provider.
func (a *OllamaAdapter) Chat(ctx context.Context, req *Request) (*Response, error) {
	ollamaReq := &ollama.Request{
		Messages: make([]ollama.Message, 0, len(req.Messages)),
		Options:  &ollama.Options{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
	for _, msg := range req.Messages {
		ollamaReq.Messages = append(ollamaReq.Messages, ollama.Message{Role: msg.Role, Content: msg.Content})
	}
	if req.JSONMode {
		ollamaReq.Format = "json"
	}

	resp, err := a.client.Chat(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content: resp.Message.Content,
		Usage: &Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

// Model returns the model being used.
func (a *OllamaAdapter) Model() string { return a.client.Model() }
