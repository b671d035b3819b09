package openaicompat

import "context"

// IChat defines the interface for OpenAI-compatible chat endpoints.
// Implementations are safe for concurrent use.
type IChat interface {
	// ChatCompletion sends a chat completion request.
	ChatCompletion(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model being used.
	Model() string
}

// New creates a new client with the given configuration.
func New(cfg Config) (IChat, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newClient(cfg), nil
}
