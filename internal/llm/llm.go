package llm

import (
	"context"
	"errors"
)

// Client abstracts a chat-completion model provider. All prompt text and
// response parsing live with the caller; the provider only moves bytes.
type Client interface {
	// Complete sends one system+user exchange and returns the trimmed response
	// text. jsonResponse requests the provider's JSON-object response mode.
	Complete(ctx context.Context, system, user string, jsonResponse bool, temperature float32) (string, error)
}

// ErrEmptyResponse is returned when the model produced no content. Callers
// may treat it as a malformed response rather than a transport failure.
var ErrEmptyResponse = errors.New("empty model response")

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, system, user string, jsonResponse bool, temperature float32) (string, error) {
	_ = ctx
	_ = system
	_ = user
	_ = jsonResponse
	_ = temperature
	return "", ErrNotConfigured
}
