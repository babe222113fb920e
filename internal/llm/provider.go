package llm

import "context"

// Provider is the seam between mindmaven and a generative-language-model
// API. Outline generation only ever talks to this interface; transport,
// auth, and per-API quirks stay behind it.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the provider identifier, e.g. "google".
	Name() string
}
