package llm

import (
	"context"
	"sync"
	"testing"
	"time"
)

// MockProvider records calls and plays back canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string { return m.ProvName }

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	for _, p := range []string{"google", "openai", "anthropic"} {
		if _, err := NewProvider(p, "some-model"); err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	if _, err := NewProvider("unknown", "some-model"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithoutAPIKey(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected name 'ollama', got %q", provider.Name())
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatalf("expected *OllamaProvider, got %T", provider)
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("default host = %q", ollamaP.baseURL)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("mock")
	limited := NewRateLimitedProvider(mock, 60)

	resp, err := limited.Complete(context.Background(), CompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("content = %q", resp.Content)
	}
	if limited.Name() != "mock" {
		t.Errorf("name = %q", limited.Name())
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	mock := NewMockProvider("mock")
	limited := NewRateLimitedProvider(mock, 1)

	if _, err := limited.Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// The bucket is empty; a second call must block until the context is
	// cancelled rather than going through.
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := limited.Complete(ctx, CompletionRequest{}); err == nil {
		t.Error("expected context error on exhausted bucket")
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}
