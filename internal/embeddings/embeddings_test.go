package embeddings

import (
	"context"
	"fmt"
	"testing"
)

type fixedEmbedder struct {
	vectors [][]float32
	err     error
}

func (f *fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func (f *fixedEmbedder) Dimensions() int { return 3 }
func (f *fixedEmbedder) Name() string    { return "fixed" }

func TestToChromemFunc(t *testing.T) {
	emb := &fixedEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	fn := ToChromemFunc(emb)

	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embedding func: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
}

func TestToChromemFuncEmpty(t *testing.T) {
	fn := ToChromemFunc(&fixedEmbedder{vectors: nil})
	if _, err := fn(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestToChromemFuncPropagatesError(t *testing.T) {
	fn := ToChromemFunc(&fixedEmbedder{err: fmt.Errorf("boom")})
	if _, err := fn(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	if _, err := NewEmbedder("cohere", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewEmbedderMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewEmbedder("openai", ""); err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is unset")
	}
}

func TestNewEmbedderOllama(t *testing.T) {
	emb, err := NewEmbedder("ollama", "nomic-embed-text")
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	if emb.Name() != "ollama/nomic-embed-text" {
		t.Errorf("name = %q", emb.Name())
	}
	if emb.Dimensions() != 768 {
		t.Errorf("dimensions = %d, want 768", emb.Dimensions())
	}
}

func TestOpenAIModelDimensions(t *testing.T) {
	small := NewOpenAIEmbedder("key", ModelTextEmbedding3Small)
	if small.Dimensions() != 1536 {
		t.Errorf("small dimensions = %d", small.Dimensions())
	}
	large := NewOpenAIEmbedder("key", ModelTextEmbedding3Large)
	if large.Dimensions() != 3072 {
		t.Errorf("large dimensions = %d", large.Dimensions())
	}
}
