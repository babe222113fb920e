package embeddings

import (
	"context"
	"fmt"
	"os"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns text into dense vectors for semantic search over
// saved mind maps.
type Embedder interface {
	// Embed generates one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector size produced by the model.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}

// NewEmbedder builds an embedder for the given provider and model.
// The API key is read from the provider's environment variable.
func NewEmbedder(provider, model string) (Embedder, error) {
	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(model)), nil
	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY not set")
		}
		return NewGoogleEmbedder(apiKey, model), nil
	case "ollama":
		return NewOllamaEmbedder(model, 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}

// ToChromemFunc adapts an Embedder to chromem-go's per-document
// embedding function.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
		}
		return vecs[0], nil
	}
}
