package cmd

import (
	"fmt"
	"os"

	"github.com/A-dvika/MindMaven/internal/config"
	"github.com/A-dvika/MindMaven/internal/embeddings"
	"github.com/A-dvika/MindMaven/internal/llm"
)

// loadConfig loads and validates the config, with a pointer to the
// wizard on failure.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mindmaven init` to create a config file", err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig builds the configured provider, wrapped
// in a rate limiter when requests_per_minute is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}
	return provider, nil
}

// createEmbedderFromConfig builds the embedder used for semantic map
// search. Providers without native embeddings fall back to OpenAI.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider, cfg.Quality).EmbeddingModel
	}

	switch provider {
	case config.ProviderOpenAI, config.ProviderGoogle, config.ProviderOllama:
		return embeddings.NewEmbedder(string(provider), model)
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}
