package config

// QualityPreset names the models used for a given quality tier.
type QualityPreset struct {
	Model          string
	EmbeddingModel string
}

// qualityPresets maps each provider+quality combination to its models.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderGoogle: {
		QualityLite:   {Model: "gemini-2.0-flash", EmbeddingModel: "text-embedding-004"},
		QualityNormal: {Model: "gemini-2.5-flash", EmbeddingModel: "text-embedding-004"},
		QualityMax:    {Model: "gemini-2.5-pro", EmbeddingModel: "text-embedding-004"},
	},
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderAnthropic: {
		QualityLite:   {Model: "claude-3-5-haiku-latest", EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "claude-sonnet-4-5", EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "claude-opus-4-1", EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
		QualityNormal: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
		QualityMax:    {Model: "llama3:70b", EmbeddingModel: "nomic-embed-text"},
	},
}

// DefaultConfig returns a Config with sensible defaults: Gemini flash,
// server on 8080, maps stored under .mindmaven/.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.5-flash",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		Quality:           QualityNormal,
		DataDir:           ".mindmaven",
		Port:              8080,
		DefaultDepth:      3,
		RequestsPerMinute: 20,
		Layout:            LayoutConfig{OriginX: 0, OriginY: 0},
	}
}

// GetPreset returns the quality preset for the given provider and tier,
// falling back to the Google normal preset for unknown combinations.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderGoogle][QualityNormal]
}
