package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// QualityTier selects a model preset trading speed/cost against quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// LayoutConfig holds diagram placement settings. Spacing is fixed by the
// layout engine; only the origin is configurable.
type LayoutConfig struct {
	OriginX float64 `yaml:"origin_x" koanf:"origin_x"`
	OriginY float64 `yaml:"origin_y" koanf:"origin_y"`
}

// Config is the top-level mindmaven configuration, corresponding to
// .mindmaven.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	Quality           QualityTier  `yaml:"quality" koanf:"quality"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	Port              int          `yaml:"port" koanf:"port"`
	DefaultDepth      int          `yaml:"default_depth" koanf:"default_depth"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Layout            LayoutConfig `yaml:"layout" koanf:"layout"`
}
