package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// .mindmaven.yml, and returns it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to mindmaven! Let's configure your setup.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   — fast & cheap",
			"normal — balanced",
			"max    — highest quality",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]

	preset := GetPreset(provider, quality)

	depthPrompt := promptui.Prompt{
		Label:   "Default mind map depth (1-10)",
		Default: "3",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 10 {
				return fmt.Errorf("enter a number between 1 and 10")
			}
			return nil
		},
	}
	depthStr, err := depthPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("depth selection: %w", err)
	}
	depth, _ := strconv.Atoi(depthStr)

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Quality = quality
	cfg.Model = preset.Model
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.DefaultDepth = depth
	if provider == ProviderOllama {
		cfg.EmbeddingProvider = ProviderOllama
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", DefaultPath)
	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("Remember to set %s before generating.\n", envVar)
	}

	return cfg, nil
}
