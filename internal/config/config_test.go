package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("provider = %q, want google", cfg.Provider)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DefaultDepth != 3 {
		t.Errorf("default_depth = %d, want 3", cfg.DefaultDepth)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mindmaven.yml")
	content := "provider: openai\nmodel: gpt-4o\nport: 9999\nlayout:\n  origin_x: 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI || cfg.Model != "gpt-4o" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Port)
	}
	if cfg.Layout.OriginX != 50 {
		t.Errorf("origin_x = %v, want 50", cfg.Layout.OriginX)
	}
	// Untouched keys keep defaults.
	if cfg.DataDir != ".mindmaven" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MINDMAVEN_PROVIDER", "ollama")
	t.Setenv("MINDMAVEN_MODEL", "llama3")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %q, want ollama", cfg.Provider)
	}
	if cfg.Model != "llama3" {
		t.Errorf("model = %q, want llama3", cfg.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mindmaven.yml")
	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	cfg.Model = "claude-sonnet-4-5"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != ProviderAnthropic || loaded.Model != "claude-sonnet-4-5" {
		t.Errorf("round trip: %q/%q", loaded.Provider, loaded.Model)
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	if err := valid.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "skynet" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad quality", func(c *Config) { c.Quality = "ultra" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"depth too deep", func(c *Config) { c.DefaultDepth = 11 }},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(ProviderGoogle, QualityMax)
	if p.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", p.Model)
	}
	// Unknown combinations fall back.
	p = GetPreset("skynet", QualityMax)
	if p.Model == "" {
		t.Error("fallback preset is empty")
	}
}
