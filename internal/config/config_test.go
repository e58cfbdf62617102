package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("DOCUEVAL_TEST_KEY", "secret-value")
	t.Setenv("DOCUEVAL_TEST_OTHER", "other")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple substitution", "${DOCUEVAL_TEST_KEY}", "secret-value"},
		{"embedded substitution", "prefix-${DOCUEVAL_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
		{"multiple substitutions", "${DOCUEVAL_TEST_KEY}:${DOCUEVAL_TEST_OTHER}", "secret-value:other"},
		{"no substitution", "plain-value", "plain-value"},
		{"empty string", "", ""},
		{"unset variable", "${DOCUEVAL_TEST_UNSET_VAR}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	gemini, ok := cfg.LLMProviders["gemini"]
	if !ok {
		t.Fatal("default config has no gemini provider")
	}
	if !gemini.Enabled {
		t.Error("gemini is not enabled by default")
	}
	if gemini.APIKey != "${GEMINI_API_KEY}" {
		t.Errorf("gemini api key = %q", gemini.APIKey)
	}
	if cfg.Defaults.LLMProvider != "gemini" {
		t.Errorf("default provider = %q", cfg.Defaults.LLMProvider)
	}
	if !cfg.Defaults.ValidateResponses {
		t.Error("response validation is off by default")
	}
	if cfg.Persist.BaseURL == "" {
		t.Error("persist base URL is empty")
	}
}

func TestToProviderRegistryConfig(t *testing.T) {
	t.Setenv("DOCUEVAL_TEST_API_KEY", "resolved-key")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {Type: "gemini", Model: "gemini-2.0-flash", APIKey: "${DOCUEVAL_TEST_API_KEY}", Enabled: true},
			"openai": {Type: "openai", Model: "gpt-4o-mini", APIKey: "literal", Enabled: false},
		},
		Defaults: DefaultsCfg{LLMProvider: "gemini"},
	}

	got := cfg.ToProviderRegistryConfig()
	if got.Default != "gemini" {
		t.Errorf("default = %q", got.Default)
	}
	if got.Providers["gemini"].APIKey != "resolved-key" {
		t.Errorf("gemini api key = %q, env reference not resolved", got.Providers["gemini"].APIKey)
	}
	if got.Providers["openai"].APIKey != "literal" {
		t.Errorf("openai api key = %q", got.Providers["openai"].APIKey)
	}
	if got.Providers["openai"].Enabled {
		t.Error("disabled provider became enabled")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# Docueval configuration") {
		t.Error("written config lacks the header comment")
	}
	if !strings.Contains(text, "llm_providers:") {
		t.Error("written config lacks llm_providers")
	}
	if !strings.Contains(text, "${GEMINI_API_KEY}") {
		t.Error("written config lacks the env var reference")
	}
}

func TestNewManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `llm_providers:
  gemini:
    type: gemini
    model: gemini-2.0-flash
    api_key: literal-key
    enabled: true
defaults:
  llm_provider: gemini
  validate_responses: false
persist:
  base_url: http://127.0.0.1:9999
  attempts: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := cm.Get()
	if cfg.Defaults.LLMProvider != "gemini" {
		t.Errorf("default provider = %q", cfg.Defaults.LLMProvider)
	}
	if cfg.Defaults.ValidateResponses {
		t.Error("validate_responses = true, want false from file")
	}
	if cfg.Persist.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("persist base url = %q", cfg.Persist.BaseURL)
	}
	if cfg.Persist.Attempts != 5 {
		t.Errorf("persist attempts = %d", cfg.Persist.Attempts)
	}
	if cfg.LLMProviders["gemini"].APIKey != "literal-key" {
		t.Errorf("api key = %q", cfg.LLMProviders["gemini"].APIKey)
	}
}
