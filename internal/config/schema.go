package config

// Config holds docueval configuration.
// Stored at: {home}/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Persist      PersistCfg                `mapstructure:"persist" yaml:"persist"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "gemini", "openai", "mock"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections and generation behavior.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // Default LLM provider
	// ValidateResponses checks generated reports against the requested
	// response schema before accepting them.
	ValidateResponses bool `mapstructure:"validate_responses" yaml:"validate_responses"`
}

// PersistCfg configures the external persistence API.
type PersistCfg struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Attempts uint   `mapstructure:"attempts" yaml:"attempts"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.0-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Enabled: true,
			},
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:       "gemini",
			ValidateResponses: true,
		},
		Persist: PersistCfg{
			BaseURL:  "http://127.0.0.1:9280",
			Attempts: 3,
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	p, ok := c.LLMProviders[name]
	return p, ok
}
