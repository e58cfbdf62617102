package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to LLM clients. It supports config-driven
// instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu            sync.RWMutex
	llmClients    map[string]LLMClient
	defaultClient string
	logger        *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.llmClients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// SetDefaultLLM sets the name resolved by DefaultLLM.
func (r *Registry) SetDefaultLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultClient = name
}

// DefaultLLM returns the configured default client.
func (r *Registry) DefaultLLM() (LLMClient, error) {
	r.mu.RLock()
	name := r.defaultClient
	r.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("no default LLM client configured")
	}
	return r.GetLLM(name)
}

// ListLLMs returns the names of registered clients.
func (r *Registry) ListLLMs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	return names
}

// RegistryConfig drives config-based (re)instantiation of clients.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
	Default   string
}

// ProviderConfig configures a single LLM client.
type ProviderConfig struct {
	Type    string // "gemini", "openai", "mock"
	Model   string
	APIKey  string
	Enabled bool
}

// Reload replaces the registered clients from configuration. Clients
// whose config disappeared or is disabled are unregistered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	logger := r.logger

	next := make(map[string]LLMClient, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		client, err := newClientFromConfig(pc)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping LLM provider", "name", name, "error", err)
			}
			continue
		}
		next[name] = client
	}

	r.llmClients = next
	r.defaultClient = cfg.Default
	r.mu.Unlock()

	if logger != nil {
		logger.Info("provider registry reloaded", "clients", len(next), "default", cfg.Default)
	}
}

func newClientFromConfig(pc ProviderConfig) (LLMClient, error) {
	switch pc.Type {
	case "gemini":
		return NewGeminiClient(GeminiConfig{APIKey: pc.APIKey, Model: pc.Model}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{APIKey: pc.APIKey, Model: pc.Model}), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", pc.Type)
	}
}
