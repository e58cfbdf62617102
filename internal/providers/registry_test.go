package providers

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get LLM", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()

		r.RegisterLLM("test-llm", mock)

		client, err := r.GetLLM("test-llm")
		if err != nil {
			t.Fatalf("GetLLM() error = %v", err)
		}
		if client != mock {
			t.Error("got different client than registered")
		}
	})

	t.Run("get nonexistent LLM", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.GetLLM("nonexistent")
		if err == nil {
			t.Error("expected error for nonexistent LLM")
		}
	})

	t.Run("unregister removes the client", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("test-llm", NewMockClient())
		r.UnregisterLLM("test-llm")

		if _, err := r.GetLLM("test-llm"); err == nil {
			t.Error("expected error after unregister")
		}
	})

	t.Run("default LLM", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()
		r.RegisterLLM("mock", mock)

		if _, err := r.DefaultLLM(); err == nil {
			t.Error("expected error when no default is configured")
		}

		r.SetDefaultLLM("mock")
		client, err := r.DefaultLLM()
		if err != nil {
			t.Fatalf("DefaultLLM() error = %v", err)
		}
		if client != mock {
			t.Error("default resolved to a different client")
		}

		r.SetDefaultLLM("missing")
		if _, err := r.DefaultLLM(); err == nil {
			t.Error("expected error for default pointing at a missing client")
		}
	})

	t.Run("list LLMs", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("a", NewMockClient())
		r.RegisterLLM("b", NewMockClient())

		if got := len(r.ListLLMs()); got != 2 {
			t.Errorf("ListLLMs() returned %d names, want 2", got)
		}
	})
}

func TestRegistryReload(t *testing.T) {
	t.Run("instantiates enabled providers", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"gemini":   {Type: "gemini", Model: "gemini-2.0-flash", APIKey: "k", Enabled: true},
				"openai":   {Type: "openai", Model: "gpt-4o-mini", APIKey: "k", Enabled: false},
				"fallback": {Type: "mock", Enabled: true},
			},
			Default: "gemini",
		})

		if _, err := r.GetLLM("gemini"); err != nil {
			t.Errorf("enabled provider not registered: %v", err)
		}
		if _, err := r.GetLLM("fallback"); err != nil {
			t.Errorf("mock provider not registered: %v", err)
		}
		if _, err := r.GetLLM("openai"); err == nil {
			t.Error("disabled provider was registered")
		}

		client, err := r.DefaultLLM()
		if err != nil {
			t.Fatalf("DefaultLLM() error = %v", err)
		}
		if client.Name() != GeminiClientName {
			t.Errorf("default client = %q", client.Name())
		}
	})

	t.Run("reload drops clients missing from the new config", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{"m": {Type: "mock", Enabled: true}},
			Default:   "m",
		})
		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{"other": {Type: "mock", Enabled: true}},
			Default:   "other",
		})

		if _, err := r.GetLLM("m"); err == nil {
			t.Error("stale client survived reload")
		}
		if _, err := r.GetLLM("other"); err != nil {
			t.Errorf("new client not registered: %v", err)
		}
	})

	t.Run("unknown provider type is skipped", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{"weird": {Type: "carrier-pigeon", Enabled: true}},
		})
		if got := len(r.ListLLMs()); got != 0 {
			t.Errorf("registered %d clients from an invalid config", got)
		}
	})
}
