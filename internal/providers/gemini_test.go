package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func geminiSuccessBody(text string) string {
	data, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}}},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     100,
			"candidatesTokenCount": 50,
			"totalTokenCount":      150,
		},
	})
	return string(data)
}

func newGeminiTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(GeminiConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.0-flash",
		BaseURL:    baseURL,
		MaxRetries: 2,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})
}

func TestGeminiGenerateContent(t *testing.T) {
	t.Run("builds the wire request", func(t *testing.T) {
		var gotPath, gotKey string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-goog-api-key")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode error: %v", err)
			}
			w.Write([]byte(geminiSuccessBody(`{"summary":"ok"}`)))
		}))
		defer srv.Close()

		c := newGeminiTestClient(srv.URL)
		result, err := c.GenerateContent(context.Background(), &GenerateRequest{
			Prompt:            "Evaluate the attached document.",
			SystemInstruction: "You are an evaluator.",
			ResponseSchema:    json.RawMessage(`{"type":"object"}`),
			Document:          &InlineData{MIMEType: "application/pdf", Data: "JVBERi0xLjQ="},
		})
		if err != nil {
			t.Fatalf("GenerateContent() error = %v", err)
		}

		if gotPath != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %q", gotPath)
		}
		if gotKey != "test-key" {
			t.Errorf("api key header = %q", gotKey)
		}

		contents := gotBody["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		if len(parts) != 2 {
			t.Fatalf("parts = %v", parts)
		}
		if parts[0].(map[string]any)["text"] != "Evaluate the attached document." {
			t.Errorf("prompt part = %v", parts[0])
		}
		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		if inline["mimeType"] != "application/pdf" || inline["data"] != "JVBERi0xLjQ=" {
			t.Errorf("inline data = %v", inline)
		}

		sys := gotBody["systemInstruction"].(map[string]any)["parts"].([]any)
		if sys[0].(map[string]any)["text"] != "You are an evaluator." {
			t.Errorf("system instruction = %v", sys)
		}

		genCfg := gotBody["generationConfig"].(map[string]any)
		if genCfg["responseMimeType"] != "application/json" {
			t.Errorf("response mime type = %v", genCfg["responseMimeType"])
		}
		if _, ok := genCfg["responseSchema"]; !ok {
			t.Error("generation config missing response schema")
		}

		if !result.Success || result.Text != `{"summary":"ok"}` {
			t.Errorf("result = %+v", result)
		}
		if result.TotalTokens != 150 || result.PromptTokens != 100 {
			t.Errorf("tokens = %+v", result)
		}
		if result.Provider != GeminiClientName {
			t.Errorf("provider = %q", result.Provider)
		}
	})

	t.Run("request model overrides the default", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(geminiSuccessBody("{}")))
		}))
		defer srv.Close()

		c := newGeminiTestClient(srv.URL)
		result, err := c.GenerateContent(context.Background(), &GenerateRequest{Prompt: "p", Model: "gemini-1.5-pro"})
		if err != nil {
			t.Fatal(err)
		}
		if gotPath != "/models/gemini-1.5-pro:generateContent" {
			t.Errorf("path = %q", gotPath)
		}
		if result.ModelUsed != "gemini-1.5-pro" {
			t.Errorf("model used = %q", result.ModelUsed)
		}
	})

	t.Run("retries rate limits", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(geminiSuccessBody("{}")))
		}))
		defer srv.Close()

		c := newGeminiTestClient(srv.URL)
		result, err := c.GenerateContent(context.Background(), &GenerateRequest{Prompt: "p"})
		if err != nil {
			t.Fatalf("GenerateContent() error = %v", err)
		}
		if !result.Success {
			t.Error("result not successful after retry")
		}
		if calls.Load() != 2 {
			t.Errorf("server saw %d calls, want 2", calls.Load())
		}
	})

	t.Run("api error is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"invalid schema","status":"INVALID_ARGUMENT"}}`))
		}))
		defer srv.Close()

		c := newGeminiTestClient(srv.URL)
		result, err := c.GenerateContent(context.Background(), &GenerateRequest{Prompt: "p"})
		if err == nil {
			t.Fatal("expected error for API failure")
		}
		if result.Success {
			t.Error("result marked successful")
		}
		if result.ErrorType != "api_error" {
			t.Errorf("error type = %q", result.ErrorType)
		}
	})

	t.Run("empty candidate list is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		c := newGeminiTestClient(srv.URL)
		result, err := c.GenerateContent(context.Background(), &GenerateRequest{Prompt: "p"})
		if err == nil {
			t.Fatal("expected error for empty candidates")
		}
		if result.ErrorType != "empty_response" {
			t.Errorf("error type = %q", result.ErrorType)
		}
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := newGeminiTestClient(srv.URL)
		if _, err := c.GenerateContent(ctx, &GenerateRequest{Prompt: "p"}); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
