package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	GeminiClientName        = "gemini"
	geminiDefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel      = "gemini-2.0-flash"
	geminiDefaultTimeout    = 5 * time.Minute
	geminiDefaultMaxRetries = 3
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string // Optional (tests)
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client // Optional (tests)
}

// GeminiClient calls the generativelanguage generateContent API directly
// over HTTP.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	client     *http.Client
}

var _ LLMClient = (*GeminiClient)(nil)

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiDefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = geminiDefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = geminiDefaultMaxRetries
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		client:     client,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string { return GeminiClientName }

// Wire types for the generateContent API.

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends a generation request.
func (c *GeminiClient) GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := &GenerateResult{
		RequestID: requestID,
		Provider:  GeminiClientName,
		ModelUsed: model,
	}

	body := c.buildRequest(req)

	resp, err := c.doRequest(ctx, model, body)
	if err != nil {
		result.ErrorType = "transport"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	if resp.Error != nil {
		err := fmt.Errorf("gemini error (%s): %s", resp.Error.Status, resp.Error.Message)
		result.ErrorType = "api_error"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		err := fmt.Errorf("gemini returned no candidates")
		result.ErrorType = "empty_response"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	result.Success = true
	result.Text = text
	result.PromptTokens = resp.UsageMetadata.PromptTokenCount
	result.CompletionTokens = resp.UsageMetadata.CandidatesTokenCount
	result.TotalTokens = resp.UsageMetadata.TotalTokenCount
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// buildRequest maps a GenerateRequest onto the generateContent wire shape:
// prompt text plus inline document data, with the system instruction and
// response schema in the generation config.
func (c *GeminiClient) buildRequest(req *GenerateRequest) *geminiRequest {
	parts := []geminiPart{{Text: req.Prompt}}
	if req.Document != nil {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MIMEType: req.Document.MIMEType,
				Data:     req.Document.Data,
			},
		})
	}

	body := &geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}
	if len(req.ResponseSchema) > 0 {
		body.GenerationConfig = &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.ResponseSchema,
		}
	}
	return body
}

// doRequest makes the HTTP call with retry on transient failures.
func (c *GeminiClient) doRequest(ctx context.Context, model string, body *geminiRequest) (*geminiResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.sleepWithJitter(ctx, attempt)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			c.sleepWithJitter(ctx, attempt)
			continue
		}

		if shouldRetryStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(respBody))
			c.sleepWithJitter(ctx, attempt)
			continue
		}

		var geminiResp geminiResponse
		if err := json.Unmarshal(respBody, &geminiResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
		}
		if resp.StatusCode != http.StatusOK && geminiResp.Error == nil {
			return nil, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(respBody))
		}
		return &geminiResp, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// shouldRetryStatus returns true for status codes worth retrying.
func shouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}

// sleepWithJitter backs off exponentially with jitter between attempts.
func (c *GeminiClient) sleepWithJitter(ctx context.Context, attempt int) {
	base := time.Duration(1<<uint(attempt)) * time.Second
	jitter := time.Duration(rand.Int63n(int64(base / 2)))
	select {
	case <-time.After(base + jitter):
	case <-ctx.Done():
	}
}
