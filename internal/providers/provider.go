// Package providers implements clients for the generative-model
// collaborators that turn a document into a structured report.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface the report generator depends on. A client
// accepts multimodal content plus a response schema and returns a single
// text payload expected to be a JSON document matching that schema.
type LLMClient interface {
	// GenerateContent sends one structured-output generation request.
	GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// InlineData is a binary payload attached to a generation request.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

// GenerateRequest is a request to a generative model.
type GenerateRequest struct {
	// Prompt is the natural-language instruction line.
	Prompt string `json:"prompt"`

	// Document is the inline document payload, if any.
	Document *InlineData `json:"document,omitempty"`

	// SystemInstruction steers the whole generation.
	SystemInstruction string `json:"system_instruction,omitempty"`

	// ResponseSchema is the JSON schema the response must match. When
	// set, the response MIME type is application/json.
	ResponseSchema json.RawMessage `json:"response_schema,omitempty"`

	// Model selection (client default if empty).
	Model string `json:"model,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// GenerateResult is the complete response from a generation call.
type GenerateResult struct {
	// Text is the raw text payload returned by the model.
	Text string `json:"text"`

	// Token usage
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
