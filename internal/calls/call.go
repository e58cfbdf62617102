// Package calls records every generation call for traceability: who asked
// the model for what, how long it took, and whether it worked.
package calls

import (
	"time"

	"github.com/google/uuid"

	"github.com/mbenito/docueval/internal/providers"
)

// Call is one recorded generation call.
type Call struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references
	ReportID     string `json:"report_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions carries call context not present on the provider result.
type RecordOptions struct {
	ReportID     string
	DocumentType string
}

// FromResult builds a Call from a provider result.
func FromResult(result *providers.GenerateResult, opts RecordOptions) *Call {
	return &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		ReportID:     opts.ReportID,
		DocumentType: opts.DocumentType,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Success:      result.Success,
		Error:        result.ErrorMessage,
	}
}
