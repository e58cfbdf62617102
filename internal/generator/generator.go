// Package generator turns a binary document into a structured evaluation
// report by calling a generative model with a type-selected response
// schema and system instruction.
package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mbenito/docueval/internal/calls"
	"github.com/mbenito/docueval/internal/providers"
	"github.com/mbenito/docueval/internal/report"
	"github.com/mbenito/docueval/internal/schema"
)

// Config holds generator dependencies. The LLM client is injected so
// tests can swap in a mock.
type Config struct {
	Client providers.LLMClient
	Model  string
	Logger *slog.Logger

	// Recorder, when set, captures every model call.
	Recorder *calls.Recorder

	// ValidatePDF rejects input bytes that do not parse as a PDF before
	// any model call is made.
	ValidatePDF bool

	// ValidateResponses checks the parsed report against the requested
	// response schema; mismatches surface as ErrMalformedResponse.
	ValidateResponses bool
}

// Generator produces structured reports from documents.
type Generator struct {
	client            providers.LLMClient
	model             string
	logger            *slog.Logger
	recorder          *calls.Recorder
	validatePDF       bool
	validateResponses bool
}

// New creates a Generator.
func New(cfg Config) *Generator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Generator{
		client:            cfg.Client,
		model:             cfg.Model,
		logger:            cfg.Logger,
		recorder:          cfg.Recorder,
		validatePDF:       cfg.ValidatePDF,
		validateResponses: cfg.ValidateResponses,
	}
}

// Generate evaluates a document and returns the parsed report. The call
// is awaited with no retry at this layer; failures surface immediately.
func (g *Generator) Generate(ctx context.Context, document []byte, documentType string) (report.Report, error) {
	if len(document) == 0 {
		return nil, ErrEmptyDocument
	}
	if g.validatePDF {
		if _, err := api.PageCount(bytes.NewReader(document), nil); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	resolution := schema.Resolve(documentType)
	responseSchema, err := resolution.Schema.JSONSchema()
	if err != nil {
		return nil, err
	}

	req := &providers.GenerateRequest{
		Prompt: promptLine(documentType),
		Document: &providers.InlineData{
			MIMEType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(document),
		},
		SystemInstruction: resolution.Instruction,
		ResponseSchema:    responseSchema,
		Model:             g.model,
	}

	start := time.Now()
	result, err := g.client.GenerateContent(ctx, req)
	if g.recorder != nil && result != nil {
		g.recorder.Record(result, calls.RecordOptions{DocumentType: documentType})
	}
	if err != nil {
		g.logger.Error("report generation failed",
			"document_type", documentType,
			"elapsed", time.Since(start),
			"error", err)
		return nil, upstreamError(err)
	}

	parsed, err := report.Parse([]byte(result.Text))
	if err != nil {
		g.logger.Error("report response is not valid JSON",
			"document_type", documentType,
			"provider", result.Provider,
			"error", err)
		return nil, malformedError(err)
	}

	if g.validateResponses {
		if err := validateAgainstSchema(responseSchema, result.Text); err != nil {
			g.logger.Error("report response does not match schema",
				"document_type", documentType,
				"provider", result.Provider,
				"error", err)
			return nil, malformedError(err)
		}
	}

	g.logger.Info("report generated",
		"document_type", documentType,
		"provider", result.Provider,
		"model", result.ModelUsed,
		"elapsed", time.Since(start),
		"tokens", result.TotalTokens)
	return parsed, nil
}

// promptLine builds the user-facing instruction line: type-specific
// phrasing when a document type is declared, generic otherwise.
func promptLine(documentType string) string {
	trimmed := strings.TrimSpace(documentType)
	if trimmed == "" {
		return "Evaluate the attached document and produce a structured evaluation report."
	}
	return fmt.Sprintf("Evaluate the attached %s document and produce a structured evaluation report.", strings.ToLower(trimmed))
}

// validateAgainstSchema checks the model's JSON against the requested
// response schema.
func validateAgainstSchema(schemaRaw json.RawMessage, payload string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaRaw)); err != nil {
		return fmt.Errorf("failed to load response schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile response schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return fmt.Errorf("failed to decode response for validation: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
