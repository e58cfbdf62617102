package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/google/uuid"
)

const (
	OpenAIClientName        = "openai"
	openAIDefaultModel      = "gpt-4o-mini"
	openAIDefaultTimeout    = 5 * time.Minute
	openAIDefaultMaxRetries = 3
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIClient implements LLMClient using the official OpenAI SDK with
// json_schema structured outputs.
type OpenAIClient struct {
	model  string
	client openai.Client
}

var _ LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openAIDefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = openAIDefaultMaxRetries
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string { return OpenAIClientName }

// GenerateContent sends a structured-output chat completion. The document
// travels as a file content part (data URL), the response schema as a
// json_schema response format.
func (c *OpenAIClient) GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
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
		Provider:  OpenAIClientName,
		ModelUsed: model,
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: c.buildMessages(req),
	}

	if len(req.ResponseSchema) > 0 {
		var schemaDoc any
		if err := json.Unmarshal(req.ResponseSchema, &schemaDoc); err != nil {
			result.ErrorType = "bad_schema"
			result.ErrorMessage = err.Error()
			return result, fmt.Errorf("invalid response schema: %w", err)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "evaluation_report",
					Schema: schemaDoc,
				},
			},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		result.ErrorType = "transport"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("openai request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		err := fmt.Errorf("openai returned no choices")
		result.ErrorType = "empty_response"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	result.Success = true
	result.Text = completion.Choices[0].Message.Content
	result.PromptTokens = int(completion.Usage.PromptTokens)
	result.CompletionTokens = int(completion.Usage.CompletionTokens)
	result.TotalTokens = int(completion.Usage.TotalTokens)
	result.ExecutionTime = time.Since(start)
	return result, nil
}

func (c *OpenAIClient) buildMessages(req *GenerateRequest) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}

	if req.Document == nil {
		messages = append(messages, openai.UserMessage(req.Prompt))
		return messages
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfText: &openai.ChatCompletionContentPartTextParam{Text: req.Prompt}},
		{OfFile: &openai.ChatCompletionContentPartFileParam{
			File: openai.ChatCompletionContentPartFileFileParam{
				Filename: openai.String("document.pdf"),
				FileData: openai.String(fmt.Sprintf("data:%s;base64,%s", req.Document.MIMEType, req.Document.Data)),
			},
		}},
	}
	messages = append(messages, openai.UserMessage(parts))
	return messages
}
