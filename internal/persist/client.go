// Package persist is the HTTP client for the external persistence
// collaborator that files the final edited report against its document.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mbenito/docueval/internal/report"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
)

// Client posts saved reports to the persistence API.
type Client struct {
	baseURL    string
	attempts   uint
	httpClient *http.Client
}

// Config holds persistence client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   uint
	HTTPClient *http.Client // Optional (tests)
}

// NewClient creates a persistence client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		attempts:   cfg.Attempts,
		httpClient: httpClient,
	}
}

// SaveRequest is the payload handed to the persistence API. The report is
// serialized verbatim as JSON text.
type SaveRequest struct {
	FileID string        `json:"fileId"`
	Report report.Report `json:"report"`
	Status string        `json:"status"`
}

// retryableStatus marks server-side statuses worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// SaveReport hands the edited report to the persistence API. 5xx
// responses are retried with backoff; any other non-2xx fails
// immediately.
func (c *Client) SaveReport(ctx context.Context, req SaveRequest) error {
	if req.FileID == "" {
		return fmt.Errorf("file id is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal save request: %w", err)
	}

	return retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports", bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return fmt.Errorf("save request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}

			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			err = fmt.Errorf("persistence API error (status %d): %s", resp.StatusCode, string(respBody))
			if !retryableStatus(resp.StatusCode) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
