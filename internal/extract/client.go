// Package extract calls the external language-model oracle that turns
// free-form expense descriptions into structured data, and strictly validates
// whatever comes back.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jsreddy/splitscenario/internal/metrics"
)

const (
	// DefaultBaseURL is the OpenRouter chat-completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	// DefaultModel is a small instruct model; cheap and good enough for
	// the fixed-shape extraction task.
	DefaultModel = "mistralai/mistral-7b-instruct-v0.2"
)

// Error is the terminal extraction failure, returned once all retry attempts
// are exhausted. Cause carries the last underlying failure.
type Error struct {
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// RetryPolicy bounds the oracle attempt loop.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns how long to wait after the given 1-based attempt.
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy retries up to 3 attempts with linear-exponential backoff
// (2s after the first attempt, 4s after the second).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 2 * time.Second
		},
	}
}

// Config configures the extraction client. Credentials are passed in
// explicitly; the client never reads process environment itself.
type Config struct {
	// BaseURL of the chat-completions endpoint. Defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is the bearer credential for the oracle.
	APIKey string
	// Model identifies the language model. Defaults to DefaultModel.
	Model string
	// HTTPClient is optional; defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	// Retry is optional; the zero value means DefaultRetryPolicy.
	Retry RetryPolicy
}

// Client extracts structured expense data from natural language via the
// oracle. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient creates an extraction client from the given config, applying
// defaults for anything unset.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
		retry:      cfg.Retry,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.retry.MaxAttempts == 0 {
		c.retry = DefaultRetryPolicy()
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the description to the oracle and returns the validated
// result. Transport failures, non-success statuses, malformed JSON and
// structurally empty results are all retryable; Extract returns on the first
// structurally valid response, or with *Error after the last attempt.
func (c *Client) Extract(ctx context.Context, input, currency string, knownParticipants []string) (*ParsedResult, error) {
	prompt := buildPrompt(input, currency, knownParticipants)

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		metrics.ExtractionAttempts.Inc()

		parsed, err := c.attempt(ctx, prompt)
		if err == nil {
			return parsed, nil
		}
		lastErr = err

		if attempt == c.retry.MaxAttempts {
			break
		}
		if err := sleep(ctx, c.retry.Backoff(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	metrics.ExtractionFailures.Inc()
	return nil, &Error{Attempts: c.retry.MaxAttempts, Cause: lastErr}
}

// attempt performs one oracle round trip and validates the response.
func (c *Client) attempt(ctx context.Context, prompt string) (*ParsedResult, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   300,
		Temperature: 0.0, // zero for strict adherence to the output shape
		TopP:        0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("invalid oracle response format: %w", err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("oracle response has no content")
	}

	return parseResult(chat.Choices[0].Message.Content)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
