package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"pargen/internal/config"
	"pargen/internal/port"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements port.TextGenerator using the OpenAI Chat Completions API.
// Transient failures are retried with exponential backoff; 429 responses wait
// out the advertised Retry-After before the next attempt.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	maxRetries int
	client     *http.Client
}

// NewClient creates an OpenAI-backed text generator from config.
func NewClient(cfg *config.GeneratorConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.GeneratorConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.GeneratorConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		endpoint:   endpoint,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

var _ port.TextGenerator = (*Client)(nil)

func (c *Client) Generate(ctx context.Context, req port.GenerateRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffFor(lastErr, attempt)
			log.Printf("generator.Generate: retrying after %s (attempt %d/%d): %v", wait, attempt, c.maxRetries, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.generateOnce(ctx, req)
		if err == nil {
			return text, nil
		}
		var perm *PermanentError
		if errors.As(err, &perm) {
			return "", perm.Err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// maxRetryAfter caps the wait a 429 response can demand. A server
// advertising hours of Retry-After must not stall a section call until
// the job timeout kills it.
const maxRetryAfter = 2 * time.Minute

// backoffFor returns the wait before the given retry attempt. Rate limit
// errors wait the advertised duration up to maxRetryAfter, everything
// else backs off exponentially.
func backoffFor(err error, attempt int) time.Duration {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		if rle.RetryAfter > maxRetryAfter {
			return maxRetryAfter
		}
		return rle.RetryAfter
	}
	return time.Duration(1<<(attempt-1)) * time.Second
}

func (c *Client) generateOnce(ctx context.Context, req port.GenerateRequest) (string, error) {
	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": req.MaxTokens,
		"messages": []map[string]interface{}{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.Prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError(baseErr, retryAfter)
		case resp.StatusCode >= 500:
			return "", baseErr
		default:
			return "", &PermanentError{Err: baseErr}
		}
	}

	return parseResponse(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &PermanentError{Err: fmt.Errorf("unmarshaling response: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return "", &PermanentError{Err: fmt.Errorf("empty response from API: no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
