// Package openai provides an llmjudge.Client implementation backed by the
// OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"discovery/pkg/llmjudge"
	"discovery/pkg/serrors"
)

const (
	// DefaultBaseURL is the public OpenAI API endpoint. It can be overridden
	// for Azure OpenAI or compatible gateways.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	maxTokens   = 256
	temperature = 0.2
)

// Client talks to the OpenAI chat completions API and fulfills the
// llmjudge.Client interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// New constructs a Client using the provided http.Client and API key.
// Empty baseURL and model fall back to the package defaults.
func New(httpClient *http.Client, apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// Name implements llmjudge.Client.
func (c *Client) Name() string { return "openai" }

// Complete executes the prompt against /chat/completions and returns the raw
// completion text. Failures are classified with the serrors provider kinds so
// the fallback router can branch on them.
func (c *Client) Complete(ctx context.Context, p llmjudge.Prompt) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type chatReq struct {
		Model       string    `json:"model"`
		Messages    []message `json:"messages"`
		MaxTokens   int       `json:"max_tokens,omitempty"`
		Temperature float64   `json:"temperature,omitempty"`
	}
	bodyBytes, err := json.Marshal(chatReq{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: p.Render()}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		strings.NewReader(string(bodyBytes)))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrTransport, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrTransport, err, "could not read response body")
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	// the error payload is informative even on non-2xx statuses
	_ = json.Unmarshal(b, &chatResp)

	if resp.StatusCode == http.StatusTooManyRequests {
		if chatResp.Error != nil && isQuotaError(chatResp.Error.Type, chatResp.Error.Code) {
			return "", serrors.With(serrors.ErrQuotaExceeded, "openai: %s", chatResp.Error.Message)
		}

		return "", serrors.With(serrors.ErrRateLimited, "openai: rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", serrors.With(serrors.ErrTransport,
			"openai: completion failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if len(chatResp.Choices) == 0 {
		return "", serrors.With(serrors.ErrMalformed, "openai: no completion choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// isQuotaError distinguishes a spent budget from ordinary throttling: OpenAI
// reports both with HTTP 429 but marks exhausted quota in the error payload.
func isQuotaError(errType, errCode string) bool {
	return strings.Contains(errType, "insufficient_quota") || strings.Contains(errCode, "insufficient_quota")
}

// Ensure Client conforms to the llmjudge.Client interface at compile time.
var _ llmjudge.Client = (*Client)(nil)
