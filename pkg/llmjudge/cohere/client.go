// Package cohere provides an llmjudge.Client implementation backed by the
// Cohere v2 chat API.
package cohere

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
	// DefaultBaseURL is the public Cohere API endpoint.
	DefaultBaseURL = "https://api.cohere.com"
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = "command-r"

	maxTokens   = 256
	temperature = 0.2
)

// Client talks to the Cohere chat API and fulfills the llmjudge.Client
// interface. It is safe for concurrent use.
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
func (c *Client) Name() string { return "cohere" }

// Complete executes the prompt against /v2/chat and returns the raw
// completion text. Failures are classified with the serrors provider kinds.
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
		c.baseURL+"/v2/chat",
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

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", serrors.With(serrors.ErrQuotaExceeded, "cohere: %s", strings.TrimSpace(string(b)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", serrors.With(serrors.ErrRateLimited, "cohere: rate limited")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", serrors.With(serrors.ErrTransport,
			"cohere: chat failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var chatResp struct {
		Message struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(b, &chatResp); err != nil {
		return "", serrors.Wrap(serrors.ErrMalformed, err, "cohere: could not decode response")
	}
	for _, part := range chatResp.Message.Content {
		if part.Type == "text" && part.Text != "" {
			return part.Text, nil
		}
	}

	return "", serrors.With(serrors.ErrMalformed, "cohere: no text content in response")
}

// Ensure Client conforms to the llmjudge.Client interface at compile time.
var _ llmjudge.Client = (*Client)(nil)
