// Package googlecse provides a searchbackend.Client implementation backed by
// the Google Custom Search JSON API.
package googlecse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"discovery/pkg/domain"
	"discovery/pkg/searchbackend"
	"discovery/pkg/serrors"
)

// endpoint is the Custom Search JSON API URL.
const endpoint = "https://www.googleapis.com/customsearch/v1"

// Client talks to the Google Custom Search JSON API and fulfills the
// searchbackend.Client interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
	engineID   string
}

// New constructs a Client using the provided http.Client, API key and custom
// search engine ID.
func New(httpClient *http.Client, apiKey, engineID string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		engineID:   engineID,
	}
}

// Name implements searchbackend.Client.
func (c *Client) Name() string { return "google" }

// Query executes one Custom Search request and maps the items to
// domain.SearchResult values.
func (c *Client) Query(ctx context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(searchbackend.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not read response body")
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, serrors.With(serrors.ErrRateLimited, "google: rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrTransport,
			"google: search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var searchResp struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(b, &searchResp); err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformed, err, "google: could not decode response")
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Backend: c.Name(),
		})
	}

	return results, nil
}

// Ensure Client conforms to the searchbackend.Client interface at compile time.
var _ searchbackend.Client = (*Client)(nil)
