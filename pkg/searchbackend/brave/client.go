// Package brave provides a searchbackend.Client implementation backed by the
// Brave Search API.
package brave

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

// endpoint is the Brave web search API URL.
const endpoint = "https://api.search.brave.com/res/v1/web/search"

// Client talks to the Brave Search API and fulfills the searchbackend.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
}

// New constructs a Client using the provided http.Client and subscription token.
func New(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

// Name implements searchbackend.Client.
func (c *Client) Name() string { return "brave" }

// Query executes one web search request and maps the results to
// domain.SearchResult values.
func (c *Client) Query(ctx context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("count", strconv.Itoa(searchbackend.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

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
		return nil, serrors.With(serrors.ErrRateLimited, "brave: rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrTransport,
			"brave: search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var searchResp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(b, &searchResp); err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformed, err, "brave: could not decode response")
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Web.Results))
	for _, item := range searchResp.Web.Results {
		if item.URL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     item.URL,
			Title:   item.Title,
			Snippet: item.Description,
			Backend: c.Name(),
		})
		if len(results) == searchbackend.MaxResults {
			break
		}
	}

	return results, nil
}

// Ensure Client conforms to the searchbackend.Client interface at compile time.
var _ searchbackend.Client = (*Client)(nil)
