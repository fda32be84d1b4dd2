// Package siteprobe provides a credential-free searchbackend.Client that
// probes conventional paths on the entity's own site with HEAD requests. It
// serves as the always-available last backend when no search API is
// configured. It checks only that a path exists; page content is never
// fetched or parsed.
package siteprobe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"discovery/pkg/domain"
	"discovery/pkg/searchbackend"
)

// Client probes https://{site}/{pattern} for each category keyword and
// reports the paths that answer 200. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
}

// New constructs a Client using the provided http.Client. The client should
// follow redirects so that e.g. /pricing -> /plans still counts as present.
func New(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Name implements searchbackend.Client.
func (c *Client) Name() string { return "siteprobe" }

// Query issues one HEAD request per category keyword against the entity's
// site. Unreachable or non-200 paths are skipped silently; probing cannot
// fail as a whole unless the context is cancelled.
func (c *Client) Query(ctx context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
	if q.Site == "" {
		return nil, nil
	}

	title := cases.Title(language.English)
	var results []domain.SearchResult
	for _, pattern := range q.Category.Patterns() {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("probe cancelled: %w", err)
		}

		probeURL := "https://" + q.Site + "/" + pattern
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
		if err != nil {
			continue
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}

		results = append(results, domain.SearchResult{
			URL:     probeURL,
			Title:   title.String(strings.ReplaceAll(pattern, "-", " ")),
			Snippet: "found by probing " + q.Site,
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
