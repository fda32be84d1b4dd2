package siteprobe_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"discovery/pkg/domain"
	"discovery/pkg/searchbackend"
	"discovery/pkg/searchbackend/siteprobe"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *siteprobe.Client {
	return siteprobe.New(&http.Client{Transport: fn})
}

func TestClient_Query_ReportsExistingPaths(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodHead, r.Method)
		require.Equal(t, "acme.com", r.URL.Host)

		status := http.StatusNotFound
		if r.URL.Path == "/pricing" || r.URL.Path == "/plans" {
			status = http.StatusOK
		}

		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	results, err := c.Query(context.Background(), searchbackend.Query{
		Text:     "Acme pricing",
		Site:     "acme.com",
		Category: domain.CategoryPricing,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "https://acme.com/pricing", results[0].URL)
	require.Equal(t, "Pricing", results[0].Title)
	require.Equal(t, "siteprobe", results[0].Backend)
}

func TestClient_Query_EmptySiteYieldsNothing(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected without a site")

		return nil, nil
	})

	results, err := c.Query(context.Background(), searchbackend.Query{Text: "Acme pricing"})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestClient_Query_SkipsFailedProbes(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	results, err := c.Query(context.Background(), searchbackend.Query{
		Text:     "Acme docs",
		Site:     "acme.com",
		Category: domain.CategoryDocs,
	})
	require.NoError(t, err)
	require.Empty(t, results)
}
