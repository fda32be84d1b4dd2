package discovery_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"discovery/internal/discovery"
	"discovery/internal/search"
	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
	"discovery/pkg/searchbackend"
	"discovery/pkg/serrors"
)

// fakeBackend is a function-backed searchbackend.Client.
type fakeBackend struct {
	name  string
	calls atomic.Int64
	fn    func(ctx context.Context, q searchbackend.Query) ([]domain.SearchResult, error)
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Query(ctx context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
	f.calls.Add(1)

	return f.fn(ctx, q)
}

// resultsPerCategory returns a backend serving a fixed candidate list for
// every category, with per-category URLs so dedup never crosses categories.
func resultsPerCategory(name string) *fakeBackend {
	return &fakeBackend{
		name: name,
		fn: func(_ context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
			return []domain.SearchResult{
				{URL: fmt.Sprintf("https://acme.com/%s", q.Category), Title: fmt.Sprintf("Acme %s", q.Category), Backend: name},
				{URL: fmt.Sprintf("https://acme.com/other-%s", q.Category), Title: "Other", Backend: name},
			}, nil
		},
	}
}

// roleJudge answers each role with a fixed response.
func roleJudge(name string, responses map[llmjudge.Role]string) *fakeJudge {
	return &fakeJudge{
		name: name,
		fn: func(_ context.Context, p llmjudge.Prompt) (string, error) {
			resp, ok := responses[p.Role]
			if !ok {
				return "", serrors.With(serrors.ErrTransport, "no canned response")
			}

			return resp, nil
		},
	}
}

// confidentResponses makes a judge that recognizes the brand and always picks
// the first candidate, with the given per-layer confidences.
func confidentResponses(brand, ranking, selection float64) map[llmjudge.Role]string {
	return map[llmjudge.Role]string{
		llmjudge.RoleBrand:     fmt.Sprintf(`{"recognized":true,"confidence":%g,"reason":"known brand"}`, brand),
		llmjudge.RoleRanking:   fmt.Sprintf(`{"relevant":true,"order":[1,2],"confidence":%g}`, ranking),
		llmjudge.RoleSelection: fmt.Sprintf(`{"suitable":true,"choice":1,"confidence":%g}`, selection),
	}
}

func newTestPipeline(backends []searchbackend.Client, judges ...llmjudge.Client) discovery.Discoverer {
	orch := search.New(backends, search.Options{})
	router := discovery.NewRouter(judges, fastRouterOptions())

	return discovery.New(orch, router, discovery.Options{})
}

func validRequest(categories ...domain.Category) domain.DiscoveryRequest {
	return domain.DiscoveryRequest{
		Name:       "Acme",
		BaseDomain: "acme.com",
		Categories: categories,
	}
}

func threshold(v float64) *float64 { return &v }

func TestPipeline_HappyPath(t *testing.T) {
	backend := resultsPerCategory("google")
	judge := roleJudge("openai", confidentResponses(0.9, 0.85, 0.95))
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)

	require.True(t, res.Brand.Recognized)
	require.Equal(t, "openai", res.Brand.LLMUsed)
	require.Len(t, res.Results, 1)

	found, ok := res.Results[domain.CategoryPricing]
	require.True(t, ok)
	require.Equal(t, "https://acme.com/pricing", found.URL)
	require.Equal(t, "openai", found.RankingLLM)
	require.Equal(t, "openai", found.SelectionLLM)
	require.Equal(t, domain.DefaultConfidenceThreshold, found.Threshold)
	// overall is the minimum of the three layers
	require.InDelta(t, 0.9, found.Confidence.Brand, 1e-9)
	require.InDelta(t, 0.85, found.Confidence.Ranking, 1e-9)
	require.InDelta(t, 0.95, found.Confidence.Selection, 1e-9)
	require.InDelta(t, 0.85, found.Confidence.Overall, 1e-9)
}

func TestPipeline_UnrecognizedBrandSkipsSearch(t *testing.T) {
	backend := resultsPerCategory("google")
	judge := roleJudge("openai", map[llmjudge.Role]string{
		llmjudge.RoleBrand: `{"recognized":false,"confidence":0.1,"reason":"no such company"}`,
	})
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing, domain.CategoryBlog))
	require.NoError(t, err)

	require.False(t, res.Brand.Recognized)
	require.Equal(t, "no such company", res.Brand.Reason)
	require.Empty(t, res.Results)
	// the gate stops the run before any backend query
	require.EqualValues(t, 0, backend.calls.Load())
}

func TestPipeline_OverallBelowThresholdRejected(t *testing.T) {
	backend := resultsPerCategory("google")
	// selection drags the overall minimum below the default 0.6
	judge := roleJudge("openai", confidentResponses(0.9, 0.8, 0.5))
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)
	require.Empty(t, res.Results)
}

func TestPipeline_ThresholdMonotonicity(t *testing.T) {
	backend := resultsPerCategory("google")
	judge := roleJudge("openai", confidentResponses(0.9, 0.8, 0.5))

	// the same judgments accepted at a lower threshold
	req := validRequest(domain.CategoryPricing)
	req.MinConfidence = threshold(0.4)

	p := newTestPipeline([]searchbackend.Client{backend}, judge)
	res, err := p.Discover(context.Background(), req)
	require.NoError(t, err)

	found, ok := res.Results[domain.CategoryPricing]
	require.True(t, ok)
	require.InDelta(t, 0.5, found.Confidence.Overall, 1e-9)
	require.InDelta(t, 0.4, found.Threshold, 1e-9)
}

func TestPipeline_EmptyPoolYieldsNoResult(t *testing.T) {
	empty := &fakeBackend{
		name: "google",
		fn: func(context.Context, searchbackend.Query) ([]domain.SearchResult, error) {
			return nil, nil
		},
	}
	judge := roleJudge("openai", confidentResponses(0.9, 0.9, 0.9))
	p := newTestPipeline([]searchbackend.Client{empty}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryDocs))
	require.NoError(t, err)
	require.True(t, res.Brand.Recognized)
	require.Empty(t, res.Results)
}

func TestPipeline_IrrelevantRankingYieldsNoResult(t *testing.T) {
	backend := resultsPerCategory("google")
	judge := roleJudge("openai", map[llmjudge.Role]string{
		llmjudge.RoleBrand:   `{"recognized":true,"confidence":0.9}`,
		llmjudge.RoleRanking: `{"relevant":false}`,
	})
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)
	require.Empty(t, res.Results)
}

func TestPipeline_UnsuitableSelectionYieldsNoResult(t *testing.T) {
	backend := resultsPerCategory("google")
	judge := roleJudge("openai", map[llmjudge.Role]string{
		llmjudge.RoleBrand:     `{"recognized":true,"confidence":0.9}`,
		llmjudge.RoleRanking:   `{"relevant":true,"order":[1,2],"confidence":0.9}`,
		llmjudge.RoleSelection: `{"suitable":false}`,
	})
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)
	require.Empty(t, res.Results)
}

func TestPipeline_CategoriesAreIsolated(t *testing.T) {
	// blog gets no search results, pricing succeeds
	backend := &fakeBackend{name: "google"}
	backend.fn = func(_ context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
		if q.Category == domain.CategoryBlog {
			return nil, nil
		}

		return []domain.SearchResult{
			{URL: "https://acme.com/pricing", Title: "Pricing", Backend: "google"},
		}, nil
	}
	judge := roleJudge("openai", map[llmjudge.Role]string{
		llmjudge.RoleBrand:     `{"recognized":true,"confidence":0.9}`,
		llmjudge.RoleRanking:   `{"relevant":true,"order":[1],"confidence":0.9}`,
		llmjudge.RoleSelection: `{"suitable":true,"choice":1,"confidence":0.9}`,
	})
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing, domain.CategoryBlog))
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	require.Contains(t, res.Results, domain.CategoryPricing)
	require.NotContains(t, res.Results, domain.CategoryBlog)
}

func TestPipeline_FallbackProviderRecorded(t *testing.T) {
	backend := resultsPerCategory("google")
	exhausted := failingJudge("openai", serrors.With(serrors.ErrQuotaExceeded, "out of budget"))
	healthy := roleJudge("cohere", confidentResponses(0.9, 0.9, 0.9))
	p := newTestPipeline([]searchbackend.Client{backend}, exhausted, healthy)

	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)

	require.Equal(t, "cohere", res.Brand.LLMUsed)
	found := res.Results[domain.CategoryPricing]
	require.Equal(t, "cohere", found.RankingLLM)
	require.Equal(t, "cohere", found.SelectionLLM)
}

func TestPipeline_PatternDegradationFiltersByThreshold(t *testing.T) {
	backend := resultsPerCategory("google")
	// the brand judge works, but every ranking and selection provider fails
	judge := roleJudge("openai", map[llmjudge.Role]string{
		llmjudge.RoleBrand: `{"recognized":true,"confidence":0.9}`,
	})
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	// degraded pattern judgments stay below the default threshold
	res, err := p.Discover(context.Background(), validRequest(domain.CategoryPricing))
	require.NoError(t, err)
	require.Empty(t, res.Results)

	// an explicitly low threshold accepts them and records the degradation
	req := validRequest(domain.CategoryPricing)
	req.MinConfidence = threshold(0.1)
	res, err = p.Discover(context.Background(), req)
	require.NoError(t, err)

	found, ok := res.Results[domain.CategoryPricing]
	require.True(t, ok)
	require.Equal(t, "pattern", found.RankingLLM)
	require.Equal(t, "pattern", found.SelectionLLM)
	require.InDelta(t, 0.2, found.Confidence.Overall, 1e-9)
}

func TestPipeline_PreferredProviderPerJudgment(t *testing.T) {
	backend := resultsPerCategory("google")
	openai := roleJudge("openai", confidentResponses(0.9, 0.9, 0.9))
	cohere := roleJudge("cohere", confidentResponses(0.8, 0.8, 0.8))
	p := newTestPipeline([]searchbackend.Client{backend}, openai, cohere)

	req := validRequest(domain.CategoryPricing)
	req.RankingProvider = "cohere"

	res, err := p.Discover(context.Background(), req)
	require.NoError(t, err)

	found := res.Results[domain.CategoryPricing]
	require.Equal(t, "cohere", found.RankingLLM)
	// selection had no preference and uses the configured order
	require.Equal(t, "openai", found.SelectionLLM)
	// the brand gate always uses the configured order
	require.Equal(t, "openai", res.Brand.LLMUsed)
}

func TestPipeline_InvalidRequests(t *testing.T) {
	p := newTestPipeline(nil, roleJudge("openai", confidentResponses(0.9, 0.9, 0.9)))

	cases := []struct {
		name string
		req  domain.DiscoveryRequest
	}{
		{name: "empty name", req: domain.DiscoveryRequest{
			BaseDomain: "acme.com", Categories: []domain.Category{domain.CategoryPricing},
		}},
		{name: "bad domain", req: domain.DiscoveryRequest{
			Name: "Acme", BaseDomain: "https://acme.com/x", Categories: []domain.Category{domain.CategoryPricing},
		}},
		{name: "no categories", req: domain.DiscoveryRequest{
			Name: "Acme", BaseDomain: "acme.com",
		}},
		{name: "unknown category", req: domain.DiscoveryRequest{
			Name: "Acme", BaseDomain: "acme.com", Categories: []domain.Category{"changelog"},
		}},
		{name: "threshold out of range", req: domain.DiscoveryRequest{
			Name: "Acme", BaseDomain: "acme.com",
			Categories:    []domain.Category{domain.CategoryPricing},
			MinConfidence: threshold(1.5),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Discover(context.Background(), tc.req)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestPipeline_MixedCaseCategoryCanonicalized(t *testing.T) {
	var gotQuery searchbackend.Query
	backend := &fakeBackend{
		name: "google",
		fn: func(_ context.Context, q searchbackend.Query) ([]domain.SearchResult, error) {
			gotQuery = q

			return []domain.SearchResult{
				{URL: "https://acme.com/pricing", Title: "Acme Pricing", Backend: "google"},
			}, nil
		},
	}
	judge := roleJudge("openai", confidentResponses(0.9, 0.85, 0.95))
	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	res, err := p.Discover(context.Background(), validRequest("Pricing"))
	require.NoError(t, err)

	// the canonical tag drives the query template and keys the result map
	require.Equal(t, "Acme pricing", gotQuery.Text)
	require.Equal(t, domain.CategoryPricing, gotQuery.Category)

	found, ok := res.Results[domain.CategoryPricing]
	require.True(t, ok)
	require.Equal(t, domain.CategoryPricing, found.Category)
}

func TestPipeline_UnknownProviderRejected(t *testing.T) {
	p := newTestPipeline(nil, roleJudge("openai", confidentResponses(0.9, 0.9, 0.9)))

	req := validRequest(domain.CategoryPricing)
	req.SelectionProvider = "claude"

	_, err := p.Discover(context.Background(), req)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestPipeline_CancelledWithoutAllowPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	backend := resultsPerCategory("google")
	judge := &fakeJudge{name: "openai"}
	judge.fn = func(_ context.Context, p llmjudge.Prompt) (string, error) {
		if p.Role == llmjudge.RoleBrand {
			return `{"recognized":true,"confidence":0.9}`, nil
		}
		// abort the request while category work is in flight
		cancel()

		return "", serrors.With(serrors.ErrQuotaExceeded, "aborted")
	}

	p := newTestPipeline([]searchbackend.Client{backend}, judge)
	_, err := p.Discover(ctx, validRequest(domain.CategoryPricing))
	require.ErrorIs(t, err, serrors.ErrCancelled)
}

func TestPipeline_CancelledWithAllowPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	backend := resultsPerCategory("google")
	judge := &fakeJudge{name: "openai"}
	judge.fn = func(_ context.Context, p llmjudge.Prompt) (string, error) {
		if p.Role == llmjudge.RoleBrand {
			return `{"recognized":true,"confidence":0.9}`, nil
		}
		cancel()

		return "", serrors.With(serrors.ErrQuotaExceeded, "aborted")
	}

	p := newTestPipeline([]searchbackend.Client{backend}, judge)

	req := validRequest(domain.CategoryPricing)
	req.AllowPartial = true

	res, err := p.Discover(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.True(t, res.Brand.Recognized)
	require.Empty(t, res.Results)
}
