// Package discovery implements the confidence-validated URL discovery
// pipeline: brand-recognition gating, per-category search, LM ranking and
// selection through a provider fallback chain, and confidence aggregation.
package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"discovery/internal/search"
	"discovery/pkg/domain"
	"discovery/pkg/logger"
	"discovery/pkg/metrics"
	"discovery/pkg/serrors"
)

// DefaultCategoryConcurrency bounds how many category pipelines run at once.
const DefaultCategoryConcurrency = 4

// Options configure the pipeline.
type Options struct {
	// CategoryConcurrency bounds concurrent per-category pipelines.
	CategoryConcurrency int
}

// pipeline is the concrete implementation of the Discoverer interface. It
// owns the run order: validate, brand gate, then per-category
// search-rank-select with confidence aggregation.
type pipeline struct {
	options      Options
	orchestrator *search.Orchestrator
	brand        *BrandValidator
	ranker       *URLRanker
	selector     *URLSelector
	router       *Router
}

var _ Discoverer = (*pipeline)(nil)

// New constructs a Discoverer. The router is shared by the brand gate, the
// ranker and the selector so all three walk the same provider chain.
func New(orchestrator *search.Orchestrator, router *Router, options Options) Discoverer {
	if options.CategoryConcurrency <= 0 {
		options.CategoryConcurrency = DefaultCategoryConcurrency
	}

	return &pipeline{
		options:      options,
		orchestrator: orchestrator,
		brand:        NewBrandValidator(router),
		ranker:       NewURLRanker(router),
		selector:     NewURLSelector(router),
		router:       router,
	}
}

// Discover runs one full discovery request.
//
// The brand gate runs first and exactly once; an unrecognized brand returns a
// result with zero categories, not an error. Recognized brands fan out one
// pipeline per requested category. A category that produces no acceptable URL
// is simply absent from the result map; only provider-chain exhaustion or
// cancellation surface as errors.
//
// Cancellation semantics follow AllowPartial: by default a cancelled request
// returns ErrCancelled and no result, with AllowPartial the categories that
// completed before the cancellation are preserved.
func (p *pipeline) Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.DiscoveryResult, error) {
	start := time.Now()
	defer func() { metrics.PipelineDuration.Observe(time.Since(start).Seconds()) }()

	if err := req.Validate(); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid discovery request")
	}
	if err := p.validateProviders(req); err != nil {
		return nil, err
	}

	brand, err := p.brand.Validate(ctx, req.Name, req.BaseDomain)
	if err != nil {
		return nil, err
	}

	result := &domain.DiscoveryResult{
		Brand:   brand,
		Results: make(map[domain.Category]domain.DiscoveredURL),
	}
	if !brand.Recognized {
		metrics.BrandRejections.Inc()
		logger.Info(ctx, "brand not recognized, skipping discovery",
			zap.String("name", req.Name),
			zap.String("domain", req.BaseDomain),
			zap.String("reason", brand.Reason))

		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.CategoryConcurrency)
	for _, category := range req.Categories {
		g.Go(func() error {
			found, ok, err := p.discoverCategory(gctx, req, brand, category)
			if err != nil {
				if req.AllowPartial && errors.Is(err, serrors.ErrCancelled) {
					return nil
				}

				return err
			}
			if !ok {
				return nil
			}

			mu.Lock()
			result.Results[category] = found
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil && !req.AllowPartial {
		return nil, serrors.Wrap(serrors.ErrCancelled, ctx.Err(), "discovery cancelled")
	}

	return result, nil
}

// discoverCategory runs search, ranking, selection and the confidence check
// for one category. ok=false means the category produced no acceptable URL.
func (p *pipeline) discoverCategory(ctx context.Context,
	req domain.DiscoveryRequest,
	brand domain.BrandValidation,
	category domain.Category) (domain.DiscoveredURL, bool, error) {
	pool := p.orchestrator.Search(ctx, req.Name, req.BaseDomain, category)
	if len(pool) == 0 {
		logger.Info(ctx, "no search results for category",
			zap.String("name", req.Name),
			zap.String("category", string(category)))

		return domain.DiscoveredURL{}, false, nil
	}

	ranked, rankingLLM, err := p.ranker.Rank(ctx, req.RankingProvider, req.Name, req.BaseDomain, category, pool)
	if err != nil {
		return domain.DiscoveredURL{}, false, err
	}
	if len(ranked) == 0 {
		logger.Info(ctx, "no relevant candidate for category",
			zap.String("name", req.Name),
			zap.String("category", string(category)))

		return domain.DiscoveredURL{}, false, nil
	}

	selected, err := p.selector.Select(ctx, req.SelectionProvider, req.Name, req.BaseDomain, category, ranked)
	if err != nil {
		return domain.DiscoveredURL{}, false, err
	}
	if selected == nil {
		return domain.DiscoveredURL{}, false, nil
	}

	// the ranking judge reports one confidence for the whole ordering
	confidence := domain.NewConfidenceBundle(
		brand.Confidence,
		ranked[0].RankingConfidence,
		selected.Confidence)
	threshold := req.Threshold()
	if confidence.Overall < threshold {
		logger.Info(ctx, "candidate below confidence threshold",
			zap.String("name", req.Name),
			zap.String("category", string(category)),
			zap.String("url", selected.Candidate.URL),
			zap.Float64("overall", confidence.Overall),
			zap.Float64("threshold", threshold))

		return domain.DiscoveredURL{}, false, nil
	}

	return domain.DiscoveredURL{
		Category:     category,
		URL:          selected.Candidate.URL,
		Title:        selected.Candidate.Title,
		Snippet:      selected.Candidate.Snippet,
		Confidence:   confidence,
		RankingLLM:   rankingLLM,
		SelectionLLM: selected.LLMUsed,
		Threshold:    threshold,
	}, true, nil
}

// validateProviders rejects requests naming a provider the router does not
// know, before any external call is made.
func (p *pipeline) validateProviders(req domain.DiscoveryRequest) error {
	for _, name := range []string{req.RankingProvider, req.SelectionProvider} {
		if name != "" && !p.router.Knows(name) {
			return serrors.With(serrors.ErrBadRequest, "unknown provider %q", name)
		}
	}

	return nil
}
