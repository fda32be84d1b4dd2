// Package search implements the multi-backend search orchestrator: it fans a
// category-specific query out to all configured backends in parallel, then
// merges and deduplicates the results deterministically.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"discovery/pkg/domain"
	"discovery/pkg/logger"
	"discovery/pkg/searchbackend"
)

// DefaultBackendTimeout bounds each backend call when no timeout is configured.
const DefaultBackendTimeout = 15 * time.Second

// Options configure the orchestrator.
type Options struct {
	// BackendTimeout bounds each individual backend call.
	BackendTimeout time.Duration
	// QueryTemplates overrides the built-in per-category query templates.
	QueryTemplates map[domain.Category]string
}

// Orchestrator produces a deduplicated candidate pool for one
// (entity, category) pair. Backends run concurrently and independently: a
// backend that errors or times out contributes zero results and never fails
// the orchestration.
type Orchestrator struct {
	backends []searchbackend.Client
	opts     Options
}

// New constructs an Orchestrator over the given backends. The backend order
// is the configured priority order: when two backends return the same URL,
// the earlier backend's title and snippet win.
func New(backends []searchbackend.Client, opts Options) *Orchestrator {
	if opts.BackendTimeout <= 0 {
		opts.BackendTimeout = DefaultBackendTimeout
	}

	return &Orchestrator{
		backends: backends,
		opts:     opts,
	}
}

// Search queries every backend for the (name, category) pair and returns the
// merged, deduplicated pool. The result is empty, never an error, when all
// backends fail; ordering is deterministic for a fixed set of backend
// responses: results appear grouped by backend in configured priority order,
// preserving each backend's own ordering, with later duplicates dropped.
func (o *Orchestrator) Search(ctx context.Context,
	name, site string,
	category domain.Category) []domain.SearchResult {
	q := searchbackend.Query{
		Text:     RenderQuery(o.opts.QueryTemplates, name, site, category),
		Site:     site,
		Category: category,
	}

	// one result slot per backend, indexed by configured priority
	slots := make([][]domain.SearchResult, len(o.backends))

	g, gctx := errgroup.WithContext(ctx)
	for i, backend := range o.backends {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, o.opts.BackendTimeout)
			defer cancel()

			results, err := backend.Query(callCtx, q)
			// backends may hand back partial results alongside an error;
			// keep whatever was collected
			slots[i] = results
			if err != nil {
				logger.Warn(ctx, "search backend failed",
					zap.String("backend", backend.Name()),
					zap.String("query", q.Text),
					zap.Error(err))
			}

			return nil
		})
	}
	// workers always return nil; the join point only waits
	_ = g.Wait()

	return dedup(ctx, slots)
}

// dedup merges the per-backend slots in configured priority order, dropping
// results whose normalized URL was already seen. Iterating slots instead of
// arrival order keeps the merge deterministic.
func dedup(ctx context.Context, slots [][]domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool)
	var merged []domain.SearchResult
	for _, results := range slots {
		for _, res := range results {
			key, err := DedupKey(res.URL)
			if err != nil {
				logger.Debug(ctx, "dropping unparseable result URL",
					zap.String("url", res.URL), zap.Error(err))

				continue
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, res)
		}
	}

	return merged
}
