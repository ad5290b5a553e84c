// internal/workers/recommendation/resolve-unfound/fetch.go
package resolveunfound

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

// WebSearcher is the fallback search. It is expected to always return at
// least a link-only result unless the caller cancels.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]models.WebResult, error)
}

// fetchMissing searches concurrently for every query without a batch. The
// results only land in the map; ordering is applied later by Resolve.
func fetchMissing(ctx context.Context, searcher WebSearcher, queries []string, batches map[string][]models.WebResult, limit int, log logger.Logger) (map[string][]models.WebResult, error) {
	out := make(map[string][]models.WebResult, len(queries))
	for q, b := range batches {
		out[q] = b
	}
	if searcher == nil {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, query := range queries {
		if _, ok := out[query]; ok {
			continue
		}
		g.Go(func() error {
			results, err := searcher.Search(gctx, query)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("web search failed, using link-only result", map[string]interface{}{
					"query": query,
					"error": err.Error(),
				})
				return nil
			}
			mu.Lock()
			out[query] = results
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
