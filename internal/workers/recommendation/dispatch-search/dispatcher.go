// internal/workers/recommendation/dispatch-search/dispatcher.go
package dispatchsearch

import (
	"context"

	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

// CatalogSearcher is the product catalog. Implementations bound each call with
// their own timeout.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Dispatch runs every query once, in order, one call at a time. A failed or
// empty query is unfound; a failure never stops the remaining queries. The
// pool keeps the first occurrence of each product id. Only caller
// cancellation is returned as an error.
func Dispatch(ctx context.Context, searcher CatalogSearcher, queries []string, log logger.Logger) (*Output, error) {
	out := &Output{
		Pool:       []models.SearchResult{},
		Found:      []string{},
		Unfound:    []string{},
		QueriesRun: make([]string, 0, len(queries)),
	}
	seen := make(map[string]struct{})

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.QueriesRun = append(out.QueriesRun, query)

		results, err := searcher.Search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("catalog search failed, query marked unfound", map[string]interface{}{
				"query": query,
				"error": apperrors.NewCatalogSearchFailedError(query, err).Details,
			})
			out.Unfound = append(out.Unfound, query)
			continue
		}
		results = withProductID(results, query, log)
		if len(results) == 0 {
			out.Unfound = append(out.Unfound, query)
			continue
		}

		out.Found = append(out.Found, query)
		for _, r := range results {
			if _, dup := seen[r.ProductID]; dup {
				out.Duplicates++
				continue
			}
			seen[r.ProductID] = struct{}{}
			if r.Query == "" {
				r.Query = query
			}
			out.Pool = append(out.Pool, r)
		}
	}

	return out, nil
}

// withProductID drops results that cannot be keyed in the pool. A query whose
// results all lack an id counts as unfound.
func withProductID(results []models.SearchResult, query string, log logger.Logger) []models.SearchResult {
	kept := results[:0:0]
	for _, r := range results {
		if r.ProductID == "" {
			log.Warn("catalog result without product id skipped", map[string]interface{}{
				"query": query,
				"name":  r.Name,
			})
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
