package catalog

import (
	"context"

	"purchase-advisor/internal/common/resilience"
	"purchase-advisor/internal/models"
)

type GuardedSearcher struct {
	next    Searcher
	breaker *resilience.Breaker
}

func NewGuardedSearcher(next Searcher, breaker *resilience.Breaker) *GuardedSearcher {
	return &GuardedSearcher{next: next, breaker: breaker}
}

func (g *GuardedSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return resilience.Call(ctx, g.breaker, func(ctx context.Context) ([]models.SearchResult, error) {
		return g.next.Search(ctx, query)
	})
}
