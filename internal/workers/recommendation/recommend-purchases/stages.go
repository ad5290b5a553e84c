// internal/workers/recommendation/recommend-purchases/stages.go
package recommendpurchases

import (
	"context"

	dispatchsearch "purchase-advisor/internal/workers/recommendation/dispatch-search"
	extractitems "purchase-advisor/internal/workers/recommendation/extract-items"
	planqueries "purchase-advisor/internal/workers/recommendation/plan-queries"
	resolveunfound "purchase-advisor/internal/workers/recommendation/resolve-unfound"
	selectitems "purchase-advisor/internal/workers/recommendation/select-items"
)

// Stage outcomes recorded per pipeline step.
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

type Extractor interface {
	Execute(ctx context.Context, input *extractitems.Input) (*extractitems.Output, error)
}

type Planner interface {
	Execute(ctx context.Context, input *planqueries.Input) (*planqueries.Output, error)
}

type Dispatcher interface {
	Execute(ctx context.Context, input *dispatchsearch.Input) (*dispatchsearch.Output, error)
}

type Selector interface {
	Execute(ctx context.Context, input *selectitems.Input) (*selectitems.Output, error)
}

type Resolver interface {
	Execute(ctx context.Context, input *resolveunfound.Input) (*resolveunfound.Output, error)
}

// Stages are the per-step workers the pipeline runs in process. Each one is
// also registered as its own job worker.
type Stages struct {
	Extract  Extractor
	Plan     Planner
	Dispatch Dispatcher
	Select   Selector
	Resolve  Resolver
}
