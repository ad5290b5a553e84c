// internal/workers/recommendation/select-items/selector.go
package selectitems

import (
	"context"

	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

// Selector tries the preferred strategy when it is available and falls back
// to the deterministic rule on any degradation.
type Selector struct {
	preferred Strategy
	fallback  Strategy
	logger    logger.Logger
}

func NewSelector(preferred, fallback Strategy, log logger.Logger) *Selector {
	return &Selector{preferred: preferred, fallback: fallback, logger: log}
}

func (s *Selector) Select(ctx context.Context, req *Request) (*Output, error) {
	if req.Budget < 0 {
		req.Budget = 0
	}
	if len(req.Pool) == 0 {
		return s.finish(req, &Selection{}, models.SourceNoResults), nil
	}

	if s.preferred != nil && s.preferred.Available() {
		sel, err := s.preferred.Select(ctx, req)
		if err == nil {
			if items := enforceBudget(sel.Items, req.Budget); len(items) > 0 {
				sel.Items = items
				return s.finish(req, sel, s.preferred.Source()), nil
			}
			s.logger.Warn("preferred selection unusable within budget", map[string]interface{}{
				"strategy": string(s.preferred.Source()),
			})
		} else {
			if !apperrors.IsDegradation(err) || ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn("preferred selection degraded", map[string]interface{}{
				"strategy": string(s.preferred.Source()),
				"error":    err.Error(),
			})
		}
	}

	sel, err := s.fallback.Select(ctx, req)
	if err != nil {
		return nil, apperrors.NewRecommendationFailedError(err)
	}
	sel.Items = enforceBudget(sel.Items, req.Budget)
	return s.finish(req, sel, s.fallback.Source()), nil
}

func (s *Selector) finish(req *Request, sel *Selection, source models.Source) *Output {
	items := sel.Items
	if items == nil {
		items = []models.SelectedItem{}
	}
	total := models.SumSelected(items)
	remaining := req.Budget - total
	if remaining < 0 {
		remaining = 0
	}
	return &Output{
		Items:           items,
		Reasoning:       completeRationale(sel.Reasoning, items, req.Pool, req.QueriesRun),
		Source:          source,
		TotalCost:       total,
		RemainingBudget: remaining,
	}
}
