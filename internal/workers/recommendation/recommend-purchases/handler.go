// internal/workers/recommendation/recommend-purchases/handler.go
package recommendpurchases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/metrics"
	"purchase-advisor/internal/common/observability"
	"purchase-advisor/internal/models"
	estimatedemand "purchase-advisor/internal/workers/forecasting/estimate-demand"
	dispatchsearch "purchase-advisor/internal/workers/recommendation/dispatch-search"
	extractitems "purchase-advisor/internal/workers/recommendation/extract-items"
	planqueries "purchase-advisor/internal/workers/recommendation/plan-queries"
	resolveunfound "purchase-advisor/internal/workers/recommendation/resolve-unfound"
	selectitems "purchase-advisor/internal/workers/recommendation/select-items"
)

const (
	TaskType = "recommend-purchases"
)

type Handler struct {
	config     *Config
	stages     Stages
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, stages Stages, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		stages:     stages,
		obs:        obs,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

// Execute runs the whole chain for one request. Degraded capabilities change
// the path taken but never fail the request; cancellation between stages
// discards everything computed so far.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	requestID := uuid.New().String()
	horizon := estimatedemand.ClampHorizon(input.HorizonDays)
	budget := clampBudget(input.Budget)
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("request.id", requestID),
		attribute.Float64("request.budget", budget),
		attribute.Int("request.horizon_days", horizon),
	)
	output, err := h.run(ctx, log, requestID, input.Prompt, budget, horizon)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(string(output.Source), output.TotalCost, budget)
	log.Info("recommendation produced", map[string]interface{}{
		"source":          string(output.Source),
		"items":           len(output.Recommendation.Items),
		"unfoundItems":    len(output.Recommendation.UnfoundItems),
		"totalCost":       output.TotalCost,
		"remainingBudget": output.RemainingBudget,
	})
	return output, nil
}

func (h *Handler) run(ctx context.Context, log logger.Logger, requestID, prompt string, budget float64, horizon int) (*Output, error) {
	var extracted *extractitems.Output
	err := h.stage(ctx, extractitems.TaskType, func(ctx context.Context) (string, error) {
		out, err := h.stages.Extract.Execute(ctx, &extractitems.Input{Prompt: prompt})
		if err != nil {
			return "", err
		}
		extracted = out
		if out.Source == extractitems.SourceExtracted {
			return OutcomePrimary, nil
		}
		return OutcomeFallback, nil
	})
	if err != nil {
		return nil, err
	}

	var forecasted []models.ForecastedItem
	err = h.stage(ctx, estimatedemand.TaskType, func(ctx context.Context) (string, error) {
		forecasted = estimatedemand.Estimate(extracted.Items, horizon)
		if len(forecasted) == 0 {
			return OutcomeSkipped, nil
		}
		return OutcomePrimary, nil
	})
	if err != nil {
		return nil, err
	}

	var plan *planqueries.Output
	err = h.stage(ctx, planqueries.TaskType, func(ctx context.Context) (string, error) {
		out, err := h.stages.Plan.Execute(ctx, &planqueries.Input{
			Prompt:          prompt,
			Budget:          budget,
			ForecastedItems: forecasted,
		})
		if err != nil {
			return "", err
		}
		plan = out
		if out.PlanSource == planqueries.PlanSourceGenerated {
			return OutcomePrimary, nil
		}
		return OutcomeFallback, nil
	})
	if err != nil {
		return nil, err
	}

	var dispatched *dispatchsearch.Output
	err = h.stage(ctx, dispatchsearch.TaskType, func(ctx context.Context) (string, error) {
		out, err := h.stages.Dispatch.Execute(ctx, &dispatchsearch.Input{Queries: plan.Queries})
		if err != nil {
			return "", err
		}
		dispatched = out
		return OutcomePrimary, nil
	})
	if err != nil {
		return nil, err
	}

	var selected *selectitems.Output
	err = h.stage(ctx, selectitems.TaskType, func(ctx context.Context) (string, error) {
		out, err := h.stages.Select.Execute(ctx, &selectitems.Input{
			Pool:            dispatched.Pool,
			Prompt:          prompt,
			Budget:          budget,
			ForecastedItems: forecasted,
			QueriesRun:      dispatched.QueriesRun,
		})
		if err != nil {
			return "", err
		}
		selected = out
		switch out.Source {
		case models.SourceNoResults:
			return OutcomeSkipped, nil
		case models.SourceFallbackRules:
			return OutcomeFallback, nil
		}
		return OutcomePrimary, nil
	})
	if err != nil {
		return nil, err
	}

	resolved := &resolveunfound.Output{
		UnfoundItems:    []models.UnfoundItem{},
		RemainingBudget: selected.RemainingBudget,
	}
	err = h.stage(ctx, resolveunfound.TaskType, func(ctx context.Context) (string, error) {
		if len(dispatched.Unfound) == 0 {
			return OutcomeSkipped, nil
		}
		out, err := h.stages.Resolve.Execute(ctx, &resolveunfound.Input{
			Queries:         dispatched.Unfound,
			RemainingBudget: selected.RemainingBudget,
		})
		if err != nil {
			return "", err
		}
		resolved = out
		return OutcomePrimary, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("pipeline stages complete", map[string]interface{}{
		"extractionSource": extracted.Source,
		"planSource":       plan.PlanSource,
		"poolSize":         len(dispatched.Pool),
		"unfoundQueries":   len(dispatched.Unfound),
	})

	return &Output{
		RequestID:       requestID,
		ForecastedItems: forecasted,
		Recommendation: models.Recommendation{
			Items:        selected.Items,
			Reasoning:    selected.Reasoning,
			UnfoundItems: resolved.UnfoundItems,
		},
		TotalCost:       selected.TotalCost + resolved.DebitedTotal,
		RemainingBudget: math.Max(0, resolved.RemainingBudget),
		Source:          selected.Source,
		QueriesRun:      dispatched.QueriesRun,
		PlanSource:      plan.PlanSource,
	}, nil
}

// stage runs fn in its own span and records its outcome. A cancelled or
// expired context stops the pipeline before fn is called.
func (h *Handler) stage(ctx context.Context, name string, fn func(ctx context.Context) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := h.obs.StartSpan(ctx, name)
	start := time.Now()
	outcome, err := fn(ctx)
	if err != nil {
		outcome = OutcomeError
		err = fmt.Errorf("%s: %w", name, err)
	}
	observability.EndSpan(span, err)

	metrics.RecordStage(name, outcome)
	h.obs.RecordStageDuration(ctx, name, outcome, time.Since(start))
	return err
}

func clampBudget(budget float64) float64 {
	if math.IsNaN(budget) || budget < 0 {
		return 0
	}
	return budget
}
