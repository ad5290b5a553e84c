// internal/workers/recommendation/plan-queries/handler.go
package planqueries

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "plan-queries"
)

type Handler struct {
	config     *Config
	generator  QueryGenerator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, generator QueryGenerator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		generator:  generator,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.generator != nil && h.generator.Available() {
		output, err := h.generate(ctx, input)
		if err == nil {
			return output, nil
		}
		if !apperrors.IsDegradation(err) || ctx.Err() != nil {
			return nil, err
		}
		h.logger.Warn("query generation degraded", map[string]interface{}{"error": err.Error()})
	}

	queries, source := fallbackQueries(input.Prompt, input.ForecastedItems)
	h.logger.Info("queries planned", map[string]interface{}{
		"source":  source,
		"queries": queries,
	})
	return &Output{Queries: queries, PlanSource: source}, nil
}

func (h *Handler) generate(ctx context.Context, input *Input) (*Output, error) {
	plan, err := h.generator.Plan(ctx, input.Prompt, input.Budget)
	if err != nil {
		return nil, err
	}

	queries := normalizeQueries(plan.Queries)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no usable queries in plan: %w", apperrors.ErrMalformedOutput)
	}

	h.logger.Info("queries planned", map[string]interface{}{
		"source":  PlanSourceGenerated,
		"queries": queries,
	})
	return &Output{
		Queries:    queries,
		PlanSource: PlanSourceGenerated,
		Reasoning:  plan.Reasoning,
	}, nil
}
