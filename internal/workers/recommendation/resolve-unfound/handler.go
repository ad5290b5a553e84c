// internal/workers/recommendation/resolve-unfound/handler.go
package resolveunfound

import (
	"context"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

const (
	TaskType = "resolve-unfound"
)

type Handler struct {
	config     *Config
	searcher   WebSearcher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, searcher WebSearcher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		searcher:   searcher,
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
	if len(input.Queries) == 0 {
		return &Output{UnfoundItems: []models.UnfoundItem{}, RemainingBudget: clampBudget(input.RemainingBudget)}, nil
	}

	batches, err := fetchMissing(ctx, h.searcher, input.Queries, input.Batches, h.config.Concurrency, h.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, remaining := Resolve(input.Queries, batches, input.RemainingBudget)
	output := &Output{
		UnfoundItems:    items,
		RemainingBudget: remaining,
		DebitedTotal:    DebitedTotal(items),
	}

	h.logger.Info("unfound queries resolved", map[string]interface{}{
		"queries":         len(items),
		"debited":         output.DebitedTotal,
		"remainingBudget": remaining,
	})
	return output, nil
}

func clampBudget(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
