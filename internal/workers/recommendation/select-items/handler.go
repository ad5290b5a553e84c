// internal/workers/recommendation/select-items/handler.go
package selectitems

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "select-items"
)

type Handler struct {
	config     *Config
	selector   *Selector
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler prefers ranked selection through gen and falls back to the rule
// strategy.
func NewHandler(config *Config, gen Generator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		selector:   NewSelector(NewRankedStrategy(gen), NewRuleStrategy(), l),
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
	output, err := h.selector.Select(ctx, &Request{
		Pool:       input.Pool,
		Prompt:     input.Prompt,
		Budget:     input.Budget,
		Forecast:   input.ForecastedItems,
		QueriesRun: input.QueriesRun,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("items selected", map[string]interface{}{
		"source":    string(output.Source),
		"items":     len(output.Items),
		"totalCost": output.TotalCost,
		"budget":    input.Budget,
	})
	return output, nil
}
