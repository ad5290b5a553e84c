// internal/workers/forecasting/estimate-demand/handler.go
package estimatedemand

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "estimate-demand"
)

type Handler struct {
	config     *Config
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	horizon := ClampHorizon(input.HorizonDays)
	items := Estimate(input.Items, horizon)

	total := 0
	for _, it := range items {
		total += it.ForecastedUnits
	}

	if dropped := len(input.Items) - len(items); dropped > 0 {
		h.logger.Warn("items without positive daily usage dropped", map[string]interface{}{
			"dropped": dropped,
		})
	}

	return &Output{
		ForecastedItems: items,
		HorizonDays:     horizon,
		TotalUnits:      total,
	}, nil
}
