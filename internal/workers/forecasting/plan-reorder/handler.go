// internal/workers/forecasting/plan-reorder/handler.go
package planreorder

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "plan-reorder"

	dateLayout = "2006-01-02"
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

	window := input.WindowDays
	if window <= 0 {
		window = h.config.WindowDays
	}
	if window > MaxWindowDays {
		return nil, apperrors.NewReorderPlanFailedError(fmt.Sprintf("window of %d days exceeds %d", window, MaxWindowDays))
	}
	lead := input.LeadTimeDays
	if lead <= 0 {
		lead = h.config.LeadTimeDays
	}

	for i, item := range input.Items {
		if item.Name == "" {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("items[%d]: name is required", i))
		}
		if item.UnitCost < 0 || item.LastOrderQty < 0 {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("items[%d]: negative cost or quantity", i))
		}
	}

	output := Plan(input.Items, window, lead)

	if input.StartDate != "" {
		start, err := time.Parse(dateLayout, input.StartDate)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("startDate: %v", err))
		}
		for i := range output.Orders {
			o := &output.Orders[i]
			o.OrderDate = start.AddDate(0, 0, o.OrderDay).Format(dateLayout)
			o.DeliveryDate = start.AddDate(0, 0, o.DeliveryDay).Format(dateLayout)
			o.StockoutDate = start.AddDate(0, 0, o.StockoutDay).Format(dateLayout)
		}
	}

	h.logger.Info("reorder plan built", map[string]interface{}{
		"orders":       len(output.Orders),
		"dynamicCost":  output.DynamicCost,
		"baselineCost": output.BaselineCost,
		"savings":      output.Savings,
	})

	return output, nil
}
