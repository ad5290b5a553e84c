// internal/workers/forecasting/forecast-inventory/handler.go
package forecastinventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/metrics"
)

const (
	TaskType = "forecast-inventory"
)

var (
	ErrNoProducts = errors.New("NO_PRODUCTS")
)

type Handler struct {
	config     *Config
	source     InventorySource
	publisher  Publisher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

// NewHandler accepts a nil source when every job carries its own series and a
// nil publisher when alerts are disabled.
func NewHandler(config *Config, source InventorySource, publisher Publisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		source:     source,
		publisher:  publisher,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
		now:        time.Now,
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
	params := h.config.Params
	if input.Alpha != 0 {
		params.Alpha = input.Alpha
	}
	if input.Beta != 0 {
		params.Beta = input.Beta
	}
	horizon := input.HorizonDays
	if horizon == 0 {
		horizon = h.config.HorizonDays
	}
	horizon = ClampHorizon(horizon)

	productIDs, err := h.resolveProducts(ctx, input)
	if err != nil {
		return nil, err
	}

	output := &Output{
		HorizonDays:   horizon,
		Forecasts:     make([]ProductForecast, 0, len(productIDs)),
		ReorderNeeded: []string{},
	}

	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pf, err := h.forecastProduct(ctx, input, productID, params, horizon)
		if err != nil {
			return nil, err
		}
		output.Forecasts = append(output.Forecasts, *pf)

		if pf.DaysUntilReorder != nil {
			output.ReorderNeeded = append(output.ReorderNeeded, productID)
			if h.alert(ctx, pf) {
				output.AlertsSent++
			}
		}
	}

	h.logger.Info("forecast completed", map[string]interface{}{
		"products":      len(output.Forecasts),
		"horizonDays":   horizon,
		"reorderNeeded": len(output.ReorderNeeded),
		"alertsSent":    output.AlertsSent,
	})

	return output, nil
}

func (h *Handler) resolveProducts(ctx context.Context, input *Input) ([]string, error) {
	if len(input.ProductIDs) > 0 {
		return input.ProductIDs, nil
	}
	if len(input.Series) > 0 {
		ids := make([]string, 0, len(input.Series))
		for id := range input.Series {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	}
	if h.source == nil {
		return nil, apperrors.NewInvalidInputError(ErrNoProducts.Error())
	}
	ids, err := h.source.ProductIDs(ctx)
	if err != nil {
		return nil, apperrors.NewInventoryQueryFailedError(err)
	}
	return ids, nil
}

func (h *Handler) forecastProduct(ctx context.Context, input *Input, productID string, params Params, horizon int) (*ProductForecast, error) {
	points, ok := input.Series[productID]
	if !ok {
		if h.source == nil {
			return nil, apperrors.NewInvalidInputError("no series supplied for " + productID)
		}
		since := h.now().AddDate(0, 0, -h.config.HistoryDays)
		var err error
		if points, err = h.source.History(ctx, productID, since); err != nil {
			return nil, apperrors.NewInventoryQueryFailedError(err)
		}
	}

	if err := validateSeries(points); err != nil {
		return nil, apperrors.NewInvalidSeriesError(productID, err.Error())
	}

	reorder, ok := input.Reorder[productID]
	if !ok && h.source != nil {
		var err error
		if reorder, err = h.source.ReorderParams(ctx, productID); err != nil {
			return nil, apperrors.NewInventoryQueryFailedError(err)
		}
	}

	result := Forecast(densify(points), params, horizon)
	projection := ProjectReorder(result, reorder.ReorderPoint)

	return &ProductForecast{
		ProductID:        productID,
		Forecast:         result.Forecast,
		Level:            result.Level,
		Trend:            result.Trend,
		ReorderPoint:     reorder.ReorderPoint,
		ReorderQty:       reorder.ReorderQty,
		DaysUntilReorder: projection.DaysUntilReorder,
	}, nil
}

// alert never fails the job; publish errors are only logged.
func (h *Handler) alert(ctx context.Context, pf *ProductForecast) bool {
	if h.publisher == nil || *pf.DaysUntilReorder > h.config.AlertWithinDays {
		return false
	}

	id, err := publishAlert(ctx, h.publisher, ReorderAlert{
		ProductID:        pf.ProductID,
		DaysUntilReorder: *pf.DaysUntilReorder,
		ReorderPoint:     pf.ReorderPoint,
		ReorderQty:       pf.ReorderQty,
		CurrentLevel:     int(pf.Level),
	})
	if err != nil {
		metrics.ReorderAlertsPublished.WithLabelValues("error").Inc()
		h.logger.Warn("reorder alert not published", map[string]interface{}{
			"productId": pf.ProductID,
			"error":     apperrors.NewNotificationSendFailedError("sns", err).Error(),
		})
		return false
	}

	metrics.ReorderAlertsPublished.WithLabelValues("ok").Inc()
	h.logger.Info("reorder alert published", map[string]interface{}{
		"productId": pf.ProductID,
		"messageId": id,
	})
	return true
}
