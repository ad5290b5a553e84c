// internal/workers/recommendation/extract-items/handler.go
package extractitems

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

const (
	TaskType = "extract-items"
)

type Handler struct {
	config     *Config
	extractor  *LLMExtractor
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, gen Generator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		extractor:  NewLLMExtractor(gen),
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

// Execute never fails on a degraded capability; it reports no items instead.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	none := &Output{Items: []models.ParsedItem{}, Source: SourceNone}

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return none, nil
	}
	if !h.extractor.Available() {
		h.logger.Debug("item extraction unavailable, continuing without items", nil)
		return none, nil
	}

	items, err := h.extractor.Extract(ctx, prompt)
	if err != nil {
		if apperrors.IsDegradation(err) && ctx.Err() == nil {
			h.logger.Warn("item extraction degraded", map[string]interface{}{"error": err.Error()})
			return none, nil
		}
		return nil, err
	}

	h.logger.Info("items extracted", map[string]interface{}{"count": len(items)})
	return &Output{Items: items, Source: SourceExtracted}, nil
}
