// internal/workers/recommendation/dispatch-search/handler.go
package dispatchsearch

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "dispatch-search"
)

type Handler struct {
	config     *Config
	searcher   CatalogSearcher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, searcher CatalogSearcher, log logger.Logger) *Handler {
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
	output, err := Dispatch(ctx, h.searcher, input.Queries, h.logger)
	if err != nil {
		return nil, err
	}

	h.logger.Info("catalog search dispatched", map[string]interface{}{
		"queries":    len(output.QueriesRun),
		"found":      len(output.Found),
		"unfound":    len(output.Unfound),
		"poolSize":   len(output.Pool),
		"duplicates": output.Duplicates,
	})
	return output, nil
}
