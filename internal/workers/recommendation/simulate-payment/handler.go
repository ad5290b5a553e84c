// internal/workers/recommendation/simulate-payment/handler.go
package simulatepayment

import (
	"context"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"purchase-advisor/internal/common/camunda"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

const (
	TaskType = "simulate-payment"
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

// Execute only replays an approved selection; it moves no money.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !input.Approved {
		return nil, apperrors.NewPaymentSimulationFailedError("selection has not been approved")
	}
	if input.StartingBalance < 0 || math.IsNaN(input.StartingBalance) {
		return nil, apperrors.NewPaymentSimulationFailedError("starting balance must be a non-negative number")
	}

	lines, err := linesFor(input.Items, input.UnfoundItems)
	if err != nil {
		return nil, apperrors.NewPaymentSimulationFailedError(err.Error())
	}

	ledger := Simulate(lines, input.StartingBalance)
	final := ledger[len(ledger)-1].Balance
	output := &Output{
		LedgerID:     uuid.New().String(),
		Ledger:       ledger,
		TotalSpent:   input.StartingBalance - final,
		FinalBalance: final,
		Overdrawn:    final < 0,
	}

	h.logger.Info("payment simulated", map[string]interface{}{
		"ledgerId":   output.LedgerID,
		"steps":      len(ledger),
		"totalSpent": output.TotalSpent,
		"overdrawn":  output.Overdrawn,
	})
	return output, nil
}
