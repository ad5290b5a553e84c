package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/metrics"
)

// DecodeVariables unmarshals the job's process variables into out.
func DecodeVariables(job entities.Job, out interface{}) error {
	raw := job.Variables
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("failed to parse job variables: %v", err))
	}
	return nil
}

func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("failed to set job variables: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("failed to complete job %d: %w", job.Key, err)
	}
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	return nil
}
