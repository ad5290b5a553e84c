package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"purchase-advisor/internal/common/config"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/metrics"
	"purchase-advisor/internal/common/observability"
)

type HandlerFunc func(client worker.JobClient, job entities.Job)

// Pool tracks the job workers opened by the process so they can be closed
// together on shutdown.
type Pool struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewPool(client zbc.Client, obs *observability.Observability, log logger.Logger) *Pool {
	return &Pool{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (p *Pool) Start(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jobWorker := p.client.NewJobWorker().
		JobType(taskType).
		Handler(p.instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	p.workers[taskType] = jobWorker

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

func (p *Pool) instrument(taskType string, handler HandlerFunc) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
			p.obs.RecordJobDuration(context.Background(), taskType, time.Since(start))
		}()
		handler(client, job)
	}
}

func (p *Pool) Running() []string {
	out := make([]string, 0, len(p.workers))
	for taskType := range p.workers {
		out = append(out, taskType)
	}
	return out
}

func (p *Pool) Close() {
	for taskType, w := range p.workers {
		w.Close()
		w.AwaitClose()
		p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}
