// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"purchase-advisor/internal/common/aws"
	"purchase-advisor/internal/common/camunda"
	"purchase-advisor/internal/common/catalog"
	"purchase-advisor/internal/common/config"
	"purchase-advisor/internal/common/database"
	httpclient "purchase-advisor/internal/common/http"
	"purchase-advisor/internal/common/llm"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/observability"
	"purchase-advisor/internal/common/resilience"
	"purchase-advisor/internal/common/websearch"

	// Forecasting Workers (3)
	ed "purchase-advisor/internal/workers/forecasting/estimate-demand"
	fi "purchase-advisor/internal/workers/forecasting/forecast-inventory"
	pr "purchase-advisor/internal/workers/forecasting/plan-reorder"

	// Recommendation Workers (7)
	ds "purchase-advisor/internal/workers/recommendation/dispatch-search"
	ei "purchase-advisor/internal/workers/recommendation/extract-items"
	pq "purchase-advisor/internal/workers/recommendation/plan-queries"
	rp "purchase-advisor/internal/workers/recommendation/recommend-purchases"
	ru "purchase-advisor/internal/workers/recommendation/resolve-unfound"
	si "purchase-advisor/internal/workers/recommendation/select-items"
	sp "purchase-advisor/internal/workers/recommendation/simulate-payment"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	if err := run(cfg, log); err != nil {
		log.Error("worker manager stopped with error", map[string]interface{}{"error": err.Error()})
		zapLog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Starting worker manager...", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.DefaultClientConfig(cfg.Camunda.BrokerAddress), log)
	if err != nil {
		return fmt.Errorf("zeebe: %w", err)
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.EnsureInventorySchema(ctx); err != nil {
		return fmt.Errorf("inventory schema: %w", err)
	}
	log.Info("PostgreSQL connected successfully", nil)

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		return err
	}
	if err := es.EnsureProductIndex(ctx, cfg.APIs.Catalog.Index); err != nil {
		return fmt.Errorf("product index: %w", err)
	}
	log.Info("Elasticsearch connected successfully", nil)

	// --- Redis (catalog cache only) ---
	var redis *database.RedisClient
	if cfg.APIs.Catalog.CacheTTL > 0 {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return err
		}
		defer redis.Close()
		log.Info("Redis connected successfully", nil)
	}

	// --- Capabilities ---
	genBreaker := resilience.NewBreaker("genai", cfg.APIs.GenAI.CapabilityConfig, log)
	catalogBreaker := resilience.NewBreaker("catalog", cfg.APIs.Catalog.CapabilityConfig, log)
	webBreaker := resilience.NewBreaker("web_search", cfg.APIs.WebSearch.CapabilityConfig, log)

	var gen llm.Generator
	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:      cfg.APIs.GenAI.APIKey,
		Model:       cfg.APIs.GenAI.Model,
		Temperature: cfg.APIs.GenAI.Temperature,
		JSONOutput:  true,
	})
	switch {
	case err == nil:
		defer gemini.Close()
		gen = gemini
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("genai api key not set, running on fallback paths only", nil)
	default:
		return fmt.Errorf("genai: %w", err)
	}
	genai := llm.NewGuarded(gen, genBreaker)

	var searcher ds.CatalogSearcher = catalog.NewGuardedSearcher(
		catalog.NewElasticsearchCatalog(es.Client, cfg.APIs.Catalog.Index, cfg.APIs.Catalog.MaxResults),
		catalogBreaker,
	)
	if redis != nil {
		searcher = catalog.NewCachedSearcher(searcher, redis.Client, time.Duration(cfg.APIs.Catalog.CacheTTL)*time.Second, log)
	}

	web := websearch.NewResilient(
		websearch.NewClient(&websearch.Config{
			BaseURL:    cfg.APIs.WebSearch.BaseURL,
			APIKey:     cfg.APIs.WebSearch.APIKey,
			EngineID:   cfg.APIs.WebSearch.EngineID,
			MaxResults: cfg.APIs.WebSearch.MaxResults,
		}, httpclient.NewClient(config.GetDuration(cfg.APIs.WebSearch.Timeout))),
		webBreaker,
		log,
	)

	var publisher fi.Publisher
	if cfg.Notifications.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			return fmt.Errorf("sns: %w", err)
		}
		publisher = sns
		log.Info("reorder alerts enabled", map[string]interface{}{"topicArn": sns.TopicARN()})
	}

	// --- Workers ---
	pool := camunda.NewPool(zeebe.GetClient(), obs, log)
	defer pool.Close()

	forecast := fi.NewHandler(fi.LoadConfig(cfg), fi.NewPostgresSource(pg.DB), publisher, log)
	pool.Start(fi.TaskType, config.GetWorkerConfig(cfg, fi.TaskType), forecast.Handle)

	estimate := ed.NewHandler(ed.LoadConfig(cfg), log)
	pool.Start(ed.TaskType, config.GetWorkerConfig(cfg, ed.TaskType), estimate.Handle)

	reorder := pr.NewHandler(pr.LoadConfig(cfg), log)
	pool.Start(pr.TaskType, config.GetWorkerConfig(cfg, pr.TaskType), reorder.Handle)

	extract := ei.NewHandler(ei.LoadConfig(cfg), genai, log)
	pool.Start(ei.TaskType, config.GetWorkerConfig(cfg, ei.TaskType), extract.Handle)

	plan := pq.NewHandler(pq.LoadConfig(cfg), pq.NewLLMQueryGenerator(genai), log)
	pool.Start(pq.TaskType, config.GetWorkerConfig(cfg, pq.TaskType), plan.Handle)

	dispatch := ds.NewHandler(ds.LoadConfig(cfg), searcher, log)
	pool.Start(ds.TaskType, config.GetWorkerConfig(cfg, ds.TaskType), dispatch.Handle)

	selection := si.NewHandler(si.LoadConfig(cfg), genai, log)
	pool.Start(si.TaskType, config.GetWorkerConfig(cfg, si.TaskType), selection.Handle)

	resolve := ru.NewHandler(ru.LoadConfig(cfg), web, log)
	pool.Start(ru.TaskType, config.GetWorkerConfig(cfg, ru.TaskType), resolve.Handle)

	payment := sp.NewHandler(sp.LoadConfig(cfg), log)
	pool.Start(sp.TaskType, config.GetWorkerConfig(cfg, sp.TaskType), payment.Handle)

	recommend := rp.NewHandler(rp.LoadConfig(cfg), rp.Stages{
		Extract:  extract,
		Plan:     plan,
		Dispatch: dispatch,
		Select:   selection,
		Resolve:  resolve,
	}, obs, log)
	pool.Start(rp.TaskType, config.GetWorkerConfig(cfg, rp.TaskType), recommend.Handle)

	log.Info("workers registered", map[string]interface{}{"running": pool.Running()})

	// --- Health & Metrics Server ---
	server := newHealthServer(fmt.Sprintf(":%d", cfg.App.HealthPort), []readinessCheck{
		{name: "zeebe", check: zeebe.HealthCheck},
		{name: "postgres", check: pg.Ping},
		{name: "elasticsearch", check: es.Ping},
	})
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
	return nil
}
