// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchase-advisor/internal/common/catalog"
	"purchase-advisor/internal/common/config"
	"purchase-advisor/internal/common/database"
	httpclient "purchase-advisor/internal/common/http"
	"purchase-advisor/internal/common/llm"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/resilience"
	"purchase-advisor/internal/common/websearch"
	"purchase-advisor/internal/models"
	forecastinventory "purchase-advisor/internal/workers/forecasting/forecast-inventory"
	dispatchsearch "purchase-advisor/internal/workers/recommendation/dispatch-search"
	extractitems "purchase-advisor/internal/workers/recommendation/extract-items"
	planqueries "purchase-advisor/internal/workers/recommendation/plan-queries"
	recommendpurchases "purchase-advisor/internal/workers/recommendation/recommend-purchases"
	resolveunfound "purchase-advisor/internal/workers/recommendation/resolve-unfound"
	selectitems "purchase-advisor/internal/workers/recommendation/select-items"
)

const e2eIndex = "products_e2e"

var cfg *config.Config

// TestMain runs only when E2E is set; the suite needs live Postgres,
// Elasticsearch and Redis from configs/config.yaml.
func TestMain(m *testing.M) {
	if os.Getenv("E2E") == "" {
		fmt.Println("E2E not set, skipping end-to-end tests")
		os.Exit(0)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	os.Exit(m.Run())
}

// ==========================
// 1. Forecast from Postgres
// ==========================

func TestForecastInventory_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.EnsureInventorySchema(ctx))

	productID := fmt.Sprintf("E2E-%d", time.Now().UnixNano())
	start := time.Now().UTC().AddDate(0, 0, -9).Truncate(24 * time.Hour)
	for i := 0; i < 10; i++ {
		_, err := pg.DB.ExecContext(ctx,
			`INSERT INTO inventory_daily (product_id, day, quantity_on_hand, quantity_sold) VALUES ($1, $2, $3, $4)`,
			productID, start.AddDate(0, 0, i), 100-8*i, 8)
		require.NoError(t, err)
	}
	_, err = pg.DB.ExecContext(ctx,
		`INSERT INTO reorder_params (product_id, reorder_point, reorder_qty) VALUES ($1, 20, 120)`, productID)
	require.NoError(t, err)
	defer func() {
		_, _ = pg.DB.Exec(`DELETE FROM inventory_daily WHERE product_id = $1`, productID)
		_, _ = pg.DB.Exec(`DELETE FROM reorder_params WHERE product_id = $1`, productID)
	}()

	handler := forecastinventory.NewHandler(forecastinventory.LoadConfig(cfg),
		forecastinventory.NewPostgresSource(pg.DB), nil, logger.NewTestLogger(t))
	output, err := handler.Execute(ctx, &forecastinventory.Input{ProductIDs: []string{productID}, HorizonDays: 14})

	require.NoError(t, err)
	require.Len(t, output.Forecasts, 1)
	forecast := output.Forecasts[0]
	assert.Len(t, forecast.Forecast, 14)
	assert.Less(t, forecast.Trend, 0.0)
	require.NotNil(t, forecast.DaysUntilReorder)
	assert.LessOrEqual(t, *forecast.DaysUntilReorder, 14)
}

// ==========================
// 2. Recommendation over live catalog
// ==========================

func TestRecommendPurchases_LiveCatalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	log := logger.NewTestLogger(t)

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.EnsureProductIndex(ctx, e2eIndex))
	defer func() {
		res, err := es.Client.Indices.Delete([]string{e2eIndex})
		if err == nil {
			res.Body.Close()
		}
	}()
	indexProducts(t, ctx, es, []map[string]interface{}{
		{"product_id": "lamp-1", "name": "Arc Desk Lamp", "price": 30, "category": "lighting"},
		{"product_id": "lamp-2", "name": "Clip Desk Lamp", "price": 25, "category": "lighting"},
	})

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()

	web := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]string{}})
	}))
	defer web.Close()

	capability := config.CapabilityConfig{Timeout: 5000, BreakerFailures: 5, BreakerOpenFor: 30000, BreakerHalfOpen: 1}
	searcher := catalog.NewCachedSearcher(
		catalog.NewGuardedSearcher(catalog.NewElasticsearchCatalog(es.Client, e2eIndex, 10),
			resilience.NewBreaker("catalog", capability, log)),
		rdb.Client, time.Minute, log)
	webSearch := websearch.NewResilient(
		websearch.NewClient(&websearch.Config{BaseURL: web.URL, MaxResults: 3}, httpclient.NewClient(5*time.Second)),
		resilience.NewBreaker("web_search", capability, log), log)
	genai := llm.NewGuarded(nil, resilience.NewBreaker("genai", capability, log))

	recommend := recommendpurchases.NewHandler(&recommendpurchases.Config{Timeout: time.Minute}, recommendpurchases.Stages{
		Extract:  extractitems.NewHandler(&extractitems.Config{Timeout: 10 * time.Second}, genai, log),
		Plan:     planqueries.NewHandler(&planqueries.Config{Timeout: 10 * time.Second}, planqueries.NewLLMQueryGenerator(genai), log),
		Dispatch: dispatchsearch.NewHandler(&dispatchsearch.Config{Timeout: 30 * time.Second}, searcher, log),
		Select:   selectitems.NewHandler(&selectitems.Config{Timeout: 10 * time.Second}, genai, log),
		Resolve:  resolveunfound.NewHandler(&resolveunfound.Config{Timeout: 10 * time.Second, Concurrency: 2}, webSearch, log),
	}, nil, log)

	output, err := recommend.Execute(ctx, &recommendpurchases.Input{Prompt: "desk lamp", Budget: 40})

	require.NoError(t, err)
	assert.Equal(t, models.SourceFallbackRules, output.Source)
	assert.Equal(t, []string{"desk lamp"}, output.QueriesRun)
	require.NotEmpty(t, output.Recommendation.Items)
	assert.LessOrEqual(t, output.TotalCost, 40.0)
	assert.Empty(t, output.Recommendation.UnfoundItems)

	cached, err := rdb.Client.Exists(ctx, catalog.CacheKey("desk lamp")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached)
	_ = rdb.Client.Del(ctx, catalog.CacheKey("desk lamp"))
}

func indexProducts(t *testing.T, ctx context.Context, es *database.ElasticsearchClient, docs []map[string]interface{}) {
	t.Helper()
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		require.NoError(t, err)

		res, err := esapi.IndexRequest{
			Index:      e2eIndex,
			DocumentID: doc["product_id"].(string),
			Body:       strings.NewReader(string(body)),
			Refresh:    "true",
		}.Do(ctx, es.Client)
		require.NoError(t, err)
		require.False(t, res.IsError(), res.String())
		res.Body.Close()
	}
}
