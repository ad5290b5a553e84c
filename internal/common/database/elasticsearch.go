package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"purchase-advisor/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ProductIndexMapping is the mapping the catalog searcher queries against.
const ProductIndexMapping = `{
  "mappings": {
    "properties": {
      "product_id":  {"type": "keyword"},
      "name":        {"type": "text"},
      "category":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "link":        {"type": "keyword", "index": false}
    }
  }
}`

type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}

	esCfg := elasticsearch.Config{Addresses: addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureProductIndex creates the catalog index when it does not exist yet.
func (c *ElasticsearchClient) EnsureProductIndex(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists check failed: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.Client.Indices.Create(
		index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(ProductIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("index create failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index create error: %s", res.Status())
	}
	return nil
}
