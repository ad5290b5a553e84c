package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"purchase-advisor/internal/models"
)

// Searcher answers one free-text product query with zero or more catalog
// entries.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

type productDoc struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Link      string  `json:"link"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string     `json:"_id"`
			Source productDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type ElasticsearchCatalog struct {
	client     *elasticsearch.Client
	index      string
	maxResults int
}

func NewElasticsearchCatalog(client *elasticsearch.Client, index string, maxResults int) *ElasticsearchCatalog {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &ElasticsearchCatalog{client: client, index: index, maxResults: maxResults}
}

func (c *ElasticsearchCatalog) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "category^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": c.maxResults,
	})
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("catalog search failed: %s", res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := hit.Source
		if doc.ProductID == "" {
			doc.ProductID = hit.ID
		}
		if doc.ProductID == "" || doc.Name == "" || doc.Price < 0 {
			continue
		}
		results = append(results, models.SearchResult{
			ProductID: doc.ProductID,
			Name:      doc.Name,
			Price:     doc.Price,
			Category:  doc.Category,
			Link:      doc.Link,
		})
	}
	return results, nil
}
