package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	httpclient "purchase-advisor/internal/common/http"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/resilience"
	"purchase-advisor/internal/models"
)

type Config struct {
	BaseURL    string
	APIKey     string
	EngineID   string
	MaxResults int
}

// Client queries a Custom Search style JSON API.
type Client struct {
	config *Config
	http   *httpclient.Client
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			Offer []struct {
				Price         string `json:"price"`
				PriceCurrency string `json:"pricecurrency"`
			} `json:"offer"`
			Product []struct {
				Price string `json:"price"`
			} `json:"product"`
		} `json:"pagemap"`
	} `json:"items"`
}

func NewClient(config *Config, http *httpclient.Client) *Client {
	return &Client{config: config, http: http}
}

func (c *Client) Search(ctx context.Context, query string) ([]models.WebResult, error) {
	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.buildSearchURL(query), &resp); err != nil {
		return nil, err
	}

	results := make([]models.WebResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, models.WebResult{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Snippet: strings.TrimSpace(item.Snippet),
			Price:   structuredPrice(item.Pagemap.Offer, item.Pagemap.Product),
		})
	}
	return results, nil
}

func structuredPrice(offers []struct {
	Price         string `json:"price"`
	PriceCurrency string `json:"pricecurrency"`
}, products []struct {
	Price string `json:"price"`
}) string {
	for _, o := range offers {
		if o.Price != "" {
			if o.PriceCurrency != "" {
				return o.Price + " " + o.PriceCurrency
			}
			return o.Price
		}
	}
	for _, p := range products {
		if p.Price != "" {
			return p.Price
		}
	}
	return ""
}

func (c *Client) buildSearchURL(query string) string {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		baseURL = &url.URL{}
	}
	params := url.Values{}
	params.Add("key", c.config.APIKey)
	params.Add("cx", c.config.EngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", c.config.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

// LinkOnly is the result reported when no real hit is available: a search
// link for the query with no price.
func LinkOnly(query string) models.WebResult {
	return models.WebResult{
		Title: query,
		Link:  "https://www.google.com/search?q=" + url.QueryEscape(query),
	}
}

type searcher interface {
	Search(ctx context.Context, query string) ([]models.WebResult, error)
}

// Resilient never fails: timeouts, outages and empty answers all degrade
// to a single link-only result.
type Resilient struct {
	next    searcher
	breaker *resilience.Breaker
	logger  logger.Logger
}

func NewResilient(next searcher, breaker *resilience.Breaker, log logger.Logger) *Resilient {
	return &Resilient{next: next, breaker: breaker, logger: log}
}

func (r *Resilient) Search(ctx context.Context, query string) ([]models.WebResult, error) {
	results, err := resilience.Call(ctx, r.breaker, func(ctx context.Context) ([]models.WebResult, error) {
		return r.next.Search(ctx, query)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("web search degraded to link-only result", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []models.WebResult{LinkOnly(query)}, nil
	}
	if len(results) == 0 {
		return []models.WebResult{LinkOnly(query)}, nil
	}
	return results, nil
}
