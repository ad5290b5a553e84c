// internal/workers/recommendation/select-items/ranked.go
package selectitems

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/validation"
	"purchase-advisor/internal/models"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

var rankingSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["product_id", "quantity"],
				"properties": {
					"product_id": {"type": "string"},
					"quantity":   {"type": "integer", "minimum": 1},
					"reason":     {"type": "string"}
				}
			}
		},
		"reasoning": {"type": "string"}
	}
}`)

const rankingPrompt = `You choose products for a shopper.
Request: %s
Budget: $%.2f
Searches run: %s
Demand estimates (units needed over the horizon): %s
Candidate products (choose only from these product_id values):
%s

Pick the products and quantities that best satisfy the request without exceeding the budget.
Prefer quantities close to the demand estimates when they fit.
In "reasoning", address every search: say what you chose for it or that nothing matched.
Return only JSON: {"items":[{"product_id":"...","quantity":1,"reason":"..."}],"reasoning":"..."}`

type rankingReply struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Reason    string `json:"reason"`
	} `json:"items"`
	Reasoning string `json:"reasoning"`
}

type candidate struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category,omitempty"`
	Query     string  `json:"query,omitempty"`
}

type hint struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// rankedStrategy asks the text-generation capability to choose. Anything it
// returns outside the pool is ignored and catalog data always wins over the
// reply.
type rankedStrategy struct {
	gen Generator
}

func NewRankedStrategy(gen Generator) Strategy {
	return &rankedStrategy{gen: gen}
}

func (s *rankedStrategy) Source() models.Source {
	return models.SourceRanked
}

func (s *rankedStrategy) Available() bool {
	return s.gen != nil && s.gen.Available()
}

func (s *rankedStrategy) Select(ctx context.Context, req *Request) (*Selection, error) {
	prompt, err := buildRankingPrompt(req)
	if err != nil {
		return nil, err
	}

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed rankingReply
	if err := rankingSchema.Decode(reply, &parsed); err != nil {
		return nil, err
	}

	byID := make(map[string]models.SearchResult, len(req.Pool))
	for _, r := range req.Pool {
		byID[r.ProductID] = r
	}

	chosen := make(map[string]struct{})
	items := []models.SelectedItem{}
	for _, it := range parsed.Items {
		r, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		if _, dup := chosen[it.ProductID]; dup {
			continue
		}
		chosen[it.ProductID] = struct{}{}
		items = append(items, models.SelectedItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  it.Quantity,
			UnitPrice: r.Price,
			Reason:    strings.TrimSpace(it.Reason),
			Link:      r.Link,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("ranking chose no pool items: %w", apperrors.ErrMalformedOutput)
	}
	return &Selection{Items: items, Reasoning: strings.TrimSpace(parsed.Reasoning)}, nil
}

func buildRankingPrompt(req *Request) (string, error) {
	candidates := make([]candidate, len(req.Pool))
	for i, r := range req.Pool {
		candidates[i] = candidate{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     r.Price,
			Category:  r.Category,
			Query:     r.Query,
		}
	}
	hints := make([]hint, len(req.Forecast))
	for i, f := range req.Forecast {
		hints[i] = hint{Name: f.Name, Units: f.ForecastedUnits}
	}

	pool, err := json.Marshal(candidates)
	if err != nil {
		return "", err
	}
	hintJSON, err := json.Marshal(hints)
	if err != nil {
		return "", err
	}
	queries, err := json.Marshal(req.QueriesRun)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(rankingPrompt, req.Prompt, req.Budget, queries, hintJSON, pool), nil
}
