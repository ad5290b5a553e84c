// internal/workers/recommendation/select-items/strategy.go
package selectitems

import (
	"context"
	"math"

	"purchase-advisor/internal/models"
)

const RuleMaxItems = 8

type Request struct {
	Pool       []models.SearchResult
	Prompt     string
	Budget     float64
	Forecast   []models.ForecastedItem
	QueriesRun []string
}

type Selection struct {
	Items     []models.SelectedItem
	Reasoning string
}

// Strategy is one way of choosing items from the pool. Select may return more
// than the budget allows; the selector trims afterwards.
type Strategy interface {
	Source() models.Source
	Available() bool
	Select(ctx context.Context, req *Request) (*Selection, error)
}

// ruleStrategy takes pool items in order, one of each, skipping any that no
// longer fit the remaining budget.
type ruleStrategy struct{}

func NewRuleStrategy() Strategy {
	return ruleStrategy{}
}

func (ruleStrategy) Source() models.Source {
	return models.SourceFallbackRules
}

func (ruleStrategy) Available() bool {
	return true
}

func (ruleStrategy) Select(_ context.Context, req *Request) (*Selection, error) {
	remaining := req.Budget
	items := []models.SelectedItem{}
	for i, r := range req.Pool {
		if i == RuleMaxItems {
			break
		}
		if r.Price > remaining+priceEpsilon {
			continue
		}
		remaining -= r.Price
		items = append(items, models.SelectedItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  1,
			UnitPrice: r.Price,
			Reason:    "first affordable catalog match",
			Link:      r.Link,
		})
	}
	return &Selection{Items: items}, nil
}

const priceEpsilon = 1e-9

// enforceBudget trims quantities in order so the total never exceeds budget.
// Items trimmed to zero are removed.
func enforceBudget(items []models.SelectedItem, budget float64) []models.SelectedItem {
	remaining := budget
	out := make([]models.SelectedItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if it.UnitPrice > 0 {
			// Bounded in float space; a huge budget would overflow int.
			affordable := math.Min(math.Floor(remaining/it.UnitPrice+priceEpsilon), float64(it.Quantity))
			if !(affordable >= 1) {
				continue
			}
			it.Quantity = int(affordable)
			remaining -= it.LineTotal()
		}
		out = append(out, it)
	}
	return out
}
