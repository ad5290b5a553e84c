// internal/workers/recommendation/resolve-unfound/resolver.go
package resolveunfound

import (
	"math"

	"purchase-advisor/internal/common/websearch"
	"purchase-advisor/internal/models"
)

const MaxQuantity = 99

const priceEpsilon = 1e-9

// Resolve folds the fallback results into unfound items strictly in query
// order, debiting a single running budget. It returns the items and what is
// left of the budget.
func Resolve(queries []string, batches map[string][]models.WebResult, remaining float64) ([]models.UnfoundItem, float64) {
	if remaining < 0 || math.IsNaN(remaining) {
		remaining = 0
	}

	items := make([]models.UnfoundItem, 0, len(queries))
	for _, query := range queries {
		hit := websearch.LinkOnly(query)
		if batch := batches[query]; len(batch) > 0 {
			hit = batch[0]
		}

		item := models.UnfoundItem{
			Query:    query,
			Name:     hit.Title,
			Link:     hit.Link,
			Quantity: 1,
		}
		if item.Name == "" {
			item.Name = query
		}

		if price, ok := ExtractPrice(hit); ok {
			unit := price
			item.UnitPrice = &unit

			n := math.Min(math.Floor(remaining/price+priceEpsilon), MaxQuantity)
			if n >= 1 {
				item.Quantity = int(n)
				item.WithinBudget = true
				remaining -= n * price
				if remaining < 0 {
					remaining = 0
				}
			}
			total := float64(item.Quantity) * price
			item.LineTotal = &total
		}

		items = append(items, item)
	}
	return items, remaining
}

// DebitedTotal is the spend of the items that were charged to the budget.
func DebitedTotal(items []models.UnfoundItem) float64 {
	total := 0.0
	for _, it := range items {
		if it.WithinBudget && it.LineTotal != nil {
			total += *it.LineTotal
		}
	}
	return total
}
