// internal/workers/recommendation/plan-queries/models.go
package planqueries

import "purchase-advisor/internal/models"

type Input struct {
	Prompt          string                  `json:"prompt"`
	Budget          float64                 `json:"budget"`
	ForecastedItems []models.ForecastedItem `json:"forecastedItems,omitempty"`
}

type Output struct {
	Queries    []string `json:"queries"`
	PlanSource string   `json:"planSource"`
	Reasoning  string   `json:"planReasoning,omitempty"`
}
