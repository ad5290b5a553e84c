// internal/workers/recommendation/recommend-purchases/models.go
package recommendpurchases

import "purchase-advisor/internal/models"

type Input struct {
	Prompt      string  `json:"prompt"`
	Budget      float64 `json:"budget"`
	HorizonDays int     `json:"forecastHorizonDays"`
}

type Output struct {
	RequestID       string                  `json:"requestId"`
	ForecastedItems []models.ForecastedItem `json:"forecastedItems"`
	Recommendation  models.Recommendation   `json:"recommendation"`
	TotalCost       float64                 `json:"totalCost"`
	RemainingBudget float64                 `json:"remainingBudget"`
	Source          models.Source           `json:"source"`
	QueriesRun      []string                `json:"queriesRun"`
	PlanSource      string                  `json:"planSource"`
}
