// internal/workers/recommendation/select-items/models.go
package selectitems

import "purchase-advisor/internal/models"

type Input struct {
	Pool            []models.SearchResult   `json:"pool"`
	Prompt          string                  `json:"prompt"`
	Budget          float64                 `json:"budget"`
	ForecastedItems []models.ForecastedItem `json:"forecastedItems,omitempty"`
	QueriesRun      []string                `json:"queriesRun"`
}

type Output struct {
	Items           []models.SelectedItem `json:"items"`
	Reasoning       string                `json:"reasoning"`
	Source          models.Source         `json:"source"`
	TotalCost       float64               `json:"selectedCost"`
	RemainingBudget float64               `json:"remainingBudget"`
}
