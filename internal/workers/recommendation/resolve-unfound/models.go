// internal/workers/recommendation/resolve-unfound/models.go
package resolveunfound

import "purchase-advisor/internal/models"

type Input struct {
	Queries         []string                      `json:"unfoundQueries"`
	Batches         map[string][]models.WebResult `json:"webResults,omitempty"`
	RemainingBudget float64                       `json:"remainingBudget"`
}

type Output struct {
	UnfoundItems    []models.UnfoundItem `json:"unfoundItems"`
	RemainingBudget float64              `json:"remainingBudget"`
	DebitedTotal    float64              `json:"unfoundCost"`
}
