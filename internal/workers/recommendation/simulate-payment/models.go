// internal/workers/recommendation/simulate-payment/models.go
package simulatepayment

import "purchase-advisor/internal/models"

type Input struct {
	Items           []models.SelectedItem `json:"items"`
	UnfoundItems    []models.UnfoundItem  `json:"unfoundItems,omitempty"`
	StartingBalance float64               `json:"startingBalance"`
	Approved        bool                  `json:"approved"`
}

type Output struct {
	LedgerID     string               `json:"ledgerId"`
	Ledger       []models.LedgerEntry `json:"ledger"`
	TotalSpent   float64              `json:"totalSpent"`
	FinalBalance float64              `json:"finalBalance"`
	Overdrawn    bool                 `json:"overdrawn"`
}
