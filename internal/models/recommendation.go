// internal/models/recommendation.go
package models

type Source string

const (
	SourceRanked        Source = "ranked"
	SourceFallbackRules Source = "fallback-rules"
	SourceNoResults     Source = "no-results"
)

type Recommendation struct {
	Items        []SelectedItem `json:"items"`
	Reasoning    string         `json:"reasoning"`
	UnfoundItems []UnfoundItem  `json:"unfoundItems"`
}

type LedgerEntry struct {
	Step        int     `json:"step"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
}

// SumSelected is the spend of a selection at catalog prices.
func SumSelected(items []SelectedItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
