// internal/workers/recommendation/plan-queries/planner.go
package planqueries

import (
	"strings"

	"purchase-advisor/internal/models"
)

const (
	MaxQueries   = 5
	DefaultQuery = "everyday essentials"
)

const (
	PlanSourceGenerated     = "generated"
	PlanSourceForecastItems = "forecast-items"
	PlanSourcePrompt        = "prompt"
	PlanSourceDefault       = "default"
)

// normalizeQueries trims, drops blanks and case-insensitive repeats, and caps
// the list at MaxQueries while keeping order.
func normalizeQueries(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) == MaxQueries {
			break
		}
	}
	return out
}

// fallbackQueries picks forecast item names, then the prompt, then the
// default query.
func fallbackQueries(prompt string, forecasted []models.ForecastedItem) ([]string, string) {
	names := make([]string, 0, len(forecasted))
	for _, item := range forecasted {
		names = append(names, item.Name)
	}
	if queries := normalizeQueries(names); len(queries) > 0 {
		return queries, PlanSourceForecastItems
	}
	if queries := normalizeQueries([]string{prompt}); len(queries) > 0 {
		return queries, PlanSourcePrompt
	}
	return []string{DefaultQuery}, PlanSourceDefault
}
