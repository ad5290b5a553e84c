// internal/models/inventory.go
package models

import "time"

type TimeSeriesPoint struct {
	Date           time.Time `json:"date"`
	QuantityOnHand int       `json:"quantityOnHand"`
	QuantitySold   int       `json:"quantitySold"`
}

type ReorderParams struct {
	ProductID    string `json:"productId"`
	ReorderPoint int    `json:"reorderPoint"`
	ReorderQty   int    `json:"reorderQty"`
}

type ForecastResult struct {
	Forecast []int   `json:"forecast"`
	Level    float64 `json:"level"`
	Trend    float64 `json:"trend"`
}

// ReorderProjection carries a nil DaysUntilReorder when no crossing is
// projected inside the horizon.
type ReorderProjection struct {
	ReorderPoint     int  `json:"reorderPoint"`
	DaysUntilReorder *int `json:"daysUntilReorder"`
}
