// internal/workers/forecasting/forecast-inventory/models.go
package forecastinventory

import "purchase-advisor/internal/models"

type Input struct {
	ProductIDs  []string                            `json:"productIds"`
	HorizonDays int                                 `json:"horizonDays"`
	Alpha       float64                             `json:"alpha"`
	Beta        float64                             `json:"beta"`
	Series      map[string][]models.TimeSeriesPoint `json:"series,omitempty"`
	Reorder     map[string]models.ReorderParams     `json:"reorder,omitempty"`
}

type Output struct {
	HorizonDays   int               `json:"horizonDays"`
	Forecasts     []ProductForecast `json:"forecasts"`
	AlertsSent    int               `json:"alertsSent"`
	ReorderNeeded []string          `json:"reorderNeeded"`
}

type ProductForecast struct {
	ProductID        string  `json:"productId"`
	Forecast         []int   `json:"forecast"`
	Level            float64 `json:"level"`
	Trend            float64 `json:"trend"`
	ReorderPoint     int     `json:"reorderPoint"`
	ReorderQty       int     `json:"reorderQty"`
	DaysUntilReorder *int    `json:"daysUntilReorder"`
}
