// internal/workers/forecasting/estimate-demand/models.go
package estimatedemand

import "purchase-advisor/internal/models"

type Input struct {
	Items       []models.ParsedItem `json:"items"`
	HorizonDays int                 `json:"forecastHorizonDays"`
}

type Output struct {
	ForecastedItems []models.ForecastedItem `json:"forecastedItems"`
	HorizonDays     int                     `json:"horizonDays"`
	TotalUnits      int                     `json:"totalUnits"`
}
