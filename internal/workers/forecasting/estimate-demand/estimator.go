// internal/workers/forecasting/estimate-demand/estimator.go
package estimatedemand

import (
	"math"

	"purchase-advisor/internal/models"
)

const SafetyStockRatio = 0.20

const (
	MinHorizonDays     = 1
	MaxHorizonDays     = 365
	DefaultHorizonDays = 30
)

// ClampHorizon bounds a request horizon to [1,365]; zero selects the default.
func ClampHorizon(days int) int {
	switch {
	case days == 0:
		return DefaultHorizonDays
	case days < MinHorizonDays:
		return MinHorizonDays
	case days > MaxHorizonDays:
		return MaxHorizonDays
	}
	return days
}

// Estimate turns daily usage rates into unit quantities with safety stock.
// Items with a non-positive usage rate are dropped.
func Estimate(items []models.ParsedItem, horizonDays int) []models.ForecastedItem {
	out := make([]models.ForecastedItem, 0, len(items))
	for _, item := range items {
		if !(item.DailyUsage > 0) {
			continue
		}
		base := ceil(item.DailyUsage * float64(horizonDays))
		safety := ceil(float64(base) * SafetyStockRatio)
		out = append(out, models.ForecastedItem{
			ParsedItem:      item,
			HorizonDays:     horizonDays,
			BaseDemand:      base,
			SafetyStock:     safety,
			ForecastedUnits: base + safety,
		})
	}
	return out
}

// ceil ignores float noise below 1e-9 so 0.1*30 stays 3.
func ceil(v float64) int {
	return int(math.Ceil(v - 1e-9))
}
