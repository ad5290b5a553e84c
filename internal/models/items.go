// internal/models/items.go
package models

type ParsedItem struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	DailyUsage float64 `json:"dailyUsage"`
	Unit       string  `json:"unit,omitempty"`
	Context    string  `json:"context,omitempty"`
}

type ForecastedItem struct {
	ParsedItem
	HorizonDays     int `json:"horizonDays"`
	BaseDemand      int `json:"baseDemand"`
	SafetyStock     int `json:"safetyStock"`
	ForecastedUnits int `json:"forecastedUnits"`
}
