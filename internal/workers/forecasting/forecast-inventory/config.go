// internal/workers/forecasting/forecast-inventory/config.go
package forecastinventory

import (
	"time"

	"purchase-advisor/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	HorizonDays     int
	Params          Params
	HistoryDays     int
	AlertWithinDays int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		HorizonDays: cfg.Forecasting.HorizonDays,
		Params: Params{
			Alpha: cfg.Forecasting.Alpha,
			Beta:  cfg.Forecasting.Beta,
		},
		HistoryDays:     cfg.Forecasting.HistoryDays,
		AlertWithinDays: cfg.Forecasting.AlertWithinDays,
	}
}
