// internal/workers/forecasting/plan-reorder/config.go
package planreorder

import (
	"time"

	"purchase-advisor/internal/common/config"
)

const (
	DefaultWindowDays = 7
	MaxWindowDays     = 90
)

type Config struct {
	Timeout      time.Duration
	LeadTimeDays int
	WindowDays   int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		LeadTimeDays: cfg.Forecasting.LeadTimeDays,
		WindowDays:   DefaultWindowDays,
	}
}
