// internal/workers/recommendation/resolve-unfound/config.go
package resolveunfound

import (
	"time"

	"purchase-advisor/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	Concurrency int
}

func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:     config.GetDuration(wcfg.Timeout),
		Concurrency: wcfg.MaxJobsActive,
	}
}
