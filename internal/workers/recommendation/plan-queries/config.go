// internal/workers/recommendation/plan-queries/config.go
package planqueries

import (
	"time"

	"purchase-advisor/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
