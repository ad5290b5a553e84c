// internal/workers/recommendation/dispatch-search/config.go
package dispatchsearch

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
