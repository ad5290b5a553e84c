package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Forecasting   ForecastingConfig       `mapstructure:"forecasting"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HealthPort  int    `mapstructure:"health_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // broker retries, not capability retries
}

// CapabilityConfig is shared by every external capability the pipeline calls.
type CapabilityConfig struct {
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	BreakerFailures uint32 `mapstructure:"breaker_failures"`
	BreakerOpenFor  int    `mapstructure:"breaker_open_for"` // milliseconds
	BreakerHalfOpen uint32 `mapstructure:"breaker_half_open_requests"`
	BreakerInterval int    `mapstructure:"breaker_interval"` // milliseconds
}

type APIsConfig struct {
	GenAI struct {
		CapabilityConfig `mapstructure:",squash"`

		APIKey      string  `mapstructure:"api_key"`
		Model       string  `mapstructure:"model"`
		Temperature float32 `mapstructure:"temperature"`
	} `mapstructure:"genai"`

	WebSearch struct {
		CapabilityConfig `mapstructure:",squash"`

		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		EngineID   string `mapstructure:"engine_id"`
		MaxResults int    `mapstructure:"max_results"`
	} `mapstructure:"web_search"`

	Catalog struct {
		CapabilityConfig `mapstructure:",squash"`

		Index      string `mapstructure:"index"`
		MaxResults int    `mapstructure:"max_results"`
		CacheTTL   int    `mapstructure:"cache_ttl"` // seconds, 0 disables the cache
	} `mapstructure:"catalog"`
}

type ForecastingConfig struct {
	HorizonDays     int     `mapstructure:"horizon_days"`
	Alpha           float64 `mapstructure:"alpha"`
	Beta            float64 `mapstructure:"beta"`
	AlertWithinDays int     `mapstructure:"alert_within_days"`
	LeadTimeDays    int     `mapstructure:"lead_time_days"`
	HistoryDays     int     `mapstructure:"history_days"`
}

type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
