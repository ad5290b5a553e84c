package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// expands ${VAR} placeholders and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return decode(v)
}

// LoadFromFile reads a single YAML file. Used by tools and tests.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.APIs.GenAI.APIKey, "GENAI_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.APIKey, "WEB_SEARCH_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.EngineID, "WEB_SEARCH_ENGINE_ID")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Notifications.SNS.TopicARN, "SNS_TOPIC_ARN")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "purchase-advisor"
	}
	if cfg.App.HealthPort == 0 {
		cfg.App.HealthPort = 8080
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}

	applyCapabilityDefaults(&cfg.APIs.GenAI.CapabilityConfig)
	applyCapabilityDefaults(&cfg.APIs.WebSearch.CapabilityConfig)
	applyCapabilityDefaults(&cfg.APIs.Catalog.CapabilityConfig)

	if cfg.APIs.GenAI.Model == "" {
		cfg.APIs.GenAI.Model = "gemini-1.5-flash"
	}
	if cfg.APIs.GenAI.Temperature == 0 {
		cfg.APIs.GenAI.Temperature = 0.2
	}
	if cfg.APIs.WebSearch.BaseURL == "" {
		cfg.APIs.WebSearch.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if cfg.APIs.WebSearch.MaxResults == 0 {
		cfg.APIs.WebSearch.MaxResults = 3
	}
	if cfg.APIs.Catalog.Index == "" {
		cfg.APIs.Catalog.Index = "products"
	}
	if cfg.APIs.Catalog.MaxResults == 0 {
		cfg.APIs.Catalog.MaxResults = 10
	}

	if cfg.Forecasting.HorizonDays == 0 {
		cfg.Forecasting.HorizonDays = 30
	}
	if cfg.Forecasting.Alpha == 0 {
		cfg.Forecasting.Alpha = 0.3
	}
	if cfg.Forecasting.Beta == 0 {
		cfg.Forecasting.Beta = 0.1
	}
	if cfg.Forecasting.AlertWithinDays == 0 {
		cfg.Forecasting.AlertWithinDays = 7
	}
	if cfg.Forecasting.LeadTimeDays == 0 {
		cfg.Forecasting.LeadTimeDays = 3
	}
	if cfg.Forecasting.HistoryDays == 0 {
		cfg.Forecasting.HistoryDays = 180
	}
}

func applyCapabilityDefaults(c *CapabilityConfig) {
	if c.Timeout == 0 {
		c.Timeout = 8000
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerOpenFor == 0 {
		c.BreakerOpenFor = 30000
	}
	if c.BreakerHalfOpen == 0 {
		c.BreakerHalfOpen = 1
	}
	if c.BreakerInterval == 0 {
		c.BreakerInterval = 60000
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}

	if cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}

	if cfg.Forecasting.Alpha <= 0 || cfg.Forecasting.Alpha >= 1 {
		return fmt.Errorf("forecasting.alpha must be in (0,1), got %v", cfg.Forecasting.Alpha)
	}
	if cfg.Forecasting.Beta <= 0 || cfg.Forecasting.Beta >= 1 {
		return fmt.Errorf("forecasting.beta must be in (0,1), got %v", cfg.Forecasting.Beta)
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    0,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
