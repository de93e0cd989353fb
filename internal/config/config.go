// Package config defines all configuration structures for the Madison
// intelligence engine.  No I/O or parsing logic lives here — only plain data
// types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds the provider-response cache connection parameters.
// The cache exists to keep repeated runs inside the public APIs' rate-limit
// budget; when disabled every run fetches live.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the critical-threat alert producer parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	MaxRetries   int           `mapstructure:"max_retries"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ProviderEndpoint holds the HTTP tunables of one external data provider.
type ProviderEndpoint struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	PageSize     int           `mapstructure:"page_size"`
}

// ProvidersConfig groups both external data providers.
type ProvidersConfig struct {
	FDA            ProviderEndpoint `mapstructure:"fda"`
	ClinicalTrials ProviderEndpoint `mapstructure:"clinical_trials"`

	// CacheTTL bounds how long a fetched batch may be served from cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// AnalysisConfig holds scoring-run tunables.
type AnalysisConfig struct {
	// Workers bounds the parallelism of the batch analyzer.
	Workers int `mapstructure:"workers"`

	// QuickLimit and DeepLimit cap the record batch per analysis depth.
	QuickLimit int `mapstructure:"quick_limit"`
	DeepLimit  int `mapstructure:"deep_limit"`

	// DefaultDaysBack is the fetch window used when a query omits one.
	DefaultDaysBack int `mapstructure:"default_days_back"`
}

// Config is the root configuration for all binaries.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       logging.LogConfig `mapstructure:"log"`
	Redis     RedisConfig       `mapstructure:"redis"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	Providers ProvidersConfig   `mapstructure:"providers"`
	Analysis  AnalysisConfig    `mapstructure:"analysis"`
}

// Validate checks cross-field consistency.  It assumes ApplyDefaults has
// already run, so zero values it would have filled are not re-checked.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug|release|test, got %q", c.Server.Mode)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled is true")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka.enabled is true")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka.enabled is true")
		}
	}
	for name, p := range map[string]ProviderEndpoint{
		"providers.fda":             c.Providers.FDA,
		"providers.clinical_trials": c.Providers.ClinicalTrials,
	} {
		if p.BaseURL == "" {
			return fmt.Errorf("%s.base_url must not be empty", name)
		}
		if p.PageSize < 1 || p.PageSize > 1000 {
			return fmt.Errorf("%s.page_size must be in [1,1000], got %d", name, p.PageSize)
		}
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be >= 1, got %d", c.Analysis.Workers)
	}
	if c.Analysis.QuickLimit < 1 || c.Analysis.DeepLimit < c.Analysis.QuickLimit {
		return fmt.Errorf("analysis limits must satisfy 1 <= quick_limit <= deep_limit")
	}
	if c.Analysis.DefaultDaysBack < 1 {
		return fmt.Errorf("analysis.default_days_back must be >= 1, got %d", c.Analysis.DefaultDaysBack)
	}
	return nil
}
