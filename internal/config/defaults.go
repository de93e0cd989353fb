package config

import "time"

// Default endpoint and tuning values.  The provider URLs are the public
// endpoints the dashboard has always consumed; they are configurable only so
// tests can point at local stubs.
const (
	DefaultFDABaseURL            = "https://api.fda.gov/device/510k.json"
	DefaultClinicalTrialsBaseURL = "https://clinicaltrials.gov/api/v2/studies"

	// DefaultAlertTopic is the Kafka topic CRITICAL assessments are
	// published to when messaging is enabled.
	DefaultAlertTopic = "competitive_intel.alert"
)

// ApplyDefaults fills every unset field of cfg with its platform default.
// Explicitly-set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 15 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "helix:"
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultAlertTopic
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 100 * time.Millisecond
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	applyProviderDefaults(&cfg.Providers.FDA, DefaultFDABaseURL)
	applyProviderDefaults(&cfg.Providers.ClinicalTrials, DefaultClinicalTrialsBaseURL)
	if cfg.Providers.CacheTTL == 0 {
		cfg.Providers.CacheTTL = 15 * time.Minute
	}

	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = 8
	}
	if cfg.Analysis.QuickLimit == 0 {
		cfg.Analysis.QuickLimit = 50
	}
	if cfg.Analysis.DeepLimit == 0 {
		cfg.Analysis.DeepLimit = 200
	}
	if cfg.Analysis.DefaultDaysBack == 0 {
		cfg.Analysis.DefaultDaysBack = 365
	}
}

func applyProviderDefaults(p *ProviderEndpoint, baseURL string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	if p.RetryMax == 0 {
		p.RetryMax = 3
	}
	if p.RetryWaitMin == 0 {
		p.RetryWaitMin = 1 * time.Second
	}
	if p.RetryWaitMax == 0 {
		p.RetryWaitMax = 5 * time.Second
	}
	if p.PageSize == 0 {
		p.PageSize = 100
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// Used by binaries when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
