// Package config provides configuration loading, defaults, and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "HELIX"

// newViper builds a pre-configured Viper instance: YAML file type, HELIX_ env
// prefix, automatic env binding, and a key replacer mapping "." → "_" so that
// nested keys like "redis.addr" resolve to "HELIX_REDIS_ADDR".
// settingKeys lists every configuration key.  Viper only resolves environment
// variables for keys it knows about, so each key is bound explicitly; the list
// must grow with the Config struct.
var settingKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout",
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	"redis.enabled", "redis.addr", "redis.password", "redis.db",
	"redis.pool_size", "redis.min_idle_conns", "redis.dial_timeout",
	"redis.read_timeout", "redis.write_timeout", "redis.default_ttl",
	"redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.max_retries",
	"kafka.batch_timeout", "kafka.write_timeout",
	"providers.fda.base_url", "providers.fda.timeout", "providers.fda.retry_max",
	"providers.fda.retry_wait_min", "providers.fda.retry_wait_max",
	"providers.fda.page_size",
	"providers.clinical_trials.base_url", "providers.clinical_trials.timeout",
	"providers.clinical_trials.retry_max", "providers.clinical_trials.retry_wait_min",
	"providers.clinical_trials.retry_wait_max", "providers.clinical_trials.page_size",
	"providers.cache_ttl",
	"analysis.workers", "analysis.quick_limit", "analysis.deep_limit",
	"analysis.default_days_back",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any HELIX_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from HELIX_* environment variables,
// with no config file required — the preferred strategy for containerised
// deployments.
//
// Naming convention: HELIX_<SECTION>_<FIELD>, e.g. HELIX_SERVER_PORT,
// HELIX_REDIS_ADDR.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Intended for
// hot-reloading non-critical settings such as log level and cache TTLs;
// callers are responsible for applying only the safe subset at runtime.
//
// Watch is non-blocking; viper manages the background goroutine.  A changed
// file that fails to parse or validate does not trigger onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Callers are expected to have called Load first; this read primes the
	// watcher state.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error.  For use in main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
