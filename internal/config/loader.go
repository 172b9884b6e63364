package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "TIGER"

// newViper builds a viper instance with the pipeline's conventions: YAML
// files, TIGER_ env prefix, and a "." to "_" key replacer so that nested
// keys like "redis.addr" resolve from TIGER_REDIS_ADDR.
//
// Every overridable key is seeded with its default here because viper only
// consults the environment for keys it knows about; without the seeding,
// env-only deployments would silently lose their overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("log.error_output_paths", []string{"stderr"})

	v.SetDefault("processing.max_file_size_mb", DefaultMaxFileSizeMB)
	v.SetDefault("processing.ocr_binary", "")
	v.SetDefault("processing.ocr_timeout", "0s")

	v.SetDefault("firm.name", "")
	v.SetDefault("firm.address", "")
	v.SetDefault("firm.phone", "")
	v.SetDefault("firm.email", "")
	v.SetDefault("firm.default_court", "")
	v.SetDefault("firm.default_district", "")

	v.SetDefault("output.root", DefaultOutputRoot)
	v.SetDefault("output.policy", DefaultOutputPolicy)

	v.SetDefault("events.buffer_size", DefaultEventBufferSize)
	v.SetDefault("events.kafka.enabled", false)
	v.SetDefault("events.kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("events.kafka.topic", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("archive.access_key_id", "")
	v.SetDefault("archive.secret_access_key", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.use_ssl", false)

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.addresses", []string{DefaultOpenSearchAddress})
	v.SetDefault("search.username", "")
	v.SetDefault("search.password", "")
	v.SetDefault("search.index", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.listen", DefaultMetricsListen)

	return v
}

// Load reads the YAML file at configPath, merges TIGER_* environment
// overrides, applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from TIGER_* environment variables alone, the
// usual loading path for containerised runs with no config file mounted.
//
// Naming convention: TIGER_<SECTION>_<FIELD>, e.g. TIGER_REDIS_ADDR,
// TIGER_OUTPUT_ROOT, TIGER_EVENTS_KAFKA_ENABLED.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Watch re-reads configPath whenever it changes on disk and calls onChange
// with each new valid Config. Changes that fail to parse or validate are
// skipped so a half-saved file never reaches the application. Watch returns
// after starting viper's watcher goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on error, for use in main where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
