// Package config defines the pipeline's configuration tree along with
// loading, defaults, and validation. Sections for external backends embed
// the owning package's Config so the YAML keys and the constructor inputs
// never drift apart.
package config

import (
	"fmt"
	"time"

	"github.com/caselens/tiger/internal/infrastructure/database/redis"
	"github.com/caselens/tiger/internal/infrastructure/messaging/kafka"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/prometheus"
	"github.com/caselens/tiger/internal/infrastructure/search/opensearch"
	"github.com/caselens/tiger/internal/infrastructure/storage/minio"
)

// ProcessingConfig holds document handling tunables.
type ProcessingConfig struct {
	// MaxFileSizeMB bounds the size of case files the folder scan accepts.
	// The decoders enforce a hard 100 MiB ceiling; this may only lower it.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb" json:"max_file_size_mb"`

	// OCRBinary names the executable used when a PDF carries no embedded
	// text. Empty disables the OCR fallback.
	OCRBinary string `mapstructure:"ocr_binary" yaml:"ocr_binary" json:"ocr_binary"`

	// OCRArgs are prepended to the input path on each OCR invocation.
	OCRArgs []string `mapstructure:"ocr_args" yaml:"ocr_args" json:"ocr_args"`

	// OCRTimeout bounds one OCR subprocess. Zero selects the decoder default.
	OCRTimeout time.Duration `mapstructure:"ocr_timeout" yaml:"ocr_timeout" json:"ocr_timeout"`
}

// MaxFileSize returns the configured bound in bytes.
func (c ProcessingConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// FirmConfig is the filing firm's identity stamped into assembled
// complaints, plus the court defaults used when no document names a court.
type FirmConfig struct {
	Name            string `mapstructure:"name" yaml:"name" json:"name"`
	Address         string `mapstructure:"address" yaml:"address" json:"address"`
	Phone           string `mapstructure:"phone" yaml:"phone" json:"phone"`
	Email           string `mapstructure:"email" yaml:"email" json:"email"`
	DefaultCourt    string `mapstructure:"default_court" yaml:"default_court" json:"default_court"`
	DefaultDistrict string `mapstructure:"default_district" yaml:"default_district" json:"default_district"`
}

// OutputConfig controls where case trees are written and how existing
// files are treated.
type OutputConfig struct {
	// Root is the directory that receives cases/<case_name>/ trees.
	Root string `mapstructure:"root" yaml:"root" json:"root"`

	// Policy is one of "version", "overwrite", "error".
	Policy string `mapstructure:"policy" yaml:"policy" json:"policy"`
}

// KafkaConfig switches the Kafka event sink on and carries its settings.
type KafkaConfig struct {
	Enabled      bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	kafka.Config `mapstructure:",squash" yaml:",inline"`
}

// EventsConfig controls progress-event delivery.
type EventsConfig struct {
	// BufferSize is the async sink's queue depth. Zero selects the sink
	// default; the oldest event is dropped on overflow.
	BufferSize int         `mapstructure:"buffer_size" yaml:"buffer_size" json:"buffer_size"`
	Kafka      KafkaConfig `mapstructure:"kafka" yaml:"kafka" json:"kafka"`
}

// RedisConfig switches the extraction cache and case lock on and carries
// the connection settings.
type RedisConfig struct {
	Enabled      bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	redis.Config `mapstructure:",squash" yaml:",inline"`
}

// ArchiveConfig switches the MinIO case mirror on and carries its settings.
type ArchiveConfig struct {
	Enabled      bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	minio.Config `mapstructure:",squash" yaml:",inline"`
}

// SearchConfig switches the OpenSearch case index on and carries its
// settings.
type SearchConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	opensearch.Config `mapstructure:",squash" yaml:",inline"`
}

// MetricsConfig switches the Prometheus endpoint on and carries the
// collector settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Listen is the address the /metrics endpoint binds for the duration
	// of a run, e.g. ":9464".
	Listen string `mapstructure:"listen" yaml:"listen" json:"listen"`

	prometheus.CollectorConfig `mapstructure:",squash" yaml:",inline"`
}

// Config is the root configuration for the pipeline. Sub-structs are
// populated by Load/LoadFromEnv and handed to the component constructors
// as-is.
type Config struct {
	Log        logging.LogConfig `mapstructure:"log" yaml:"log" json:"log"`
	Processing ProcessingConfig  `mapstructure:"processing" yaml:"processing" json:"processing"`
	Firm       FirmConfig        `mapstructure:"firm" yaml:"firm" json:"firm"`
	Output     OutputConfig      `mapstructure:"output" yaml:"output" json:"output"`
	Events     EventsConfig      `mapstructure:"events" yaml:"events" json:"events"`
	Redis      RedisConfig       `mapstructure:"redis" yaml:"redis" json:"redis"`
	Archive    ArchiveConfig     `mapstructure:"archive" yaml:"archive" json:"archive"`
	Search     SearchConfig      `mapstructure:"search" yaml:"search" json:"search"`
	Metrics    MetricsConfig     `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// Validate checks the fully-populated Config and returns the first problem
// found. Callers should treat any error as fatal.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Processing.MaxFileSizeMB < 1 || c.Processing.MaxFileSizeMB > 100 {
		return fmt.Errorf("config: processing.max_file_size_mb %d is out of range [1, 100]", c.Processing.MaxFileSizeMB)
	}
	if c.Processing.OCRTimeout < 0 {
		return fmt.Errorf("config: processing.ocr_timeout must not be negative, got %s", c.Processing.OCRTimeout)
	}
	if len(c.Processing.OCRArgs) > 0 && c.Processing.OCRBinary == "" {
		return fmt.Errorf("config: processing.ocr_args is set but processing.ocr_binary is empty")
	}

	if c.Output.Root == "" {
		return fmt.Errorf("config: output.root is required")
	}
	switch c.Output.Policy {
	case "version", "overwrite", "error":
	default:
		return fmt.Errorf("config: output.policy %q is invalid; expected version|overwrite|error", c.Output.Policy)
	}

	if c.Events.BufferSize < 0 {
		return fmt.Errorf("config: events.buffer_size must not be negative, got %d", c.Events.BufferSize)
	}
	if c.Events.Kafka.Enabled {
		if len(c.Events.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: events.kafka.brokers must contain at least one broker when the sink is enabled")
		}
		if c.Events.Kafka.Topic == "" {
			return fmt.Errorf("config: events.kafka.topic is required when the sink is enabled")
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must not be negative, got %d", c.Redis.DB)
		}
	}

	if c.Archive.Enabled && c.Archive.Endpoint == "" {
		return fmt.Errorf("config: archive.endpoint is required when the archive mirror is enabled")
	}

	if c.Search.Enabled && len(c.Search.Addresses) == 0 {
		return fmt.Errorf("config: search.addresses must contain at least one address when the case index is enabled")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Namespace == "" {
			return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
		}
		if c.Metrics.Listen == "" {
			return fmt.Errorf("config: metrics.listen is required when metrics are enabled")
		}
	}

	return nil
}
