package config

import (
	"github.com/caselens/tiger/internal/infrastructure/messaging/kafka"
	"github.com/caselens/tiger/internal/infrastructure/search/opensearch"
)

// Defaults target a laptop run against local backends. Connection
// fine-tuning (pool sizes, retry backoffs, timeouts) is defaulted by each
// component's constructor, not here.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMaxFileSizeMB = 100

	DefaultOutputRoot   = "output"
	DefaultOutputPolicy = "version"

	// DefaultEventBufferSize matches the async sink's own queue default.
	DefaultEventBufferSize = 256

	DefaultKafkaBroker       = "localhost:9092"
	DefaultRedisAddr         = "localhost:6379"
	DefaultMinIOEndpoint     = "localhost:9000"
	DefaultOpenSearchAddress = "http://localhost:9200"

	DefaultMetricsNamespace = "tiger"
	DefaultMetricsListen    = ":9464"
)

// ApplyDefaults fills every zero-value field in cfg that has a platform
// default. Explicitly configured values are never changed, so it is safe to
// call on a partially populated Config before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}

	if cfg.Processing.MaxFileSizeMB == 0 {
		cfg.Processing.MaxFileSizeMB = DefaultMaxFileSizeMB
	}

	if cfg.Output.Root == "" {
		cfg.Output.Root = DefaultOutputRoot
	}
	if cfg.Output.Policy == "" {
		cfg.Output.Policy = DefaultOutputPolicy
	}

	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = DefaultEventBufferSize
	}
	if len(cfg.Events.Kafka.Brokers) == 0 {
		cfg.Events.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Events.Kafka.Topic == "" {
		cfg.Events.Kafka.Topic = kafka.TopicCaseEvents
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}

	if cfg.Archive.Endpoint == "" {
		cfg.Archive.Endpoint = DefaultMinIOEndpoint
	}

	if len(cfg.Search.Addresses) == 0 {
		cfg.Search.Addresses = []string{DefaultOpenSearchAddress}
	}
	if cfg.Search.Index == "" {
		cfg.Search.Index = opensearch.DefaultIndex
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
}
