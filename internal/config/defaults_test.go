package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caselens/tiger/internal/infrastructure/messaging/kafka"
	"github.com/caselens/tiger/internal/infrastructure/search/opensearch"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
	assert.Equal(t, []string{"stderr"}, cfg.Log.ErrorOutputPaths)

	assert.Equal(t, DefaultMaxFileSizeMB, cfg.Processing.MaxFileSizeMB)

	assert.Equal(t, DefaultOutputRoot, cfg.Output.Root)
	assert.Equal(t, DefaultOutputPolicy, cfg.Output.Policy)

	assert.Equal(t, DefaultEventBufferSize, cfg.Events.BufferSize)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, kafka.TopicCaseEvents, cfg.Events.Kafka.Topic)

	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultMinIOEndpoint, cfg.Archive.Endpoint)
	assert.Equal(t, []string{DefaultOpenSearchAddress}, cfg.Search.Addresses)
	assert.Equal(t, opensearch.DefaultIndex, cfg.Search.Index)

	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
}

func TestApplyDefaults_LeavesBackendsDisabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.False(t, cfg.Events.Kafka.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Archive.Enabled)
	assert.False(t, cfg.Search.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Processing.MaxFileSizeMB = 10
	cfg.Output.Root = "/srv/cases"
	cfg.Events.Kafka.Brokers = []string{"broker-1:9092", "broker-2:9092"}
	cfg.Redis.Addr = "cache:6379"
	cfg.Search.Index = "cases-v2"
	ApplyDefaults(cfg)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, "/srv/cases", cfg.Output.Root)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "cases-v2", cfg.Search.Index)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
