// Package kafka delivers pipeline progress events to a Kafka topic. It is
// the wire adapter behind the events.Sink interface; runs without a broker
// simply never construct it.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

var ErrSinkClosed = errors.New(errors.ErrCodeSinkUnavailable, "kafka sink closed")

// Config holds settings for the event sink.
type Config struct {
	Brokers      []string      `mapstructure:"brokers" yaml:"brokers" json:"brokers"`
	Topic        string        `mapstructure:"topic" yaml:"topic" json:"topic"`
	Acks         string        `mapstructure:"acks" yaml:"acks" json:"acks"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	BatchSize    int           `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout" yaml:"batch_timeout" json:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	Compression  string        `mapstructure:"compression" yaml:"compression" json:"compression"`
}

func (c Config) withDefaults() Config {
	if c.Acks == "" {
		c.Acks = "one"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == 0 {
		// Progress events are low-volume; a short batch window keeps
		// delivery prompt for anyone tailing the topic.
		c.BatchTimeout = 50 * time.Millisecond
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.WriterStats
}

// Sink publishes events to one topic, keyed by case id so each case's
// events stay on one partition and arrive in publish order.
type Sink struct {
	writer    WriterInterface
	config    Config
	logger    logging.Logger
	closed    atomic.Bool
	published atomic.Int64
	failed    atomic.Int64
}

// NewSink connects a writer to the configured topic.
func NewSink(cfg Config, log logging.Logger) (*Sink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.InvalidParam("kafka topic is required")
	}
	if log == nil {
		log = logging.Default()
	}
	cfg = cfg.withDefaults()

	var requiredAcks kafka.RequiredAcks
	switch cfg.Acks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "all":
		requiredAcks = kafka.RequireAll
	default:
		requiredAcks = kafka.RequireOne
	}

	var compression kafka.Compression
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	default:
		compression = kafka.Compression(0)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: requiredAcks,
		Compression:  compression,
	}

	return &Sink{
		writer: writer,
		config: cfg,
		logger: log.Named("kafka-sink"),
	}, nil
}

// Publish implements events.Sink. Delivery is synchronous and bounded by the
// configured write timeout; wrap the sink in events.AsyncSink to decouple
// the pipeline from broker latency.
func (s *Sink) Publish(ev events.Event) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event")
	}

	msg := kafka.Message{
		Key:   []byte(ev.CaseID),
		Value: value,
		Time:  ev.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodePublishFailed, "failed to publish event")
	}

	s.published.Add(1)
	s.logger.Debug("Event published",
		logging.String("type", ev.Type),
		logging.String("case_id", ev.CaseID),
	)
	return nil
}

// Published reports how many events reached the writer.
func (s *Sink) Published() int64 { return s.published.Load() }

// Failed reports how many publishes errored.
func (s *Sink) Failed() int64 { return s.failed.Load() }

// Close flushes and shuts the writer. Safe to call more than once.
func (s *Sink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.writer.Close()
	s.logger.Info("Kafka sink closed",
		logging.Int64("published", s.published.Load()),
		logging.Int64("failed", s.failed.Load()),
	)
	return err
}
