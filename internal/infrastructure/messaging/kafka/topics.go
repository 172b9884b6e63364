package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// TopicCaseEvents is the default topic for pipeline progress events.
const TopicCaseEvents = "tiger.case.events"

// TopicConfig describes one topic to ensure before publishing.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// DefaultEventTopic returns the case-events topic sized for a local broker.
// Three partitions keep per-case ordering (events are keyed by case id)
// while letting concurrent cases spread out.
func DefaultEventTopic(name string) TopicConfig {
	if name == "" {
		name = TopicCaseEvents
	}
	return TopicConfig{
		Name:              name,
		NumPartitions:     3,
		ReplicationFactor: 1,
		RetentionMs:       7 * 24 * 3600 * 1000,
	}
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates topics ahead of the first publish, so event delivery
// does not depend on broker auto-creation being enabled.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, log logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}
	if log == nil {
		log = logging.Default()
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnavailable, "failed to dial kafka")
	}
	return &TopicManager{
		conn:   conn,
		logger: log.Named("kafka-topics"),
	}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (m *TopicManager) EnsureTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.InvalidParam("topic name is required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.InvalidParam("topic partitions must be positive")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.InvalidParam("topic replication factor must be positive")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs),
		})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeSinkUnavailable, "failed to create topic")
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists reports whether the broker already knows the topic.
func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}
