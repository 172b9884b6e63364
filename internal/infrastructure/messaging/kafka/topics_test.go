package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

type mockConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions []kafka.Partition
	readErr    error
	closes     int
}

func (m *mockConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	return m.partitions, m.readErr
}

func (m *mockConn) Close() error {
	m.closes++
	return nil
}

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestDefaultEventTopic(t *testing.T) {
	t.Parallel()

	cfg := DefaultEventTopic("")
	assert.Equal(t, TopicCaseEvents, cfg.Name)
	assert.Equal(t, 3, cfg.NumPartitions)
	assert.Equal(t, 1, cfg.ReplicationFactor)
	assert.Equal(t, int64(7*24*3600*1000), cfg.RetentionMs)

	named := DefaultEventTopic("firm.events")
	assert.Equal(t, "firm.events", named.Name)
}

func TestTopicManager_EnsureTopic_CreatesWithRetention(t *testing.T) {
	t.Parallel()

	conn := &mockConn{}
	manager := newTestTopicManager(conn)

	require.NoError(t, manager.EnsureTopic(context.Background(), DefaultEventTopic("")))
	require.Len(t, conn.created, 1)

	created := conn.created[0]
	assert.Equal(t, TopicCaseEvents, created.Topic)
	assert.Equal(t, 3, created.NumPartitions)
	assert.Equal(t, 1, created.ReplicationFactor)
	require.Len(t, created.ConfigEntries, 1)
	assert.Equal(t, "retention.ms", created.ConfigEntries[0].ConfigName)
	assert.Equal(t, "604800000", created.ConfigEntries[0].ConfigValue)
}

func TestTopicManager_EnsureTopic_ToleratesExisting(t *testing.T) {
	t.Parallel()

	t.Run("broker reports already exists", func(t *testing.T) {
		t.Parallel()

		conn := &mockConn{createErr: fmt.Errorf("topic already exists")}
		manager := newTestTopicManager(conn)

		assert.NoError(t, manager.EnsureTopic(context.Background(), DefaultEventTopic("")))
	})

	t.Run("partitions prove existence", func(t *testing.T) {
		t.Parallel()

		conn := &mockConn{
			createErr:  fmt.Errorf("not authorized"),
			partitions: []kafka.Partition{{Topic: TopicCaseEvents}},
		}
		manager := newTestTopicManager(conn)

		assert.NoError(t, manager.EnsureTopic(context.Background(), DefaultEventTopic("")))
	})

	t.Run("genuine failure propagates", func(t *testing.T) {
		t.Parallel()

		conn := &mockConn{
			createErr: fmt.Errorf("not authorized"),
			readErr:   fmt.Errorf("not authorized"),
		}
		manager := newTestTopicManager(conn)

		err := manager.EnsureTopic(context.Background(), DefaultEventTopic(""))
		assert.True(t, errors.IsCode(err, errors.ErrCodeSinkUnavailable))
	})
}

func TestTopicManager_EnsureTopic_ValidatesConfig(t *testing.T) {
	t.Parallel()

	manager := newTestTopicManager(&mockConn{})
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  TopicConfig
	}{
		{"missing name", TopicConfig{NumPartitions: 1, ReplicationFactor: 1}},
		{"zero partitions", TopicConfig{Name: "t", ReplicationFactor: 1}},
		{"zero replication", TopicConfig{Name: "t", NumPartitions: 1}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := manager.EnsureTopic(ctx, tc.cfg)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
		})
	}
}

func TestTopicManager_TopicExists(t *testing.T) {
	t.Parallel()

	conn := &mockConn{partitions: []kafka.Partition{{Topic: TopicCaseEvents}}}
	manager := newTestTopicManager(conn)

	exists, err := manager.TopicExists(context.Background(), TopicCaseEvents)
	require.NoError(t, err)
	assert.True(t, exists)

	conn.partitions = nil
	exists, err = manager.TopicExists(context.Background(), TopicCaseEvents)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewTopicManager_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewTopicManager(nil, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestTopicManager_Close(t *testing.T) {
	t.Parallel()

	conn := &mockConn{}
	manager := newTestTopicManager(conn)

	require.NoError(t, manager.Close())
	assert.Equal(t, 1, conn.closes)
}
