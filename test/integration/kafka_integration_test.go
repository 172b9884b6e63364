//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/messaging/kafka"
)

func uniqueTopic(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("tiger-it-events-%d", time.Now().UnixNano())
}

func TestTopicManager_EnsureTopicIsIdempotent(t *testing.T) {
	brokers := kafkaBrokers(t)

	manager, err := kafka.NewTopicManager(brokers, testLogger())
	require.NoError(t, err)
	defer manager.Close()

	cfg := kafka.TopicConfig{
		Name:              uniqueTopic(t),
		NumPartitions:     1,
		ReplicationFactor: 1,
	}
	ctx := context.Background()

	require.NoError(t, manager.EnsureTopic(ctx, cfg))
	require.NoError(t, manager.EnsureTopic(ctx, cfg))

	exists, err := manager.TopicExists(ctx, cfg.Name)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSink_DeliversCaseEventsInPublishOrder(t *testing.T) {
	brokers := kafkaBrokers(t)
	topic := uniqueTopic(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	manager, err := kafka.NewTopicManager(brokers, testLogger())
	require.NoError(t, err)
	defer manager.Close()
	// One partition so the read-back order is the broker's append order.
	require.NoError(t, manager.EnsureTopic(ctx, kafka.TopicConfig{
		Name:              topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	sink, err := kafka.NewSink(kafka.Config{
		Brokers:      brokers,
		Topic:        topic,
		Acks:         "all",
		BatchTimeout: 10 * time.Millisecond,
	}, testLogger())
	require.NoError(t, err)
	defer sink.Close()

	const caseID = "Youssef_v_TD_Bank"
	published := []events.Event{
		{Type: events.TypeCaseStart, CaseID: caseID, Timestamp: time.Now().UTC(), Message: "processing 4 documents"},
		{Type: events.TypeDocumentComplete, CaseID: caseID, Timestamp: time.Now().UTC(), FileName: "Atty_Notes.txt"},
		{Type: events.TypeCaseComplete, CaseID: caseID, Timestamp: time.Now().UTC(), Message: "case record written"},
	}
	for _, ev := range published {
		require.NoError(t, sink.Publish(ev))
	}
	assert.EqualValues(t, 3, sink.Published())
	assert.Zero(t, sink.Failed())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  100 * time.Millisecond,
	})
	defer reader.Close()
	require.NoError(t, reader.SetOffset(kafkago.FirstOffset))

	for _, want := range published {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)

		assert.Equal(t, caseID, string(msg.Key))

		var got events.Event
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, caseID, got.CaseID)
		assert.Equal(t, want.FileName, got.FileName)
		assert.Equal(t, want.Message, got.Message)

		require.Len(t, msg.Headers, 1)
		assert.Equal(t, "event_type", msg.Headers[0].Key)
		assert.Equal(t, want.Type, string(msg.Headers[0].Value))
	}
}

func TestSink_BroadcasterDeliveryEndToEnd(t *testing.T) {
	brokers := kafkaBrokers(t)
	topic := uniqueTopic(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	manager, err := kafka.NewTopicManager(brokers, testLogger())
	require.NoError(t, err)
	defer manager.Close()
	require.NoError(t, manager.EnsureTopic(ctx, kafka.TopicConfig{
		Name:              topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	sink, err := kafka.NewSink(kafka.Config{Brokers: brokers, Topic: topic}, testLogger())
	require.NoError(t, err)
	defer sink.Close()

	bc := events.NewBroadcaster("Empty_Case", sink, events.WithLogger(testLogger()))
	bc.CaseStart("processing 0 documents")
	bc.DocumentError("Unreadable.pdf", assert.AnError)
	bc.CaseComplete("case record written")

	assert.EqualValues(t, 3, sink.Published())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  100 * time.Millisecond,
	})
	defer reader.Close()
	require.NoError(t, reader.SetOffset(kafkago.FirstOffset))

	types := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)

		var got events.Event
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, "Empty_Case", got.CaseID)
		assert.False(t, got.Timestamp.IsZero())
		types = append(types, got.Type)

		if got.Type == events.TypeDocumentError {
			assert.Equal(t, "Unreadable.pdf", got.FileName)
			assert.NotEmpty(t, got.Error)
		}
	}
	assert.Equal(t, []string{
		events.TypeCaseStart,
		events.TypeDocumentError,
		events.TypeCaseComplete,
	}, types)
}
