package kafka

import (
	"context"
	"errors"
	"testing"

	"marketplace/config"
	"marketplace/infrastructure/persistence/mysql/po"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_KeysByAggregate(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisherWithWriter(w)

	err := p.Publish(context.Background(), &po.OutboxEventPO{
		ID:          "evt-1",
		AggregateID: "order-1",
		EventType:   "order.status_changed",
		Payload:     `{"event_name":"order.status_changed"}`,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.JSONEq(t, `{"event_name":"order.status_changed"}`, string(msg.Value))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.status_changed", string(msg.Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_PropagatesWriteErrors(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newPublisherWithWriter(&recordingWriter{err: boom})
	err := p.Publish(context.Background(), &po.OutboxEventPO{ID: "evt-1", AggregateID: "a"})
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(config.KafkaConfig{Topic: "marketplace.events"})
	assert.ErrorIs(t, err, ErrNoBrokers)
}
