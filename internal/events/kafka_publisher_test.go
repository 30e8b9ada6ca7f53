package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	writer := &fakeWriter{}
	publisher := &KafkaPublisher{writer: writer, topic: "photoshare.events", now: func() time.Time { return now }}

	err := publisher.Publish(context.Background(), Event{
		Type:       EventImageRated,
		UserID:     42,
		ImageID:    7,
		Attributes: map[string]string{"rate": "5"},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventImageRated, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventImageRated, decoded.Type)
	assert.Equal(t, uint(7), decoded.ImageID)
	assert.Equal(t, "5", decoded.Attributes["rate"])
	assert.True(t, now.Equal(decoded.OccurredAt))

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWriteError(t *testing.T) {
	writeErr := errors.New("broker down")
	publisher := &KafkaPublisher{writer: &fakeWriter{err: writeErr}, topic: "t", now: time.Now}
	err := publisher.Publish(context.Background(), Event{Type: EventUserLoggedIn, UserID: 1})
	assert.ErrorIs(t, err, writeErr)
}

func TestNullPublisher(t *testing.T) {
	var publisher Publisher = NullPublisher{}
	assert.NoError(t, publisher.Publish(context.Background(), Event{Type: EventUserRegistered}))
	assert.NoError(t, publisher.Close())
}
