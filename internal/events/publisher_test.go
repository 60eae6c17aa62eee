package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HebleV/putmeonmap/internal/models"
)

// mockWriter records written messages instead of talking to a broker.
type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	sub := &models.Submission{ID: 1700000000000, Name: "Old Bridge", Category: "landmark", Lat: 1, Lng: 2}
	require.NoError(t, p.Publish(context.Background(), sub))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "1700000000000", string(msg.Key))
	assert.Equal(t, TypeSubmissionCreated, string(msg.Headers[0].Value))

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, TypeSubmissionCreated, ev.Type)
	assert.Equal(t, "point_of_interest", ev.PlaceType)
	assert.Equal(t, *sub, ev.Submission)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.Publish(context.Background(), &models.Submission{ID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish submission 7")
	assert.ErrorIs(t, err, w.err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), &models.Submission{}))
	assert.NoError(t, p.Close())
}
