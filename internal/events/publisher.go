// Package events announces new submissions on a Kafka topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/HebleV/putmeonmap/internal/models"
)

const TypeSubmissionCreated = "submission.created"

// Publisher announces submissions to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, sub *models.Submission) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
// This allows for easy mocking in unit tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the message payload.
type Event struct {
	Type       string            `json:"type"`
	Submission models.Submission `json:"submission"`
	PlaceType  string            `json:"placeType"`
}

// KafkaPublisher writes one message per submission, keyed by id so every
// event for a submission lands on the same partition.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, sub *models.Submission) error {
	value, err := json.Marshal(Event{
		Type:       TypeSubmissionCreated,
		Submission: *sub,
		PlaceType:  models.PlaceType(sub.Category),
	})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(sub.ID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeSubmissionCreated)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish submission %d: %w", sub.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, *models.Submission) error { return nil }
func (Nop) Close() error                                      { return nil }
