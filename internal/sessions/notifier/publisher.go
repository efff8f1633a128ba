// Package notifier announces finalized sessions so players can be told
// what they owe. Delivery happens downstream of the event.
package notifier

import (
	"context"
	"fmt"

	"courtbook/pkg/kafka"
	"courtbook/pkg/logger"
	"courtbook/pkg/middleware"
	"courtbook/pkg/model"
)

const (
	EventSource   = "sessions"
	SchemaVersion = "1"
)

type Publisher interface {
	PublishFinalized(ctx context.Context, event model.SessionFinalizedEvent) error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes one message per finalize, keyed by session id so
// re-finalizations of a session stay ordered.
type KafkaPublisher struct {
	producer messagePublisher
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, log: log.Component("finalized-publisher")}
}

func (p *KafkaPublisher) PublishFinalized(ctx context.Context, event model.SessionFinalizedEvent) error {
	msg, err := NewFinalizedMessage(ctx, event)
	if err != nil {
		return err
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for session %s: %w", model.EventSessionFinalized, event.SessionID, err)
	}

	p.log.Debug("Published session finalized event",
		"session_id", event.SessionID,
		"event_id", msg.GetEventID(),
		"notices", len(event.Notices),
	)
	return nil
}

// NewFinalizedMessage builds the Kafka message for event, carrying the
// request id from ctx as the correlation id.
func NewFinalizedMessage(ctx context.Context, event model.SessionFinalizedEvent) (kafka.Message, error) {
	msg, err := kafka.NewMessage().
		WithKey(event.SessionID).
		WithValue(event).
		WithEventType(model.EventSessionFinalized).
		WithSource(EventSource).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to build %s message: %w", model.EventSessionFinalized, err)
	}
	return msg, nil
}

// LogPublisher stands in when notifications are disabled; it records what
// would have been sent.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishFinalized(_ context.Context, event model.SessionFinalizedEvent) error {
	p.log.Info("Notifications disabled, skipping session finalized event",
		"session_id", event.SessionID,
		"notices", len(event.Notices),
	)
	return nil
}
