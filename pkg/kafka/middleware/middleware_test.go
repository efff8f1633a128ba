package kafkamiddleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"courtbook/pkg/kafka"
	"courtbook/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetricsConsumerMiddleware(t *testing.T) {
	var counters Counters
	mw := MetricsConsumerMiddleware(&counters)

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	assert.NoError(t, mw(context.Background(), kafka.Message{}, ok))
	assert.NoError(t, mw(context.Background(), kafka.Message{}, ok))
	assert.Error(t, mw(context.Background(), kafka.Message{}, fail))

	snap := counters.Snapshot()
	assert.Equal(t, int64(2), snap.Succeeded)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestCounters_EmptySnapshot(t *testing.T) {
	var counters Counters
	assert.Equal(t, Snapshot{}, counters.Snapshot())
}

func TestLoggingProducerMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf, Service: "test"})
	mw := LoggingProducerMiddleware(log)

	msg := kafka.Message{Key: "s1", Topic: "session.finalized", Headers: map[string]string{kafka.HeaderEventID: "e1"}}
	err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		return errors.New("broker down")
	})

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to publish kafka message")
	assert.Contains(t, buf.String(), `"event_id":"e1"`)
	assert.Contains(t, buf.String(), "broker down")
}
