package kafkamiddleware

import (
	"context"
	"sync/atomic"
	"time"

	"courtbook/pkg/kafka"
)

// Counters tracks message throughput for one producer or consumer.
type Counters struct {
	succeeded atomic.Int64
	failed    atomic.Int64
	totalNs   atomic.Int64
}

type Snapshot struct {
	Succeeded   int64         `json:"succeeded"`
	Failed      int64         `json:"failed"`
	AvgDuration time.Duration `json:"avg_duration"`
}

func (c *Counters) observe(start time.Time, err error) {
	c.totalNs.Add(int64(time.Since(start)))
	if err != nil {
		c.failed.Add(1)
	} else {
		c.succeeded.Add(1)
	}
}

func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Succeeded: c.succeeded.Load(),
		Failed:    c.failed.Load(),
	}
	if n := s.Succeeded + s.Failed; n > 0 {
		s.AvgDuration = time.Duration(c.totalNs.Load() / n)
	}
	return s
}

func MetricsProducerMiddleware(c *Counters) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		c.observe(start, err)
		return err
	}
}

func MetricsConsumerMiddleware(c *Counters) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		c.observe(start, err)
		return err
	}
}
