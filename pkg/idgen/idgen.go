// Package idgen hands out slot identifiers derived from the wall clock.
package idgen

import (
	"sync"
	"time"

	"courtbook/pkg/model"
)

type Clock interface {
	Now() time.Time
}

// DefaultClock implements Clock using the system clock.
type DefaultClock struct{}

func (DefaultClock) Now() time.Time {
	return time.Now()
}

// SlotSequence issues unix-millisecond slot ids. Two calls within the same
// millisecond still get distinct, increasing ids.
type SlotSequence struct {
	mu    sync.Mutex
	clock Clock
	last  int64
}

func NewSlotSequence(clock Clock) *SlotSequence {
	if clock == nil {
		clock = DefaultClock{}
	}
	return &SlotSequence{clock: clock}
}

func (s *SlotSequence) Next() model.SlotID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return model.SlotID(id)
}
