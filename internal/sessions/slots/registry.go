// Package slots manages the ordered list of bookings inside a session.
// Functions never modify the slice they are given; they return a new one.
package slots

import (
	"fmt"

	sessionserrors "courtbook/internal/sessions/errors"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
)

// IDSource hands out slot ids. Callers supply it; the registry never
// invents ids on its own.
type IDSource func() model.SlotID

// Add appends a slot built from in and returns the new list. It fails with
// CapacityExceeded when slots already holds maxSlots entries.
func Add(slots []model.Slot, maxSlots int, in model.SlotInput, nextID IDSource) ([]model.Slot, error) {
	if len(slots) >= maxSlots {
		return nil, apperrors.CapacityExceeded(
			fmt.Sprintf("session is full: %d of %d slots booked", len(slots), maxSlots),
		).WithDetails(map[string]any{
			"booked":    len(slots),
			"max_slots": maxSlots,
		}).WithCause(sessionserrors.ErrCapacityExceeded)
	}

	out := make([]model.Slot, len(slots), len(slots)+1)
	copy(out, slots)
	out = append(out, model.Slot{
		ID:         nextID(),
		PlayerName: in.PlayerName,
		Email:      in.Email,
		Phone:      in.Phone,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
	})
	return out, nil
}

// Remove returns slots without the first entry whose id matches. An unknown
// id yields an unchanged copy, so removing twice is a no-op.
func Remove(slots []model.Slot, id model.SlotID) []model.Slot {
	out := make([]model.Slot, 0, len(slots))
	removed := false
	for _, s := range slots {
		if !removed && s.ID == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out
}

func Find(slots []model.Slot, id model.SlotID) (model.Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return model.Slot{}, false
}

// Remaining returns how many slots can still be booked, never negative.
func Remaining(slots []model.Slot, maxSlots int) int {
	return max(maxSlots-len(slots), 0)
}

func IsFull(slots []model.Slot, maxSlots int) bool {
	return len(slots) >= maxSlots
}
