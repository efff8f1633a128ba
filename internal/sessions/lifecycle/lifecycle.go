// Package lifecycle holds the state machine of a court session. A session
// is Draft until stored, Open while players book, and Finalized once the
// fee is recorded; Open and Finalized sessions can be deleted.
//
// Every function takes a session by value and returns a new one; nothing
// here touches storage. Callers persist the result, and since they read,
// modify and write whole records, two concurrent bookings on the same
// session can overwrite each other. The last write wins.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"courtbook/internal/sessions/allocation"
	sessionserrors "courtbook/internal/sessions/errors"
	"courtbook/internal/sessions/slots"
	"courtbook/internal/sessions/validator"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
	"courtbook/pkg/money"
	"courtbook/pkg/sanitizer"
)

type State string

const (
	StateDraft     State = "draft"
	StateOpen      State = "open"
	StateFinalized State = "finalized"
	StateDeleted   State = "deleted"
)

// StateOf derives the state from stored fields. Deleted sessions are gone
// from the store, so StateOf never reports StateDeleted.
func StateOf(s model.Session) State {
	switch {
	case s.ID == "":
		return StateDraft
	case s.IsPaid:
		return StateFinalized
	default:
		return StateOpen
	}
}

type InputValidator interface {
	ValidateSession(in model.SessionInput) error
}

// Create builds a Draft session from an organizer's form. It stops at the
// first invalid field; the store assigns the id that makes it Open.
func Create(in model.SessionInput, validate InputValidator) (model.Session, error) {
	in.PaymentInfo.AccountName = sanitizer.NormalizeName(in.PaymentInfo.AccountName)
	in.PaymentInfo.AccountNumber = sanitizer.TrimAndNormalize(in.PaymentInfo.AccountNumber)
	in.PaymentInfo.CustomBank = sanitizer.TrimAndNormalize(in.PaymentInfo.CustomBank)
	if in.PaymentInfo.Bank != model.BankCustom {
		in.PaymentInfo.CustomBank = ""
	}

	if err := validate.ValidateSession(in); err != nil {
		return model.Session{}, InvalidInput(err)
	}

	return model.Session{
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Courts:      in.Courts,
		Location:    in.Location,
		MaxSlots:    in.MaxSlots,
		PaymentInfo: in.PaymentInfo,
		Slots:       []model.Slot{},
	}, nil
}

// InvalidInput turns a validation failure into an InvalidInput AppError
// naming the first offending field.
func InvalidInput(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		if first, ok := validationErrs.First(); ok {
			return apperrors.InvalidInput(first.Message).
				WithDetails(map[string]any{"field": first.Field}).
				WithCause(sessionserrors.ErrInvalidInput)
		}
	}
	return apperrors.InvalidInput(err.Error()).WithCause(sessionserrors.ErrInvalidInput)
}

// NormalizeSlot cleans a participant's form before validation. A phone
// number that cannot be normalized is kept as typed so validation rejects it.
func NormalizeSlot(in model.SlotInput) model.SlotInput {
	in.PlayerName = sanitizer.NormalizeName(in.PlayerName)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.StartTime = sanitizer.TrimAndNormalize(in.StartTime)
	in.EndTime = sanitizer.TrimAndNormalize(in.EndTime)
	if phone := sanitizer.NormalizePhone(in.Phone); phone != "" {
		in.Phone = phone
	} else {
		in.Phone = sanitizer.TrimAndNormalize(in.Phone)
	}
	return in
}

// BookSlot claims a slot on an Open or Finalized session. Slot times left
// empty inherit the session's window.
func BookSlot(s model.Session, in model.SlotInput, nextID slots.IDSource) (model.Session, error) {
	if StateOf(s) == StateDraft {
		return model.Session{}, notPersisted("book a slot on")
	}

	in = NormalizeSlot(in)
	if in.PlayerName == "" {
		return model.Session{}, apperrors.InvalidInput("player_name is required").
			WithDetails(map[string]any{"field": "player_name"}).
			WithCause(sessionserrors.ErrInvalidInput)
	}
	if in.StartTime == "" {
		in.StartTime = s.StartTime
	}
	if in.EndTime == "" {
		in.EndTime = s.EndTime
	}

	booked, err := slots.Add(s.Slots, s.MaxSlots, in, nextID)
	if err != nil {
		return model.Session{}, err
	}

	out := s.Clone()
	out.Slots = booked
	return out, nil
}

// CancelSlot frees a slot and drops any cost entered for it. Cancelling an
// unknown id returns the session unchanged.
func CancelSlot(s model.Session, id model.SlotID) model.Session {
	out := s.Clone()
	out.Slots = slots.Remove(s.Slots, id)
	if out.IndividualCosts != nil {
		delete(out.IndividualCosts, id)
	}
	return out
}

// Finalize records the court fee. A nil costs map splits total evenly over
// the booked slots; otherwise costs must name booked slots only and add up
// to total. Slots are left as they are. Finalizing a paid session again
// replaces the previous figures.
func Finalize(s model.Session, total float64, costs model.CostMap, at time.Time) (model.Session, model.SessionFinalizedEvent, error) {
	if StateOf(s) == StateDraft {
		return model.Session{}, model.SessionFinalizedEvent{}, notPersisted("finalize")
	}
	if !money.Finite(total) {
		return model.Session{}, model.SessionFinalizedEvent{}, apperrors.InvalidInput("total_amount must be a finite number").
			WithDetails(map[string]any{"field": "total_amount"}).
			WithCause(sessionserrors.ErrInvalidInput)
	}
	if total < 0 {
		return model.Session{}, model.SessionFinalizedEvent{}, apperrors.InvalidInput("total_amount must not be negative").
			WithDetails(map[string]any{"field": "total_amount"}).
			WithCause(sessionserrors.ErrInvalidInput)
	}

	out := s.Clone()
	var perPerson float64

	if costs == nil {
		out.IndividualCosts = allocation.EvenSplit(total, s.Slots)
		out.SplitMode = model.SplitEven
		perPerson = allocation.CostPerPerson(model.Session{Slots: s.Slots}, total)
	} else {
		if err := allocation.CheckKeys(costs, s.Slots); err != nil {
			return model.Session{}, model.SessionFinalizedEvent{}, err
		}
		if err := allocation.ValidateManual(costs, total); err != nil {
			return model.Session{}, model.SessionFinalizedEvent{}, err
		}
		out.IndividualCosts = costs.Clone()
		out.SplitMode = model.SplitManual
		perPerson = allocation.ManualPerPerson(costs, s.Slots)
	}

	finalizedAt := at.UTC()
	out.TotalAmount = total
	out.IsPaid = true
	out.CostPerPerson = &perPerson
	out.FinalizedAt = &finalizedAt

	return out, finalizedEvent(out), nil
}

func finalizedEvent(s model.Session) model.SessionFinalizedEvent {
	event := model.SessionFinalizedEvent{
		SessionID:   s.ID,
		Date:        s.Date,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Location:    s.LocationName(),
		AccountName: s.PaymentInfo.AccountName,
		AccountNo:   s.PaymentInfo.AccountNumber,
		BankName:    s.PaymentInfo.BankDisplayName(),
		TotalAmount: s.TotalAmount,
		SplitMode:   s.SplitMode,
		Notices:     []model.PaymentNotice{},
	}
	if s.FinalizedAt != nil {
		event.FinalizedAt = *s.FinalizedAt
	}

	for _, slot := range s.Slots {
		if slot.Email == "" {
			continue
		}
		amount, _ := allocation.AmountFor(s, slot.ID)
		event.Notices = append(event.Notices, model.PaymentNotice{
			SlotID:     slot.ID,
			PlayerName: slot.PlayerName,
			Email:      slot.Email,
			Phone:      slot.Phone,
			Amount:     amount,
		})
	}
	return event
}

// Deletion describes a session that is about to be removed from the store.
type Deletion struct {
	SessionID string
	Prior     State
	Slots     int
}

func Delete(s model.Session) (Deletion, error) {
	state := StateOf(s)
	if state == StateDraft {
		return Deletion{}, notPersisted("delete")
	}
	return Deletion{
		SessionID: s.ID,
		Prior:     state,
		Slots:     len(s.Slots),
	}, nil
}

// Partition splits sessions into those on or after today and those before
// it. today is a YYYY-MM-DD date; input order is kept in both lists.
func Partition(sessions []model.Session, today string) (upcoming, past []model.Session) {
	upcoming = []model.Session{}
	past = []model.Session{}
	for _, s := range sessions {
		if s.Date >= today {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return upcoming, past
}

func notPersisted(action string) error {
	return apperrors.InvalidInput(fmt.Sprintf("cannot %s a session that has not been saved", action)).
		WithCause(sessionserrors.ErrInvalidState)
}
