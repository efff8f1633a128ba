package lifecycle

import (
	"errors"
	"math"
	"testing"
	"time"

	"courtbook/internal/sessions/allocation"
	sessionserrors "courtbook/internal/sessions/errors"
	"courtbook/internal/sessions/slots"
	"courtbook/internal/sessions/validator"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var finalizedAt = time.Date(2026, 11, 7, 22, 0, 0, 0, time.UTC)

func newValidator() *validator.SessionValidator {
	return validator.NewSessionValidator(logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func sequence(start model.SlotID) slots.IDSource {
	next := start
	return func() model.SlotID {
		id := next
		next++
		return id
	}
}

func sessionInput() model.SessionInput {
	return model.SessionInput{
		Date:      "2026-11-07",
		StartTime: "19:00",
		EndTime:   "21:00",
		Courts:    2,
		MaxSlots:  4,
		Location:  model.VenueYennora,
		PaymentInfo: model.PaymentInfo{
			AccountName:   "  Jordan   Lee ",
			AccountNumber: "062-000 12345678",
			Bank:          model.BankWestpac,
			CustomBank:    "ignored",
		},
	}
}

func openSession(t *testing.T, maxSlots int) model.Session {
	t.Helper()
	in := sessionInput()
	in.MaxSlots = maxSlots
	s, err := Create(in, newValidator())
	require.NoError(t, err)
	s.ID = "6720f0c2a1b2c3d4e5f60718"
	return s
}

func book(t *testing.T, s model.Session, ids slots.IDSource, names ...string) model.Session {
	t.Helper()
	for _, name := range names {
		var err error
		s, err = BookSlot(s, model.SlotInput{PlayerName: name, Email: name + "@example.com"}, ids)
		require.NoError(t, err)
	}
	return s
}

func TestCreate(t *testing.T) {
	s, err := Create(sessionInput(), newValidator())

	require.NoError(t, err)
	assert.Equal(t, StateDraft, StateOf(s))
	assert.Empty(t, s.ID)
	assert.NotNil(t, s.Slots)
	assert.Empty(t, s.Slots)
	assert.Zero(t, s.TotalAmount)
	assert.False(t, s.IsPaid)
	assert.Equal(t, "Jordan Lee", s.PaymentInfo.AccountName)
	assert.Empty(t, s.PaymentInfo.CustomBank)
}

func TestCreate_FailsOnFirstInvalidField(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *model.SessionInput)
		wantField string
	}{
		{
			name:      "date reported before everything else",
			mutate:    func(in *model.SessionInput) { in.Date = ""; in.Courts = 0; in.PaymentInfo.Bank = "" },
			wantField: "date",
		},
		{
			name:      "courts before location",
			mutate:    func(in *model.SessionInput) { in.Courts = 0; in.Location = "" },
			wantField: "courts",
		},
		{
			name:      "whitespace account name is missing",
			mutate:    func(in *model.SessionInput) { in.PaymentInfo.AccountName = "   " },
			wantField: "account_name",
		},
		{
			name:      "custom bank requires a name",
			mutate:    func(in *model.SessionInput) { in.PaymentInfo.Bank = model.BankCustom; in.PaymentInfo.CustomBank = " " },
			wantField: "custom_bank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sessionInput()
			tt.mutate(&in)

			_, err := Create(in, newValidator())

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
			assert.True(t, errors.Is(err, sessionserrors.ErrInvalidInput))
			assert.Equal(t, tt.wantField, apperrors.AsAppError(err).Details["field"])
		})
	}
}

func TestBookSlot_CapacityScenario(t *testing.T) {
	s := openSession(t, 2)
	ids := sequence(1)

	s = book(t, s, ids, "Alice", "Bob")
	require.Len(t, s.Slots, 2)
	assert.Equal(t, "Alice", s.Slots[0].PlayerName)
	assert.Equal(t, "Bob", s.Slots[1].PlayerName)

	_, err := BookSlot(s, model.SlotInput{PlayerName: "Carol"}, ids)

	require.Error(t, err)
	assert.True(t, errors.Is(err, sessionserrors.ErrCapacityExceeded))
	assert.Len(t, s.Slots, 2)
	assert.Equal(t, StateOpen, StateOf(s))
}

func TestBookSlot_NeverExceedsMaxSlots(t *testing.T) {
	for maxSlots := 1; maxSlots <= 5; maxSlots++ {
		s := openSession(t, maxSlots)
		ids := sequence(1)
		for i := 0; i < maxSlots*2; i++ {
			next, err := BookSlot(s, model.SlotInput{PlayerName: "p"}, ids)
			if err != nil {
				assert.True(t, apperrors.HasCode(err, apperrors.CodeCapacityExceeded))
				continue
			}
			s = next
		}
		assert.Len(t, s.Slots, maxSlots)
	}
}

func TestBookSlot_NormalizesAndDefaultsTimes(t *testing.T) {
	s := openSession(t, 4)

	s, err := BookSlot(s, model.SlotInput{
		PlayerName: "  Alice   Ng ",
		Email:      " Alice@Example.com",
		Phone:      "0412 345 678",
	}, sequence(7))

	require.NoError(t, err)
	slot := s.Slots[0]
	assert.Equal(t, model.SlotID(7), slot.ID)
	assert.Equal(t, "Alice Ng", slot.PlayerName)
	assert.Equal(t, "alice@example.com", slot.Email)
	assert.Equal(t, "+61412345678", slot.Phone)
	assert.Equal(t, "19:00", slot.StartTime)
	assert.Equal(t, "21:00", slot.EndTime)
}

func TestBookSlot_KeepsExplicitTimes(t *testing.T) {
	s := openSession(t, 4)

	s, err := BookSlot(s, model.SlotInput{PlayerName: "Bob", StartTime: "20:00"}, sequence(1))

	require.NoError(t, err)
	assert.Equal(t, "20:00", s.Slots[0].StartTime)
	assert.Equal(t, "21:00", s.Slots[0].EndTime)
}

func TestBookSlot_Rejections(t *testing.T) {
	draft, err := Create(sessionInput(), newValidator())
	require.NoError(t, err)

	_, err = BookSlot(draft, model.SlotInput{PlayerName: "Alice"}, sequence(1))
	assert.True(t, errors.Is(err, sessionserrors.ErrInvalidState))

	_, err = BookSlot(openSession(t, 4), model.SlotInput{PlayerName: "   "}, sequence(1))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestBookSlot_DoesNotModifyInput(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice")

	_, err := BookSlot(s, model.SlotInput{PlayerName: "Bob"}, sequence(2))

	require.NoError(t, err)
	assert.Len(t, s.Slots, 1)
}

func TestCancelSlot_Idempotent(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob", "Carol")

	once := CancelSlot(s, 2)
	twice := CancelSlot(once, 2)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"Alice", "Carol"}, playerNames(once))
	assert.Len(t, s.Slots, 3)
}

func TestCancelSlot_DropsOrphanedCost(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")
	s, _, err := Finalize(s, 20, model.CostMap{1: 12, 2: 8}, finalizedAt)
	require.NoError(t, err)

	s = CancelSlot(s, 2)

	_, ok := s.IndividualCosts[2]
	assert.False(t, ok)
	for id := range s.IndividualCosts {
		_, booked := slots.Find(s.Slots, id)
		assert.True(t, booked, "cost entry %d has no slot", id)
	}
}

func TestFinalize_EvenSplit(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob", "Carol", "Dan")

	final, event, err := Finalize(s, 20, nil, finalizedAt)

	require.NoError(t, err)
	assert.Equal(t, StateFinalized, StateOf(final))
	assert.True(t, final.IsPaid)
	assert.Equal(t, 20.0, final.TotalAmount)
	assert.Equal(t, model.SplitEven, final.SplitMode)
	require.NotNil(t, final.CostPerPerson)
	assert.Equal(t, 5.0, *final.CostPerPerson)
	assert.Equal(t, 5.0, allocation.CostPerPerson(final, 0))
	assert.Len(t, final.IndividualCosts, 4)
	assert.Equal(t, s.Slots, final.Slots)
	require.NotNil(t, final.FinalizedAt)
	assert.Equal(t, finalizedAt, *final.FinalizedAt)

	require.Len(t, event.Notices, 4)
	for _, n := range event.Notices {
		assert.Equal(t, 5.0, n.Amount)
	}
	assert.Equal(t, "Badminton Worx Yennora", event.Location)
	assert.Equal(t, "Westpac", event.BankName)
}

func TestFinalize_ManualSplit(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")

	final, event, err := Finalize(s, 20, model.CostMap{1: 12, 2: 8}, finalizedAt)

	require.NoError(t, err)
	assert.Equal(t, model.SplitManual, final.SplitMode)
	assert.Equal(t, model.CostMap{1: 12, 2: 8}, final.IndividualCosts)
	require.NotNil(t, final.CostPerPerson)
	assert.Equal(t, 10.0, *final.CostPerPerson)
	require.Len(t, event.Notices, 2)
	assert.Equal(t, 12.0, event.Notices[0].Amount)
	assert.Equal(t, 8.0, event.Notices[1].Amount)
}

func TestFinalize_ManualSpreadsOverAllBookedSlots(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob", "Carol")

	final, event, err := Finalize(s, 30, model.CostMap{1: 30}, finalizedAt)

	require.NoError(t, err)
	require.NotNil(t, final.CostPerPerson)
	assert.Equal(t, 10.0, *final.CostPerPerson)
	assert.Equal(t, model.CostMap{1: 30}, final.IndividualCosts)
	require.Len(t, event.Notices, 3)
	assert.Equal(t, 30.0, event.Notices[0].Amount)
	assert.Equal(t, 0.0, event.Notices[1].Amount)
}

func TestFinalize_RejectsNonFiniteAmounts(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")

	_, _, err := Finalize(s, math.NaN(), nil, finalizedAt)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, _, err = Finalize(s, math.Inf(1), nil, finalizedAt)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, _, err = Finalize(s, 20, model.CostMap{1: 1e308, 2: 1e308}, finalizedAt)
	assert.True(t, errors.Is(err, sessionserrors.ErrInvalidInput))
	assert.False(t, s.IsPaid)
}

func TestFinalize_ManualMismatch(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")

	_, _, err := Finalize(s, 20, model.CostMap{1: 12, 2: 7}, finalizedAt)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAllocationMismatch))
	assert.False(t, s.IsPaid)
}

func TestFinalize_ManualToleranceBoundary(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")

	_, _, err := Finalize(s, 20, model.CostMap{1: 12, 2: 8.0099}, finalizedAt)
	assert.NoError(t, err)

	_, _, err = Finalize(s, 20, model.CostMap{1: 12, 2: 8.01}, finalizedAt)
	assert.True(t, errors.Is(err, sessionserrors.ErrAllocationMismatch))
}

func TestFinalize_RejectsUnknownSlot(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice")

	_, _, err := Finalize(s, 20, model.CostMap{1: 10, 99: 10}, finalizedAt)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeAllocationMismatch))
}

func TestFinalize_DoesNotAliasCosts(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")
	costs := model.CostMap{1: 12, 2: 8}

	final, _, err := Finalize(s, 20, costs, finalizedAt)
	require.NoError(t, err)
	costs[1] = 100

	assert.Equal(t, 12.0, final.IndividualCosts[1])
}

func TestFinalize_Rejections(t *testing.T) {
	draft, err := Create(sessionInput(), newValidator())
	require.NoError(t, err)
	_, _, err = Finalize(draft, 20, nil, finalizedAt)
	assert.True(t, errors.Is(err, sessionserrors.ErrInvalidState))

	_, _, err = Finalize(openSession(t, 4), -1, nil, finalizedAt)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestFinalize_NoticesSkipSlotsWithoutEmail(t *testing.T) {
	s := openSession(t, 4)
	ids := sequence(1)
	s, err := BookSlot(s, model.SlotInput{PlayerName: "Alice", Email: "alice@example.com"}, ids)
	require.NoError(t, err)
	s, err = BookSlot(s, model.SlotInput{PlayerName: "Bob"}, ids)
	require.NoError(t, err)

	_, event, err := Finalize(s, 30, nil, finalizedAt)

	require.NoError(t, err)
	require.Len(t, event.Notices, 1)
	assert.Equal(t, "Alice", event.Notices[0].PlayerName)
	assert.Equal(t, 15.0, event.Notices[0].Amount)
}

func TestFinalize_NoSlots(t *testing.T) {
	final, event, err := Finalize(openSession(t, 4), 40, nil, finalizedAt)

	require.NoError(t, err)
	assert.Equal(t, 0.0, *final.CostPerPerson)
	assert.Empty(t, final.IndividualCosts)
	assert.Empty(t, event.Notices)
}

func TestFinalize_AgainReplacesFigures(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice", "Bob")
	s, _, err := Finalize(s, 20, nil, finalizedAt)
	require.NoError(t, err)

	s, _, err = Finalize(s, 30, model.CostMap{1: 20, 2: 10}, finalizedAt.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 30.0, s.TotalAmount)
	assert.Equal(t, model.SplitManual, s.SplitMode)
	assert.Equal(t, 15.0, *s.CostPerPerson)
}

func TestBookSlot_AfterFinalizeKeepsState(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice")
	s, _, err := Finalize(s, 10, nil, finalizedAt)
	require.NoError(t, err)

	s, err = BookSlot(s, model.SlotInput{PlayerName: "Bob"}, sequence(2))

	require.NoError(t, err)
	assert.Equal(t, StateFinalized, StateOf(s))
	assert.Equal(t, 10.0, *s.CostPerPerson)
}

func TestDelete(t *testing.T) {
	s := book(t, openSession(t, 4), sequence(1), "Alice")

	d, err := Delete(s)
	require.NoError(t, err)
	assert.Equal(t, s.ID, d.SessionID)
	assert.Equal(t, StateOpen, d.Prior)
	assert.Equal(t, 1, d.Slots)

	final, _, err := Finalize(s, 10, nil, finalizedAt)
	require.NoError(t, err)
	d, err = Delete(final)
	require.NoError(t, err)
	assert.Equal(t, StateFinalized, d.Prior)

	draft, err := Create(sessionInput(), newValidator())
	require.NoError(t, err)
	_, err = Delete(draft)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestPartition(t *testing.T) {
	sessions := []model.Session{
		{ID: "a", Date: "2026-10-01"},
		{ID: "b", Date: "2026-10-17"},
		{ID: "c", Date: "2026-10-16"},
		{ID: "d", Date: "2026-12-24"},
	}

	upcoming, past := Partition(sessions, "2026-10-17")

	assert.Equal(t, []string{"b", "d"}, ids(upcoming))
	assert.Equal(t, []string{"a", "c"}, ids(past))

	upcoming, past = Partition(nil, "2026-10-17")
	assert.NotNil(t, upcoming)
	assert.NotNil(t, past)
}

func playerNames(s model.Session) []string {
	out := make([]string, 0, len(s.Slots))
	for _, slot := range s.Slots {
		out = append(out, slot.PlayerName)
	}
	return out
}

func ids(sessions []model.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}
