// Package allocation computes how a session's total fee is shared between
// its booked slots, either evenly or from organizer-entered amounts.
package allocation

import (
	"fmt"
	"math"
	"sort"

	sessionserrors "courtbook/internal/sessions/errors"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
	"courtbook/pkg/money"

	"github.com/shopspring/decimal"
)

// Summary is the running read-out shown while a manual split is edited.
type Summary struct {
	Sum     float64 `json:"sum"`
	Total   float64 `json:"total"`
	Delta   float64 `json:"delta"`
	Matches bool    `json:"matches"`
}

// Over reports whether the entered amounts exceed the total.
func (s Summary) Over() bool {
	return s.Delta > 0
}

// EvenSplit assigns total/len(slots) to every slot. No slots gives an empty map.
func EvenSplit(total float64, slots []model.Slot) model.CostMap {
	share := money.SplitEvenly(total, len(slots))
	costs := make(model.CostMap, len(slots))
	for _, s := range slots {
		costs[s.ID] = share
	}
	return costs
}

// CheckAmounts fails with InvalidInput when total or any cost is NaN or
// infinite, or when the costs or their distance from total go past what a
// float64 can hold.
func CheckAmounts(costs model.CostMap, total float64) error {
	if !money.Finite(total) {
		return invalidAmount("total_amount must be a finite number", "total_amount")
	}
	if !money.Finite(costs.Values()...) {
		return invalidAmount("individual costs must be finite numbers", "individual_costs")
	}
	sum := money.Total(costs.Values())
	if !money.Representable(sum) || !money.Representable(sum.Sub(decimal.NewFromFloat(total))) {
		return invalidAmount("individual costs add up to more than can be represented", "individual_costs")
	}
	return nil
}

func invalidAmount(message, field string) error {
	return apperrors.InvalidInput(message).
		WithDetails(map[string]any{"field": field}).
		WithCause(sessionserrors.ErrInvalidInput)
}

// ValidateManual fails with AllocationMismatch unless the amounts add up to
// total within money.Tolerance. Callers run it on every edit.
func ValidateManual(costs model.CostMap, total float64) error {
	if err := CheckAmounts(costs, total); err != nil {
		return err
	}
	summary := Summarize(costs, total)
	if summary.Matches {
		return nil
	}

	direction := "under"
	if summary.Over() {
		direction = "over"
	}
	return apperrors.AllocationMismatch(
		fmt.Sprintf("individual costs must add up to the total amount: %s by %.2f", direction, math.Abs(summary.Delta)),
		map[string]any{
			"sum":   summary.Sum,
			"total": total,
			"delta": summary.Delta,
		},
	).WithCause(sessionserrors.ErrAllocationMismatch)
}

// Summarize compares the entered amounts with total in decimal. Run
// CheckAmounts first; non-finite input is not accepted here.
func Summarize(costs model.CostMap, total float64) Summary {
	sum := money.Total(costs.Values())
	return Summary{
		Sum:     sum.InexactFloat64(),
		Total:   total,
		Delta:   money.Delta(sum, total),
		Matches: money.SumsMatch(sum, total),
	}
}

// CheckKeys rejects cost entries for slots that are not booked in slots.
func CheckKeys(costs model.CostMap, slots []model.Slot) error {
	booked := make(map[model.SlotID]struct{}, len(slots))
	for _, s := range slots {
		booked[s.ID] = struct{}{}
	}

	var unknown []int64
	for id := range costs {
		if _, ok := booked[id]; !ok {
			unknown = append(unknown, int64(id))
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return apperrors.AllocationMismatch(
		"individual costs reference slots that are not booked",
		map[string]any{"unknown_slot_ids": unknown},
	).WithCause(sessionserrors.ErrAllocationMismatch)
}

// CostPerPerson returns the committed per-person figure for a paid session,
// and a live even-split preview of liveTotal for an unpaid one.
func CostPerPerson(s model.Session, liveTotal float64) float64 {
	if s.IsPaid {
		if s.CostPerPerson != nil {
			return *s.CostPerPerson
		}
		return money.Mean(s.IndividualCosts.Values())
	}
	return money.SplitEvenly(liveTotal, len(s.Slots))
}

// ManualPerPerson is the figure committed by a manual finalize: the entered
// costs spread over every booked slot, including slots left out of the
// split. No slots gives 0.
func ManualPerPerson(costs model.CostMap, slots []model.Slot) float64 {
	return money.SplitEvenly(money.Sum(costs.Values()), len(slots))
}

// AmountFor returns what the given slot owes on a finalized session.
func AmountFor(s model.Session, id model.SlotID) (float64, bool) {
	if amount, ok := s.IndividualCosts[id]; ok {
		return amount, true
	}
	if s.SplitMode == model.SplitEven && s.CostPerPerson != nil {
		return *s.CostPerPerson, true
	}
	return 0, false
}
