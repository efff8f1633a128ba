// Package money holds the decimal helpers used to split a court fee across
// participants. Amounts cross the API as float64; sums and comparisons are
// done in decimal so a split like 3.33+3.33+3.34 adds up to exactly 10.
// Nothing here rounds unless asked to; display rounding is left to callers.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute difference under which two amounts are treated
// as equal when checking a manual split against its total.
const Tolerance = 0.01

var (
	tolerance = decimal.NewFromFloat(Tolerance)
	maxFloat  = decimal.NewFromFloat(math.MaxFloat64)
)

// SplitEvenly returns total/count, or 0 when count is not positive.
func SplitEvenly(total float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total / float64(count)
}

// Finite reports whether every amount is neither NaN nor infinite.
func Finite(amounts ...float64) bool {
	for _, a := range amounts {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return false
		}
	}
	return true
}

// Total adds amounts in decimal. Amounts must be finite.
func Total(amounts []float64) decimal.Decimal {
	s := decimal.Zero
	for _, a := range amounts {
		s = s.Add(decimal.NewFromFloat(a))
	}
	return s
}

func Sum(amounts []float64) float64 {
	return Total(amounts).InexactFloat64()
}

// Mean returns the arithmetic mean of amounts, 0 for an empty slice.
func Mean(amounts []float64) float64 {
	return SplitEvenly(Sum(amounts), len(amounts))
}

// Representable reports whether d fits in a float64 without overflowing.
func Representable(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(maxFloat)
}

// SumsMatch reports whether sum is within Tolerance of total.
func SumsMatch(sum decimal.Decimal, total float64) bool {
	return sum.Sub(decimal.NewFromFloat(total)).Abs().LessThan(tolerance)
}

// Delta returns sum-total. Positive means the split is over the total,
// negative means it is under.
func Delta(sum decimal.Decimal, total float64) float64 {
	return sum.Sub(decimal.NewFromFloat(total)).InexactFloat64()
}

// Round2 rounds half away from zero to two decimal places for display.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
