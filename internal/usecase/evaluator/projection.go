package evaluator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// Decimal places kept while compounding
const growthPrecision = 28

// ProgressPercent returns currentAmount / goalAmount * 100 rounded half-even to one decimal place.
// Returns domain.ErrDivisionByZero when goalAmount is zero.
func ProgressPercent(currentAmount, goalAmount decimal.Decimal) (decimal.Decimal, error) {
	if goalAmount.IsZero() {
		return decimal.Zero, domain.ErrDivisionByZero
	}
	return currentAmount.Div(goalAmount).Mul(hundred).RoundBank(1), nil
}

// ClassifyChange compares the current value against the previously recorded one.
// Equal values are always classified as same.
func ClassifyChange(currentAmount, lastMonthAmount decimal.Decimal) domain.ProgressChange {
	switch {
	case currentAmount.GreaterThan(lastMonthAmount):
		return domain.ProgressIncreased
	case currentAmount.LessThan(lastMonthAmount):
		return domain.ProgressDecreased
	default:
		return domain.ProgressSame
	}
}

// FutureValue projects the value of a goal after the given number of monthly periods.
// Logic:
//   - r = annualRate / 12
//   - r == 0: current + contribution * periods
//   - otherwise: current * (1+r)^periods + contribution * ((1+r)^periods - 1) / r
//
// Zero periods always yields current. Negative contributions (withdrawals) and negative
// rates are accepted as-is.
func FutureValue(currentAmount, monthlyContribution decimal.Decimal, periods int, annualRate decimal.Decimal) decimal.Decimal {
	if periods <= 0 {
		return currentAmount
	}

	r := annualRate.Div(monthsPerYear)
	if r.IsZero() {
		return currentAmount.Add(monthlyContribution.Mul(decimal.NewFromInt(int64(periods))))
	}

	growth := compound(one.Add(r), periods)
	return currentAmount.Mul(growth).Add(monthlyContribution.Mul(growth.Sub(one).Div(r)))
}

// compound returns base^periods by squaring. Intermediate products are rounded to
// growthPrecision places so the fraction does not grow with periods.
func compound(base decimal.Decimal, periods int) decimal.Decimal {
	result := one
	for periods > 0 {
		if periods&1 == 1 {
			result = result.Mul(base).RoundBank(growthPrecision)
		}
		periods >>= 1
		if periods > 0 {
			base = base.Mul(base).RoundBank(growthPrecision)
		}
	}
	return result
}

// IsOnTrack reports whether the projected future value meets or exceeds the goal amount
func IsOnTrack(currentAmount, monthlyContribution decimal.Decimal, periods int, annualRate, goalAmount decimal.Decimal) bool {
	return FutureValue(currentAmount, monthlyContribution, periods, annualRate).GreaterThanOrEqual(goalAmount)
}
