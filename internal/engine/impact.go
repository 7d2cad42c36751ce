package engine

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

// Working-time conventions: 22 eight-hour days a month.
const (
	WorkingDaysPerMonth  = 22
	WorkingHoursPerMonth = 176
)

// PaymentShareBump is added to the danger level when the payment takes
// more than half of income.
const PaymentShareBump = 20

var paymentShareLimit = decimal.RequireFromString("0.5")

// dangerLadder maps interest-to-principal percent to a base level. The
// first row whose floor the percent exceeds wins; below all rows is 15.
var dangerLadder = []struct {
	above int64
	level int
}{
	{100, 95},
	{70, 80},
	{50, 65},
	{30, 45},
	{15, 30},
}

const baseDanger = 15

// Score converts a loan's interest cost into income-equivalent working
// time and a 0-100 danger level.
func Score(loan model.Loan, monthlyIncome decimal.Decimal) model.CreditImpact {
	totalPaid := loan.MonthlyPayment.Mul(decimal.NewFromInt(int64(loan.TermMonths)))
	totalInterest := totalPaid.Sub(loan.Principal)

	ratio := decimal.Zero
	if !loan.Principal.IsZero() {
		ratio = totalInterest.Div(loan.Principal)
	}
	months := decimal.Zero
	if monthlyIncome.IsPositive() {
		months = totalInterest.Div(monthlyIncome)
	}

	level := baseLevel(ratio.Mul(decimal.NewFromInt(100)))
	if monthlyIncome.IsPositive() && loan.MonthlyPayment.Div(monthlyIncome).GreaterThan(paymentShareLimit) {
		level += PaymentShareBump
	}
	if level > 100 {
		level = 100
	}

	return model.CreditImpact{
		TotalPaid:               totalPaid,
		TotalInterest:           totalInterest,
		InterestRatio:           ratio,
		InterestPercent:         money.Round(ratio.Mul(decimal.NewFromInt(100))).IntPart(),
		MonthsForInterest:       money.RoundMinor(months),
		WorkingDaysForInterest:  money.RoundMinor(months.Mul(decimal.NewFromInt(WorkingDaysPerMonth))),
		WorkingHoursForInterest: money.RoundMinor(months.Mul(decimal.NewFromInt(WorkingHoursPerMonth))),
		DangerLevel:             level,
		DangerTier:              TierFor(level),
	}
}

func baseLevel(percent decimal.Decimal) int {
	for _, step := range dangerLadder {
		if percent.GreaterThan(decimal.NewFromInt(step.above)) {
			return step.level
		}
	}
	return baseDanger
}

// TierFor labels a danger level.
func TierFor(level int) model.DangerTier {
	switch {
	case level >= 75:
		return model.TierCritical
	case level >= 50:
		return model.TierHigh
	case level >= 30:
		return model.TierModerate
	default:
		return model.TierAcceptable
	}
}
