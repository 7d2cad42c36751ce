package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

// ErrUnknownStrategy is returned by StrategyByName.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy divides the accelerator pool into one extra payment per loan.
// The returned slice is parallel to loans.
type Strategy func(loans []model.Loan, pool decimal.Decimal) []decimal.Decimal

// Strategy names accepted by StrategyByName.
const (
	StrategyEqual     = "equal"
	StrategyAvalanche = "avalanche"
	StrategySnowball  = "snowball"
)

var strategies = map[string]Strategy{
	StrategyEqual:     EqualSplit,
	StrategyAvalanche: Avalanche,
	StrategySnowball:  Snowball,
}

// StrategyNames lists the built-in strategies, default first.
func StrategyNames() []string {
	return []string{StrategyEqual, StrategyAvalanche, StrategySnowball}
}

// StrategyByName resolves a strategy; "" selects EqualSplit.
func StrategyByName(name string) (Strategy, error) {
	if name == "" {
		return EqualSplit, nil
	}
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// EqualSplit gives every loan pool/count regardless of balance or rate.
// Shares are truncated to minor units so they never exceed the pool.
func EqualSplit(loans []model.Loan, pool decimal.Decimal) []decimal.Decimal {
	shares := zeroShares(len(loans))
	if len(loans) == 0 {
		return shares
	}
	share := money.NonNegative(pool).
		Div(decimal.NewFromInt(int64(len(loans)))).
		Truncate(money.MinorUnits)
	for i := range shares {
		shares[i] = share
	}
	return shares
}

// Avalanche sends the whole pool to the highest-rate loan.
func Avalanche(loans []model.Loan, pool decimal.Decimal) []decimal.Decimal {
	return concentrate(loans, pool, func(a, b model.Loan) bool {
		return a.AnnualRatePercent.GreaterThan(b.AnnualRatePercent)
	})
}

// Snowball sends the whole pool to the smallest loan.
func Snowball(loans []model.Loan, pool decimal.Decimal) []decimal.Decimal {
	return concentrate(loans, pool, func(a, b model.Loan) bool {
		return a.Principal.LessThan(b.Principal)
	})
}

// concentrate gives the pool to the loan that wins better; ties keep the
// earlier loan.
func concentrate(loans []model.Loan, pool decimal.Decimal, better func(a, b model.Loan) bool) []decimal.Decimal {
	shares := zeroShares(len(loans))
	if len(loans) == 0 {
		return shares
	}
	target := 0
	for i := 1; i < len(loans); i++ {
		if better(loans[i], loans[target]) {
			target = i
		}
	}
	shares[target] = money.NonNegative(pool)
	return shares
}

func zeroShares(n int) []decimal.Decimal {
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = decimal.Zero
	}
	return shares
}

// Accelerate distributes pool with strategy and compares each loan's
// nominal and accelerated payoff. A nil strategy means EqualSplit.
func Accelerate(loans []model.Loan, pool decimal.Decimal, strategy Strategy, conv Convention) []model.LoanAcceleration {
	if strategy == nil {
		strategy = EqualSplit
	}
	shares := strategy(loans, pool)

	out := make([]model.LoanAcceleration, 0, len(loans))
	for i, loan := range loans {
		extra := decimal.Zero
		if i < len(shares) {
			extra = money.NonNegative(shares[i])
		}
		nominal := conv.Nominal(loan)
		accel := Simulate(loan, extra)

		la := model.LoanAcceleration{
			Loan:                 loan,
			NominalMonths:        nominal.Months,
			NominalInterest:      nominal.TotalInterest,
			AcceleratedMonths:    accel.Months,
			AcceleratedInterest:  accel.TotalInterest,
			InterestSaved:        decimal.Zero,
			ExtraPaymentApplied:  extra,
			NonAmortizing:        accel.NonAmortizing,
			NominalNonAmortizing: nominal.NonAmortizing,
		}
		// the sentinel is not a duration, so nothing is saved against it
		if !nominal.NonAmortizing && !accel.NonAmortizing {
			la.MonthsSaved = max(0, nominal.Months-accel.Months)
			la.InterestSaved = money.NonNegative(nominal.TotalInterest.Sub(accel.TotalInterest))
		}
		out = append(out, la)
	}
	return out
}

// Summarize totals a portfolio of accelerations.
func Summarize(accels []model.LoanAcceleration) model.PortfolioTotals {
	t := model.PortfolioTotals{
		InterestSaved:       decimal.Zero,
		ExtraApplied:        decimal.Zero,
		NominalInterest:     decimal.Zero,
		AcceleratedInterest: decimal.Zero,
	}
	for _, a := range accels {
		t.MonthsSaved += a.MonthsSaved
		t.InterestSaved = t.InterestSaved.Add(a.InterestSaved)
		t.ExtraApplied = t.ExtraApplied.Add(a.ExtraPaymentApplied)
		t.NominalInterest = t.NominalInterest.Add(a.NominalInterest)
		t.AcceleratedInterest = t.AcceleratedInterest.Add(a.AcceleratedInterest)
		if a.NonAmortizing {
			t.NonAmortizing++
		}
		if a.AcceleratedMonths > t.DebtFreeMonths {
			t.DebtFreeMonths = a.AcceleratedMonths
		}
		if a.NominalNonAmortizing {
			t.NominalNonAmortizing++
		} else if a.NominalMonths > t.NominalDebtFreeMonths {
			t.NominalDebtFreeMonths = a.NominalMonths
		}
	}
	return t
}
