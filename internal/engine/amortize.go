package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

const (
	// MaxMonths bounds every simulation at 50 years.
	MaxMonths = 600
	// NonAmortizingMonths is reported when a payment never covers interest.
	NonAmortizingMonths = 999
)

// ErrUnknownConvention is returned by ParseConvention.
var ErrUnknownConvention = errors.New("unknown nominal convention")

// Convention selects how the nominal (no extra payment) run is measured.
type Convention string

const (
	// RunToZero simulates the nominal schedule until the balance is gone.
	RunToZero Convention = "zero"
	// RunToTerm trusts the loan's term for the nominal duration and only
	// accrues interest over that many months.
	RunToTerm Convention = "term"
)

// ParseConvention maps a config or flag value to a Convention. The empty
// string selects RunToZero.
func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case "", RunToZero:
		return RunToZero, nil
	case RunToTerm:
		return RunToTerm, nil
	}
	return "", fmt.Errorf("%w: %q (want zero or term)", ErrUnknownConvention, s)
}

// Nominal runs the loan with no extra payment under the convention.
func (c Convention) Nominal(loan model.Loan) model.AmortizationResult {
	if c != RunToTerm {
		return Simulate(loan, decimal.Zero)
	}
	res := SimulateToTerm(loan, decimal.Zero)
	if !res.NonAmortizing {
		res.Months = loan.TermMonths
		res.Capped = false
	}
	return res
}

// Simulate steps the loan month by month until the balance reaches zero,
// the payment stops covering interest, or MaxMonths elapse.
func Simulate(loan model.Loan, extra decimal.Decimal) model.AmortizationResult {
	return simulate(loan, extra, MaxMonths, nil)
}

// SimulateToTerm is Simulate additionally stopped after loan.TermMonths.
func SimulateToTerm(loan model.Loan, extra decimal.Decimal) model.AmortizationResult {
	limit := loan.TermMonths
	if limit <= 0 || limit > MaxMonths {
		limit = MaxMonths
	}
	return simulate(loan, extra, limit, nil)
}

// Schedule returns the month-by-month table of a Simulate run, or nil
// for a loan that never amortizes.
func Schedule(loan model.Loan, extra decimal.Decimal) []model.ScheduleRow {
	var rows []model.ScheduleRow
	res := simulate(loan, extra, MaxMonths, func(r model.ScheduleRow) {
		rows = append(rows, r)
	})
	if res.NonAmortizing {
		return nil
	}
	return rows
}

func simulate(loan model.Loan, extra decimal.Decimal, limit int, emit func(model.ScheduleRow)) model.AmortizationResult {
	rate := money.MonthlyRate(loan.AnnualRatePercent)
	payment := loan.MonthlyPayment.Add(money.NonNegative(extra))
	balance := loan.Principal

	res := model.AmortizationResult{TotalInterest: decimal.Zero}
	for balance.IsPositive() && res.Months < limit {
		accrued := balance.Mul(rate)
		interest := money.RoundMinor(accrued)
		principal := payment.Sub(interest)
		// compare against the exact accrual; rounding must not hide a payment that never covers it
		if payment.LessThanOrEqual(accrued) || !principal.IsPositive() {
			return model.AmortizationResult{
				Months:        NonAmortizingMonths,
				TotalInterest: res.TotalInterest,
				NonAmortizing: true,
			}
		}
		// final month pays only what is left
		if principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)
		res.TotalInterest = res.TotalInterest.Add(interest)
		res.Months++

		if emit != nil {
			emit(model.ScheduleRow{
				Month:     res.Months,
				Payment:   interest.Add(principal),
				Interest:  interest,
				Principal: principal,
				Balance:   balance,
			})
		}
	}
	res.Capped = balance.IsPositive() && res.Months >= MaxMonths
	return res
}
