// Package pipeline composes the engine into the reports the CLI, TUI and
// daemon show: the freedom plan, per-loan impact, the living-budget
// tracker, and batches of scenarios evaluated in parallel.
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

var monthsPerYear = decimal.NewFromInt(12)

// BuildFreedomPlan allocates the household's residual income, spreads the
// accelerator pool across its loans and summarizes the outcome.
func BuildFreedomPlan(h model.Household, opts Options) model.FreedomPlan {
	alloc := engine.AllocateHousehold(h)

	pool := alloc.Split.AcceleratorPool
	if alloc.IsDeficit() {
		pool = decimal.Zero
	}
	accels := engine.Accelerate(h.Loans, pool, opts.Strategy, opts.convention())
	totals := engine.Summarize(accels)

	plan := model.FreedomPlan{
		Household:         h.Name,
		Currency:          h.Currency,
		Strategy:          opts.strategyName(),
		Nominal:           string(opts.convention()),
		Income:            h.TotalIncome(),
		TotalExpenses:     h.TotalExpenses(),
		TotalLoanPayments: h.TotalLoanPayments(),
		Allocation:        alloc,
		Loans:             accels,
		Totals:            totals,
		ExitMonths:        totals.DebtFreeMonths,
		NominalExitMonths: totals.NominalDebtFreeMonths,
		Savings12Months:   decimal.Zero,
	}
	switch {
	case totals.NominalNonAmortizing > 0:
		plan.NominalExitMonths = engine.NonAmortizingMonths
	case totals.NonAmortizing == 0 && totals.NominalDebtFreeMonths > totals.DebtFreeMonths:
		plan.ExitMonthsSaved = totals.NominalDebtFreeMonths - totals.DebtFreeMonths
	}

	switch {
	case alloc.IsDeficit():
		plan.Mode = model.ModeNegative
	case len(h.Loans) > 0:
		plan.Mode = model.ModeDebt
		plan.Savings12Months = alloc.Split.Capital.Mul(monthsPerYear)
	default:
		plan.Mode = model.ModeWealth
		// with no loans to accelerate the pool is saved as well
		plan.Savings12Months = alloc.Split.Capital.Add(alloc.Split.AcceleratorPool).Mul(monthsPerYear)
	}

	if plan.Mode == model.ModeDebt && totals.NonAmortizing == 0 && totals.DebtFreeMonths < engine.MaxMonths {
		start := planStart(h, opts)
		plan.ExitDate = start.AddDate(0, plan.ExitMonths, 0).Format("2006-01")
	}
	return plan
}

func planStart(h model.Household, opts Options) time.Time {
	if !opts.Start.IsZero() {
		return monthStart(opts.Start)
	}
	if h.Start != "" {
		if t, err := ParseMonth(h.Start); err == nil {
			return t
		}
	}
	return monthStart(time.Now())
}

// BuildImpactReport scores one loan against the borrower's monthly income.
func BuildImpactReport(loan model.Loan, income decimal.Decimal) model.ImpactReport {
	return model.ImpactReport{
		Loan:    loan,
		Income:  income,
		Impact:  engine.Score(loan, income),
		Nominal: engine.Simulate(loan, decimal.Zero),
	}
}

// ImpactReports scores every loan of the household against its income.
func ImpactReports(h model.Household) []model.ImpactReport {
	income := h.TotalIncome()
	out := make([]model.ImpactReport, len(h.Loans))
	for i, l := range h.Loans {
		out[i] = BuildImpactReport(l, income)
	}
	return out
}

// LivingBudget returns the living bucket for the household, zero in deficit.
func LivingBudget(h model.Household) decimal.Decimal {
	return money.NonNegative(engine.AllocateHousehold(h).Split.Living)
}
