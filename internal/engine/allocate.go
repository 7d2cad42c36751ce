// Package engine implements the pure planning calculations: the 70/20/10
// budget split, month-by-month amortization, extra-payment distribution
// across loans, and the credit impact score. Nothing here performs I/O or
// holds state between calls.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

// Residual shares. Each bucket is rounded on its own.
var (
	LivingShare      = decimal.RequireFromString("0.70")
	AcceleratorShare = decimal.RequireFromString("0.20")
	CapitalShare     = decimal.RequireFromString("0.10")
)

// Allocate splits what is left of income after obligations. A residual of
// zero or less yields a Deficit carrying the shortfall and a zero split.
func Allocate(income, mandatoryExpenses, loanPayments decimal.Decimal) model.Allocation {
	residual := income.Sub(mandatoryExpenses).Sub(loanPayments)
	if !residual.IsPositive() {
		return model.Allocation{
			Residual: residual,
			Deficit:  &model.Deficit{Shortfall: residual.Neg()},
		}
	}
	return model.Allocation{
		Residual: residual,
		Split: model.BudgetSplit{
			Living:          money.Round(residual.Mul(LivingShare)),
			AcceleratorPool: money.Round(residual.Mul(AcceleratorShare)),
			Capital:         money.Round(residual.Mul(CapitalShare)),
		},
	}
}

// AllocateHousehold totals a household's obligations and allocates.
func AllocateHousehold(h model.Household) model.Allocation {
	return Allocate(h.TotalIncome(), h.TotalExpenses(), h.TotalLoanPayments())
}
