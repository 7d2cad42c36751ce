// Package model defines the household inputs and the computed report
// shapes shared by the engine, the CLI, the TUI and the daemon.
package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLoan is returned by Loan.Validate.
	ErrInvalidLoan = errors.New("invalid loan")
	// ErrInvalidHousehold is returned by Household.Validate.
	ErrInvalidHousehold = errors.New("invalid household")
)

// Income is the monthly take-home of the household.
type Income struct {
	Self    decimal.Decimal `toml:"self" json:"self"`
	Partner decimal.Decimal `toml:"partner" json:"partner"`
}

// Total sums both earners.
func (i Income) Total() decimal.Decimal {
	return i.Self.Add(i.Partner)
}

// MandatoryExpense is a named recurring non-loan obligation.
type MandatoryExpense struct {
	Name   string          `toml:"name" json:"name"`
	Amount decimal.Decimal `toml:"amount" json:"amount"`
	Icon   string          `toml:"icon,omitempty" json:"icon,omitempty"`
}

// Loan is an amortizing installment loan. Planning never writes back to it.
type Loan struct {
	Name              string          `toml:"name" json:"name"`
	Principal         decimal.Decimal `toml:"principal" json:"principal"`
	MonthlyPayment    decimal.Decimal `toml:"monthly_payment" json:"monthly_payment"`
	AnnualRatePercent decimal.Decimal `toml:"annual_rate" json:"annual_rate"`
	TermMonths        int             `toml:"term_months" json:"term_months"`
	StartDate         string          `toml:"start_date,omitempty" json:"start_date,omitempty"` // YYYY-MM
}

// Label returns the loan name, or a positional fallback.
func (l Loan) Label(i int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("Loan %d", i+1)
}

// Validate checks the field ranges loaders accept. The engine itself
// tolerates anything and reports degenerate loans through its results.
func (l Loan) Validate() error {
	switch {
	case !l.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive", ErrInvalidLoan)
	case !l.MonthlyPayment.IsPositive():
		return fmt.Errorf("%w: monthly payment must be positive", ErrInvalidLoan)
	case l.AnnualRatePercent.IsNegative():
		return fmt.Errorf("%w: annual rate cannot be negative", ErrInvalidLoan)
	case l.TermMonths <= 0:
		return fmt.Errorf("%w: term must be at least one month", ErrInvalidLoan)
	}
	return nil
}

// Household bundles everything a plan is computed from.
type Household struct {
	Name     string             `toml:"name" json:"name"`
	Currency string             `toml:"currency,omitempty" json:"currency,omitempty"`
	Start    string             `toml:"start,omitempty" json:"start,omitempty"` // YYYY-MM the plan starts in
	Income   Income             `toml:"income" json:"income"`
	Expenses []MandatoryExpense `toml:"expenses" json:"expenses"`
	Loans    []Loan             `toml:"loans" json:"loans"`
}

// TotalIncome is the combined monthly income.
func (h Household) TotalIncome() decimal.Decimal {
	return h.Income.Total()
}

// TotalExpenses sums mandatory expenses.
func (h Household) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range h.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalLoanPayments sums scheduled monthly loan payments.
func (h Household) TotalLoanPayments() decimal.Decimal {
	total := decimal.Zero
	for _, l := range h.Loans {
		total = total.Add(l.MonthlyPayment)
	}
	return total
}

// Validate checks income, expenses and every loan.
func (h Household) Validate() error {
	if h.Income.Self.IsNegative() || h.Income.Partner.IsNegative() {
		return fmt.Errorf("%w: income cannot be negative", ErrInvalidHousehold)
	}
	for _, e := range h.Expenses {
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: expense %q is negative", ErrInvalidHousehold, e.Name)
		}
	}
	for i, l := range h.Loans {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%s: %w", l.Label(i), err)
		}
	}
	return nil
}
