package model

import "github.com/shopspring/decimal"

// BudgetSplit is the 70/20/10 division of residual income. Buckets are
// rounded independently and may not sum exactly to the residual.
type BudgetSplit struct {
	Living          decimal.Decimal `json:"living"`
	AcceleratorPool decimal.Decimal `json:"accelerator_pool"`
	Capital         decimal.Decimal `json:"capital"`
}

// Total sums the three buckets.
func (s BudgetSplit) Total() decimal.Decimal {
	return s.Living.Add(s.AcceleratorPool).Add(s.Capital)
}

// Deficit reports that income does not cover obligations.
type Deficit struct {
	Shortfall decimal.Decimal `json:"shortfall"`
}

// Allocation is the outcome of splitting one month of income.
// Exactly one of Split (non-zero) and Deficit (non-nil) is meaningful.
type Allocation struct {
	Residual decimal.Decimal `json:"residual"`
	Split    BudgetSplit     `json:"split"`
	Deficit  *Deficit        `json:"deficit,omitempty"`
}

// IsDeficit reports whether the residual was not positive.
func (a Allocation) IsDeficit() bool {
	return a.Deficit != nil
}

// AmortizationResult is one simulated payoff run.
type AmortizationResult struct {
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	// NonAmortizing is set when the payment never exceeded the accrued
	// interest; Months then holds the 999 sentinel.
	NonAmortizing bool `json:"non_amortizing,omitempty"`
	// Capped is set when the 600-month bound stopped a converging run.
	Capped bool `json:"capped,omitempty"`
}

// ScheduleRow is one month of an amortization table.
type ScheduleRow struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// LoanAcceleration compares a loan's nominal and accelerated payoff.
type LoanAcceleration struct {
	Loan                Loan            `json:"loan"`
	NominalMonths       int             `json:"nominal_months"`
	NominalInterest     decimal.Decimal `json:"nominal_interest"`
	AcceleratedMonths   int             `json:"accelerated_months"`
	AcceleratedInterest decimal.Decimal `json:"accelerated_interest"`
	MonthsSaved         int             `json:"months_saved"`
	InterestSaved       decimal.Decimal `json:"interest_saved"`
	ExtraPaymentApplied decimal.Decimal `json:"extra_payment_applied"`
	NonAmortizing       bool            `json:"non_amortizing,omitempty"`
	// NominalNonAmortizing is set when the scheduled payment alone never
	// covers the interest. NominalMonths then holds the 999 sentinel and
	// no savings are computed against it.
	NominalNonAmortizing bool `json:"nominal_non_amortizing,omitempty"`
}

// PortfolioTotals aggregates accelerations across all loans.
type PortfolioTotals struct {
	MonthsSaved           int             `json:"months_saved"`
	InterestSaved         decimal.Decimal `json:"interest_saved"`
	ExtraApplied          decimal.Decimal `json:"extra_applied"`
	NominalInterest       decimal.Decimal `json:"nominal_interest"`
	AcceleratedInterest   decimal.Decimal `json:"accelerated_interest"`
	DebtFreeMonths        int             `json:"debt_free_months"`
	NominalDebtFreeMonths int             `json:"nominal_debt_free_months"`
	NonAmortizing         int             `json:"non_amortizing"`
	NominalNonAmortizing  int             `json:"nominal_non_amortizing"`
}

// PlanMode classifies a household's situation.
type PlanMode string

const (
	ModeNegative PlanMode = "negative"
	ModeDebt     PlanMode = "debt"
	ModeWealth   PlanMode = "wealth"
)

// FreedomPlan is the multi-loan acceleration report.
type FreedomPlan struct {
	Household         string             `json:"household"`
	Currency          string             `json:"currency,omitempty"`
	Strategy          string             `json:"strategy"`
	Nominal           string             `json:"nominal"`
	Mode              PlanMode           `json:"mode"`
	Income            decimal.Decimal    `json:"income"`
	TotalExpenses     decimal.Decimal    `json:"total_expenses"`
	TotalLoanPayments decimal.Decimal    `json:"total_loan_payments"`
	Allocation        Allocation         `json:"allocation"`
	Loans             []LoanAcceleration `json:"loans"`
	Totals            PortfolioTotals    `json:"totals"`

	ExitMonths        int             `json:"exit_months"`
	NominalExitMonths int             `json:"nominal_exit_months"`
	ExitMonthsSaved   int             `json:"exit_months_saved"`
	ExitDate          string          `json:"exit_date,omitempty"` // YYYY-MM
	Savings12Months   decimal.Decimal `json:"savings_12_months"`
}

// DangerTier is the display label for a danger level.
type DangerTier string

const (
	TierAcceptable DangerTier = "acceptable"
	TierModerate   DangerTier = "moderate"
	TierHigh       DangerTier = "high"
	TierCritical   DangerTier = "critical"
)

// CreditImpact expresses a loan's interest cost in working time.
type CreditImpact struct {
	TotalPaid               decimal.Decimal `json:"total_paid"`
	TotalInterest           decimal.Decimal `json:"total_interest"`
	InterestRatio           decimal.Decimal `json:"interest_ratio"`
	InterestPercent         int64           `json:"interest_percent"`
	MonthsForInterest       decimal.Decimal `json:"months_for_interest"`
	WorkingDaysForInterest  decimal.Decimal `json:"working_days_for_interest"`
	WorkingHoursForInterest decimal.Decimal `json:"working_hours_for_interest"`
	DangerLevel             int             `json:"danger_level"`
	DangerTier              DangerTier      `json:"danger_tier"`
}

// ImpactReport is the single-loan impact view.
type ImpactReport struct {
	Loan    Loan               `json:"loan"`
	Income  decimal.Decimal    `json:"income"`
	Impact  CreditImpact       `json:"impact"`
	Nominal AmortizationResult `json:"nominal"`
}
