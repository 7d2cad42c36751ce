package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxKind distinguishes money in from money out.
type TxKind string

const (
	TxIncome  TxKind = "income"
	TxExpense TxKind = "expense"
)

// Transaction is one ledger entry.
type Transaction struct {
	Date     time.Time       `json:"date"`
	Kind     TxKind          `json:"kind"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// BudgetStatus tracks spending against the living bucket for one month.
type BudgetStatus struct {
	Month          string          `json:"month"` // YYYY-MM
	Budget         decimal.Decimal `json:"budget"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percent        int64           `json:"percent"`
	Warning        bool            `json:"warning"`
	Over           bool            `json:"over"`
	DaysLeft       int             `json:"days_left"`
	DailyAllowance decimal.Decimal `json:"daily_allowance"`
	ByCategory     []CategorySpend `json:"by_category"`
}

// CategorySpend is the month's spend in one category.
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
