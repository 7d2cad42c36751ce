package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

// WarningPercent is the share of the living budget that triggers a warning.
const WarningPercent = 80

// TrackBudget measures this month's expenses against the living budget.
// Transactions outside the month of now are ignored.
func TrackBudget(living decimal.Decimal, txns []model.Transaction, now time.Time) model.BudgetStatus {
	year, month := now.Year(), now.Month()

	spent := decimal.Zero
	byCat := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		if tx.Kind != model.TxExpense {
			continue
		}
		local := tx.Date.In(now.Location())
		if local.Year() != year || local.Month() != month {
			continue
		}
		spent = spent.Add(tx.Amount)
		cat := tx.Category
		if cat == "" {
			cat = "other"
		}
		byCat[cat] = byCat[cat].Add(tx.Amount)
	}

	remaining := living.Sub(spent)

	var pct int64
	switch {
	case living.IsPositive():
		pct = money.Round(money.Percent(spent, living)).IntPart()
		if pct > 100 {
			pct = 100
		}
	case spent.IsPositive():
		pct = 100
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysLeft := daysInMonth - now.Day() + 1

	status := model.BudgetStatus{
		Month:          now.Format("2006-01"),
		Budget:         living,
		Spent:          spent,
		Remaining:      remaining,
		Percent:        pct,
		Warning:        pct >= WarningPercent,
		Over:           remaining.IsNegative(),
		DaysLeft:       daysLeft,
		DailyAllowance: money.Round(money.NonNegative(remaining).Div(decimal.NewFromInt(int64(daysLeft)))),
	}

	for cat, amt := range byCat {
		status.ByCategory = append(status.ByCategory, model.CategorySpend{Category: cat, Amount: amt})
	}
	sort.Slice(status.ByCategory, func(i, j int) bool {
		a, b := status.ByCategory[i], status.ByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})
	return status
}
