package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	plan := a.snap.Plan
	cur := plan.Currency

	var b strings.Builder

	// Row 1: headline figures
	exit := "n/a"
	if plan.ExitDate != "" {
		exit = plan.ExitDate
	}
	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatCompact(plan.Income), Delta: cur + "/month"},
		{Label: "Residual", Value: cli.FormatCompact(plan.Allocation.Residual), Delta: string(plan.Mode) + " mode"},
		{Label: "Debt-free", Value: exit, Delta: cli.FormatMonths(plan.ExitMonths), Color: t.GreenBright},
		{Label: "Months saved", Value: fmt.Sprintf("%d", plan.ExitMonthsSaved), Delta: "vs " + cli.FormatMonths(plan.NominalExitMonths)},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: where the money goes
	if plan.Allocation.IsDeficit() {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := warn.Render("Obligations exceed income by "+cli.FormatMoney(plan.Allocation.Deficit.Shortfall, cur)) +
			"\n" + muted.Render("No accelerator pool is available until the shortfall is closed.")
		b.WriteString(components.ContentCard("Deficit", body, cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Monthly split", a.renderSplitBars(plan, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Acceleration", a.renderPlanTotals(plan), cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Monthly split", a.renderSplitBars(plan, halves[0]), halves[0]),
			components.ContentCard("Acceleration", a.renderPlanTotals(plan), halves[1]),
		}))
	}
	return b.String()
}

// renderSplitBars shows each outflow as a share of income.
func (a App) renderSplitBars(plan model.FreedomPlan, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	labelW := 12
	barW := max(innerW-labelW-14, 10)

	rows := []struct {
		label string
		value decimal.Decimal
		color lipgloss.Color
	}{
		{"Expenses", plan.TotalExpenses, t.Bucket("expenses")},
		{"Loans", plan.TotalLoanPayments, t.Bucket("loans")},
		{"Living", plan.Allocation.Split.Living, t.Bucket("living")},
		{"Accelerator", plan.Allocation.Split.AcceleratorPool, t.Bucket("accelerator")},
		{"Capital", plan.Allocation.Split.Capital, t.Bucket("capital")},
	}

	var b strings.Builder
	for i, r := range rows {
		pct := 0.0
		if plan.Income.IsPositive() {
			pct = r.value.Div(plan.Income).InexactFloat64()
		}
		b.WriteString(components.LabeledBar(r.label, pct, r.color, cli.FormatCompact(r.value), labelW, barW))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a App) renderPlanTotals(plan model.FreedomPlan) string {
	t := theme.Active
	cur := plan.Currency
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	savedStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	totals := plan.Totals
	rows := [][2]string{
		{"Strategy", plan.Strategy},
		{"Extra applied", cli.FormatMoney(totals.ExtraApplied, cur)},
		{"Nominal interest", cli.FormatMoney(totals.NominalInterest, cur)},
		{"With acceleration", cli.FormatMoney(totals.AcceleratedInterest, cur)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", r[0])))
		b.WriteString(valueStyle.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "Interest saved")))
	b.WriteString(savedStyle.Render(cli.FormatSaved(totals.InterestSaved)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "First 12 months")))
	b.WriteString(savedStyle.Render(cli.FormatSaved(plan.Savings12Months)))
	if totals.NonAmortizing > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(warn.Render(fmt.Sprintf("%d loan(s) never amortize at their payment", totals.NonAmortizing)))
	}
	return b.String()
}
