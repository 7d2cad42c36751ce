package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

func (a App) renderImpactTab(cw int) string {
	t := theme.Active
	reports := a.snap.Impacts
	cur := a.snap.Plan.Currency
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(reports) == 0 {
		return components.ContentCard("Credit impact", mutedStyle.Render("No loans to score."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	labelW := min(max(innerW/4, 12), 24)
	barW := max(innerW-labelW-16, 10)

	var meters strings.Builder
	for i, r := range reports {
		meters.WriteString(components.DangerBar(r.Loan.Label(i), r.Impact.DangerLevel, string(r.Impact.DangerTier), labelW, barW))
		if i < len(reports)-1 {
			meters.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Danger", meters.String(), cw))
	b.WriteString("\n")

	// Selected loan detail, driven by the same cursor as the loans tab.
	idx := min(a.loans.cursor, len(reports)-1)
	r := reports[idx]
	ci := r.Impact

	cards := []components.Metric{
		{Label: "Total paid", Value: cli.FormatCompact(ci.TotalPaid), Delta: cur},
		{Label: "Interest", Value: cli.FormatCompact(ci.TotalInterest), Delta: cli.FormatPercent(ci.InterestPercent) + " of principal"},
		{Label: "Working months", Value: ci.MonthsForInterest.StringFixed(1), Delta: "of income to cover interest"},
		{Label: "Danger", Value: fmt.Sprintf("%d", ci.DangerLevel), Delta: string(ci.DangerTier), Color: components.ColorForDanger(ci.DangerLevel)},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var detail strings.Builder
	detail.WriteString(mutedStyle.Render(fmt.Sprintf("%-20s", "Working time")))
	detail.WriteString(valueStyle.Render(cli.FormatHours(ci.WorkingDaysForInterest, ci.WorkingHoursForInterest)))
	detail.WriteString("\n")
	detail.WriteString(mutedStyle.Render(fmt.Sprintf("%-20s", "Payoff at payment")))
	detail.WriteString(valueStyle.Render(cli.FormatMonths(r.Nominal.Months)))
	detail.WriteString("\n")
	detail.WriteString(mutedStyle.Render(fmt.Sprintf("%-20s", "Payment share")))
	share := money.Percent(r.Loan.MonthlyPayment, r.Income)
	detail.WriteString(valueStyle.Render(share.Round(0).String() + "% of income"))

	b.WriteString(components.ContentCard(r.Loan.Label(idx)+" · j/k on Loans to change", detail.String(), cw))
	return b.String()
}
