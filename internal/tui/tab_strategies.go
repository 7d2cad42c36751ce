package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/pipeline"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// bestStrategy returns the index of the result that frees the household
// soonest, breaking ties on interest saved. It returns -1 for no results.
func bestStrategy(results []pipeline.ScenarioResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best].Plan
		p := r.Plan
		switch {
		case p.ExitMonths < b.ExitMonths:
			best = i
		case p.ExitMonths == b.ExitMonths && p.Totals.InterestSaved.GreaterThan(b.Totals.InterestSaved):
			best = i
		}
	}
	return best
}

func (a App) renderStrategiesTab(cw int) string {
	t := theme.Active
	results := a.snap.Strategies
	cur := a.snap.Plan.Currency

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	bestStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	if len(results) == 0 {
		return components.ContentCard("Strategies", mutedStyle.Render("Nothing to compare."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	fixed := 10 + 10 + 9 + 14 + 14
	nameW := max(innerW-fixed, 12)

	var table strings.Builder
	table.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%10s%10s%9s%14s%14s", nameW, "Strategy", "Exit", "Months", "Saved", "Interest", "Saved")))
	table.WriteString("\n")
	table.WriteString(mutedStyle.Render(strings.Repeat("─", nameW+fixed)))
	table.WriteString("\n")

	best := bestStrategy(results)
	for i, r := range results {
		p := r.Plan
		exit := p.ExitDate
		if exit == "" {
			exit = "-"
		}
		name := r.Scenario.Name
		if name == a.snap.Plan.Strategy {
			name += " •"
		}
		style := rowStyle
		if i == best {
			style = bestStyle
		} else if r.Scenario.Name == a.snap.Plan.Strategy {
			style = activeStyle
		}
		table.WriteString(style.Render(fmt.Sprintf("%-*s%10s%10s%9d%14s%14s", nameW, truncStr(name, nameW-1),
			exit, cli.FormatMonths(p.ExitMonths), p.ExitMonthsSaved,
			cli.FormatCompact(p.Totals.AcceleratedInterest), cli.FormatSaved(p.Totals.InterestSaved))))
		if i < len(results)-1 {
			table.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Strategy comparison", table.String(), cw))
	b.WriteString("\n")

	// Interest saved as bars relative to the best saver.
	peak := results[0].Plan.Totals.InterestSaved
	for _, r := range results[1:] {
		if r.Plan.Totals.InterestSaved.GreaterThan(peak) {
			peak = r.Plan.Totals.InterestSaved
		}
	}
	labelW := 12
	barW := max(innerW-labelW-16, 10)
	var bars strings.Builder
	for i, r := range results {
		pct := 0.0
		if peak.IsPositive() {
			pct = r.Plan.Totals.InterestSaved.Div(peak).InexactFloat64()
		}
		bars.WriteString(components.LabeledBar(r.Scenario.Name, pct, t.GreenBright, cli.FormatMoney(r.Plan.Totals.InterestSaved, cur), labelW, barW))
		if i < len(results)-1 {
			bars.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Interest saved · t cycles the active strategy", bars.String(), cw))
	return b.String()
}
