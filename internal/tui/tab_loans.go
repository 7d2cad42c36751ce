package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// loansState holds the selected row of the loans table.
type loansState struct {
	cursor int
}

func (s *loansState) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *loansState) down(n int) {
	if s.cursor < n-1 {
		s.cursor++
	}
}

func (s *loansState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

func (a App) renderLoansTab(cw, h int) string {
	t := theme.Active
	plan := a.snap.Plan
	if len(plan.Loans) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Loans", muted.Render("No loans. All residual income goes to living, accelerator and capital."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	savedStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	compact := a.isCompactLayout()
	fixed := 9 + 9 + 8 + 12
	if !compact {
		fixed += 12 + 12
	}
	nameW := max(innerW-fixed, 10)

	var table strings.Builder
	if compact {
		table.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%9s%9s%8s%12s", nameW, "Loan", "Nominal", "Accel", "Saved", "Interest")))
	} else {
		table.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%12s%12s%9s%9s%8s%12s", nameW, "Loan", "Principal", "Extra", "Nominal", "Accel", "Saved", "Interest")))
	}
	table.WriteString("\n")
	table.WriteString(mutedStyle.Render(strings.Repeat("─", nameW+fixed)))
	table.WriteString("\n")

	for i, la := range plan.Loans {
		style := rowStyle
		if i == a.loans.cursor {
			style = selStyle
		}
		name := truncStr(la.Loan.Label(i), nameW-1)
		var line string
		if compact {
			line = fmt.Sprintf("%-*s%9s%9s%8s", nameW, name,
				cli.FormatMonths(la.NominalMonths), cli.FormatMonths(la.AcceleratedMonths), fmt.Sprintf("%d", la.MonthsSaved))
		} else {
			line = fmt.Sprintf("%-*s%12s%12s%9s%9s%8s", nameW, name,
				cli.FormatCompact(la.Loan.Principal), cli.FormatCompact(la.ExtraPaymentApplied),
				cli.FormatMonths(la.NominalMonths), cli.FormatMonths(la.AcceleratedMonths), fmt.Sprintf("%d", la.MonthsSaved))
		}
		table.WriteString(style.Render(line))
		table.WriteString(savedStyle.Render(fmt.Sprintf("%12s", cli.FormatSaved(la.InterestSaved))))
		if i < len(plan.Loans)-1 {
			table.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Loans", table.String(), cw))
	b.WriteString("\n")

	sel := plan.Loans[a.loans.cursor]
	chartH := max(h-lipgloss.Height(b.String())-4, 3)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("%s balance · %s extra/month", sel.Loan.Label(a.loans.cursor), cli.FormatCompact(sel.ExtraPaymentApplied)),
		balanceChart(sel, innerW, min(chartH, 12)),
		cw,
	))
	return b.String()
}

// balanceChart plots the accelerated balance curve of one loan.
func balanceChart(la model.LoanAcceleration, w, h int) string {
	t := theme.Active
	if la.NonAmortizing {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		return warn.Render("Payment never covers the monthly interest; the balance does not fall.")
	}
	rows := engine.Schedule(la.Loan, la.ExtraPaymentApplied)
	values := make([]float64, 0, len(rows)+1)
	values = append(values, la.Loan.Principal.InexactFloat64())
	for _, r := range rows {
		values = append(values, r.Balance.InexactFloat64())
	}
	return components.AreaChart(values, t.Accent, w, h)
}
