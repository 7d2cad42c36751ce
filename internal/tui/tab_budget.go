package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/source"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// budgetState holds the quick-add expense input.
type budgetState struct {
	adding  bool
	input   textinput.Model
	saveErr error
	saved   string
}

const defaultExpenseCategory = "other"

// parseExpense reads "<amount> [category words...]".
func parseExpense(s string) (model.Transaction, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return model.Transaction{}, errors.New("enter an amount")
	}
	amount, err := money.Parse(fields[0])
	if err != nil {
		return model.Transaction{}, err
	}
	if !amount.IsPositive() {
		return model.Transaction{}, errors.New("amount must be positive")
	}
	category := defaultExpenseCategory
	if len(fields) > 1 {
		category = strings.Join(fields[1:], " ")
	}
	return model.Transaction{Kind: model.TxExpense, Category: category, Amount: amount}, nil
}

func (a App) startBudgetInput() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "amount category"
	ti.CharLimit = 64
	ti.Width = 40
	cmd := ti.Focus()
	a.budget = budgetState{adding: true, input: ti}
	return a, cmd
}

func (a App) updateBudgetInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.budget.adding = false
		return a, nil
	case "enter":
		tx, err := parseExpense(a.budget.input.Value())
		if err != nil {
			a.budget.saveErr = err
			return a, nil
		}
		if a.opts.LedgerPath == "" {
			a.budget.saveErr = errors.New("no ledger configured")
			return a, nil
		}
		tx.Date = time.Now()
		if err := source.AppendTransaction(source.LedgerFile(a.opts.LedgerPath, tx.Date), tx); err != nil {
			a.budget.saveErr = err
			return a, nil
		}
		a.budget = budgetState{saved: fmt.Sprintf("Recorded %s in %s", cli.FormatAmount(tx.Amount), tx.Category)}
		return a.reload()
	}
	var cmd tea.Cmd
	a.budget.input, cmd = a.budget.input.Update(msg)
	return a, cmd
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	st := a.snap.Budget
	cur := a.snap.Plan.Currency

	var b strings.Builder

	remainingColor := t.GreenBright
	if st.Over {
		remainingColor = t.Red
	} else if st.Warning {
		remainingColor = t.Orange
	}
	cards := []components.Metric{
		{Label: "Living budget", Value: cli.FormatCompact(st.Budget), Delta: st.Month},
		{Label: "Spent", Value: cli.FormatCompact(st.Spent), Delta: cli.FormatPercent(st.Percent)},
		{Label: "Remaining", Value: cli.FormatCompact(st.Remaining), Delta: cur, Color: remainingColor},
		{Label: "Per day", Value: cli.FormatCompact(st.DailyAllowance), Delta: fmt.Sprintf("%d days left", st.DaysLeft)},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	labelW := min(max(innerW/4, 12), 24)
	barW := max(innerW-labelW-8, 10)

	var body strings.Builder
	usage := 0.0
	if st.Budget.IsPositive() {
		usage = st.Spent.Div(st.Budget).InexactFloat64()
	}
	body.WriteString(components.BudgetBar("This month", usage, labelW, barW))
	for _, c := range st.ByCategory {
		share := 0.0
		if st.Budget.IsPositive() {
			share = c.Amount.Div(st.Budget).InexactFloat64()
		}
		body.WriteString("\n")
		body.WriteString(components.LabeledBar(c.Category, share, t.Blue, cli.FormatCompact(c.Amount), labelW, barW))
	}
	b.WriteString(components.ContentCard("Spending", body.String(), cw))
	b.WriteString("\n")

	b.WriteString(a.renderBudgetFooter(cw))
	return b.String()
}

func (a App) renderBudgetFooter(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	var body strings.Builder
	switch {
	case a.budget.adding:
		body.WriteString(a.budget.input.View())
		body.WriteString("\n")
		if a.budget.saveErr != nil {
			body.WriteString(errStyle.Render(a.budget.saveErr.Error()))
		} else {
			body.WriteString(mutedStyle.Render("enter to save · esc to cancel"))
		}
		return components.ContentCard("Add expense", body.String(), cw)
	case a.budget.saved != "":
		body.WriteString(okStyle.Render(a.budget.saved))
	default:
		body.WriteString(mutedStyle.Render("press a to record an expense"))
	}

	parseErrors := 0
	for _, r := range a.snap.Ledger {
		parseErrors += r.ParseErrors
	}
	if parseErrors > 0 {
		body.WriteString("\n")
		body.WriteString(errStyle.Render(fmt.Sprintf("%d ledger line(s) could not be parsed", parseErrors)))
	}
	return components.ContentCard("", body.String(), cw)
}
