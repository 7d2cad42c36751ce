package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// ProgressBar renders the loading progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := max(0, min(int(pct*float64(width)), width))

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForPct returns green/yellow/orange/red based on how much of a budget
// is used.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Red
	case pct >= 0.8:
		return t.Orange
	case pct >= 0.5:
		return t.Yellow
	default:
		return t.Green
	}
}

// ColorForDanger maps a 0-100 danger level to its tier color.
func ColorForDanger(level int) lipgloss.Color {
	return theme.Active.Tier(string(engine.TierFor(level)))
}

// LabeledBar renders "label [bar] suffix" with a solid-fill bar.
func LabeledBar(label string, pct float64, color lipgloss.Color, suffix string, labelW, barWidth int) string {
	t := theme.Active
	pct = max(0, min(pct, 1))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	suffixStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		suffixStyle.Render(suffix)
}

// BudgetBar renders the living-budget usage bar.
func BudgetBar(label string, pct float64, labelW, barWidth int) string {
	return LabeledBar(label, pct, ColorForPct(pct), fmt.Sprintf("%3.0f%%", max(0, pct)*100), labelW, barWidth)
}

// DangerBar renders a danger meter with its level and tier.
func DangerBar(label string, level int, tier string, labelW, barWidth int) string {
	return LabeledBar(label, float64(level)/100, ColorForDanger(level), fmt.Sprintf("%3d %s", level, tier), labelW, barWidth)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
