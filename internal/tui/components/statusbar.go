package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints and context on
// the left, data freshness on the right.
func RenderStatusBar(width int, context, dataAge string, reloading bool) string {
	t := theme.Active

	hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := hint.Render(" [?]help  [t]strategy  [n]nominal  [r]eload  [q]uit")
	if context != "" {
		left += hint.Render("  │  ") + accent.Render(context)
	}

	right := ""
	switch {
	case reloading:
		right = accent.Render("reloading… ")
	case dataAge != "":
		right = hint.Render("computed in " + dataAge + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))

	return left + fill + right
}
