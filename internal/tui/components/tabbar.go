package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/tui/theme"
)

// Tab is one entry of the tab bar. Key is the shortcut letter and KeyPos
// its index in Name.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Plan", Key: 'p', KeyPos: 0},
	{Name: "Loans", Key: 'l', KeyPos: 0},
	{Name: "Impact", Key: 'i', KeyPos: 0},
	{Name: "Budget", Key: 'b', KeyPos: 0},
	{Name: "Strategies", Key: 's', KeyPos: 0},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Underline(true)

	name := tab.Name
	before, k, after := name, "", ""
	if tab.KeyPos >= 0 && tab.KeyPos < len(name) {
		before, k, after = name[:tab.KeyPos], name[tab.KeyPos:tab.KeyPos+1], name[tab.KeyPos+1:]
	}
	return base.Render(" "+before) + key.Render(k) + base.Render(after+" ")
}

// TabVisualWidth returns the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders a single-row tab bar filled to width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	row := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
