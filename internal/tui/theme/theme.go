// Package theme defines color themes for the halos TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	SurfaceBright lipgloss.Color // Extra bright surface for emphasis
	Border        lipgloss.Color // Subtle borders
	BorderBright  lipgloss.Color // Prominent borders (cards, focus)
	BorderAccent  lipgloss.Color // Accent-colored borders for focus states
	TextDim       lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted     lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary   lipgloss.Color // Primary content text
	Accent        lipgloss.Color // Primary accent (links, active states)
	AccentBright  lipgloss.Color // Brighter accent for emphasis
	AccentDim     lipgloss.Color // Dimmed accent for backgrounds
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	BlueBright    lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),
	Green:         lipgloss.Color("#879A39"),
	GreenBright:   lipgloss.Color("#A3B859"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Blue:          lipgloss.Color("#4385BE"),
	BlueBright:    lipgloss.Color("#6BA3D6"),
	Yellow:        lipgloss.Color("#D0A215"),
	Magenta:       lipgloss.Color("#CE5D97"),
	Cyan:          lipgloss.Color("#24837B"),
}

// Ledger is a light theme on paper-white surfaces for bright rooms.
var Ledger = Theme{
	Name:          "ledger",
	Background:    lipgloss.Color("#F4F1EA"),
	Surface:       lipgloss.Color("#FFFDF8"),
	SurfaceHover:  lipgloss.Color("#ECE6D9"),
	SurfaceBright: lipgloss.Color("#E2DACA"),
	Border:        lipgloss.Color("#D3CAB6"),
	BorderBright:  lipgloss.Color("#B3A78E"),
	BorderAccent:  lipgloss.Color("#2F6F5E"),
	TextDim:       lipgloss.Color("#A39A88"),
	TextMuted:     lipgloss.Color("#6E6656"),
	TextPrimary:   lipgloss.Color("#2B2822"),
	Accent:        lipgloss.Color("#2F6F5E"),
	AccentBright:  lipgloss.Color("#1F5A4A"),
	AccentDim:     lipgloss.Color("#DCEBE5"),
	Green:         lipgloss.Color("#4E7A2A"),
	GreenBright:   lipgloss.Color("#3B6B14"),
	Orange:        lipgloss.Color("#B8601A"),
	Red:           lipgloss.Color("#A8322D"),
	Blue:          lipgloss.Color("#2D5F9A"),
	BlueBright:    lipgloss.Color("#1F4E86"),
	Yellow:        lipgloss.Color("#9A7B0A"),
	Magenta:       lipgloss.Color("#8A3F7A"),
	Cyan:          lipgloss.Color("#1F7A80"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Blue:          lipgloss.Color("4"),
	BlueBright:    lipgloss.Color("12"),
	Yellow:        lipgloss.Color("3"),
	Magenta:       lipgloss.Color("5"),
	Cyan:          lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{FlexokiDark, Ledger, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Tier returns the color for a danger tier label.
func (t Theme) Tier(tier string) lipgloss.Color {
	switch tier {
	case "critical":
		return t.Red
	case "high":
		return t.Orange
	case "moderate":
		return t.Yellow
	default:
		return t.Green
	}
}

// Bucket returns the color used for a slice of the monthly split.
func (t Theme) Bucket(name string) lipgloss.Color {
	switch name {
	case "expenses":
		return t.Orange
	case "loans":
		return t.Red
	case "living":
		return t.Blue
	case "accelerator":
		return t.Accent
	case "capital":
		return t.GreenBright
	default:
		return t.TextMuted
	}
}
