package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := peakOf(values)
	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Resample picks n evenly spaced points from values, keeping the first and
// last. Series shorter than n are returned unchanged.
func Resample(values []float64, n int) []float64 {
	if n < 2 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}

// AreaChart renders a column chart of a series, one column per value after
// resampling to fit width, with a labeled y-axis. It suits monotone series
// such as a declining loan balance.
func AreaChart(values []float64, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	ceiling := niceCeiling(peakOf(values))
	labelW := max(len(formatChartLabel(ceiling))+1, 4)
	cols := width - labelW - 1
	values = Resample(values, cols)

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	fill := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = formatChartLabel(ceiling)
		case (height + 1) / 2:
			label = formatChartLabel(top)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, label)))

		var line strings.Builder
		for _, v := range values {
			switch {
			case v >= top:
				line.WriteRune('█')
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)))
				line.WriteRune(sparkBlocks[max(0, min(idx, len(sparkBlocks)-1))])
			default:
				line.WriteRune(' ')
			}
		}
		b.WriteString(fill.Render(line.String()))
		if pad := cols - len(values); pad > 0 {
			b.WriteString(blank.Render(strings.Repeat(" ", pad)))
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", cols))))
	return b.String()
}

func peakOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		return 1
	}
	return peak
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*base >= v {
			return m * base
		}
	}
	return 10 * base
}

func formatChartLabel(v float64) string {
	trim := func(x float64, suffix string) string {
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f%s", x, suffix)
		}
		return fmt.Sprintf("%.1f%s", x, suffix)
	}
	switch {
	case v >= 1e9:
		return trim(v/1e9, "B")
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
