package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResampleKeepsEnds(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(100 - i)
	}
	got := Resample(values, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0] != 100 || got[9] != 1 {
		t.Fatalf("ends = %v, %v, want 100, 1", got[0], got[9])
	}

	short := []float64{1, 2, 3}
	if got := Resample(short, 10); len(got) != 3 {
		t.Fatalf("short series resampled to %d points", len(got))
	}
}

func TestNiceCeiling(t *testing.T) {
	cases := map[float64]float64{
		0:          1,
		7:          10,
		13:         20,
		45:         50,
		60_000_000: 100_000_000,
		1_000:      1_000,
	}
	for in, want := range cases {
		if got := niceCeiling(in); got != want {
			t.Fatalf("niceCeiling(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		2_000_000_000: "2B",
		1_500_000:     "1.5M",
		20_000:        "20k",
		42:            "42",
		0.5:           "0.50",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Fatalf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestAreaChartDimensions(t *testing.T) {
	values := []float64{60, 50, 40, 30, 20, 10, 0}
	chart := AreaChart(values, lipgloss.Color("#3AA99F"), 40, 6)
	lines := strings.Split(chart, "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 6 rows + axis", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Fatalf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('l'); got != 1 {
		t.Fatalf("TabIdxByKey('l') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}
