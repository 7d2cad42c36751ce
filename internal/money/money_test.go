package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		annual string
		want   string
	}{
		{"24", "0.02"},
		{"12", "0.01"},
		{"0", "0"},
		{"18", "0.015"},
	}
	for _, tt := range tests {
		got := MonthlyRate(MustParse(tt.annual))
		if !got.Equal(MustParse(tt.want)) {
			t.Errorf("MonthlyRate(%s) = %s, want %s", tt.annual, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"3.5", "4"},
		{"2.5", "3"},
		{"2.49", "2"},
		{"0.5", "1"},
		{"-2.5", "-3"},
		{"630000", "630000"},
	}
	for _, tt := range tests {
		got := Round(MustParse(tt.in))
		if !got.Equal(MustParse(tt.want)) {
			t.Errorf("Round(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRoundMinor(t *testing.T) {
	got := RoundMinor(MustParse("1666.66666"))
	if !got.Equal(MustParse("1666.67")) {
		t.Fatalf("RoundMinor = %s, want 1666.67", got)
	}
}

func TestPercentGuardsZeroWhole(t *testing.T) {
	if got := Percent(FromInt(5), decimal.Zero); !got.IsZero() {
		t.Fatalf("Percent(5, 0) = %s, want 0", got)
	}
	if got := Percent(FromInt(44), FromInt(100)); !got.Equal(FromInt(44)) {
		t.Fatalf("Percent(44, 100) = %s, want 44", got)
	}
}

func TestSumAndBounds(t *testing.T) {
	if got := Sum(); !got.IsZero() {
		t.Fatalf("Sum() = %s, want 0", got)
	}
	if got := Sum(FromInt(1), FromInt(2), MustParse("0.5")); !got.Equal(MustParse("3.5")) {
		t.Fatalf("Sum = %s, want 3.5", got)
	}
	if got := NonNegative(FromInt(-3)); !got.IsZero() {
		t.Fatalf("NonNegative(-3) = %s, want 0", got)
	}
	if got := Min(FromInt(2), FromInt(7)); !got.Equal(FromInt(2)) {
		t.Fatalf("Min = %s, want 2", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("12abc"); err == nil {
		t.Fatal("Parse(12abc) returned nil error")
	}
}
