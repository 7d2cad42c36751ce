package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
)

func TestScoreExample(t *testing.T) {
	l := loan("10000000", "400000", "24", 36)

	base := Score(l, decimal.Zero)
	if !base.TotalPaid.Equal(d("14400000")) {
		t.Fatalf("TotalPaid = %s, want 14400000", base.TotalPaid)
	}
	if !base.TotalInterest.Equal(d("4400000")) {
		t.Fatalf("TotalInterest = %s, want 4400000", base.TotalInterest)
	}
	if !base.InterestRatio.Equal(d("0.44")) {
		t.Fatalf("InterestRatio = %s, want 0.44", base.InterestRatio)
	}
	if base.InterestPercent != 44 {
		t.Fatalf("InterestPercent = %d, want 44", base.InterestPercent)
	}
	if base.DangerLevel != 45 {
		t.Fatalf("base DangerLevel = %d, want 45", base.DangerLevel)
	}

	got := Score(l, d("700000"))
	if got.DangerLevel != 65 {
		t.Fatalf("DangerLevel = %d, want 65", got.DangerLevel)
	}
	if got.DangerTier != model.TierHigh {
		t.Fatalf("DangerTier = %s, want high", got.DangerTier)
	}
	if !got.MonthsForInterest.Equal(d("6.29")) {
		t.Fatalf("MonthsForInterest = %s, want 6.29", got.MonthsForInterest)
	}
	if !got.WorkingDaysForInterest.Equal(d("138.29")) {
		t.Fatalf("WorkingDaysForInterest = %s, want 138.29", got.WorkingDaysForInterest)
	}
	if !got.WorkingHoursForInterest.Equal(d("1106.29")) {
		t.Fatalf("WorkingHoursForInterest = %s, want 1106.29", got.WorkingHoursForInterest)
	}
}

func TestScoreLadder(t *testing.T) {
	tests := []struct {
		interestPct int64
		want        int
	}{
		{250, 95},
		{101, 95},
		{100, 80},
		{71, 80},
		{70, 65},
		{51, 65},
		{50, 45},
		{31, 45},
		{30, 30},
		{16, 30},
		{15, 15},
		{0, 15},
		{-10, 15},
	}
	for _, tt := range tests {
		// principal 100 over one month: interest percent equals the
		// amount paid above principal.
		l := model.Loan{
			Principal:      decimal.NewFromInt(100),
			MonthlyPayment: decimal.NewFromInt(100 + tt.interestPct),
			TermMonths:     1,
		}
		if got := Score(l, decimal.Zero).DangerLevel; got != tt.want {
			t.Errorf("interest %d%%: DangerLevel = %d, want %d", tt.interestPct, got, tt.want)
		}
	}
}

func TestScorePaymentShareBumpClamps(t *testing.T) {
	l := loan("1000000", "1500000", "0", 2) // 200% interest
	got := Score(l, d("2000000"))           // payment is 75% of income
	if got.DangerLevel != 100 {
		t.Fatalf("DangerLevel = %d, want 100", got.DangerLevel)
	}
	if got.DangerTier != model.TierCritical {
		t.Fatalf("DangerTier = %s, want critical", got.DangerTier)
	}

	half := Score(loan("10000000", "400000", "24", 36), d("800000"))
	if half.DangerLevel != 45 {
		t.Fatalf("payment exactly half of income: DangerLevel = %d, want 45", half.DangerLevel)
	}
}

func TestScoreDegenerateInputs(t *testing.T) {
	got := Score(model.Loan{MonthlyPayment: d("100"), TermMonths: 12}, decimal.Zero)
	if !got.InterestRatio.IsZero() {
		t.Fatalf("zero principal ratio = %s, want 0", got.InterestRatio)
	}
	if !got.WorkingDaysForInterest.IsZero() || !got.WorkingHoursForInterest.IsZero() {
		t.Fatalf("zero income working time = %s days, %s hours; want 0", got.WorkingDaysForInterest, got.WorkingHoursForInterest)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		level int
		want  model.DangerTier
	}{
		{100, model.TierCritical},
		{75, model.TierCritical},
		{74, model.TierHigh},
		{50, model.TierHigh},
		{49, model.TierModerate},
		{30, model.TierModerate},
		{29, model.TierAcceptable},
		{15, model.TierAcceptable},
	}
	for _, tt := range tests {
		if got := TierFor(tt.level); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.level, got, tt.want)
		}
	}
}
