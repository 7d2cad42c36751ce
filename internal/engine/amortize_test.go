package engine

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
)

func loan(principal, payment, rate string, term int) model.Loan {
	return model.Loan{
		Principal:         d(principal),
		MonthlyPayment:    d(payment),
		AnnualRatePercent: d(rate),
		TermMonths:        term,
	}
}

func TestSimulateZeroRate(t *testing.T) {
	l := loan("1200", "100", "0", 12)

	got := Simulate(l, decimal.Zero)
	if got.Months != 12 || !got.TotalInterest.IsZero() {
		t.Fatalf("Simulate = %+v, want 12 months, 0 interest", got)
	}

	got = Simulate(l, d("50"))
	if got.Months != 8 {
		t.Fatalf("Months with extra = %d, want 8", got.Months)
	}
}

func TestSimulateClampsFinalMonth(t *testing.T) {
	// month 1: interest 10, principal 990, balance 10
	// month 2: interest 0.10, pays off the last 10
	got := Simulate(loan("1000", "1000", "12", 2), decimal.Zero)
	if got.Months != 2 {
		t.Fatalf("Months = %d, want 2", got.Months)
	}
	if !got.TotalInterest.Equal(d("10.10")) {
		t.Fatalf("TotalInterest = %s, want 10.10", got.TotalInterest)
	}
}

func TestSimulateNonAmortizing(t *testing.T) {
	for _, payment := range []string{"20000", "15000"} {
		got := Simulate(loan("1000000", payment, "24", 60), decimal.Zero)
		if !got.NonAmortizing {
			t.Fatalf("payment %s: NonAmortizing = false, want true", payment)
		}
		if got.Months != NonAmortizingMonths {
			t.Fatalf("payment %s: Months = %d, want %d", payment, got.Months, NonAmortizingMonths)
		}
	}

	got := Simulate(loan("1000000", "20000", "24", 60), d("30000"))
	if got.NonAmortizing || got.Months >= MaxMonths {
		t.Fatalf("extra payment should amortize, got %+v", got)
	}
}

func TestSimulateNonAmortizingBelowExactInterest(t *testing.T) {
	// exact interest is 8.3333..., which rounds to 8.33 below the payment
	got := Simulate(loan("1000", "8.333", "10", 12), decimal.Zero)
	if !got.NonAmortizing || got.Months != NonAmortizingMonths {
		t.Fatalf("Simulate = %+v, want non-amortizing", got)
	}
	if got.Capped {
		t.Fatal("Capped = true, want false for a non-amortizing loan")
	}

	got = Simulate(loan("1000", "8.34", "10", 12), decimal.Zero)
	if got.NonAmortizing {
		t.Fatalf("payment above exact interest: NonAmortizing = true, got %+v", got)
	}
}

func TestSimulateCapsAtMaxMonths(t *testing.T) {
	got := Simulate(loan("1000000", "1", "0", 12), decimal.Zero)
	if got.Months != MaxMonths || !got.Capped {
		t.Fatalf("Simulate = %+v, want capped at %d", got, MaxMonths)
	}
}

func TestSimulateZeroPrincipal(t *testing.T) {
	got := Simulate(loan("0", "100", "12", 12), decimal.Zero)
	if got.Months != 0 || !got.TotalInterest.IsZero() {
		t.Fatalf("Simulate = %+v, want zero run", got)
	}
}

func TestSimulateToTermStopsAtTerm(t *testing.T) {
	got := SimulateToTerm(loan("1200", "100", "0", 6), decimal.Zero)
	if got.Months != 6 {
		t.Fatalf("Months = %d, want 6", got.Months)
	}
	if got.Capped {
		t.Fatal("stopping at term is not a cap")
	}
}

func TestConventionNominal(t *testing.T) {
	l := loan("10000000", "400000", "24", 36)

	term := RunToTerm.Nominal(l)
	if term.Months != 36 {
		t.Fatalf("RunToTerm months = %d, want 36", term.Months)
	}
	zero := RunToZero.Nominal(l)
	if zero.Months <= 0 || zero.Months > MaxMonths {
		t.Fatalf("RunToZero months = %d", zero.Months)
	}
	if zero.Months == NonAmortizingMonths {
		t.Fatal("loan should amortize")
	}
}

func TestParseConvention(t *testing.T) {
	for in, want := range map[string]Convention{"": RunToZero, "zero": RunToZero, "term": RunToTerm} {
		got, err := ParseConvention(in)
		if err != nil || got != want {
			t.Fatalf("ParseConvention(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseConvention("forever"); !errors.Is(err, ErrUnknownConvention) {
		t.Fatalf("ParseConvention(forever) err = %v, want ErrUnknownConvention", err)
	}
}

func TestScheduleMatchesSimulate(t *testing.T) {
	l := loan("5000000", "250000", "18", 24)
	extra := d("75000")

	rows := Schedule(l, extra)
	res := Simulate(l, extra)
	if len(rows) != res.Months {
		t.Fatalf("len(rows) = %d, want %d", len(rows), res.Months)
	}

	principal, interest := decimal.Zero, decimal.Zero
	for i, r := range rows {
		if r.Balance.IsNegative() {
			t.Fatalf("row %d balance %s is negative", i, r.Balance)
		}
		principal = principal.Add(r.Principal)
		interest = interest.Add(r.Interest)
	}
	if !principal.Equal(l.Principal) {
		t.Fatalf("principal paid = %s, want %s", principal, l.Principal)
	}
	if !interest.Equal(res.TotalInterest) {
		t.Fatalf("interest = %s, want %s", interest, res.TotalInterest)
	}
	if !rows[len(rows)-1].Balance.IsZero() {
		t.Fatalf("final balance = %s, want 0", rows[len(rows)-1].Balance)
	}
}

func TestScheduleNonAmortizing(t *testing.T) {
	if rows := Schedule(loan("1000000", "100", "24", 12), decimal.Zero); rows != nil {
		t.Fatalf("Schedule = %d rows, want nil", len(rows))
	}
}

// randomLoan builds a loan whose payment covers interest plus a straight
// share of principal, so it always amortizes.
func randomLoan(f *gofakeit.Faker) model.Loan {
	principal := decimal.NewFromInt(int64(f.Number(100_000, 50_000_000)))
	rate := decimal.NewFromInt(int64(f.Number(0, 40)))
	term := f.Number(6, 120)
	payment := principal.Div(decimal.NewFromInt(int64(term))).
		Add(principal.Mul(rate).Div(decimal.NewFromInt(1200))).
		Ceil()
	return model.Loan{
		Name:              f.Company(),
		Principal:         principal,
		MonthlyPayment:    payment,
		AnnualRatePercent: rate,
		TermMonths:        term,
	}
}

func TestSimulateMonotonicInExtraPayment(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		l := randomLoan(f)
		low := decimal.NewFromInt(int64(f.Number(0, 500_000)))
		high := low.Add(decimal.NewFromInt(int64(f.Number(1, 500_000))))

		a := Simulate(l, low)
		b := Simulate(l, high)
		if b.Months > a.Months {
			t.Fatalf("%+v: months(%s)=%d > months(%s)=%d", l, high, b.Months, low, a.Months)
		}
		if b.TotalInterest.GreaterThan(a.TotalInterest) {
			t.Fatalf("%+v: interest(%s)=%s > interest(%s)=%s", l, high, b.TotalInterest, low, a.TotalInterest)
		}
	}
}
