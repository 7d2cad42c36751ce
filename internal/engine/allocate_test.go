package engine

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

func d(s string) decimal.Decimal { return money.MustParse(s) }

func TestAllocateSplitsResidual(t *testing.T) {
	a := Allocate(d("3000000"), d("1500000"), d("500000"))
	if a.IsDeficit() {
		t.Fatal("Allocate reported deficit for positive residual")
	}
	if !a.Residual.Equal(d("1000000")) {
		t.Fatalf("Residual = %s, want 1000000", a.Residual)
	}
	want := model.BudgetSplit{Living: d("700000"), AcceleratorPool: d("200000"), Capital: d("100000")}
	if !a.Split.Living.Equal(want.Living) || !a.Split.AcceleratorPool.Equal(want.AcceleratorPool) || !a.Split.Capital.Equal(want.Capital) {
		t.Fatalf("Split = %+v, want %+v", a.Split, want)
	}
}

func TestAllocateDeficitBoundary(t *testing.T) {
	exact := Allocate(d("2000000"), d("1500000"), d("500000"))
	if !exact.IsDeficit() {
		t.Fatal("income equal to obligations should be a deficit")
	}
	if !exact.Deficit.Shortfall.IsZero() {
		t.Fatalf("Shortfall = %s, want 0", exact.Deficit.Shortfall)
	}
	if !exact.Split.Total().IsZero() {
		t.Fatalf("deficit split total = %s, want 0", exact.Split.Total())
	}

	plusOne := Allocate(d("2000001"), d("1500000"), d("500000"))
	if plusOne.IsDeficit() {
		t.Fatal("income one unit above obligations should split")
	}
	if !plusOne.Split.Living.Equal(d("1")) {
		t.Fatalf("Living = %s, want 1", plusOne.Split.Living)
	}
}

func TestAllocateShortfall(t *testing.T) {
	a := Allocate(d("100"), d("120"), d("30"))
	if !a.IsDeficit() {
		t.Fatal("expected deficit")
	}
	if !a.Deficit.Shortfall.Equal(d("50")) {
		t.Fatalf("Shortfall = %s, want 50", a.Deficit.Shortfall)
	}
}

func TestAllocateRoundsBucketsIndependently(t *testing.T) {
	// 3.5 -> 4, 1 -> 1, 0.5 -> 1: the buckets overshoot the residual by one.
	a := Allocate(d("5"), decimal.Zero, decimal.Zero)
	if !a.Split.Living.Equal(d("4")) || !a.Split.AcceleratorPool.Equal(d("1")) || !a.Split.Capital.Equal(d("1")) {
		t.Fatalf("Split = %+v, want 4/1/1", a.Split)
	}
	if got := a.Split.Total().Sub(a.Residual); !got.Equal(d("1")) {
		t.Fatalf("drift = %s, want 1", got)
	}
}

func TestAllocateConservationWithinDrift(t *testing.T) {
	f := gofakeit.New(7)
	two := d("2")
	for i := 0; i < 500; i++ {
		income := decimal.NewFromFloat(f.Price(1, 50_000_000))
		expenses := decimal.NewFromFloat(f.Price(0, 20_000_000))
		payments := decimal.NewFromFloat(f.Price(0, 10_000_000))
		a := Allocate(income, expenses, payments)
		if a.IsDeficit() {
			if a.Residual.IsPositive() {
				t.Fatalf("deficit with positive residual %s", a.Residual)
			}
			continue
		}
		drift := a.Split.Total().Sub(a.Residual).Abs()
		if drift.GreaterThan(two) {
			t.Fatalf("residual %s split %+v drifts by %s", a.Residual, a.Split, drift)
		}
	}
}

func TestAllocateHousehold(t *testing.T) {
	h := model.Household{
		Income:   model.Income{Self: d("8000000"), Partner: d("2000000")},
		Expenses: []model.MandatoryExpense{{Name: "Rent", Amount: d("3000000")}, {Name: "Utilities", Amount: d("500000")}},
		Loans:    []model.Loan{{Principal: d("10000000"), MonthlyPayment: d("1500000"), TermMonths: 12}},
	}
	a := AllocateHousehold(h)
	if !a.Residual.Equal(d("5000000")) {
		t.Fatalf("Residual = %s, want 5000000", a.Residual)
	}
	if !a.Split.AcceleratorPool.Equal(d("1000000")) {
		t.Fatalf("AcceleratorPool = %s, want 1000000", a.Split.AcceleratorPool)
	}
}
