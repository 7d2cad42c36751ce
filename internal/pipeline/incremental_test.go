package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/halos/internal/store"
)

func TestFingerprintStable(t *testing.T) {
	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.Local)
	opts := mustOptions(t, "", "", start)

	a, err := Fingerprint(demoHousehold(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint(demoHousehold(), opts)
	if a != b {
		t.Fatalf("fingerprints differ for equal input: %s vs %s", a, b)
	}

	changed := demoHousehold()
	changed.Loans[0].MonthlyPayment = d("450000")
	c, _ := Fingerprint(changed, opts)
	if c == a {
		t.Fatal("changing a payment did not change the fingerprint")
	}

	other, _ := Fingerprint(demoHousehold(), mustOptions(t, "snowball", "", start))
	if other == a {
		t.Fatal("changing the strategy did not change the fingerprint")
	}
}

func TestPlanWithCache(t *testing.T) {
	hist, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = hist.Close() }()

	opts := mustOptions(t, "", "term", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.Local))

	first, err := PlanWithCache(demoHousehold(), opts, hist)
	if err != nil {
		t.Fatalf("PlanWithCache: %v", err)
	}
	if first.CacheHit {
		t.Fatal("first run reported a cache hit")
	}

	second, err := PlanWithCache(demoHousehold(), opts, hist)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.RunID != first.RunID {
		t.Fatalf("second run = hit %v id %s, want hit with %s", second.CacheHit, second.RunID, first.RunID)
	}
	if !second.Plan.Totals.InterestSaved.Equal(first.Plan.Totals.InterestSaved) {
		t.Fatalf("cached InterestSaved = %s, want %s", second.Plan.Totals.InterestSaved, first.Plan.Totals.InterestSaved)
	}
	if second.Plan.ExitDate != first.Plan.ExitDate || second.Plan.Nominal != "term" {
		t.Fatalf("cached plan differs: %+v", second.Plan)
	}

	n, err := hist.Count()
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1", n, err)
	}
}
