package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

const planBody = `{
  "household": {
    "name": "Demo",
    "currency": "UZS",
    "income": {"self": 8500000, "partner": 2000000},
    "expenses": [{"name": "Rent", "amount": 3600000}],
    "loans": [
      {"name": "Car", "principal": 10000000, "monthly_payment": 400000, "annual_rate": 24, "term_months": 36},
      {"name": "Phone", "principal": 3000000, "monthly_payment": 300000, "annual_rate": 30, "term_months": 12}
    ]
  },
  "start": "2026-02"
}`

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestAllocateEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := post(t, s.Handler(), "/v1/allocate", `{"income": 10000000, "mandatory_expenses": 3000000, "loan_payments": 2000000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}

	var alloc model.Allocation
	if err := json.Unmarshal(rec.Body.Bytes(), &alloc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !alloc.Residual.Equal(money.MustParse("5000000")) {
		t.Fatalf("Residual = %s, want 5000000", alloc.Residual)
	}
	if !alloc.Split.Living.Equal(money.MustParse("3500000")) {
		t.Fatalf("Living = %s, want 3500000", alloc.Split.Living)
	}
	if alloc.IsDeficit() {
		t.Fatal("unexpected deficit")
	}
}

func TestAllocateRejectsNegativeAndUnknownFields(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	h := s.Handler()

	for _, body := range []string{
		`{"income": -1}`,
		`{"income": 100, "salary": 5}`,
		`not json`,
	} {
		rec := post(t, h, "/v1/allocate", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: code = %d, want 400", body, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp["error"] == "" {
			t.Fatalf("%s: body %q has no error field", body, rec.Body.String())
		}
	}
}

func TestSimulateEndpointWithSchedule(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := post(t, s.Handler(), "/v1/simulate", `{
		"loan": {"name": "Flat", "principal": 1200, "monthly_payment": 100, "annual_rate": 0, "term_months": 12},
		"extra": 0,
		"schedule": true
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp simulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Result.Months != 12 {
		t.Fatalf("Months = %d, want 12", resp.Result.Months)
	}
	if len(resp.Schedule) != 12 {
		t.Fatalf("schedule rows = %d, want 12", len(resp.Schedule))
	}
}

func TestSimulateRejectsInvalidLoan(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := post(t, s.Handler(), "/v1/simulate", `{"loan": {"principal": 0, "monthly_payment": 100, "annual_rate": 5, "term_months": 12}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), model.ErrInvalidLoan.Error()) {
		t.Fatalf("body = %s, want invalid loan error", rec.Body.String())
	}
}

func TestPlanEndpointCachesAndRecords(t *testing.T) {
	hist := &fakeHistory{}
	s := newTestService(t, Config{}, hist)
	h := s.Handler()

	first := post(t, h, "/v1/plan", planBody)
	if first.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", first.Code, first.Body.String())
	}
	if got := first.Header().Get("X-Halos-Cache"); got != "miss" {
		t.Fatalf("first X-Halos-Cache = %q, want miss", got)
	}

	var plan model.FreedomPlan
	if err := json.Unmarshal(first.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if plan.Mode != model.ModeDebt {
		t.Fatalf("Mode = %s, want debt", plan.Mode)
	}
	if !plan.Allocation.Split.AcceleratorPool.Equal(money.MustParse("1240000")) {
		t.Fatalf("AcceleratorPool = %s, want 1240000", plan.Allocation.Split.AcceleratorPool)
	}
	if plan.Strategy != "equal" {
		t.Fatalf("Strategy = %q, want equal", plan.Strategy)
	}

	second := post(t, h, "/v1/plan", planBody)
	if got := second.Header().Get("X-Halos-Cache"); got != "hit" {
		t.Fatalf("second X-Halos-Cache = %q, want hit", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("cached body differs from computed body")
	}

	if len(hist.runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(hist.runs))
	}
	if hist.runs[0].Household != "Demo" {
		t.Fatalf("recorded household = %q, want Demo", hist.runs[0].Household)
	}

	st := s.snapshotStatus()
	if st.Plans != 2 || st.CacheHits != 1 {
		t.Fatalf("Plans/CacheHits = %d/%d, want 2/1", st.Plans, st.CacheHits)
	}
	if st.EventCount != 2 {
		t.Fatalf("EventCount = %d, want 2", st.EventCount)
	}
}

func TestPlanEndpointUsesDaemonDefaults(t *testing.T) {
	s := newTestService(t, Config{Strategy: "avalanche"}, nil)
	rec := post(t, s.Handler(), "/v1/plan", planBody)

	var plan model.FreedomPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if plan.Strategy != "avalanche" {
		t.Fatalf("Strategy = %q, want avalanche", plan.Strategy)
	}
}

func TestPlanEndpointRejectsUnknownStrategy(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	body := strings.Replace(planBody, `"start": "2026-02"`, `"start": "2026-02", "strategy": "lottery"`, 1)
	rec := post(t, s.Handler(), "/v1/plan", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

type failingCache struct{}

func (failingCache) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errors.New("connection refused")
}

func TestPlanEndpointSurvivesCacheOutage(t *testing.T) {
	s := New(Config{}, failingCache{}, nil)
	t.Cleanup(s.Close)

	rec := post(t, s.Handler(), "/v1/plan", planBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if s.snapshotStatus().LastError == "" {
		t.Fatal("LastError empty after cache failure")
	}
}

func TestImpactEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := post(t, s.Handler(), "/v1/impact", `{
		"loan": {"name": "Bank", "principal": 1000000, "monthly_payment": 100000, "annual_rate": 0, "term_months": 10},
		"income": 5000000
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}

	var reports []model.ImpactReport
	if err := json.Unmarshal(rec.Body.Bytes(), &reports); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if reports[0].Impact.DangerLevel != 15 || reports[0].Impact.DangerTier != model.TierAcceptable {
		t.Fatalf("danger = %d/%s, want 15/acceptable", reports[0].Impact.DangerLevel, reports[0].Impact.DangerTier)
	}

	missing := post(t, s.Handler(), "/v1/impact", `{"income": 5}`)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("empty impact code = %d, want 400", missing.Code)
	}
}

func TestCompareEndpoint(t *testing.T) {
	s := newTestService(t, Config{Workers: 2}, nil)
	rec := post(t, s.Handler(), "/v1/compare", planBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}

	var entries []compareEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Strategy] = true
		if e.Plan.Strategy != e.Strategy {
			t.Fatalf("entry %s carries plan for %s", e.Strategy, e.Plan.Strategy)
		}
	}
	for _, name := range []string{"equal", "avalanche", "snowball"} {
		if !seen[name] {
			t.Fatalf("compare missing strategy %s", name)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plan", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rec.Code)
	}
}
