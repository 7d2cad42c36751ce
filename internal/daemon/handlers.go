package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/pipeline"
)

const (
	maxBodyBytes = 1 << 20
	cacheHeader  = "X-Halos-Cache"
)

var (
	// ErrRateLimited is returned to clients that exhausted their tokens.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBadRequest marks request bodies the API cannot use.
	ErrBadRequest = errors.New("bad request")
)

type allocateRequest struct {
	Income            decimal.Decimal `json:"income"`
	MandatoryExpenses decimal.Decimal `json:"mandatory_expenses"`
	LoanPayments      decimal.Decimal `json:"loan_payments"`
}

type simulateRequest struct {
	Loan     model.Loan      `json:"loan"`
	Extra    decimal.Decimal `json:"extra"`
	Schedule bool            `json:"schedule"`
}

type simulateResponse struct {
	Result   model.AmortizationResult `json:"result"`
	Schedule []model.ScheduleRow      `json:"schedule,omitempty"`
}

type planRequest struct {
	Household model.Household `json:"household"`
	Strategy  string          `json:"strategy"`
	Nominal   string          `json:"nominal"`
	Start     string          `json:"start"` // YYYY-MM
}

type impactRequest struct {
	Loan      *model.Loan      `json:"loan,omitempty"`
	Income    decimal.Decimal  `json:"income"`
	Household *model.Household `json:"household,omitempty"`
}

type compareEntry struct {
	Strategy string            `json:"strategy"`
	Plan     model.FreedomPlan `json:"plan"`
}

func (s *Service) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Income.IsNegative() || req.MandatoryExpenses.IsNegative() || req.LoanPayments.IsNegative() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: amounts cannot be negative", ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, engine.Allocate(req.Income, req.MandatoryExpenses, req.LoanPayments))
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.Loan.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Extra.IsNegative() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: extra payment cannot be negative", ErrBadRequest))
		return
	}

	resp := simulateResponse{Result: engine.Simulate(req.Loan, req.Extra)}
	if req.Schedule {
		resp.Schedule = engine.Schedule(req.Loan, req.Extra)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts, err := s.planOptions(req.Household, req.Strategy, req.Nominal, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fp, err := pipeline.Fingerprint(req.Household, opts)
	if err != nil {
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	ctx := r.Context()
	if cached, cerr := s.cache.Get(ctx, fp); cerr == nil {
		var plan model.FreedomPlan
		if json.Unmarshal(cached, &plan) == nil {
			s.mu.Lock()
			s.plans++
			s.cacheHits++
			s.mu.Unlock()
			s.publishPlan(plan, true)

			w.Header().Set(cacheHeader, "hit")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	} else if !errors.Is(cerr, ErrCacheMiss) {
		s.recordError(fmt.Errorf("reading plan cache: %w", cerr))
	}

	plan := pipeline.BuildFreedomPlan(req.Household, opts)
	body, err := json.Marshal(plan)
	if err != nil {
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.cache.Set(ctx, fp, body, s.cfg.CacheTTL); err != nil {
		s.recordError(fmt.Errorf("writing plan cache: %w", err))
	}
	if s.history != nil {
		if _, err := pipeline.RecordRun(s.history, fp, plan); err != nil {
			s.recordError(fmt.Errorf("recording run: %w", err))
		}
	}

	s.mu.Lock()
	s.plans++
	s.mu.Unlock()
	s.publishPlan(plan, false)

	w.Header().Set(cacheHeader, "miss")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Service) handleImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var reports []model.ImpactReport
	switch {
	case req.Household != nil:
		if err := req.Household.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		reports = pipeline.ImpactReports(*req.Household)
	case req.Loan != nil:
		if err := req.Loan.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Income.IsNegative() {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: income cannot be negative", ErrBadRequest))
			return
		}
		reports = []model.ImpactReport{pipeline.BuildImpactReport(*req.Loan, req.Income)}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: loan or household required", ErrBadRequest))
		return
	}

	for _, rep := range reports {
		s.publishEvent(Event{
			Type:          "impact",
			Loan:          rep.Loan.Name,
			InterestSaved: decimal.Zero,
			DangerLevel:   rep.Impact.DangerLevel,
		})
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts, err := s.planOptions(req.Household, "", req.Nominal, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := pipeline.EvaluateScenarios(r.Context(), pipeline.StrategyScenarios(req.Household, opts), s.cfg.Workers, nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	out := make([]compareEntry, len(results))
	for i, res := range results {
		out[i] = compareEntry{Strategy: res.Scenario.Name, Plan: res.Plan}
	}
	writeJSON(w, http.StatusOK, out)
}

// planOptions validates the household and resolves options, falling back
// to the daemon defaults for empty names.
func (s *Service) planOptions(h model.Household, strategy, nominal, start string) (pipeline.Options, error) {
	if err := h.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	if strategy == "" {
		strategy = s.cfg.Strategy
	}
	if nominal == "" {
		nominal = s.cfg.Nominal
	}
	var startAt time.Time
	if start != "" {
		t, err := pipeline.ParseMonth(start)
		if err != nil {
			return pipeline.Options{}, err
		}
		startAt = t
	}
	return pipeline.NewOptions(strategy, nominal, startAt)
}

func (s *Service) publishPlan(plan model.FreedomPlan, hit bool) {
	s.publishEvent(Event{
		Type:          "plan",
		Household:     plan.Household,
		Mode:          string(plan.Mode),
		MonthsSaved:   plan.Totals.MonthsSaved,
		InterestSaved: plan.Totals.InterestSaved,
		CacheHit:      hit,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
