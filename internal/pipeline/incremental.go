package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/store"
)

// CachedPlan is a plan together with where it came from.
type CachedPlan struct {
	Plan     model.FreedomPlan
	RunID    string
	CacheHit bool
}

type fingerprintKey struct {
	Household model.Household
	Strategy  string
	Nominal   string
	Start     string
}

// Fingerprint identifies a (household, options) pair. Decimals hash by
// their string form so equal inputs give equal fingerprints.
func Fingerprint(h model.Household, opts Options) (string, error) {
	key := fingerprintKey{
		Household: h,
		Strategy:  opts.strategyName(),
		Nominal:   string(opts.convention()),
		Start:     planStart(h, opts).Format("2006-01"),
	}
	sum, err := hashstructure.Hash(key, hashstructure.FormatV2, &hashstructure.HashOptions{UseStringer: true})
	if err != nil {
		return "", fmt.Errorf("hashing household: %w", err)
	}
	return strconv.FormatUint(sum, 16), nil
}

// PlanWithCache returns the stored plan for identical inputs, or builds
// the plan and records it as a new run.
func PlanWithCache(h model.Household, opts Options, hist *store.History) (*CachedPlan, error) {
	fp, err := Fingerprint(h, opts)
	if err != nil {
		return nil, err
	}

	run, err := hist.LatestForFingerprint(fp)
	switch {
	case err == nil:
		var plan model.FreedomPlan
		if jerr := json.Unmarshal(run.Report, &plan); jerr == nil {
			return &CachedPlan{Plan: plan, RunID: run.ID, CacheHit: true}, nil
		}
		// unreadable report: recompute below
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("reading history: %w", err)
	}

	plan := BuildFreedomPlan(h, opts)
	id, err := RecordRun(hist, fp, plan)
	if err != nil {
		return nil, err
	}
	return &CachedPlan{Plan: plan, RunID: id}, nil
}

// RunSaver stores plan runs.
type RunSaver interface {
	SaveRun(r store.Run) (string, error)
}

// RecordRun stores a computed plan under its fingerprint.
func RecordRun(hist RunSaver, fingerprint string, plan model.FreedomPlan) (string, error) {
	report, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	return hist.SaveRun(store.Run{
		Fingerprint:   fingerprint,
		Household:     plan.Household,
		Strategy:      plan.Strategy,
		Nominal:       plan.Nominal,
		Mode:          string(plan.Mode),
		Income:        plan.Income,
		Residual:      plan.Allocation.Residual,
		InterestSaved: plan.Totals.InterestSaved,
		MonthsSaved:   plan.Totals.MonthsSaved,
		ExitDate:      plan.ExitDate,
		Report:        report,
	})
}
