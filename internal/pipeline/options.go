package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/halos/internal/engine"
)

// Options selects how a plan is computed.
type Options struct {
	StrategyName string
	Strategy     engine.Strategy
	Nominal      engine.Convention
	// Start is the first month of the plan. Zero falls back to the
	// household's start month, then to the current month.
	Start time.Time
}

// NewOptions resolves strategy and convention names from flags or config.
func NewOptions(strategy, nominal string, start time.Time) (Options, error) {
	s, err := engine.StrategyByName(strategy)
	if err != nil {
		return Options{}, err
	}
	conv, err := engine.ParseConvention(nominal)
	if err != nil {
		return Options{}, err
	}
	if strategy == "" {
		strategy = engine.StrategyEqual
	}
	return Options{StrategyName: strategy, Strategy: s, Nominal: conv, Start: start}, nil
}

func (o Options) strategyName() string {
	if o.StrategyName == "" {
		return engine.StrategyEqual
	}
	return o.StrategyName
}

func (o Options) convention() engine.Convention {
	if o.Nominal == "" {
		return engine.RunToZero
	}
	return o.Nominal
}

// ParseMonth parses a YYYY-MM month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return t, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
