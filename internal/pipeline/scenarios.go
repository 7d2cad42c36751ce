package pipeline

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
)

// Scenario is one household evaluated under one set of options.
type Scenario struct {
	Name      string
	Household model.Household
	Options   Options
}

// ScenarioResult pairs a scenario with its plan.
type ScenarioResult struct {
	Scenario Scenario
	Plan     model.FreedomPlan
}

// ProgressFunc is called as scenarios complete.
// current is the number evaluated so far, total is the batch size.
type ProgressFunc func(current, total int)

// EvaluateScenarios builds a plan per scenario on a bounded worker pool.
// Results keep the input order. workers < 1 uses GOMAXPROCS.
func EvaluateScenarios(ctx context.Context, scenarios []Scenario, workers int, progressFn ProgressFunc) ([]ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, nil
	}

	numWorkers := workers
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	results := make([]ScenarioResult, len(scenarios))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range scenarios {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				sc := scenarios[idx]
				results[idx] = ScenarioResult{Scenario: sc, Plan: BuildFreedomPlan(sc.Household, sc.Options)}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// StrategyScenarios evaluates one household under every built-in strategy.
func StrategyScenarios(h model.Household, base Options) []Scenario {
	names := engine.StrategyNames()
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, _ := engine.StrategyByName(name)
		opts := base
		opts.StrategyName = name
		opts.Strategy = s
		out = append(out, Scenario{Name: name, Household: h, Options: opts})
	}
	return out
}
