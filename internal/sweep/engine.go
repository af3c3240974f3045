// Package sweep solves one pallet model per candidate slot count and ranks
// the outcomes.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/guimove/palletfit/internal/model"
	"github.com/guimove/palletfit/internal/palletize"
)

// Planner solves a single instance.
type Planner interface {
	Plan(ctx context.Context, params model.Parameters) (*model.Solution, error)
}

// Engine runs independent plans concurrently.
type Engine struct {
	Planner     Planner
	Parallelism int
	Logger      *zap.Logger
}

// NewEngine creates a sweep engine.
func NewEngine(planner Planner, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Planner:     planner,
		Parallelism: runtime.NumCPU(),
		Logger:      logger,
	}
}

// Scenario is one candidate instance of a sweep.
type Scenario struct {
	Name   string
	Params model.Parameters
}

// Scenarios derives one scenario per slot count from base.
func Scenarios(base model.Parameters, slotCounts []int) []Scenario {
	scenarios := make([]Scenario, 0, len(slotCounts))
	seen := make(map[int]bool, len(slotCounts))
	for _, k := range slotCounts {
		if seen[k] {
			continue
		}
		seen[k] = true
		p := base
		p.SlotCount = k
		scenarios = append(scenarios, Scenario{Name: fmt.Sprintf("k=%d", k), Params: p})
	}
	return scenarios
}

// SlotRange returns the slot counts from lo to hi inclusive.
func SlotRange(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	ks := make([]int, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		ks = append(ks, k)
	}
	return ks
}

// RunAll executes all scenarios and returns the ranked entries. Infeasible
// candidates are kept in the result.
func (e *Engine) RunAll(ctx context.Context, base model.Parameters, scenarios []Scenario) (*model.SweepResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no sweep scenarios provided")
	}
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	parallelism := e.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	start := time.Now()
	entries := make([]model.SweepEntry, len(scenarios))

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, scenario Scenario) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			entries[idx] = e.runOne(ctx, scenario)
			log.Debug("sweep candidate done",
				zap.String("scenario", scenario.Name),
				zap.String("status", string(entries[idx].Status)))
		}(i, sc)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &model.SweepResult{
		Parameters: base,
		Entries:    Rank(entries),
		Duration:   time.Since(start),
	}
	if _, ok := result.Best(); !ok {
		log.Warn("no feasible slot count in sweep", zap.Int("candidates", len(entries)))
	}
	return result, nil
}

// runOne plans a single scenario and classifies the outcome.
func (e *Engine) runOne(ctx context.Context, scenario Scenario) model.SweepEntry {
	start := time.Now()
	entry := model.SweepEntry{SlotCount: scenario.Params.SlotCount}

	sol, err := e.Planner.Plan(ctx, scenario.Params)
	entry.Duration = time.Since(start)
	switch {
	case err == nil:
		entry.Status = model.SweepOptimal
		entry.Solution = sol
	case errors.Is(err, palletize.ErrInfeasibleModel):
		entry.Status = model.SweepInfeasible
	default:
		entry.Status = model.SweepFailed
		entry.Error = err.Error()
	}
	return entry
}
