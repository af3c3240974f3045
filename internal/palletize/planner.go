package palletize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/guimove/palletfit/internal/model"
	"github.com/guimove/palletfit/internal/solver"
)

// Planner runs the validate, build, solve and extract pipeline for one
// instance.
type Planner struct {
	Solver    solver.Solver
	Logger    *zap.Logger
	Timeout   time.Duration // 0 = bounded by ctx only
	Tolerance float64       // 0 = DefaultTolerance
	NodeLimit int           // 0 = backend default

	// NoHint disables the greedy incumbent.
	NoHint bool
}

// NewPlanner creates a planner around s.
func NewPlanner(s solver.Solver, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{Solver: s, Logger: logger, Tolerance: DefaultTolerance}
}

// Plan finds the minimum number of pallets for params.
func (p *Planner) Plan(ctx context.Context, params model.Parameters) (*model.Solution, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if p.Solver == nil {
		return nil, fmt.Errorf("%w: no solver configured", ErrSolverUnavailable)
	}

	f, err := Build(params)
	if err != nil {
		return nil, err
	}
	log = log.With(
		zap.String("backend", p.Solver.Name()),
		zap.Int("items", params.ItemCount),
		zap.Int("slots", params.SlotCount),
		zap.Int("size_limit", params.SizeLimit),
	)

	var opts []solver.Option
	if p.NodeLimit > 0 {
		opts = append(opts, solver.WithNodeLimit(p.NodeLimit))
	}
	if !p.NoHint {
		if hint, ok := Hint(f.Params); ok {
			opts = append(opts, solver.WithHint(hint))
			log.Debug("greedy hint",
				zap.Float64("capacity", hint[VarCapacity]),
				zap.Float64("pallets", hint[VarActiveCount]))
		}
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	log.Debug("solving",
		zap.Int("variables", f.Problem.NumVars()),
		zap.Int("constraints", len(f.Problem.Constraints())))
	start := time.Now()
	res, err := p.Solver.Solve(ctx, f.Problem, opts...)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("solve failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, classify(err)
	}

	switch res.Status {
	case solver.StatusOptimal:
	case solver.StatusInfeasible:
		log.Info("model infeasible", zap.Duration("elapsed", elapsed))
		return nil, fmt.Errorf("%w: %d items, %d slots, size limit %d",
			ErrInfeasibleModel, params.ItemCount, params.SlotCount, params.SizeLimit)
	default:
		msg := res.Message
		if msg == "" {
			msg = string(res.Status)
		}
		return nil, fmt.Errorf("%w: %s", ErrSolverUnavailable, msg)
	}

	tol := p.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	sol, err := Extract(f, res.Values, tol)
	if err != nil {
		log.Error("invalid solution", zap.Error(err))
		return nil, err
	}
	sol.Backend = p.Solver.Name()
	sol.Nodes = res.Nodes
	sol.SolveDuration = elapsed

	log.Info("solved",
		zap.Int("pallets", sol.ActiveCount),
		zap.Int("capacity", sol.Capacity),
		zap.Float64("slack", sol.Slack),
		zap.Int("nodes", res.Nodes),
		zap.Duration("elapsed", elapsed))
	return sol, nil
}

// classify maps a solver error onto the package's error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrSolverTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("solve cancelled: %w", err)
	case errors.Is(err, ErrSolverUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
}
