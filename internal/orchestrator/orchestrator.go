package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/guimove/palletfit/internal/cache"
	"github.com/guimove/palletfit/internal/config"
	"github.com/guimove/palletfit/internal/metrics"
	"github.com/guimove/palletfit/internal/mip"
	"github.com/guimove/palletfit/internal/model"
	"github.com/guimove/palletfit/internal/palletize"
	"github.com/guimove/palletfit/internal/report"
	"github.com/guimove/palletfit/internal/solver"
	"github.com/guimove/palletfit/internal/sweep"
)

// Orchestrator coordinates the plan pipeline: configure solver, plan,
// report.
type Orchestrator struct {
	Config config.Config
	Writer io.Writer
	Logger *zap.Logger

	// ConfigFile is the config file the run was loaded from, if any.
	ConfigFile string

	// Registry receives solver metrics; nil disables them.
	Registry *prometheus.Registry

	// Cache short-circuits solves seen before; nil disables it.
	Cache *cache.FileCache

	metricsOnce   sync.Once
	solverMetrics *metrics.SolverMetrics
}

// New creates an orchestrator with the given dependencies.
func New(cfg config.Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		Config: cfg,
		Writer: os.Stdout,
		Logger: logger,
	}
	if cfg.Metrics.Enabled {
		o.Registry = metrics.NewRegistry()
	}
	if cfg.Cache.Dir != "" {
		o.Cache = cache.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL)
	}
	return o
}

// NewSolver returns the backend configured for params. The "auto" backend
// keeps small models in process and sends larger ones to the executable.
func (o *Orchestrator) NewSolver(params model.Parameters) (solver.Solver, error) {
	sc := o.Config.Solver
	backend := sc.Backend
	if backend == config.BackendAuto {
		backend = config.BackendBnB
		if params.ItemCount*params.SlotCount > sc.AutoMaxAssignments {
			backend = config.BackendExec
		}
	}

	var s solver.Solver
	switch backend {
	case config.BackendBnB:
		s = solver.NewBranchAndBound()
	case config.BackendExec:
		e := solver.NewExec(sc.Executable)
		if len(sc.Args) > 0 {
			e.Args = sc.Args
		}
		e.WorkDir = sc.WorkDir
		s = e
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", solver.ErrSolverUnavailable, sc.Backend)
	}

	if o.Registry != nil {
		o.metricsOnce.Do(func() {
			o.solverMetrics = metrics.NewSolverMetrics(o.Registry)
		})
		s = &solver.Instrumented{Next: s, Metrics: o.solverMetrics}
	}
	return s, nil
}

// Plan solves a single instance with the configured backend, consulting
// the cache first when one is set.
func (o *Orchestrator) Plan(ctx context.Context, params model.Parameters) (*model.Solution, error) {
	s, err := o.NewSolver(params)
	if err != nil {
		return nil, err
	}

	var key string
	if o.Cache != nil {
		key = cache.Key(params, s.Name())
		if sol, ok := o.Cache.Get(key); ok {
			o.Logger.Debug("using cached plan",
				zap.String("key", key),
				zap.Int("slots", params.SlotCount))
			return sol, nil
		}
	}

	pl := palletize.NewPlanner(s, o.Logger)
	pl.Timeout = o.Config.Solver.Timeout
	pl.Tolerance = o.Config.Solver.Tolerance
	pl.NodeLimit = o.Config.Solver.NodeLimit
	sol, err := pl.Plan(ctx, params)
	if err != nil {
		return nil, err
	}

	if o.Cache != nil {
		if err := o.Cache.Set(key, sol); err != nil {
			o.Logger.Warn("caching plan failed", zap.Error(err))
		}
	}
	return sol, nil
}

// Solve plans the configured instance and writes the report.
func (o *Orchestrator) Solve(ctx context.Context) (*model.Solution, error) {
	params := o.Config.Parameters()
	_, _ = fmt.Fprintf(o.Writer, "Planning %d items over %d slots (size limit %d)...\n",
		params.ItemCount, params.SlotCount, params.SizeLimit)

	sol, err := o.Plan(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}

	reporter := report.NewReporter(o.Config.Output.Format, o.Writer)
	meta := report.ReportMeta{
		GeneratedAt: time.Now(),
		Backend:     sol.Backend,
		ConfigFile:  o.ConfigFile,
	}
	if err := reporter.ReportSolution(ctx, sol, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return sol, nil
}

// Sweep plans the configured instance once per slot count and writes the
// ranked report. An empty slotCounts sweeps 1..sweep.max_slots, or
// 1..pallets.slot_count when max_slots is unset.
func (o *Orchestrator) Sweep(ctx context.Context, slotCounts []int) (*model.SweepResult, error) {
	params := o.Config.Parameters()
	if len(slotCounts) == 0 {
		hi := o.Config.Sweep.MaxSlots
		if hi == 0 {
			hi = params.SlotCount
		}
		slotCounts = sweep.SlotRange(1, hi)
	}
	_, _ = fmt.Fprintf(o.Writer, "Sweeping %d slot counts for %d items...\n", len(slotCounts), params.ItemCount)

	engine := sweep.NewEngine(o, o.Logger)
	if o.Config.Sweep.Parallelism > 0 {
		engine.Parallelism = o.Config.Sweep.Parallelism
	}
	res, err := engine.RunAll(ctx, params, sweep.Scenarios(params, slotCounts))
	if err != nil {
		return nil, fmt.Errorf("running sweep: %w", err)
	}

	reporter := report.NewReporter(o.Config.Output.Format, o.Writer)
	monotone := sweep.NonIncreasing(res.Entries)
	meta := report.ReportMeta{
		GeneratedAt: time.Now(),
		Backend:     o.Config.Solver.Backend,
		ConfigFile:  o.ConfigFile,
		Monotone:    &monotone,
	}
	if err := reporter.ReportSweep(ctx, res, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return res, nil
}

// WriteModel writes the configured instance as an LP file.
func (o *Orchestrator) WriteModel(w io.Writer) error {
	f, err := palletize.Build(o.Config.Parameters())
	if err != nil {
		return err
	}
	return mip.WriteLP(w, f.Problem)
}

func (o *Orchestrator) writeMetrics() error {
	if o.Registry == nil {
		return nil
	}
	_, _ = fmt.Fprintf(o.Writer, "\n")
	if err := metrics.WriteText(o.Writer, o.Registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
