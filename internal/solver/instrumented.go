package solver

import (
	"context"
	"time"

	"github.com/guimove/palletfit/internal/metrics"
	"github.com/guimove/palletfit/internal/mip"
)

// Instrumented records every solve of Next in Metrics.
type Instrumented struct {
	Next    Solver
	Metrics *metrics.SolverMetrics
}

// Name returns the wrapped backend name.
func (s *Instrumented) Name() string { return s.Next.Name() }

// Solve delegates to Next and records the outcome.
func (s *Instrumented) Solve(ctx context.Context, p *mip.Problem, opts ...Option) (*Result, error) {
	start := time.Now()
	res, err := s.Next.Solve(ctx, p, opts...)
	status := string(StatusError)
	nodes := 0
	if err == nil && res != nil {
		status = string(res.Status)
		nodes = res.Nodes
	}
	s.Metrics.Observe(s.Next.Name(), status, time.Since(start), nodes)
	return res, err
}
