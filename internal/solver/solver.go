// Package solver runs mip.Problem instances through a combinatorial
// optimization engine.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/guimove/palletfit/internal/mip"
)

// Status is the terminal state reported by a solver.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusError      Status = "error"
)

// ErrSolverUnavailable is returned when the engine is missing, misconfigured
// or crashed.
var ErrSolverUnavailable = errors.New("solver unavailable")

// Solver abstracts a blocking, all-or-nothing optimization engine.
type Solver interface {
	// Solve optimizes p. Values holds an entry for every variable when
	// the status is StatusOptimal.
	Solve(ctx context.Context, p *mip.Problem, opts ...Option) (*Result, error)

	// Name returns the backend name.
	Name() string
}

// Result is the raw outcome of a solve.
type Result struct {
	Status    Status             `json:"status"`
	Values    map[string]float64 `json:"values,omitempty"`
	Objective float64            `json:"objective"`
	Nodes     int                `json:"nodes"`
	Duration  time.Duration      `json:"duration"`
	Message   string             `json:"message,omitempty"`
}

// Options tunes a single solve. Backends ignore options they cannot honor.
type Options struct {
	Hint      map[string]float64
	NodeLimit int
}

// Option configures Options.
type Option func(*Options)

// WithHint seeds the search with a known assignment. Infeasible hints are
// ignored.
func WithHint(values map[string]float64) Option {
	return func(o *Options) { o.Hint = values }
}

// WithNodeLimit caps the number of explored search nodes (0 = unlimited).
func WithNodeLimit(n int) Option {
	return func(o *Options) { o.NodeLimit = n }
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
