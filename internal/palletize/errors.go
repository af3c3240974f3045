package palletize

import (
	"errors"

	"github.com/guimove/palletfit/internal/solver"
)

var (
	// ErrInfeasibleModel is returned when the solver proves that no
	// assignment satisfies the constraints.
	ErrInfeasibleModel = errors.New("model is infeasible")

	// ErrSolverUnavailable covers a missing, misconfigured or crashing
	// engine as well as unbounded or inconclusive outcomes.
	ErrSolverUnavailable = solver.ErrSolverUnavailable

	// ErrSolverTimeout is returned when the solve deadline expires.
	ErrSolverTimeout = errors.New("solver timed out")

	// ErrValidationFailure is returned when an extracted solution breaks
	// an invariant of the model.
	ErrValidationFailure = errors.New("solution failed validation")

	// ErrInvalidParameters is returned before any model is built.
	ErrInvalidParameters = errors.New("invalid parameters")
)
