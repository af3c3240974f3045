package solver

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/palletfit/internal/metrics"
)

func TestInstrumented_RecordsStatus(t *testing.T) {
	reg := metrics.NewRegistry()
	s := &Instrumented{Next: NewBranchAndBound(), Metrics: metrics.NewSolverMetrics(reg)}

	assert.Equal(t, "bnb", s.Name())
	res, err := s.Solve(context.Background(), knapsack())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	n, err := testutil.GatherAndCount(reg, "palletfit_solver_solves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
