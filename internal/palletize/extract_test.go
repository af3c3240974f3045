package palletize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/palletfit/internal/model"
)

// hintFor builds the model and its greedy assignment.
func hintFor(t *testing.T, p model.Parameters) (*Formulation, map[string]float64) {
	t.Helper()
	f, err := Build(p)
	require.NoError(t, err)
	hint, ok := Hint(p)
	require.True(t, ok, "no greedy assignment for %+v", p)
	return f, hint
}

func copyValues(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestExtract_EveryItemOnce(t *testing.T) {
	f, values := hintFor(t, model.DefaultParameters())

	sol, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, items := range sol.Allocation {
		for _, i := range items {
			assert.False(t, seen[i], "item %d placed twice", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, 100)
	assert.Equal(t, 5, sol.ActiveCount)
	assert.Equal(t, 20, sol.Capacity)
	assert.Zero(t, sol.Slack)
}

func TestExtract_CapacityAndActiveCount(t *testing.T) {
	p := params(2, 5, 4, 6)
	f, values := hintFor(t, p)

	sol, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)

	nonEmpty := 0
	for _, items := range sol.Allocation {
		if len(items) > 0 {
			nonEmpty++
		}
		assert.LessOrEqual(t, float64(len(items))*p.UnitVolume(), float64(sol.Capacity))
	}
	assert.Equal(t, nonEmpty, sol.ActiveCount)
	assert.Equal(t, []int{0, 1}, sol.ActiveSlots)
	assert.Equal(t, []int{0, 1, 2}, sol.Allocation[0])
	assert.Equal(t, 2.0, sol.Slack)
	assert.Equal(t, 100.0, sol.Objective)
}

func TestExtract_Idempotent(t *testing.T) {
	f, values := hintFor(t, params(1, 7, 3, 4))
	before := copyValues(values)

	a, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)
	b, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, before, values, "input must not be mutated")
}

func TestExtract_RoundsWithinTolerance(t *testing.T) {
	f, values := hintFor(t, params(1, 4, 2, 10))
	values[ActiveName(0)] = 0.9999995
	values[AssignName(2, 0)] = 1.0000004
	values[AssignName(2, 1)] = 3e-7
	values[VarCapacity] = 4.0000001

	sol, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, sol.Allocation[0])
	assert.Equal(t, 4, sol.Capacity)
}

func TestExtract_ZeroItems(t *testing.T) {
	f, values := hintFor(t, params(1, 0, 3, 10))

	sol, err := Extract(f, values, DefaultTolerance)
	require.NoError(t, err)
	assert.Zero(t, sol.ActiveCount)
	assert.Empty(t, sol.Allocation)
	assert.Empty(t, sol.ActiveSlots)
	assert.Zero(t, sol.Slack)
}

func TestExtract_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]float64)
	}{
		{"missing variable", func(v map[string]float64) { delete(v, VarSlack) }},
		{"fractional binary", func(v map[string]float64) { v[AssignName(0, 0)] = 0.5 }},
		{"unassigned item", func(v map[string]float64) { v[AssignName(0, 0)] = 0 }},
		{"item in two slots", func(v map[string]float64) { v[AssignName(0, 1)] = 1 }},
		{"item in inactive slot", func(v map[string]float64) {
			v[AssignName(3, 0)] = 0
			v[AssignName(3, 1)] = 1
		}},
		{"over capacity", func(v map[string]float64) {
			v[VarCapacity] = 3
			v[VarSlack] = -1
		}},
		{"active count mismatch", func(v map[string]float64) { v[VarActiveCount] = 2 }},
		{"slack mismatch", func(v map[string]float64) { v[VarSlack] = 3 }},
		{"capacity out of bounds", func(v map[string]float64) { v[VarCapacity] = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, values := hintFor(t, params(1, 4, 2, 10))
			tt.mutate(values)
			_, err := Extract(f, values, DefaultTolerance)
			assert.True(t, errors.Is(err, ErrValidationFailure), "got %v", err)
		})
	}
}
